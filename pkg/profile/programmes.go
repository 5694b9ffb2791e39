package profile

import "strings"

// programmeLength describes the overall and honours length of a degree in years.
type programmeLength struct {
	years        int
	honoursYears int
}

type programmeRule struct {
	match  func(programme string) bool
	length programmeLength
}

func contains(fragment string) func(string) bool {
	return func(programme string) bool { return strings.Contains(programme, fragment) }
}

func equals(name string) func(string) bool {
	return func(programme string) bool { return programme == name }
}

// Evaluated in order, first match wins
var programmeRules = []programmeRule{
	{match: contains("Bachelor of Science"), length: programmeLength{years: 4, honoursYears: 2}},
	{match: contains("Master in Mathematics"), length: programmeLength{years: 5, honoursYears: 3}},
	{match: contains("Master of Arts (Honours)"), length: programmeLength{years: 4, honoursYears: 2}},
	{match: equals("Master in Chemistry (Honours) Chemistry with Mathematics"), length: programmeLength{years: 5, honoursYears: 3}},
	{match: equals("Master in Physics (Honours) Mathematics and Theoretical Physics"), length: programmeLength{years: 5, honoursYears: 3}},
}

func lookupProgramme(programme string) (programmeLength, bool) {
	for _, rule := range programmeRules {
		if rule.match(programme) {
			return rule.length, true
		}
	}
	return programmeLength{}, false
}
