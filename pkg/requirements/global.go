package requirements

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/model"
)

const (
	messageYearNotInferred = "Year could not be inferred, student will require manual checking - flagged issues can be wrong"
	messageStudiedAbroad   = "Student studied abroad and will require manual checking - flagged issues can be wrong"
)

// MessageNoRequirements is reported for programmes without a rule set.
const MessageNoRequirements = "No programme requirements available"

// Codes containing any of these fragments indicate a period abroad
var studyAbroadFragments = []string{"J", "MTSAU", "MT30"}

// globalChecks run for every student before the programme rule set.
var globalChecks = []check{
	yearInferenceCheck,
	duplicatesCheck,
	provisionalPassesCheck,
	studyAbroadCheck,
}

func yearInferenceCheck(state checkState) (findings model.Findings) {
	if state.profile.CurrentHonoursYear > state.profile.ExpectedHonoursYears {
		findings.Miss(messageYearNotInferred)
	}
	return findings
}

func duplicatesCheck(state checkState) (findings model.Findings) {
	modules := state.profile.FullModuleList()
	counts := lo.CountValues(modules)
	duplicates := lo.Filter(lo.Uniq(modules), func(module string, _ int) bool {
		return counts[module] > 1
	})
	if len(duplicates) > 0 {
		findings.Miss("Student selected the following modules twice: " + strings.Join(duplicates, ", "))
	}
	return findings
}

func provisionalPassesCheck(state checkState) (findings model.Findings) {
	provisional := []struct {
		modules []string
		reason  string
	}{
		{state.profile.ZCoded, "z-coded"},
		{state.profile.Deferred, "deferred"},
		{state.profile.SCoded, "failed and s-coded"},
		{state.profile.AwaitingReassessment, "failed and are awaiting reassessment"},
	}
	for _, group := range provisional {
		if len(group.modules) == 0 {
			continue
		}
		findings.Advise(fmt.Sprintf(
			"Modules %v have been treated as passed even though they are %v - action may be required if these are failed",
			strings.Join(group.modules, " and "), group.reason,
		))
	}
	return findings
}

func studyAbroadCheck(state checkState) (findings model.Findings) {
	if state.evaluator.CountMatching(state.profile.FullModuleList(), studyAbroadFragments, false) > 0 {
		findings.Miss(messageStudiedAbroad)
	}
	return findings
}

//** Credit load

type creditLoadParams struct {
	// Modules needed per honours year, indexed from Year 1
	ModulesPerYear []int   `mapstructure:"modules_per_year"`
	CreditsPerYear float64 `mapstructure:"credits_per_year"`
}

// Credit sums are compared with this slack so that fractional credits adding up to the target pass
const creditTolerance = 1e-6

var defaultCreditLoad = creditLoadParams{
	ModulesPerYear: []int{8, 8, 7},
	CreditsPerYear: 120,
}

func creditLoadCheck(params creditLoadParams) check {
	return func(state checkState) (findings model.Findings) {
		profile := state.profile
		years := lo.Uniq(lo.Map(profile.HonoursModuleChoices, func(row model.ModuleRow, _ int) int { return row.HonoursYear }))
		slices.Sort(years)

		cell := func(year int) []model.ModuleRow {
			inYear := func(row model.ModuleRow, _ int) bool { return row.HonoursYear == year }
			return append(lo.Filter(profile.HonoursModuleChoices, inYear), lo.Filter(profile.PassedModuleTable, inYear)...)
		}

		//** Module counts
		for _, year := range years {
			if year < 1 || year > len(params.ModulesPerYear) {
				continue
			}
			rows := cell(year)
			required := params.ModulesPerYear[year-1]

			if len(rows) < required {
				hasCredits := lo.EveryBy(rows, func(row model.ModuleRow) bool { return row.Credits != nil })
				if !hasCredits || model.SumCredits(rows) < params.CreditsPerYear-creditTolerance {
					findings.Miss(fmt.Sprintf("Not collecting %v credits in %v", params.CreditsPerYear, model.YearLabel(year)))
				}
			} else if len(rows) > required && year == profile.CurrentHonoursYear {
				findings.Advise("Student is planning to overcredit, which requires permission")
			}
		}

		//** Semester split
		for _, year := range years {
			rows := cell(year)
			switch {
			case year == 1 || (year == 2 && profile.ExpectedHonoursYears == 3):
				s1, s2 := semesterCounts(rows, "")
				if s1 != 4 || s2 != 4 {
					findings.Advise("Not taking even credit split in " + model.YearLabel(year))
				}
			case year == 2:
				s1, s2 := semesterCounts(rows, "MT4599")
				if s1 != 4 || s2 != 3 {
					findings.Advise("Student is taking a high course load in second semester of final honours year so should ensure the majority of their project is completed before the start of S2")
				}
			case year == 3:
				s1, s2 := semesterCounts(rows, "MT5599")
				if !((s1 == 3 && s2 == 3) || (s1 == 4 && s2 == 2)) {
					findings.Advise("Student is taking a high course load second semester of final honours year (which may make project completion difficult)")
				}
			}
		}

		return findings
	}
}

// semesterCounts counts S1 and S2 rows, ignoring the excluded module.
func semesterCounts(rows []model.ModuleRow, excluded string) (int, int) {
	rows = lo.Filter(rows, func(row model.ModuleRow, _ int) bool { return row.ModuleCode != excluded })
	s1 := lo.CountBy(rows, func(row model.ModuleRow) bool { return row.Semester == model.SemesterOne })
	s2 := lo.CountBy(rows, func(row model.ModuleRow) bool { return row.Semester == model.SemesterTwo })
	return s1, s2
}
