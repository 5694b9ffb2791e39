package prerequisites

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/model"
)

const (
	letterOfAgreement = "Letter of Agreement"
	mscOnly           = "Students must have gained admission onto an MSc programme"
)

var (
	moduleCodePattern  = regexp.MustCompile(`[A-Z]{2}\d{4}`)
	corequisitePattern = regexp.MustCompile(`(?i)co-?requisite\s+([A-Z]{2}\d{4})`)
)

// countRule replaces the catalogue text of modules whose prerequisite is "n of a list".
type countRule struct {
	description string
	modules     []string
	min         int
}

var countRules = map[string]countRule{
	"MT5867": {
		description: "two of (MT3505, MT4003, MT4004, MT4512, MT4514, MT4515, MT4526)",
		modules:     []string{"MT3505", "MT4003", "MT4004", "MT4512", "MT4514", "MT4515", "MT4526"},
		min:         2,
	},
}

// Evaluator checks prerequisites and antirequisites of every planned module.
type Evaluator interface {
	Evaluate(profile model.StudentProfile, catalogue model.Catalogue) model.Findings
}

type evaluatorStandard struct{}

func NewEvaluator() Evaluator {
	return &evaluatorStandard{}
}

// moduleContext holds what was taken before and alongside one planned module.
type moduleContext struct {
	previous     map[string]bool
	simultaneous map[string]bool
}

func (context moduleContext) possessed(ref ModuleRef) bool {
	return context.previous[ref.Code] || (ref.Corequisite && context.simultaneous[ref.Code])
}

func (evaluator *evaluatorStandard) Evaluate(profile model.StudentProfile, catalogue model.Catalogue) model.Findings {
	var findings model.Findings
	for _, module := range lo.Uniq(profile.PlannedHonoursModules()) {
		findings.Merge(evaluateModule(module, profile, catalogue))
	}
	return findings
}

func newModuleContext(module string, profile model.StudentProfile) moduleContext {
	row, _ := lo.Find(profile.HonoursModuleChoices, func(row model.ModuleRow) bool { return row.ModuleCode == module })

	context := moduleContext{
		previous:     lo.SliceToMap(profile.PassedModules, func(code string) (string, bool) { return code, true }),
		simultaneous: make(map[string]bool),
	}
	for _, other := range profile.HonoursModuleChoices {
		if other.HonoursYear < row.HonoursYear {
			context.previous[other.ModuleCode] = true
		}
		if row.Semester == model.SemesterTwo && other.HonoursYear == row.HonoursYear && other.Semester == model.SemesterOne {
			context.previous[other.ModuleCode] = true
		}
		// Full Year rows only overlap other Full Year rows of the same year
		if other.HonoursYear == row.HonoursYear && other.Semester == row.Semester && other.ModuleCode != module {
			context.simultaneous[other.ModuleCode] = true
		}
	}
	return context
}

func evaluateModule(module string, profile model.StudentProfile, catalogue model.Catalogue) (findings model.Findings) {
	context := newModuleContext(module, profile)
	entry, listed := catalogue.Lookup(module)

	//** Prerequisites
	if rule, ok := countRules[module]; ok {
		count := lo.CountBy(rule.modules, func(code string) bool { return context.previous[code] })
		if count < rule.min {
			findings.Miss(fmt.Sprintf("Student is missing prerequisite [%v] for module %v", rule.description, module))
		}
	} else if listed {
		findings.Merge(checkPrerequisite(module, strings.TrimSpace(entry.Prerequisites), context))
	}

	//** Antirequisites
	if listed {
		for _, code := range lo.Uniq(moduleCodePattern.FindAllString(entry.Antirequisites, -1)) {
			if context.previous[code] || context.simultaneous[code] {
				findings.Miss(fmt.Sprintf("Student selected antirequisite %v for module %v", code, module))
			}
		}
	}

	return findings
}

func checkPrerequisite(module, text string, context moduleContext) (findings model.Findings) {
	words := strings.Fields(text)
	switch {
	case len(words) == 0 || text == model.NoneSentinel:
		return findings
	case len(words) == 1:
		if !context.previous[words[0]] {
			findings.Miss(fmt.Sprintf("Student is missing prerequisite %v for module %v", words[0], module))
		}
		return findings
	case text == letterOfAgreement:
		findings.Advise(fmt.Sprintf("Module %v requires a letter of agreement", module))
		return findings
	case text == mscOnly:
		findings.Miss(fmt.Sprintf("Student cannot take module %v as this module is only available to Msc students", module))
		return findings
	}

	expression, err := Parse(text)
	if err != nil {
		findings.Advise(fmt.Sprintf("Could not verify prerequisite for module %v", module))
		return findings
	}
	if !expression.Eval(context.possessed) {
		findings.Miss(fmt.Sprintf(
			"Student is missing prerequisite [%v] for module %v ([%v])",
			text, module, substitute(text, context),
		))
	}
	return findings
}

// substitute rewrites the prerequisite text with the truth value of every module reference.
func substitute(text string, context moduleContext) string {
	render := func(value bool) string {
		return Literal{Value: value}.String()
	}
	text = corequisitePattern.ReplaceAllStringFunc(text, func(match string) string {
		code := corequisitePattern.FindStringSubmatch(match)[1]
		return render(context.possessed(ModuleRef{Code: code, Corequisite: true}))
	})
	return moduleCodePattern.ReplaceAllStringFunc(text, func(code string) string {
		return render(context.possessed(ModuleRef{Code: code}))
	})
}
