package requirements

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/model"
)

// Honours years whose passed credits count towards the honours total
const maxHonoursYear = 6

type predicateEvaluatorStandard struct {
	profile model.StudentProfile
}

func newPredicateEvaluator(profile model.StudentProfile) predicateEvaluator {
	return &predicateEvaluatorStandard{profile: profile}
}

func (evaluator *predicateEvaluatorStandard) CountTaken(modules []string) int {
	return evaluator.profile.CountIn(modules)
}

func (evaluator *predicateEvaluatorStandard) CountInYears(modules []string, years []int) int {
	return len(lo.Intersect(lo.Uniq(evaluator.profile.ModulesInYears(years...)), lo.Uniq(modules)))
}

func (evaluator *predicateEvaluatorStandard) TakesIn(module string, years []int, orPassed bool) bool {
	if lo.Contains(evaluator.profile.ModulesInYears(years...), module) {
		return true
	}
	return orPassed && lo.Contains(evaluator.profile.PassedModules, module)
}

func (evaluator *predicateEvaluatorStandard) Takes(module string) bool {
	return evaluator.profile.Takes(module)
}

func (evaluator *predicateEvaluatorStandard) Modules(source moduleSource, years []int) []string {
	switch source {
	case sourcePlanned:
		return evaluator.profile.PlannedHonoursModules()
	case sourceYears:
		return evaluator.profile.ModulesInYears(years...)
	default:
		return evaluator.profile.AllHonoursModules()
	}
}

func (evaluator *predicateEvaluatorStandard) CountMatching(modules []string, fragments []string, invert bool) int {
	return lo.CountBy(modules, func(module string) bool {
		matches := lo.SomeBy(fragments, func(fragment string) bool {
			return strings.Contains(module, fragment)
		})
		return matches != invert
	})
}

func (evaluator *predicateEvaluatorStandard) YearOf(module string) (int, bool) {
	return evaluator.profile.HonoursYearOf(module)
}

func (evaluator *predicateEvaluatorStandard) CreditsAvailable() bool {
	return evaluator.profile.HasCreditData()
}

func (evaluator *predicateEvaluatorStandard) HonoursCredits() float64 {
	passed := lo.Filter(evaluator.profile.PassedModuleTable, func(row model.ModuleRow, _ int) bool {
		return row.HonoursYear >= 1 && row.HonoursYear <= maxHonoursYear
	})
	return model.SumCredits(passed) + model.SumCredits(evaluator.profile.HonoursModuleChoices)
}

func (evaluator *predicateEvaluatorStandard) CreditsAtLevel(level int) float64 {
	digit := strconv.Itoa(level)
	atLevel := func(row model.ModuleRow, _ int) bool {
		return len(row.ModuleCode) > 2 && row.ModuleCode[2:3] == digit
	}
	return model.SumCredits(lo.Filter(evaluator.profile.PassedModuleTable, atLevel)) +
		model.SumCredits(lo.Filter(evaluator.profile.HonoursModuleChoices, atLevel))
}
