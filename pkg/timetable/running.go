package timetable

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/model"
)

const runningHorizon = 20

// Modules whose running years do not follow the catalogue's start year and alternation.
var runningYearOverrides = map[string][]string{
	"MT4614": {"2024/2025"},
}

// Announced modules whose timetable and prerequisites are not final yet.
var provisionalModules = []string{"MT45AB", "MT45ML"}

// AvailabilityChecker reports planned modules that do not exist or do not run when the student plans them.
type AvailabilityChecker interface {
	Check(profile model.StudentProfile, catalogue model.Catalogue) (model.Findings, error)
}

type availabilityCheckerStandard struct {
	overrides map[string][]string
}

func NewAvailabilityChecker() AvailabilityChecker {
	return &availabilityCheckerStandard{overrides: runningYearOverrides}
}

func (checker *availabilityCheckerStandard) Check(profile model.StudentProfile, catalogue model.Catalogue) (model.Findings, error) {
	var findings model.Findings
	planned := lo.Uniq(profile.PlannedHonoursModules())

	//** Unknown modules
	for _, module := range planned {
		if _, ok := catalogue.Lookup(module); strings.HasPrefix(module, "MT") && !ok {
			findings.Miss(fmt.Sprintf("Student is planning to take %v (which does not exist)", module))
		}
	}

	//** Semester and academic year
	for _, row := range profile.HonoursModuleChoices {
		offerings := catalogue.Offerings(row.ModuleCode)
		if len(offerings) == 0 {
			continue
		}

		semesters := lo.Map(offerings, func(entry model.CatalogueEntry, _ int) model.Semester { return entry.Semester })
		if !lo.Contains(semesters, row.Semester) && !lo.Contains(semesters, model.FullYear) {
			findings.Miss(fmt.Sprintf(
				"Selected module %v for Semester %v but it is actually running in %v",
				row.ModuleCode, row.Semester, semesters[0],
			))
		}

		running, err := checker.runningYears(offerings[0])
		if err != nil {
			return model.Findings{}, err
		}
		if !lo.Contains(running, row.AcademicYear) {
			findings.Miss(fmt.Sprintf("Selected module %v is not running in academic year %v", row.ModuleCode, row.AcademicYear))
		}
	}

	if lo.SomeBy(provisionalModules, func(module string) bool { return lo.Contains(planned, module) }) {
		findings.Advise("Student is planning to take MT45AB or MT45ML - these will be new modules and their timetabling and prerequisites may change")
	}

	return findings, nil
}

// runningYears lists the academic years a module runs in, starting from its catalogue year.
func (checker *availabilityCheckerStandard) runningYears(entry model.CatalogueEntry) ([]string, error) {
	if years, ok := checker.overrides[entry.ModuleCode]; ok {
		return years, nil
	}

	alternating, err := entry.Alternating()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDataIntegrity,
			fmt.Sprintf("cannot tell if module %v is alternating or not. Check the table entry.", entry.ModuleCode))
	}
	start, err := model.ParseAcademicYear(entry.Year)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDataIntegrity,
			fmt.Sprintf("module %v has an invalid catalogue year %q", entry.ModuleCode, entry.Year))
	}

	step := 1
	if alternating {
		step = 2
	}
	return lo.Times(runningHorizon, func(index int) string {
		return model.AcademicYear(start + step*index)
	}), nil
}
