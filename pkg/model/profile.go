package model

import (
	"fmt"

	"github.com/samber/lo"
)

// ModuleRow places a module on the student's honours timeline. HonoursYear may be zero or negative for subhonours study.
type ModuleRow struct {
	HonoursYear  int
	AcademicYear string
	Semester     Semester
	ModuleCode   string
	Credits      *float64
}

// YearLabel returns the honours year label used in findings ("Year 2").
func YearLabel(honoursYear int) string {
	return fmt.Sprintf("Year %d", honoursYear)
}

// StudentProfile is the derived view of one student that every evaluator reads.
type StudentProfile struct {
	StudentId     uint64
	Name          string
	Email         string
	ProgrammeName string

	CurrentCalendarYear  int
	YearOfStudy          int
	ExpectedHonoursYears int
	CurrentHonoursYear   int
	LeaveOfAbsence       int

	PassedModules        []string
	ZCoded               []string
	Deferred             []string
	SCoded               []string
	AwaitingReassessment []string
	PassedHonoursModules []string

	// Planned rows, one per module choice without a result
	HonoursModuleChoices []ModuleRow
	// Every passed row, subhonours included
	PassedModuleTable []ModuleRow
}

// PlannedHonoursModules returns the planned module codes in choice order, duplicates kept.
func (profile StudentProfile) PlannedHonoursModules() []string {
	return lo.Map(profile.HonoursModuleChoices, func(row ModuleRow, _ int) string {
		return row.ModuleCode
	})
}

// AllHonoursModules returns passed honours modules followed by planned ones.
func (profile StudentProfile) AllHonoursModules() []string {
	return append(append([]string{}, profile.PassedHonoursModules...), profile.PlannedHonoursModules()...)
}

// FullModuleList returns every passed module followed by every planned one. Duplicates are kept so they can be reported.
func (profile StudentProfile) FullModuleList() []string {
	return append(append([]string{}, profile.PassedModules...), profile.PlannedHonoursModules()...)
}

// CountIn returns how many distinct modules of the list appear in the full module list.
func (profile StudentProfile) CountIn(modules []string) int {
	return len(lo.Intersect(lo.Uniq(profile.FullModuleList()), lo.Uniq(modules)))
}

// Takes reports whether the module is passed or planned.
func (profile StudentProfile) Takes(module string) bool {
	return lo.Contains(profile.FullModuleList(), module)
}

// HonoursYearOf looks the module up among planned choices first, then among passed rows.
func (profile StudentProfile) HonoursYearOf(module string) (int, bool) {
	if row, ok := lo.Find(profile.HonoursModuleChoices, func(row ModuleRow) bool { return row.ModuleCode == module }); ok {
		return row.HonoursYear, true
	}
	if row, ok := lo.Find(profile.PassedModuleTable, func(row ModuleRow) bool { return row.ModuleCode == module }); ok {
		return row.HonoursYear, true
	}
	return 0, false
}

// ModulesInYears returns passed and planned module codes sitting in the given honours years.
func (profile StudentProfile) ModulesInYears(years ...int) []string {
	inYears := func(row ModuleRow, _ int) bool { return lo.Contains(years, row.HonoursYear) }
	toCode := func(row ModuleRow, _ int) string { return row.ModuleCode }

	passed := lo.Map(lo.Filter(profile.PassedModuleTable, inYears), toCode)
	planned := lo.Map(lo.Filter(profile.HonoursModuleChoices, inYears), toCode)
	return append(passed, planned...)
}

// HasCreditData reports whether every planned row carries a credit value and the source has a credits column at all.
func (profile StudentProfile) HasCreditData() bool {
	hasCredits := func(row ModuleRow) bool { return row.Credits != nil }
	if !lo.EveryBy(profile.HonoursModuleChoices, hasCredits) {
		return false
	}
	return lo.SomeBy(profile.HonoursModuleChoices, hasCredits) || lo.SomeBy(profile.PassedModuleTable, hasCredits)
}

// SumCredits adds the credit values of the rows, missing values count as zero.
func SumCredits(rows []ModuleRow) float64 {
	return lo.SumBy(rows, func(row ModuleRow) float64 {
		if row.Credits == nil {
			return 0
		}
		return *row.Credits
	})
}
