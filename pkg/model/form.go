package model

import (
	"fmt"

	"github.com/samber/lo"
)

// FormSelection lists the modules written under one "Year N of Honours: Semester K" header of a choice form.
type FormSelection struct {
	HonoursYear int
	Semester    Semester
	Modules     []string
}

// ChoiceForm is a module choice form filled in by a student. StudentId is zero when the form carries none.
type ChoiceForm struct {
	Source     string
	StudentId  uint64
	Selections []FormSelection
}

// FormHeader returns the header text under which a form lists the modules of one semester.
func FormHeader(honoursYear int, semester Semester) string {
	number := 1
	if semester == SemesterTwo {
		number = 2
	}
	return fmt.Sprintf("%v of Honours: Semester %d", YearLabel(honoursYear), number)
}

// WithChoices returns a copy of the profile with the rows appended to its planned modules.
func (profile StudentProfile) WithChoices(rows ...ModuleRow) StudentProfile {
	profile.HonoursModuleChoices = append(append([]ModuleRow{}, profile.HonoursModuleChoices...), rows...)
	return profile
}

// FormRows turns the form's selections for honours years not yet planned in the records into module rows.
func (profile StudentProfile) FormRows(form ChoiceForm) []ModuleRow {
	firstYear := profile.CurrentHonoursYear
	if len(profile.HonoursModuleChoices) > 0 {
		firstYear = lo.MaxBy(profile.HonoursModuleChoices, func(a, b ModuleRow) bool {
			return a.HonoursYear > b.HonoursYear
		}).HonoursYear + 1
	}

	rows := make([]ModuleRow, 0)
	for _, selection := range form.Selections {
		if selection.HonoursYear < firstYear || selection.HonoursYear > profile.ExpectedHonoursYears {
			continue
		}
		academicYear := AcademicYear(profile.CurrentCalendarYear + selection.HonoursYear - profile.CurrentHonoursYear)
		for _, module := range selection.Modules {
			rows = append(rows, ModuleRow{
				HonoursYear:  selection.HonoursYear,
				AcademicYear: academicYear,
				Semester:     selection.Semester,
				ModuleCode:   module,
			})
		}
	}
	return rows
}
