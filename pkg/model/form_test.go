package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormRows(t *testing.T) {
	form := ChoiceForm{
		Source:    "form.xlsx",
		StudentId: 1,
		Selections: []FormSelection{
			{HonoursYear: 1, Semester: SemesterOne, Modules: []string{"MT3501"}},
			{HonoursYear: 2, Semester: SemesterOne, Modules: []string{"MT4501", "MT4502"}},
			{HonoursYear: 2, Semester: SemesterTwo, Modules: []string{"MT4599"}},
			{HonoursYear: 3, Semester: SemesterOne, Modules: []string{"MT5501"}},
		},
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		profile := StudentProfile{CurrentCalendarYear: 2025, CurrentHonoursYear: 1, ExpectedHonoursYears: 2}

		//** Act
		rows := profile.FormRows(form)

		//** Assert
		assert.Equal(t, []ModuleRow{
			{HonoursYear: 1, AcademicYear: "2025/2026", Semester: SemesterOne, ModuleCode: "MT3501"},
			{HonoursYear: 2, AcademicYear: "2026/2027", Semester: SemesterOne, ModuleCode: "MT4501"},
			{HonoursYear: 2, AcademicYear: "2026/2027", Semester: SemesterOne, ModuleCode: "MT4502"},
			{HonoursYear: 2, AcademicYear: "2026/2027", Semester: SemesterTwo, ModuleCode: "MT4599"},
		}, rows)
	})

	t.Run("Years already planned in the records are skipped", func(t *testing.T) {
		//** Arrange
		profile := StudentProfile{
			CurrentCalendarYear:  2025,
			CurrentHonoursYear:   1,
			ExpectedHonoursYears: 2,
			HonoursModuleChoices: []ModuleRow{{HonoursYear: 1, ModuleCode: "MT3502"}},
		}

		//** Act
		updated := profile.WithChoices(profile.FormRows(form)...)

		//** Assert
		assert.Equal(t, []string{"MT3502", "MT4501", "MT4502", "MT4599"}, updated.PlannedHonoursModules())
		assert.Len(t, profile.HonoursModuleChoices, 1)
	})

	t.Run("Headers", func(t *testing.T) {
		assert.Equal(t, "Year 1 of Honours: Semester 1", FormHeader(1, SemesterOne))
		assert.Equal(t, "Year 3 of Honours: Semester 2", FormHeader(3, SemesterTwo))
	})
}
