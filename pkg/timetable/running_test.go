package timetable

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/model"
)

func plannedIn(academicYear string, semester model.Semester, module string) model.ModuleRow {
	return model.ModuleRow{HonoursYear: 1, AcademicYear: academicYear, Semester: semester, ModuleCode: module}
}

func TestCheckAvailability(t *testing.T) {
	catalogue := model.NewCatalogue([]model.CatalogueEntry{
		{ModuleCode: "MT3501", Semester: model.SemesterOne, Year: "2020/2021", AlternateYears: "No"},
		{ModuleCode: "MT4510", Semester: model.SemesterTwo, Year: "2023/2024", AlternateYears: "Yes"},
		{ModuleCode: "MT4599", Semester: model.FullYear, Year: "2020/2021", AlternateYears: "No"},
		{ModuleCode: "MT4608", Semester: model.SemesterOne, Year: "2020/2021", AlternateYears: "No"},
		{ModuleCode: "MT4608", Semester: model.SemesterTwo, Year: "2020/2021", AlternateYears: "No"},
		{ModuleCode: "MT4614", Semester: model.SemesterOne, Year: "2020/2021", AlternateYears: "No"},
		{ModuleCode: "MT45AB", Semester: model.SemesterOne, Year: "2025/2026", AlternateYears: "No"},
		{ModuleCode: "MT4700", Semester: model.SemesterOne, Year: "2025/2026", AlternateYears: "Sometimes"},
	})
	checker := NewAvailabilityChecker()

	profileWith := func(choices ...model.ModuleRow) model.StudentProfile {
		return model.StudentProfile{HonoursModuleChoices: choices}
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		profile := profileWith(
			plannedIn("2025/2026", model.SemesterOne, "MT3501"),
			plannedIn("2025/2026", model.SemesterTwo, "MT4510"),
			plannedIn("2025/2026", model.SemesterTwo, "MT4599"),
			plannedIn("2025/2026", model.SemesterTwo, "MT4608"),
			plannedIn("2025/2026", model.SemesterOne, "PH3081"),
		)

		//** Act
		findings, err := checker.Check(profile, catalogue)

		//** Assert
		require.NoError(t, err)
		assert.True(t, findings.Empty())
	})

	t.Run("Unknown module", func(t *testing.T) {
		profile := profileWith(
			plannedIn("2025/2026", model.SemesterOne, "MT9999"),
			plannedIn("2026/2027", model.SemesterOne, "MT9999"),
		)

		findings, err := checker.Check(profile, catalogue)

		require.NoError(t, err)
		assert.Equal(t, []string{"Student is planning to take MT9999 (which does not exist)"}, findings.Missed)
	})

	t.Run("Wrong semester", func(t *testing.T) {
		profile := profileWith(plannedIn("2025/2026", model.SemesterTwo, "MT3501"))

		findings, err := checker.Check(profile, catalogue)

		require.NoError(t, err)
		assert.Equal(t, []string{"Selected module MT3501 for Semester S2 but it is actually running in S1"}, findings.Missed)
	})

	t.Run("Alternating module off year", func(t *testing.T) {
		//** Arrange
		profile := profileWith(
			plannedIn("2024/2025", model.SemesterTwo, "MT4510"),
			plannedIn("2019/2020", model.SemesterOne, "MT3501"),
		)

		//** Act
		findings, err := checker.Check(profile, catalogue)

		//** Assert
		require.NoError(t, err)
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ConsistOf(
			"Selected module MT4510 is not running in academic year 2024/2025",
			"Selected module MT3501 is not running in academic year 2019/2020",
		))
	})

	t.Run("Running year override", func(t *testing.T) {
		profile := profileWith(
			plannedIn("2024/2025", model.SemesterOne, "MT4614"),
			plannedIn("2025/2026", model.SemesterOne, "MT4614"),
		)

		findings, err := checker.Check(profile, catalogue)

		require.NoError(t, err)
		assert.Equal(t, []string{"Selected module MT4614 is not running in academic year 2025/2026"}, findings.Missed)
	})

	t.Run("New modules", func(t *testing.T) {
		profile := profileWith(plannedIn("2025/2026", model.SemesterOne, "MT45AB"))

		findings, err := checker.Check(profile, catalogue)

		require.NoError(t, err)
		assert.Empty(t, findings.Missed)
		g := NewWithT(t)
		g.Expect(findings.Advisories).To(ConsistOf(ContainSubstring("MT45AB or MT45ML")))
	})

	t.Run("Invalid alternating flag", func(t *testing.T) {
		profile := profileWith(plannedIn("2025/2026", model.SemesterOne, "MT4700"))

		_, err := checker.Check(profile, catalogue)

		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrDataIntegrity)
		assert.Contains(t, err.Error(), "cannot tell if module MT4700 is alternating or not. Check the table entry.")
	})
}
