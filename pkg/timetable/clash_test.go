package timetable

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/model"
)

func planned(year int, semester model.Semester, module string) model.ModuleRow {
	return model.ModuleRow{HonoursYear: year, AcademicYear: "2025/2026", Semester: semester, ModuleCode: module}
}

func TestDetect(t *testing.T) {
	catalogue := model.NewCatalogue([]model.CatalogueEntry{
		{ModuleCode: "MT3501", Timetable: "10am Mon, Wed, Fri"},
		{ModuleCode: "MT3502", Timetable: "10am Mon"},
		{ModuleCode: "MT3503", Timetable: "10am Mon, 11am Tue"},
		{ModuleCode: "MT3504", Timetable: "11am Tue, 10am Mon,"},
		{ModuleCode: "MT4501", Timetable: "9am Mon (odd weeks)"},
		{ModuleCode: "MT4502", Timetable: "9am Mon (even weeks)"},
		{ModuleCode: "MT4503", Timetable: "9am Mon"},
		{ModuleCode: "MT4504", Timetable: "9am Mon (odd weeks), Thu"},
		{ModuleCode: "MT4999", Timetable: "whenever suits"},
	})
	detector := NewClashDetector()

	profileWith := func(choices ...model.ModuleRow) model.StudentProfile {
		return model.StudentProfile{HonoursModuleChoices: choices}
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		profile := profileWith(
			planned(1, model.SemesterOne, "MT3501"),
			planned(1, model.SemesterOne, "MT3502"),
			planned(1, model.SemesterTwo, "MT4501"),
		)

		//** Act
		findings, err := detector.Detect(profile, catalogue)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"Clash for Year 1 S1 between modules MT3501 and MT3502 at 10am Mon"}, findings.Missed)
		assert.Empty(t, findings.Advisories)
	})

	t.Run("One finding per module group", func(t *testing.T) {
		profile := profileWith(
			planned(1, model.SemesterTwo, "MT3504"),
			planned(1, model.SemesterTwo, "MT3503"),
		)

		findings, err := detector.Detect(profile, catalogue)

		require.NoError(t, err)
		assert.Equal(t, []string{"Clash for Year 1 S2 between modules MT3503 and MT3504 at 10am Mon and 11am Tue"}, findings.Missed)
	})

	t.Run("Groups of three", func(t *testing.T) {
		profile := profileWith(
			planned(2, model.SemesterOne, "MT3501"),
			planned(2, model.SemesterOne, "MT3502"),
			planned(2, model.SemesterOne, "MT3503"),
		)

		findings, err := detector.Detect(profile, catalogue)

		require.NoError(t, err)
		assert.Equal(t, []string{"Clash for Year 2 S1 between modules MT3501 and MT3502 and MT3503 at 10am Mon"}, findings.Missed)
	})

	t.Run("Opposite parities do not clash", func(t *testing.T) {
		profile := profileWith(
			planned(2, model.SemesterOne, "MT4501"),
			planned(2, model.SemesterOne, "MT4502"),
		)

		findings, err := detector.Detect(profile, catalogue)

		require.NoError(t, err)
		assert.True(t, findings.Empty())
	})

	t.Run("Parity against every week", func(t *testing.T) {
		profile := profileWith(
			planned(2, model.SemesterTwo, "MT4501"),
			planned(2, model.SemesterTwo, "MT4503"),
		)

		findings, err := detector.Detect(profile, catalogue)

		require.NoError(t, err)
		assert.Equal(t, []string{"Clash for Year 2 S2 between modules MT4501 and MT4503 at 9am Mon"}, findings.Missed)
	})

	t.Run("Same parity is reported once", func(t *testing.T) {
		//** Arrange
		profile := profileWith(
			planned(2, model.SemesterOne, "MT4501"),
			planned(2, model.SemesterOne, "MT4504"),
		)

		//** Act
		findings, err := detector.Detect(profile, catalogue)

		//** Assert
		require.NoError(t, err)
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ConsistOf("Clash for Year 2 S1 between modules MT4501 and MT4504 at 9am Mon (odd weeks)"))
	})

	t.Run("Different cells do not clash", func(t *testing.T) {
		profile := profileWith(
			planned(1, model.SemesterOne, "MT3501"),
			planned(1, model.SemesterTwo, "MT3502"),
			planned(2, model.SemesterOne, "MT3503"),
			planned(1, model.SemesterOne, "MT0000"),
		)

		findings, err := detector.Detect(profile, catalogue)

		require.NoError(t, err)
		assert.True(t, findings.Empty())
	})

	t.Run("Unparseable timetable", func(t *testing.T) {
		profile := profileWith(planned(1, model.SemesterOne, "MT4999"))

		_, err := detector.Detect(profile, catalogue)

		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrTimetableGrammar)
		assert.True(t, errors.IsFatal(err))
	})
}
