package prerequisites

import (
	"testing"

	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"github.com/limaJavier/advising/pkg/model"
)

func planned(year int, semester model.Semester, module string) model.ModuleRow {
	return model.ModuleRow{HonoursYear: year, Semester: semester, ModuleCode: module}
}

func TestEvaluate(t *testing.T) {
	catalogue := model.NewCatalogue([]model.CatalogueEntry{
		{ModuleCode: "MT3501", Prerequisites: "MT2501"},
		{ModuleCode: "MT3502", Prerequisites: "MT1001 and (MT2002 or MT2003)"},
		{ModuleCode: "MT3503", Prerequisites: "MT2501 and co-requisite MT3501"},
		{ModuleCode: "MT4526", Prerequisites: "MT3501"},
		{ModuleCode: "MT4599", Prerequisites: "Letter of Agreement"},
		{ModuleCode: "MT5700", Prerequisites: "Students must have gained admission onto an MSc programme"},
		{ModuleCode: "MT4111", Prerequisites: "MT2501, MT2503"},
		{ModuleCode: "MT4112", Antirequisites: "MT4111 or MT4113"},
		{ModuleCode: "MT5867", Prerequisites: "Anything at all"},
	})
	evaluator := NewEvaluator()

	profileWith := func(passed []string, choices ...model.ModuleRow) model.StudentProfile {
		return model.StudentProfile{PassedModules: passed, HonoursModuleChoices: choices}
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		profile := profileWith(
			[]string{"MT1001", "MT2003", "MT2501"},
			planned(1, model.SemesterOne, "MT3501"),
			planned(1, model.SemesterOne, "MT3502"),
			planned(1, model.SemesterOne, "MT3503"),
			planned(1, model.SemesterTwo, "MT4526"),
			planned(1, model.SemesterTwo, "MT9999"),
		)

		//** Act
		findings := evaluator.Evaluate(profile, catalogue)

		//** Assert
		assert.True(t, findings.Empty())
	})

	t.Run("Missing single prerequisite", func(t *testing.T) {
		profile := profileWith(nil, planned(1, model.SemesterOne, "MT3501"))

		findings := evaluator.Evaluate(profile, catalogue)

		assert.Equal(t, []string{"Student is missing prerequisite MT2501 for module MT3501"}, findings.Missed)
	})

	t.Run("Same semester does not count as previous", func(t *testing.T) {
		profile := profileWith([]string{"MT2501"},
			planned(1, model.SemesterOne, "MT3501"),
			planned(1, model.SemesterOne, "MT4526"),
		)

		findings := evaluator.Evaluate(profile, catalogue)

		assert.Equal(t, []string{"Student is missing prerequisite MT3501 for module MT4526"}, findings.Missed)
	})

	t.Run("Boolean expression", func(t *testing.T) {
		//** Arrange
		profile := profileWith([]string{"MT1001"}, planned(1, model.SemesterOne, "MT3502"))

		//** Act
		findings := evaluator.Evaluate(profile, catalogue)

		//** Assert
		assert.Equal(t, []string{
			"Student is missing prerequisite [MT1001 and (MT2002 or MT2003)] for module MT3502 ([True and (False or False)])",
		}, findings.Missed)
	})

	t.Run("Co-requisite in a later semester", func(t *testing.T) {
		profile := profileWith([]string{"MT2501"},
			planned(1, model.SemesterTwo, "MT3501"),
			planned(1, model.SemesterOne, "MT3503"),
		)

		findings := evaluator.Evaluate(profile, catalogue)

		g := gomega.NewWithT(t)
		g.Expect(findings.Missed).To(gomega.ConsistOf(gomega.HaveSuffix("for module MT3503 ([True and False])")))
	})

	t.Run("Special texts", func(t *testing.T) {
		//** Arrange
		profile := profileWith([]string{"MT2501"},
			planned(2, model.SemesterOne, "MT4599"),
			planned(2, model.SemesterOne, "MT5700"),
			planned(2, model.SemesterOne, "MT4111"),
		)

		//** Act
		findings := evaluator.Evaluate(profile, catalogue)

		//** Assert
		g := gomega.NewWithT(t)
		g.Expect(findings.Missed).To(gomega.Equal([]string{"Student cannot take module MT5700 as this module is only available to Msc students"}))
		g.Expect(findings.Advisories).To(gomega.Equal([]string{
			"Module MT4599 requires a letter of agreement",
			"Could not verify prerequisite for module MT4111",
		}))
	})

	t.Run("Antirequisites", func(t *testing.T) {
		profile := profileWith([]string{"MT4113"},
			planned(2, model.SemesterOne, "MT4112"),
			planned(2, model.SemesterOne, "MT4111"),
		)

		findings := evaluator.Evaluate(profile, catalogue)

		g := gomega.NewWithT(t)
		g.Expect(findings.Missed).To(gomega.ContainElements(
			"Student selected antirequisite MT4111 for module MT4112",
			"Student selected antirequisite MT4113 for module MT4112",
		))
	})

	t.Run("Full Year simultaneity", func(t *testing.T) {
		//** Arrange
		besideSemester := profileWith(nil,
			planned(2, model.FullYear, "MT4112"),
			planned(2, model.SemesterOne, "MT4111"),
		)
		besideFullYear := profileWith(nil,
			planned(2, model.FullYear, "MT4112"),
			planned(2, model.FullYear, "MT4111"),
		)

		//** Act
		semesterFindings := evaluator.Evaluate(besideSemester, catalogue)
		fullYearFindings := evaluator.Evaluate(besideFullYear, catalogue)

		//** Assert
		assert.NotContains(t, semesterFindings.Missed, "Student selected antirequisite MT4111 for module MT4112")
		assert.Contains(t, fullYearFindings.Missed, "Student selected antirequisite MT4111 for module MT4112")
	})

	t.Run("Counted prerequisite", func(t *testing.T) {
		//** Arrange
		missing := profileWith([]string{"MT3505"}, planned(2, model.SemesterOne, "MT5867"))
		met := profileWith([]string{"MT3505"},
			planned(1, model.SemesterOne, "MT4003"),
			planned(2, model.SemesterOne, "MT5867"),
		)

		//** Act
		missingFindings := evaluator.Evaluate(missing, catalogue)
		metFindings := evaluator.Evaluate(met, catalogue)

		//** Assert
		assert.Equal(t, []string{
			"Student is missing prerequisite [two of (MT3505, MT4003, MT4004, MT4512, MT4514, MT4515, MT4526)] for module MT5867",
		}, missingFindings.Missed)
		assert.True(t, metFindings.Empty())
	})
}
