package requirements

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/advising/pkg/model"
)

const bscMathematics = "Bachelor of Science (Honours) Mathematics"

func moduleRow(year int, semester model.Semester, module string) model.ModuleRow {
	return model.ModuleRow{HonoursYear: year, Semester: semester, ModuleCode: module}
}

func codes(rows []model.ModuleRow) []string {
	return lo.Map(rows, func(row model.ModuleRow, _ int) string { return row.ModuleCode })
}

// finalYearMathematician satisfies every single honours mathematics requirement.
func finalYearMathematician() model.StudentProfile {
	passed := []model.ModuleRow{
		moduleRow(0, model.SemesterOne, "MT2501"),
		moduleRow(0, model.SemesterTwo, "MT2502"),
		moduleRow(1, model.SemesterOne, "MT3501"),
		moduleRow(1, model.SemesterOne, "MT3502"),
		moduleRow(1, model.SemesterOne, "MT3503"),
		moduleRow(1, model.SemesterOne, "MT3504"),
		moduleRow(1, model.SemesterTwo, "MT3505"),
		moduleRow(1, model.SemesterTwo, "MT3506"),
		moduleRow(1, model.SemesterTwo, "MT4111"),
		moduleRow(1, model.SemesterTwo, "MT3508"),
	}
	planned := []model.ModuleRow{
		moduleRow(2, model.SemesterOne, "MT4501"),
		moduleRow(2, model.SemesterOne, "MT4502"),
		moduleRow(2, model.SemesterOne, "MT4503"),
		moduleRow(2, model.SemesterOne, "MT4504"),
		moduleRow(2, model.SemesterTwo, "MT4505"),
		moduleRow(2, model.SemesterTwo, "MT4506"),
		moduleRow(2, model.SemesterTwo, "MT4507"),
		moduleRow(2, model.SemesterTwo, "MT4599"),
	}
	return model.StudentProfile{
		StudentId:            210000001,
		ProgrammeName:        bscMathematics,
		CurrentCalendarYear:  2024,
		YearOfStudy:          4,
		ExpectedHonoursYears: 2,
		CurrentHonoursYear:   2,
		PassedModules:        codes(passed),
		PassedHonoursModules: codes(passed[2:]),
		PassedModuleTable:    passed,
		HonoursModuleChoices: planned,
	}
}

func newTestEvaluator(t *testing.T) Evaluator {
	registry, err := DefaultRegistry()
	require.NoError(t, err)
	return NewEvaluator(registry)
}

func withCredits(rows []model.ModuleRow, credits map[string]float64) []model.ModuleRow {
	return lo.Map(rows, func(row model.ModuleRow, _ int) model.ModuleRow {
		value, ok := credits[row.ModuleCode]
		if !ok {
			value = 15
		}
		row.Credits = &value
		return row
	})
}

func TestDefaultRegistry(t *testing.T) {
	//** Act
	registry, err := DefaultRegistry()

	//** Assert
	require.NoError(t, err)
	assert.Len(t, registry.Programmes(), 37)
	assert.Equal(t, []string{"BL4797", "BL4796"}, registry.JointProjects("Bachelor of Science (Honours) Biology and Mathematics"))
	assert.Empty(t, registry.JointProjects(bscMathematics))
}

func TestLoadRegistry(t *testing.T) {
	t.Run("Unknown check kind", func(t *testing.T) {
		_, err := LoadRegistry([]byte("rule_sets:\n  a:\n    - check: telepathy\n"))

		assert.ErrorContains(t, err, "unknown check kind")
	})

	t.Run("Unknown parameter", func(t *testing.T) {
		_, err := LoadRegistry([]byte("rule_sets:\n  a:\n    - check: forbidden\n      modulez: [MT4794]\n"))

		assert.Error(t, err)
	})

	t.Run("Programme without rule set", func(t *testing.T) {
		_, err := LoadRegistry([]byte("rule_sets: {}\nprogrammes:\n  \"BSc Something\": missing\n"))

		assert.ErrorContains(t, err, "unknown rule set")
	})
}

func TestEvaluate(t *testing.T) {
	evaluator := newTestEvaluator(t)

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		assert.Empty(t, findings.Missed)
		assert.Empty(t, findings.Advisories)
	})

	t.Run("Unknown programme", func(t *testing.T) {
		profile := finalYearMathematician()
		profile.ProgrammeName = "Bachelor of Science (Honours) Physics"

		findings := evaluator.Evaluate(profile)

		assert.Equal(t, []string{"No programme requirements available"}, findings.Missed)
	})

	t.Run("Global checks", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()
		profile.CurrentHonoursYear = 3
		profile.PassedModules = append(profile.PassedModules, "MTSAU1")
		profile.ZCoded = []string{"MT3501", "MT3502"}
		profile.HonoursModuleChoices[0].ModuleCode = "MT3501"

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ContainElements(
			"Year could not be inferred, student will require manual checking - flagged issues can be wrong",
			"Student selected the following modules twice: MT3501",
			"Student studied abroad and will require manual checking - flagged issues can be wrong",
		))
		g.Expect(findings.Advisories).To(ContainElement(
			"Modules MT3501 and MT3502 have been treated as passed even though they are z-coded - action may be required if these are failed",
		))
	})

	t.Run("Undercrediting", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()
		profile.HonoursModuleChoices = lo.Reject(profile.HonoursModuleChoices, func(row model.ModuleRow, _ int) bool {
			return row.ModuleCode == "MT4507"
		})

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ContainElement("Not collecting 120 credits in Year 2"))
		g.Expect(findings.Advisories).To(ContainElement(HavePrefix("Student is taking a high course load in second semester")))
	})

	t.Run("Seven modules with enough credits", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()
		profile.HonoursModuleChoices = withCredits(lo.Reject(profile.HonoursModuleChoices, func(row model.ModuleRow, _ int) bool {
			return row.ModuleCode == "MT4507"
		}), map[string]float64{"MT4599": 30})

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		assert.NotContains(t, findings.Missed, "Not collecting 120 credits in Year 2")
	})

	t.Run("Overcrediting", func(t *testing.T) {
		profile := finalYearMathematician()
		profile.HonoursModuleChoices = append(profile.HonoursModuleChoices, moduleRow(2, model.SemesterOne, "MT4508"))

		findings := evaluator.Evaluate(profile)

		assert.Contains(t, findings.Advisories, "Student is planning to overcredit, which requires permission")
		assert.Empty(t, findings.Missed)
	})

	t.Run("Project outside the final year", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()
		profile.HonoursModuleChoices[7].HonoursYear = 1

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		assert.Equal(t, 1, lo.Count(findings.Missed, "Student is not taking their final year project in their final year."))
	})

	t.Run("Repeated evaluation", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()
		profile.ZCoded = []string{"MT3501"}
		profile.HonoursModuleChoices[7].ModuleCode = "MT4598"
		profile.HonoursModuleChoices = append(profile.HonoursModuleChoices, moduleRow(2, model.SemesterOne, "PH4001"))
		before := finalYearMathematician()
		before.ZCoded = []string{"MT3501"}
		before.HonoursModuleChoices[7].ModuleCode = "MT4598"
		before.HonoursModuleChoices = append(before.HonoursModuleChoices, moduleRow(2, model.SemesterOne, "PH4001"))

		//** Act
		first := evaluator.Evaluate(profile)
		second := evaluator.Evaluate(profile)

		//** Assert
		assert.Equal(t, first, second)
		assert.NotEmpty(t, first.Advisories)
		assert.Equal(t, before, profile)
	})

	t.Run("Missing core modules", func(t *testing.T) {
		//** Arrange
		profile := finalYearMathematician()
		profile.PassedModules = []string{"MT2501", "MT3501", "MT4111"}
		profile.PassedHonoursModules = []string{"MT3501", "MT4111"}
		profile.HonoursModuleChoices[7].ModuleCode = "MT4598"
		profile.HonoursModuleChoices = append(profile.HonoursModuleChoices, moduleRow(2, model.SemesterOne, "PH4001"))

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ContainElements(
			"Student is only taking 1 out of MT3501-MT3508",
			"Student is taking more than 2 modules as dip-down or dip-across, which is not allowed",
		))
		g.Expect(findings.Advisories).To(ContainElement(
			"Student is planning to take non-MT modules, which requires permission and may affect credit balance",
		))
	})
}

func TestEvaluateJointHonours(t *testing.T) {
	evaluator := newTestEvaluator(t)

	jointStudent := func() model.StudentProfile {
		passed := []model.ModuleRow{
			moduleRow(1, model.SemesterOne, "MT3501"),
			moduleRow(1, model.SemesterOne, "MT3502"),
			moduleRow(1, model.SemesterTwo, "MT3503"),
			moduleRow(1, model.SemesterTwo, "MT4111"),
			moduleRow(1, model.SemesterTwo, "AH3001"),
		}
		planned := []model.ModuleRow{
			moduleRow(2, model.SemesterOne, "MT4501"),
			moduleRow(2, model.SemesterOne, "MT4502"),
			moduleRow(2, model.SemesterTwo, "MT4503"),
			moduleRow(2, model.SemesterTwo, "AH4795"),
		}
		return model.StudentProfile{
			ProgrammeName:        "Master of Arts (Honours) Art History and Mathematics",
			ExpectedHonoursYears: 2,
			CurrentHonoursYear:   2,
			PassedModules:        codes(passed),
			PassedHonoursModules: codes(passed),
			PassedModuleTable:    passed,
			HonoursModuleChoices: planned,
		}
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Act
		findings := evaluator.Evaluate(jointStudent())

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(BeEmpty())
		g.Expect(findings.Advisories).To(ConsistOf(
			"Student has chosen the joint honours project AH4795 which requires a letter of agreement",
			HavePrefix("This is a joint honours programme and the adviser needs to manually check"),
		))
	})

	t.Run("5000 level modules are not allowed", func(t *testing.T) {
		profile := jointStudent()
		profile.HonoursModuleChoices = append(profile.HonoursModuleChoices, moduleRow(2, model.SemesterOne, "MT5611"))

		findings := evaluator.Evaluate(profile)

		assert.Contains(t, findings.Missed, "Student is planning to take 5000 level modules (which is not allowed for joint honours students)")
	})

	t.Run("Two projects", func(t *testing.T) {
		profile := jointStudent()
		profile.HonoursModuleChoices = append(profile.HonoursModuleChoices, moduleRow(2, model.SemesterOne, "MT4599"))

		findings := evaluator.Evaluate(profile)

		assert.Contains(t, findings.Missed, "Student is taking too many final year projects")
	})

	t.Run("Credit totals", func(t *testing.T) {
		//** Arrange
		profile := jointStudent()
		profile.PassedModuleTable = withCredits(profile.PassedModuleTable, nil)
		profile.HonoursModuleChoices = withCredits(profile.HonoursModuleChoices, nil)

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ConsistOf(
			"Student is not taking a total of 240 credits across honours.",
			"Student is not taking a total of 90 credits at 4000 level.",
		))
	})
}

func TestEvaluateSpecialProgrammes(t *testing.T) {
	evaluator := newTestEvaluator(t)

	t.Run("Subhonours route", func(t *testing.T) {
		//** Arrange
		passed := []model.ModuleRow{
			moduleRow(0, model.SemesterOne, "MT2506"),
			moduleRow(0, model.SemesterTwo, "MT2507"),
			moduleRow(1, model.SemesterOne, "MT3501"),
		}
		profile := model.StudentProfile{
			ProgrammeName:        "Master in Physics (Honours) Mathematics and Theoretical Physics",
			ExpectedHonoursYears: 3,
			CurrentHonoursYear:   2,
			PassedModules:        codes(passed),
			PassedHonoursModules: []string{"MT3501"},
			PassedModuleTable:    passed,
			HonoursModuleChoices: []model.ModuleRow{moduleRow(2, model.SemesterOne, "PH4028")},
		}

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ContainElement("Student is not taking MT3504 in year 3 (which is required for them)"))
		g.Expect(findings.Missed).NotTo(ContainElement("Student is not taking MT3501 in year 3, which is a requirement"))
		g.Expect(findings.Missed).NotTo(ContainElement("Student is not taking one of [MT3503, PH4028] in year 4"))
	})

	t.Run("Chemistry final year window", func(t *testing.T) {
		//** Arrange
		profile := model.StudentProfile{
			ProgrammeName:        "Master in Chemistry (Honours) Chemistry with Mathematics",
			ExpectedHonoursYears: 3,
			CurrentHonoursYear:   3,
			HonoursModuleChoices: []model.ModuleRow{
				moduleRow(3, model.SemesterOne, "MT5611"),
				moduleRow(3, model.SemesterOne, "MT5612"),
				moduleRow(3, model.SemesterTwo, "MT5613"),
				moduleRow(3, model.SemesterTwo, "MT4599"),
			},
		}

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		g := NewWithT(t)
		g.Expect(findings.Missed).To(ContainElements(
			"Student is only taking 0 modules out of MT3501-MT3508 in years 3 and 4 (instead of 3)",
			"Student is taking taking more than 2 MT modules in year 5 (which is not allowed)",
			"Student is taking a MT module in year 5 which they are not allowed to take (i.e. outside of MT5600-MT5899)",
			"Student is taking taking MT4599 (which is not allowed)",
		))
	})
}

// firstYearMathematician is planning their first honours year.
func firstYearMathematician(modules ...string) model.StudentProfile {
	passed := []model.ModuleRow{
		moduleRow(0, model.SemesterOne, "MT2501"),
		moduleRow(0, model.SemesterTwo, "MT2502"),
	}
	planned := lo.Map(modules, func(module string, i int) model.ModuleRow {
		semester := model.SemesterOne
		if i%2 == 1 {
			semester = model.SemesterTwo
		}
		return moduleRow(1, semester, module)
	})
	return model.StudentProfile{
		StudentId:            210000002,
		ProgrammeName:        bscMathematics,
		CurrentCalendarYear:  2024,
		YearOfStudy:          3,
		ExpectedHonoursYears: 2,
		CurrentHonoursYear:   1,
		PassedModules:        codes(passed),
		PassedModuleTable:    passed,
		HonoursModuleChoices: planned,
	}
}

func TestEvaluateCreditLoad(t *testing.T) {
	evaluator := newTestEvaluator(t)
	const undercredit = "Not collecting 120 credits in Year 1"
	eight := []string{"MT3501", "MT3502", "MT3503", "MT3504", "MT3505", "MT3506", "MT3507", "MT3508"}
	seven := eight[:7]

	t.Run("Eight modules", func(t *testing.T) {
		//** Arrange
		profile := firstYearMathematician(eight...)

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		assert.NotContains(t, findings.Missed, undercredit)
	})

	t.Run("Seven modules without credits", func(t *testing.T) {
		profile := firstYearMathematician(seven...)

		findings := evaluator.Evaluate(profile)

		assert.Equal(t, 1, lo.Count(findings.Missed, undercredit))
	})

	t.Run("Seven modules with enough credits", func(t *testing.T) {
		profile := firstYearMathematician(seven...)
		profile.PassedModuleTable = withCredits(profile.PassedModuleTable, nil)
		profile.HonoursModuleChoices = withCredits(profile.HonoursModuleChoices, map[string]float64{"MT3501": 30})

		findings := evaluator.Evaluate(profile)

		assert.NotContains(t, findings.Missed, undercredit)
	})

	t.Run("Seven modules with fractional credits", func(t *testing.T) {
		//** Arrange
		profile := firstYearMathematician(seven...)
		share := 120.0 / 7
		profile.HonoursModuleChoices = withCredits(profile.HonoursModuleChoices, lo.SliceToMap(seven, func(module string) (string, float64) {
			return module, share
		}))

		//** Act
		findings := evaluator.Evaluate(profile)

		//** Assert
		assert.NotContains(t, findings.Missed, undercredit)
	})

	t.Run("Seven modules short of credits", func(t *testing.T) {
		profile := firstYearMathematician(seven...)
		profile.HonoursModuleChoices = withCredits(profile.HonoursModuleChoices, nil)

		findings := evaluator.Evaluate(profile)

		assert.Contains(t, findings.Missed, undercredit)
	})
}
