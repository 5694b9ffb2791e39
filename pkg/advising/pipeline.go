package advising

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/model"
)

// Fields of a row that could not be produced for a real student
const (
	degradedStudentId = 999999999
	degradedName      = "Unknown"
	degradedCell      = " "
)

// Report columns fed by the evaluators, in adviser recommendation order
const (
	columnProgramme = iota
	columnPrerequisites
	columnScheduling
	columnTimetable
	totalColumns
)

type evaluation struct {
	column   int
	findings model.Findings
	err      error
}

// evaluate runs the four evaluators on their own goroutines and assembles the report row.
func (advisor *advisorStandard) evaluate(label string, studentProfile model.StudentProfile) model.Report {
	evaluators := map[int]func() (model.Findings, error){
		columnProgramme: func() (model.Findings, error) {
			return advisor.requirements.Evaluate(studentProfile), nil
		},
		columnPrerequisites: func() (model.Findings, error) {
			return advisor.prerequisites.Evaluate(studentProfile, advisor.catalogue), nil
		},
		columnScheduling: func() (model.Findings, error) {
			return advisor.availability.Check(studentProfile, advisor.catalogue)
		},
		columnTimetable: func() (model.Findings, error) {
			return advisor.clashes.Detect(studentProfile, advisor.catalogue)
		},
	}

	evaluationsChannel := make(chan evaluation) // Channel to collect findings
	for column, evaluate := range evaluators {
		go func(column int, evaluate func() (model.Findings, error)) {
			findings, err := evaluate()
			evaluationsChannel <- evaluation{column: column, findings: findings, err: err}
		}(column, evaluate)
	}

	// Collect findings by column so that the output order does not depend on scheduling
	results := make([]model.Findings, totalColumns)
	errs := make([]error, 0)
	collected := 0
	for result := range evaluationsChannel {
		results[result.column] = result.findings
		if result.err != nil {
			errs = append(errs, result.err)
		}
		if collected++; collected == totalColumns {
			close(evaluationsChannel)
		}
	}
	if len(errs) > 0 {
		return advisor.degraded(label, studentProfile.StudentId, errors.Join(errs...))
	}

	join := func(findings []string) string {
		return model.JoinFindings(findings, advisor.separator)
	}
	return model.Report{
		StudentId:              studentProfile.StudentId,
		Name:                   studentProfile.Name,
		Programme:              studentProfile.ProgrammeName,
		HonoursYear:            studentProfile.CurrentHonoursYear,
		UnmetRequirements:      join(results[columnProgramme].Missed),
		MissingPrerequisites:   join(results[columnPrerequisites].Missed),
		ModulesNotRunning:      join(results[columnScheduling].Missed),
		TimetableClashes:       join(results[columnTimetable].Missed),
		AdviserRecommendations: join(lo.FlatMap(results, func(findings model.Findings, _ int) []string { return findings.Advisories })),
		ExpectedHonoursYears:   studentProfile.ExpectedHonoursYears,
	}
}

// degraded builds the placeholder row of a student that could not be processed.
func (advisor *advisorStandard) degraded(label string, studentId uint64, err error) model.Report {
	advisor.logger.Warn("student could not be processed",
		zap.Uint64("student_id", studentId),
		zap.Bool("fatal", apperrors.IsFatal(err)),
		zap.Error(err),
	)
	return model.Report{
		StudentId:              degradedStudentId,
		Name:                   degradedName,
		Programme:              degradedName,
		HonoursYear:            0,
		UnmetRequirements:      warning(label, err),
		MissingPrerequisites:   degradedCell,
		ModulesNotRunning:      degradedCell,
		TimetableClashes:       degradedCell,
		AdviserRecommendations: degradedCell,
		Degraded:               true,
	}
}

func warning(label string, err error) string {
	var detail string
	switch {
	case errors.Is(err, apperrors.ErrUnknownStudent):
		detail = "The file " + apperrors.FromError(err).Message
	default:
		detail = err.Error()
	}
	return fmt.Sprintf("Could not process %v. %v", label, detail)
}
