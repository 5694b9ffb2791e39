package advising

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/limaJavier/advising/pkg/errors"
	"github.com/limaJavier/advising/pkg/metrics"
	"github.com/limaJavier/advising/pkg/model"
	"github.com/limaJavier/advising/pkg/prerequisites"
	"github.com/limaJavier/advising/pkg/profile"
	"github.com/limaJavier/advising/pkg/requirements"
	"github.com/limaJavier/advising/pkg/timetable"
)

// Advisor validates students' module choices and turns the findings into report rows.
type Advisor interface {
	// Validates one student from the enrollment sources
	Advise(studentId uint64) model.Report

	// Validates a module choice form on top of the student's enrollment records
	AdviseForm(form model.ChoiceForm) model.Report

	// Validates every student on a worker pool, one report per id sorted by student id
	AdviseAll(ctx context.Context, studentIds []uint64) ([]model.Report, error)
}

type Option func(*advisorStandard)

func WithLogger(logger *zap.Logger) Option {
	return func(advisor *advisorStandard) {
		if logger != nil {
			advisor.logger = logger
		}
	}
}

// WithSeparator sets the string joining several findings of one report column.
func WithSeparator(separator string) Option {
	return func(advisor *advisorStandard) {
		advisor.separator = separator
	}
}

// WithProgramme checks every student against the requirements of the given programme.
func WithProgramme(programme string) Option {
	return func(advisor *advisorStandard) {
		advisor.programme = programme
	}
}

func WithClock(now func() time.Time) Option {
	return func(advisor *advisorStandard) {
		advisor.now = now
	}
}

func WithMetrics(recorder *metrics.Recorder) Option {
	return func(advisor *advisorStandard) {
		advisor.metrics = recorder
	}
}

func WithWorkers(workers int) Option {
	return func(advisor *advisorStandard) {
		advisor.workers = workers
	}
}

type advisorStandard struct {
	source    model.EnrollmentSource
	catalogue model.Catalogue

	builder       profile.Builder
	requirements  requirements.Evaluator
	prerequisites prerequisites.Evaluator
	availability  timetable.AvailabilityChecker
	clashes       timetable.ClashDetector

	logger    *zap.Logger
	metrics   *metrics.Recorder
	separator string
	programme string
	workers   int
	now       func() time.Time
}

func NewAdvisor(source model.EnrollmentSource, catalogue model.Catalogue, registry requirements.Registry, options ...Option) Advisor {
	advisor := &advisorStandard{
		source:    source,
		catalogue: catalogue,
		logger:    zap.NewNop(),
		separator: "\n",
		workers:   1,
		now:       time.Now,
	}
	for _, option := range options {
		option(advisor)
	}

	builderOptions := make([]profile.Option, 0)
	if advisor.programme != "" {
		builderOptions = append(builderOptions, profile.WithProgramme(advisor.programme))
	}
	advisor.builder = profile.NewBuilder(builderOptions...)
	advisor.requirements = requirements.NewEvaluator(registry)
	advisor.prerequisites = prerequisites.NewEvaluator()
	advisor.availability = timetable.NewAvailabilityChecker()
	advisor.clashes = timetable.NewClashDetector()

	return advisor
}

func (advisor *advisorStandard) Advise(studentId uint64) model.Report {
	label := fmt.Sprintf("student id %d", studentId)
	return advisor.observe(studentId, func() model.Report {
		studentProfile, err := advisor.buildProfile(studentId)
		if err != nil {
			return advisor.degraded(label, studentId, err)
		}
		return advisor.evaluate(label, studentProfile)
	})
}

func (advisor *advisorStandard) AdviseForm(form model.ChoiceForm) model.Report {
	label := form.Source
	return advisor.observe(form.StudentId, func() model.Report {
		studentProfile, err := advisor.buildProfile(form.StudentId)
		if err != nil {
			return advisor.degraded(label, form.StudentId, err)
		}
		return advisor.evaluate(label, studentProfile.WithChoices(studentProfile.FormRows(form)...))
	})
}

func (advisor *advisorStandard) buildProfile(studentId uint64) (model.StudentProfile, error) {
	if studentId == 0 {
		return model.StudentProfile{}, apperrors.ErrNoStudentId
	}
	records, ok := advisor.source.Records(studentId)
	if !ok {
		return model.StudentProfile{}, apperrors.Clone(apperrors.ErrUnknownStudent, fmt.Sprintf("contains invalid student ID %d", studentId))
	}
	return advisor.builder.Build(records, advisor.now())
}

// observe times one report and records it in the logs and metrics.
func (advisor *advisorStandard) observe(studentId uint64, produce func() model.Report) model.Report {
	start := time.Now()
	report := produce()
	duration := time.Since(start)

	advisor.logger.Info("student validated",
		zap.Uint64("student_id", studentId),
		zap.String("outcome", metrics.Outcome(report)),
		zap.Duration("duration", duration),
	)
	advisor.metrics.ObserveReport(report, duration)

	return report
}
