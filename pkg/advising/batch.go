package advising

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/advising/pkg/model"
	"github.com/limaJavier/advising/pkg/requirements"
)

type batchResult struct {
	index  int
	report model.Report
}

func (advisor *advisorStandard) AdviseAll(ctx context.Context, studentIds []uint64) ([]model.Report, error) {
	studentIds = lo.Uniq(studentIds)
	runId := uuid.NewString()
	logger := advisor.logger.With(zap.String("run_id", runId))

	// Buffered so that workers never wait on the collector
	results := make(chan batchResult, len(studentIds))
	workers := newPool("advising", func(_ context.Context, next job) {
		results <- batchResult{index: next.Index, report: advisor.Advise(next.StudentId)}
	}, poolConfig{Workers: advisor.workers, Logger: logger})

	workers.Start(ctx)
	for index, studentId := range studentIds {
		if err := workers.Enqueue(job{Index: index, StudentId: studentId}); err != nil {
			workers.Stop()
			return nil, fmt.Errorf("run %v: %w", runId, err)
		}
	}
	workers.Drain()
	close(results)

	reports := make([]model.Report, len(studentIds))
	collected := 0
	for result := range results {
		reports[result.index] = result.report
		collected++
	}
	if collected != len(studentIds) {
		return nil, fmt.Errorf("run %v: validated %d of %d students: %w", runId, collected, len(studentIds), context.Cause(ctx))
	}

	SortReports(reports)
	logger.Sugar().Infow("batch finished", "students", len(reports))
	return reports, nil
}

// SortReports orders reports by student id, degraded rows last.
func SortReports(reports []model.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StudentId < reports[j].StudentId
	})
}

// FinalYear keeps the students in or past their last honours year whose programme has requirements.
func FinalYear(reports []model.Report) []model.Report {
	return lo.Filter(reports, func(report model.Report, _ int) bool {
		return !report.Degraded &&
			report.HonoursYear >= report.ExpectedHonoursYears &&
			!strings.Contains(report.UnmetRequirements, requirements.MessageNoRequirements)
	})
}
