package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/advising/internal/app"
	"github.com/limaJavier/advising/pkg/advising"
	"github.com/limaJavier/advising/pkg/config"
	"github.com/limaJavier/advising/pkg/logger"
	"github.com/limaJavier/advising/pkg/metrics"
	"github.com/limaJavier/advising/pkg/model"
)

type CohortSummary struct {
	Students       int
	FinalYear      int
	Clean          int
	WithFindings   int
	Degraded       int
	Workers        int
	Duration       time.Duration
	AverageSeconds float64
}

func main() {
	outPtr := flag.String("out", "", "Directory where the cohort report and summary are written; REPORT_DIR is used if empty")
	allPtr := flag.Bool("all", false, "Report every student instead of the final-year cohort only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zapLogger.Sync()

	outDir := *outPtr
	if outDir == "" {
		outDir = cfg.Reports.Dir
	}

	application, err := app.Load(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("startup failed", zap.Error(err))
	}
	defer application.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	reports, err := application.Advisor("").AdviseAll(ctx, application.Enrollment.Source.StudentIds())
	if err != nil {
		zapLogger.Fatal("cohort run interrupted", zap.Error(err))
	}
	elapsed := time.Since(start)

	selected := reports
	name := "final_year_check"
	if !*allPtr {
		selected = advising.FinalYear(reports)
	} else {
		name = "cohort_check"
	}

	written, err := application.WriteReports(outDir, name, "Final year programme requirements", selected)
	if err != nil {
		zapLogger.Fatal("cannot write reports", zap.Error(err))
	}

	summary := summarize(reports, selected, application.Metrics.Snapshot(), cfg.Batch.Workers, elapsed)
	summaryPath := filepath.Join(outDir, name+"_summary.csv")
	if err := toCsv(summaryPath, summary); err != nil {
		zapLogger.Fatal("cannot write summary", zap.Error(err))
	}
	written = append(written, summaryPath)

	fmt.Printf("Students: %v (final year: %v)\n", summary.Students, summary.FinalYear)
	fmt.Printf("Clean: %v, with findings: %v, degraded: %v\n", summary.Clean, summary.WithFindings, summary.Degraded)
	fmt.Printf("Duration: %v with %v workers (%.4fs per student)\n", summary.Duration.Round(time.Millisecond), summary.Workers, summary.AverageSeconds)
	for _, path := range written {
		fmt.Printf("Written: %v\n", path)
	}
}

func summarize(reports, finalYear []model.Report, snapshot metrics.Snapshot, workers int, elapsed time.Duration) CohortSummary {
	outcomes := lo.CountValuesBy(reports, metrics.Outcome)
	return CohortSummary{
		Students:       len(reports),
		FinalYear:      len(finalYear),
		Clean:          outcomes[metrics.OutcomeClean],
		WithFindings:   outcomes[metrics.OutcomeFindings],
		Degraded:       outcomes[metrics.OutcomeDegraded],
		Workers:        workers,
		Duration:       elapsed,
		AverageSeconds: snapshot.AverageDurationSeconds,
	}
}

func toCsv(path string, summary CohortSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"Students", "Final year", "Clean", "With findings", "Degraded", "Workers", "Duration(ms)", "Average(s)"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	record := []string{
		fmt.Sprintf("%d", summary.Students),
		fmt.Sprintf("%d", summary.FinalYear),
		fmt.Sprintf("%d", summary.Clean),
		fmt.Sprintf("%d", summary.WithFindings),
		fmt.Sprintf("%d", summary.Degraded),
		fmt.Sprintf("%d", summary.Workers),
		fmt.Sprintf("%d", summary.Duration.Milliseconds()),
		fmt.Sprintf("%.6f", summary.AverageSeconds),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("cannot write CSV record: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
