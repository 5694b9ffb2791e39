package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/advising/internal/app"
	"github.com/limaJavier/advising/pkg/config"
	"github.com/limaJavier/advising/pkg/loader"
	"github.com/limaJavier/advising/pkg/logger"
	"github.com/limaJavier/advising/pkg/model"
)

func main() {
	// Define arguments
	idsPtr := flag.String("ids", "", "Comma separated student IDs to validate; if empty, every student in the enrollment data is validated")
	formsPtr := flag.String("forms", "", "Directory of module choice forms (.xlsx); when given, the forms are validated instead of the enrollment choices")
	programmePtr := flag.String("programme", "", "Programme name used for every student instead of the one in their records")
	outPtr := flag.String("out", "", "Directory where reports are written; REPORT_DIR is used if empty")
	namePtr := flag.String("name", "advising_report", "Base file name of the written reports")
	calendarPtr := flag.String("calendar", "", "Academic year (e.g. 2025/2026) whose planned timetable is also exported as one .ics file per student")
	flag.Parse()

	studentIds, err := parseStudentIds(*idsPtr)
	if err != nil {
		log.Fatalf("invalid -ids argument: %v", err)
	}

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

	advisor := application.Advisor(*programmePtr)

	// Validate forms or enrollment choices
	var reports []model.Report
	if *formsPtr != "" {
		forms, err := loader.ListForms(*formsPtr)
		if err != nil {
			zapLogger.Fatal("cannot list choice forms", zap.Error(err))
		}
		for _, path := range forms {
			form, err := loader.ReadChoiceForm(path)
			if err != nil {
				zapLogger.Error("cannot read choice form", zap.String("form", path), zap.Error(err))
				continue
			}
			reports = append(reports, advisor.AdviseForm(form))
		}
	} else {
		if len(studentIds) == 0 {
			studentIds = application.Enrollment.Source.StudentIds()
		}
		reports, err = advisor.AdviseAll(ctx, studentIds)
		if err != nil {
			zapLogger.Fatal("validation interrupted", zap.Error(err))
		}
	}

	// Write reports
	written, err := application.WriteReports(outDir, *namePtr, "Module choice validation", reports)
	if err != nil {
		zapLogger.Fatal("cannot write reports", zap.Error(err))
	}

	if *calendarPtr != "" {
		calendarIds := studentIds
		if len(calendarIds) == 0 {
			calendarIds = lo.Map(lo.Reject(reports, func(report model.Report, _ int) bool { return report.Degraded }),
				func(report model.Report, _ int) uint64 { return report.StudentId })
		}
		calendars, err := application.WriteCalendars(outDir, *calendarPtr, *programmePtr, calendarIds)
		if err != nil {
			zapLogger.Fatal("cannot write calendars", zap.Error(err))
		}
		written = append(written, calendars...)
	}

	snapshot := application.Metrics.Snapshot()
	fmt.Printf("Students: %v\n", snapshot.Students)
	fmt.Printf("Degraded: %v\n", snapshot.Degraded)
	for _, path := range written {
		fmt.Printf("Written: %v\n", path)
	}
}

// parseStudentIds reads a comma separated list of student IDs, ignoring blanks.
func parseStudentIds(raw string) ([]uint64, error) {
	studentIds := make([]uint64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		studentId, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a student id", part)
		}
		studentIds = append(studentIds, studentId)
	}
	return studentIds, nil
}
