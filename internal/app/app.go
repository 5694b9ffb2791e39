package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/limaJavier/advising/pkg/advising"
	"github.com/limaJavier/advising/pkg/config"
	"github.com/limaJavier/advising/pkg/export"
	"github.com/limaJavier/advising/pkg/loader"
	"github.com/limaJavier/advising/pkg/metrics"
	"github.com/limaJavier/advising/pkg/model"
	"github.com/limaJavier/advising/pkg/profile"
	"github.com/limaJavier/advising/pkg/requirements"
)

// App holds everything the executables share once the input tables are loaded.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
	Enrollment loader.Enrollment
	Catalogue  model.Catalogue
	Registry   requirements.Registry
}

// Load reads the catalogue, the enrollment tables and the programme registry named by the configuration.
func Load(cfg *config.Config, logger *zap.Logger) (*App, error) {
	catalogue, err := loader.LoadCatalogue(cfg.Data.CataloguePath)
	if err != nil {
		return nil, fmt.Errorf("cannot load module catalogue: %w", err)
	}

	enrollment, err := loader.LoadEnrollment(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("cannot load enrollment data: %w", err)
	}

	var registry requirements.Registry
	if cfg.Data.RegistryPath == "" {
		registry, err = requirements.DefaultRegistry()
	} else {
		registry, err = requirements.LoadRegistryFile(cfg.Data.RegistryPath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load programme registry: %w", err)
	}

	recorder := metrics.NewRecorder()
	for _, invalid := range enrollment.Invalid {
		logger.Warn("invalid enrollment record dropped", zap.Error(invalid))
	}
	recorder.ObserveInvalidRecords(len(enrollment.Invalid))

	logger.Info("input loaded",
		zap.Strings("files", enrollment.Files),
		zap.Int("students", len(enrollment.Source.StudentIds())),
		zap.Int("invalid_records", len(enrollment.Invalid)),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Metrics:    recorder,
		Enrollment: enrollment,
		Catalogue:  catalogue,
		Registry:   registry,
	}, nil
}

// Advisor builds an advisor over the loaded tables. programme, when set, overrides every student's programme.
func (app *App) Advisor(programme string) advising.Advisor {
	options := []advising.Option{
		advising.WithLogger(app.Logger),
		advising.WithSeparator(app.Config.Reports.Separator()),
		advising.WithMetrics(app.Metrics),
		advising.WithWorkers(app.Config.Batch.Workers),
		advising.WithClock(app.Config.Now),
	}
	if programme != "" {
		options = append(options, advising.WithProgramme(programme))
	}
	return advising.NewAdvisor(app.Enrollment.Source, app.Catalogue, app.Registry, options...)
}

// WriteReports renders the reports once per configured format into dir as <name><extension>.
func (app *App) WriteReports(dir, name, title string, reports []model.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create report directory: %w", err)
	}

	formats := app.Config.Reports.Formats
	if len(formats) == 0 {
		formats = []string{"xlsx"}
	}

	data := export.FromReports(reports)
	written := make([]string, 0, len(formats))
	for _, format := range formats {
		renderer, err := export.RendererFor(format, title)
		if err != nil {
			return written, err
		}
		content, err := renderer.Render(data)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, name+renderer.Extension())
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, fmt.Errorf("cannot write report: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteCalendars writes one .ics file per student with the modules planned in the academic year.
func (app *App) WriteCalendars(dir, academicYear, programme string, studentIds []uint64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create calendar directory: %w", err)
	}

	builderOptions := make([]profile.Option, 0)
	if programme != "" {
		builderOptions = append(builderOptions, profile.WithProgramme(programme))
	}
	builder := profile.NewBuilder(builderOptions...)
	exporter := export.NewCalendarExporter(app.Config.Calendar, time.Now())
	suffix := strings.ReplaceAll(academicYear, "/", "-")

	written := make([]string, 0, len(studentIds))
	for _, studentId := range studentIds {
		records, ok := app.Enrollment.Source.Records(studentId)
		if !ok {
			app.Logger.Warn("no records for calendar", zap.Uint64("student_id", studentId))
			continue
		}
		studentProfile, err := builder.Build(records, app.Config.Now())
		if err != nil {
			app.Logger.Warn("cannot build calendar", zap.Uint64("student_id", studentId), zap.Error(err))
			continue
		}
		content, err := exporter.Render(studentProfile, app.Catalogue, academicYear)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%d_%v%v", studentId, suffix, exporter.Extension()))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return written, fmt.Errorf("cannot write calendar: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Flush dumps the collected metrics when a textfile path is configured.
func (app *App) Flush() {
	if app.Config.Metrics.TextfilePath == "" {
		return
	}
	if err := app.Metrics.WriteToTextfile(app.Config.Metrics.TextfilePath); err != nil {
		app.Logger.Warn("cannot write metrics textfile", zap.Error(err))
	}
}
