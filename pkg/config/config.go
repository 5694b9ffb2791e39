package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	SeparatorNewline = "newline"
	SeparatorComma   = "comma"
)

type Config struct {
	Env string

	Log      LogConfig
	Data     DataConfig
	Reports  ReportsConfig
	Batch    BatchConfig
	Calendar CalendarConfig
	Metrics  MetricsConfig

	// Today overrides the evaluation date; zero means time.Now().
	Today time.Time
}

type LogConfig struct {
	Level  string
	Format string
}

type DataConfig struct {
	Dir           string
	CataloguePath string
	RegistryPath  string
}

type ReportsConfig struct {
	Dir              string
	Formats          []string
	FindingSeparator string
}

type BatchConfig struct {
	Workers int
}

// CalendarConfig anchors exported timetables on real dates.
type CalendarConfig struct {
	SemesterOneStart time.Time
	SemesterTwoStart time.Time
	TeachingWeeks    int
}

type MetricsConfig struct {
	TextfilePath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Data = DataConfig{
		Dir:           v.GetString("DATA_DIR"),
		CataloguePath: v.GetString("CATALOGUE_PATH"),
		RegistryPath:  v.GetString("REGISTRY_PATH"),
	}

	separator := strings.ToLower(v.GetString("FINDING_SEPARATOR"))
	if separator != SeparatorComma {
		separator = SeparatorNewline
	}
	cfg.Reports = ReportsConfig{
		Dir:              v.GetString("REPORT_DIR"),
		Formats:          splitAndTrim(strings.ToLower(v.GetString("REPORT_FORMATS"))),
		FindingSeparator: separator,
	}

	workers := v.GetInt("WORKERS")
	if workers <= 0 {
		workers = 1
	}
	cfg.Batch = BatchConfig{Workers: workers}

	cfg.Calendar = CalendarConfig{
		SemesterOneStart: parseDate(v.GetString("CALENDAR_S1_START"), time.Time{}),
		SemesterTwoStart: parseDate(v.GetString("CALENDAR_S2_START"), time.Time{}),
		TeachingWeeks:    v.GetInt("CALENDAR_TEACHING_WEEKS"),
	}

	cfg.Metrics = MetricsConfig{TextfilePath: v.GetString("METRICS_TEXTFILE")}

	cfg.Today = parseDate(v.GetString("TODAY"), time.Time{})

	return cfg, nil
}

// Separator returns the literal joiner for findings within one report cell.
func (cfg ReportsConfig) Separator() string {
	if cfg.FindingSeparator == SeparatorComma {
		return ", "
	}
	return "\n"
}

// Now returns the configured evaluation date or the wall clock.
func (cfg *Config) Now() time.Time {
	if cfg.Today.IsZero() {
		return time.Now()
	}
	return cfg.Today
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DATA_DIR", "./student_data")
	v.SetDefault("CATALOGUE_PATH", "./module_catalogue.xlsx")
	v.SetDefault("REGISTRY_PATH", "")

	v.SetDefault("REPORT_DIR", "./reports")
	v.SetDefault("REPORT_FORMATS", "xlsx")
	v.SetDefault("FINDING_SEPARATOR", SeparatorNewline)

	v.SetDefault("WORKERS", 4)

	v.SetDefault("CALENDAR_S1_START", "")
	v.SetDefault("CALENDAR_S2_START", "")
	v.SetDefault("CALENDAR_TEACHING_WEEKS", 11)

	v.SetDefault("METRICS_TEXTFILE", "")
	v.SetDefault("TODAY", "")
}

func parseDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}

	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
