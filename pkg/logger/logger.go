package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/limaJavier/advising/pkg/config"
)

const serviceName = "advising"

// New builds the process logger from the LOG_* settings. Every entry carries the service
// name and the environment so that batch runs from several deployments can be told apart.
func New(cfg *config.Config, opts ...zap.Option) (*zap.Logger, error) {
	env := cfg.Env
	if env == "" {
		env = config.EnvDevelopment
	}

	var zapCfg zap.Config
	if env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
		// Cohort runs log one entry per student; none of them may be sampled away
		zapCfg.Sampling = nil
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	opts = append(opts, zap.Fields(zap.String("service", serviceName), zap.String("env", env)))
	return zapCfg.Build(opts...)
}
