package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"seqalloc/internal/config"
)

// New builds a zap logger from the logging configuration. Development
// mode uses the console encoder; otherwise JSON output suitable for log
// aggregation.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
