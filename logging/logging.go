package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetSugaredLogger builds the development logger. LOG_LEVEL (debug, info,
// warn, error) raises the minimum level.
func GetSugaredLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if level, err := zapcore.ParseLevel(raw); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("cannot initialize zap")
	}
	sl := logger.Sugar()

	return sl
}
