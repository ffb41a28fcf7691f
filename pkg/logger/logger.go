// Package logger configures the application's zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a sugared logger. Development mode switches to the console
// encoder with human-readable timestamps; production emits JSON.
func New(level string, development bool) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log.Sugar(), nil
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
