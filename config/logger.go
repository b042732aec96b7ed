package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. DEBUG=true lowers the level to debug.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if App().Debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// MustLogger is NewLogger falling back to a no-op logger.
func MustLogger() *zap.Logger {
	l, err := NewLogger()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
