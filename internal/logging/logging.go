// Package logging holds the process-wide debug logger.
//
// Logging is off unless the config enables debug mode. When off the package
// hands out a nop logger so call sites never need a nil check, and nothing
// is ever written to the user's terminal.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds a debug-level production logger writing to path. When enabled
// is false the nop logger stays in place and no file is touched.
func Init(enabled bool, path string) error {
	if !enabled {
		return nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	built, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = built
	return nil
}

// L returns the current logger.
func L() *zap.Logger {
	return logger
}

// Sync flushes any buffered entries. Safe to call on the nop logger.
func Sync() {
	_ = logger.Sync()
}
