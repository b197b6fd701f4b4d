// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the structured logger from the global flags. Status lines
// go to stdout through the renderer; the logger carries diagnostics on
// stderr and, optionally, a log file.
func newLogger(ro *RootOpts) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if ro.LogLevel != "" {
		if err := level.Set(ro.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", ro.LogLevel, err)
		}
	}
	if ro.Verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	if ro.LogFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, ro.LogFile)
	}
	if ro.Quiet && !ro.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	return cfg.Build()
}
