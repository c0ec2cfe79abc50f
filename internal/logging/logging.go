// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger shared by every fiber component.
//
// Logs go to a JSON file under the state directory so that they never
// interleave with terminal output.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file written inside Options.Dir.
const FileName = "fiber.log"

// Options configure New.
type Options struct {
	// Debug lowers the level from Info to Debug.
	Debug bool

	// Dir holds the log file. Empty disables logging.
	Dir string
}

// New returns a production (JSON) logger writing to Options.Dir/fiber.log,
// and a close function that syncs and closes the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	if opts.Dir == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(opts.Dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(opts.Dir, FileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	config := zap.NewProductionConfig()
	if opts.Debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(file),
		config.Level,
	)
	logger := zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(file)))

	closeFn := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger, closeFn, nil
}
