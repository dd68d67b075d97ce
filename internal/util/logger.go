// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv enables debug logging when set to any non-empty value.
const DebugEnv = "APTEMPLATE_DEBUG"

// Logger is the process-wide logger. It is usable before InitLogger is called.
var Logger = NewLogger(os.Stderr, levelFromEnv())

// InitLogger initializes the global logger with appropriate log level.
// Set APTEMPLATE_DEBUG=1 to enable debug logging.
// Logs go to stderr so program output on stdout can be piped.
func InitLogger() {
	Logger = NewLogger(os.Stderr, levelFromEnv())
}

// NewLogger returns a text logger without time and level attributes, for
// clean CLI output.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}

func levelFromEnv() slog.Level {
	if os.Getenv(DebugEnv) != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Debug logs a debug message (only shown when APTEMPLATE_DEBUG is set)
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
