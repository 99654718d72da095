// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides file-backed structured logging for medchat.
//
// The TUI owns the terminal, so nothing may log to stdout or stderr while
// the program is running. All diagnostics go to a log file under the
// medchat config directory instead.
package logging

import (
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging surface the rest of the application depends
// on. It is satisfied by *slog.Logger; components accept the interface so
// tests can pass a no-op.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NewFileLogger creates a logger writing JSON lines to the given path.
// The file and its parent directory are created as needed.
func NewFileLogger(path string, level slog.Level) (Logger, error) {
	h, err := handler.NewFileHandler(path, handler.WithLogLevels(levelsUpTo(level)))
	if err != nil {
		return nil, err
	}

	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.TimeFormat = "2006-01-02T15:04:05.000"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h), nil
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.DebugLevel
	case "warn":
		return slog.WarnLevel
	case "error":
		return slog.ErrorLevel
	default:
		return slog.InfoLevel
	}
}

// levelsUpTo returns all levels at or above the given severity threshold.
func levelsUpTo(level slog.Level) []slog.Level {
	var levels []slog.Level
	for _, lv := range slog.AllLevels {
		if lv <= level {
			levels = append(levels, lv)
		}
	}
	return levels
}

// =============================================================================
// NO-OP LOGGER
// =============================================================================

// Discard returns a logger that drops everything. Used as the default when
// no log file is configured, and throughout tests.
func Discard() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(args ...any)                 {}
func (nopLogger) Info(args ...any)                  {}
func (nopLogger) Warn(args ...any)                  {}
func (nopLogger) Error(args ...any)                 {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}
