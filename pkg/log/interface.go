// Package log provides structured logging for the analysis pipeline.
//
// The Logger interface is a minimal, slog-compatible facade. Pipeline stages
// take a Logger rather than the slog default so tests can capture and assert
// on the records a stage emits.

package log

import (
	"context"
	"log/slog"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface supports contextual logging through With, which returns a
// logger with pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If a field carries an error produced by pkg/errors, the stacktrace
	// attribute is filled in by the handler.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// slogLogger adapts the process slog default to the Logger interface.
type slogLogger struct {
	inner *slog.Logger
}

// GetLogger returns a Logger backed by the slog default.
func GetLogger() Logger {
	return &slogLogger{inner: slog.Default()}
}

// GetLoggerWithName returns a Logger carrying a component attribute.
func GetLoggerWithName(name string) Logger {
	return &slogLogger{inner: slog.Default().With(ComponentKey, name)}
}

func (l *slogLogger) Debug(msg string, fields ...any) { l.inner.Debug(msg, fields...) }
func (l *slogLogger) Info(msg string, fields ...any)  { l.inner.Info(msg, fields...) }
func (l *slogLogger) Warn(msg string, fields ...any)  { l.inner.Warn(msg, fields...) }
func (l *slogLogger) Error(msg string, fields ...any) { l.inner.Error(msg, fields...) }

func (l *slogLogger) With(fields ...any) Logger {
	return &slogLogger{inner: l.inner.With(fields...)}
}

func (l *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return l.inner.Enabled(ctx, slog.Level(level))
}
