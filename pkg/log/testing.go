// Testing utilities for structured logging. TestLogger captures records in
// memory so tests can assert on what a pipeline stage logged.

package log

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// TestLogger is a Logger implementation for tests. All records are written to
// an internal buffer, one line per record.
type TestLogger struct {
	buffer *bytes.Buffer
	level  Level
	fields []any
}

// NewTestLogger creates a TestLogger with the given minimum level and returns
// it together with the buffer holding captured output.
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{
		buffer: buffer,
		level:  level,
	}, buffer
}

// Debug implements Logger.Debug.
func (t *TestLogger) Debug(msg string, fields ...any) {
	if t.level <= LevelDebug {
		t.writeLog("DEBUG", msg, fields...)
	}
}

// Info implements Logger.Info.
func (t *TestLogger) Info(msg string, fields ...any) {
	if t.level <= LevelInfo {
		t.writeLog("INFO", msg, fields...)
	}
}

// Warn implements Logger.Warn.
func (t *TestLogger) Warn(msg string, fields ...any) {
	if t.level <= LevelWarn {
		t.writeLog("WARN", msg, fields...)
	}
}

// Error implements Logger.Error.
func (t *TestLogger) Error(msg string, fields ...any) {
	if t.level <= LevelError {
		t.writeLog("ERROR", msg, fields...)
	}
}

// With implements Logger.With.
func (t *TestLogger) With(fields ...any) Logger {
	combined := make([]any, 0, len(t.fields)+len(fields))
	combined = append(combined, t.fields...)
	combined = append(combined, fields...)
	return &TestLogger{
		buffer: t.buffer,
		level:  t.level,
		fields: combined,
	}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return level >= t.level
}

func (t *TestLogger) writeLog(level, msg string, fields ...any) {
	var sb strings.Builder
	sb.WriteString(level)
	sb.WriteString(" ")
	sb.WriteString(msg)

	all := make([]any, 0, len(t.fields)+len(fields))
	all = append(all, t.fields...)
	all = append(all, fields...)

	for i := 0; i+1 < len(all); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", all[i], all[i+1]))
	}
	sb.WriteString("\n")
	t.buffer.WriteString(sb.String())
}

// Contains reports whether any captured record contains the substring.
func (t *TestLogger) Contains(substr string) bool {
	return strings.Contains(t.buffer.String(), substr)
}
