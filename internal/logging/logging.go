// Package logging provides a nil-safe slog wrapper shared across sfzlint
// packages. A zero Logger is silent with no overhead.
package logging

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom log level more verbose than Debug. Use for
// per-token iteration logging. Enable with:
// &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

var ctx = context.Background()

// Logger wraps slog.Logger with nil-safe helpers.
type Logger struct {
	L *slog.Logger
}

// Component returns a derived logger tagged with a component name.
func (l Logger) Component(name string) Logger {
	if l.L == nil {
		return l
	}
	return Logger{L: l.L.With(slog.String("component", name))}
}

// Enabled returns true if logging is enabled at the given level.
func (l Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(ctx, level)
}

// Log emits a log message if logging is enabled.
func (l Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.Enabled(level) {
		l.L.LogAttrs(ctx, level, msg, attrs...)
	}
}

// Debug emits a debug-level log.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.Log(slog.LevelDebug, msg, attrs...)
}

// TraceEnabled returns true if trace-level logging is enabled.
func (l Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a trace-level log.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}
