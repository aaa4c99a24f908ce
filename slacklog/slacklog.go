// Package slacklog provides the structured logging interface consumed by
// the debug Locker (see package locker). Production code wires a
// zap-backed Logger; tests wire the buffer-capturing Logger in this
// package so assertions can inspect emitted lines.
package slacklog

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the minimal structured-logging surface the debug Locker needs:
// one line before an operation starts, one line after it finishes.
type Logger interface {
	Debug(msg string, keyvals map[string]any)
	Error(msg string, keyvals map[string]any)
}

// zapLogger adapts a *zap.Logger to Logger.
type zapLogger struct {
	z *zap.Logger
}

// NewZap wraps z as a Logger.
func NewZap(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// NewProduction builds a Logger backed by zap's production configuration.
// Errors constructing the underlying zap logger are surfaced via a no-op
// logger plus the error, mirroring zap.NewProduction's own signature.
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return NewNop(), err
	}
	return NewZap(z), nil
}

func (l *zapLogger) Debug(msg string, keyvals map[string]any) {
	l.z.Debug(msg, fields(keyvals)...)
}

func (l *zapLogger) Error(msg string, keyvals map[string]any) {
	l.z.Error(msg, fields(keyvals)...)
}

func fields(keyvals map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(keyvals))
	for k, v := range keyvals {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// nopLogger discards everything; used when a debug Locker is constructed
// without an explicit Logger.
type nopLogger struct{}

// NewNop returns a Logger that discards every call.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Error(string, map[string]any) {}

// line is one captured log entry, recorded by the Buffer logger below.
type line struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (l line) String() string {
	return fmt.Sprintf("[%s] %s %v", l.Level, l.Message, l.Fields)
}

// Buffer is a Logger that records every call in memory instead of writing
// it anywhere, so tests can assert on exactly which debug-locker
// before/after lines were emitted without parsing zap's JSON output.
type Buffer struct {
	lines []line
}

// NewBuffer returns an empty Buffer logger.
func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Debug(msg string, keyvals map[string]any) {
	b.lines = append(b.lines, line{Level: "DEBUG", Message: msg, Fields: keyvals})
}

func (b *Buffer) Error(msg string, keyvals map[string]any) {
	b.lines = append(b.lines, line{Level: "ERROR", Message: msg, Fields: keyvals})
}

// Lines returns the captured lines in emission order, formatted for
// human-readable assertions (e.g. require.Contains(t, buf.Lines(), ...)).
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = l.String()
	}
	return out
}

// Len returns the number of captured lines.
func (b *Buffer) Len() int { return len(b.lines) }
