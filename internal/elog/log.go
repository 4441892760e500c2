// Package elog provides structured logging for the ABI recovery service's
// outer boundary (signature-source HTTP clients). It wraps Go's log/slog
// with JSON output and per-module child loggers, trimmed to only the
// surface sigsource actually calls: a single process-wide logger handed
// out as named children, never swapped out at runtime and never driven
// through free package-level functions. The core scanner packages
// (opcode, bytecode, abi) never import this package — they have no I/O to
// log.
package elog

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a Module convenience.
type Logger struct {
	inner *slog.Logger
}

var defaultLogger = New(slog.LevelInfo)

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(h)}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler,
// so tests can capture output into a buffer instead of stderr.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// Default returns the process-wide logger. Collaborators derive their own
// child from it via Module; there is no override hook because nothing in
// this service needs to redirect logging at runtime.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger carrying an additional "module" attribute.
// sigsource obtains one logger per collaborator ("etherscan", "sourcify",
// "fourbyte") so their log lines can be told apart.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
