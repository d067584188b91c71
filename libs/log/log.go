// Package log wraps github.com/go-kit/log with the small set of
// conveniences wfcgen's components expect: leveled keyval logging, a
// With(...) sub-logger, and a NopLogger for callers that don't want output.
package log

import (
	"os"

	kitlog "github.com/go-kit/log"
	kitlevel "github.com/go-kit/log/level"
)

// Logger is the logging interface every wfcgen component accepts.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type defaultLogger struct {
	srcLogger kitlog.Logger
}

// NewLogger returns a logfmt logger writing to w, leveled via go-kit/log/level.
func NewLogger(w interface{ Write([]byte) (int, error) }) Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC)
	return &defaultLogger{srcLogger: l}
}

// NewTestLogger returns a logger suitable for use in tests, writing to stderr.
func NewTestLogger() Logger {
	return NewLogger(os.Stderr)
}

func (l *defaultLogger) Debug(msg string, keyvals ...any) {
	logKV(kitlevel.Debug(l.srcLogger), msg, keyvals...)
}

func (l *defaultLogger) Info(msg string, keyvals ...any) {
	logKV(kitlevel.Info(l.srcLogger), msg, keyvals...)
}

func (l *defaultLogger) Error(msg string, keyvals ...any) {
	logKV(kitlevel.Error(l.srcLogger), msg, keyvals...)
}

func (l *defaultLogger) With(keyvals ...any) Logger {
	return &defaultLogger{srcLogger: kitlog.With(l.srcLogger, keyvals...)}
}

func logKV(logger kitlog.Logger, msg string, keyvals ...any) {
	kvs := append([]any{"msg", msg}, keyvals...)
	_ = logger.Log(kvs...)
}

type nopLogger struct{}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) With(...any) Logger   { return nopLogger{} }
