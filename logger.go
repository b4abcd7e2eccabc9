package guitex

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active package logger.
var loggerPtr atomic.Pointer[slog.Logger]

// loggerHooks are called with the new logger on every SetLogger.
// Backends register here so the HAL they drive logs to the same place.
var loggerHooks atomic.Pointer[[]func(*slog.Logger)]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for guitex and every backend that
// registered with OnSetLogger. By default guitex produces no log output.
// Pass nil to restore the silent default.
//
// Log levels used by guitex:
//   - [slog.LevelDebug]: texture creation, replacement, patching and frees
//   - [slog.LevelInfo]: device selection in backends
//   - [slog.LevelWarn]: dropped partial updates for unknown textures
//
// Example:
//
//	guitex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	if hooks := loggerHooks.Load(); hooks != nil {
		for _, h := range *hooks {
			h(l)
		}
	}
}

// Logger returns the current package logger.
// Backends call this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// OnSetLogger registers fn to be called whenever SetLogger replaces the
// package logger. fn is invoked once immediately with the current logger.
func OnSetLogger(fn func(*slog.Logger)) {
	for {
		old := loggerHooks.Load()
		var next []func(*slog.Logger)
		if old != nil {
			next = append(next, *old...)
		}
		next = append(next, fn)
		if loggerHooks.CompareAndSwap(old, &next) {
			break
		}
	}
	fn(Logger())
}
