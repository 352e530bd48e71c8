// Package logging holds the *slog.Logger used by rifx when no per-archive
// logger is configured.
package logging

import (
	"log/slog"
	"sync/atomic"
)

// logger is nil until SetLogger is called; Logger then falls back to discard.
var logger atomic.Pointer[slog.Logger]

var discard = slog.New(slog.DiscardHandler)

// Logger returns the package logger. It is never nil.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return discard
}

// SetLogger replaces the package logger. Passing nil restores the discard logger.
// Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
