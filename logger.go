// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/fxaa/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for fxaa and the render host.
// By default nothing is logged. Pass nil to restore silent behavior.
//
// SetLogger is safe for concurrent use.
//
// Log levels used by fxaa:
//   - [slog.LevelDebug]: pass skips, pipelines not yet compiled, bind group recreation
//   - [slog.LevelInfo]: plugin build
//   - [slog.LevelWarn]: shader compilation failures, invalid settings
//
// Example:
//
//	fxaa.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	render.SetLogger(l)
}

// Logger returns the current logger used by fxaa.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
