// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silentHandler drops every record. Enabled reports false, so callers skip
// attribute formatting.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (h silentHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h silentHandler) WithGroup(string) slog.Handler           { return h }

var silent = slog.New(silentHandler{})

// current holds the active logger. Parallel rebuild workers and the asset
// watcher read it while SetLogger may be replacing it.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger routes the compositor's diagnostics, and those of the assets
// package, to l. Nothing is logged until it is called; nil silences
// logging again.
//
// Levels:
//   - [slog.LevelDebug]: layer rebuilds, canvas reallocation and pool
//     reuse, image decodes, watched file changes
//   - [slog.LevelInfo]: asset catalog loads
//   - [slog.LevelWarn]: a reload that failed and left the old catalog active
//
// For example, to see rebuilds on stderr:
//
//	compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//	    &slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
