// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// NewLogger returns a text logger when f is a terminal and a JSON logger
// otherwise, so container logs stay machine readable.
func NewLogger(f *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(f, opts))
	}
	var w io.Writer = io.Discard
	if f != nil {
		w = f
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
