// Package logging builds the slog loggers used by commands and servers.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the CLI logger. It writes text to Stderr so stdout stays free
// for reports and JSON output.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, options(level)))
}

// NewJSON creates a JSON logger on w, used by the long-running servers.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, options(level)))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// options standardizes common keys ("error" -> "err").
func options(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
}
