// Package logging builds the application loggers. Every engine instance
// carries its own logger; there is no process-wide logging state.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured developer logger.
// It writes to Stderr (to keep Stdout free for conversation output) and
// standardizes common keys (e.g. "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
