package observability

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger. Components receive child loggers from
// it instead of touching global logging state.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
