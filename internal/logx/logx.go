// Package logx builds the structured logger used across the service.
package logx

import (
	"io"
	"log/slog"
	"strings"
)

// Options configures the logger.
type Options struct {
	Service string
	Level   string
}

// New returns a JSON slog logger writing to w. Stdout is reserved for the
// console UI, so callers normally pass stderr.
func New(w io.Writer, opts Options) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	})

	base := slog.New(h).With("service", opts.Service)
	slog.SetDefault(base)
	return base
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
