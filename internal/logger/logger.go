// Package logger provides slog helpers for the app.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/handsomefox/watchlist/internal/env"
)

// New builds the process logger: human readable text locally, JSON in
// production.
func New(level slog.Level) *slog.Logger {
	return newWithWriter(os.Stderr, env.Current, level)
}

func newWithWriter(w io.Writer, e env.Environment, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: e == env.Production,
		Level:     level,
	}
	if e == env.Production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps debug/info/warn/error onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "nil")
	}
	return slog.String("err", err.Error())
}
