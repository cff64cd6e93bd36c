// Package logger wraps log/slog in a small type the rest of the codebase
// uses for structured logging, matching this project's existing ambient
// logging convention (slog, not a third-party logging library).
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Config configures the logger's level and output format.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
}

// Logger wraps *slog.Logger with a couple of convenience constructors.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from Config, defaulting to info/json.
func New(cfg Config) *Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a Logger with the given key/value pairs attached to every
// subsequent record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithContext extracts nothing from ctx today but gives call sites a single
// place to add trace-id propagation later without touching every call site.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l
}
