package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel maps a config string onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, level)
	}
}

// NewLogger builds a logger writing to w in the given format.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: invalid log format: %s", ErrInvalidConfig, format)
	}

	return slog.New(handler), nil
}

// LogError logs an error with additional context.
func LogError(err error, msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("error", err.Error()))
	attrs = append(attrs, fieldAttrs(fields)...)

	slog.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// LogWarn logs a warning with fields.
func LogWarn(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelWarn, msg, fieldAttrs(fields)...)
}

// LogInfo logs an info message with fields.
func LogInfo(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelInfo, msg, fieldAttrs(fields)...)
}

// LogDebug logs a debug message with fields.
func LogDebug(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelDebug, msg, fieldAttrs(fields)...)
}

// fieldAttrs sorts keys so log lines are stable across runs.
func fieldAttrs(fields Fields) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}
