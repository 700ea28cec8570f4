package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides leveled, printf-style logging throughout the application.
// It is a thin layer over slog so that key/value context (run ids, sources)
// can be attached with With.
type Logger struct {
	sl *slog.Logger
}

// NewLogger creates an info-level Logger writing to stdout.
func NewLogger() *Logger {
	return NewLoggerWithLevel(os.Stdout, "info")
}

// NewLoggerWithLevel creates a Logger writing text records to w at the given
// level name (debug, info, warn, error). Unknown names fall back to info.
func NewLoggerWithLevel(w io.Writer, level string) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{sl: slog.New(h)}
}

// Discard returns a Logger that drops everything. Handy in tests.
func Discard() *Logger {
	return NewLoggerWithLevel(io.Discard, "error")
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// With returns a Logger that adds key=value to every record.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{sl: l.sl.With(key, value)}
}

func (l *Logger) log(level slog.Level, format string, args []any) {
	ctx := context.Background()
	if !l.sl.Enabled(ctx, level) {
		return
	}
	l.sl.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any)  { l.log(slog.LevelInfo, format, args) }
func (l *Logger) Warn(format string, args ...any)  { l.log(slog.LevelWarn, format, args) }
func (l *Logger) Error(format string, args ...any) { l.log(slog.LevelError, format, args) }
func (l *Logger) Debug(format string, args ...any) { l.log(slog.LevelDebug, format, args) }
