// Package logging wires structured logging for the interactions API on top
// of log/slog, with an optional log file next to console output and
// package-level helpers usable before full initialization.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var defaultLogger *slog.Logger

// InitLogger installs the process-wide logger. When logDir is non-empty,
// log records are written both to stderr and to interactions-api.log in
// that directory; otherwise to stderr only.
func InitLogger(logDir string) {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	var writer io.Writer = os.Stderr
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err == nil {
			path := filepath.Join(logDir, "interactions-api.log")
			if file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				writer = io.MultiWriter(os.Stderr, file)
			} else {
				slog.Warn("Failed to open log file, falling back to stderr", "path", path, "error", err)
			}
		}
	}

	defaultLogger = slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(defaultLogger)
}

// Logger returns the process-wide logger, falling back to a plain stderr
// logger when InitLogger has not run (tests, early startup).
func Logger() *slog.Logger {
	if defaultLogger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return defaultLogger
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package-level helpers for direct access.

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
