package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/descbench/internal/config"
)

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured JSON logger writing to
// stderr, so that command output on stdout stays machine-readable, and sets
// it as the default logger for the process.
//
// Only the binary's entry point should call Setup. Library code receives its
// logger through the context instead (see WithLogger).
func Setup(cfg config.LogConfig) (*slog.Logger, error) {
	logger := New(cfg.Level, os.Stderr)
	slog.SetDefault(logger)
	return logger, nil
}

// New builds a JSON logger at the named level writing to w.
// An unrecognized level falls back to info and logs a warning.
func New(level string, w io.Writer) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// It returns slog.LevelInfo and false for unknown names.
func ParseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
