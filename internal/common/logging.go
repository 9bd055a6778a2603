package common

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string    `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string    `yaml:"format"` // "json" or "text"
	Output io.Writer `yaml:"-"`      // defaults to stderr; stdout is reserved for results
}

// NewLogger builds the process logger.
func NewLogger(cfg LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}
