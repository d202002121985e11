package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "text", "pretty"

	// Output defaults to stdout, or stderr for the pretty format.
	Output io.Writer
}

// InitLogger builds a structured slog.Logger and installs it as the default.
func InitLogger(cfg LogConfig) *slog.Logger {
	logger := slog.New(NewHandler(cfg))
	slog.SetDefault(logger)
	return logger
}

// NewHandler returns the slog handler selected by cfg.Format.
func NewHandler(cfg LogConfig) slog.Handler {
	level := parseLevel(cfg.Level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.NewJSONHandler(outputOr(cfg.Output, os.Stdout), &slog.HandlerOptions{Level: level})
	case "pretty", "tint":
		return tint.NewHandler(outputOr(cfg.Output, os.Stderr), &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level == slog.LevelDebug,
		})
	default:
		return slog.NewTextHandler(outputOr(cfg.Output, os.Stdout), &slog.HandlerOptions{Level: level})
	}
}

func outputOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
