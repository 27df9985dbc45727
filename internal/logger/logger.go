// Package logger configures the process-wide slog logger from config.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"terminal-terrace/journal-wiki/config"
)

// Init builds a logger from cfg, installs it as the slog default and returns it.
func Init(cfg config.LogConfig) *slog.Logger {
	return InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter is Init with an explicit output, used by tests.
func InitWithWriter(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler).With("service", "journal-wiki")
	slog.SetDefault(l)
	return l
}

// ParseLevel maps a config level name to a slog level; unknown names mean info.
func ParseLevel(level string) slog.Level {
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
