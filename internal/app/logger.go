package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/greenplate/foodsafe-backend/internal/config"
)

// NewLogger builds the process-wide slog logger from LogConfig and installs
// it as the slog default. Format "text" adds source locations for local
// development; anything else emits JSON to stderr. Unrecognized levels fall
// back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	textMode := strings.EqualFold(cfg.Format, "text")

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: textMode,
	}

	var handler slog.Handler
	if textMode {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
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
