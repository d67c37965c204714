package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/heartmarshall/gibberify/internal/config"
)

// NewLogger builds the process logger from cfg and installs it as the slog
// default. Records go to w, which the CLI points at stderr so translations
// on stdout stay clean.
//
// Level "off" discards every record. Text output carries source locations
// at debug level.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler
	if level, ok := parseLevel(cfg.Level); !ok {
		handler = slog.DiscardHandler
	} else {
		opts := &slog.HandlerOptions{Level: level}
		if strings.EqualFold(cfg.Format, "json") {
			handler = slog.NewJSONHandler(w, opts)
		} else {
			opts.AddSource = level == slog.LevelDebug
			handler = slog.NewTextHandler(w, opts)
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel maps a configured level to slog. ok is false for "off".
// Unknown values fall back to info.
func parseLevel(s string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return 0, false
	case "debug":
		return slog.LevelDebug, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, true
	}
}
