package configs

import (
	"io"
	"log/slog"
	"strings"
)

// Logger configures the structured logger. Level is the minimum level
// emitted ("debug", "info", "warn", "error"); Format selects the encoding,
// "text" or "json". Unknown values fall back to "info" and "text".
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Handler builds the slog.Handler described by the configuration, writing
// to w.
func (c Logger) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.slogLevel()}
	if strings.ToLower(c.Format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func (c Logger) slogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
