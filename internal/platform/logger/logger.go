package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/agenthands/notify/internal/config"
)

type Config struct {
	Level  slog.Level
	Format string // "json" or "text"
	// Output defaults to stderr; stdout is reserved for the MCP stdio transport.
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
	}
}

// FromConfig maps the [log] section onto a logger Config.
func FromConfig(c config.LogConfig) Config {
	cfg := DefaultConfig()
	if c.Format != "" {
		cfg.Format = c.Format
	}
	cfg.Level = ParseLevel(c.Level)
	return cfg
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New builds a logger and installs it as the slog default.
func New(cfg Config) *slog.Logger {
	var handler slog.Handler

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
