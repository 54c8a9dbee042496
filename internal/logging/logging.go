// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "SHAPE_HTTPD_LOG_LEVEL"

// Config selects the logger output.
type Config struct {
	Level  string // zerolog level name; "" means info
	Format string // "console" or "json"
	Out    io.Writer
}

// New returns a logger for cfg and installs it as the global zerolog logger.
func New(app string, cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(out).Level(ParseLevel(cfg.Level)).
		With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

// ParseLevel resolves the effective level. The environment wins over name;
// unknown names fall back to info.
func ParseLevel(name string) zerolog.Level {
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		name = env
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
