// Package logging configures the zerolog logger used by envdep and its command.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level  string `env:"LEVEL" json:"level,omitempty"`
	Pretty bool   `env:"PRETTY" json:"pretty,omitempty"`
}

// New builds a logger writing to w. Pretty output is meant for a terminal; otherwise
// every line is a JSON object.
func New(cfg Config, w io.Writer) zerolog.Logger {
	output := w
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// SetupLogger configures the global zerolog logger to write to stderr.
func SetupLogger(cfg Config) {
	log.Logger = New(cfg, os.Stderr)
}
