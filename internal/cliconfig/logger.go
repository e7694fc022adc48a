package cliconfig

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the CLI logger writing to w. The config must have been
// validated; an unknown level falls back to info.
func NewLogger(w io.Writer, cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.LogFormat != LogFormatJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
