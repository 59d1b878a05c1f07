// Package logging provides structured logging configuration and initialization.
// It wraps slog with configurable log levels and output formats.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// New creates a configured slog.Logger writing to the configured output stream.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, cfg.Writer())
}

// NewWithWriter creates a configured slog.Logger writing to w.
// cfg must be finalized; an unparseable level falls back to info.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	level, err := cfg.Level.parse()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(cfg.Format.handler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Level is a slog level name: debug, info, warn, or error, optionally with
// an offset such as "info+2".
type Level string

// Log level constants.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Validate reports whether slog understands the level name.
func (l Level) Validate() error {
	if _, err := l.parse(); err != nil {
		return fmt.Errorf("invalid log level %q: %w", l, err)
	}
	return nil
}

func (l Level) parse() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l))
	return level, err
}

// Format selects the slog handler.
type Format string

// Log format constants.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Validate checks if the format is a valid logging format.
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", f)
	}
}

func (f Format) handler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if f == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
