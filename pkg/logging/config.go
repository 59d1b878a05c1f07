package logging

import (
	"fmt"
	"io"
	"os"
)

// Env names the environment variables read by Finalize.
type Env struct {
	Level  string
	Format string
	Output string
}

// Output names the stream log records are written to.
type Output string

const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
)

// Validate rejects anything but stdout and stderr.
func (o Output) Validate() error {
	if o != OutputStdout && o != OutputStderr {
		return fmt.Errorf("invalid log output: %s (must be stdout or stderr)", o)
	}
	return nil
}

// Config is the [logging] section. Records go to stderr by default so that
// command output on stdout stays clean.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`
	Output Output `toml:"output"`
}

// Finalize fills unset fields, then lets env override them, then validates.
func (c *Config) Finalize(env *Env) error {
	fallback(&c.Level, LevelInfo)
	fallback(&c.Format, FormatText)
	fallback(&c.Output, OutputStderr)

	if env != nil {
		fromEnv(&c.Level, env.Level)
		fromEnv(&c.Format, env.Format)
		fromEnv(&c.Output, env.Output)
	}

	if err := c.Level.Validate(); err != nil {
		return err
	}
	if err := c.Format.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

// Merge takes every field the overlay sets.
func (c *Config) Merge(overlay *Config) {
	next := *overlay
	fallback(&next.Level, c.Level)
	fallback(&next.Format, c.Format)
	fallback(&next.Output, c.Output)
	*c = next
}

// Writer resolves the configured output stream.
func (c *Config) Writer() io.Writer {
	if c.Output == OutputStdout {
		return os.Stdout
	}
	return os.Stderr
}

func fallback[T ~string](dst *T, v T) {
	if *dst == "" {
		*dst = v
	}
}

func fromEnv[T ~string](dst *T, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = T(v)
	}
}
