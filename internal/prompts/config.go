package prompts

import (
	"os"
	"strings"
)

// Config holds the vocabulary a catalog is built from.
type Config struct {
	// Labels are the class names. Default: DefaultLabels()
	Labels []string `toml:"labels"`

	// Stages are the life-cycle qualifiers. Default: DefaultStages()
	Stages []string `toml:"stages"`

	// Exceptions are labels that take no stage. Default: DefaultExceptions()
	Exceptions []string `toml:"exceptions"`

	// Prefix opens every prompt. Default: DefaultPrefix
	Prefix string `toml:"prefix"`
}

// Env maps environment variable names for catalog configuration.
// List values are comma separated. Exceptions may be set to an empty value
// to give every label the full stage list.
type Env struct {
	Labels     string
	Stages     string
	Exceptions string
	Prefix     string
}

// Finalize applies defaults and loads environment overrides. Validation is
// left to Build, which reports an empty vocabulary as ErrEmptyCatalog.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Labels != nil {
		c.Labels = overlay.Labels
	}
	if overlay.Stages != nil {
		c.Stages = overlay.Stages
	}
	if overlay.Exceptions != nil {
		c.Exceptions = overlay.Exceptions
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
}

// Build creates the catalog described by c.
func (c *Config) Build() (*Catalog, error) {
	return BuildWithPrefix(c.Labels, c.Stages, c.Exceptions, c.Prefix)
}

func (c *Config) loadDefaults() {
	if c.Labels == nil {
		c.Labels = DefaultLabels()
	}
	if c.Stages == nil {
		c.Stages = DefaultStages()
	}
	if c.Exceptions == nil {
		c.Exceptions = DefaultExceptions()
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Labels != "" {
		if v := os.Getenv(env.Labels); v != "" {
			c.Labels = splitList(v)
		}
	}
	if env.Stages != "" {
		if v := os.Getenv(env.Stages); v != "" {
			c.Stages = splitList(v)
		}
	}
	if env.Exceptions != "" {
		if v, ok := os.LookupEnv(env.Exceptions); ok {
			c.Exceptions = append([]string{}, splitList(v)...)
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
