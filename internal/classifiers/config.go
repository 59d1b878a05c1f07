package classifiers

import (
	"fmt"
	"os"
	"time"
)

// Backend names a classifier implementation.
type Backend string

// Supported backends.
const (
	BackendCLIP   Backend = "clip"
	BackendVision Backend = "vision"
)

// Config selects and configures the classifier backend.
type Config struct {
	// Backend is "clip" or "vision". Default: "clip"
	Backend Backend `toml:"backend"`

	// Endpoint is the CLIP inference URL. Default: "http://localhost:8000/classify"
	Endpoint string `toml:"endpoint"`

	// Timeout bounds a single inference request. Default: "60s"
	Timeout string `toml:"timeout"`

	// AgentConfig is a JSON go-agents configuration file used by the vision backend.
	AgentConfig string `toml:"agent_config"`

	// Options are passed through to the vision agent on every request.
	Options map[string]any `toml:"options"`
}

// Env maps environment variable names for classifier configuration.
type Env struct {
	Backend     string
	Endpoint    string
	Timeout     string
	AgentConfig string
}

// TimeoutDuration parses and returns the request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.AgentConfig != "" {
		c.AgentConfig = overlay.AgentConfig
	}
	if len(overlay.Options) > 0 {
		c.Options = overlay.Options
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendCLIP
	}
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8000/classify"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = Backend(v)
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.AgentConfig != "" {
		if v := os.Getenv(env.AgentConfig); v != "" {
			c.AgentConfig = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	switch c.Backend {
	case BackendCLIP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for clip backend")
		}
	case BackendVision:
		if c.AgentConfig == "" {
			return fmt.Errorf("agent_config required for vision backend")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}
	return nil
}
