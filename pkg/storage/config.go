package storage

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// Config contains blob storage configuration.
type Config struct {
	// BasePath is the root directory for result files and rendered pages.
	// Default: ".data"
	BasePath string `toml:"base_path"`

	// MaxImageSize caps the size of a single image accepted for classification.
	// Accepts human-readable sizes ("20MB"). Default: "20MB"
	MaxImageSize    string `toml:"max_image_size"`
	maxImageSizeVal int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath     string
	MaxImageSize string
}

// MaxImageSizeBytes returns the parsed image size limit.
// Valid only after Finalize.
func (c *Config) MaxImageSizeBytes() int64 {
	return c.maxImageSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	if size, err := units.FromHumanSize(overlay.MaxImageSize); err == nil {
		c.MaxImageSize = overlay.MaxImageSize
		c.maxImageSizeVal = size
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "20MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxImageSize != "" {
		if v := os.Getenv(env.MaxImageSize); v != "" {
			c.MaxImageSize = v
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxImageSize)
	if err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_image_size must be positive")
	}
	c.maxImageSizeVal = size

	return nil
}
