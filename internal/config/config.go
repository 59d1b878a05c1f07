// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/pest-lab/internal/classifiers"
	"github.com/JaimeStill/pest-lab/internal/dataset"
	"github.com/JaimeStill/pest-lab/internal/prompts"
	"github.com/JaimeStill/pest-lab/internal/reports"
	"github.com/JaimeStill/pest-lab/pkg/database"
	"github.com/JaimeStill/pest-lab/pkg/logging"
	"github.com/JaimeStill/pest-lab/pkg/pagination"
	"github.com/JaimeStill/pest-lab/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvPestLabEnv specifies the environment name for configuration overlays.
	EnvPestLabEnv = "PESTLAB_ENV"
)

// Config represents the root application configuration.
type Config struct {
	Logging    logging.Config     `toml:"logging"`
	Storage    storage.Config     `toml:"storage"`
	Database   database.Config    `toml:"database"`
	Pagination pagination.Config  `toml:"pagination"`
	Catalog    prompts.Config     `toml:"catalog"`
	Dataset    dataset.Config     `toml:"dataset"`
	Classifier classifiers.Config `toml:"classifier"`
	Reports    reports.Config     `toml:"reports"`
}

// Load reads the configuration file at path and applies any environment-specific
// overlay found next to it. An empty path means BaseConfigFile. A missing base
// file yields an empty configuration so that defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = BaseConfigFile
	}

	cfg, err := load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates every section.
func (c *Config) Finalize() error {
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Catalog.Finalize(catalogEnv); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Dataset.Finalize(datasetEnv); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Reports.Finalize(reportsEnv); err != nil {
		return fmt.Errorf("reports: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Logging.Merge(&overlay.Logging)
	c.Storage.Merge(&overlay.Storage)
	c.Database.Merge(&overlay.Database)
	c.Pagination.Merge(&overlay.Pagination)
	c.Catalog.Merge(&overlay.Catalog)
	c.Dataset.Merge(&overlay.Dataset)
	c.Classifier.Merge(&overlay.Classifier)
	c.Reports.Merge(&overlay.Reports)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// overlayPath resolves config.<env>.toml in the directory of base.
func overlayPath(base string) string {
	env := os.Getenv(EnvPestLabEnv)
	if env == "" {
		return ""
	}

	name := fmt.Sprintf(OverlayConfigPattern, strings.ToLower(env))
	path := filepath.Join(filepath.Dir(base), name)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
