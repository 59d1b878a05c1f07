package reports

import (
	"fmt"
	"os"
	"slices"
)

// Format names one report file.
type Format string

// Report formats, one file each.
const (
	FormatJSON    Format = "json"
	FormatRecords Format = "records"
	FormatSummary Format = "summary"
	FormatText    Format = "text"
	FormatReadme  Format = "readme"
)

// AllFormats lists every format in the order files are written.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatRecords, FormatSummary, FormatText, FormatReadme}
}

// File returns the report file name for f.
func (f Format) File() string {
	switch f {
	case FormatJSON:
		return "detailed_results.json"
	case FormatRecords:
		return "individual_results.csv"
	case FormatSummary:
		return "summary_statistics.csv"
	case FormatText:
		return "results_summary.txt"
	case FormatReadme:
		return "README.md"
	default:
		return ""
	}
}

// Config controls where reports are stored and which are produced.
type Config struct {
	// Dir is the storage key prefix for report files. Default: "results"
	Dir string `toml:"dir"`

	// Formats lists enabled reports. Default: all
	Formats []Format `toml:"formats"`
}

// Env maps environment variable names for report configuration.
type Env struct {
	Dir string
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
	if overlay.Dir != "" {
		c.Dir = overlay.Dir
	}
	if len(overlay.Formats) > 0 {
		c.Formats = overlay.Formats
	}
}

// Enabled reports whether f is produced.
func (c *Config) Enabled(f Format) bool {
	return slices.Contains(c.Formats, f)
}

func (c *Config) loadDefaults() {
	if c.Dir == "" {
		c.Dir = "results"
	}
	if len(c.Formats) == 0 {
		c.Formats = AllFormats()
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Dir != "" {
		if v := os.Getenv(env.Dir); v != "" {
			c.Dir = v
		}
	}
}

func (c *Config) validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir required")
	}
	for _, f := range c.Formats {
		if f.File() == "" {
			return fmt.Errorf("unknown report format: %s", f)
		}
	}
	return nil
}
