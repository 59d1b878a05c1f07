package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/document-context/pkg/document"
)

// Config describes where labelled images live and how scouting sheets are rendered.
type Config struct {
	// Root holds one subfolder per ground-truth class. Default: "farm_insects"
	Root string `toml:"root"`

	// Extensions lists accepted image file extensions, case-insensitive.
	Extensions []string `toml:"extensions"`

	// RenderPDFs expands PDF scouting sheets into one item per page.
	RenderPDFs bool `toml:"render_pdfs"`

	// PageFormat is the rendered page format, "png" or "jpg". Default: "png"
	PageFormat string `toml:"page_format"`

	// PageDPI is the rendering resolution. Default: 150
	PageDPI int `toml:"page_dpi"`
}

// Env maps environment variable names for dataset configuration.
type Env struct {
	Root       string
	RenderPDFs string
	PageDPI    string
}

// DefaultExtensions are the image types accepted when none are configured.
func DefaultExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp"}
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
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if len(overlay.Extensions) > 0 {
		c.Extensions = overlay.Extensions
	}
	if overlay.RenderPDFs {
		c.RenderPDFs = true
	}
	if overlay.PageFormat != "" {
		c.PageFormat = overlay.PageFormat
	}
	if overlay.PageDPI != 0 {
		c.PageDPI = overlay.PageDPI
	}
}

// Options converts the configuration into scan options.
func (c *Config) Options(maxImageSize int64) Options {
	return Options{
		Extensions:   c.Extensions,
		MaxImageSize: maxImageSize,
	}
}

func (c *Config) loadDefaults() {
	if c.Root == "" {
		c.Root = "farm_insects"
	}
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultExtensions()
	}
	if c.PageFormat == "" {
		c.PageFormat = "png"
	}
	if c.PageDPI == 0 {
		c.PageDPI = 150
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Root != "" {
		if v := os.Getenv(env.Root); v != "" {
			c.Root = v
		}
	}
	if env.RenderPDFs != "" {
		if v := os.Getenv(env.RenderPDFs); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.RenderPDFs = b
			}
		}
	}
	if env.PageDPI != "" {
		if v := os.Getenv(env.PageDPI); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.PageDPI = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Root == "" {
		return fmt.Errorf("root required")
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
	format, err := document.ParseImageFormat(c.PageFormat)
	if err != nil {
		return fmt.Errorf("invalid page_format: %w", err)
	}
	c.PageFormat = string(format)
	if c.PageDPI < 72 || c.PageDPI > 1200 {
		return fmt.Errorf("page_dpi must be between 72 and 1200")
	}
	return nil
}
