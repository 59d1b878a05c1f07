package database

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config contains database connection configuration.
// Persistence is optional; when Enabled is false the remaining fields are not validated.
type Config struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env maps environment variable names for database configuration.
type Env struct {
	Enabled         string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

// ConnMaxLifetimeDuration parses and returns the connection max lifetime as a time.Duration.
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

// ConnTimeoutDuration parses and returns the connection timeout as a time.Duration.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Dsn returns the PostgreSQL keyword/value connection string.
func (c *Config) Dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		c.Host, c.Port, c.Name, c.User, c.Password,
	)
}

// MigrateURL returns the connection URL understood by the migrate pgx/v5 driver.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Finalize applies defaults, loads environment overrides, and validates the database configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if !c.Enabled {
		return nil
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
// An overlay can enable persistence but never disable it.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = c.Enabled || overlay.Enabled
	mergeValue(&c.Host, overlay.Host)
	mergeValue(&c.Port, overlay.Port)
	mergeValue(&c.Name, overlay.Name)
	mergeValue(&c.User, overlay.User)
	mergeValue(&c.Password, overlay.Password)
	mergeValue(&c.MaxOpenConns, overlay.MaxOpenConns)
	mergeValue(&c.MaxIdleConns, overlay.MaxIdleConns)
	mergeValue(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	mergeValue(&c.ConnTimeout, overlay.ConnTimeout)
}

func mergeValue[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Name == "" {
		c.Name = "pest_lab"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 5
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 2
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "15m"
	}
	if c.ConnTimeout == "" {
		c.ConnTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	lookupBool(env.Enabled, &c.Enabled)
	lookupString(env.Host, &c.Host)
	lookupInt(env.Port, &c.Port)
	lookupString(env.Name, &c.Name)
	lookupString(env.User, &c.User)
	lookupString(env.Password, &c.Password)
	lookupInt(env.MaxOpenConns, &c.MaxOpenConns)
	lookupInt(env.MaxIdleConns, &c.MaxIdleConns)
	lookupString(env.ConnMaxLifetime, &c.ConnMaxLifetime)
	lookupString(env.ConnTimeout, &c.ConnTimeout)
}

// The lookup helpers overwrite dst only when the named variable is set to a
// value that parses.

func lookupString(name string, dst *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func lookupInt(name string, dst *int) {
	if name == "" {
		return
	}
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		*dst = n
	}
}

func lookupBool(name string, dst *bool) {
	if name == "" {
		return
	}
	if b, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		*dst = b
	}
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.User == "" {
		return fmt.Errorf("user required")
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}
