package database_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/pest-lab/pkg/database"
)

func TestConfig_Finalize_DisabledSkipsValidation(t *testing.T) {
	cfg := &database.Config{}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432 (default)", cfg.Port)
	}
	if cfg.ConnTimeoutDuration() != 5*time.Second {
		t.Errorf("ConnTimeoutDuration() = %v, want 5s", cfg.ConnTimeoutDuration())
	}
}

func TestConfig_Finalize_EnabledRequiresUser(t *testing.T) {
	cfg := &database.Config{Enabled: true}

	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() succeeded without user, want error")
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	env := &database.Env{
		Enabled: "TEST_DB_ENABLED",
		User:    "TEST_DB_USER",
		Port:    "TEST_DB_PORT",
	}
	t.Setenv(env.Enabled, "true")
	t.Setenv(env.User, "scout")
	t.Setenv(env.Port, "5433")

	cfg := &database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("Enabled = false, want true")
	}
	if cfg.User != "scout" {
		t.Errorf("User = %q, want scout", cfg.User)
	}
	if cfg.Port != 5433 {
		t.Errorf("Port = %d, want 5433", cfg.Port)
	}
}

func TestConfig_Finalize_InvalidDuration(t *testing.T) {
	cfg := &database.Config{Enabled: true, User: "scout", ConnTimeout: "soon"}

	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() succeeded with invalid conn_timeout, want error")
	}
}

func TestConfig_Dsn(t *testing.T) {
	cfg := &database.Config{Host: "db", Port: 5432, Name: "pest_lab", User: "u", Password: "p"}

	want := "host=db port=5432 dbname=pest_lab user=u password=p sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

func TestConfig_MigrateURL(t *testing.T) {
	cfg := &database.Config{Host: "db", Port: 5432, Name: "pest_lab", User: "u", Password: "p@ss"}

	want := "pgx5://u:p%40ss@db:5432/pest_lab?sslmode=disable"
	if got := cfg.MigrateURL(); got != want {
		t.Errorf("MigrateURL() = %q, want %q", got, want)
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &database.Config{Host: "localhost", Port: 5432, User: "base"}
	base.Merge(&database.Config{Enabled: true, Host: "db.internal"})

	if !base.Enabled {
		t.Error("Enabled = false, want true (should merge)")
	}
	if base.Host != "db.internal" {
		t.Errorf("Host = %q, want db.internal", base.Host)
	}
	if base.User != "base" {
		t.Errorf("User = %q, want base (should not change)", base.User)
	}
}
