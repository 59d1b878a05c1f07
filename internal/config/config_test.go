package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/pest-lab/internal/classifiers"
	"github.com/JaimeStill/pest-lab/internal/config"
	"github.com/JaimeStill/pest-lab/pkg/logging"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_MissingBaseUsesDefaults(t *testing.T) {
	t.Setenv(config.EnvPestLabEnv, "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Dataset.Root != "farm_insects" {
		t.Errorf("Dataset.Root = %q, want farm_insects", cfg.Dataset.Root)
	}
	if cfg.Classifier.Backend != classifiers.BackendCLIP {
		t.Errorf("Classifier.Backend = %q, want %q", cfg.Classifier.Backend, classifiers.BackendCLIP)
	}
	if cfg.Reports.Dir != "results" {
		t.Errorf("Reports.Dir = %q, want results", cfg.Reports.Dir)
	}
	if len(cfg.Catalog.Labels) != 15 {
		t.Errorf("len(Catalog.Labels) = %d, want 15", len(cfg.Catalog.Labels))
	}
	if cfg.Database.Enabled {
		t.Error("Database.Enabled = true, want false")
	}
}

func TestLoad_WithOverlay(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "config.toml", `
[logging]
level = "debug"

[dataset]
root = "farm_insects"

[catalog]
labels = ["Aphids", "Thrips"]
`)
	writeConfig(t, dir, "config.test.toml", `
[dataset]
root = "holdout"
`)

	t.Setenv(config.EnvPestLabEnv, "test")

	cfg, err := config.Load(base)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Dataset.Root != "holdout" {
		t.Errorf("Dataset.Root = %q, want holdout", cfg.Dataset.Root)
	}
	if cfg.Logging.Level != logging.LevelDebug {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Catalog.Labels) != 2 {
		t.Errorf("len(Catalog.Labels) = %d, want 2", len(cfg.Catalog.Labels))
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	t.Setenv(config.EnvPestLabEnv, "")
	path := writeConfig(t, t.TempDir(), "config.toml", "[dataset\nroot = ")

	if _, err := config.Load(path); err == nil {
		t.Error("Load() succeeded, want parse error")
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv("PESTLAB_DATASET_ROOT", "/data/insects")
	t.Setenv("PESTLAB_CLASSIFIER_ENDPOINT", "http://clip:9000/classify")
	t.Setenv("PESTLAB_REPORTS_DIR", "out")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Dataset.Root != "/data/insects" {
		t.Errorf("Dataset.Root = %q, want /data/insects", cfg.Dataset.Root)
	}
	if cfg.Classifier.Endpoint != "http://clip:9000/classify" {
		t.Errorf("Classifier.Endpoint = %q", cfg.Classifier.Endpoint)
	}
	if cfg.Reports.Dir != "out" {
		t.Errorf("Reports.Dir = %q, want out", cfg.Reports.Dir)
	}
}

func TestFinalize_InvalidSection(t *testing.T) {
	cfg := &config.Config{}
	cfg.Classifier.Backend = "svm"

	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() with unknown backend succeeded, want error")
	}
}
