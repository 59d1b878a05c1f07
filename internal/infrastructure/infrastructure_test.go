package infrastructure_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/pest-lab/internal/config"
	"github.com/JaimeStill/pest-lab/internal/infrastructure"
	"github.com/JaimeStill/pest-lab/pkg/logging"
)

func TestNew_WithoutDatabase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")

	cfg := &config.Config{}
	cfg.Storage.BasePath = base
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	infra, err := infrastructure.New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer infra.Close()

	if infra.DB != nil {
		t.Error("DB is set with persistence disabled")
	}
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		t.Errorf("storage base path not created: %v", err)
	}
	if err := infra.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
