package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JaimeStill/pest-lab/pkg/logging"
)

func TestLevel_Validate(t *testing.T) {
	tests := []struct {
		level   logging.Level
		wantErr bool
	}{
		{logging.LevelDebug, false},
		{logging.LevelError, false},
		{logging.Level("INFO"), false},
		{logging.Level("warn+2"), false},
		{logging.Level("verbose"), true},
		{logging.Level(""), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			err := tt.level.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}

	logger := logging.NewWithWriter(cfg, &buf)
	logger.Info("image classified", "file", "aphid_1.jpg")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	if entry["file"] != "aphid_1.jpg" {
		t.Errorf("file = %v, want aphid_1.jpg", entry["file"])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logging.Config{Level: logging.LevelWarn, Format: logging.FormatText}

	logger := logging.NewWithWriter(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record missing")
	}
}

func TestConfig_Finalize_AppliesDefaults(t *testing.T) {
	cfg := &logging.Config{}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Level != logging.LevelInfo {
		t.Errorf("Level = %q, want %q (default)", cfg.Level, logging.LevelInfo)
	}
	if cfg.Format != logging.FormatText {
		t.Errorf("Format = %q, want %q (default)", cfg.Format, logging.FormatText)
	}
	if cfg.Output != logging.OutputStderr {
		t.Errorf("Output = %q, want %q (default)", cfg.Output, logging.OutputStderr)
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	env := &logging.Env{
		Level:  "TEST_LOG_LEVEL",
		Format: "TEST_LOG_FORMAT",
		Output: "TEST_LOG_OUTPUT",
	}

	t.Setenv(env.Level, "debug")
	t.Setenv(env.Format, "json")
	t.Setenv(env.Output, "stdout")

	cfg := &logging.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Level != logging.LevelDebug {
		t.Errorf("Level = %q, want %q", cfg.Level, logging.LevelDebug)
	}
	if cfg.Format != logging.FormatJSON {
		t.Errorf("Format = %q, want %q", cfg.Format, logging.FormatJSON)
	}
	if cfg.Output != logging.OutputStdout {
		t.Errorf("Output = %q, want %q", cfg.Output, logging.OutputStdout)
	}
}

func TestConfig_Finalize_InvalidOutput(t *testing.T) {
	cfg := &logging.Config{Output: "file"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() succeeded with invalid output, want error")
	}
}

func TestConfig_Merge(t *testing.T) {
	base := &logging.Config{
		Level:  logging.LevelInfo,
		Format: logging.FormatJSON,
		Output: logging.OutputStderr,
	}

	base.Merge(&logging.Config{Level: logging.LevelDebug})

	if base.Level != logging.LevelDebug {
		t.Errorf("Level = %q, want %q (should merge)", base.Level, logging.LevelDebug)
	}
	if base.Format != logging.FormatJSON {
		t.Errorf("Format = %q, want %q (should not change)", base.Format, logging.FormatJSON)
	}
	if base.Output != logging.OutputStderr {
		t.Errorf("Output = %q, want %q (should not change)", base.Output, logging.OutputStderr)
	}
}
