package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://api.careerdesk.io/v1" {
		t.Errorf("Unexpected default base URL: %s", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Unexpected default timeout: %v", cfg.Timeout())
	}
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("Unexpected default poll interval: %v", cfg.PollInterval())
	}
	if !cfg.Poll.Enabled {
		t.Error("Polling should default to enabled")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := `{
		"api": {"base_url": "http://localhost:9000", "timeout": "5s"},
		"ui": {"theme": "dark"}
	}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:9000" {
		t.Errorf("File value not applied: %s", cfg.API.BaseURL)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("File timeout not applied: %v", cfg.Timeout())
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("File theme not applied: %s", cfg.UI.Theme)
	}
	// Sections absent from the file keep their defaults.
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("Default poll interval lost: %v", cfg.PollInterval())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	raw := `{"api": {"base_url": "http://from-file"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAREERDESK_API_URL", "http://from-env")
	t.Setenv("CAREERDESK_THEME", "light")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://from-env" {
		t.Errorf("Env must beat file: %s", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Env theme not applied: %s", cfg.UI.Theme)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Expected error for malformed config.json")
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "not-a-duration"
	cfg.Poll.Interval = "-5s"

	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Bad timeout must fall back: %v", cfg.Timeout())
	}
	if cfg.PollInterval() != 60*time.Second {
		t.Errorf("Bad interval must fall back: %v", cfg.PollInterval())
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults must validate: %v", err)
	}

	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown theme")
	}

	cfg = DefaultConfig()
	cfg.API.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty base URL")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.UI.Theme = "dark"
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("Round trip lost theme: %s", loaded.UI.Theme)
	}
}
