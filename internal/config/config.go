// Package config loads careerdesk configuration. Precedence, lowest
// to highest: built-in defaults, ~/.careerdesk/config.json, a .env
// file in the working directory, then CAREERDESK_* environment
// variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"careerdesk/internal/logging"
)

// Config holds all careerdesk settings.
type Config struct {
	// API is the backend endpoint configuration.
	API APIConfig `json:"api"`

	// Poll configures background refresh of the unread counter.
	Poll PollConfig `json:"poll"`

	// UI holds presentation settings.
	UI UIConfig `json:"ui"`

	// Logging mirrors the section read by internal/logging.
	Logging LoggingConfig `json:"logging"`
}

// APIConfig configures the HTTP client.
type APIConfig struct {
	BaseURL string `json:"base_url" env:"API_URL"`
	Timeout string `json:"timeout" env:"API_TIMEOUT"`
}

// PollConfig configures the notification poller.
type PollConfig struct {
	Interval string `json:"interval" env:"POLL_INTERVAL"`
	Enabled  bool   `json:"enabled" env:"POLL_ENABLED"`
}

// UIConfig configures presentation.
type UIConfig struct {
	Theme string `json:"theme" env:"THEME"` // light, dark, or "" for auto
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode" env:"DEBUG"`
	Level      string          `json:"level" env:"LOG_LEVEL"`
	Categories map[string]bool `json:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.careerdesk.io/v1",
			Timeout: "15s",
		},
		Poll: PollConfig{
			Interval: "60s",
			Enabled:  true,
		},
		UI: UIConfig{
			Theme: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the careerdesk home directory (~/.careerdesk), creating
// nothing.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".careerdesk"), nil
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, "config.json")
}

// Load builds the effective configuration for the given careerdesk
// home directory.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// .env is optional and never overwrites variables already set in
	// the real environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Config("Skipping .env: %v", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	opts := env.Options{Prefix: "CAREERDESK_"}
	for _, target := range []any{&cfg.API, &cfg.Poll, &cfg.UI, &cfg.Logging} {
		if err := env.ParseWithOptions(target, opts); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Save writes the configuration to dir/config.json.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Timeout returns the HTTP client timeout as a duration.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// PollInterval returns the unread poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Poll.Interval)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Validate checks the configuration for values the client cannot run
// with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url not configured (set CAREERDESK_API_URL)")
	}
	switch c.UI.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("invalid theme: %s (valid: light, dark)", c.UI.Theme)
	}
	return nil
}
