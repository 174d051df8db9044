// Package config handles application configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
)

// Config represents the application configuration.
type Config struct {
	RecordingsDir string              `json:"recordings_dir"`
	SettingsFile  string              `json:"settings_file"`
	Port          int                 `json:"port"`
	KeepDays      int                 `json:"keep_days"`
	Timezone      string              `json:"timezone"`
	LogFile       string              `json:"log_file,omitempty"`
	Debug         bool                `json:"debug,omitempty"`
	APISecret     string              `json:"api_secret,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty"`
}

// NotificationConfig holds settings for notification delivery.
type NotificationConfig struct {
	WebhookURL string   `json:"webhook_url,omitempty"`
	PushURLs   []string `json:"push_urls,omitempty"` // shoutrrr service URLs
}

// Load reads and parses the configuration from a JSON file and applies
// sensible defaults for missing values.
func Load(path string) (*Config, error) {
	file, err := os.Open(path) //nolint:gosec // Config path is provided by the application, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var cfg Config

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RecordingsDir == "" {
		c.RecordingsDir = constants.DefaultRecordingsDir
	}
	if c.SettingsFile == "" {
		c.SettingsFile = filepath.Join(c.RecordingsDir, "settings.yaml")
	}
	if c.KeepDays == 0 {
		c.KeepDays = constants.DefaultKeepDays
	}
	if c.Port == 0 {
		c.Port = constants.DefaultPort
	}
	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
}
