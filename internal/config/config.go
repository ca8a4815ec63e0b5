// Package config holds application configuration: built-in defaults,
// overridden by an optional TOML file, overridden by flags in cmd.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultModel is the outbound model identifier.
	DefaultModel = "gemini-3-pro-preview"

	// DefaultTemperature favors deterministic, document-grounded answers.
	DefaultTemperature = 0.3

	// EnvAPIKey is the environment variable consulted as the last
	// credential source.
	EnvAPIKey = "GEMINI_API_KEY"

	// StoredKeyName is the settings key under which a remembered API key
	// is persisted.
	StoredKeyName = "gemini_api_key"
)

// BuildAPIKey is an optional API key baked in at build time:
//
//	go build -ldflags "-X AgenRP/internal/config.BuildAPIKey=<key>"
//
// It ships empty and sits below the session-entered and stored keys in the
// resolution order.
var BuildAPIKey string

// Config holds application configuration
type Config struct {
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	BaseURL     string  `toml:"base_url"`
	DBPath      string  `toml:"db_path"`
	LogDir      string  `toml:"log_dir"`
	Debug       bool    `toml:"debug"`

	// Documents are paths loaded into the corpus at startup.
	Documents []string `toml:"documents"`

	// SessionID selects an existing session to resume; flag-only.
	SessionID string `toml:"-"`

	// APIKey is the session-entered key; flag-only, never written to disk
	// by this package.
	APIKey string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		DBPath:      "agenrp.db",
		LogDir:      "logs",
	}
}

// DefaultPath returns the conventional config file location,
// ~/.agenrp/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agenrp", "config.toml")
}

// Load returns the defaults overlaid with the TOML file at path. An empty
// path selects DefaultPath; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
