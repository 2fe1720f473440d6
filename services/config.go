package services

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for the external classification/search/
// document services. All endpoints live behind one base URL (the FastAPI
// gateway), so a single entry covers them.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
}

// DefaultConfig returns the local-development defaults.
func DefaultConfig() Config {
	var cfg Config
	cfg.API.BaseURL = "http://127.0.0.1:8000"
	cfg.API.TimeoutSeconds = 120
	return cfg
}

// LoadConfig reads a yaml config file, falling back to defaults when the
// file does not exist. The QUOTE_API_BASE environment variable overrides
// the base URL either way.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// no file is fine, defaults apply
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if base := os.Getenv("QUOTE_API_BASE"); base != "" {
		cfg.API.BaseURL = base
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = DefaultConfig().API.TimeoutSeconds
	}
	return cfg, nil
}

// HTTPClient builds the client used for all upstream calls.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: time.Duration(c.API.TimeoutSeconds) * time.Second}
}
