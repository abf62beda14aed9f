// Package common provides shared utilities for the MyGuide client
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the MyGuide client
type Config struct {
	Environment string        `toml:"environment"`
	API         APIConfig     `toml:"api"`
	Auth        AuthConfig    `toml:"auth"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
}

// APIConfig holds MyGuide API connection configuration
type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the request timeout duration
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AuthConfig holds credential lifecycle configuration.
type AuthConfig struct {
	// RefreshTimeout bounds how long callers queued behind an in-flight
	// token refresh wait before they are released with a timeout error.
	RefreshTimeout string `toml:"refresh_timeout"`
}

// GetRefreshTimeout parses and returns the refresh coordination timeout.
func (c *AuthConfig) GetRefreshTimeout() time.Duration {
	d, err := time.ParseDuration(c.RefreshTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StorageConfig holds credential persistence configuration.
// Backend selects where credentials live between runs: "file" keeps them in
// a local BadgerHold database under Path, "keyring" uses the OS credential
// store under Service.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Service string `toml:"service"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Environment: "development",
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:8000/api",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Auth: AuthConfig{
			RefreshTimeout: "30s",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(home, ".myguide", "credentials"),
			Service: "com.myguide.client",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MYGUIDE_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("MYGUIDE_API_BASE_URL"); url != "" {
		config.API.BaseURL = url
	}

	if rl := os.Getenv("MYGUIDE_API_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil {
			config.API.RateLimit = n
		}
	}

	if v := os.Getenv("MYGUIDE_API_TIMEOUT"); v != "" {
		config.API.Timeout = v
	}

	if v := os.Getenv("MYGUIDE_AUTH_REFRESH_TIMEOUT"); v != "" {
		config.Auth.RefreshTimeout = v
	}

	if v := os.Getenv("MYGUIDE_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}

	if path := os.Getenv("MYGUIDE_STORAGE_PATH"); path != "" {
		config.Storage.Path = path
	}

	if level := os.Getenv("MYGUIDE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
