// Package config provides configuration management for PageGate. Settings
// come from an optional YAML file and environment variables with the
// PAGEGATE_ prefix; the environment takes precedence over the file, and both
// fall back to sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the gateway.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Security SecurityConfig `yaml:"security"`
	Media    MediaConfig    `yaml:"media"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"` // Listen host (default: 127.0.0.1)
	Port int    `yaml:"port"` // Listen port (default: 8000)

	// RateLimit is the sustained request rate per second across the API
	// (default: 50); RateBurst is the burst allowance (default: 100).
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// StoreConfig contains the graph store connection settings.
type StoreConfig struct {
	Address        string `yaml:"address"`         // Store HTTP endpoint (default: http://localhost:8000)
	Database       string `yaml:"database"`        // Database name (default: social-network)
	Username       string `yaml:"username"`        // Sign-in username (default: admin)
	Password       string `yaml:"password"`        // Sign-in password
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout (default: 30)
}

// SecurityConfig contains authentication settings. In development mode the
// API is open; in production mode requests need the bearer token.
type SecurityConfig struct {
	Mode     string `yaml:"mode"`      // development or production (default: development)
	APIToken string `yaml:"api_token"` // Bearer token required in production mode
}

// MediaConfig contains the embedded media store settings.
type MediaConfig struct {
	DataPath string `yaml:"data_path"` // Directory for the media database (default: ./data)
}

// Load builds the configuration. When path is non-empty the YAML file at that
// path is read first; environment variables override file values, and
// defaults fill whatever remains.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.Security.Mode != "development" && cfg.Security.Mode != "production" {
		return nil, fmt.Errorf("config: invalid security mode %q", cfg.Security.Mode)
	}
	if cfg.Security.Mode == "production" && cfg.Security.APIToken == "" {
		return nil, fmt.Errorf("config: production mode requires PAGEGATE_API_TOKEN")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("PAGEGATE_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("PAGEGATE_PORT", cfg.Server.Port)
	cfg.Server.RateLimit = getEnvFloat("PAGEGATE_RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.RateBurst = getEnvInt("PAGEGATE_RATE_BURST", cfg.Server.RateBurst)

	cfg.Store.Address = getEnv("PAGEGATE_STORE_ADDRESS", cfg.Store.Address)
	cfg.Store.Database = getEnv("PAGEGATE_STORE_DATABASE", cfg.Store.Database)
	cfg.Store.Username = getEnv("PAGEGATE_STORE_USERNAME", cfg.Store.Username)
	cfg.Store.Password = getEnv("PAGEGATE_STORE_PASSWORD", cfg.Store.Password)
	cfg.Store.TimeoutSeconds = getEnvInt("PAGEGATE_STORE_TIMEOUT", cfg.Store.TimeoutSeconds)

	cfg.Security.Mode = getEnv("PAGEGATE_SECURITY_MODE", cfg.Security.Mode)
	cfg.Security.APIToken = getEnv("PAGEGATE_API_TOKEN", cfg.Security.APIToken)

	cfg.Media.DataPath = getEnv("PAGEGATE_DATA_PATH", cfg.Media.DataPath)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 50
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 100
	}
	if cfg.Store.Address == "" {
		cfg.Store.Address = "http://localhost:8000"
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "social-network"
	}
	if cfg.Store.Username == "" {
		cfg.Store.Username = "admin"
	}
	if cfg.Store.TimeoutSeconds == 0 {
		cfg.Store.TimeoutSeconds = 30
	}
	if cfg.Security.Mode == "" {
		cfg.Security.Mode = "development"
	}
	if cfg.Media.DataPath == "" {
		cfg.Media.DataPath = "./data"
	}
}

// getEnv retrieves a string environment variable or returns the fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable or returns the
// fallback, also when the value does not parse.
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable or returns the
// fallback, also when the value does not parse.
func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return fallback
}
