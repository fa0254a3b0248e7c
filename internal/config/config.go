// Package config provides configuration loading and validation for the
// service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the service needs to run. All fields are
// optional in the JSON file; missing values fall back to environment
// variables and then to defaults.
type Config struct {
	// LLM
	APIKey string `json:"api_key,omitempty"` // Gemini API key

	// Vector store
	QdrantURL        string `json:"qdrant_url,omitempty"`        // Qdrant base URL
	QdrantAPIKey     string `json:"qdrant_api_key,omitempty"`    // Qdrant API key (optional)
	QdrantCollection string `json:"qdrant_collection,omitempty"` // Collection name

	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (optional)

	// Server
	Addr            string `json:"addr,omitempty"`             // HTTP listen address
	ShutdownTimeout int    `json:"shutdown_timeout,omitempty"` // Graceful shutdown timeout in seconds

	// Retrieval
	SearchLimit int `json:"search_limit,omitempty"` // Max fragments returned per generation

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		QdrantURL:        "http://localhost:6333",
		QdrantCollection: "resume",
		Addr:             ":8080",
		ShutdownTimeout:  10,
		SearchLimit:      15,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables
// leave their fields empty so they can be filled by MergeWithDefaults.
func FromEnv() Config {
	cfg := Config{
		APIKey:           os.Getenv("GEMINI_API_KEY"),
		QdrantURL:        os.Getenv("QDRANT_URL"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: os.Getenv("QDRANT_COLLECTION"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Addr:             os.Getenv("RESUME_ADDR"),
	}
	if v := os.Getenv("RESUME_SEARCH_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.SearchLimit = limit
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Note: required fields are checked here because the service cannot run
// without them; optional integrations (Postgres) are not.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: Gemini API key is required (set GEMINI_API_KEY or 'api_key')")
	}
	if c.QdrantURL == "" {
		return fmt.Errorf("config error: Qdrant URL is required (set QDRANT_URL or 'qdrant_url')")
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("config error: 'search_limit' must be non-negative")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config error: 'shutdown_timeout' must be non-negative")
	}
	return nil
}

// ShutdownGrace returns the graceful shutdown timeout as a duration.
func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to layer file values over env values over built-ins.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.QdrantURL == "" {
		result.QdrantURL = defaults.QdrantURL
	}
	if result.QdrantAPIKey == "" {
		result.QdrantAPIKey = defaults.QdrantAPIKey
	}
	if result.QdrantCollection == "" {
		result.QdrantCollection = defaults.QdrantCollection
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}

	// Int fields: use default if zero
	if result.SearchLimit == 0 {
		result.SearchLimit = defaults.SearchLimit
	}
	if result.ShutdownTimeout == 0 {
		result.ShutdownTimeout = defaults.ShutdownTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
