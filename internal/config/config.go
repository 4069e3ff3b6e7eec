// Package config provides configuration loading and validation for the CLI
// and the recommendation server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// History backends selectable with history_backend.
const (
	HistoryMemory = "memory"
	HistorySQLite = "sqlite"
	HistoryRemote = "remote"
)

// Config is the CLI configuration that can be loaded from a JSON file.
// All fields are optional; empty values fall back to package defaults.
type Config struct {
	APIBaseURL     string `json:"api_base_url,omitempty"`    // Recommendation service address
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Per-request timeout for recommendations
	HistoryBackend string `json:"history_backend,omitempty"` // memory, sqlite, or remote
	SQLitePath     string `json:"sqlite_path,omitempty"`     // Database file for the sqlite backend
	SessionPath    string `json:"session_path,omitempty"`    // Where the sign-in token is cached
	Email          string `json:"email,omitempty"`           // Default sign-in email
	Verbose        bool   `json:"verbose,omitempty"`         // Print request logs
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}

	switch c.HistoryBackend {
	case "", HistoryMemory, HistorySQLite, HistoryRemote:
	default:
		return fmt.Errorf("config error: unknown history_backend %q", c.HistoryBackend)
	}

	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: api_base_url must be an http(s) URL, got %q", c.APIBaseURL)
		}
	}
	return nil
}

// MergeWithDefaults returns a copy of c with empty fields taken from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.HistoryBackend == "" {
		result.HistoryBackend = defaults.HistoryBackend
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.SessionPath == "" {
		result.SessionPath = defaults.SessionPath
	}
	if result.Email == "" {
		result.Email = defaults.Email
	}

	// Bools cannot distinguish unset from false, so flags always win.
	return result
}

// ApplyEnv overrides fields from CAREER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CAREER_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("CAREER_API_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CAREER_API_TIMEOUT: %w", err)
		}
		c.TimeoutSeconds = secs
	}
	if v := os.Getenv("CAREER_HISTORY_BACKEND"); v != "" {
		c.HistoryBackend = v
	}
	if v := os.Getenv("CAREER_EMAIL"); v != "" {
		c.Email = v
	}
	return nil
}

// Timeout returns the request timeout, or zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
