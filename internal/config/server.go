package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig is read from the environment by the serve command.
type ServerConfig struct {
	Port         int
	DatabaseURL  string        // empty keeps users and history in memory
	RedisURL     string        // empty disables the response cache
	GeminiAPIKey string        // empty disables insight enrichment
	CacheTTL     time.Duration // lifetime of cached recommendation responses
}

// NewServerConfig reads PORT (default 8000), DATABASE_URL, REDIS_URL,
// GEMINI_API_KEY, and CACHE_TTL (default 10m).
func NewServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:         8000,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		CacheTTL:     10 * time.Minute,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %v", err)
		}
		cfg.CacheTTL = ttl
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}
