// Package config provides configuration management for the StagePlot server.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Cache configuration
	RedisURL string // Empty disables caching
	CacheTTL time.Duration

	// Auth configuration
	JWTSecret string

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./dev.db"),

		// Cache
		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", ""),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks settings that have no safe default. An empty JWT secret
// would authenticate any token signed with the empty key, so it is only
// tolerated in development.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET must be set when ENV is not development")
	}
	return nil
}

// CacheEnabled returns true if a Redis cache backend is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvDuration returns the duration value (in seconds) of an environment
// variable or a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
