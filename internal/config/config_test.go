package config

import (
	"testing"
	"time"
)

func TestLoad_CustomEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "file:./prod.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("CACHE_TTL", "120")
	t.Setenv("JWT_SECRET", "topsecret")
	t.Setenv("CORS_ORIGIN", "http://example.com")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
	if cfg.DatabaseURL != "file:./prod.db" {
		t.Errorf("Expected DatabaseURL to be 'file:./prod.db', got '%s'", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("Expected RedisURL to be set, got '%s'", cfg.RedisURL)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("Expected CacheTTL to be 2m, got %v", cfg.CacheTTL)
	}
	if cfg.JWTSecret != "topsecret" {
		t.Errorf("Expected JWTSecret to be set, got '%s'", cfg.JWTSecret)
	}
	if cfg.CORSOrigin != "http://example.com" {
		t.Errorf("Expected CORSOrigin to be 'http://example.com', got '%s'", cfg.CORSOrigin)
	}
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction to be true")
	}
	if cfg.IsDevelopment() {
		t.Error("Expected IsDevelopment to be false")
	}
	if !cfg.CacheEnabled() {
		t.Error("Expected CacheEnabled to be true when REDIS_URL is set")
	}
}

func TestLoad_InvalidCacheTTLFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-number")

	cfg := Load()

	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected default CacheTTL of 5m, got %v", cfg.CacheTTL)
	}
}

func TestValidate_EmptyJWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"production without secret", &Config{Env: "production"}, true},
		{"test without secret", &Config{Env: "test"}, true},
		{"development without secret", &Config{Env: "development"}, false},
		{"production with secret", &Config{Env: "production", JWTSecret: "s"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCacheEnabled_DisabledWithoutURL(t *testing.T) {
	cfg := &Config{RedisURL: ""}
	if cfg.CacheEnabled() {
		t.Error("Expected CacheEnabled to be false without REDIS_URL")
	}
}
