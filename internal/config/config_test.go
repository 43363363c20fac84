package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("TMDB_TOKEN", "token")
	t.Setenv("RECO_CACHE_TTL", "")

	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want console", cfg.LogFormat)
	}
	if cfg.Recommend.DefaultLimit != 15 {
		t.Errorf("DefaultLimit = %d, want 15", cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.Recommend.CacheTTL)
	}
	if cfg.TMDB.Timeout != 5*time.Second {
		t.Errorf("TMDB.Timeout = %v, want 5s", cfg.TMDB.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TMDB_TOKEN", "token")
	t.Setenv("RECO_CACHE_TTL", "10m")
	t.Setenv("RECO_CACHE_BACKEND", "lru")
	t.Setenv("TMDB_RPS", "12.5")
	t.Setenv("RECO_DEFAULT_LIMIT", "not-a-number")

	cfg := Load()

	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.Recommend.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.Recommend.CacheTTL)
	}
	if cfg.Recommend.CacheBackend != "lru" {
		t.Errorf("CacheBackend = %q, want lru", cfg.Recommend.CacheBackend)
	}
	if cfg.TMDB.RequestsPerSec != 12.5 {
		t.Errorf("RequestsPerSec = %v, want 12.5", cfg.TMDB.RequestsPerSec)
	}
	if cfg.Recommend.DefaultLimit != 15 {
		t.Errorf("DefaultLimit = %d, want fallback 15", cfg.Recommend.DefaultLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing token", func(c *Config) { c.TMDB.Token = "" }, true},
		{"unknown cache backend", func(c *Config) { c.Recommend.CacheBackend = "redis" }, true},
		{"zero ttl", func(c *Config) { c.Recommend.CacheTTL = 0 }, true},
		{"limit too large", func(c *Config) { c.Recommend.DefaultLimit = 500 }, true},
		{"bad person sort", func(c *Config) { c.Recommend.PersonSort = "rating" }, true},
		{"bad port", func(c *Config) { c.Port = "http" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			t.Setenv("TMDB_TOKEN", "token")
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
