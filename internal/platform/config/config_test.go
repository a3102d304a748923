package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("SEARCH_DEBOUNCE", "")
	t.Setenv("DATABASE_URL", "")
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %v", cfg.SearchDebounce)
	}
	if cfg.UsesDatabase() {
		t.Fatal("database should be optional")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://kra.example.com/api/v1")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("METRICS_ENABLED", "false")
	cfg := Load()
	if cfg.APIBaseURL != "https://kra.example.com/api/v1" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		APIBaseURL:         "http://localhost:3000/api/v1",
		SessionTTL:         time.Hour,
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := map[string]func(c *Config){
		"relative base url": func(c *Config) { c.APIBaseURL = "/api/v1" },
		"short ttl":         func(c *Config) { c.SessionTTL = time.Second },
		"tiny body":         func(c *Config) { c.MaxBodyBytes = 10 },
		"zero rate":         func(c *Config) { c.RateLimitPerMinute = 0 },
		"weak prod secret": func(c *Config) {
			c.Environment = "production"
			c.SessionSecret = "short"
			c.DataEncryptionKey = "k"
		},
		"prod without key": func(c *Config) {
			c.Environment = "production"
			c.SessionSecret = "0123456789abcdef0123456789abcdef"
		},
	}
	for name, mutate := range tests {
		cfg := valid
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
