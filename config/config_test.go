package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("mode = %q, want release", cfg.Server.Mode)
	}
	if cfg.Fetch.ReaderProxy != "https://r.jina.ai/" {
		t.Errorf("reader proxy = %q", cfg.Fetch.ReaderProxy)
	}
	if cfg.Fetch.Timeout != 12*time.Second {
		t.Errorf("fetch timeout = %v, want 12s", cfg.Fetch.Timeout)
	}
	if cfg.Registry.Timeout != 8*time.Second {
		t.Errorf("registry timeout = %v, want 8s", cfg.Registry.Timeout)
	}
	if cfg.Market.TaskTimeout != 12*time.Second {
		t.Errorf("market task timeout = %v, want 12s", cfg.Market.TaskTimeout)
	}
	if cfg.Auth.Enabled {
		t.Error("auth enabled by default")
	}
	if cfg.RateLimit.RequestsPerSecond != 2.0 || cfg.RateLimit.Burst != 5 {
		t.Errorf("rate limit = %v/%d, want 2/5", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRUSTLENS_PORT", "9090")
	t.Setenv("TRUSTLENS_FETCH_TIMEOUT", "3s")
	t.Setenv("TRUSTLENS_AUTH_ENABLED", "true")
	t.Setenv("TRUSTLENS_API_KEYS", "key-a, key-b ,")
	t.Setenv("TRUSTLENS_MARKET_DISABLED", "Nike,Adidas")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("fetch timeout = %v, want 3s", cfg.Fetch.Timeout)
	}
	if !cfg.Auth.Enabled {
		t.Error("auth not enabled")
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[0] != "key-a" || cfg.Auth.APIKeys[1] != "key-b" {
		t.Errorf("api keys = %v, want trimmed two-element list", cfg.Auth.APIKeys)
	}
	if len(cfg.Market.Disabled) != 2 {
		t.Errorf("disabled retailers = %v", cfg.Market.Disabled)
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("TRUSTLENS_PORT", "not-a-number")
	t.Setenv("TRUSTLENS_FETCH_TIMEOUT", "eventually")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default on malformed value", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 12*time.Second {
		t.Errorf("fetch timeout = %v, want default on malformed value", cfg.Fetch.Timeout)
	}
}
