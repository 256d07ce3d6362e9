package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Registry  RegistryConfig
	Market    MarketConfig
	Store     StoreConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls the outbound fetch gateway.
type FetchConfig struct {
	// RenderProxy is an optional rendering/anti-bot proxy endpoint. When set,
	// page fetches are routed through it by appending the url-encoded target,
	// e.g. "https://api.scraperapi.com?api_key=KEY&url=".
	RenderProxy string

	// ReaderProxy is the reader/markdown-rendering proxy prefix. A target URL
	// is fetched as markdown by prepending this value.
	// default: "https://r.jina.ai/"
	ReaderProxy string

	// Proxy is an optional forward proxy URL ("http://..." or "socks5://...")
	// applied to all outbound requests.
	Proxy string

	// Timeout is the per-fetch deadline. default: 12s
	Timeout time.Duration

	// MaxBodyBytes caps how much of a response body is read. default: 10 MiB
	MaxBodyBytes int64
}

// RegistryConfig controls the safety registry clients.
type RegistryConfig struct {
	// CPSCBaseURL is the CPSC SaferProducts recall endpoint.
	CPSCBaseURL string // default: "https://www.saferproducts.gov/RestWebServices/Recall"

	// FDABaseURL is the openFDA API root.
	FDABaseURL string // default: "https://api.fda.gov"

	// Timeout is the per-registry deadline. default: 8s
	Timeout time.Duration
}

// MarketConfig controls the multi-retailer search fan-out.
type MarketConfig struct {
	// TaskTimeout is the deadline for each retailer search task. default: 12s
	TaskTimeout time.Duration

	// Disabled lists retailer names excluded from the fan-out.
	Disabled []string
}

// StoreConfig controls the persistence collaborator.
type StoreConfig struct {
	// PostgresDSN enables price tracking when non-empty. Empty runs the
	// service with a no-op store.
	PostgresDSN string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the report cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached reports.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("TRUSTLENS_HOST", "0.0.0.0"),
			Port: envIntOr("TRUSTLENS_PORT", 8080),
			Mode: envOr("TRUSTLENS_MODE", "release"),
		},
		Fetch: FetchConfig{
			RenderProxy:  os.Getenv("TRUSTLENS_RENDER_PROXY"),
			ReaderProxy:  envOr("TRUSTLENS_READER_PROXY", "https://r.jina.ai/"),
			Proxy:        os.Getenv("TRUSTLENS_PROXY"),
			Timeout:      envDurationOr("TRUSTLENS_FETCH_TIMEOUT", 12*time.Second),
			MaxBodyBytes: int64(envIntOr("TRUSTLENS_MAX_BODY_BYTES", 10*1024*1024)),
		},
		Registry: RegistryConfig{
			CPSCBaseURL: envOr("TRUSTLENS_CPSC_URL", "https://www.saferproducts.gov/RestWebServices/Recall"),
			FDABaseURL:  envOr("TRUSTLENS_FDA_URL", "https://api.fda.gov"),
			Timeout:     envDurationOr("TRUSTLENS_REGISTRY_TIMEOUT", 8*time.Second),
		},
		Market: MarketConfig{
			TaskTimeout: envDurationOr("TRUSTLENS_MARKET_TIMEOUT", 12*time.Second),
			Disabled:    envSliceOr("TRUSTLENS_MARKET_DISABLED", nil),
		},
		Store: StoreConfig{
			PostgresDSN: os.Getenv("TRUSTLENS_POSTGRES_DSN"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("TRUSTLENS_AUTH_ENABLED", false),
			APIKeys: envSliceOr("TRUSTLENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("TRUSTLENS_RATE_RPS", 2.0),
			Burst:             envIntOr("TRUSTLENS_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("TRUSTLENS_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("TRUSTLENS_LOG_LEVEL", "info"),
			Format: envOr("TRUSTLENS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
