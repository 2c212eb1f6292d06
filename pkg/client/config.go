package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything one client session needs. The zero value is
// usable: it targets the public lounge API with an unbounded in-memory
// cache that lives for the session.
type Config struct {
	BaseURL  string `env:"LOUNGE_BASE_URL"`
	APIToken string `env:"LOUNGE_API_TOKEN"`

	HTTPTimeout time.Duration `env:"LOUNGE_HTTP_TIMEOUT"`
	MaxRetries  int           `env:"LOUNGE_HTTP_MAX_RETRIES"`

	// CacheTTL treats cache entries older than this as absent at lookup
	// time. Zero disables expiration: entries live for the session.
	CacheTTL time.Duration `env:"LOUNGE_CACHE_TTL"`
	// CacheSize, when positive, bounds each entity cache with LRU eviction.
	CacheSize int `env:"LOUNGE_CACHE_SIZE"`
	// ServeStale opts into returning an expired cache entry when a refresh
	// fails with a transport error. Off by default: failures surface
	// unchanged.
	ServeStale bool `env:"LOUNGE_SERVE_STALE"`

	// RedisAddr, when set, adds a shared Redis tier behind the in-memory
	// cache.
	RedisAddr     string `env:"LOUNGE_REDIS_ADDR"`
	RedisPassword string `env:"LOUNGE_REDIS_PASSWORD"`
	RedisDB       int    `env:"LOUNGE_REDIS_DB"`

	// HTTPClient overrides the built-in retrying client, mainly for tests.
	HTTPClient *http.Client
}

// ConfigFromEnv loads a Config from LOUNGE_* environment variables.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}
	return cfg, nil
}
