package config

import "time"

// CacheConfig defines settings for the response cache middleware.
// Caching is a pure optimization: when disabled, or when no Redis
// client could be constructed, requests fall straight through.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "30s"), 30*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
	}
}
