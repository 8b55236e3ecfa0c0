package config

import "time"

// CacheConfig defines settings for the Redis response cache placed in front
// of the reference-data routes (airports, aircraft types, enumerations).
// Methods lists the HTTP methods to cache.  MaxBodyBytes bounds what is
// stored; larger responses are served but not cached.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

func loadCacheConfig(r *reader) CacheConfig {
    return CacheConfig{
        Enabled:      r.boolean("CACHE_ENABLED", true),
        Methods:      r.list("CACHE_METHODS", "GET"),
        TTL:          r.duration("CACHE_TTL", 5*time.Minute),
        Prefix:       r.str("CACHE_PREFIX", "fleet:cache"),
        MaxBodyBytes: r.integer("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}
