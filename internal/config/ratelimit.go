package config

import "time"

// RateLimitConfig drives the Redis token bucket.  Each key starts with
// Capacity tokens and regains RefillTokens every RefillInterval.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string // ip, user, ip_user or ip_user_route
    Prefix         string
}

func loadRateLimitConfig(r *reader) RateLimitConfig {
    c := RateLimitConfig{
        Enabled:        r.boolean("RATE_LIMIT_ENABLED", true),
        Capacity:       r.integer("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   r.integer("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: r.duration("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            r.duration("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    r.str("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         r.str("RATE_LIMIT_PREFIX", "fleet:rl"),
    }
    if c.Capacity < 1 {
        c.Capacity = 1
    }
    if c.RefillTokens < 1 {
        c.RefillTokens = 1
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    // a bucket must survive long enough to refill at least a few times
    if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
        c.TTL = minTTL
    }
    return c
}
