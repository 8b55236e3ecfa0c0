package config

import (
    "context"
    "crypto/tls"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server shared by the rate limiter and the
// reference-data cache.  REDIS_HOST/REDIS_PORT take precedence over
// REDIS_ADDR.
type RedisConfig struct {
    Addr     string
    Password string
    DB       int
    TLS      bool
}

func loadRedisConfig(r *reader) RedisConfig {
    addr := r.str("REDIS_ADDR", "localhost:6379")
    if host, port := r.raw("REDIS_HOST"), r.raw("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    return RedisConfig{
        Addr:     addr,
        Password: r.raw("REDIS_PASSWORD"),
        DB:       r.integer("REDIS_DB", 0),
        TLS:      r.boolean("REDIS_TLS", false),
    }
}

// NewRedisClient connects and pings the server.  Callers treat an error as
// "run without Redis": caching and rate limiting then pass every request
// through.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
    opts := &redis.Options{
        Addr:     cfg.Addr,
        Password: cfg.Password,
        DB:       cfg.DB,
    }
    if cfg.TLS {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
    }
    return client, nil
}
