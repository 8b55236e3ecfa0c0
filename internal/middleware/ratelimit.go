package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/fleet-scheduling/internal/config"
)

// tokenBucket refills and takes one token atomically.  It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
    tokens = capacity
    ts = now_ms
end

local steps = math.floor(math.max(0, now_ms - ts) / interval_ms)
if steps > 0 then
    tokens = math.min(capacity, tokens + steps * refill)
    ts = ts + steps * interval_ms
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry_ms = math.max(0, interval_ms - (now_ms - ts))
end

redis.call('HSET', key, 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, retry_ms}
`)

// RateLimit throttles requests with a Redis token bucket keyed per
// cfg.KeyStrategy.  With no Redis client, or on Redis errors, requests pass.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg, c)
            res, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                c.Logger().Warnf("ratelimit: key=%s: %v", key, err)
                return next(c)
            }
            allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000))
                h.Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = []string{"ip", ip}
    case "user":
        parts = []string{"user", userID(c)}
    case "ip_user":
        parts = []string{"ip", ip, "user", userID(c)}
    default:
        parts = []string{"ip", ip, "user", userID(c), "route", c.Request().Method + " " + c.Path()}
    }
    return fmt.Sprintf("%s:%s", cfg.Prefix, strings.Join(parts, ":"))
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
