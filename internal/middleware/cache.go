package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/fleet-scheduling/internal/config"
)

// cachedResponse is the Redis value for one cached response.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// recorder tees the response body into buf up to limit bytes.
type recorder struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int
    truncated bool
}

func (r *recorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
    if !r.truncated {
        if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
            r.truncated = true
            r.buf.Reset()
        } else {
            r.buf.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    u := c.Request().URL
    sum := sha1.Sum([]byte(c.Request().Method + " " + u.Path + "?" + u.RawQuery))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
}

// ResponseCache serves repeated reads of reference data from Redis.  Only
// 200 responses no larger than cfg.MaxBodyBytes are stored.  The X-Cache
// header reports HIT or MISS.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKey(cfg, c)

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(raw, &hit) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, hit.ContentType, hit.Body)
                }
            }

            rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.truncated {
                return nil
            }
            payload, err := json.Marshal(cachedResponse{
                Status:      rec.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        rec.buf.Bytes(),
            })
            if err == nil {
                // the request context may already be cancelled by the client
                _ = rdb.Set(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
            }
            return nil
        }
    }
}
