package middleware

import (
    "log/slog"
    "time"

    "github.com/labstack/echo/v4"
)

// RequestLogger writes one structured record per request.  Server errors log
// at error level, client errors at warn and the rest at info.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            status := c.Response().Status
            lvl := slog.LevelInfo
            switch {
            case status >= 500:
                lvl = slog.LevelError
            case status >= 400:
                lvl = slog.LevelWarn
            }
            attrs := []any{
                slog.String("method", c.Request().Method),
                slog.String("route", c.Path()),
                slog.String("uri", c.Request().RequestURI),
                slog.Int("status", status),
                slog.Duration("latency", time.Since(start)),
                slog.String("remote_ip", c.RealIP()),
                slog.String("user", userID(c)),
            }
            if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
                attrs = append(attrs, slog.String("request_id", rid))
            }
            if err != nil {
                attrs = append(attrs, slog.Any("err", err))
            }
            logger.Log(c.Request().Context(), lvl, "http request", attrs...)
            return nil
        }
    }
}
