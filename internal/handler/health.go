package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
    PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

// Health reports liveness for load balancers.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready reports 503 while the database is unreachable.
func Ready(db Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, errorBody{Error: "unavailable", Message: "database unreachable"})
        }
        return c.String(http.StatusOK, "ready")
    }
}
