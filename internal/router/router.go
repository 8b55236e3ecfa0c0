package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-scheduling/internal/handler"
	"github.com/iliyamo/fleet-scheduling/internal/middleware"
	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// everyone is the set of roles allowed on read endpoints.
var everyone = []model.Role{model.RoleAdmin, model.RoleEngineer, model.RolePilot}

// RegisterRoutes registers routes that do not require authentication:
// liveness, readiness and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers all authentication-related routes.  Token
// operations live under /v1/auth and need no session; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Accepts either a bearer token (all sessions) or a refresh_token body
	// (one session), so it sits outside the JWT group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(everyone...))
	auth.GET("/me", a.Me)
}
