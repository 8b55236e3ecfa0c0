package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-scheduling/internal/handler"
	"github.com/iliyamo/fleet-scheduling/internal/middleware"
	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// RegisterUsers registers account administration.  All routes require
// the ADMIN role.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group(
		"/v1/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("", h.List)
	g.GET("/roles", h.Roles)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterReference registers airports, route distances and type
// profiles.  cache wraps the GETs; pass nil to serve them uncached.
func RegisterReference(e *echo.Echo, h *handler.ReferenceHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(everyone...)}
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)
	g.GET("/airports", h.AirportCodes)
	g.GET("/airports/distance", h.Distance)
	g.GET("/airports/:code", h.Airport)
	g.GET("/aircraft-types", h.TypeProfiles)
}
