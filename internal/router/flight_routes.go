package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-scheduling/internal/handler"
	"github.com/iliyamo/fleet-scheduling/internal/middleware"
	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// RegisterFlights registers the flight endpoints under /v1.  Every role
// may read the schedule and estimate arrivals; only ADMIN changes it.
func RegisterFlights(e *echo.Echo, h *handler.FlightHandler, jwtSecret string) {
	g := e.Group("/v1/flights", middleware.JWTAuth(jwtSecret))

	read := middleware.RequireRole(everyone...)
	g.GET("", h.List, read)
	g.GET("/:id", h.Get, read)
	g.POST("/arrival-time", h.ArrivalTime, read)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.POST("", h.Create, admin)
	g.PUT("/:id", h.Update, admin)
	g.PATCH("/:id", h.Update, admin)
	g.DELETE("/:id", h.Delete, admin)
}

// RegisterAircraft registers the fleet endpoints.  Only ADMIN manages
// airframes.
func RegisterAircraft(e *echo.Echo, h *handler.AircraftHandler, jwtSecret string) {
	g := e.Group("/v1/aircraft", middleware.JWTAuth(jwtSecret))

	read := middleware.RequireRole(everyone...)
	g.GET("", h.List, read)
	g.GET("/types", h.Types, read)
	g.GET("/statuses", h.Statuses, read)
	g.GET("/:id", h.Get, read)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.POST("", h.Create, admin)
	g.PUT("/:id", h.Update, admin)
	g.PATCH("/:id", h.Update, admin)
	g.DELETE("/:id", h.Delete, admin)
}
