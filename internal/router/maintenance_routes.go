package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-scheduling/internal/handler"
	"github.com/iliyamo/fleet-scheduling/internal/middleware"
	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// RegisterMaintenance registers maintenance record and audit endpoints.
// ADMIN and ENGINEER may change records; pilots only read them.
func RegisterMaintenance(e *echo.Echo, h *handler.MaintenanceHandler, jwtSecret string) {
	g := e.Group("/v1/maintenance-records", middleware.JWTAuth(jwtSecret))

	read := middleware.RequireRole(everyone...)
	g.GET("", h.List, read)
	g.GET("/types", h.Types, read)
	g.GET("/statuses", h.Statuses, read)
	g.GET("/audit", h.AuditLog, read)
	g.GET("/:id", h.Get, read)
	g.GET("/:id/audit", h.AuditLog, read)

	write := middleware.RequireRole(model.RoleAdmin, model.RoleEngineer)
	g.POST("", h.Create, write)
	g.PUT("/:id", h.Update, write)
	g.PATCH("/:id", h.Update, write)
	g.DELETE("/:id", h.Delete, write)
}
