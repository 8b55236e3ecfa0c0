package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// FleetReader lists and loads aircraft.
type FleetReader interface {
    List(ctx context.Context) ([]model.Aircraft, error)
    AircraftByID(ctx context.Context, id string) (model.Aircraft, bool, error)
}

// AircraftHandler serves /v1/aircraft.
type AircraftHandler struct {
    Service  *scheduling.FleetService
    Aircraft FleetReader
}

func NewAircraftHandler(s *scheduling.FleetService, r FleetReader) *AircraftHandler {
    return &AircraftHandler{Service: s, Aircraft: r}
}

type aircraftReq struct {
    RegistrationNumber string `json:"registration_number"`
    Type               string `json:"type"`
    Status             string `json:"status"`
}

type aircraftPatchReq struct {
    RegistrationNumber *string `json:"registration_number"`
    Type               *string `json:"type"`
    Status             *string `json:"status"`
}

func (h *AircraftHandler) List(c echo.Context) error {
    out, err := h.Aircraft.List(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

func (h *AircraftHandler) Get(c echo.Context) error {
    id := c.Param("id")
    a, ok, err := h.Aircraft.AircraftByID(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    if !ok {
        return respondError(c, scheduling.Reject(scheduling.KindAircraftNotFound, "aircraft %s not found", id))
    }
    return c.JSON(http.StatusOK, a)
}

// Create handles POST /v1/aircraft.  Status defaults to OPERATIONAL.
func (h *AircraftHandler) Create(c echo.Context) error {
    var req aircraftReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    a, err := h.Service.Create(c.Request().Context(), scheduling.AircraftInput{
        RegistrationNumber: req.RegistrationNumber,
        Type:               model.AircraftType(req.Type),
        Status:             model.AircraftStatus(req.Status),
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, a)
}

func (h *AircraftHandler) Update(c echo.Context) error {
    var req aircraftPatchReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    var patch scheduling.AircraftPatch
    patch.RegistrationNumber = req.RegistrationNumber
    if req.Type != nil {
        t := model.AircraftType(*req.Type)
        patch.Type = &t
    }
    if req.Status != nil {
        s := model.AircraftStatus(*req.Status)
        patch.Status = &s
    }
    a, err := h.Service.Update(c.Request().Context(), c.Param("id"), patch)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, a)
}

// Delete removes the aircraft together with its flights and maintenance
// records.
func (h *AircraftHandler) Delete(c echo.Context) error {
    if err := h.Service.Delete(c.Request().Context(), actor(c), c.Param("id")); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *AircraftHandler) Types(c echo.Context) error {
    return c.JSON(http.StatusOK, model.AircraftTypes)
}

func (h *AircraftHandler) Statuses(c echo.Context) error {
    return c.JSON(http.StatusOK, model.AircraftStatuses)
}
