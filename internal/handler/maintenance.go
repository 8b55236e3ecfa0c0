package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// MaintenanceReader is the read side of maintenance storage.
type MaintenanceReader interface {
    List(ctx context.Context, f model.MaintenanceFilter) ([]model.MaintenanceView, error)
    ViewByID(ctx context.Context, id string) (model.MaintenanceView, error)
}

// AuditReader lists audit entries newest first, optionally for one record.
type AuditReader interface {
    List(ctx context.Context, recordID string) ([]model.MaintenanceAuditEntry, error)
}

// MaintenanceHandler serves /v1/maintenance-records.
type MaintenanceHandler struct {
    Service *scheduling.MaintenanceService
    Records MaintenanceReader
    Audit   AuditReader
}

func NewMaintenanceHandler(s *scheduling.MaintenanceService, r MaintenanceReader, a AuditReader) *MaintenanceHandler {
    return &MaintenanceHandler{Service: s, Records: r, Audit: a}
}

type maintenanceReq struct {
    Aircraft  string `json:"aircraft"`    // registration number
    Engineer  string `json:"engineer_id"` // user id
    Type      string `json:"type"`
    Status    string `json:"status"`
    StartDate string `json:"start_date"`
    EndDate   string `json:"end_date"`
}

type maintenancePatchReq struct {
    Aircraft  *string `json:"aircraft"`
    Engineer  *string `json:"engineer_id"`
    Type      *string `json:"type"`
    Status    *string `json:"status"`
    StartDate *string `json:"start_date"`
    EndDate   *string `json:"end_date"`
}

// List handles GET /v1/maintenance-records with optional status, type,
// engineer_id, aircraft_id, sort_by and order query parameters.
func (h *MaintenanceHandler) List(c echo.Context) error {
    f := model.MaintenanceFilter{
        Status:     model.MaintenanceStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))),
        Type:       model.MaintenanceType(strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))),
        EngineerID: strings.TrimSpace(c.QueryParam("engineer_id")),
        AircraftID: strings.TrimSpace(c.QueryParam("aircraft_id")),
        SortBy:     strings.ToLower(strings.TrimSpace(c.QueryParam("sort_by"))),
    }
    if f.Status != "" && !f.Status.Valid() {
        return invalid(c, "unknown maintenance status %q", f.Status)
    }
    if f.Type != "" && !f.Type.Valid() {
        return invalid(c, "unknown maintenance type %q", f.Type)
    }
    if f.SortBy == "" {
        f.SortBy = "start_date"
    }
    if _, ok := model.MaintenanceSortFields[f.SortBy]; !ok {
        return invalid(c, "cannot sort by %q", f.SortBy)
    }
    dir, err := parseDirection(c.QueryParam("order"))
    if err != nil {
        return respondError(c, err)
    }
    f.Direction = dir

    out, err := h.Records.List(c.Request().Context(), f)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/maintenance-records/:id.
func (h *MaintenanceHandler) Get(c echo.Context) error {
    id := c.Param("id")
    v, err := h.Records.ViewByID(c.Request().Context(), id)
    if err != nil {
        return notFound(c, err, scheduling.KindMaintenanceRecordNotFound, "maintenance record", id)
    }
    return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/maintenance-records.  A missing status means
// PENDING.
func (h *MaintenanceHandler) Create(c echo.Context) error {
    var req maintenanceReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    start, err := parseTime("start_date", req.StartDate)
    if err != nil {
        return respondError(c, err)
    }
    end, err := parseTime("end_date", req.EndDate)
    if err != nil {
        return respondError(c, err)
    }
    status := model.MaintenanceStatus(req.Status)
    if strings.TrimSpace(req.Status) == "" {
        status = model.MaintenancePending
    }
    v, err := h.Service.Create(c.Request().Context(), actor(c), scheduling.MaintenanceInput{
        Aircraft:  req.Aircraft,
        Engineer:  strings.TrimSpace(req.Engineer),
        Type:      model.MaintenanceType(req.Type),
        Status:    status,
        StartDate: start,
        EndDate:   end,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, v)
}

// Update handles PUT and PATCH /v1/maintenance-records/:id.
func (h *MaintenanceHandler) Update(c echo.Context) error {
    var req maintenancePatchReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    start, err := parseOptionalTime("start_date", req.StartDate)
    if err != nil {
        return respondError(c, err)
    }
    end, err := parseOptionalTime("end_date", req.EndDate)
    if err != nil {
        return respondError(c, err)
    }
    patch := scheduling.MaintenancePatch{
        Aircraft:  req.Aircraft,
        Engineer:  req.Engineer,
        StartDate: start,
        EndDate:   end,
    }
    if req.Type != nil {
        t := model.MaintenanceType(*req.Type)
        patch.Type = &t
    }
    if req.Status != nil {
        s := model.MaintenanceStatus(*req.Status)
        patch.Status = &s
    }
    v, err := h.Service.Update(c.Request().Context(), actor(c), c.Param("id"), patch)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /v1/maintenance-records/:id.
func (h *MaintenanceHandler) Delete(c echo.Context) error {
    if err := h.Service.Delete(c.Request().Context(), actor(c), c.Param("id")); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Types handles GET /v1/maintenance-records/types.
func (h *MaintenanceHandler) Types(c echo.Context) error {
    return c.JSON(http.StatusOK, model.MaintenanceTypes)
}

// Statuses handles GET /v1/maintenance-records/statuses.
func (h *MaintenanceHandler) Statuses(c echo.Context) error {
    return c.JSON(http.StatusOK, model.MaintenanceStatuses)
}

// AuditLog handles GET /v1/maintenance-records/audit and
// /v1/maintenance-records/:id/audit.  Entries are rendered as log lines,
// newest first.
func (h *MaintenanceHandler) AuditLog(c echo.Context) error {
    entries, err := h.Audit.List(c.Request().Context(), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    lines := make([]string, 0, len(entries))
    for _, e := range entries {
        lines = append(lines, e.String())
    }
    return c.JSON(http.StatusOK, lines)
}
