package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// AirportReader resolves airports by IATA code.
type AirportReader interface {
    AirportByCode(ctx context.Context, code string) (model.Airport, bool, error)
    ListCodes(ctx context.Context) ([]string, error)
}

// ProfileReader lists aircraft type profiles.
type ProfileReader interface {
    List(ctx context.Context) ([]model.AircraftTypeProfile, error)
}

// ReferenceHandler serves the read-only reference data: airports, route
// distances and aircraft type profiles.
type ReferenceHandler struct {
    Airports AirportReader
    Profiles ProfileReader
}

func NewReferenceHandler(a AirportReader, p ProfileReader) *ReferenceHandler {
    return &ReferenceHandler{Airports: a, Profiles: p}
}

// AirportCodes handles GET /v1/airports.
func (h *ReferenceHandler) AirportCodes(c echo.Context) error {
    codes, err := h.Airports.ListCodes(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, codes)
}

// Airport handles GET /v1/airports/:code.
func (h *ReferenceHandler) Airport(c echo.Context) error {
    code := scheduling.Normalize(c.Param("code"))
    ap, ok, err := h.Airports.AirportByCode(c.Request().Context(), code)
    if err != nil {
        return respondError(c, err)
    }
    if !ok {
        return respondError(c, scheduling.Reject(scheduling.KindAirportNotFound, "airport %s not found", code))
    }
    return c.JSON(http.StatusOK, ap)
}

// Distance handles GET /v1/airports/distance?from=XXX&to=YYY and reports
// the great-circle distance in nautical miles.
func (h *ReferenceHandler) Distance(c echo.Context) error {
    from := scheduling.Normalize(c.QueryParam("from"))
    to := scheduling.Normalize(c.QueryParam("to"))
    if !scheduling.ValidIATA(from) || !scheduling.ValidIATA(to) {
        return invalid(c, "from and to must be IATA codes")
    }
    nm, err := scheduling.RouteDistance(c.Request().Context(), h.Airports, from, to)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "distance_nm": nm})
}

// TypeProfiles handles GET /v1/aircraft-types.
func (h *ReferenceHandler) TypeProfiles(c echo.Context) error {
    out, err := h.Profiles.List(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, out)
}
