package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// FlightReader is the read side of flight storage.
type FlightReader interface {
    ListViews(ctx context.Context, registration string) ([]model.FlightView, error)
    ViewByID(ctx context.Context, id string) (model.FlightView, error)
}

// FlightHandler serves /v1/flights.  Writes go through the scheduling
// service; reads go straight to storage.
type FlightHandler struct {
    Service *scheduling.FlightService
    Flights FlightReader
}

func NewFlightHandler(s *scheduling.FlightService, r FlightReader) *FlightHandler {
    return &FlightHandler{Service: s, Flights: r}
}

type flightReq struct {
    FlightNumber     string `json:"flight_number"`
    DepartureAirport string `json:"departure_airport"`
    ArrivalAirport   string `json:"arrival_airport"`
    DepartureTime    string `json:"departure_time"`
    ArrivalTime      string `json:"arrival_time"`
    Aircraft         string `json:"aircraft"` // registration number
}

type flightPatchReq struct {
    FlightNumber     *string `json:"flight_number"`
    DepartureAirport *string `json:"departure_airport"`
    ArrivalAirport   *string `json:"arrival_airport"`
    DepartureTime    *string `json:"departure_time"`
    ArrivalTime      *string `json:"arrival_time"`
    Aircraft         *string `json:"aircraft"`
}

type arrivalReq struct {
    DepartureAirport string `json:"departure_airport"`
    ArrivalAirport   string `json:"arrival_airport"`
    DepartureTime    string `json:"departure_time"`
    Aircraft         string `json:"aircraft"`      // registration, or
    AircraftType     string `json:"aircraft_type"` // type when no aircraft is chosen yet
}

// List handles GET /v1/flights[?aircraft=REG].
func (h *FlightHandler) List(c echo.Context) error {
    reg := scheduling.Normalize(c.QueryParam("aircraft"))
    out, err := h.Flights.ListViews(c.Request().Context(), reg)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/flights/:id.
func (h *FlightHandler) Get(c echo.Context) error {
    id := c.Param("id")
    v, err := h.Flights.ViewByID(c.Request().Context(), id)
    if err != nil {
        return notFound(c, err, scheduling.KindFlightNotFound, "flight", id)
    }
    return c.JSON(http.StatusOK, v)
}

// Create handles POST /v1/flights.
func (h *FlightHandler) Create(c echo.Context) error {
    var req flightReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    dep, err := parseTime("departure_time", req.DepartureTime)
    if err != nil {
        return respondError(c, err)
    }
    arr, err := parseTime("arrival_time", req.ArrivalTime)
    if err != nil {
        return respondError(c, err)
    }
    v, err := h.Service.Create(c.Request().Context(), scheduling.FlightInput{
        FlightNumber:     req.FlightNumber,
        DepartureAirport: req.DepartureAirport,
        ArrivalAirport:   req.ArrivalAirport,
        DepartureTime:    dep,
        ArrivalTime:      arr,
        Aircraft:         req.Aircraft,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, v)
}

// Update handles PUT and PATCH /v1/flights/:id.  Absent fields keep their
// current values.
func (h *FlightHandler) Update(c echo.Context) error {
    var req flightPatchReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    dep, err := parseOptionalTime("departure_time", req.DepartureTime)
    if err != nil {
        return respondError(c, err)
    }
    arr, err := parseOptionalTime("arrival_time", req.ArrivalTime)
    if err != nil {
        return respondError(c, err)
    }
    v, err := h.Service.Update(c.Request().Context(), c.Param("id"), scheduling.FlightPatch{
        FlightNumber:     req.FlightNumber,
        DepartureAirport: req.DepartureAirport,
        ArrivalAirport:   req.ArrivalAirport,
        DepartureTime:    dep,
        ArrivalTime:      arr,
        Aircraft:         req.Aircraft,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /v1/flights/:id.
func (h *FlightHandler) Delete(c echo.Context) error {
    if err := h.Service.Delete(c.Request().Context(), c.Param("id")); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ArrivalTime handles POST /v1/flights/arrival-time.  Either an aircraft
// registration or an aircraft type selects the cruising profile.
func (h *FlightHandler) ArrivalTime(c echo.Context) error {
    var req arrivalReq
    if err := c.Bind(&req); err != nil {
        return invalid(c, "invalid request body")
    }
    dep, err := parseTime("departure_time", req.DepartureTime)
    if err != nil {
        return respondError(c, err)
    }
    ctx := c.Request().Context()
    var arrival time.Time
    switch {
    case strings.TrimSpace(req.Aircraft) != "":
        arrival, err = h.Service.EstimateArrivalForAircraft(ctx, req.DepartureAirport, req.ArrivalAirport, req.Aircraft, dep)
    case strings.TrimSpace(req.AircraftType) != "":
        t := model.AircraftType(scheduling.Normalize(req.AircraftType))
        if !t.Valid() {
            return invalid(c, "aircraft type %q is unknown", req.AircraftType)
        }
        arrival, err = h.Service.EstimateArrival(ctx, req.DepartureAirport, req.ArrivalAirport, t, dep)
    default:
        return invalid(c, "aircraft or aircraft_type is required")
    }
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"arrival_time": arrival.UTC().Format(time.RFC3339)})
}
