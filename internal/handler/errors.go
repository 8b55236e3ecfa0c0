package handler

import (
    "errors"
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/repository"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// statusForKind maps every rejection kind to its HTTP status.  The switch
// is exhaustive; a new Kind without a case falls to 400.
func statusForKind(k scheduling.Kind) int {
    switch k {
    case scheduling.KindFlightNotFound,
        scheduling.KindMaintenanceRecordNotFound,
        scheduling.KindUserNotFound:
        return http.StatusNotFound
    case scheduling.KindInvalidTimeInterval,
        scheduling.KindInvalidFlightEndpoints,
        scheduling.KindFlightNumberAlreadyExists,
        scheduling.KindAircraftNotFound,
        scheduling.KindAircraftNotOperational,
        scheduling.KindAircraftUnreachable,
        scheduling.KindOverlapConflict,
        scheduling.KindRangeExceeded,
        scheduling.KindAircraftTypeProfileNotFound,
        scheduling.KindEngineerNotFound,
        scheduling.KindUsernameAlreadyExists,
        scheduling.KindAircraftRegistrationNumberAlreadyExists,
        scheduling.KindAirportNotFound,
        scheduling.KindValidationFailed:
        return http.StatusBadRequest
    }
    return http.StatusBadRequest
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
    Error   string `json:"error"`
    Message string `json:"message"`
}

// respondError writes err as JSON.  Rejections carry their kind; anything
// else is logged and reported as a 500 without internal detail.
func respondError(c echo.Context, err error) error {
    var rej *scheduling.Error
    if errors.As(err, &rej) {
        return c.JSON(statusForKind(rej.Kind), errorBody{Error: string(rej.Kind), Message: rej.Message})
    }
    slog.Default().ErrorContext(c.Request().Context(), "request failed",
        "method", c.Request().Method, "route", c.Path(), "err", err)
    return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal server error"})
}

// invalid reports a malformed request as a ValidationFailed rejection.
func invalid(c echo.Context, format string, args ...any) error {
    return respondError(c, scheduling.Reject(scheduling.KindValidationFailed, format, args...))
}

// notFound converts repository.ErrNotFound into a rejection of kind k.
func notFound(c echo.Context, err error, k scheduling.Kind, what, id string) error {
    if errors.Is(err, repository.ErrNotFound) {
        return respondError(c, scheduling.Reject(k, "%s %s not found", what, id))
    }
    return respondError(c, err)
}
