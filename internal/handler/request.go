package handler

import (
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fleet-scheduling/internal/middleware"
    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// parseTime accepts RFC3339 timestamps and returns them in UTC.
func parseTime(field, v string) (time.Time, error) {
    t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
    if err != nil {
        return time.Time{}, scheduling.Reject(scheduling.KindValidationFailed, "%s must be an RFC3339 timestamp", field)
    }
    return t.UTC(), nil
}

// parseOptionalTime is parseTime for optional patch fields.
func parseOptionalTime(field string, v *string) (*time.Time, error) {
    if v == nil {
        return nil, nil
    }
    t, err := parseTime(field, *v)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// parseDirection maps asc/desc (any case) to a SortDirection.
func parseDirection(v string) (model.SortDirection, error) {
    switch strings.ToUpper(strings.TrimSpace(v)) {
    case "", "ASC":
        return model.SortAsc, nil
    case "DESC":
        return model.SortDesc, nil
    }
    return "", scheduling.Reject(scheduling.KindValidationFailed, "order must be asc or desc")
}

// actor returns the authenticated caller as a maintenance actor.
func actor(c echo.Context) scheduling.Actor {
    id, _ := middleware.IdentityFrom(c)
    return scheduling.Actor{ID: id.UserID, Username: id.Username}
}
