package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleet-scheduling/internal/handler"
	"github.com/iliyamo/fleet-scheduling/internal/router"
	"github.com/iliyamo/fleet-scheduling/internal/utils"
)

const secret = "router-secret"

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, "u-1", "someone", role, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

// The handlers are zero values: requests that pass the gates would panic,
// so every case here must be stopped by middleware.
func TestRoleGates(t *testing.T) {
	e := echo.New()
	router.RegisterFlights(e, &handler.FlightHandler{}, secret)
	router.RegisterMaintenance(e, &handler.MaintenanceHandler{}, secret)
	router.RegisterAircraft(e, &handler.AircraftHandler{}, secret)
	router.RegisterUsers(e, &handler.UserHandler{}, secret)

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"anonymous read", http.MethodGet, "/v1/flights", "", http.StatusUnauthorized},
		{"forged token", http.MethodGet, "/v1/flights", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"pilot schedules flight", http.MethodPost, "/v1/flights", bearer(t, "PILOT"), http.StatusForbidden},
		{"engineer schedules flight", http.MethodPost, "/v1/flights", bearer(t, "ENGINEER"), http.StatusForbidden},
		{"pilot books hangar", http.MethodPost, "/v1/maintenance-records", bearer(t, "PILOT"), http.StatusForbidden},
		{"engineer retires aircraft", http.MethodPatch, "/v1/aircraft/ac-1", bearer(t, "ENGINEER"), http.StatusForbidden},
		{"engineer lists users", http.MethodGet, "/v1/users", bearer(t, "ENGINEER"), http.StatusForbidden},
		{"unknown role", http.MethodGet, "/v1/flights", bearer(t, "GUEST"), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tc.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	router.RegisterRoutes(e, nil, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
