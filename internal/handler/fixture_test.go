package handler_test

import (
    "encoding/json"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-scheduling/internal/config"
    "github.com/iliyamo/fleet-scheduling/internal/handler"
    "github.com/iliyamo/fleet-scheduling/internal/middleware"
    "github.com/iliyamo/fleet-scheduling/internal/model"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
    "github.com/iliyamo/fleet-scheduling/internal/testutil"
)

type fixture struct {
    e           *echo.Echo
    store       *testutil.MemoryStore
    tokens      *testutil.MemoryTokens
    cfg         config.Config
    flights     *handler.FlightHandler
    maintenance *handler.MaintenanceHandler
    aircraft    *handler.AircraftHandler
    reference   *handler.ReferenceHandler
    users       *handler.UserHandler
    auth        *handler.AuthHandler
}

func newFixture(t *testing.T) *fixture {
    t.Helper()
    store := testutil.NewMemoryStore().SeedReference()
    store.AddAircraft(model.Aircraft{ID: "ac-hdv", RegistrationNumber: "EI-HDV", Type: model.AircraftTypeA320, Status: model.AircraftOperational})
    store.AddAircraft(model.Aircraft{ID: "ac-bma", RegistrationNumber: "YR-BMA", Type: model.AircraftTypeB737, Status: model.AircraftOperational})
    store.AddUser(model.User{ID: "u-eng", Username: "jdoe", Role: model.RoleEngineer, IsActive: true})

    cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
    deps := scheduling.Deps{
        UnitOfWork: store,
        Clock:      testutil.FixedClock(),
        IDs:        testutil.NewStubIDGenerator(),
    }
    tokens := testutil.NewMemoryTokens()
    ref := store.Reference()
    return &fixture{
        e:           echo.New(),
        store:       store,
        tokens:      tokens,
        cfg:         cfg,
        flights:     handler.NewFlightHandler(scheduling.NewFlightService(deps), store.FlightViews()),
        maintenance: handler.NewMaintenanceHandler(scheduling.NewMaintenanceService(deps), store.MaintenanceViews(), store.AuditLog()),
        aircraft:    handler.NewAircraftHandler(scheduling.NewFleetService(deps), store.FleetReader()),
        reference:   handler.NewReferenceHandler(ref, ref),
        users:       handler.NewUserHandler(cfg, store.Accounts(), tokens, testutil.NewStubIDGenerator()),
        auth:        handler.NewAuthHandler(cfg, store.Accounts(), tokens),
    }
}

type call struct {
    method string
    target string
    body   string
    params map[string]string
    who    *middleware.Identity
    header map[string]string
}

func (f *fixture) do(t *testing.T, h echo.HandlerFunc, c call) *httptest.ResponseRecorder {
    t.Helper()
    req := httptest.NewRequest(c.method, c.target, strings.NewReader(c.body))
    if c.body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    for k, v := range c.header {
        req.Header.Set(k, v)
    }
    rec := httptest.NewRecorder()
    ctx := f.e.NewContext(req, rec)
    var names, values []string
    for k, v := range c.params {
        names = append(names, k)
        values = append(values, v)
    }
    ctx.SetParamNames(names...)
    ctx.SetParamValues(values...)
    if c.who != nil {
        middleware.SetIdentity(ctx, *c.who)
    }
    require.NoError(t, h(ctx))
    return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
    t.Helper()
    var v T
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
    return v
}

type errResp struct {
    Error   string `json:"error"`
    Message string `json:"message"`
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) {
    t.Helper()
    require.Equal(t, status, rec.Code, rec.Body.String())
    require.Equal(t, kind, decode[errResp](t, rec).Error)
}

var adminID = &middleware.Identity{UserID: "u-admin", Username: "ops.admin", Role: model.RoleAdmin}
