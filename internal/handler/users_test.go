package handler_test

import (
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-scheduling/internal/model"
)

func TestCreateUserRejections(t *testing.T) {
    cases := []struct {
        name string
        body string
        kind string
    }{
        {"taken username", `{"username":"jdoe","password":"s3cret-pass","role":"ENGINEER"}`, "UsernameAlreadyExists"},
        {"short password", `{"username":"new.user","password":"short","role":"ENGINEER"}`, "ValidationFailed"},
        {"unknown role", `{"username":"new.user","password":"s3cret-pass","role":"CAPTAIN"}`, "ValidationFailed"},
        {"malformed username", `{"username":"a b","password":"s3cret-pass","role":"PILOT"}`, "ValidationFailed"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            f := newFixture(t)
            rec := f.do(t, f.users.Create, call{method: http.MethodPost, target: "/v1/users", body: tc.body, who: adminID})
            requireError(t, rec, http.StatusBadRequest, tc.kind)
        })
    }
}

func TestListUsersFiltersByRole(t *testing.T) {
    f := newFixture(t)
    f.createUser(t, `{"username":"pilot.one","password":"s3cret-pass","role":"PILOT"}`)

    rec := f.do(t, f.users.List, call{method: http.MethodGet, target: "/v1/users?role=engineer"})
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    got := decode[[]model.User](t, rec)
    require.Len(t, got, 1)
    assert.Equal(t, "jdoe", got[0].Username)
    assert.NotContains(t, rec.Body.String(), "password")

    rec = f.do(t, f.users.List, call{method: http.MethodGet, target: "/v1/users?sort_by=password"})
    requireError(t, rec, http.StatusBadRequest, "ValidationFailed")
}

func TestDeleteAssignedEngineerConflicts(t *testing.T) {
    f := newFixture(t)
    f.store.AddMaintenance(model.MaintenanceRecord{
        ID: "mr-1", AircraftID: "ac-hdv", EngineerID: "u-eng", Type: model.MaintenanceRoutine, Status: model.MaintenancePending,
        StartDate: time.Date(2025, 4, 10, 6, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 4, 10, 18, 0, 0, 0, time.UTC),
    })

    rec := f.do(t, f.users.Delete, call{method: http.MethodDelete, target: "/v1/users/u-eng", params: map[string]string{"id": "u-eng"}})
    requireError(t, rec, http.StatusConflict, "conflict")

    rec = f.do(t, f.users.Delete, call{method: http.MethodDelete, target: "/v1/users/nobody", params: map[string]string{"id": "nobody"}})
    requireError(t, rec, http.StatusNotFound, "UserNotFound")

    rec = f.do(t, f.users.Get, call{method: http.MethodGet, target: "/v1/users/u-eng", params: map[string]string{"id": "u-eng"}})
    require.Equal(t, http.StatusOK, rec.Code)
}
