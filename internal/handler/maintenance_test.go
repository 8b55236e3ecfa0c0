package handler_test

import (
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-scheduling/internal/model"
)

const hangarSlot = `{"aircraft":"EI-HDV","engineer_id":"u-eng","type":"routine",
"start_date":"2025-04-10T06:00:00Z","end_date":"2025-04-10T18:00:00Z"}`

func TestCreateMaintenanceDefaultsToPending(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.maintenance.Create, call{method: http.MethodPost, target: "/v1/maintenance-records", body: hangarSlot, who: adminID})
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

    v := decode[model.MaintenanceView](t, rec)
    assert.Equal(t, model.MaintenancePending, v.Status)
    assert.Equal(t, model.MaintenanceRoutine, v.Type)
    assert.Equal(t, "jdoe", v.EngineerUsername)

    rec = f.do(t, f.maintenance.AuditLog, call{method: http.MethodGet, target: "/v1/maintenance-records/" + v.ID + "/audit", params: map[string]string{"id": v.ID}})
    require.Equal(t, http.StatusOK, rec.Code)
    lines := decode[[]string](t, rec)
    require.Len(t, lines, 1)
    assert.Contains(t, lines[0], "[CREATED] By ops.admin on aircraft EI-HDV")
}

func TestMaintenanceOverlapRejected(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.maintenance.Create, call{method: http.MethodPost, target: "/v1/maintenance-records", body: hangarSlot, who: adminID})
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

    rec = f.do(t, f.maintenance.Create, call{method: http.MethodPost, target: "/v1/maintenance-records", body: hangarSlot, who: adminID})
    requireError(t, rec, http.StatusBadRequest, "OverlapConflict")
}

func TestUpdateMaintenanceWritesChanges(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.maintenance.Create, call{method: http.MethodPost, target: "/v1/maintenance-records", body: hangarSlot, who: adminID})
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    id := decode[model.MaintenanceView](t, rec).ID

    rec = f.do(t, f.maintenance.Update, call{
        method: http.MethodPatch, target: "/v1/maintenance-records/" + id, params: map[string]string{"id": id},
        body: `{"status":"scheduled"}`, who: adminID,
    })
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.Equal(t, model.MaintenanceScheduled, decode[model.MaintenanceView](t, rec).Status)

    rec = f.do(t, f.maintenance.AuditLog, call{method: http.MethodGet, target: "/v1/maintenance-records/audit"})
    require.Equal(t, http.StatusOK, rec.Code)
    lines := decode[[]string](t, rec)
    require.Len(t, lines, 2)
    assert.Contains(t, lines[0], "Changes: Status changed from 'PENDING' to 'SCHEDULED'.")
}

func TestListMaintenance(t *testing.T) {
    f := newFixture(t)
    for _, body := range []string{
        hangarSlot,
        `{"aircraft":"YR-BMA","engineer_id":"u-eng","type":"repair","status":"in_progress","start_date":"2025-04-05T06:00:00Z","end_date":"2025-04-06T06:00:00Z"}`,
    } {
        rec := f.do(t, f.maintenance.Create, call{method: http.MethodPost, target: "/v1/maintenance-records", body: body, who: adminID})
        require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    }

    rec := f.do(t, f.maintenance.List, call{method: http.MethodGet, target: "/v1/maintenance-records?sort_by=start_date&order=desc"})
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    all := decode[[]model.MaintenanceView](t, rec)
    require.Len(t, all, 2)
    assert.Equal(t, "EI-HDV", all[0].AircraftRegistration)

    rec = f.do(t, f.maintenance.List, call{method: http.MethodGet, target: "/v1/maintenance-records?status=IN_PROGRESS"})
    require.Equal(t, http.StatusOK, rec.Code)
    only := decode[[]model.MaintenanceView](t, rec)
    require.Len(t, only, 1)
    assert.Equal(t, "YR-BMA", only[0].AircraftRegistration)

    for _, q := range []string{"?sort_by=engineer", "?order=sideways", "?status=DONE", "?type=PAINT"} {
        rec = f.do(t, f.maintenance.List, call{method: http.MethodGet, target: "/v1/maintenance-records" + q})
        requireError(t, rec, http.StatusBadRequest, "ValidationFailed")
    }
}

func TestMaintenanceRecordNotFound(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.maintenance.Get, call{method: http.MethodGet, target: "/v1/maintenance-records/nope", params: map[string]string{"id": "nope"}})
    requireError(t, rec, http.StatusNotFound, "MaintenanceRecordNotFound")

    rec = f.do(t, f.maintenance.Delete, call{method: http.MethodDelete, target: "/v1/maintenance-records/nope", params: map[string]string{"id": "nope"}, who: adminID})
    assert.Equal(t, http.StatusNoContent, rec.Code)
}
