package handler_test

import (
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-scheduling/internal/model"
)

func TestAirportLookup(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.reference.Airport, call{method: http.MethodGet, target: "/v1/airports/dub", params: map[string]string{"code": "dub"}})
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "Dublin", decode[model.Airport](t, rec).Name)

    rec = f.do(t, f.reference.Airport, call{method: http.MethodGet, target: "/v1/airports/XXX", params: map[string]string{"code": "XXX"}})
    requireError(t, rec, http.StatusBadRequest, "AirportNotFound")

    rec = f.do(t, f.reference.AirportCodes, call{method: http.MethodGet, target: "/v1/airports"})
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, decode[[]string](t, rec), "LHR")
}

func TestRouteDistance(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.reference.Distance, call{method: http.MethodGet, target: "/v1/airports/distance?from=lhr&to=jfk"})
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    got := decode[struct {
        From       string `json:"from"`
        To         string `json:"to"`
        DistanceNM int    `json:"distance_nm"`
    }](t, rec)
    assert.Equal(t, "LHR", got.From)
    assert.InDelta(t, 3070, got.DistanceNM, 150)

    rec = f.do(t, f.reference.Distance, call{method: http.MethodGet, target: "/v1/airports/distance?from=LHR&to=ZZZ"})
    requireError(t, rec, http.StatusBadRequest, "AirportNotFound")

    rec = f.do(t, f.reference.Distance, call{method: http.MethodGet, target: "/v1/airports/distance?from=LHR"})
    requireError(t, rec, http.StatusBadRequest, "ValidationFailed")
}

func TestTypeProfiles(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.reference.TypeProfiles, call{method: http.MethodGet, target: "/v1/aircraft-types"})
    require.Equal(t, http.StatusOK, rec.Code)
    profiles := decode[[]model.AircraftTypeProfile](t, rec)
    require.Len(t, profiles, 3)
    assert.Equal(t, 7400, profiles[1].CruisingRangeMiles)
}
