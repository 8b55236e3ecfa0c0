package handler_test

import (
    "net/http"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/fleet-scheduling/internal/model"
)

const dublinHop = `{"flight_number":"EI154","departure_airport":"LHR","arrival_airport":"DUB",
"departure_time":"2025-04-02T08:00:00Z","arrival_time":"2025-04-02T09:20:00Z","aircraft":"ei-hdv"}`

func TestCreateFlight(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.flights.Create, call{method: http.MethodPost, target: "/v1/flights", body: dublinHop})
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

    v := decode[model.FlightView](t, rec)
    assert.Equal(t, "EI154", v.FlightNumber)
    assert.Equal(t, "EI-HDV", v.AircraftRegistration)
    assert.Equal(t, "ac-hdv", v.AircraftID)

    rec = f.do(t, f.flights.Get, call{method: http.MethodGet, target: "/v1/flights/" + v.ID, params: map[string]string{"id": v.ID}})
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "EI154", decode[model.FlightView](t, rec).FlightNumber)
}

func TestCreateFlightRejections(t *testing.T) {
    cases := []struct {
        name string
        body string
        kind string
    }{
        {"bad timestamp", `{"flight_number":"EI154","departure_airport":"LHR","arrival_airport":"DUB","departure_time":"tomorrow","arrival_time":"2025-04-02T09:20:00Z","aircraft":"EI-HDV"}`, "ValidationFailed"},
        {"reversed times", `{"flight_number":"EI154","departure_airport":"LHR","arrival_airport":"DUB","departure_time":"2025-04-02T10:00:00Z","arrival_time":"2025-04-02T09:20:00Z","aircraft":"EI-HDV"}`, "InvalidTimeInterval"},
        {"same endpoints", `{"flight_number":"EI154","departure_airport":"DUB","arrival_airport":"DUB","departure_time":"2025-04-02T08:00:00Z","arrival_time":"2025-04-02T09:20:00Z","aircraft":"EI-HDV"}`, "InvalidFlightEndpoints"},
        {"unknown aircraft", `{"flight_number":"EI154","departure_airport":"LHR","arrival_airport":"DUB","departure_time":"2025-04-02T08:00:00Z","arrival_time":"2025-04-02T09:20:00Z","aircraft":"EI-ZZZ"}`, "AircraftNotFound"},
        {"out of range", `{"flight_number":"RO101","departure_airport":"OTP","arrival_airport":"SYD","departure_time":"2025-04-02T08:00:00Z","arrival_time":"2025-04-03T09:20:00Z","aircraft":"YR-BMA"}`, "RangeExceeded"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            f := newFixture(t)
            rec := f.do(t, f.flights.Create, call{method: http.MethodPost, target: "/v1/flights", body: tc.body})
            requireError(t, rec, http.StatusBadRequest, tc.kind)
        })
    }
}

func TestFlightNotFound(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.flights.Get, call{method: http.MethodGet, target: "/v1/flights/nope", params: map[string]string{"id": "nope"}})
    requireError(t, rec, http.StatusNotFound, "FlightNotFound")

    rec = f.do(t, f.flights.Update, call{method: http.MethodPatch, target: "/v1/flights/nope", body: `{"flight_number":"EI155"}`, params: map[string]string{"id": "nope"}})
    requireError(t, rec, http.StatusNotFound, "FlightNotFound")
}

func TestUpdateAndDeleteFlight(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.flights.Create, call{method: http.MethodPost, target: "/v1/flights", body: dublinHop})
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    id := decode[model.FlightView](t, rec).ID

    rec = f.do(t, f.flights.Update, call{
        method: http.MethodPatch, target: "/v1/flights/" + id, params: map[string]string{"id": id},
        body: `{"arrival_time":"2025-04-02T09:40:00Z"}`,
    })
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.True(t, decode[model.FlightView](t, rec).ArrivalTime.Equal(time.Date(2025, 4, 2, 9, 40, 0, 0, time.UTC)))

    rec = f.do(t, f.flights.Delete, call{method: http.MethodDelete, target: "/v1/flights/" + id, params: map[string]string{"id": id}})
    assert.Equal(t, http.StatusNoContent, rec.Code)

    rec = f.do(t, f.flights.List, call{method: http.MethodGet, target: "/v1/flights?aircraft=EI-HDV"})
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, decode[[]model.FlightView](t, rec))
}

func TestArrivalTime(t *testing.T) {
    f := newFixture(t)
    rec := f.do(t, f.flights.ArrivalTime, call{
        method: http.MethodPost, target: "/v1/flights/arrival-time",
        body: `{"departure_airport":"LHR","arrival_airport":"DUB","departure_time":"2025-04-02T08:00:00Z","aircraft_type":"a320"}`,
    })
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    got := decode[map[string]string](t, rec)
    arrival, err := time.Parse(time.RFC3339, got["arrival_time"])
    require.NoError(t, err)
    dep := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
    assert.True(t, arrival.After(dep.Add(20*time.Minute)))
    assert.True(t, arrival.Before(dep.Add(2*time.Hour)))

    byAircraft := f.do(t, f.flights.ArrivalTime, call{
        method: http.MethodPost, target: "/v1/flights/arrival-time",
        body: `{"departure_airport":"LHR","arrival_airport":"DUB","departure_time":"2025-04-02T08:00:00Z","aircraft":"EI-HDV"}`,
    })
    require.Equal(t, http.StatusOK, byAircraft.Code)
    assert.Equal(t, got["arrival_time"], decode[map[string]string](t, byAircraft)["arrival_time"])

    rec = f.do(t, f.flights.ArrivalTime, call{
        method: http.MethodPost, target: "/v1/flights/arrival-time",
        body: `{"departure_airport":"LHR","arrival_airport":"DUB","departure_time":"2025-04-02T08:00:00Z"}`,
    })
    requireError(t, rec, http.StatusBadRequest, "ValidationFailed")
}
