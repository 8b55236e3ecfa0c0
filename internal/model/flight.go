package model

import "time"

// Flight represents a row in the `flights` table.  A flight occupies its
// aircraft for the closed interval [DepartureTime, ArrivalTime].
type Flight struct {
    ID               string    `json:"id"`                // flights.id
    FlightNumber     string    `json:"flight_number"`     // flights.flight_number (unique)
    DepartureAirport string    `json:"departure_airport"` // flights.departure_airport (IATA)
    ArrivalAirport   string    `json:"arrival_airport"`   // flights.arrival_airport (IATA)
    DepartureTime    time.Time `json:"departure_time"`    // flights.departure_time (UTC)
    ArrivalTime      time.Time `json:"arrival_time"`      // flights.arrival_time (UTC)
    AircraftID       string    `json:"aircraft_id"`       // flights.aircraft_id
    CreatedAt        time.Time `json:"created_at"`        // flights.created_at
    UpdatedAt        time.Time `json:"updated_at"`        // flights.updated_at
}

// FlightView is a flight joined with the registration number of its
// aircraft, which is how clients refer to aircraft.
type FlightView struct {
    Flight
    AircraftRegistration string `json:"aircraft"`
}
