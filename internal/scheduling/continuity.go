package scheduling

import (
	"context"
	"fmt"
	"time"
)

// DefaultContinuityWindow is how long a landing keeps governing where an
// aircraft is.
const DefaultContinuityWindow = 24 * time.Hour

// ContinuityChecker rejects flights that depart from somewhere other than
// where the aircraft last landed, when that landing is recent.
type ContinuityChecker struct {
	Window time.Duration
}

// Check looks up the aircraft's latest arrival strictly before departure.
// No prior flight means no constraint.
func (c ContinuityChecker) Check(ctx context.Context, flights FlightStore, aircraftID, selfID, departureAirport string, departure time.Time) error {
	window := c.Window
	if window <= 0 {
		window = DefaultContinuityWindow
	}
	last, ok, err := flights.LastFlightArrivingBefore(ctx, aircraftID, departure, selfID)
	if err != nil {
		return fmt.Errorf("load last position: %w", err)
	}
	if !ok {
		return nil
	}
	recent := !last.ArrivalTime.Before(departure.Add(-window))
	if recent && last.ArrivalAirport != departureAirport {
		return Reject(KindAircraftUnreachable,
			"aircraft is at %s after flight %s (arrived %s) and cannot depart from %s",
			last.ArrivalAirport, last.FlightNumber, last.ArrivalTime.UTC().Format(time.RFC3339), departureAirport)
	}
	return nil
}
