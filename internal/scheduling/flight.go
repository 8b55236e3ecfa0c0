package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// FlightCandidate is the post-change state of a flight under validation.
// ID is empty on create.  Aircraft is a registration number.
type FlightCandidate struct {
	ID               string
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Aircraft         string
}

// checkFormat rejects malformed fields before any rule is evaluated.
func (c FlightCandidate) checkFormat() error {
	switch {
	case !ValidFlightNumber(c.FlightNumber):
		return Reject(KindValidationFailed, "flight number %q must be two letters followed by 1-4 digits", c.FlightNumber)
	case !ValidIATA(c.DepartureAirport):
		return Reject(KindValidationFailed, "departure airport %q is not an IATA code", c.DepartureAirport)
	case !ValidIATA(c.ArrivalAirport):
		return Reject(KindValidationFailed, "arrival airport %q is not an IATA code", c.ArrivalAirport)
	case !ValidRegistration(c.Aircraft):
		return Reject(KindValidationFailed, "aircraft registration %q is malformed", c.Aircraft)
	case c.DepartureTime.IsZero() || c.ArrivalTime.IsZero():
		return Reject(KindValidationFailed, "departure and arrival times are required")
	}
	return nil
}

// FlightPipeline decides whether a flight may be assigned to its aircraft.
// Checks run in a fixed order and stop at the first failure.
type FlightPipeline struct {
	Clock      Clock
	Continuity ContinuityChecker
}

// Validate runs every flight rule against s.  current is the persisted
// flight on update and nil on create.  It returns the resolved aircraft.
func (p FlightPipeline) Validate(ctx context.Context, s Stores, c FlightCandidate, current *model.Flight) (model.Aircraft, error) {
	now := p.Clock.Now()
	if !c.DepartureTime.Before(c.ArrivalTime) {
		return model.Aircraft{}, Reject(KindInvalidTimeInterval, "departure time must be before arrival time")
	}
	if c.DepartureTime.Before(now) || c.ArrivalTime.Before(now) {
		return model.Aircraft{}, Reject(KindInvalidTimeInterval, "flight times must not be in the past")
	}

	if c.DepartureAirport == c.ArrivalAirport {
		return model.Aircraft{}, Reject(KindInvalidFlightEndpoints, "departure and arrival airport are both %s", c.DepartureAirport)
	}

	if current == nil || current.FlightNumber != c.FlightNumber {
		other, ok, err := s.Flights.FlightByNumber(ctx, c.FlightNumber)
		if err != nil {
			return model.Aircraft{}, fmt.Errorf("load flight %s: %w", c.FlightNumber, err)
		}
		if ok && other.ID != c.ID {
			return model.Aircraft{}, Reject(KindFlightNumberAlreadyExists, "flight number %s already exists", c.FlightNumber)
		}
	}

	ac, err := CheckAircraftState(ctx, s.Aircraft, c.Aircraft)
	if err != nil {
		return model.Aircraft{}, err
	}

	existing, err := s.Flights.FlightsOverlapping(ctx, ac.ID, c.DepartureTime, c.ArrivalTime, c.ID)
	if err != nil {
		return model.Aircraft{}, fmt.Errorf("load overlapping flights: %w", err)
	}
	if f, ok := firstOverlappingFlight(c, existing); ok {
		return model.Aircraft{}, Reject(KindOverlapConflict, "aircraft %s is already flying %s between %s and %s",
			ac.RegistrationNumber, f.FlightNumber,
			f.DepartureTime.UTC().Format(time.RFC3339), f.ArrivalTime.UTC().Format(time.RFC3339))
	}

	if err := p.Continuity.Check(ctx, s.Flights, ac.ID, c.ID, c.DepartureAirport, c.DepartureTime); err != nil {
		return model.Aircraft{}, err
	}

	if err := CheckRange(ctx, s.Profiles, s.Airports, ac.Type, c.DepartureAirport, c.ArrivalAirport); err != nil {
		return model.Aircraft{}, err
	}
	return ac, nil
}

func firstOverlappingFlight(c FlightCandidate, existing []model.Flight) (model.Flight, bool) {
	windows := make([]Window, len(existing))
	byID := make(map[string]model.Flight, len(existing))
	for i, f := range existing {
		windows[i] = Window{ID: f.ID, Start: f.DepartureTime, End: f.ArrivalTime}
		byID[f.ID] = f
	}
	w, ok := FirstOverlap(Window{ID: c.ID, Start: c.DepartureTime, End: c.ArrivalTime}, windows)
	if !ok {
		return model.Flight{}, false
	}
	return byID[w.ID], true
}
