package scheduling

import (
	"context"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// DefaultTurnaroundAllowance covers taxi, takeoff and landing.
const DefaultTurnaroundAllowance = 20 * time.Minute

// ArrivalEstimator predicts arrival times for planning.  It never touches
// persisted flights.
type ArrivalEstimator struct {
	Profiles  TypeProfileStore
	Airports  AirportStore
	Allowance time.Duration
}

// Estimate returns departure plus whole flight minutes at cruising speed
// plus the turnaround allowance.
func (e ArrivalEstimator) Estimate(ctx context.Context, from, to string, t model.AircraftType, departure time.Time) (time.Time, error) {
	p, err := profile(ctx, e.Profiles, t)
	if err != nil {
		return time.Time{}, err
	}
	if p.CruisingSpeedKnots <= 0 {
		return time.Time{}, Reject(KindAircraftTypeProfileNotFound, "profile for %s has no cruising speed", t)
	}
	dist, err := RouteDistance(ctx, e.Airports, from, to)
	if err != nil {
		return time.Time{}, err
	}
	allowance := e.Allowance
	if allowance <= 0 {
		allowance = DefaultTurnaroundAllowance
	}
	minutes := int(float64(dist) / float64(p.CruisingSpeedKnots) * 60)
	return departure.Add(time.Duration(minutes)*time.Minute + allowance), nil
}
