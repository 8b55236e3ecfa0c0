package scheduling

import (
	"context"
	"fmt"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// RouteDistance resolves both airports and returns the great-circle
// distance between them in nautical miles.
func RouteDistance(ctx context.Context, airports AirportStore, from, to string) (int, error) {
	a, err := airport(ctx, airports, from)
	if err != nil {
		return 0, err
	}
	b, err := airport(ctx, airports, to)
	if err != nil {
		return 0, err
	}
	return GreatCircleNM(
		Coordinates{LatDeg: a.LatitudeDeg, LonDeg: a.LongitudeDeg},
		Coordinates{LatDeg: b.LatitudeDeg, LonDeg: b.LongitudeDeg},
	), nil
}

func airport(ctx context.Context, airports AirportStore, code string) (model.Airport, error) {
	ap, ok, err := airports.AirportByCode(ctx, code)
	if err != nil {
		return model.Airport{}, fmt.Errorf("load airport %s: %w", code, err)
	}
	if !ok {
		return model.Airport{}, Reject(KindAirportNotFound, "airport %s not found", code)
	}
	return ap, nil
}

func profile(ctx context.Context, profiles TypeProfileStore, t model.AircraftType) (model.AircraftTypeProfile, error) {
	p, ok, err := profiles.ProfileByType(ctx, t)
	if err != nil {
		return model.AircraftTypeProfile{}, fmt.Errorf("load type profile %s: %w", t, err)
	}
	if !ok {
		return model.AircraftTypeProfile{}, Reject(KindAircraftTypeProfileNotFound, "no profile registered for aircraft type %s", t)
	}
	return p, nil
}

// CheckRange requires the route between from and to to fit within the
// cruising range of the aircraft type.
func CheckRange(ctx context.Context, profiles TypeProfileStore, airports AirportStore, t model.AircraftType, from, to string) error {
	p, err := profile(ctx, profiles, t)
	if err != nil {
		return err
	}
	dist, err := RouteDistance(ctx, airports, from, to)
	if err != nil {
		return err
	}
	if dist > p.CruisingRangeMiles {
		return Reject(KindRangeExceeded, "route %s-%s is %d nm, %s range is %d nm", from, to, dist, t, p.CruisingRangeMiles)
	}
	return nil
}
