package scheduling

import (
	"context"
	"fmt"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// CheckAircraftState resolves an aircraft by registration number and
// requires it to be OPERATIONAL.
func CheckAircraftState(ctx context.Context, store AircraftStore, registration string) (model.Aircraft, error) {
	ac, ok, err := store.AircraftByRegistration(ctx, registration)
	if err != nil {
		return model.Aircraft{}, fmt.Errorf("load aircraft %s: %w", registration, err)
	}
	if !ok {
		return model.Aircraft{}, Reject(KindAircraftNotFound, "aircraft %s not found", registration)
	}
	if ac.Status != model.AircraftOperational {
		return model.Aircraft{}, Reject(KindAircraftNotOperational, "aircraft %s is %s", registration, ac.Status)
	}
	return ac, nil
}
