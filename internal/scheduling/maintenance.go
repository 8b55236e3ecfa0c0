package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// MaintenanceCandidate is the post-change state of a maintenance record.
// Aircraft is a registration number, Engineer a user id.
type MaintenanceCandidate struct {
	ID        string
	Aircraft  string
	Engineer  string
	Type      model.MaintenanceType
	Status    model.MaintenanceStatus
	StartDate time.Time
	EndDate   time.Time
}

func (c MaintenanceCandidate) checkFormat() error {
	switch {
	case !ValidRegistration(c.Aircraft):
		return Reject(KindValidationFailed, "aircraft registration %q is malformed", c.Aircraft)
	case c.Engineer == "":
		return Reject(KindValidationFailed, "engineer is required")
	case !c.Type.Valid():
		return Reject(KindValidationFailed, "unknown maintenance type %q", c.Type)
	case !c.Status.Valid():
		return Reject(KindValidationFailed, "unknown maintenance status %q", c.Status)
	case c.StartDate.IsZero() || c.EndDate.IsZero():
		return Reject(KindValidationFailed, "start and end dates are required")
	}
	return nil
}

// MaintenancePipeline validates maintenance windows per aircraft.
type MaintenancePipeline struct{}

// Validate returns the resolved aircraft and engineer on success.  An
// unknown aircraft owns no windows, so the overlap step passes for it and
// the existence step reports it.
func (MaintenancePipeline) Validate(ctx context.Context, s Stores, c MaintenanceCandidate) (model.Aircraft, model.User, error) {
	if c.StartDate.After(c.EndDate) {
		return model.Aircraft{}, model.User{}, Reject(KindInvalidTimeInterval, "start date after end date")
	}

	ac, found, err := s.Aircraft.AircraftByRegistration(ctx, c.Aircraft)
	if err != nil {
		return model.Aircraft{}, model.User{}, fmt.Errorf("load aircraft %s: %w", c.Aircraft, err)
	}
	if found {
		existing, err := s.Maintenance.MaintenanceOverlapping(ctx, ac.ID, c.StartDate, c.EndDate, c.ID)
		if err != nil {
			return model.Aircraft{}, model.User{}, fmt.Errorf("load overlapping maintenance: %w", err)
		}
		windows := make([]Window, len(existing))
		for i, r := range existing {
			windows[i] = Window{ID: r.ID, Start: r.StartDate, End: r.EndDate}
		}
		if w, ok := FirstOverlap(Window{ID: c.ID, Start: c.StartDate, End: c.EndDate}, windows); ok {
			return model.Aircraft{}, model.User{}, Reject(KindOverlapConflict,
				"overlaps existing maintenance %s (%s - %s)", w.ID,
				w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
		}
	}

	if !found {
		return model.Aircraft{}, model.User{}, Reject(KindAircraftNotFound, "aircraft %s not found", c.Aircraft)
	}
	eng, ok, err := s.Users.UserByID(ctx, c.Engineer)
	if err != nil {
		return model.Aircraft{}, model.User{}, fmt.Errorf("load engineer %s: %w", c.Engineer, err)
	}
	if !ok {
		return model.Aircraft{}, model.User{}, Reject(KindEngineerNotFound, "engineer %s not found", c.Engineer)
	}
	return ac, eng, nil
}
