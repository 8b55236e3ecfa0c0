package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// AircraftInput describes a new airframe.  An empty Status means
// OPERATIONAL.
type AircraftInput struct {
	RegistrationNumber string
	Type               model.AircraftType
	Status             model.AircraftStatus
}

// AircraftPatch holds optional replacements for an existing aircraft.
type AircraftPatch struct {
	RegistrationNumber *string
	Type               *model.AircraftType
	Status             *model.AircraftStatus
}

func checkAircraft(a model.Aircraft) error {
	if !ValidRegistration(a.RegistrationNumber) {
		return Reject(KindValidationFailed, "registration number %q is malformed", a.RegistrationNumber)
	}
	if !a.Type.Valid() {
		return Reject(KindValidationFailed, "aircraft type %q is unknown", a.Type)
	}
	if !a.Status.Valid() {
		return Reject(KindValidationFailed, "aircraft status %q is unknown", a.Status)
	}
	return nil
}

// FleetService manages the aircraft themselves.  Status and registration
// changes take the same per-aircraft lock as flight and maintenance
// scheduling, so an aircraft cannot be retired halfway through a flight
// being validated against it.
type FleetService struct {
	deps  Deps
	audit AuditRecorder
}

func NewFleetService(d Deps) *FleetService {
	d = d.withDefaults()
	return &FleetService{deps: d, audit: AuditRecorder{Clock: d.Clock, IDs: d.IDs}}
}

func (s *FleetService) Create(ctx context.Context, in AircraftInput) (model.Aircraft, error) {
	a := model.Aircraft{
		RegistrationNumber: Normalize(in.RegistrationNumber),
		Type:               model.AircraftType(Normalize(string(in.Type))),
		Status:             model.AircraftStatus(Normalize(string(in.Status))),
	}
	if a.Status == "" {
		a.Status = model.AircraftOperational
	}
	if err := checkAircraft(a); err != nil {
		return model.Aircraft{}, s.deps.observe("aircraft", err)
	}
	err := s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(a.RegistrationNumber), func(ctx context.Context, st Stores) error {
		if err := s.checkFree(ctx, st, a.RegistrationNumber); err != nil {
			return err
		}
		if _, err := profile(ctx, st.Profiles, a.Type); err != nil {
			return err
		}
		now := s.deps.Clock.Now().UTC()
		a.ID = s.deps.IDs.New()
		a.CreatedAt, a.UpdatedAt = now, now
		return s.writeErr(a, st.Aircraft.InsertAircraft(ctx, a))
	})
	if err != nil {
		return model.Aircraft{}, s.deps.observe("aircraft", err)
	}
	s.deps.Recorder.Mutated("aircraft", model.AuditCreated)
	return a, nil
}

func (s *FleetService) Update(ctx context.Context, id string, patch AircraftPatch) (model.Aircraft, error) {
	var (
		out model.Aircraft
		err error
	)
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		out, err = s.update(ctx, id, patch)
		if !errors.Is(err, errStaleAircraft) {
			break
		}
	}
	if err != nil {
		return model.Aircraft{}, s.deps.observe("aircraft", err)
	}
	s.deps.Recorder.Mutated("aircraft", model.AuditUpdated)
	return out, nil
}

func (s *FleetService) update(ctx context.Context, id string, patch AircraftPatch) (model.Aircraft, error) {
	cur, err := s.current(ctx, id)
	if err != nil {
		return model.Aircraft{}, err
	}
	next := cur
	if patch.RegistrationNumber != nil {
		next.RegistrationNumber = Normalize(*patch.RegistrationNumber)
	}
	if patch.Type != nil {
		next.Type = model.AircraftType(Normalize(string(*patch.Type)))
	}
	if patch.Status != nil {
		next.Status = model.AircraftStatus(Normalize(string(*patch.Status)))
	}
	if err := checkAircraft(next); err != nil {
		return model.Aircraft{}, err
	}

	err = s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(cur.RegistrationNumber, next.RegistrationNumber), func(ctx context.Context, st Stores) error {
		locked, ok, err := st.Aircraft.AircraftByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load aircraft %s: %w", id, err)
		}
		if !ok {
			return Reject(KindAircraftNotFound, "aircraft %s not found", id)
		}
		if locked.RegistrationNumber != cur.RegistrationNumber {
			return errStaleAircraft
		}
		if next.RegistrationNumber != cur.RegistrationNumber {
			if err := s.checkFree(ctx, st, next.RegistrationNumber); err != nil {
				return err
			}
		}
		if next.Type != cur.Type {
			if _, err := profile(ctx, st.Profiles, next.Type); err != nil {
				return err
			}
		}
		next.CreatedAt = locked.CreatedAt
		next.UpdatedAt = s.deps.Clock.Now().UTC()
		return s.writeErr(next, st.Aircraft.UpdateAircraft(ctx, next))
	})
	return next, err
}

// Delete removes the aircraft together with its flights and maintenance
// records.  Each maintenance record is deleted and audited individually
// before the aircraft row goes.  Deleting an unknown aircraft is a no-op.
func (s *FleetService) Delete(ctx context.Context, actor Actor, id string) error {
	cur, err := s.current(ctx, id)
	if IsKind(err, KindAircraftNotFound) {
		return nil
	}
	if err != nil {
		return s.deps.observe("aircraft", err)
	}
	var entries []model.MaintenanceAuditEntry
	err = s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(cur.RegistrationNumber), func(ctx context.Context, st Stores) error {
		entries = nil
		records, err := st.Maintenance.MaintenanceByAircraft(ctx, id)
		if err != nil {
			return fmt.Errorf("list maintenance for aircraft %s: %w", id, err)
		}
		for _, r := range records {
			eng, _, err := st.Users.UserByID(ctx, r.EngineerID)
			if err != nil {
				return fmt.Errorf("load engineer %s: %w", r.EngineerID, err)
			}
			e := s.audit.Entry(model.AuditDeleted, r.ID, cur.RegistrationNumber, actorName(actor, eng), nil, nil)
			if err := st.Maintenance.DeleteMaintenance(ctx, r.ID); err != nil {
				return fmt.Errorf("delete maintenance record: %w", err)
			}
			if err := st.Audit.AppendAudit(ctx, e); err != nil {
				return fmt.Errorf("append audit entry: %w", err)
			}
			entries = append(entries, e)
		}
		return st.Aircraft.DeleteAircraft(ctx, id)
	})
	if err != nil {
		return s.deps.observe("aircraft", fmt.Errorf("delete aircraft %s: %w", id, err))
	}
	s.deps.Recorder.Mutated("aircraft", model.AuditDeleted)
	for _, e := range entries {
		s.deps.auditCommitted(ctx, e)
	}
	return nil
}

func (s *FleetService) current(ctx context.Context, id string) (model.Aircraft, error) {
	var a model.Aircraft
	err := s.deps.UnitOfWork.View(ctx, func(ctx context.Context, st Stores) error {
		var (
			ok  bool
			err error
		)
		a, ok, err = st.Aircraft.AircraftByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load aircraft %s: %w", id, err)
		}
		if !ok {
			return Reject(KindAircraftNotFound, "aircraft %s not found", id)
		}
		return nil
	})
	return a, err
}

func (s *FleetService) checkFree(ctx context.Context, st Stores, reg string) error {
	_, taken, err := st.Aircraft.AircraftByRegistration(ctx, reg)
	if err != nil {
		return fmt.Errorf("load aircraft %s: %w", reg, err)
	}
	if taken {
		return Reject(KindAircraftRegistrationNumberAlreadyExists, "registration number %s already exists", reg)
	}
	return nil
}

func (s *FleetService) writeErr(a model.Aircraft, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicate):
		return Reject(KindAircraftRegistrationNumberAlreadyExists, "registration number %s already exists", a.RegistrationNumber)
	}
	return fmt.Errorf("write aircraft: %w", err)
}
