package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// Actor identifies who performs a change.  Username is snapshotted into
// audit entries; when empty the record's engineer is credited instead.
type Actor struct {
	ID       string
	Username string
}

type MaintenanceInput struct {
	Aircraft  string
	Engineer  string
	Type      model.MaintenanceType
	Status    model.MaintenanceStatus
	StartDate time.Time
	EndDate   time.Time
}

type MaintenancePatch struct {
	Aircraft  *string
	Engineer  *string
	Type      *model.MaintenanceType
	Status    *model.MaintenanceStatus
	StartDate *time.Time
	EndDate   *time.Time
}

func (in MaintenanceInput) candidate() MaintenanceCandidate {
	return MaintenanceCandidate{
		Aircraft:  Normalize(in.Aircraft),
		Engineer:  in.Engineer,
		Type:      model.MaintenanceType(Normalize(string(in.Type))),
		Status:    model.MaintenanceStatus(Normalize(string(in.Status))),
		StartDate: normalizeTime(in.StartDate),
		EndDate:   normalizeTime(in.EndDate),
	}
}

func (p MaintenancePatch) apply(c MaintenanceCandidate) MaintenanceCandidate {
	if p.Aircraft != nil {
		c.Aircraft = Normalize(*p.Aircraft)
	}
	if p.Engineer != nil {
		c.Engineer = *p.Engineer
	}
	if p.Type != nil {
		c.Type = model.MaintenanceType(Normalize(string(*p.Type)))
	}
	if p.Status != nil {
		c.Status = model.MaintenanceStatus(Normalize(string(*p.Status)))
	}
	if p.StartDate != nil {
		c.StartDate = normalizeTime(*p.StartDate)
	}
	if p.EndDate != nil {
		c.EndDate = normalizeTime(*p.EndDate)
	}
	return c
}

// MaintenanceService manages maintenance windows and writes exactly one
// audit entry per accepted change, in the same unit of work as the change.
type MaintenanceService struct {
	deps     Deps
	pipeline MaintenancePipeline
	audit    AuditRecorder
}

func NewMaintenanceService(d Deps) *MaintenanceService {
	d = d.withDefaults()
	return &MaintenanceService{
		deps:  d,
		audit: AuditRecorder{Clock: d.Clock, IDs: d.IDs},
	}
}

func actorName(a Actor, engineer model.User) string {
	if a.Username != "" {
		return a.Username
	}
	return engineer.Username
}

func (s *MaintenanceService) Create(ctx context.Context, actor Actor, in MaintenanceInput) (model.MaintenanceView, error) {
	c := in.candidate()
	if err := c.checkFormat(); err != nil {
		return model.MaintenanceView{}, s.deps.observe("maintenance", err)
	}
	var (
		out   model.MaintenanceView
		entry model.MaintenanceAuditEntry
	)
	err := s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(c.Aircraft), func(ctx context.Context, st Stores) error {
		ac, eng, err := s.pipeline.Validate(ctx, st, c)
		if err != nil {
			return err
		}
		now := s.deps.Clock.Now().UTC()
		r := model.MaintenanceRecord{
			ID:         s.deps.IDs.New(),
			AircraftID: ac.ID,
			EngineerID: eng.ID,
			Type:       c.Type,
			StartDate:  c.StartDate,
			EndDate:    c.EndDate,
			Status:     c.Status,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := st.Maintenance.InsertMaintenance(ctx, r); err != nil {
			return fmt.Errorf("insert maintenance record: %w", err)
		}
		entry = s.audit.Entry(model.AuditCreated, r.ID, ac.RegistrationNumber, actorName(actor, eng), nil, nil)
		if err := st.Audit.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		out = model.MaintenanceView{MaintenanceRecord: r, AircraftRegistration: ac.RegistrationNumber, EngineerUsername: eng.Username}
		return nil
	})
	if err != nil {
		return model.MaintenanceView{}, s.deps.observe("maintenance", err)
	}
	s.deps.auditCommitted(ctx, entry)
	return out, nil
}

// Update applies patch, re-validates the whole record and audits the diff
// between the pre-change snapshot and the persisted result.
func (s *MaintenanceService) Update(ctx context.Context, actor Actor, id string, patch MaintenancePatch) (model.MaintenanceView, error) {
	var (
		out   model.MaintenanceView
		entry model.MaintenanceAuditEntry
		err   error
	)
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		out, entry, err = s.update(ctx, actor, id, patch)
		if !errors.Is(err, errStaleAircraft) {
			break
		}
	}
	if err != nil {
		return model.MaintenanceView{}, s.deps.observe("maintenance", err)
	}
	s.deps.auditCommitted(ctx, entry)
	return out, nil
}

func (s *MaintenanceService) update(ctx context.Context, actor Actor, id string, patch MaintenancePatch) (model.MaintenanceView, model.MaintenanceAuditEntry, error) {
	_, oldReg, err := s.current(ctx, id)
	if err != nil {
		return model.MaintenanceView{}, model.MaintenanceAuditEntry{}, err
	}
	newReg := oldReg
	if patch.Aircraft != nil {
		newReg = Normalize(*patch.Aircraft)
	}

	var (
		out   model.MaintenanceView
		entry model.MaintenanceAuditEntry
	)
	err = s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(oldReg, newReg), func(ctx context.Context, st Stores) error {
		cur, reg, err := loadMaintenance(ctx, st, id)
		if err != nil {
			return err
		}
		if reg != oldReg {
			return errStaleAircraft
		}
		c := patch.apply(MaintenanceCandidate{
			ID:        cur.ID,
			Aircraft:  reg,
			Engineer:  cur.EngineerID,
			Type:      cur.Type,
			Status:    cur.Status,
			StartDate: cur.StartDate,
			EndDate:   cur.EndDate,
		})
		if err := c.checkFormat(); err != nil {
			return err
		}
		ac, eng, err := s.pipeline.Validate(ctx, st, c)
		if err != nil {
			return err
		}
		before := SnapshotOf(cur, reg)

		r := cur
		r.AircraftID = ac.ID
		r.EngineerID = eng.ID
		r.Type = c.Type
		r.Status = c.Status
		r.StartDate = c.StartDate
		r.EndDate = c.EndDate
		r.UpdatedAt = s.deps.Clock.Now().UTC()
		if err := st.Maintenance.UpdateMaintenance(ctx, r); err != nil {
			return fmt.Errorf("update maintenance record: %w", err)
		}
		after := SnapshotOf(r, ac.RegistrationNumber)

		entry = s.audit.Entry(model.AuditUpdated, r.ID, ac.RegistrationNumber, actorName(actor, eng), &before, &after)
		if err := st.Audit.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		out = model.MaintenanceView{MaintenanceRecord: r, AircraftRegistration: ac.RegistrationNumber, EngineerUsername: eng.Username}
		return nil
	})
	return out, entry, err
}

// Delete removes the record and audits the deletion.  Deleting an unknown
// record is a no-op and writes no entry.
func (s *MaintenanceService) Delete(ctx context.Context, actor Actor, id string) error {
	_, reg, err := s.current(ctx, id)
	if IsKind(err, KindMaintenanceRecordNotFound) {
		return nil
	}
	if err != nil {
		return s.deps.observe("maintenance", err)
	}
	var entry model.MaintenanceAuditEntry
	deleted := false
	err = s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(reg), func(ctx context.Context, st Stores) error {
		cur, reg, err := loadMaintenance(ctx, st, id)
		if IsKind(err, KindMaintenanceRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		eng, _, err := st.Users.UserByID(ctx, cur.EngineerID)
		if err != nil {
			return fmt.Errorf("load engineer %s: %w", cur.EngineerID, err)
		}
		entry = s.audit.Entry(model.AuditDeleted, cur.ID, reg, actorName(actor, eng), nil, nil)
		if err := st.Maintenance.DeleteMaintenance(ctx, cur.ID); err != nil {
			return fmt.Errorf("delete maintenance record: %w", err)
		}
		if err := st.Audit.AppendAudit(ctx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return s.deps.observe("maintenance", err)
	}
	if deleted {
		s.deps.auditCommitted(ctx, entry)
	}
	return nil
}

func (s *MaintenanceService) current(ctx context.Context, id string) (model.MaintenanceRecord, string, error) {
	var (
		r   model.MaintenanceRecord
		reg string
	)
	err := s.deps.UnitOfWork.View(ctx, func(ctx context.Context, st Stores) error {
		var err error
		r, reg, err = loadMaintenance(ctx, st, id)
		return err
	})
	return r, reg, err
}

func loadMaintenance(ctx context.Context, st Stores, id string) (model.MaintenanceRecord, string, error) {
	r, ok, err := st.Maintenance.MaintenanceByID(ctx, id)
	if err != nil {
		return model.MaintenanceRecord{}, "", fmt.Errorf("load maintenance record %s: %w", id, err)
	}
	if !ok {
		return model.MaintenanceRecord{}, "", Reject(KindMaintenanceRecordNotFound, "maintenance record %s not found", id)
	}
	ac, ok, err := st.Aircraft.AircraftByID(ctx, r.AircraftID)
	if err != nil {
		return model.MaintenanceRecord{}, "", fmt.Errorf("load aircraft %s: %w", r.AircraftID, err)
	}
	if !ok {
		return r, "", nil
	}
	return r, ac.RegistrationNumber, nil
}
