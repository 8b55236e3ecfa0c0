package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// MaintenanceSnapshot is a fully materialized image of the audited fields
// of a maintenance record.
type MaintenanceSnapshot struct {
	Aircraft  string
	Type      model.MaintenanceType
	StartDate time.Time
	EndDate   time.Time
	Status    model.MaintenanceStatus
}

// SnapshotOf captures r with its aircraft registration resolved.
func SnapshotOf(r model.MaintenanceRecord, registration string) MaintenanceSnapshot {
	return MaintenanceSnapshot{
		Aircraft:  registration,
		Type:      r.Type,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    r.Status,
	}
}

// DiffMaintenance describes every audited field that differs between before
// and after, in the order aircraft, type, start date, end date, status.
func DiffMaintenance(before, after MaintenanceSnapshot) string {
	var b strings.Builder
	field := func(name, from, to string) {
		if from != to {
			fmt.Fprintf(&b, "%s changed from '%s' to '%s'. ", name, from, to)
		}
	}
	field("Aircraft", before.Aircraft, after.Aircraft)
	field("Type", string(before.Type), string(after.Type))
	field("Start date", formatAuditTime(before.StartDate), formatAuditTime(after.StartDate))
	field("End date", formatAuditTime(before.EndDate), formatAuditTime(after.EndDate))
	field("Status", string(before.Status), string(after.Status))
	return strings.TrimSpace(b.String())
}

func formatAuditTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// AuditRecorder builds audit entries.  Change text is only computed for
// updates.
type AuditRecorder struct {
	Clock Clock
	IDs   IDGenerator
}

func (a AuditRecorder) Entry(action model.AuditAction, recordID, registration, actor string, before, after *MaintenanceSnapshot) model.MaintenanceAuditEntry {
	e := model.MaintenanceAuditEntry{
		ID:                   a.IDs.New(),
		Action:               action,
		MaintenanceRecordID:  recordID,
		AircraftRegistration: registration,
		PerformedBy:          actor,
		RecordedAt:           a.Clock.Now().UTC(),
	}
	if action == model.AuditUpdated && before != nil && after != nil {
		e.Changes = DiffMaintenance(*before, *after)
	}
	return e
}
