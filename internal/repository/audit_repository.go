package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// AuditRepo appends to and reads maintenance_audit_entries.  Entries are
// never updated or deleted.
type AuditRepo struct {
	db dbtx
}

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) AppendAudit(ctx context.Context, e model.MaintenanceAuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_audit_entries (id, action, maintenance_record_id, aircraft_registration, performed_by, recorded_at, changes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.MaintenanceRecordID, e.AircraftRegistration, e.PerformedBy, e.RecordedAt, e.Changes)
	return err
}

// List returns entries newest first.  A non-empty recordID restricts the
// result to one maintenance record, including entries written after it was
// deleted.
func (r *AuditRepo) List(ctx context.Context, recordID string) ([]model.MaintenanceAuditEntry, error) {
	q := `SELECT id, action, maintenance_record_id, aircraft_registration, performed_by, recorded_at, changes
	      FROM maintenance_audit_entries`
	args := []any{}
	if recordID != "" {
		q += ` WHERE maintenance_record_id = ?`
		args = append(args, recordID)
	}
	q += ` ORDER BY recorded_at DESC, seq DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.MaintenanceAuditEntry{}
	for rows.Next() {
		var e model.MaintenanceAuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.MaintenanceRecordID, &e.AircraftRegistration,
			&e.PerformedBy, &e.RecordedAt, &e.Changes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
