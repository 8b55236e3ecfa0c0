package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// MaintenanceRepo persists maintenance records.
type MaintenanceRepo struct {
	db dbtx
}

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

const maintenanceColumns = `m.id, m.aircraft_id, m.engineer_id, m.type, m.start_date, m.end_date,
                            m.status, m.created_at, m.updated_at`

const maintenanceViewFrom = ` FROM maintenance_records m
		JOIN aircraft a ON a.id = m.aircraft_id
		JOIN users u    ON u.id = m.engineer_id`

func scanMaintenance(row interface{ Scan(...any) error }, extra ...any) (model.MaintenanceRecord, error) {
	var m model.MaintenanceRecord
	dest := []any{
		&m.ID, &m.AircraftID, &m.EngineerID, &m.Type, &m.StartDate, &m.EndDate,
		&m.Status, &m.CreatedAt, &m.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

func (r *MaintenanceRepo) MaintenanceByID(ctx context.Context, id string) (model.MaintenanceRecord, bool, error) {
	m, err := scanMaintenance(r.db.QueryRowContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records m WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.MaintenanceRecord{}, false, nil
	}
	if err != nil {
		return model.MaintenanceRecord{}, false, err
	}
	return m, true, nil
}

// MaintenanceByAircraft lists every record scheduled on the aircraft,
// earliest first.
func (r *MaintenanceRepo) MaintenanceByAircraft(ctx context.Context, aircraftID string) ([]model.MaintenanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records m
		 WHERE m.aircraft_id = ?
		 ORDER BY m.start_date ASC, m.id ASC`, aircraftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaintenanceRows(rows)
}

func (r *MaintenanceRepo) MaintenanceOverlapping(ctx context.Context, aircraftID string, start, end time.Time, excludeID string) ([]model.MaintenanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records m
		 WHERE m.aircraft_id = ? AND m.start_date <= ? AND m.end_date >= ? AND m.id <> ?
		 ORDER BY m.start_date ASC`,
		aircraftID, end, start, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaintenanceRows(rows)
}

func scanMaintenanceRows(rows *sql.Rows) ([]model.MaintenanceRecord, error) {
	out := []model.MaintenanceRecord{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MaintenanceRepo) InsertMaintenance(ctx context.Context, m model.MaintenanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_records (id, aircraft_id, engineer_id, type, start_date, end_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.AircraftID, m.EngineerID, m.Type, m.StartDate, m.EndDate, m.Status, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *MaintenanceRepo) UpdateMaintenance(ctx context.Context, m model.MaintenanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_records SET aircraft_id = ?, engineer_id = ?, type = ?, start_date = ?,
		        end_date = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		m.AircraftID, m.EngineerID, m.Type, m.StartDate, m.EndDate, m.Status, m.UpdatedAt, m.ID)
	return err
}

func (r *MaintenanceRepo) DeleteMaintenance(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE id = ?`, id)
	return err
}

// List applies the filter and ordering.  The sort column comes from the
// model.MaintenanceSortFields whitelist; unknown keys fall back to start_date.
func (r *MaintenanceRepo) List(ctx context.Context, f model.MaintenanceFilter) ([]model.MaintenanceView, error) {
	where := []string{}
	args := []any{}
	if f.Status != "" {
		where = append(where, "m.status = ?")
		args = append(args, f.Status)
	}
	if f.Type != "" {
		where = append(where, "m.type = ?")
		args = append(args, f.Type)
	}
	if f.EngineerID != "" {
		where = append(where, "m.engineer_id = ?")
		args = append(args, f.EngineerID)
	}
	if f.AircraftID != "" {
		where = append(where, "m.aircraft_id = ?")
		args = append(args, f.AircraftID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	col, ok := model.MaintenanceSortFields[f.SortBy]
	if !ok {
		col = "m.start_date"
	}
	dir := "ASC"
	if f.Direction == model.SortDesc {
		dir = "DESC"
	}

	q := `SELECT ` + maintenanceColumns + `, a.registration_number, u.username` + maintenanceViewFrom + `
		WHERE ` + cond + `
		ORDER BY ` + col + ` ` + dir + `, m.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.MaintenanceView{}
	for rows.Next() {
		var v model.MaintenanceView
		m, err := scanMaintenance(rows, &v.AircraftRegistration, &v.EngineerUsername)
		if err != nil {
			return nil, err
		}
		v.MaintenanceRecord = m
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ViewByID returns ErrNotFound when the record does not exist.
func (r *MaintenanceRepo) ViewByID(ctx context.Context, id string) (model.MaintenanceView, error) {
	var v model.MaintenanceView
	m, err := scanMaintenance(r.db.QueryRowContext(ctx,
		`SELECT `+maintenanceColumns+`, a.registration_number, u.username`+maintenanceViewFrom+`
		 WHERE m.id = ?`, id), &v.AircraftRegistration, &v.EngineerUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MaintenanceView{}, ErrNotFound
	}
	if err != nil {
		return model.MaintenanceView{}, err
	}
	v.MaintenanceRecord = m
	return v, nil
}
