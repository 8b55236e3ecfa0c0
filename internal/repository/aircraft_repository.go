package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// AircraftRepo manages persistence for aircraft.
type AircraftRepo struct {
	db dbtx
}

// NewAircraftRepo constructs an AircraftRepo with the given DB handle.
func NewAircraftRepo(db *sql.DB) *AircraftRepo {
	return &AircraftRepo{db: db}
}

const aircraftColumns = `id, registration_number, type, status, created_at, updated_at`

func scanAircraft(row interface{ Scan(...any) error }) (model.Aircraft, error) {
	var a model.Aircraft
	err := row.Scan(&a.ID, &a.RegistrationNumber, &a.Type, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// AircraftByID returns found=false when no aircraft has the id.
func (r *AircraftRepo) AircraftByID(ctx context.Context, id string) (model.Aircraft, bool, error) {
	a, err := scanAircraft(r.db.QueryRowContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Aircraft{}, false, nil
	}
	if err != nil {
		return model.Aircraft{}, false, err
	}
	return a, true, nil
}

// AircraftByRegistration returns found=false when the registration is unknown.
func (r *AircraftRepo) AircraftByRegistration(ctx context.Context, reg string) (model.Aircraft, bool, error) {
	a, err := scanAircraft(r.db.QueryRowContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft WHERE registration_number = ?`, reg))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Aircraft{}, false, nil
	}
	if err != nil {
		return model.Aircraft{}, false, err
	}
	return a, true, nil
}

// List returns the fleet ordered by registration number.
func (r *AircraftRepo) List(ctx context.Context) ([]model.Aircraft, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+aircraftColumns+` FROM aircraft ORDER BY registration_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Aircraft{}
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// InsertAircraft returns ErrRegistrationExists when the registration
// number is taken.
func (r *AircraftRepo) InsertAircraft(ctx context.Context, a model.Aircraft) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO aircraft (id, registration_number, type, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.RegistrationNumber, a.Type, a.Status, a.CreatedAt, a.UpdatedAt)
	if isDuplicate(err) {
		return ErrRegistrationExists
	}
	return err
}

func (r *AircraftRepo) UpdateAircraft(ctx context.Context, a model.Aircraft) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE aircraft SET registration_number = ?, type = ?, status = ?, updated_at = ? WHERE id = ?`,
		a.RegistrationNumber, a.Type, a.Status, a.UpdatedAt, a.ID)
	if isDuplicate(err) {
		return ErrRegistrationExists
	}
	return err
}

// DeleteAircraft relies on ON DELETE CASCADE to remove the aircraft's
// flights.  Maintenance records must be deleted first; while any remain the
// delete fails with ErrConflict.
func (r *AircraftRepo) DeleteAircraft(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM aircraft WHERE id = ?`, id)
	if isReferenced(err) {
		return ErrConflict
	}
	return err
}
