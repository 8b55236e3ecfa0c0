package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// ProfileRepo reads the aircraft_type_profiles reference table.
type ProfileRepo struct {
	db dbtx
}

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) ProfileByType(ctx context.Context, t model.AircraftType) (model.AircraftTypeProfile, bool, error) {
	var p model.AircraftTypeProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT aircraft_type, cruising_speed_knots, cruising_range_miles FROM aircraft_type_profiles WHERE aircraft_type = ?`,
		t).Scan(&p.Type, &p.CruisingSpeedKnots, &p.CruisingRangeMiles)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AircraftTypeProfile{}, false, nil
	}
	if err != nil {
		return model.AircraftTypeProfile{}, false, err
	}
	return p, true, nil
}

func (r *ProfileRepo) List(ctx context.Context) ([]model.AircraftTypeProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT aircraft_type, cruising_speed_knots, cruising_range_miles FROM aircraft_type_profiles ORDER BY aircraft_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AircraftTypeProfile{}
	for rows.Next() {
		var p model.AircraftTypeProfile
		if err := rows.Scan(&p.Type, &p.CruisingSpeedKnots, &p.CruisingRangeMiles); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
