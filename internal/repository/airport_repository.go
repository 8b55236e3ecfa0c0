package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// AirportRepo reads the airports reference table.
type AirportRepo struct {
	db dbtx
}

func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

const airportColumns = `iata_code, icao_code, name, type, latitude_deg, longitude_deg, elevation_ft,
                        continent, iso_country, municipality, scheduled_service`

func (r *AirportRepo) AirportByCode(ctx context.Context, code string) (model.Airport, bool, error) {
	var a model.Airport
	err := r.db.QueryRowContext(ctx, `SELECT `+airportColumns+` FROM airports WHERE iata_code = ?`, code).Scan(
		&a.IATACode, &a.ICAOCode, &a.Name, &a.Type, &a.LatitudeDeg, &a.LongitudeDeg, &a.ElevationFt,
		&a.Continent, &a.ISOCountry, &a.Municipality, &a.ScheduledService,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Airport{}, false, nil
	}
	if err != nil {
		return model.Airport{}, false, err
	}
	return a, true, nil
}

// ListCodes returns every IATA code in alphabetical order.
func (r *AirportRepo) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT iata_code FROM airports ORDER BY iata_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}
