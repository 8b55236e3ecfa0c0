package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// FlightRepo persists flights.  All times are stored as UTC DATETIME.
type FlightRepo struct {
	db dbtx
}

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightColumns = `f.id, f.flight_number, f.departure_airport, f.arrival_airport,
                       f.departure_time, f.arrival_time, f.aircraft_id, f.created_at, f.updated_at`

func scanFlight(row interface{ Scan(...any) error }, extra ...any) (model.Flight, error) {
	var f model.Flight
	dest := []any{
		&f.ID, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureTime, &f.ArrivalTime, &f.AircraftID, &f.CreatedAt, &f.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return f, err
}

func (r *FlightRepo) one(ctx context.Context, where string, args ...any) (model.Flight, bool, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights f WHERE `+where+` LIMIT 1`, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Flight{}, false, nil
	}
	if err != nil {
		return model.Flight{}, false, err
	}
	return f, true, nil
}

func (r *FlightRepo) FlightByID(ctx context.Context, id string) (model.Flight, bool, error) {
	return r.one(ctx, `f.id = ?`, id)
}

func (r *FlightRepo) FlightByNumber(ctx context.Context, number string) (model.Flight, bool, error) {
	return r.one(ctx, `f.flight_number = ?`, number)
}

// FlightsOverlapping uses closed-interval semantics: a flight arriving at
// exactly start still conflicts.
func (r *FlightRepo) FlightsOverlapping(ctx context.Context, aircraftID string, start, end time.Time, excludeID string) ([]model.Flight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+flightColumns+` FROM flights f
		 WHERE f.aircraft_id = ? AND f.departure_time <= ? AND f.arrival_time >= ? AND f.id <> ?
		 ORDER BY f.departure_time ASC`,
		aircraftID, end, start, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FlightRepo) LastFlightArrivingBefore(ctx context.Context, aircraftID string, t time.Time, excludeID string) (model.Flight, bool, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights f
		 WHERE f.aircraft_id = ? AND f.arrival_time < ? AND f.id <> ?
		 ORDER BY f.arrival_time DESC LIMIT 1`,
		aircraftID, t, excludeID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Flight{}, false, nil
	}
	if err != nil {
		return model.Flight{}, false, err
	}
	return f, true, nil
}

// InsertFlight returns ErrDuplicate (wrapped) when the flight number is taken.
func (r *FlightRepo) InsertFlight(ctx context.Context, f model.Flight) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flights (id, flight_number, departure_airport, arrival_airport, departure_time, arrival_time, aircraft_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport, f.DepartureTime, f.ArrivalTime, f.AircraftID, f.CreatedAt, f.UpdatedAt)
	if isDuplicate(err) {
		return errFlightNumberTaken
	}
	return err
}

func (r *FlightRepo) UpdateFlight(ctx context.Context, f model.Flight) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE flights SET flight_number = ?, departure_airport = ?, arrival_airport = ?,
		        departure_time = ?, arrival_time = ?, aircraft_id = ?, updated_at = ?
		 WHERE id = ?`,
		f.FlightNumber, f.DepartureAirport, f.ArrivalAirport, f.DepartureTime, f.ArrivalTime, f.AircraftID, f.UpdatedAt, f.ID)
	if isDuplicate(err) {
		return errFlightNumberTaken
	}
	return err
}

func (r *FlightRepo) DeleteFlight(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	return err
}

// ListViews returns every flight with its aircraft registration, ordered by
// departure.  An empty registration lists the whole fleet.
func (r *FlightRepo) ListViews(ctx context.Context, registration string) ([]model.FlightView, error) {
	q := `SELECT ` + flightColumns + `, a.registration_number
	      FROM flights f JOIN aircraft a ON a.id = f.aircraft_id`
	args := []any{}
	if registration != "" {
		q += ` WHERE a.registration_number = ?`
		args = append(args, registration)
	}
	q += ` ORDER BY f.departure_time ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.FlightView{}
	for rows.Next() {
		var v model.FlightView
		f, err := scanFlight(rows, &v.AircraftRegistration)
		if err != nil {
			return nil, err
		}
		v.Flight = f
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ViewByID returns ErrNotFound when the flight does not exist.
func (r *FlightRepo) ViewByID(ctx context.Context, id string) (model.FlightView, error) {
	var v model.FlightView
	f, err := scanFlight(r.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+`, a.registration_number
		 FROM flights f JOIN aircraft a ON a.id = f.aircraft_id
		 WHERE f.id = ?`, id), &v.AircraftRegistration)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FlightView{}, ErrNotFound
	}
	if err != nil {
		return model.FlightView{}, err
	}
	v.Flight = f
	return v, nil
}
