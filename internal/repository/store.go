package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so that every repository
// can run inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the MySQL unit of work behind the scheduling services.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

func storesFor(q dbtx) scheduling.Stores {
	return scheduling.Stores{
		Aircraft:    &AircraftRepo{db: q},
		Profiles:    &ProfileRepo{db: q},
		Airports:    &AirportRepo{db: q},
		Flights:     &FlightRepo{db: q},
		Maintenance: &MaintenanceRepo{db: q},
		Users:       &UserRepo{db: q},
		Audit:       &AuditRepo{db: q},
	}
}

// WithinAircraft opens a READ COMMITTED transaction and takes row locks on
// the listed aircraft in registration order before running fn.  Aircraft
// that do not exist lock nothing.
func (s *Store) WithinAircraft(ctx context.Context, registrations []string, fn func(ctx context.Context, st scheduling.Stores) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if len(registrations) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(registrations)), ",")
		args := make([]any, len(registrations))
		for i, r := range registrations {
			args[i] = r
		}
		q := `SELECT id FROM aircraft WHERE registration_number IN (` + placeholders + `)
              ORDER BY registration_number FOR UPDATE`
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("lock aircraft: %w", err)
		}
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("lock aircraft: %w", err)
		}
		rows.Close()
	}

	if err := fn(ctx, storesFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// View runs fn directly against the pool.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, st scheduling.Stores) error) error {
	return fn(ctx, storesFor(s.db))
}
