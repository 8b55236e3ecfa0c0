package scheduling

import (
	"context"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// Lookups return found=false with a nil error when the row does not exist.

type AircraftStore interface {
	AircraftByID(ctx context.Context, id string) (model.Aircraft, bool, error)
	AircraftByRegistration(ctx context.Context, reg string) (model.Aircraft, bool, error)
	InsertAircraft(ctx context.Context, a model.Aircraft) error
	UpdateAircraft(ctx context.Context, a model.Aircraft) error
	// DeleteAircraft also removes the aircraft's flights and maintenance
	// records.
	DeleteAircraft(ctx context.Context, id string) error
}

type TypeProfileStore interface {
	ProfileByType(ctx context.Context, t model.AircraftType) (model.AircraftTypeProfile, bool, error)
}

type AirportStore interface {
	AirportByCode(ctx context.Context, code string) (model.Airport, bool, error)
}

type FlightStore interface {
	FlightByID(ctx context.Context, id string) (model.Flight, bool, error)
	FlightByNumber(ctx context.Context, number string) (model.Flight, bool, error)
	// FlightsOverlapping returns the flights of the aircraft whose closed
	// interval intersects [start, end], skipping excludeID when set.
	FlightsOverlapping(ctx context.Context, aircraftID string, start, end time.Time, excludeID string) ([]model.Flight, error)
	// LastFlightArrivingBefore returns the latest-arriving flight of the
	// aircraft with arrival strictly before t, skipping excludeID when set.
	LastFlightArrivingBefore(ctx context.Context, aircraftID string, t time.Time, excludeID string) (model.Flight, bool, error)
	InsertFlight(ctx context.Context, f model.Flight) error
	UpdateFlight(ctx context.Context, f model.Flight) error
	DeleteFlight(ctx context.Context, id string) error
}

type MaintenanceStore interface {
	MaintenanceByID(ctx context.Context, id string) (model.MaintenanceRecord, bool, error)
	MaintenanceByAircraft(ctx context.Context, aircraftID string) ([]model.MaintenanceRecord, error)
	MaintenanceOverlapping(ctx context.Context, aircraftID string, start, end time.Time, excludeID string) ([]model.MaintenanceRecord, error)
	InsertMaintenance(ctx context.Context, r model.MaintenanceRecord) error
	UpdateMaintenance(ctx context.Context, r model.MaintenanceRecord) error
	DeleteMaintenance(ctx context.Context, id string) error
}

type UserStore interface {
	UserByID(ctx context.Context, id string) (model.User, bool, error)
}

// AuditSink is append-only.
type AuditSink interface {
	AppendAudit(ctx context.Context, e model.MaintenanceAuditEntry) error
}

// Stores bundles the collaborators a pipeline reads and writes through.
// Inside a unit of work they all share one transaction.
type Stores struct {
	Aircraft    AircraftStore
	Profiles    TypeProfileStore
	Airports    AirportStore
	Flights     FlightStore
	Maintenance MaintenanceStore
	Users       UserStore
	Audit       AuditSink
}

// UnitOfWork runs validate-then-write sequences atomically.
type UnitOfWork interface {
	// WithinAircraft runs fn while holding an exclusive lock on the schedule
	// of every listed aircraft (by registration number).  A non-nil error
	// from fn discards every write fn made.
	WithinAircraft(ctx context.Context, registrations []string, fn func(ctx context.Context, s Stores) error) error
	// View runs fn against committed state without taking locks.
	View(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// EventPublisher receives notifications after a unit of work commits.
type EventPublisher interface {
	PublishFlightChange(ctx context.Context, action model.AuditAction, f model.FlightView) error
	PublishMaintenanceAudit(ctx context.Context, e model.MaintenanceAuditEntry) error
}

// Recorder observes pipeline outcomes, typically for metrics.
type Recorder interface {
	Rejected(entity string, kind Kind)
	Mutated(entity string, action model.AuditAction)
}

type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

type IDGenerator interface {
	New() string
}

type nopPublisher struct{}

func (nopPublisher) PublishFlightChange(context.Context, model.AuditAction, model.FlightView) error {
	return nil
}

func (nopPublisher) PublishMaintenanceAudit(context.Context, model.MaintenanceAuditEntry) error {
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Rejected(string, Kind)              {}
func (nopRecorder) Mutated(string, model.AuditAction) {}
