package scheduling_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
	"github.com/iliyamo/fleet-scheduling/internal/testutil"
)

type recordingPublisher struct {
	mu      sync.Mutex
	flights []model.AuditAction
	audits  []model.MaintenanceAuditEntry
}

func (p *recordingPublisher) PublishFlightChange(_ context.Context, action model.AuditAction, _ model.FlightView) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flights = append(p.flights, action)
	return nil
}

func (p *recordingPublisher) PublishMaintenanceAudit(_ context.Context, e model.MaintenanceAuditEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audits = append(p.audits, e)
	return nil
}

type fixture struct {
	store       *testutil.MemoryStore
	clock       *testutil.StubClock
	events      *recordingPublisher
	flights     *scheduling.FlightService
	maintenance *scheduling.MaintenanceService
	fleet       *scheduling.FleetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemoryStore().SeedReference()
	store.AddAircraft(model.Aircraft{ID: "ac-hdv", RegistrationNumber: "EI-HDV", Type: model.AircraftTypeA320, Status: model.AircraftOperational})
	store.AddAircraft(model.Aircraft{ID: "ac-lfy", RegistrationNumber: "HA-LFY", Type: model.AircraftTypeA320, Status: model.AircraftRetired})
	store.AddAircraft(model.Aircraft{ID: "ac-bma", RegistrationNumber: "YR-BMA", Type: model.AircraftTypeB737, Status: model.AircraftOperational})
	store.AddAircraft(model.Aircraft{ID: "ac-qaa", RegistrationNumber: "9H-QAA", Type: model.AircraftTypeA340, Status: model.AircraftOperational})
	store.AddUser(model.User{ID: "u-eng", Username: "jdoe", Role: model.RoleEngineer, IsActive: true})
	store.AddUser(model.User{ID: "u-eng2", Username: "asmith", Role: model.RoleEngineer, IsActive: true})

	clock := testutil.FixedClock()
	events := &recordingPublisher{}
	deps := scheduling.Deps{
		UnitOfWork: store,
		Clock:      clock,
		IDs:        testutil.NewStubIDGenerator(),
		Events:     events,
	}
	return &fixture{
		store:       store,
		clock:       clock,
		events:      events,
		flights:     scheduling.NewFlightService(deps),
		maintenance: scheduling.NewMaintenanceService(deps),
		fleet:       scheduling.NewFleetService(deps),
	}
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }
