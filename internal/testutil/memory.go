package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
	"github.com/iliyamo/fleet-scheduling/internal/repository"
	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// MemoryStore is an in-memory implementation of every scheduling port.
// WithinAircraft serializes work per registration number and undoes the
// writes of a failed unit.
type MemoryStore struct {
	mu          sync.Mutex
	aircraft    map[string]model.Aircraft
	profiles    map[model.AircraftType]model.AircraftTypeProfile
	airports    map[string]model.Airport
	flights     map[string]model.Flight
	maintenance map[string]model.MaintenanceRecord
	users       map[string]model.User
	audit       []model.MaintenanceAuditEntry

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// AuditErr, when set, is returned by every AppendAudit call.
	AuditErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		aircraft:    map[string]model.Aircraft{},
		profiles:    map[model.AircraftType]model.AircraftTypeProfile{},
		airports:    map[string]model.Airport{},
		flights:     map[string]model.Flight{},
		maintenance: map[string]model.MaintenanceRecord{},
		users:       map[string]model.User{},
		locks:       map[string]*sync.Mutex{},
	}
}

// SeedReference loads the type profiles and airports used across tests.
func (m *MemoryStore) SeedReference() *MemoryStore {
	m.AddProfile(model.AircraftTypeProfile{Type: model.AircraftTypeA320, CruisingSpeedKnots: 450, CruisingRangeMiles: 3300})
	m.AddProfile(model.AircraftTypeProfile{Type: model.AircraftTypeA340, CruisingSpeedKnots: 490, CruisingRangeMiles: 7400})
	m.AddProfile(model.AircraftTypeProfile{Type: model.AircraftTypeB737, CruisingSpeedKnots: 453, CruisingRangeMiles: 3000})
	for _, a := range []model.Airport{
		{IATACode: "LHR", Name: "London Heathrow", LatitudeDeg: 51.4700, LongitudeDeg: -0.4543},
		{IATACode: "JFK", Name: "John F Kennedy International", LatitudeDeg: 40.6413, LongitudeDeg: -73.7781},
		{IATACode: "DUB", Name: "Dublin", LatitudeDeg: 53.4213, LongitudeDeg: -6.2701},
		{IATACode: "OTP", Name: "Henri Coanda International", LatitudeDeg: 44.5711, LongitudeDeg: 26.0850},
		{IATACode: "CDG", Name: "Paris Charles de Gaulle", LatitudeDeg: 49.0097, LongitudeDeg: 2.5479},
		{IATACode: "SYD", Name: "Sydney Kingsford Smith", LatitudeDeg: -33.9399, LongitudeDeg: 151.1753},
	} {
		m.AddAirport(a)
	}
	return m
}

func (m *MemoryStore) AddAircraft(a model.Aircraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aircraft[a.ID] = a
}

func (m *MemoryStore) AddProfile(p model.AircraftTypeProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.Type] = p
}

func (m *MemoryStore) RemoveProfile(t model.AircraftType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, t)
}

func (m *MemoryStore) AddAirport(a model.Airport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.airports[a.IATACode] = a
}

func (m *MemoryStore) AddUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MemoryStore) AddFlight(f model.Flight) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flights[f.ID] = f
}

func (m *MemoryStore) AddMaintenance(r model.MaintenanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maintenance[r.ID] = r
}

// Flights returns all flights ordered by departure.
func (m *MemoryStore) Flights() []model.Flight {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Flight, 0, len(m.flights))
	for _, f := range m.flights {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out
}

// MaintenanceRecords returns all records ordered by start date.
func (m *MemoryStore) MaintenanceRecords() []model.MaintenanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.MaintenanceRecord, 0, len(m.maintenance))
	for _, r := range m.maintenance {
		out = append(out, r)
	}
	sortMaintenance(out)
	return out
}

func sortMaintenance(rs []model.MaintenanceRecord) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].StartDate.Equal(rs[j].StartDate) {
			return rs[i].StartDate.Before(rs[j].StartDate)
		}
		return rs[i].ID < rs[j].ID
	})
}

// AuditEntries returns a copy of the audit log in append order.
func (m *MemoryStore) AuditEntries() []model.MaintenanceAuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MaintenanceAuditEntry(nil), m.audit...)
}

func (m *MemoryStore) lockFor(reg string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[reg]
	if !ok {
		l = &sync.Mutex{}
		m.locks[reg] = l
	}
	return l
}

func (m *MemoryStore) WithinAircraft(ctx context.Context, registrations []string, fn func(ctx context.Context, s scheduling.Stores) error) error {
	keys := append([]string(nil), registrations...)
	sort.Strings(keys)
	for _, k := range keys {
		l := m.lockFor(k)
		l.Lock()
		defer l.Unlock()
	}
	tx := &memTx{m: m}
	if err := fn(ctx, tx.stores()); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (m *MemoryStore) View(ctx context.Context, fn func(ctx context.Context, s scheduling.Stores) error) error {
	tx := &memTx{m: m}
	return fn(ctx, tx.stores())
}

// memTx journals undo steps for every write it performs.
type memTx struct {
	m    *MemoryStore
	undo []func()
}

func (t *memTx) stores() scheduling.Stores {
	return scheduling.Stores{
		Aircraft:    t,
		Profiles:    t,
		Airports:    t,
		Flights:     t,
		Maintenance: t,
		Users:       t,
		Audit:       t,
	}
}

func (t *memTx) rollback() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) AircraftByID(_ context.Context, id string) (model.Aircraft, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	a, ok := t.m.aircraft[id]
	return a, ok, nil
}

func (t *memTx) AircraftByRegistration(_ context.Context, reg string) (model.Aircraft, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, a := range t.m.aircraft {
		if a.RegistrationNumber == reg {
			return a, true, nil
		}
	}
	return model.Aircraft{}, false, nil
}

func (t *memTx) InsertAircraft(_ context.Context, a model.Aircraft) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, other := range t.m.aircraft {
		if other.RegistrationNumber == a.RegistrationNumber {
			return scheduling.ErrDuplicate
		}
	}
	t.m.aircraft[a.ID] = a
	t.undo = append(t.undo, func() { delete(t.m.aircraft, a.ID) })
	return nil
}

func (t *memTx) UpdateAircraft(_ context.Context, a model.Aircraft) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, other := range t.m.aircraft {
		if other.ID != a.ID && other.RegistrationNumber == a.RegistrationNumber {
			return scheduling.ErrDuplicate
		}
	}
	prev := t.m.aircraft[a.ID]
	t.m.aircraft[a.ID] = a
	t.undo = append(t.undo, func() { t.m.aircraft[a.ID] = prev })
	return nil
}

// DeleteAircraft cascades to flights and refuses while maintenance records
// remain, like the MySQL foreign keys do.
func (t *memTx) DeleteAircraft(_ context.Context, id string) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	prev, ok := t.m.aircraft[id]
	if !ok {
		return nil
	}
	for _, r := range t.m.maintenance {
		if r.AircraftID == id {
			return repository.ErrConflict
		}
	}
	delete(t.m.aircraft, id)
	t.undo = append(t.undo, func() { t.m.aircraft[id] = prev })
	for fid, f := range t.m.flights {
		if f.AircraftID == id {
			delete(t.m.flights, fid)
			t.undo = append(t.undo, func() { t.m.flights[f.ID] = f })
		}
	}
	return nil
}

func (t *memTx) ProfileByType(_ context.Context, ty model.AircraftType) (model.AircraftTypeProfile, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	p, ok := t.m.profiles[ty]
	return p, ok, nil
}

func (t *memTx) AirportByCode(_ context.Context, code string) (model.Airport, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	a, ok := t.m.airports[strings.ToUpper(code)]
	return a, ok, nil
}

func (t *memTx) UserByID(_ context.Context, id string) (model.User, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	u, ok := t.m.users[id]
	return u, ok, nil
}

func (t *memTx) FlightByID(_ context.Context, id string) (model.Flight, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	f, ok := t.m.flights[id]
	return f, ok, nil
}

func (t *memTx) FlightByNumber(_ context.Context, number string) (model.Flight, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, f := range t.m.flights {
		if f.FlightNumber == number {
			return f, true, nil
		}
	}
	return model.Flight{}, false, nil
}

func (t *memTx) FlightsOverlapping(_ context.Context, aircraftID string, start, end time.Time, excludeID string) ([]model.Flight, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	var out []model.Flight
	for _, f := range t.m.flights {
		if f.AircraftID != aircraftID || (excludeID != "" && f.ID == excludeID) {
			continue
		}
		if scheduling.Overlaps(f.DepartureTime, f.ArrivalTime, start, end) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (t *memTx) LastFlightArrivingBefore(_ context.Context, aircraftID string, before time.Time, excludeID string) (model.Flight, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	var (
		last  model.Flight
		found bool
	)
	for _, f := range t.m.flights {
		if f.AircraftID != aircraftID || (excludeID != "" && f.ID == excludeID) || !f.ArrivalTime.Before(before) {
			continue
		}
		if !found || f.ArrivalTime.After(last.ArrivalTime) {
			last, found = f, true
		}
	}
	return last, found, nil
}

func (t *memTx) InsertFlight(_ context.Context, f model.Flight) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, other := range t.m.flights {
		if other.FlightNumber == f.FlightNumber {
			return scheduling.ErrDuplicate
		}
	}
	t.m.flights[f.ID] = f
	t.undo = append(t.undo, func() { delete(t.m.flights, f.ID) })
	return nil
}

func (t *memTx) UpdateFlight(_ context.Context, f model.Flight) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	prev := t.m.flights[f.ID]
	t.m.flights[f.ID] = f
	t.undo = append(t.undo, func() { t.m.flights[f.ID] = prev })
	return nil
}

func (t *memTx) DeleteFlight(_ context.Context, id string) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	prev, ok := t.m.flights[id]
	if !ok {
		return nil
	}
	delete(t.m.flights, id)
	t.undo = append(t.undo, func() { t.m.flights[id] = prev })
	return nil
}

func (t *memTx) MaintenanceByID(_ context.Context, id string) (model.MaintenanceRecord, bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	r, ok := t.m.maintenance[id]
	return r, ok, nil
}

func (t *memTx) MaintenanceByAircraft(_ context.Context, aircraftID string) ([]model.MaintenanceRecord, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	var out []model.MaintenanceRecord
	for _, r := range t.m.maintenance {
		if r.AircraftID == aircraftID {
			out = append(out, r)
		}
	}
	sortMaintenance(out)
	return out, nil
}

func (t *memTx) MaintenanceOverlapping(_ context.Context, aircraftID string, start, end time.Time, excludeID string) ([]model.MaintenanceRecord, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	var out []model.MaintenanceRecord
	for _, r := range t.m.maintenance {
		if r.AircraftID != aircraftID || (excludeID != "" && r.ID == excludeID) {
			continue
		}
		if scheduling.Overlaps(r.StartDate, r.EndDate, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *memTx) InsertMaintenance(_ context.Context, r model.MaintenanceRecord) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.maintenance[r.ID] = r
	t.undo = append(t.undo, func() { delete(t.m.maintenance, r.ID) })
	return nil
}

func (t *memTx) UpdateMaintenance(_ context.Context, r model.MaintenanceRecord) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	prev := t.m.maintenance[r.ID]
	t.m.maintenance[r.ID] = r
	t.undo = append(t.undo, func() { t.m.maintenance[r.ID] = prev })
	return nil
}

func (t *memTx) DeleteMaintenance(_ context.Context, id string) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	prev, ok := t.m.maintenance[id]
	if !ok {
		return nil
	}
	delete(t.m.maintenance, id)
	t.undo = append(t.undo, func() { t.m.maintenance[id] = prev })
	return nil
}

func (t *memTx) AppendAudit(_ context.Context, e model.MaintenanceAuditEntry) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.m.AuditErr != nil {
		return t.m.AuditErr
	}
	t.m.audit = append(t.m.audit, e)
	n := len(t.m.audit)
	t.undo = append(t.undo, func() { t.m.audit = t.m.audit[:n-1] })
	return nil
}
