package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
	"github.com/iliyamo/fleet-scheduling/internal/repository"
)

// The read-side adapters below mirror the query methods of the MySQL
// repositories on top of a MemoryStore.

func (m *MemoryStore) registration(aircraftID string) string {
	return m.aircraft[aircraftID].RegistrationNumber
}

// FleetReader lists aircraft.
type FleetReader struct{ m *MemoryStore }

func (m *MemoryStore) FleetReader() FleetReader { return FleetReader{m} }

func (r FleetReader) List(context.Context) ([]model.Aircraft, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Aircraft, 0, len(r.m.aircraft))
	for _, a := range r.m.aircraft {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationNumber < out[j].RegistrationNumber })
	return out, nil
}

func (r FleetReader) AircraftByID(_ context.Context, id string) (model.Aircraft, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.aircraft[id]
	return a, ok, nil
}

// FlightViews joins flights with their aircraft registration.
type FlightViews struct{ m *MemoryStore }

func (m *MemoryStore) FlightViews() FlightViews { return FlightViews{m} }

func (r FlightViews) ListViews(_ context.Context, registration string) ([]model.FlightView, error) {
	out := []model.FlightView{}
	for _, f := range r.m.Flights() {
		r.m.mu.Lock()
		reg := r.m.registration(f.AircraftID)
		r.m.mu.Unlock()
		if registration != "" && reg != registration {
			continue
		}
		out = append(out, model.FlightView{Flight: f, AircraftRegistration: reg})
	}
	return out, nil
}

func (r FlightViews) ViewByID(_ context.Context, id string) (model.FlightView, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.flights[id]
	if !ok {
		return model.FlightView{}, repository.ErrNotFound
	}
	return model.FlightView{Flight: f, AircraftRegistration: r.m.registration(f.AircraftID)}, nil
}

// MaintenanceViews filters and sorts maintenance records.
type MaintenanceViews struct{ m *MemoryStore }

func (m *MemoryStore) MaintenanceViews() MaintenanceViews { return MaintenanceViews{m} }

func (r MaintenanceViews) view(rec model.MaintenanceRecord) model.MaintenanceView {
	return model.MaintenanceView{
		MaintenanceRecord:    rec,
		AircraftRegistration: r.m.registration(rec.AircraftID),
		EngineerUsername:     r.m.users[rec.EngineerID].Username,
	}
}

func (r MaintenanceViews) List(_ context.Context, f model.MaintenanceFilter) ([]model.MaintenanceView, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.MaintenanceView{}
	for _, rec := range r.m.maintenance {
		switch {
		case f.Status != "" && rec.Status != f.Status,
			f.Type != "" && rec.Type != f.Type,
			f.EngineerID != "" && rec.EngineerID != f.EngineerID,
			f.AircraftID != "" && rec.AircraftID != f.AircraftID:
			continue
		}
		out = append(out, r.view(rec))
	}
	less := func(a, b model.MaintenanceView) int {
		switch f.SortBy {
		case "end_date":
			return a.EndDate.Compare(b.EndDate)
		case "status":
			return strings.Compare(string(a.Status), string(b.Status))
		case "type":
			return strings.Compare(string(a.Type), string(b.Type))
		case "created_at":
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return a.StartDate.Compare(b.StartDate)
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if f.Direction == model.SortDesc {
			c = -c
		}
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		return c < 0
	})
	return out, nil
}

func (r MaintenanceViews) ViewByID(_ context.Context, id string) (model.MaintenanceView, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.maintenance[id]
	if !ok {
		return model.MaintenanceView{}, repository.ErrNotFound
	}
	return r.view(rec), nil
}

// AuditLog reads the audit entries newest first.
type AuditLog struct{ m *MemoryStore }

func (m *MemoryStore) AuditLog() AuditLog { return AuditLog{m} }

func (r AuditLog) List(_ context.Context, recordID string) ([]model.MaintenanceAuditEntry, error) {
	all := r.m.AuditEntries()
	out := []model.MaintenanceAuditEntry{}
	for i := len(all) - 1; i >= 0; i-- {
		if recordID == "" || all[i].MaintenanceRecordID == recordID {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Reference exposes airports and type profiles.
type Reference struct{ m *MemoryStore }

func (m *MemoryStore) Reference() Reference { return Reference{m} }

func (r Reference) AirportByCode(ctx context.Context, code string) (model.Airport, bool, error) {
	return (&memTx{m: r.m}).AirportByCode(ctx, code)
}

func (r Reference) ListCodes(context.Context) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	codes := make([]string, 0, len(r.m.airports))
	for c := range r.m.airports {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes, nil
}

func (r Reference) List(context.Context) ([]model.AircraftTypeProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.AircraftTypeProfile, 0, len(r.m.profiles))
	for _, p := range r.m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// Accounts is an in-memory user repository sharing the store's users.
type Accounts struct{ m *MemoryStore }

func (m *MemoryStore) Accounts() Accounts { return Accounts{m} }

func (r Accounts) Create(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.users {
		if other.Username == u.Username {
			return repository.ErrUsernameExists
		}
	}
	now := time.Now().UTC().Truncate(time.Second)
	u.CreatedAt, u.UpdatedAt = now, now
	r.m.users[u.ID] = *u
	return nil
}

func (r Accounts) GetByID(_ context.Context, id string) (model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r Accounts) GetByUsername(_ context.Context, username string) (model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r Accounts) List(_ context.Context, f model.UserFilter) ([]model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.User{}
	for _, u := range r.m.users {
		if f.Username != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(f.Username)) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.Direction == model.SortDesc {
			a, b = b, a
		}
		switch f.SortBy {
		case "role":
			if a.Role != b.Role {
				return a.Role < b.Role
			}
		case "created_at":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.Username < b.Username
	})
	return out, nil
}

func (r Accounts) Update(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	prev, ok := r.m.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range r.m.users {
		if other.ID != u.ID && other.Username == u.Username {
			return repository.ErrUsernameExists
		}
	}
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	r.m.users[u.ID] = *u
	return nil
}

// Delete refuses users still assigned to maintenance records, like the
// MySQL foreign key does.
func (r Accounts) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return repository.ErrNotFound
	}
	for _, rec := range r.m.maintenance {
		if rec.EngineerID == id {
			return repository.ErrConflict
		}
	}
	delete(r.m.users, id)
	return nil
}

// MemoryTokens is an in-memory refresh token store.
type MemoryTokens struct {
	mu     sync.Mutex
	tokens map[string]memToken
}

type memToken struct {
	userID  string
	exp     time.Time
	revoked bool
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{tokens: map[string]memToken{}}
}

func (t *MemoryTokens) StoreRefresh(_ context.Context, userID, hash string, exp time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[hash] = memToken{userID: userID, exp: exp}
	return nil
}

func (t *MemoryTokens) ValidateRefresh(_ context.Context, hash string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tok, ok := t.tokens[hash]
	if !ok || tok.revoked || time.Now().UTC().After(tok.exp) {
		return "", repository.ErrTokenInvalid
	}
	return tok.userID, nil
}

func (t *MemoryTokens) RevokeByHash(_ context.Context, hash string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok, ok := t.tokens[hash]; ok {
		tok.revoked = true
		t.tokens[hash] = tok
	}
	return nil
}

func (t *MemoryTokens) RevokeAllForUser(_ context.Context, userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for h, tok := range t.tokens {
		if tok.userID == userID {
			tok.revoked = true
			t.tokens[h] = tok
		}
	}
	return nil
}
