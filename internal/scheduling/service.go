package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// ErrDuplicate is wrapped by stores when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// errStaleAircraft signals that a record moved to another aircraft between
// the unlocked read and the locked one.
var errStaleAircraft = errors.New("record changed aircraft while locking")

const maxLockAttempts = 3

// Deps wires the collaborators shared by the scheduling services.  Only
// UnitOfWork is mandatory.
type Deps struct {
	UnitOfWork       UnitOfWork
	Clock            Clock
	IDs              IDGenerator
	Events           EventPublisher
	Recorder         Recorder
	Logger           *slog.Logger
	ContinuityWindow time.Duration

	// TurnaroundAllowance is added to estimated arrivals; zero means
	// DefaultTurnaroundAllowance.
	TurnaroundAllowance time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.UnitOfWork == nil {
		panic("scheduling: nil UnitOfWork")
	}
	if d.Clock == nil {
		d.Clock = RealClock{}
	}
	if d.IDs == nil {
		panic("scheduling: nil IDGenerator")
	}
	if d.Events == nil {
		d.Events = nopPublisher{}
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// observe records a failed operation and returns err unchanged.
func (d Deps) observe(entity string, err error) error {
	if kind, ok := KindOf(err); ok {
		d.Recorder.Rejected(entity, kind)
		d.Logger.Info("schedule change rejected", "entity", entity, "kind", kind, "reason", err.Error())
		return err
	}
	d.Logger.Error("schedule change failed", "entity", entity, "err", err)
	return err
}

// auditCommitted counts and publishes a maintenance audit entry once its
// transaction has committed.
func (d Deps) auditCommitted(ctx context.Context, e model.MaintenanceAuditEntry) {
	d.Recorder.Mutated("maintenance", e.Action)
	if err := d.Events.PublishMaintenanceAudit(ctx, e); err != nil {
		d.Logger.Warn("publish maintenance audit failed", "record", e.MaintenanceRecordID, "err", err)
	}
}

// lockKeys drops empty and repeated registrations and sorts the rest so
// that every caller acquires locks in the same order.
func lockKeys(regs ...string) []string {
	seen := make(map[string]bool, len(regs))
	out := make([]string, 0, len(regs))
	for _, r := range regs {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
