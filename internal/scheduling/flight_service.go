package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/fleet-scheduling/internal/model"
)

// FlightInput carries every field of a flight as supplied by a client.
type FlightInput struct {
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Aircraft         string
}

// FlightPatch holds optional replacements for an existing flight.
type FlightPatch struct {
	FlightNumber     *string
	DepartureAirport *string
	ArrivalAirport   *string
	DepartureTime    *time.Time
	ArrivalTime      *time.Time
	Aircraft         *string
}

func (in FlightInput) candidate() FlightCandidate {
	return FlightCandidate{
		FlightNumber:     Normalize(in.FlightNumber),
		DepartureAirport: Normalize(in.DepartureAirport),
		ArrivalAirport:   Normalize(in.ArrivalAirport),
		DepartureTime:    normalizeTime(in.DepartureTime),
		ArrivalTime:      normalizeTime(in.ArrivalTime),
		Aircraft:         Normalize(in.Aircraft),
	}
}

func (p FlightPatch) apply(c FlightCandidate) FlightCandidate {
	if p.FlightNumber != nil {
		c.FlightNumber = Normalize(*p.FlightNumber)
	}
	if p.DepartureAirport != nil {
		c.DepartureAirport = Normalize(*p.DepartureAirport)
	}
	if p.ArrivalAirport != nil {
		c.ArrivalAirport = Normalize(*p.ArrivalAirport)
	}
	if p.DepartureTime != nil {
		c.DepartureTime = normalizeTime(*p.DepartureTime)
	}
	if p.ArrivalTime != nil {
		c.ArrivalTime = normalizeTime(*p.ArrivalTime)
	}
	if p.Aircraft != nil {
		c.Aircraft = Normalize(*p.Aircraft)
	}
	return c
}

// FlightService creates, updates and deletes flights.  Every accepted
// change runs the full FlightPipeline inside a per-aircraft unit of work.
type FlightService struct {
	deps     Deps
	pipeline FlightPipeline
}

func NewFlightService(d Deps) *FlightService {
	d = d.withDefaults()
	return &FlightService{
		deps: d,
		pipeline: FlightPipeline{
			Clock:      d.Clock,
			Continuity: ContinuityChecker{Window: d.ContinuityWindow},
		},
	}
}

func (s *FlightService) Create(ctx context.Context, in FlightInput) (model.FlightView, error) {
	c := in.candidate()
	if err := c.checkFormat(); err != nil {
		return model.FlightView{}, s.deps.observe("flight", err)
	}
	var out model.FlightView
	err := s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(c.Aircraft), func(ctx context.Context, st Stores) error {
		ac, err := s.pipeline.Validate(ctx, st, c, nil)
		if err != nil {
			return err
		}
		now := s.deps.Clock.Now().UTC()
		f := model.Flight{
			ID:               s.deps.IDs.New(),
			FlightNumber:     c.FlightNumber,
			DepartureAirport: c.DepartureAirport,
			ArrivalAirport:   c.ArrivalAirport,
			DepartureTime:    c.DepartureTime,
			ArrivalTime:      c.ArrivalTime,
			AircraftID:       ac.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := st.Flights.InsertFlight(ctx, f); err != nil {
			return s.writeErr(c, err)
		}
		out = model.FlightView{Flight: f, AircraftRegistration: ac.RegistrationNumber}
		return nil
	})
	if err != nil {
		return model.FlightView{}, s.deps.observe("flight", err)
	}
	s.committed(ctx, model.AuditCreated, out)
	return out, nil
}

// Update applies patch to the flight and re-validates the result in full.
func (s *FlightService) Update(ctx context.Context, id string, patch FlightPatch) (model.FlightView, error) {
	var (
		out model.FlightView
		err error
	)
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		out, err = s.update(ctx, id, patch)
		if !errors.Is(err, errStaleAircraft) {
			break
		}
	}
	if err != nil {
		return model.FlightView{}, s.deps.observe("flight", err)
	}
	s.committed(ctx, model.AuditUpdated, out)
	return out, nil
}

func (s *FlightService) update(ctx context.Context, id string, patch FlightPatch) (model.FlightView, error) {
	_, oldReg, err := s.current(ctx, id)
	if err != nil {
		return model.FlightView{}, err
	}
	newReg := oldReg
	if patch.Aircraft != nil {
		newReg = Normalize(*patch.Aircraft)
	}

	var out model.FlightView
	err = s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(oldReg, newReg), func(ctx context.Context, st Stores) error {
		cur, ok, err := st.Flights.FlightByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load flight %s: %w", id, err)
		}
		if !ok {
			return Reject(KindFlightNotFound, "flight %s not found", id)
		}
		curAc, ok, err := st.Aircraft.AircraftByID(ctx, cur.AircraftID)
		if err != nil {
			return fmt.Errorf("load aircraft %s: %w", cur.AircraftID, err)
		}
		if !ok || curAc.RegistrationNumber != oldReg {
			return errStaleAircraft
		}

		c := patch.apply(FlightCandidate{
			ID:               cur.ID,
			FlightNumber:     cur.FlightNumber,
			DepartureAirport: cur.DepartureAirport,
			ArrivalAirport:   cur.ArrivalAirport,
			DepartureTime:    cur.DepartureTime,
			ArrivalTime:      cur.ArrivalTime,
			Aircraft:         oldReg,
		})
		if err := c.checkFormat(); err != nil {
			return err
		}
		ac, err := s.pipeline.Validate(ctx, st, c, &cur)
		if err != nil {
			return err
		}
		f := cur
		f.FlightNumber = c.FlightNumber
		f.DepartureAirport = c.DepartureAirport
		f.ArrivalAirport = c.ArrivalAirport
		f.DepartureTime = c.DepartureTime
		f.ArrivalTime = c.ArrivalTime
		f.AircraftID = ac.ID
		f.UpdatedAt = s.deps.Clock.Now().UTC()
		if err := st.Flights.UpdateFlight(ctx, f); err != nil {
			return s.writeErr(c, err)
		}
		out = model.FlightView{Flight: f, AircraftRegistration: ac.RegistrationNumber}
		return nil
	})
	return out, err
}

// Delete removes the flight.  Deleting an unknown flight is a no-op.
func (s *FlightService) Delete(ctx context.Context, id string) error {
	cur, reg, err := s.current(ctx, id)
	if IsKind(err, KindFlightNotFound) {
		return nil
	}
	if err != nil {
		return s.deps.observe("flight", err)
	}
	err = s.deps.UnitOfWork.WithinAircraft(ctx, lockKeys(reg), func(ctx context.Context, st Stores) error {
		return st.Flights.DeleteFlight(ctx, id)
	})
	if err != nil {
		return s.deps.observe("flight", fmt.Errorf("delete flight %s: %w", id, err))
	}
	s.committed(ctx, model.AuditDeleted, model.FlightView{Flight: cur, AircraftRegistration: reg})
	return nil
}

// current reads the flight and its aircraft registration without locking.
func (s *FlightService) current(ctx context.Context, id string) (model.Flight, string, error) {
	var (
		f   model.Flight
		reg string
	)
	err := s.deps.UnitOfWork.View(ctx, func(ctx context.Context, st Stores) error {
		var ok bool
		var err error
		f, ok, err = st.Flights.FlightByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load flight %s: %w", id, err)
		}
		if !ok {
			return Reject(KindFlightNotFound, "flight %s not found", id)
		}
		ac, ok, err := st.Aircraft.AircraftByID(ctx, f.AircraftID)
		if err != nil {
			return fmt.Errorf("load aircraft %s: %w", f.AircraftID, err)
		}
		if ok {
			reg = ac.RegistrationNumber
		}
		return nil
	})
	return f, reg, err
}

// writeErr maps a unique-key race on flight_number to its rejection.
func (s *FlightService) writeErr(c FlightCandidate, err error) error {
	if errors.Is(err, ErrDuplicate) {
		return Reject(KindFlightNumberAlreadyExists, "flight number %s already exists", c.FlightNumber)
	}
	return fmt.Errorf("write flight: %w", err)
}

func (s *FlightService) committed(ctx context.Context, action model.AuditAction, f model.FlightView) {
	s.deps.Recorder.Mutated("flight", action)
	if err := s.deps.Events.PublishFlightChange(ctx, action, f); err != nil {
		s.deps.Logger.Warn("publish flight change failed", "flight", f.FlightNumber, "err", err)
	}
}

// EstimateArrival predicts when a flight would land without scheduling it.
func (s *FlightService) EstimateArrival(ctx context.Context, from, to string, t model.AircraftType, departure time.Time) (time.Time, error) {
	from, to = Normalize(from), Normalize(to)
	if !ValidIATA(from) || !ValidIATA(to) {
		return time.Time{}, Reject(KindValidationFailed, "airports must be IATA codes")
	}
	var arrival time.Time
	err := s.deps.UnitOfWork.View(ctx, func(ctx context.Context, st Stores) error {
		var err error
		arrival, err = ArrivalEstimator{Profiles: st.Profiles, Airports: st.Airports, Allowance: s.deps.TurnaroundAllowance}.Estimate(ctx, from, to, t, normalizeTime(departure))
		return err
	})
	return arrival, err
}

// EstimateArrivalForAircraft resolves the aircraft's type first.
func (s *FlightService) EstimateArrivalForAircraft(ctx context.Context, from, to, registration string, departure time.Time) (time.Time, error) {
	var t model.AircraftType
	err := s.deps.UnitOfWork.View(ctx, func(ctx context.Context, st Stores) error {
		ac, ok, err := st.Aircraft.AircraftByRegistration(ctx, Normalize(registration))
		if err != nil {
			return fmt.Errorf("load aircraft %s: %w", registration, err)
		}
		if !ok {
			return Reject(KindAircraftNotFound, "aircraft %s not found", registration)
		}
		t = ac.Type
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return s.EstimateArrival(ctx, from, to, t, departure)
}
