// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "fmt"
    "time"

    "github.com/iliyamo/fleet-scheduling/internal/model"
)

// Queue names.  Both are durable and fed through the default exchange.
const (
    FlightQueue = "flight.scheduled"
    AuditQueue  = "maintenance.audit"
)

// FlightChangedEvent is published after a flight is created, updated or
// deleted.  It carries enough of the flight for downstream consumers to
// notify crews without querying the primary database.
type FlightChangedEvent struct {
    Action           model.AuditAction `json:"action"`
    FlightID         string            `json:"flight_id"`
    FlightNumber     string            `json:"flight_number"`
    Aircraft         string            `json:"aircraft"`
    DepartureAirport string            `json:"departure_airport"`
    ArrivalAirport   string            `json:"arrival_airport"`
    DepartureTime    string            `json:"departure_time"`
    ArrivalTime      string            `json:"arrival_time"`
    OccurredAt       string            `json:"occurred_at"`
}

func NewFlightChangedEvent(action model.AuditAction, f model.FlightView, at time.Time) FlightChangedEvent {
    return FlightChangedEvent{
        Action:           action,
        FlightID:         f.ID,
        FlightNumber:     f.FlightNumber,
        Aircraft:         f.AircraftRegistration,
        DepartureAirport: f.DepartureAirport,
        ArrivalAirport:   f.ArrivalAirport,
        DepartureTime:    f.DepartureTime.UTC().Format(time.RFC3339),
        ArrivalTime:      f.ArrivalTime.UTC().Format(time.RFC3339),
        OccurredAt:       at.UTC().Format(time.RFC3339),
    }
}

// Line renders the event as one line of the flight log.
func (ev FlightChangedEvent) Line() string {
    return fmt.Sprintf("[%s] Flight %s | flight=%s | aircraft=%s | route=%s-%s | departs=%s | arrives=%s",
        ev.OccurredAt, ev.Action, ev.FlightNumber, ev.Aircraft, ev.DepartureAirport, ev.ArrivalAirport, ev.DepartureTime, ev.ArrivalTime)
}

// MaintenanceAuditEvent mirrors one maintenance audit entry.  Line is the
// rendered audit log line; consumers append it verbatim.
type MaintenanceAuditEvent struct {
    EntryID             string            `json:"entry_id"`
    Action              model.AuditAction `json:"action"`
    MaintenanceRecordID string            `json:"maintenance_record_id"`
    Aircraft            string            `json:"aircraft"`
    PerformedBy         string            `json:"performed_by"`
    RecordedAt          string            `json:"recorded_at"`
    Changes             string            `json:"changes,omitempty"`
    Line                string            `json:"line"`
}

func NewMaintenanceAuditEvent(e model.MaintenanceAuditEntry) MaintenanceAuditEvent {
    return MaintenanceAuditEvent{
        EntryID:             e.ID,
        Action:              e.Action,
        MaintenanceRecordID: e.MaintenanceRecordID,
        Aircraft:            e.AircraftRegistration,
        PerformedBy:         e.PerformedBy,
        RecordedAt:          e.RecordedAt.UTC().Format(time.RFC3339),
        Changes:             e.Changes,
        Line:                e.String(),
    }
}
