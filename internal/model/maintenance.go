package model

import (
    "fmt"
    "strings"
    "time"
)

type MaintenanceType string

const (
    MaintenanceRoutine  MaintenanceType = "ROUTINE"
    MaintenanceRepair   MaintenanceType = "REPAIR"
    MaintenanceOverhaul MaintenanceType = "OVERHAUL"
    MaintenanceIncident MaintenanceType = "INCIDENT"
)

var MaintenanceTypes = []MaintenanceType{MaintenanceRoutine, MaintenanceRepair, MaintenanceOverhaul, MaintenanceIncident}

func (t MaintenanceType) Valid() bool {
    for _, k := range MaintenanceTypes {
        if k == t {
            return true
        }
    }
    return false
}

type MaintenanceStatus string

const (
    MaintenancePending    MaintenanceStatus = "PENDING"
    MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
    MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
    MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
)

var MaintenanceStatuses = []MaintenanceStatus{MaintenancePending, MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted}

func (s MaintenanceStatus) Valid() bool {
    for _, k := range MaintenanceStatuses {
        if k == s {
            return true
        }
    }
    return false
}

// MaintenanceRecord represents a row in the `maintenance_records` table.
// No two records of one aircraft may have overlapping [StartDate, EndDate]
// windows.
//
// Fields:
//  ID         – primary key (UUID string).
//  AircraftID – aircraft under maintenance.
//  EngineerID – user responsible for the work.
//  Type       – ROUTINE, REPAIR, OVERHAUL or INCIDENT.
//  StartDate  – window start (inclusive).
//  EndDate    – window end (inclusive).
//  Status     – PENDING, SCHEDULED, IN_PROGRESS or COMPLETED.
type MaintenanceRecord struct {
    ID         string            `json:"id"`          // maintenance_records.id
    AircraftID string            `json:"aircraft_id"` // maintenance_records.aircraft_id
    EngineerID string            `json:"engineer_id"` // maintenance_records.engineer_id
    Type       MaintenanceType   `json:"type"`        // maintenance_records.type
    StartDate  time.Time         `json:"start_date"`  // maintenance_records.start_date
    EndDate    time.Time         `json:"end_date"`    // maintenance_records.end_date
    Status     MaintenanceStatus `json:"status"`      // maintenance_records.status
    CreatedAt  time.Time         `json:"created_at"`  // maintenance_records.created_at
    UpdatedAt  time.Time         `json:"updated_at"`  // maintenance_records.updated_at
}

// MaintenanceView adds the human-facing references clients work with.
type MaintenanceView struct {
    MaintenanceRecord
    AircraftRegistration string `json:"aircraft"`
    EngineerUsername     string `json:"engineer"`
}

// AuditAction is the kind of mutation an audit entry records.
type AuditAction string

const (
    AuditCreated AuditAction = "CREATED"
    AuditUpdated AuditAction = "UPDATED"
    AuditDeleted AuditAction = "DELETED"
)

// MaintenanceAuditEntry is an append-only row of `maintenance_audit_entries`.
// AircraftRegistration and PerformedBy are snapshots taken at write time and
// are not foreign keys.
type MaintenanceAuditEntry struct {
    ID                   string      `json:"id"`
    Action               AuditAction `json:"action"`
    MaintenanceRecordID  string      `json:"maintenance_record_id"`
    AircraftRegistration string      `json:"aircraft"`
    PerformedBy          string      `json:"performed_by"`
    RecordedAt           time.Time   `json:"recorded_at"`
    Changes              string      `json:"changes"`
}

// AuditTimeLayout is the timestamp layout used by audit log lines.
const AuditTimeLayout = "2006-01-02 15:04:05"

// String renders the entry as a single audit log line.
func (e MaintenanceAuditEntry) String() string {
    var b strings.Builder
    fmt.Fprintf(&b, "%s -- [%s] By %s on aircraft %s",
        e.RecordedAt.UTC().Format(AuditTimeLayout), e.Action, e.PerformedBy, e.AircraftRegistration)
    if e.Changes != "" {
        b.WriteString(" | Changes: ")
        b.WriteString(e.Changes)
    }
    return b.String()
}

// SortDirection is ASC or DESC.
type SortDirection string

const (
    SortAsc  SortDirection = "ASC"
    SortDesc SortDirection = "DESC"
)

// MaintenanceFilter narrows and orders maintenance listings.  Empty fields
// do not constrain the result.  SortBy must be one of MaintenanceSortFields.
type MaintenanceFilter struct {
    Status     MaintenanceStatus
    Type       MaintenanceType
    EngineerID string
    AircraftID string
    SortBy     string
    Direction  SortDirection
}

// MaintenanceSortFields maps accepted sort keys to column names.
var MaintenanceSortFields = map[string]string{
    "start_date": "m.start_date",
    "end_date":   "m.end_date",
    "status":     "m.status",
    "type":       "m.type",
    "created_at": "m.created_at",
}
