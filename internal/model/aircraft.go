package model

import "time"

// AircraftType enumerates the airframes the fleet operates.  Each type has
// exactly one AircraftTypeProfile row describing its performance.
type AircraftType string

const (
    AircraftTypeA320 AircraftType = "A320"
    AircraftTypeA340 AircraftType = "A340"
    AircraftTypeB737 AircraftType = "B737"
)

// AircraftTypes lists every known type in display order.
var AircraftTypes = []AircraftType{AircraftTypeA320, AircraftTypeA340, AircraftTypeB737}

// Valid reports whether t is one of the known aircraft types.
func (t AircraftType) Valid() bool {
    for _, k := range AircraftTypes {
        if k == t {
            return true
        }
    }
    return false
}

// AircraftStatus is the operational state of an airframe.
type AircraftStatus string

const (
    AircraftOperational   AircraftStatus = "OPERATIONAL"
    AircraftInMaintenance AircraftStatus = "IN_MAINTENANCE"
    AircraftRetired       AircraftStatus = "RETIRED"
)

// AircraftStatuses lists every status in display order.
var AircraftStatuses = []AircraftStatus{AircraftOperational, AircraftInMaintenance, AircraftRetired}

func (s AircraftStatus) Valid() bool {
    for _, k := range AircraftStatuses {
        if k == s {
            return true
        }
    }
    return false
}

// Aircraft represents a row in the `aircraft` table.  Flights and
// maintenance records reference an aircraft but never own it.
//
// Fields:
//  ID                 – primary key (UUID string).
//  RegistrationNumber – unique tail number, e.g. EI-HDV.
//  Type               – airframe type, keys into aircraft_type_profiles.
//  Status             – OPERATIONAL, IN_MAINTENANCE or RETIRED.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Aircraft struct {
    ID                 string         `json:"id"`                  // aircraft.id
    RegistrationNumber string         `json:"registration_number"` // aircraft.registration_number
    Type               AircraftType   `json:"type"`                // aircraft.type
    Status             AircraftStatus `json:"status"`              // aircraft.status
    CreatedAt          time.Time      `json:"created_at"`          // aircraft.created_at
    UpdatedAt          time.Time      `json:"updated_at"`          // aircraft.updated_at
}

// AircraftTypeProfile is read-only reference data keyed by aircraft type.
type AircraftTypeProfile struct {
    Type               AircraftType `json:"type"`                 // aircraft_type_profiles.aircraft_type
    CruisingSpeedKnots int          `json:"cruising_speed_knots"` // aircraft_type_profiles.cruising_speed_knots
    CruisingRangeMiles int          `json:"cruising_range_miles"` // aircraft_type_profiles.cruising_range_miles
}
