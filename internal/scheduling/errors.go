package scheduling

import (
	"errors"
	"fmt"
)

// Kind identifies why a scheduling request was rejected.  The set is closed:
// every Kind in Kinds has exactly one HTTP mapping at the boundary.
type Kind string

const (
	KindInvalidTimeInterval                     Kind = "InvalidTimeInterval"
	KindInvalidFlightEndpoints                  Kind = "InvalidFlightEndpoints"
	KindFlightNumberAlreadyExists               Kind = "FlightNumberAlreadyExists"
	KindAircraftNotFound                        Kind = "AircraftNotFound"
	KindAircraftNotOperational                  Kind = "AircraftNotOperational"
	KindAircraftUnreachable                     Kind = "AircraftUnreachable"
	KindOverlapConflict                         Kind = "OverlapConflict"
	KindRangeExceeded                           Kind = "RangeExceeded"
	KindAircraftTypeProfileNotFound             Kind = "AircraftTypeProfileNotFound"
	KindEngineerNotFound                        Kind = "EngineerNotFound"
	KindUsernameAlreadyExists                   Kind = "UsernameAlreadyExists"
	KindAircraftRegistrationNumberAlreadyExists Kind = "AircraftRegistrationNumberAlreadyExists"
	KindAirportNotFound                         Kind = "AirportNotFound"
	KindValidationFailed                        Kind = "ValidationFailed"
	KindFlightNotFound                          Kind = "FlightNotFound"
	KindMaintenanceRecordNotFound               Kind = "MaintenanceRecordNotFound"
	KindUserNotFound                            Kind = "UserNotFound"
)

// Kinds lists every rejection kind.
var Kinds = []Kind{
	KindInvalidTimeInterval,
	KindInvalidFlightEndpoints,
	KindFlightNumberAlreadyExists,
	KindAircraftNotFound,
	KindAircraftNotOperational,
	KindAircraftUnreachable,
	KindOverlapConflict,
	KindRangeExceeded,
	KindAircraftTypeProfileNotFound,
	KindEngineerNotFound,
	KindUsernameAlreadyExists,
	KindAircraftRegistrationNumberAlreadyExists,
	KindAirportNotFound,
	KindValidationFailed,
	KindFlightNotFound,
	KindMaintenanceRecordNotFound,
	KindUserNotFound,
}

// Error is a business-rule rejection of an otherwise well-formed request.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

// Reject builds an *Error of the given kind.
func Reject(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the rejection kind carried by err, looking through wraps.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a rejection of kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
