// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the scheduling services to distinguish between different
// failure scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as removing a user who is still the
// engineer on maintenance records.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned when a username is already taken.
var ErrUsernameExists = fmt.Errorf("username already exists: %w", scheduling.ErrDuplicate)

// ErrRegistrationExists is returned when an aircraft registration is taken.
var ErrRegistrationExists = fmt.Errorf("registration number already exists: %w", scheduling.ErrDuplicate)

var errFlightNumberTaken = fmt.Errorf("flight number already exists: %w", scheduling.ErrDuplicate)

// MySQL error numbers the repositories translate.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func isReferenced(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlRowIsReferenced
}
