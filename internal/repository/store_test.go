package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

const lockQuery = `SELECT id FROM aircraft WHERE registration_number IN \(\?,\?\)\s+ORDER BY registration_number FOR UPDATE`

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), mock
}

func TestWithinAircraftLocksBeforeWriting(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs("EI-HDV", "YR-BMA").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ac-hdv").AddRow("ac-bma"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM maintenance_records WHERE id = ?`)).
		WithArgs("mr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithinAircraft(context.Background(), []string{"EI-HDV", "YR-BMA"}, func(ctx context.Context, st scheduling.Stores) error {
		return st.Maintenance.DeleteMaintenance(ctx, "mr-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinAircraftRollsBackOnRejection(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs("EI-HDV", "YR-BMA").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ac-hdv"))
	mock.ExpectRollback()

	err := s.WithinAircraft(context.Background(), []string{"EI-HDV", "YR-BMA"}, func(context.Context, scheduling.Stores) error {
		return scheduling.Reject(scheduling.KindOverlapConflict, "EI154 overlaps EI152")
	})
	assert.True(t, scheduling.IsKind(err, scheduling.KindOverlapConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinAircraftSkipsWorkWhenLockFails(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs("EI-HDV", "YR-BMA").
		WillReturnError(errors.New("Lock wait timeout exceeded"))
	mock.ExpectRollback()

	called := false
	err := s.WithinAircraft(context.Background(), []string{"EI-HDV", "YR-BMA"}, func(context.Context, scheduling.Stores) error {
		called = true
		return nil
	})
	assert.ErrorContains(t, err, "lock aircraft")
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinAircraftWithoutRegistrationsTakesNoLock(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := s.WithinAircraft(context.Background(), nil, func(context.Context, scheduling.Stores) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAircraftReportsRemainingMaintenance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM aircraft WHERE id = ?`)).
		WithArgs("ac-hdv").
		WillReturnError(&mysql.MySQLError{Number: mysqlRowIsReferenced, Message: "Cannot delete or update a parent row"})

	err = NewAircraftRepo(db).DeleteAircraft(context.Background(), "ac-hdv")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
