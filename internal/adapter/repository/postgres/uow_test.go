package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/repo_interfaces"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWorkCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(int64(1), "60.00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uow := NewUnitOfWork(db)
	err = uow.Do(context.Background(), func(s repo_interfaces.Stores) error {
		return s.Accounts().UpdateBalance(context.Background(), 1, decimal.RequireFromString("60.00"))
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := NewUnitOfWork(db)
	boom := errors.New("boom")
	err = uow.Do(context.Background(), func(s repo_interfaces.Stores) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWorkTranslatesCommitSerializationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	uow := NewUnitOfWork(db)
	err = uow.Do(context.Background(), func(s repo_interfaces.Stores) error {
		return nil
	})

	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateErrorMapsDeadlockToConflict(t *testing.T) {
	err := translateError(&pq.Error{Code: "40P01"})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}
