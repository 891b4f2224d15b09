package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/models"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testLimits = services.RetryLimits{Reference: 5, Conflict: 3}

func newDepositService(store *fakeStore) *services.DepositService {
	guard := services.NewAccessGuard(services.NewBcryptPinVerifier())
	return services.NewDepositService(&fakeUnitOfWork{store: store}, guard, testLimits)
}

func TestDepositCreditsBalanceAndWritesLedgerRow(t *testing.T) {
	store := newFakeStore()
	account := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		AccountType:   domain.AccountTypeSavings,
		Balance:       decimal.RequireFromString("100.00"),
		Active:        true,
	})

	svc := newDepositService(store)
	resp, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: account.AccountNumber,
		Amount:        decimal.RequireFromString("25.50"),
		DepositSource: "BANK_TRANSFER",
		Notes:         "payday",
	}, domain.Identity{UserID: 7})

	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "125.5", store.balanceOf(account.ID).String())

	rows := store.ledgerRows()
	require.Len(t, rows, 1)
	require.Equal(t, domain.TransactionTypeDeposit, rows[0].TransactionType)
	require.Equal(t, domain.TransactionDirectionCredit, rows[0].Direction)
	require.Equal(t, "Deposit (BANK_TRANSFER) - payday", rows[0].Description)
	require.Equal(t, "125.5", rows[0].BalanceAfter.String())
	require.Equal(t, resp.Data.ReferenceNumber, rows[0].ReferenceNumber)
}

func TestDepositByAdminOnForeignAccount(t *testing.T) {
	store := newFakeStore()
	account := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		Balance:       decimal.RequireFromString("10.00"),
		Active:        true,
	})

	svc := newDepositService(store)
	_, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: account.AccountNumber,
		Amount:        decimal.RequireFromString("5.00"),
	}, domain.Identity{UserID: 99, Admin: true})

	require.NoError(t, err)
	require.Equal(t, "15", store.balanceOf(account.ID).String())
}

func TestDepositByStrangerIsDenied(t *testing.T) {
	store := newFakeStore()
	account := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		Balance:       decimal.RequireFromString("10.00"),
		Active:        true,
	})

	svc := newDepositService(store)
	_, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: account.AccountNumber,
		Amount:        decimal.RequireFromString("5.00"),
	}, domain.Identity{UserID: 99})

	require.ErrorIs(t, err, domain.ErrAccessDenied)
	require.Equal(t, "10", store.balanceOf(account.ID).String())
	require.Empty(t, store.ledgerRows())
}

func TestDepositOnInactiveAccountIsRejected(t *testing.T) {
	store := newFakeStore()
	account := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		Balance:       decimal.RequireFromString("10.00"),
		Active:        false,
	})

	svc := newDepositService(store)
	_, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: account.AccountNumber,
		Amount:        decimal.RequireFromString("5.00"),
	}, domain.Identity{UserID: 7})

	require.ErrorIs(t, err, domain.ErrAccountInactive)
	require.Empty(t, store.ledgerRows())
}

func TestDepositValidationRejectsSubCentAmount(t *testing.T) {
	svc := newDepositService(newFakeStore())
	resp, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: "ACC202601150001",
		Amount:        decimal.RequireFromString("1.005"),
	}, domain.Identity{UserID: 7})

	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	require.False(t, resp.Success)
}

func TestDepositUnknownAccount(t *testing.T) {
	svc := newDepositService(newFakeStore())
	resp, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: "ACC000000000000",
		Amount:        decimal.RequireFromString("5.00"),
	}, domain.Identity{UserID: 7})

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	require.Equal(t, "Account not found", resp.Message)
}

func TestDepositRetriesReferenceCollisions(t *testing.T) {
	store := newFakeStore()
	account := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		Balance:       decimal.RequireFromString("10.00"),
		Active:        true,
	})
	store.duplicateInserts = 2

	svc := newDepositService(store)
	_, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: account.AccountNumber,
		Amount:        decimal.RequireFromString("5.00"),
	}, domain.Identity{UserID: 7})

	require.NoError(t, err)
	require.Equal(t, "15", store.balanceOf(account.ID).String())
	require.Len(t, store.ledgerRows(), 1)
}

func TestDepositSurfacesConflictWhenRetriesExhausted(t *testing.T) {
	store := newFakeStore()
	account := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		Balance:       decimal.RequireFromString("10.00"),
		Active:        true,
	})
	store.duplicateInserts = 10

	svc := newDepositService(store)
	_, err := svc.Deposit(context.Background(), models.DepositRequest{
		AccountNumber: account.AccountNumber,
		Amount:        decimal.RequireFromString("5.00"),
	}, domain.Identity{UserID: 7})

	require.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
	require.Equal(t, "10", store.balanceOf(account.ID).String())
	require.Empty(t, store.ledgerRows())
}
