package services_test

import (
	"context"
	"testing"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/models"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newHistoryService(store *fakeStore) *services.HistoryService {
	guard := services.NewAccessGuard(services.NewBcryptPinVerifier())
	return services.NewHistoryService(&fakeAccountRepo{store: store}, &fakeLedgerRepo{store: store}, guard, 100, 20)
}

func historyFixture(t *testing.T, store *fakeStore) (domain.Account, domain.Account) {
	t.Helper()
	mine := store.addAccount(domain.Account{
		UserID:        7,
		AccountNumber: "ACC202601150001",
		Balance:       decimal.RequireFromString("100.00"),
		Active:        true,
	})
	other := store.addAccount(domain.Account{
		UserID:        8,
		AccountNumber: "ACC202601150002",
		Balance:       decimal.RequireFromString("50.00"),
		Active:        true,
	})

	ledger := &fakeLedgerRepo{store: store}
	seed := []domain.LedgerEntry{
		{AccountID: mine.ID, Amount: decimal.RequireFromString("100.00"), TransactionType: domain.TransactionTypeDeposit, Direction: domain.TransactionDirectionCredit, Status: domain.TransactionStatusCompleted, ReferenceNumber: "TXNAAA000000001"},
		{AccountID: mine.ID, Amount: decimal.RequireFromString("25.00"), TransactionType: domain.TransactionTypeWithdraw, Direction: domain.TransactionDirectionDebit, Status: domain.TransactionStatusCompleted, ReferenceNumber: "TXNAAA000000002"},
		{AccountID: other.ID, Amount: decimal.RequireFromString("50.00"), TransactionType: domain.TransactionTypeDeposit, Direction: domain.TransactionDirectionCredit, Status: domain.TransactionStatusCompleted, ReferenceNumber: "TXNBBB000000001"},
	}
	for _, entry := range seed {
		_, err := ledger.Insert(context.Background(), entry)
		require.NoError(t, err)
	}
	return mine, other
}

func TestHistoryDefaultsToCallersFirstAccount(t *testing.T) {
	store := newFakeStore()
	historyFixture(t, store)

	svc := newHistoryService(store)
	resp, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{}, domain.Identity{UserID: 7})

	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Data.TotalElements)
	for _, tx := range resp.Data.Transactions {
		require.Equal(t, "ACC202601150001", tx.AccountNumber)
	}
}

func TestHistoryAdminWithoutAccountSeesWholeLedger(t *testing.T) {
	store := newFakeStore()
	historyFixture(t, store)

	svc := newHistoryService(store)
	resp, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{}, domain.Identity{UserID: 1, Admin: true})

	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Data.TotalElements)
}

func TestHistoryDeniesForeignAccount(t *testing.T) {
	store := newFakeStore()
	_, other := historyFixture(t, store)

	svc := newHistoryService(store)
	_, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{
		AccountNumber: other.AccountNumber,
	}, domain.Identity{UserID: 7})

	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestHistoryUnparseableFiltersAreIgnored(t *testing.T) {
	store := newFakeStore()
	historyFixture(t, store)

	svc := newHistoryService(store)
	resp, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{
		StartDate:            "not-a-date",
		TransactionType:      "BARTER",
		TransactionDirection: "SIDEWAYS",
		MinAmount:            "lots",
	}, domain.Identity{UserID: 7})

	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Data.TotalElements)
}

func TestHistoryFiltersByTypeAndAmount(t *testing.T) {
	store := newFakeStore()
	historyFixture(t, store)

	svc := newHistoryService(store)
	resp, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{
		TransactionType: "WITHDRAW",
		MinAmount:       "10.00",
		MaxAmount:       "30.00",
	}, domain.Identity{UserID: 7})

	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Data.TotalElements)
	require.Equal(t, "TXNAAA000000002", resp.Data.Transactions[0].ReferenceNumber)
}

func TestHistoryPagination(t *testing.T) {
	store := newFakeStore()
	historyFixture(t, store)

	svc := newHistoryService(store)
	resp, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{
		Page: 0,
		Size: 1,
	}, domain.Identity{UserID: 7})

	require.NoError(t, err)
	require.Len(t, resp.Data.Transactions, 1)
	require.Equal(t, 2, resp.Data.TotalPages)
	require.True(t, resp.Data.HasNext)
	require.False(t, resp.Data.HasPrevious)
}

func TestHistoryCustomerWithoutAccounts(t *testing.T) {
	store := newFakeStore()
	historyFixture(t, store)

	svc := newHistoryService(store)
	_, err := svc.GetTransactionHistory(context.Background(), models.TransactionHistoryRequest{}, domain.Identity{UserID: 42})

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestGetTransactionByReference(t *testing.T) {
	store := newFakeStore()
	_, _ = historyFixture(t, store)

	svc := newHistoryService(store)

	resp, err := svc.GetTransactionByReference(context.Background(), "TXNAAA000000002", domain.Identity{UserID: 7})
	require.NoError(t, err)
	require.Equal(t, "WITHDRAW", resp.Data.TransactionType)

	_, err = svc.GetTransactionByReference(context.Background(), "TXNBBB000000001", domain.Identity{UserID: 7})
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.GetTransactionByReference(context.Background(), "TXNBBB000000001", domain.Identity{UserID: 1, Admin: true})
	require.NoError(t, err)

	_, err = svc.GetTransactionByReference(context.Background(), "TXNZZZ000000000", domain.Identity{UserID: 7})
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
