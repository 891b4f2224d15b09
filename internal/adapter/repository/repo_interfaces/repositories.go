package repo_interfaces

import (
	"context"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	HasActiveAccountOfType(ctx context.Context, userID int64, accountType domain.AccountType) (bool, error)

	// GetByIDForUpdate locks the account row for the remainder of the unit
	// of work. Callers touching more than one account must lock in
	// ascending id order.
	GetByIDForUpdate(ctx context.Context, id int64) (domain.Account, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error

	SystemTotals(ctx context.Context) (domain.SystemTotals, error)
	ListBelowBalance(ctx context.Context, threshold decimal.Decimal) ([]domain.Account, error)
	Search(ctx context.Context, query string, limit, offset int) ([]domain.AccountSummary, error)
}

type LedgerRepository interface {
	// Insert appends one ledger row. A reference-number collision is
	// reported as domain.ErrDuplicateReference.
	Insert(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
	GetByReferenceNumber(ctx context.Context, referenceNumber string) (domain.LedgerEntry, error)
	Query(ctx context.Context, filter domain.LedgerFilter, page domain.PageRequest) (domain.LedgerPage, error)
}
