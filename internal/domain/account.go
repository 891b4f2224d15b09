package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

func ParseAccountType(value string) (AccountType, bool) {
	switch AccountType(value) {
	case AccountTypeSavings:
		return AccountTypeSavings, true
	case AccountTypeChecking:
		return AccountTypeChecking, true
	}
	return "", false
}

type Account struct {
	ID                 int64
	UserID             int64
	AccountNumber      string
	AccountType        AccountType
	Balance            decimal.Decimal
	TransactionPinHash string
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AccountSummary is the read model for administrative listings; owner fields
// come from the joined users row.
type AccountSummary struct {
	AccountNumber string
	AccountType   AccountType
	Balance       decimal.Decimal
	OwnerName     string
	OwnerEmail    string
	Active        bool
	CreatedAt     time.Time
}

// SystemTotals aggregates active accounts in one consistent read.
type SystemTotals struct {
	TotalBalance        decimal.Decimal
	ActiveAccounts      int64
	DistinctActiveUsers int64
	AverageBalance      decimal.Decimal
}

// Identity is the acting caller as supplied by the API layer. Admin grants
// the elevated capabilities (deposit on behalf of others, unrestricted
// ledger queries); it is asserted upstream, never derived here.
type Identity struct {
	UserID int64
	Admin  bool
}
