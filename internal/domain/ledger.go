package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

func ParseTransactionType(value string) (TransactionType, bool) {
	switch TransactionType(value) {
	case TransactionTypeDeposit:
		return TransactionTypeDeposit, true
	case TransactionTypeWithdraw:
		return TransactionTypeWithdraw, true
	case TransactionTypeTransfer:
		return TransactionTypeTransfer, true
	}
	return "", false
}

type TransactionDirection string

const (
	TransactionDirectionDebit  TransactionDirection = "DEBIT"
	TransactionDirectionCredit TransactionDirection = "CREDIT"
)

func ParseTransactionDirection(value string) (TransactionDirection, bool) {
	switch TransactionDirection(value) {
	case TransactionDirectionDebit:
		return TransactionDirectionDebit, true
	case TransactionDirectionCredit:
		return TransactionDirectionCredit, true
	}
	return "", false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// LedgerEntry is one immutable record of a single-account balance movement.
// Rows are only ever inserted, in the same unit of work as the balance
// update they describe.
type LedgerEntry struct {
	ID                int64
	AccountID         int64
	AccountNumber     string
	Amount            decimal.Decimal
	TransactionType   TransactionType
	Direction         TransactionDirection
	Status            TransactionStatus
	BalanceAfter      decimal.Decimal
	Description       string
	ReferenceNumber   string
	TransferReference string
	CreatedAt         time.Time
}

// LedgerFilter is a conjunction: nil fields do not constrain the query.
type LedgerFilter struct {
	AccountID *int64
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Direction *TransactionDirection
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

type PageRequest struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

type LedgerPage struct {
	Entries       []LedgerEntry
	Page          int
	TotalPages    int
	TotalElements int64
	HasNext       bool
	HasPrevious   bool
}
