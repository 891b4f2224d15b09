package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionHistoryRequest carries raw filter values as received from the
// query string. Values that fail to parse are treated as "no filter on that
// dimension", never as errors.
type TransactionHistoryRequest struct {
	AccountNumber        string `json:"accountNumber"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate"`
	TransactionType      string `json:"transactionType"`
	TransactionDirection string `json:"transactionDirection"`
	MinAmount            string `json:"minAmount"`
	MaxAmount            string `json:"maxAmount"`
	Page                 int    `json:"page"`
	Size                 int    `json:"size"`
	SortBy               string `json:"sortBy"`
	SortDirection        string `json:"sortDirection"`
}

type TransactionDetail struct {
	ReferenceNumber   string          `json:"referenceNumber"`
	AccountNumber     string          `json:"accountNumber"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionType   string          `json:"transactionType"`
	Direction         string          `json:"transactionDirection"`
	Status            string          `json:"status"`
	BalanceAfter      decimal.Decimal `json:"balanceAfter"`
	Description       string          `json:"description"`
	TransferReference string          `json:"transferReference,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type TransactionHistoryResponse struct {
	Transactions  []TransactionDetail `json:"transactions"`
	Page          int                 `json:"page"`
	TotalPages    int                 `json:"totalPages"`
	TotalElements int64               `json:"totalElements"`
	HasNext       bool                `json:"hasNext"`
	HasPrevious   bool                `json:"hasPrevious"`
}
