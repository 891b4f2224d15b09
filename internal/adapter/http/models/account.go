package models

import (
	"errors"
	"strings"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	AccountType    string          `json:"accountType"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	TransactionPin string          `json:"transactionPin"`
	ConfirmPin     string          `json:"confirmPin"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if _, ok := domain.ParseAccountType(strings.ToUpper(strings.TrimSpace(r.AccountType))); !ok {
		errs = append(errs, "accountType must be SAVINGS or CHECKING")
	}
	if r.InitialDeposit.IsNegative() {
		errs = append(errs, "initialDeposit must not be negative")
	}
	if r.InitialDeposit.Exponent() < -2 {
		errs = append(errs, "initialDeposit must not have more than two decimal places")
	}
	if !isFourDigitPin(r.TransactionPin) {
		errs = append(errs, "transactionPin must be exactly 4 digits")
	}
	if strings.TrimSpace(r.TransactionPin) != strings.TrimSpace(r.ConfirmPin) {
		errs = append(errs, "transactionPin and confirmPin do not match")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type CreateAccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type AccountListResponse struct {
	Accounts      []AccountResponse `json:"accounts"`
	TotalAccounts int               `json:"totalAccounts"`
	TotalBalance  decimal.Decimal   `json:"totalBalance"`
}

type TotalBalanceResponse struct {
	TotalSystemBalance       decimal.Decimal `json:"totalSystemBalance"`
	TotalActiveAccounts      int64           `json:"totalActiveAccounts"`
	TotalUsers               int64           `json:"totalUsers"`
	AverageBalancePerAccount decimal.Decimal `json:"averageBalancePerAccount"`
}

type LowBalanceAccountsResponse struct {
	Accounts                []AccountResponse `json:"accounts"`
	TotalLowBalanceAccounts int               `json:"totalLowBalanceAccounts"`
	Threshold               decimal.Decimal   `json:"threshold"`
	TotalLowBalance         decimal.Decimal   `json:"totalLowBalance"`
}

type AccountSearchResult struct {
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	OwnerName     string          `json:"ownerName"`
	OwnerEmail    string          `json:"ownerEmail"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type AccountSearchResponse struct {
	Results []AccountSearchResult `json:"results"`
	Query   string                `json:"query"`
}

func isFourDigitPin(value string) bool {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 4 {
		return false
	}
	for _, ch := range trimmed {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
