package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes"`
	DepositSource string          `json:"depositSource"`
}

func (r DepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountNumber) == "" {
		errs = append(errs, "accountNumber is required")
	}
	errs = appendAmountErrors(errs, r.Amount)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type WithdrawalRequest struct {
	AccountNumber  string          `json:"accountNumber"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionPin string          `json:"transactionPin"`
	Notes          string          `json:"notes"`
}

func (r WithdrawalRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountNumber) == "" {
		errs = append(errs, "accountNumber is required")
	}
	errs = appendAmountErrors(errs, r.Amount)
	if strings.TrimSpace(r.TransactionPin) == "" {
		errs = append(errs, "transactionPin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferRequest struct {
	SenderAccountNumber   string          `json:"senderAccountNumber"`
	ReceiverAccountNumber string          `json:"receiverAccountNumber"`
	Amount                decimal.Decimal `json:"amount"`
	TransactionPin        string          `json:"transactionPin"`
	Notes                 string          `json:"notes"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	sender := strings.TrimSpace(r.SenderAccountNumber)
	receiver := strings.TrimSpace(r.ReceiverAccountNumber)

	if sender == "" {
		errs = append(errs, "senderAccountNumber is required")
	}
	if receiver == "" {
		errs = append(errs, "receiverAccountNumber is required")
	}
	if sender != "" && strings.EqualFold(sender, receiver) {
		errs = append(errs, "cannot transfer to the same account")
	}
	errs = appendAmountErrors(errs, r.Amount)
	if strings.TrimSpace(r.TransactionPin) == "" {
		errs = append(errs, "transactionPin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransactionReceipt struct {
	ReferenceNumber string          `json:"referenceNumber"`
	AccountNumber   string          `json:"accountNumber"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	Notes           string          `json:"notes,omitempty"`
	DepositSource   string          `json:"depositSource,omitempty"`
	Status          string          `json:"status"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	TransactionDate time.Time       `json:"transactionDate"`
}

type TransferReceipt struct {
	TransferReference     string          `json:"transferReference"`
	SenderAccountNumber   string          `json:"senderAccountNumber"`
	ReceiverAccountNumber string          `json:"receiverAccountNumber"`
	Amount                decimal.Decimal `json:"amount"`
	Notes                 string          `json:"notes,omitempty"`
	Status                string          `json:"status"`
	SenderBalanceAfter    decimal.Decimal `json:"senderBalanceAfter"`
	TransactionDate       time.Time       `json:"transactionDate"`
}

func appendAmountErrors(errs []string, amount decimal.Decimal) []string {
	if amount.LessThanOrEqual(decimal.Zero) {
		return append(errs, "amount must be greater than zero")
	}
	if amount.Exponent() < -2 {
		return append(errs, "amount must not have more than two decimal places")
	}
	return errs
}
