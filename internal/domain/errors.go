package domain

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account is not active")
	ErrAccessDenied      = errors.New("access to this account is denied")
	ErrInvalidPin        = errors.New("invalid transaction pin")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidRequest    = errors.New("invalid request")

	// ErrDuplicateReference signals a reference-number collision on insert.
	// The engine regenerates and retries; callers never see it.
	ErrDuplicateReference = errors.New("duplicate reference number")

	// ErrConcurrencyConflict is surfaced only after the bounded retry on
	// serialization or deadlock failures is exhausted. The whole operation
	// is safe to repeat.
	ErrConcurrencyConflict = errors.New("concurrent update conflict, retry the operation")

	ErrTransactionNotFound = errors.New("transaction not found")
)
