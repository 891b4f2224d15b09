package postgres

import (
	"errors"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// translateError maps driver-level failures onto the domain taxonomy so the
// engine can retry duplicates and conflicts without knowing about Postgres.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeUniqueViolation:
		return domain.ErrDuplicateReference
	case codeSerializationFailure, codeDeadlockDetected:
		return domain.ErrConcurrencyConflict
	}
	return err
}
