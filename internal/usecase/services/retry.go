package services

import (
	"context"
	"errors"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/repo_interfaces"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/commons"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
)

type RetryLimits struct {
	Reference int
	Conflict  int
}

// runAtomic executes fn as one unit of work, retrying the whole unit on
// reference-number collisions (fn generates fresh references each attempt)
// and on serialization conflicts, each within its own bound. A duplicate is
// never surfaced; an exhausted conflict bound is reported as the transient
// ErrConcurrencyConflict so the caller can repeat the operation.
func runAtomic(ctx context.Context, uow repo_interfaces.UnitOfWork, limits RetryLimits, fn func(s repo_interfaces.Stores) error) error {
	referenceAttempts := 0
	conflictAttempts := 0

	for {
		err := uow.Do(ctx, fn)
		switch {
		case err == nil:
			return nil

		case errors.Is(err, domain.ErrDuplicateReference):
			referenceAttempts++
			if referenceAttempts >= limits.Reference {
				logger.Error("reference generation retries exhausted", err, logger.Fields{
					"attempts": referenceAttempts,
				})
				return domain.ErrConcurrencyConflict
			}

		case errors.Is(err, domain.ErrConcurrencyConflict):
			conflictAttempts++
			if conflictAttempts >= limits.Conflict {
				logger.Error("concurrency conflict retries exhausted", err, logger.Fields{
					"attempts": conflictAttempts,
				})
				return domain.ErrConcurrencyConflict
			}

		default:
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// failureResponse maps a domain error onto the caller-facing envelope.
func failureResponse[T any](operation string, err error) (commons.Response[T], error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return commons.ErrorResponse[T]("Account not found"), err
	case errors.Is(err, domain.ErrTransactionNotFound):
		return commons.ErrorResponse[T]("Transaction not found"), err
	case errors.Is(err, domain.ErrAccountInactive):
		return commons.ErrorResponse[T]("validation failed", err.Error()), err
	case errors.Is(err, domain.ErrAccessDenied):
		return commons.ErrorResponse[T]("access denied", err.Error()), err
	case errors.Is(err, domain.ErrInvalidPin):
		return commons.ErrorResponse[T]("invalid pin", err.Error()), err
	case errors.Is(err, domain.ErrInsufficientFunds):
		return commons.ErrorResponse[T]("Insufficient funds", err.Error()), err
	case errors.Is(err, domain.ErrInvalidRequest):
		return commons.ErrorResponse[T]("validation failed", err.Error()), err
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return commons.ErrorResponse[T]("operation conflicted, please retry", err.Error()), err
	default:
		return commons.ErrorResponse[T]("failed to process "+operation, "Unable to process "+operation+" right now"), err
	}
}
