package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/models"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/repo_interfaces"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/commons"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
)

type DepositService struct {
	uow    repo_interfaces.UnitOfWork
	guard  *AccessGuard
	limits RetryLimits
}

func NewDepositService(uow repo_interfaces.UnitOfWork, guard *AccessGuard, limits RetryLimits) *DepositService {
	return &DepositService{uow: uow, guard: guard, limits: limits}
}

func (s *DepositService) Deposit(ctx context.Context, req models.DepositRequest, identity domain.Identity) (commons.Response[models.TransactionReceipt], error) {
	logger.Info("deposit service request", logger.Fields{
		"payload":      logger.SanitizePayload(req),
		"actingUserId": identity.UserID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionReceipt]("validation failed", err.Error()), fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)

	var receipt models.TransactionReceipt
	err := runAtomic(ctx, s.uow, s.limits, func(st repo_interfaces.Stores) error {
		account, err := st.Accounts().GetByAccountNumber(ctx, accountNumber)
		if err != nil {
			return err
		}

		locked, err := st.Accounts().GetByIDForUpdate(ctx, account.ID)
		if err != nil {
			return err
		}

		if err := s.guard.RequireActive(locked); err != nil {
			return err
		}
		if err := s.guard.RequireOwner(locked, identity, true); err != nil {
			return err
		}

		newBalance := locked.Balance.Add(req.Amount)
		if err := st.Accounts().UpdateBalance(ctx, locked.ID, newBalance); err != nil {
			return err
		}

		entry, err := st.Ledger().Insert(ctx, domain.LedgerEntry{
			AccountID:       locked.ID,
			Amount:          req.Amount,
			TransactionType: domain.TransactionTypeDeposit,
			Direction:       domain.TransactionDirectionCredit,
			Status:          domain.TransactionStatusCompleted,
			BalanceAfter:    newBalance,
			Description:     depositDescription(req),
			ReferenceNumber: domain.NewReferenceNumber(),
		})
		if err != nil {
			return err
		}

		receipt = models.TransactionReceipt{
			ReferenceNumber: entry.ReferenceNumber,
			AccountNumber:   locked.AccountNumber,
			Amount:          req.Amount,
			TransactionType: string(domain.TransactionTypeDeposit),
			Notes:           strings.TrimSpace(req.Notes),
			DepositSource:   strings.TrimSpace(req.DepositSource),
			Status:          string(domain.TransactionStatusCompleted),
			BalanceAfter:    newBalance,
			TransactionDate: entry.CreatedAt,
		}
		return nil
	})
	if err != nil {
		logger.Error("deposit service failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failureResponse[models.TransactionReceipt]("deposit", err)
	}

	logger.Info("deposit service success", logger.Fields{
		"accountNumber":   receipt.AccountNumber,
		"referenceNumber": receipt.ReferenceNumber,
	})

	return commons.SuccessResponse("deposit completed successfully", receipt), nil
}

func depositDescription(req models.DepositRequest) string {
	source := strings.TrimSpace(req.DepositSource)
	if source == "" {
		source = "CASH"
	}
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = "Cash deposit"
	}
	return fmt.Sprintf("Deposit (%s) - %s", source, notes)
}
