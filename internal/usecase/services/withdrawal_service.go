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
	"github.com/shopspring/decimal"
)

type WithdrawalService struct {
	uow     repo_interfaces.UnitOfWork
	guard   *AccessGuard
	limits  RetryLimits
	reserve decimal.Decimal
}

func NewWithdrawalService(uow repo_interfaces.UnitOfWork, guard *AccessGuard, limits RetryLimits, reserve decimal.Decimal) *WithdrawalService {
	return &WithdrawalService{uow: uow, guard: guard, limits: limits, reserve: reserve}
}

func (s *WithdrawalService) Withdraw(ctx context.Context, req models.WithdrawalRequest, identity domain.Identity) (commons.Response[models.TransactionReceipt], error) {
	logger.Info("withdrawal service request", logger.Fields{
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
		// Withdrawals are owner-only, no elevated bypass.
		if err := s.guard.RequireOwner(locked, identity, false); err != nil {
			return err
		}
		if err := s.guard.RequirePin(locked, req.TransactionPin); err != nil {
			return err
		}

		newBalance := locked.Balance.Sub(req.Amount)
		if newBalance.LessThan(s.reserve) {
			return fmt.Errorf("%w: balance after withdrawal must not fall below %s", domain.ErrInsufficientFunds, s.reserve.StringFixed(2))
		}

		if err := st.Accounts().UpdateBalance(ctx, locked.ID, newBalance); err != nil {
			return err
		}

		entry, err := st.Ledger().Insert(ctx, domain.LedgerEntry{
			AccountID:       locked.ID,
			Amount:          req.Amount,
			TransactionType: domain.TransactionTypeWithdraw,
			Direction:       domain.TransactionDirectionDebit,
			Status:          domain.TransactionStatusCompleted,
			BalanceAfter:    newBalance,
			Description:     withdrawalDescription(req),
			ReferenceNumber: domain.NewReferenceNumber(),
		})
		if err != nil {
			return err
		}

		receipt = models.TransactionReceipt{
			ReferenceNumber: entry.ReferenceNumber,
			AccountNumber:   locked.AccountNumber,
			Amount:          req.Amount,
			TransactionType: string(domain.TransactionTypeWithdraw),
			Notes:           strings.TrimSpace(req.Notes),
			Status:          string(domain.TransactionStatusCompleted),
			BalanceAfter:    newBalance,
			TransactionDate: entry.CreatedAt,
		}
		return nil
	})
	if err != nil {
		logger.Error("withdrawal service failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failureResponse[models.TransactionReceipt]("withdrawal", err)
	}

	logger.Info("withdrawal service success", logger.Fields{
		"accountNumber":   receipt.AccountNumber,
		"referenceNumber": receipt.ReferenceNumber,
	})

	return commons.SuccessResponse("withdrawal completed successfully", receipt), nil
}

func withdrawalDescription(req models.WithdrawalRequest) string {
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = "Cash withdrawal"
	}
	return fmt.Sprintf("ATM Withdrawal - %s", notes)
}
