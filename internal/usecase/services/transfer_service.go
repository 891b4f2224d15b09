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

type TransferService struct {
	uow    repo_interfaces.UnitOfWork
	guard  *AccessGuard
	limits RetryLimits
}

func NewTransferService(uow repo_interfaces.UnitOfWork, guard *AccessGuard, limits RetryLimits) *TransferService {
	return &TransferService{uow: uow, guard: guard, limits: limits}
}

func (s *TransferService) Transfer(ctx context.Context, req models.TransferRequest, identity domain.Identity) (commons.Response[models.TransferReceipt], error) {
	logger.Info("transfer service request", logger.Fields{
		"payload":      logger.SanitizePayload(req),
		"actingUserId": identity.UserID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferReceipt]("validation failed", err.Error()), fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	senderNumber := strings.TrimSpace(req.SenderAccountNumber)
	receiverNumber := strings.TrimSpace(req.ReceiverAccountNumber)

	var receipt models.TransferReceipt
	err := runAtomic(ctx, s.uow, s.limits, func(st repo_interfaces.Stores) error {
		// The sender side is fully authorized before the receiver is even
		// resolved: a caller who fails the sender gate learns nothing about
		// the receiver account.
		sender, err := st.Accounts().GetByAccountNumber(ctx, senderNumber)
		if err != nil {
			return err
		}
		if err := s.guard.RequireActive(sender); err != nil {
			return err
		}
		if err := s.guard.RequireOwner(sender, identity, true); err != nil {
			return err
		}
		if err := s.guard.RequirePin(sender, req.TransactionPin); err != nil {
			return err
		}

		// The receiver only needs to exist and be active.
		receiver, err := st.Accounts().GetByAccountNumber(ctx, receiverNumber)
		if err != nil {
			return err
		}
		if err := s.guard.RequireActive(receiver); err != nil {
			return err
		}

		sender, receiver, err = lockPair(ctx, st.Accounts(), sender, receiver)
		if err != nil {
			return err
		}

		// The rows may have changed between the checks and the locks.
		if err := s.guard.RequireActive(sender); err != nil {
			return err
		}
		if err := s.guard.RequireActive(receiver); err != nil {
			return err
		}

		if sender.Balance.LessThan(req.Amount) {
			return fmt.Errorf("%w: sender balance %s is below transfer amount", domain.ErrInsufficientFunds, sender.Balance.StringFixed(2))
		}

		senderBalance := sender.Balance.Sub(req.Amount)
		receiverBalance := receiver.Balance.Add(req.Amount)

		if err := st.Accounts().UpdateBalance(ctx, sender.ID, senderBalance); err != nil {
			return err
		}
		if err := st.Accounts().UpdateBalance(ctx, receiver.ID, receiverBalance); err != nil {
			return err
		}

		debitRef := domain.NewReferenceNumber()
		creditRef := domain.NewReferenceNumber()
		notes := strings.TrimSpace(req.Notes)

		debit, err := st.Ledger().Insert(ctx, domain.LedgerEntry{
			AccountID:         sender.ID,
			Amount:            req.Amount,
			TransactionType:   domain.TransactionTypeTransfer,
			Direction:         domain.TransactionDirectionDebit,
			Status:            domain.TransactionStatusCompleted,
			BalanceAfter:      senderBalance,
			Description:       transferDescription("Transfer to", receiver.AccountNumber, notes),
			ReferenceNumber:   debitRef,
			TransferReference: creditRef,
		})
		if err != nil {
			return err
		}

		if _, err := st.Ledger().Insert(ctx, domain.LedgerEntry{
			AccountID:         receiver.ID,
			Amount:            req.Amount,
			TransactionType:   domain.TransactionTypeTransfer,
			Direction:         domain.TransactionDirectionCredit,
			Status:            domain.TransactionStatusCompleted,
			BalanceAfter:      receiverBalance,
			Description:       transferDescription("Transfer from", sender.AccountNumber, notes),
			ReferenceNumber:   creditRef,
			TransferReference: debitRef,
		}); err != nil {
			return err
		}

		receipt = models.TransferReceipt{
			TransferReference:     debit.ReferenceNumber,
			SenderAccountNumber:   sender.AccountNumber,
			ReceiverAccountNumber: receiver.AccountNumber,
			Amount:                req.Amount,
			Notes:                 notes,
			Status:                string(domain.TransactionStatusCompleted),
			SenderBalanceAfter:    senderBalance,
			TransactionDate:       debit.CreatedAt,
		}
		return nil
	})
	if err != nil {
		logger.Error("transfer service failed", err, logger.Fields{
			"senderAccountNumber":   senderNumber,
			"receiverAccountNumber": receiverNumber,
		})
		return failureResponse[models.TransferReceipt]("transfer", err)
	}

	logger.Info("transfer service success", logger.Fields{
		"senderAccountNumber":   receipt.SenderAccountNumber,
		"receiverAccountNumber": receipt.ReceiverAccountNumber,
		"transferReference":     receipt.TransferReference,
	})

	return commons.SuccessResponse("transfer completed successfully", receipt), nil
}

// lockPair acquires row locks on both accounts in ascending id order and
// returns the refreshed rows mapped back to their sender/receiver roles.
func lockPair(ctx context.Context, accounts repo_interfaces.AccountRepository, first, second domain.Account) (domain.Account, domain.Account, error) {
	lo, hi := first, second
	if lo.ID > hi.ID {
		lo, hi = hi, lo
	}

	lockedLo, err := accounts.GetByIDForUpdate(ctx, lo.ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	lockedHi, err := accounts.GetByIDForUpdate(ctx, hi.ID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if lockedLo.ID == first.ID {
		return lockedLo, lockedHi, nil
	}
	return lockedHi, lockedLo, nil
}

func transferDescription(prefix, counterparty, notes string) string {
	if notes == "" {
		return fmt.Sprintf("%s %s", prefix, counterparty)
	}
	return fmt.Sprintf("%s %s - %s", prefix, counterparty, notes)
}
