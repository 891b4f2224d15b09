package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/models"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/repo_interfaces"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/commons"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
	"github.com/shopspring/decimal"
)

type HistoryService struct {
	accounts repo_interfaces.AccountRepository
	ledger   repo_interfaces.LedgerRepository
	guard    *AccessGuard

	maxPageSize     int
	defaultPageSize int
}

func NewHistoryService(
	accounts repo_interfaces.AccountRepository,
	ledger repo_interfaces.LedgerRepository,
	guard *AccessGuard,
	maxPageSize, defaultPageSize int,
) *HistoryService {
	return &HistoryService{
		accounts:        accounts,
		ledger:          ledger,
		guard:           guard,
		maxPageSize:     maxPageSize,
		defaultPageSize: defaultPageSize,
	}
}

func (s *HistoryService) GetTransactionHistory(ctx context.Context, req models.TransactionHistoryRequest, identity domain.Identity) (commons.Response[models.TransactionHistoryResponse], error) {
	logger.Info("transaction history service request", logger.Fields{
		"payload":      logger.SanitizePayload(req),
		"actingUserId": identity.UserID,
	})

	filter, err := s.scopeToIdentity(ctx, strings.TrimSpace(req.AccountNumber), identity)
	if err != nil {
		logger.Error("transaction history scoping failed", err, logger.Fields{
			"accountNumber": req.AccountNumber,
		})
		return failureResponse[models.TransactionHistoryResponse]("transaction history", err)
	}

	applyRawFilters(&filter, req)

	page := domain.PageRequest{
		Page:          req.Page,
		Size:          req.Size,
		SortBy:        strings.TrimSpace(req.SortBy),
		SortDirection: strings.TrimSpace(req.SortDirection),
	}
	if page.Page < 0 {
		page.Page = 0
	}
	if page.Size <= 0 {
		page.Size = s.defaultPageSize
	}
	if page.Size > s.maxPageSize {
		page.Size = s.maxPageSize
	}

	result, err := s.ledger.Query(ctx, filter, page)
	if err != nil {
		logger.Error("transaction history query failed", err, nil)
		return failureResponse[models.TransactionHistoryResponse]("transaction history", err)
	}

	out := models.TransactionHistoryResponse{
		Transactions:  make([]models.TransactionDetail, 0, len(result.Entries)),
		Page:          result.Page,
		TotalPages:    result.TotalPages,
		TotalElements: result.TotalElements,
		HasNext:       result.HasNext,
		HasPrevious:   result.HasPrevious,
	}
	for _, entry := range result.Entries {
		out.Transactions = append(out.Transactions, toTransactionDetail(entry))
	}

	return commons.SuccessResponse("transaction history retrieved successfully", out), nil
}

func (s *HistoryService) GetTransactionByReference(ctx context.Context, referenceNumber string, identity domain.Identity) (commons.Response[models.TransactionDetail], error) {
	referenceNumber = strings.TrimSpace(referenceNumber)
	if referenceNumber == "" {
		err := fmt.Errorf("%w: referenceNumber is required", domain.ErrInvalidRequest)
		return failureResponse[models.TransactionDetail]("transaction lookup", err)
	}

	entry, err := s.ledger.GetByReferenceNumber(ctx, referenceNumber)
	if err != nil {
		logger.Error("transaction lookup failed", err, logger.Fields{
			"referenceNumber": referenceNumber,
		})
		return failureResponse[models.TransactionDetail]("transaction lookup", err)
	}

	if !identity.Admin {
		account, err := s.accounts.GetByAccountNumber(ctx, entry.AccountNumber)
		if err != nil {
			return failureResponse[models.TransactionDetail]("transaction lookup", err)
		}
		if err := s.guard.RequireOwner(account, identity, false); err != nil {
			return failureResponse[models.TransactionDetail]("transaction lookup", err)
		}
	}

	return commons.SuccessResponse("transaction retrieved successfully", toTransactionDetail(entry)), nil
}

// scopeToIdentity resolves the account dimension of the query. A named
// account must be visible to the caller. A customer with no account named is
// scoped to their first account; an admin with no account named queries the
// whole ledger.
func (s *HistoryService) scopeToIdentity(ctx context.Context, accountNumber string, identity domain.Identity) (domain.LedgerFilter, error) {
	var filter domain.LedgerFilter

	if accountNumber != "" {
		account, err := s.accounts.GetByAccountNumber(ctx, accountNumber)
		if err != nil {
			return filter, err
		}
		if err := s.guard.RequireOwner(account, identity, true); err != nil {
			return filter, err
		}
		filter.AccountID = &account.ID
		return filter, nil
	}

	if identity.Admin {
		return filter, nil
	}

	owned, err := s.accounts.ListByUser(ctx, identity.UserID)
	if err != nil {
		return filter, err
	}
	if len(owned) == 0 {
		return filter, domain.ErrAccountNotFound
	}
	filter.AccountID = &owned[0].ID
	return filter, nil
}

// applyRawFilters parses the optional query-string filters. A value that
// fails to parse leaves its dimension unconstrained.
func applyRawFilters(filter *domain.LedgerFilter, req models.TransactionHistoryRequest) {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate)); err == nil {
		filter.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(req.EndDate)); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	if txType, ok := domain.ParseTransactionType(strings.ToUpper(strings.TrimSpace(req.TransactionType))); ok {
		filter.Type = &txType
	}
	if direction, ok := domain.ParseTransactionDirection(strings.ToUpper(strings.TrimSpace(req.TransactionDirection))); ok {
		filter.Direction = &direction
	}
	if min, err := decimal.NewFromString(strings.TrimSpace(req.MinAmount)); err == nil {
		filter.MinAmount = &min
	}
	if max, err := decimal.NewFromString(strings.TrimSpace(req.MaxAmount)); err == nil {
		filter.MaxAmount = &max
	}
}

func toTransactionDetail(entry domain.LedgerEntry) models.TransactionDetail {
	return models.TransactionDetail{
		ReferenceNumber:   entry.ReferenceNumber,
		AccountNumber:     entry.AccountNumber,
		Amount:            entry.Amount,
		TransactionType:   string(entry.TransactionType),
		Direction:         string(entry.Direction),
		Status:            string(entry.Status),
		BalanceAfter:      entry.BalanceAfter,
		Description:       entry.Description,
		TransferReference: entry.TransferReference,
		CreatedAt:         entry.CreatedAt,
	}
}
