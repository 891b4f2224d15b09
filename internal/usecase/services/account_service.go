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

const accountNumberAttempts = 10

type AccountService struct {
	uow      repo_interfaces.UnitOfWork
	accounts repo_interfaces.AccountRepository
	guard    *AccessGuard
	pins     PinVerifier
	limits   RetryLimits

	maxPageSize     int
	defaultPageSize int
}

func NewAccountService(
	uow repo_interfaces.UnitOfWork,
	accounts repo_interfaces.AccountRepository,
	guard *AccessGuard,
	pins PinVerifier,
	limits RetryLimits,
	maxPageSize, defaultPageSize int,
) *AccountService {
	return &AccountService{
		uow:             uow,
		accounts:        accounts,
		guard:           guard,
		pins:            pins,
		limits:          limits,
		maxPageSize:     maxPageSize,
		defaultPageSize: defaultPageSize,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest, identity domain.Identity) (commons.Response[models.CreateAccountResponse], error) {
	logger.Info("create account service request", logger.Fields{
		"payload":      logger.SanitizePayload(req),
		"actingUserId": identity.UserID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CreateAccountResponse]("validation failed", err.Error()), fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}

	accountType, _ := domain.ParseAccountType(strings.ToUpper(strings.TrimSpace(req.AccountType)))

	pinHash, err := s.pins.Hash(strings.TrimSpace(req.TransactionPin))
	if err != nil {
		logger.Error("create account pin hashing failed", err, nil)
		return failureResponse[models.CreateAccountResponse]("account creation", err)
	}

	var created domain.Account
	err = runAtomic(ctx, s.uow, s.limits, func(st repo_interfaces.Stores) error {
		exists, err := st.Accounts().HasActiveAccountOfType(ctx, identity.UserID, accountType)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: an active %s account already exists for this user", domain.ErrInvalidRequest, accountType)
		}

		accountNumber, err := freshAccountNumber(ctx, st.Accounts())
		if err != nil {
			return err
		}

		created, err = st.Accounts().Create(ctx, domain.Account{
			UserID:             identity.UserID,
			AccountNumber:      accountNumber,
			AccountType:        accountType,
			Balance:            req.InitialDeposit,
			TransactionPinHash: pinHash,
			Active:             true,
		})
		if err != nil {
			return err
		}

		if req.InitialDeposit.IsPositive() {
			if _, err := st.Ledger().Insert(ctx, domain.LedgerEntry{
				AccountID:       created.ID,
				Amount:          req.InitialDeposit,
				TransactionType: domain.TransactionTypeDeposit,
				Direction:       domain.TransactionDirectionCredit,
				Status:          domain.TransactionStatusCompleted,
				BalanceAfter:    created.Balance,
				Description:     "Deposit (CASH) - Initial deposit on account opening",
				ReferenceNumber: domain.NewReferenceNumber(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("create account service failed", err, logger.Fields{
			"accountType": string(accountType),
		})
		return failureResponse[models.CreateAccountResponse]("account creation", err)
	}

	logger.Info("create account service success", logger.Fields{
		"accountNumber": created.AccountNumber,
		"accountType":   string(created.AccountType),
	})

	return commons.SuccessResponse("account created successfully", models.CreateAccountResponse{
		AccountNumber: created.AccountNumber,
		AccountType:   string(created.AccountType),
		Balance:       created.Balance,
		CreatedAt:     created.CreatedAt,
	}), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountNumber string, identity domain.Identity) (commons.Response[models.AccountResponse], error) {
	account, err := s.accounts.GetByAccountNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		logger.Error("get account service failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failureResponse[models.AccountResponse]("account lookup", err)
	}

	if err := s.guard.RequireOwner(account, identity, true); err != nil {
		return failureResponse[models.AccountResponse]("account lookup", err)
	}

	return commons.SuccessResponse("account retrieved successfully", toAccountResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context, identity domain.Identity) (commons.Response[models.AccountListResponse], error) {
	accounts, err := s.accounts.ListByUser(ctx, identity.UserID)
	if err != nil {
		logger.Error("list accounts service failed", err, logger.Fields{
			"userId": identity.UserID,
		})
		return failureResponse[models.AccountListResponse]("account listing", err)
	}

	out := models.AccountListResponse{
		Accounts:     make([]models.AccountResponse, 0, len(accounts)),
		TotalBalance: decimal.Zero,
	}
	for _, account := range accounts {
		out.Accounts = append(out.Accounts, toAccountResponse(account))
		if account.Active {
			out.TotalBalance = out.TotalBalance.Add(account.Balance)
		}
	}
	out.TotalAccounts = len(out.Accounts)

	return commons.SuccessResponse("accounts retrieved successfully", out), nil
}

func (s *AccountService) TotalSystemBalance(ctx context.Context, identity domain.Identity) (commons.Response[models.TotalBalanceResponse], error) {
	if !identity.Admin {
		return failureResponse[models.TotalBalanceResponse]("system balance", domain.ErrAccessDenied)
	}

	totals, err := s.accounts.SystemTotals(ctx)
	if err != nil {
		logger.Error("system totals service failed", err, nil)
		return failureResponse[models.TotalBalanceResponse]("system balance", err)
	}

	return commons.SuccessResponse("system balance retrieved successfully", models.TotalBalanceResponse{
		TotalSystemBalance:       totals.TotalBalance,
		TotalActiveAccounts:      totals.ActiveAccounts,
		TotalUsers:               totals.DistinctActiveUsers,
		AverageBalancePerAccount: totals.AverageBalance,
	}), nil
}

func (s *AccountService) LowBalanceAccounts(ctx context.Context, threshold decimal.Decimal, identity domain.Identity) (commons.Response[models.LowBalanceAccountsResponse], error) {
	if !identity.Admin {
		return failureResponse[models.LowBalanceAccountsResponse]("low balance report", domain.ErrAccessDenied)
	}
	if threshold.IsNegative() {
		err := fmt.Errorf("%w: threshold must not be negative", domain.ErrInvalidRequest)
		return failureResponse[models.LowBalanceAccountsResponse]("low balance report", err)
	}

	accounts, err := s.accounts.ListBelowBalance(ctx, threshold)
	if err != nil {
		logger.Error("low balance report service failed", err, logger.Fields{
			"threshold": threshold.StringFixed(2),
		})
		return failureResponse[models.LowBalanceAccountsResponse]("low balance report", err)
	}

	out := models.LowBalanceAccountsResponse{
		Accounts:        make([]models.AccountResponse, 0, len(accounts)),
		Threshold:       threshold,
		TotalLowBalance: decimal.Zero,
	}
	for _, account := range accounts {
		out.Accounts = append(out.Accounts, toAccountResponse(account))
		out.TotalLowBalance = out.TotalLowBalance.Add(account.Balance)
	}
	out.TotalLowBalanceAccounts = len(out.Accounts)

	return commons.SuccessResponse("low balance accounts retrieved successfully", out), nil
}

func (s *AccountService) SearchAccounts(ctx context.Context, query string, page, size int, identity domain.Identity) (commons.Response[models.AccountSearchResponse], error) {
	if !identity.Admin {
		return failureResponse[models.AccountSearchResponse]("account search", domain.ErrAccessDenied)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		err := fmt.Errorf("%w: search query is required", domain.ErrInvalidRequest)
		return failureResponse[models.AccountSearchResponse]("account search", err)
	}

	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	summaries, err := s.accounts.Search(ctx, query, size, page*size)
	if err != nil {
		logger.Error("account search service failed", err, logger.Fields{
			"query": query,
		})
		return failureResponse[models.AccountSearchResponse]("account search", err)
	}

	out := models.AccountSearchResponse{
		Results: make([]models.AccountSearchResult, 0, len(summaries)),
		Query:   query,
	}
	for _, summary := range summaries {
		out.Results = append(out.Results, models.AccountSearchResult{
			AccountNumber: summary.AccountNumber,
			AccountType:   string(summary.AccountType),
			Balance:       summary.Balance,
			OwnerName:     summary.OwnerName,
			OwnerEmail:    summary.OwnerEmail,
			Active:        summary.Active,
			CreatedAt:     summary.CreatedAt,
		})
	}

	return commons.SuccessResponse("account search completed", out), nil
}

// freshAccountNumber draws candidates until one is unused. The date-prefixed
// space is large enough that more than a couple of draws means something is
// wrong with the store, so the loop is bounded.
func freshAccountNumber(ctx context.Context, accounts repo_interfaces.AccountRepository) (string, error) {
	for i := 0; i < accountNumberAttempts; i++ {
		candidate := domain.NewAccountNumber()
		exists, err := accounts.AccountNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted %d account number attempts", accountNumberAttempts)
}

func toAccountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		AccountNumber: account.AccountNumber,
		AccountType:   string(account.AccountType),
		Balance:       account.Balance,
		Active:        account.Active,
		CreatedAt:     account.CreatedAt,
	}
}
