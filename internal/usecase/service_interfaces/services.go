package service_interfaces

import (
	"context"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/models"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/commons"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/shopspring/decimal"
)

type DepositService interface {
	Deposit(ctx context.Context, req models.DepositRequest, identity domain.Identity) (commons.Response[models.TransactionReceipt], error)
}

type WithdrawalService interface {
	Withdraw(ctx context.Context, req models.WithdrawalRequest, identity domain.Identity) (commons.Response[models.TransactionReceipt], error)
}

type TransferService interface {
	Transfer(ctx context.Context, req models.TransferRequest, identity domain.Identity) (commons.Response[models.TransferReceipt], error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest, identity domain.Identity) (commons.Response[models.CreateAccountResponse], error)
	GetAccount(ctx context.Context, accountNumber string, identity domain.Identity) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context, identity domain.Identity) (commons.Response[models.AccountListResponse], error)
	TotalSystemBalance(ctx context.Context, identity domain.Identity) (commons.Response[models.TotalBalanceResponse], error)
	LowBalanceAccounts(ctx context.Context, threshold decimal.Decimal, identity domain.Identity) (commons.Response[models.LowBalanceAccountsResponse], error)
	SearchAccounts(ctx context.Context, query string, page, size int, identity domain.Identity) (commons.Response[models.AccountSearchResponse], error)
}

type HistoryService interface {
	GetTransactionHistory(ctx context.Context, req models.TransactionHistoryRequest, identity domain.Identity) (commons.Response[models.TransactionHistoryResponse], error)
	GetTransactionByReference(ctx context.Context, referenceNumber string, identity domain.Identity) (commons.Response[models.TransactionDetail], error)
}
