package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, account_number, account_type, balance, transaction_pin_hash, is_active, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"userId":        account.UserID,
		"accountNumber": account.AccountNumber,
		"accountType":   account.AccountType,
	})

	const query = `
INSERT INTO accounts (
	user_id,
	account_number,
	account_type,
	balance,
	transaction_pin_hash,
	is_active
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	var (
		id        int64
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.UserID,
		account.AccountNumber,
		account.AccountType,
		account.Balance.StringFixed(2),
		account.TransactionPinHash,
		account.Active,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", translateError(err))
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1`

	account, err := r.scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository get by account number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("get account by account number: %w", err)
	}

	return account, nil
}

// GetByIDForUpdate takes a row lock held until the enclosing unit of work
// commits or rolls back. Multi-account operations must call this in
// ascending id order.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
FOR UPDATE`

	account, err := r.scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository get for update failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("get account for update: %w", translateError(err))
	}

	return account, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	const query = `
UPDATE accounts
SET balance = $2::numeric,
    updated_at = NOW()
WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, balance.StringFixed(2))
	if err != nil {
		logger.Error("account repository update balance failed", err, logger.Fields{
			"accountId": id,
		})
		return fmt.Errorf("update account balance: %w", translateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account balance rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM accounts
	WHERE account_number = $1
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account number exists: %w", err)
	}

	return exists, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE user_id = $1
  AND is_active = TRUE
ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("account repository list by user failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, fmt.Errorf("list accounts by user: %w", err)
	}
	defer rows.Close()

	return r.collectAccounts(rows)
}

func (r *AccountRepository) HasActiveAccountOfType(ctx context.Context, userID int64, accountType domain.AccountType) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM accounts
	WHERE user_id = $1
	  AND account_type = $2
	  AND is_active = TRUE
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, accountType).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active account of type: %w", err)
	}

	return exists, nil
}

func (r *AccountRepository) SystemTotals(ctx context.Context) (domain.SystemTotals, error) {
	const query = `
SELECT COALESCE(SUM(balance), 0),
       COUNT(*),
       COUNT(DISTINCT user_id),
       COALESCE(AVG(balance), 0)
FROM accounts
WHERE is_active = TRUE`

	var totals domain.SystemTotals
	if err := r.db.QueryRowContext(ctx, query).Scan(
		&totals.TotalBalance,
		&totals.ActiveAccounts,
		&totals.DistinctActiveUsers,
		&totals.AverageBalance,
	); err != nil {
		logger.Error("account repository system totals failed", err, nil)
		return domain.SystemTotals{}, fmt.Errorf("get system totals: %w", err)
	}

	totals.AverageBalance = totals.AverageBalance.Round(2)
	return totals, nil
}

func (r *AccountRepository) ListBelowBalance(ctx context.Context, threshold decimal.Decimal) ([]domain.Account, error) {
	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE balance < $1::numeric
  AND is_active = TRUE
ORDER BY balance ASC`

	rows, err := r.db.QueryContext(ctx, query, threshold.StringFixed(2))
	if err != nil {
		logger.Error("account repository list below balance failed", err, logger.Fields{
			"threshold": threshold,
		})
		return nil, fmt.Errorf("list accounts below balance: %w", err)
	}
	defer rows.Close()

	return r.collectAccounts(rows)
}

func (r *AccountRepository) Search(ctx context.Context, query string, limit, offset int) ([]domain.AccountSummary, error) {
	const searchQuery = `
SELECT a.account_number,
       a.account_type,
       a.balance,
       TRIM(u.first_name || ' ' || u.last_name),
       u.email,
       a.is_active,
       a.created_at
FROM accounts a
JOIN users u ON u.id = a.user_id
WHERE a.account_number ILIKE '%' || $1 || '%'
   OR u.first_name ILIKE '%' || $1 || '%'
   OR u.last_name ILIKE '%' || $1 || '%'
   OR u.email ILIKE '%' || $1 || '%'
ORDER BY a.created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, searchQuery, query, limit, offset)
	if err != nil {
		logger.Error("account repository search failed", err, logger.Fields{
			"query": query,
		})
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.AccountSummary, 0)
	for rows.Next() {
		var s domain.AccountSummary
		if err := rows.Scan(
			&s.AccountNumber,
			&s.AccountType,
			&s.Balance,
			&s.OwnerName,
			&s.OwnerEmail,
			&s.Active,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account summaries: %w", err)
	}

	return summaries, nil
}

func (r *AccountRepository) scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		account domain.Account
		pinHash sql.NullString
	)

	if err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.AccountType,
		&account.Balance,
		&pinHash,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	if pinHash.Valid {
		account.TransactionPinHash = pinHash.String
	}
	return account, nil
}

func (r *AccountRepository) collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var (
			account domain.Account
			pinHash sql.NullString
		)
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.AccountNumber,
			&account.AccountType,
			&account.Balance,
			&pinHash,
			&account.Active,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if pinHash.Valid {
			account.TransactionPinHash = pinHash.String
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}
