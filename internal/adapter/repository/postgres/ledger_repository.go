package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
)

type LedgerRepository struct {
	db DBTX
}

func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var ledgerSortColumns = map[string]string{
	"createdAt":    "l.created_at",
	"amount":       "l.amount",
	"balanceAfter": "l.balance_after",
}

func (r *LedgerRepository) Insert(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	logger.Info("ledger repository insert", logger.Fields{
		"accountId":       entry.AccountID,
		"referenceNumber": entry.ReferenceNumber,
		"transactionType": entry.TransactionType,
		"direction":       entry.Direction,
	})

	const query = `
INSERT INTO ledger_entries (
	account_id,
	amount,
	transaction_type,
	transaction_direction,
	status,
	balance_after,
	description,
	reference_number,
	transfer_reference
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`

	var transferReference sql.NullString
	if entry.TransferReference != "" {
		transferReference = sql.NullString{String: entry.TransferReference, Valid: true}
	}

	var (
		id        int64
		createdAt time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		entry.AccountID,
		entry.Amount.StringFixed(2),
		entry.TransactionType,
		entry.Direction,
		entry.Status,
		entry.BalanceAfter.StringFixed(2),
		entry.Description,
		entry.ReferenceNumber,
		transferReference,
	).Scan(&id, &createdAt); err != nil {
		translated := translateError(err)
		if !errors.Is(translated, domain.ErrDuplicateReference) {
			logger.Error("ledger repository insert failed", err, logger.Fields{
				"referenceNumber": entry.ReferenceNumber,
			})
		}
		return domain.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", translated)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	return entry, nil
}

const ledgerSelect = `
SELECT l.id,
       l.account_id,
       a.account_number,
       l.amount,
       l.transaction_type,
       l.transaction_direction,
       l.status,
       l.balance_after,
       l.description,
       l.reference_number,
       l.transfer_reference,
       l.created_at
FROM ledger_entries l
JOIN accounts a ON a.id = l.account_id`

func (r *LedgerRepository) GetByReferenceNumber(ctx context.Context, referenceNumber string) (domain.LedgerEntry, error) {
	query := ledgerSelect + `
WHERE l.reference_number = $1`

	entry, err := scanLedgerEntry(r.db.QueryRowContext(ctx, query, referenceNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LedgerEntry{}, domain.ErrTransactionNotFound
		}
		logger.Error("ledger repository get by reference failed", err, logger.Fields{
			"referenceNumber": referenceNumber,
		})
		return domain.LedgerEntry{}, fmt.Errorf("get ledger entry by reference: %w", err)
	}

	return entry, nil
}

// Query applies the filter as one WHERE conjunction and pages the result.
// Nil filter fields add no predicate.
func (r *LedgerRepository) Query(ctx context.Context, filter domain.LedgerFilter, page domain.PageRequest) (domain.LedgerPage, error) {
	where, args := buildLedgerPredicates(filter)

	countQuery := `
SELECT COUNT(*)
FROM ledger_entries l` + where

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("ledger repository count failed", err, nil)
		return domain.LedgerPage{}, fmt.Errorf("count ledger entries: %w", err)
	}

	sortColumn, ok := ledgerSortColumns[page.SortBy]
	if !ok {
		sortColumn = "l.created_at"
	}
	sortDirection := "DESC"
	if strings.EqualFold(page.SortDirection, "ASC") {
		sortDirection = "ASC"
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	pageQuery := ledgerSelect + where + fmt.Sprintf(`
ORDER BY %s %s, l.id %s
LIMIT $%d OFFSET $%d`, sortColumn, sortDirection, sortDirection, limitArg, offsetArg)

	args = append(args, page.Size, page.Page*page.Size)

	rows, err := r.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		logger.Error("ledger repository query failed", err, nil)
		return domain.LedgerPage{}, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, page.Size)
	for rows.Next() {
		entry, err := scanLedgerEntryFromRows(rows)
		if err != nil {
			return domain.LedgerPage{}, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.LedgerPage{}, fmt.Errorf("iterate ledger entries: %w", err)
	}

	totalPages := 0
	if page.Size > 0 {
		totalPages = int((total + int64(page.Size) - 1) / int64(page.Size))
	}

	return domain.LedgerPage{
		Entries:       entries,
		Page:          page.Page,
		TotalPages:    totalPages,
		TotalElements: total,
		HasNext:       page.Page+1 < totalPages,
		HasPrevious:   page.Page > 0,
	}, nil
}

func buildLedgerPredicates(filter domain.LedgerFilter) (string, []any) {
	predicates := make([]string, 0, 7)
	args := make([]any, 0, 7)

	add := func(clause string, value any) {
		args = append(args, value)
		predicates = append(predicates, fmt.Sprintf(clause, len(args)))
	}

	if filter.AccountID != nil {
		add("l.account_id = $%d", *filter.AccountID)
	}
	if filter.StartDate != nil {
		add("l.created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("l.created_at <= $%d", *filter.EndDate)
	}
	if filter.Type != nil {
		add("l.transaction_type = $%d", *filter.Type)
	}
	if filter.Direction != nil {
		add("l.transaction_direction = $%d", *filter.Direction)
	}
	if filter.MinAmount != nil {
		add("l.amount >= $%d::numeric", filter.MinAmount.StringFixed(2))
	}
	if filter.MaxAmount != nil {
		add("l.amount <= $%d::numeric", filter.MaxAmount.StringFixed(2))
	}

	if len(predicates) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(predicates, "\n  AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedgerEntry(row rowScanner) (domain.LedgerEntry, error) {
	var (
		entry             domain.LedgerEntry
		transferReference sql.NullString
	)

	if err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.AccountNumber,
		&entry.Amount,
		&entry.TransactionType,
		&entry.Direction,
		&entry.Status,
		&entry.BalanceAfter,
		&entry.Description,
		&entry.ReferenceNumber,
		&transferReference,
		&entry.CreatedAt,
	); err != nil {
		return domain.LedgerEntry{}, err
	}

	if transferReference.Valid {
		entry.TransferReference = transferReference.String
	}
	return entry, nil
}

func scanLedgerEntryFromRows(rows *sql.Rows) (domain.LedgerEntry, error) {
	entry, err := scanLedgerEntry(rows)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("scan ledger entry: %w", err)
	}
	return entry, nil
}
