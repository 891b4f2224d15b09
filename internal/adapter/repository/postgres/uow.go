package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/repo_interfaces"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the repositories can run
// standalone reads or take part in a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UnitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn inside one database transaction. Every repository obtained from
// the Stores argument shares that transaction; an error from fn (or commit)
// leaves the database exactly as it was.
func (u *UnitOfWork) Do(ctx context.Context, fn func(s repo_interfaces.Stores) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("unit of work begin tx failed", err, nil)
		return fmt.Errorf("begin unit of work: %w", err)
	}

	if err := fn(&txStores{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("unit of work commit failed", err, nil)
		return fmt.Errorf("commit unit of work: %w", translateError(err))
	}

	return nil
}

type txStores struct {
	tx *sql.Tx
}

func (s *txStores) Accounts() repo_interfaces.AccountRepository {
	return NewAccountRepository(s.tx)
}

func (s *txStores) Ledger() repo_interfaces.LedgerRepository {
	return NewLedgerRepository(s.tx)
}
