package repo_interfaces

import "context"

// Stores exposes the repositories bound to one transaction so every
// mutation inside the closure shares the same session.
type Stores interface {
	Accounts() AccountRepository
	Ledger() LedgerRepository
}

// UnitOfWork runs a closure of store mutations with all-or-nothing commit.
// An error from the closure rolls back every account update and ledger
// insert made through the Stores it was given.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}
