package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/repository/repo_interfaces"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/domain"
	"github.com/shopspring/decimal"
)

// fakeStore backs the repository interfaces with in-memory maps. The unit of
// work holds the store mutex for the whole closure and restores a snapshot on
// error, which mirrors the serialization and rollback behavior the services
// rely on.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[int64]*domain.Account
	entries  []domain.LedgerEntry

	nextAccountID int64
	nextEntryID   int64

	// duplicateInserts makes the next N ledger inserts fail with
	// domain.ErrDuplicateReference.
	duplicateInserts int

	// failInsertAfter fails the Nth ledger insert of the current unit of
	// work with failInsertErr. Zero disables the fault.
	failInsertAfter int
	failInsertErr   error
	insertCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:      make(map[int64]*domain.Account),
		nextAccountID: 1,
		nextEntryID:   1,
	}
}

func (f *fakeStore) addAccount(account domain.Account) domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()

	account.ID = f.nextAccountID
	f.nextAccountID++
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	stored := account
	f.accounts[account.ID] = &stored
	return account
}

func (f *fakeStore) balanceOf(id int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id].Balance
}

func (f *fakeStore) ledgerRows() []domain.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.LedgerEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *fakeStore) snapshot() ([]domain.LedgerEntry, map[int64]domain.Account) {
	entries := make([]domain.LedgerEntry, len(f.entries))
	copy(entries, f.entries)
	accounts := make(map[int64]domain.Account, len(f.accounts))
	for id, account := range f.accounts {
		accounts[id] = *account
	}
	return entries, accounts
}

func (f *fakeStore) restore(entries []domain.LedgerEntry, accounts map[int64]domain.Account) {
	f.entries = entries
	f.accounts = make(map[int64]*domain.Account, len(accounts))
	for id, account := range accounts {
		stored := account
		f.accounts[id] = &stored
	}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(s repo_interfaces.Stores) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	entries, accounts := u.store.snapshot()
	u.store.insertCalls = 0

	if err := fn(&fakeStores{store: u.store}); err != nil {
		u.store.restore(entries, accounts)
		return err
	}
	return nil
}

type fakeStores struct {
	store *fakeStore
}

func (s *fakeStores) Accounts() repo_interfaces.AccountRepository {
	return &fakeAccountRepo{store: s.store, inTx: true}
}

func (s *fakeStores) Ledger() repo_interfaces.LedgerRepository {
	return &fakeLedgerRepo{store: s.store, inTx: true}
}

type fakeAccountRepo struct {
	store *fakeStore
	inTx  bool
}

func (r *fakeAccountRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	defer r.lock()()

	account.ID = r.store.nextAccountID
	r.store.nextAccountID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := account
	r.store.accounts[account.ID] = &stored
	return account, nil
}

func (r *fakeAccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	defer r.lock()()

	for _, account := range r.store.accounts {
		if account.AccountNumber == accountNumber {
			return *account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (r *fakeAccountRepo) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	defer r.lock()()

	for _, account := range r.store.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	defer r.lock()()

	var out []domain.Account
	for _, account := range r.store.accounts {
		if account.UserID == userID {
			out = append(out, *account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) HasActiveAccountOfType(ctx context.Context, userID int64, accountType domain.AccountType) (bool, error) {
	defer r.lock()()

	for _, account := range r.store.accounts {
		if account.UserID == userID && account.AccountType == accountType && account.Active {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) GetByIDForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	defer r.lock()()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return *account, nil
}

func (r *fakeAccountRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	defer r.lock()()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	account.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAccountRepo) SystemTotals(ctx context.Context) (domain.SystemTotals, error) {
	defer r.lock()()

	totals := domain.SystemTotals{TotalBalance: decimal.Zero, AverageBalance: decimal.Zero}
	users := make(map[int64]struct{})
	for _, account := range r.store.accounts {
		if !account.Active {
			continue
		}
		totals.TotalBalance = totals.TotalBalance.Add(account.Balance)
		totals.ActiveAccounts++
		users[account.UserID] = struct{}{}
	}
	totals.DistinctActiveUsers = int64(len(users))
	if totals.ActiveAccounts > 0 {
		totals.AverageBalance = totals.TotalBalance.Div(decimal.NewFromInt(totals.ActiveAccounts)).Round(2)
	}
	return totals, nil
}

func (r *fakeAccountRepo) ListBelowBalance(ctx context.Context, threshold decimal.Decimal) ([]domain.Account, error) {
	defer r.lock()()

	var out []domain.Account
	for _, account := range r.store.accounts {
		if account.Active && account.Balance.LessThan(threshold) {
			out = append(out, *account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Balance.LessThan(out[j].Balance) })
	return out, nil
}

func (r *fakeAccountRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.AccountSummary, error) {
	defer r.lock()()

	var out []domain.AccountSummary
	for _, account := range r.store.accounts {
		if strings.Contains(account.AccountNumber, query) {
			out = append(out, domain.AccountSummary{
				AccountNumber: account.AccountNumber,
				AccountType:   account.AccountType,
				Balance:       account.Balance,
				Active:        account.Active,
				CreatedAt:     account.CreatedAt,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeLedgerRepo struct {
	store *fakeStore
	inTx  bool
}

func (r *fakeLedgerRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeLedgerRepo) Insert(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	defer r.lock()()

	r.store.insertCalls++
	if r.store.failInsertAfter > 0 && r.store.insertCalls == r.store.failInsertAfter && r.store.failInsertErr != nil {
		return domain.LedgerEntry{}, r.store.failInsertErr
	}
	if r.store.duplicateInserts > 0 {
		r.store.duplicateInserts--
		return domain.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", domain.ErrDuplicateReference)
	}
	for _, existing := range r.store.entries {
		if existing.ReferenceNumber == entry.ReferenceNumber {
			return domain.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", domain.ErrDuplicateReference)
		}
	}

	entry.ID = r.store.nextEntryID
	r.store.nextEntryID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if account, ok := r.store.accounts[entry.AccountID]; ok {
		entry.AccountNumber = account.AccountNumber
	}
	r.store.entries = append(r.store.entries, entry)
	return entry, nil
}

func (r *fakeLedgerRepo) GetByReferenceNumber(ctx context.Context, referenceNumber string) (domain.LedgerEntry, error) {
	defer r.lock()()

	for _, entry := range r.store.entries {
		if entry.ReferenceNumber == referenceNumber {
			return entry, nil
		}
	}
	return domain.LedgerEntry{}, domain.ErrTransactionNotFound
}

func (r *fakeLedgerRepo) Query(ctx context.Context, filter domain.LedgerFilter, page domain.PageRequest) (domain.LedgerPage, error) {
	defer r.lock()()

	var matched []domain.LedgerEntry
	for _, entry := range r.store.entries {
		if filter.AccountID != nil && entry.AccountID != *filter.AccountID {
			continue
		}
		if filter.Type != nil && entry.TransactionType != *filter.Type {
			continue
		}
		if filter.Direction != nil && entry.Direction != *filter.Direction {
			continue
		}
		if filter.StartDate != nil && entry.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.CreatedAt.After(*filter.EndDate) {
			continue
		}
		if filter.MinAmount != nil && entry.Amount.LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && entry.Amount.GreaterThan(*filter.MaxAmount) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	size := page.Size
	if size <= 0 {
		size = 20
	}
	totalPages := int((total + int64(size) - 1) / int64(size))

	start := page.Page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return domain.LedgerPage{
		Entries:       matched[start:end],
		Page:          page.Page,
		TotalPages:    totalPages,
		TotalElements: total,
		HasNext:       page.Page+1 < totalPages,
		HasPrevious:   page.Page > 0 && total > 0,
	}, nil
}
