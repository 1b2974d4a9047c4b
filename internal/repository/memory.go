package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store used by the test suite and
// the "memory" storage driver. ExecTx snapshots the maps up front and
// restores them when the callback fails, so callers observe the same
// all-or-nothing semantics as the PostgreSQL store.
type MemoryStore struct {
	mu sync.Mutex

	users        map[int64]*models.User
	accounts     map[int64]*models.Account
	transactions map[int64]*models.Transaction
	emailIndex   map[string]int64

	nextUserID        int64
	nextAccountID     int64
	nextTransactionID int64
	nextAccountSeq    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[int64]*models.User),
		accounts:     make(map[int64]*models.Account),
		transactions: make(map[int64]*models.Transaction),
		emailIndex:   make(map[string]int64),
	}
}

func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s, locking: true}
}

func (s *MemoryStore) Accounts() AccountRepository {
	return &memoryAccountRepository{store: s, locking: true}
}

func (s *MemoryStore) Transactions() TransactionRepository {
	return &memoryTransactionRepository{store: s, locking: true}
}

// ExecTx holds the store lock for the whole callback, which also serialises
// concurrent ledger writes the way a row lock does in PostgreSQL.
func (s *MemoryStore) ExecTx(ctx context.Context, fn func(r Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	repos := Repositories{
		Users:        &memoryUserRepository{store: s},
		Accounts:     &memoryAccountRepository{store: s},
		Transactions: &memoryTransactionRepository{store: s},
	}
	if err := fn(repos); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

type memorySnapshot struct {
	users        map[int64]*models.User
	accounts     map[int64]*models.Account
	transactions map[int64]*models.Transaction
	emailIndex   map[string]int64

	nextUserID        int64
	nextAccountID     int64
	nextTransactionID int64
	nextAccountSeq    int64
}

func (s *MemoryStore) snapshot() memorySnapshot {
	snap := memorySnapshot{
		users:             make(map[int64]*models.User, len(s.users)),
		accounts:          make(map[int64]*models.Account, len(s.accounts)),
		transactions:      make(map[int64]*models.Transaction, len(s.transactions)),
		emailIndex:        make(map[string]int64, len(s.emailIndex)),
		nextUserID:        s.nextUserID,
		nextAccountID:     s.nextAccountID,
		nextTransactionID: s.nextTransactionID,
		nextAccountSeq:    s.nextAccountSeq,
	}
	for id, u := range s.users {
		copied := *u
		snap.users[id] = &copied
	}
	for id, a := range s.accounts {
		copied := *a
		snap.accounts[id] = &copied
	}
	for id, t := range s.transactions {
		copied := *t
		snap.transactions[id] = &copied
	}
	for email, id := range s.emailIndex {
		snap.emailIndex[email] = id
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.users = snap.users
	s.accounts = snap.accounts
	s.transactions = snap.transactions
	s.emailIndex = snap.emailIndex
	s.nextUserID = snap.nextUserID
	s.nextAccountID = snap.nextAccountID
	s.nextTransactionID = snap.nextTransactionID
	s.nextAccountSeq = snap.nextAccountSeq
}

// lock acquires the store mutex unless the repository is already running
// inside ExecTx, which holds it for the whole callback.
func (s *MemoryStore) lock(locking bool) func() {
	if !locking {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memoryUserRepository struct {
	store   *MemoryStore
	locking bool
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.store.lock(r.locking)()

	if _, taken := r.store.emailIndex[user.Email]; taken {
		return apperrors.NewConflict("Email already exists")
	}
	r.store.nextUserID++
	user.ID = r.store.nextUserID

	copied := *user
	r.store.users[user.ID] = &copied
	r.store.emailIndex[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	defer r.store.lock(r.locking)()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("User not found with ID: %d", id)
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	defer r.store.lock(r.locking)()

	id, taken := r.store.emailIndex[email]
	return taken && id != excludeID, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *models.User) error {
	defer r.store.lock(r.locking)()

	existing, ok := r.store.users[user.ID]
	if !ok {
		return apperrors.NewNotFound("User not found with ID: %d", user.ID)
	}
	if id, taken := r.store.emailIndex[user.Email]; taken && id != user.ID {
		return apperrors.NewConflict("Email already exists")
	}
	delete(r.store.emailIndex, existing.Email)
	copied := *user
	r.store.users[user.ID] = &copied
	r.store.emailIndex[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.lock(r.locking)()

	user, ok := r.store.users[id]
	if !ok {
		return apperrors.NewNotFound("User not found with ID: %d", id)
	}
	delete(r.store.emailIndex, user.Email)
	delete(r.store.users, id)
	return nil
}

type memoryAccountRepository struct {
	store   *MemoryStore
	locking bool
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	defer r.store.lock(r.locking)()

	r.store.nextAccountID++
	account.ID = r.store.nextAccountID

	copied := *account
	r.store.accounts[account.ID] = &copied
	return nil
}

func (r *memoryAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	defer r.store.lock(r.locking)()
	return r.store.getAccount(id)
}

// The ExecTx store lock already serialises writers, so the locked read is the
// same as a plain read here.
func (r *memoryAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	defer r.store.lock(r.locking)()
	return r.store.getAccount(id)
}

func (s *MemoryStore) getAccount(id int64) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.NewNotFound("Bank account not found with ID: %d", id)
	}
	copied := *account
	return &copied, nil
}

func (r *memoryAccountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error) {
	defer r.store.lock(r.locking)()

	var accounts []models.Account
	for _, account := range r.store.accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, *account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *memoryAccountRepository) Update(ctx context.Context, account *models.Account) error {
	defer r.store.lock(r.locking)()

	if _, ok := r.store.accounts[account.ID]; !ok {
		return apperrors.NewNotFound("Bank account not found with ID: %d", account.ID)
	}
	copied := *account
	r.store.accounts[account.ID] = &copied
	return nil
}

func (r *memoryAccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	defer r.store.lock(r.locking)()

	account, ok := r.store.accounts[id]
	if !ok {
		return apperrors.NewNotFound("Bank account not found with ID: %d", id)
	}
	account.Balance = balance
	account.UpdatedAt = updatedAt
	return nil
}

func (r *memoryAccountRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.lock(r.locking)()

	if _, ok := r.store.accounts[id]; !ok {
		return apperrors.NewNotFound("Bank account not found with ID: %d", id)
	}
	delete(r.store.accounts, id)
	return nil
}

func (r *memoryAccountRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	defer r.store.lock(r.locking)()

	count := 0
	for _, account := range r.store.accounts {
		if account.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *memoryAccountRepository) NextAccountNumberSeq(ctx context.Context) (int64, error) {
	defer r.store.lock(r.locking)()

	r.store.nextAccountSeq++
	return r.store.nextAccountSeq, nil
}

type memoryTransactionRepository struct {
	store   *MemoryStore
	locking bool
}

func (r *memoryTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	defer r.store.lock(r.locking)()

	r.store.nextTransactionID++
	transaction.ID = r.store.nextTransactionID

	copied := *transaction
	r.store.transactions[transaction.ID] = &copied
	return nil
}

func (r *memoryTransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	defer r.store.lock(r.locking)()

	return r.store.listTransactions(func(t *models.Transaction) bool {
		return t.AccountID == accountID
	}), nil
}

func (r *memoryTransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Transaction, error) {
	defer r.store.lock(r.locking)()

	owned := make(map[int64]bool)
	for id, account := range r.store.accounts {
		if account.OwnerID == ownerID {
			owned[id] = true
		}
	}
	return r.store.listTransactions(func(t *models.Transaction) bool {
		return owned[t.AccountID]
	}), nil
}

func (r *memoryTransactionRepository) DeleteByAccount(ctx context.Context, accountID int64) error {
	defer r.store.lock(r.locking)()

	for id, t := range r.store.transactions {
		if t.AccountID == accountID {
			delete(r.store.transactions, id)
		}
	}
	return nil
}

func (s *MemoryStore) listTransactions(match func(*models.Transaction) bool) []models.Transaction {
	var transactions []models.Transaction
	for _, t := range s.transactions {
		if match(t) {
			transactions = append(transactions, *t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].TransactionDate.Equal(transactions[j].TransactionDate) {
			return transactions[i].TransactionDate.After(transactions[j].TransactionDate)
		}
		return transactions[i].ID > transactions[j].ID
	})
	return transactions
}
