// Package repository defines the storage contracts for users, accounts and
// transactions, plus the transactional boundary the ledger relies on. Two
// implementations exist: PostgreSQL (production) and an in-memory store
// (tests, dev mode).
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ProgrammerArk/Bank-API/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// EmailExists reports whether email is taken by a user other than excludeID.
	// Pass 0 to check across all users.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	// GetByIDForUpdate locks the account row for the duration of the enclosing
	// storage transaction. Only meaningful inside ExecTx.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	// NextAccountNumberSeq returns the next value of the monotonic sequence
	// backing account number generation.
	NextAccountNumberSeq(ctx context.Context) (int64, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	// ListByAccount returns the account's transactions ordered by
	// transaction date descending, most recent insertion first on ties.
	ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error)
	// ListByOwner returns transactions across all accounts owned by ownerID,
	// same ordering as ListByAccount.
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Transaction, error)
	DeleteByAccount(ctx context.Context, accountID int64) error
}

// Repositories bundles transaction-scoped repository instances handed to an
// ExecTx callback.
type Repositories struct {
	Users        UserRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
}

// Store is the top-level storage handle.
type Store interface {
	Users() UserRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	// ExecTx runs fn within a single storage transaction. Every write made
	// through the passed repositories commits together or not at all.
	ExecTx(ctx context.Context, fn func(r Repositories) error) error
	Close() error
}
