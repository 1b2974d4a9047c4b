package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, letting the same repository
// code serve plain calls and ExecTx-scoped calls.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore is the production Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens and verifies a PostgreSQL connection pool.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) Users() UserRepository { return &postgresUserRepository{q: s.db} }

func (s *PostgresStore) Accounts() AccountRepository { return &postgresAccountRepository{q: s.db} }

func (s *PostgresStore) Transactions() TransactionRepository {
	return &postgresTransactionRepository{q: s.db}
}

// ExecTx runs fn inside a read-committed database transaction. Per-account
// serialisation comes from GetByIDForUpdate row locks taken inside fn.
func (s *PostgresStore) ExecTx(ctx context.Context, fn func(r Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	repos := Repositories{
		Users:        &postgresUserRepository{q: tx},
		Accounts:     &postgresAccountRepository{q: tx},
		Transactions: &postgresTransactionRepository{q: tx},
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

// EnsureSchema creates the tables, indexes and the account number sequence if
// they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			account_name TEXT NOT NULL,
			account_type TEXT NOT NULL,
			balance NUMERIC(19,2) NOT NULL CHECK (balance >= 0),
			account_number TEXT NOT NULL UNIQUE,
			owner_id BIGINT NOT NULL REFERENCES users (id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts (owner_id)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			amount NUMERIC(19,2) NOT NULL CHECK (amount > 0),
			transaction_type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			balance_after NUMERIC(19,2) NOT NULL,
			transaction_date TIMESTAMPTZ NOT NULL,
			account_id BIGINT NOT NULL REFERENCES accounts (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id)`,
		`CREATE SEQUENCE IF NOT EXISTS account_number_seq`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
