package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/models"
)

type postgresAccountRepository struct {
	q DBTX
}

const accountColumns = `id, account_name, account_type, balance, account_number, owner_id, created_at, updated_at`

func (r *postgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (account_name, account_type, balance, account_number, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.q.QueryRowContext(ctx, query,
		account.Name, account.Type, account.Balance,
		account.AccountNumber, account.OwnerID,
		account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict("Account number already exists")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *postgresAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id), id)
}

func (r *postgresAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id), id)
}

func (r *postgresAccountRepository) scanAccount(row *sql.Row, id int64) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.Name, &account.Type, &account.Balance,
		&account.AccountNumber, &account.OwnerID,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("Bank account not found with ID: %d", id)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

func (r *postgresAccountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.Name, &account.Type, &account.Balance,
			&account.AccountNumber, &account.OwnerID,
			&account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}
	return accounts, nil
}

func (r *postgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts
		SET account_name = $2, account_type = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, account.ID, account.Name, account.Type, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRowAffected(result, func() error {
		return apperrors.NewNotFound("Bank account not found with ID: %d", account.ID)
	})
}

func (r *postgresAccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, balance, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	return requireRowAffected(result, func() error {
		return apperrors.NewNotFound("Bank account not found with ID: %d", id)
	})
}

func (r *postgresAccountRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRowAffected(result, func() error {
		return apperrors.NewNotFound("Bank account not found with ID: %d", id)
	})
}

func (r *postgresAccountRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (r *postgresAccountRepository) NextAccountNumberSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.q.QueryRowContext(ctx, `SELECT nextval('account_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to advance account number sequence: %w", err)
	}
	return seq, nil
}
