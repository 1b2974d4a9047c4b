package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ProgrammerArk/Bank-API/internal/models"
)

type postgresTransactionRepository struct {
	q DBTX
}

const transactionColumns = `id, amount, transaction_type, description, balance_after, transaction_date, account_id`

func (r *postgresTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `INSERT INTO transactions (amount, transaction_type, description, balance_after, transaction_date, account_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.q.QueryRowContext(ctx, query,
		transaction.Amount, string(transaction.Type), transaction.Description,
		transaction.BalanceAfter, transaction.TransactionDate, transaction.AccountID,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Ties on transaction_date resolve to the most recent insertion via id.
func (r *postgresTransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY transaction_date DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by account: %w", err)
	}
	return scanTransactions(rows)
}

func (r *postgresTransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Transaction, error) {
	query := `SELECT t.id, t.amount, t.transaction_type, t.description, t.balance_after, t.transaction_date, t.account_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.owner_id = $1
		ORDER BY t.transaction_date DESC, t.id DESC`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by owner: %w", err)
	}
	return scanTransactions(rows)
}

func (r *postgresTransactionRepository) DeleteByAccount(ctx context.Context, accountID int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to delete transactions by account: %w", err)
	}
	return nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var transactionType string
		if err := rows.Scan(
			&t.ID, &t.Amount, &transactionType, &t.Description,
			&t.BalanceAfter, &t.TransactionDate, &t.AccountID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = models.TransactionType(transactionType)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}
