package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/models"
)

const pqUniqueViolation = "23505"

type postgresUserRepository struct {
	q DBTX
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (first_name, last_name, email, phone_number, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.q.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email,
		user.PhoneNumber, user.Address,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict("Email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, first_name, last_name, email, phone_number, address, created_at, updated_at
		FROM users WHERE id = $1`

	user := &models.User{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PhoneNumber, &user.Address, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("User not found with ID: %d", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5, address = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email,
		user.PhoneNumber, user.Address, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict("Email already exists")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowAffected(result, func() error {
		return apperrors.NewNotFound("User not found with ID: %d", user.ID)
	})
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowAffected(result, func() error {
		return apperrors.NewNotFound("User not found with ID: %d", id)
	})
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func requireRowAffected(result sql.Result, notFound func() error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return notFound()
	}
	return nil
}
