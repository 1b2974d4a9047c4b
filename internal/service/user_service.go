// Package service implements the core business operations: the identity
// directory, the account registry and the ledger. Every operation resolves
// its target resource, consults the ownership guard, and only then mutates
// or reveals data.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/authz"
	"github.com/ProgrammerArk/Bank-API/internal/cache"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/repository"
)

type CreateUserParams struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
}

// UserService owns user records and enforces email uniqueness.
type UserService struct {
	store  repository.Store
	views  *cache.ViewCache[models.User]
	logger *zap.Logger
}

func NewUserService(store repository.Store, views *cache.ViewCache[models.User], logger *zap.Logger) *UserService {
	return &UserService{store: store, views: views, logger: logger}
}

// Create registers a new user. Registration is the one anonymous operation;
// no ownership check applies.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	taken, err := s.store.Users().EmailExists(ctx, params.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("Email already exists")
	}

	now := time.Now().UTC()
	user := &models.User{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		PhoneNumber: params.PhoneNumber,
		Address:     params.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID))
	return user, nil
}

// Get returns the user's own record. The ownership check runs before the
// existence check, so a caller cannot tell "not yours" from "does not exist"
// for someone else's id.
func (s *UserService) Get(ctx context.Context, userID, requesterID int64) (*models.User, error) {
	if err := authz.RequireOwner(userID, requesterID, "You can only access your own user details"); err != nil {
		return nil, err
	}

	if user, ok := s.views.Get(ctx, cache.UserKey(userID)); ok {
		return user, nil
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.views.Set(ctx, cache.UserKey(userID), user)
	return user, nil
}

// Update applies a partial patch to the user's own record. Absent fields are
// left unchanged, never cleared.
func (s *UserService) Update(ctx context.Context, userID, requesterID int64, patch models.UserPatch) (*models.User, error) {
	if err := authz.RequireOwner(userID, requesterID, "You can only update your own user details"); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil && *patch.Email != user.Email {
		taken, err := s.store.Users().EmailExists(ctx, *patch.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewConflict("Email already exists")
		}
		user.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		user.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	s.views.Delete(ctx, cache.UserKey(userID))

	s.logger.Info("user updated", zap.Int64("user_id", userID))
	return user, nil
}

// Delete removes the user's own record. Users who still own accounts cannot
// be deleted.
func (s *UserService) Delete(ctx context.Context, userID, requesterID int64) error {
	if err := authz.RequireOwner(userID, requesterID, "You can only delete your own user account"); err != nil {
		return err
	}

	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return err
	}

	count, err := s.store.Accounts().CountByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("Cannot delete user with existing bank accounts")
	}

	if err := s.store.Users().Delete(ctx, userID); err != nil {
		return err
	}
	s.views.Delete(ctx, cache.UserKey(userID))

	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}
