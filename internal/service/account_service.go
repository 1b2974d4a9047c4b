package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/authz"
	"github.com/ProgrammerArk/Bank-API/internal/cache"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/repository"
	"github.com/ProgrammerArk/Bank-API/internal/utils"
)

type CreateAccountParams struct {
	Name           string
	Type           string
	InitialBalance decimal.Decimal
}

// AccountService owns bank accounts: exclusive ownership, collision-free
// account numbers, and the cascade that removes an account together with its
// transaction history.
type AccountService struct {
	store  repository.Store
	views  *cache.ViewCache[models.Account]
	logger *zap.Logger
}

func NewAccountService(store repository.Store, views *cache.ViewCache[models.Account], logger *zap.Logger) *AccountService {
	return &AccountService{store: store, views: views, logger: logger}
}

// Create opens an account for ownerID. The owner must exist; the initial
// balance must be non-negative.
func (s *AccountService) Create(ctx context.Context, ownerID int64, params CreateAccountParams) (*models.Account, error) {
	if params.InitialBalance.IsNegative() {
		return nil, apperrors.NewValidation("initialBalance", "Initial balance must be non-negative")
	}
	if _, err := s.store.Users().GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	seq, err := s.store.Accounts().NextAccountNumberSeq(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &models.Account{
		Name:          params.Name,
		Type:          params.Type,
		Balance:       params.InitialBalance,
		AccountNumber: utils.FormatAccountNumber(seq),
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int64("account_id", account.ID),
		zap.Int64("owner_id", ownerID),
		zap.String("account_number", account.AccountNumber),
	)
	return account, nil
}

// List returns all accounts owned by ownerID.
func (s *AccountService) List(ctx context.Context, ownerID int64) ([]models.Account, error) {
	return s.store.Accounts().ListByOwner(ctx, ownerID)
}

// Get returns a single account. Unlike user access, the existence check runs
// first: an unknown id is NotFound even for a stranger.
func (s *AccountService) Get(ctx context.Context, accountID, requesterID int64) (*models.Account, error) {
	if account, ok := s.views.Get(ctx, cache.AccountKey(accountID)); ok {
		if err := authz.RequireOwner(account.OwnerID, requesterID, "You can only access your own bank accounts"); err != nil {
			return nil, err
		}
		return account, nil
	}

	account, err := resolveOwnedAccount(ctx, s.store.Accounts(), accountID, requesterID)
	if err != nil {
		return nil, err
	}
	s.views.Set(ctx, cache.AccountKey(accountID), account)
	return account, nil
}

// Update applies a partial patch to name and type. Balance and account
// number are never mutated through this path.
func (s *AccountService) Update(ctx context.Context, accountID, requesterID int64, patch models.AccountPatch) (*models.Account, error) {
	account, err := resolveOwnedAccount(ctx, s.store.Accounts(), accountID, requesterID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.Type != nil {
		account.Type = *patch.Type
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return nil, err
	}
	s.views.Delete(ctx, cache.AccountKey(accountID))

	s.logger.Info("account updated", zap.Int64("account_id", accountID))
	return account, nil
}

// Delete removes the account and every one of its transactions as a single
// unit. The history is owned by the account and dies with it.
func (s *AccountService) Delete(ctx context.Context, accountID, requesterID int64) error {
	if _, err := resolveOwnedAccount(ctx, s.store.Accounts(), accountID, requesterID); err != nil {
		return err
	}

	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Accounts.GetByIDForUpdate(ctx, accountID); err != nil {
			return err
		}
		if err := r.Transactions.DeleteByAccount(ctx, accountID); err != nil {
			return err
		}
		return r.Accounts.Delete(ctx, accountID)
	})
	if err != nil {
		return err
	}
	s.views.Delete(ctx, cache.AccountKey(accountID))

	s.logger.Info("account deleted", zap.Int64("account_id", accountID))
	return nil
}

// ResolveOwned looks up an account and verifies the requester owns it,
// returning the live record. The ledger uses this for its read paths.
func (s *AccountService) ResolveOwned(ctx context.Context, accountID, requesterID int64) (*models.Account, error) {
	return resolveOwnedAccount(ctx, s.store.Accounts(), accountID, requesterID)
}

// resolveOwnedAccount combines lookup and ownership check: NotFound when the
// account does not exist, Forbidden when it belongs to someone else.
func resolveOwnedAccount(ctx context.Context, accounts repository.AccountRepository, accountID, requesterID int64) (*models.Account, error) {
	account, err := accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(account.OwnerID, requesterID, "You can only access your own bank accounts"); err != nil {
		return nil, err
	}
	return account, nil
}
