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
)

type ApplyTransactionParams struct {
	Amount      decimal.Decimal
	Type        models.TransactionType
	Description string
}

// TransactionService is the ledger: it applies deposits and withdrawals to
// an account and appends the immutable transaction history.
type TransactionService struct {
	store        repository.Store
	accountViews *cache.ViewCache[models.Account]
	logger       *zap.Logger
}

func NewTransactionService(store repository.Store, accountViews *cache.ViewCache[models.Account], logger *zap.Logger) *TransactionService {
	return &TransactionService{store: store, accountViews: accountViews, logger: logger}
}

// Apply executes a deposit or withdrawal. The balance update and the
// transaction record commit together under a lock on the account row, so two
// concurrent calls on the same account cannot both read the same starting
// balance. Nothing is mutated when the operation fails.
func (s *TransactionService) Apply(ctx context.Context, accountID, requesterID int64, params ApplyTransactionParams) (*models.Transaction, error) {
	// Zero or negative amounts are rejected here as well as at the HTTP
	// boundary: the ledger never records a no-op.
	if !params.Amount.IsPositive() {
		return nil, apperrors.NewValidation("amount", "Amount must be greater than 0")
	}
	if params.Type != models.TransactionDeposit && params.Type != models.TransactionWithdrawal {
		return nil, apperrors.NewValidation("transactionType", "Transaction type must be DEPOSIT or WITHDRAWAL")
	}

	var transaction *models.Transaction
	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		account, err := r.Accounts.GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if err := authz.RequireOwner(account.OwnerID, requesterID, "You can only access your own bank accounts"); err != nil {
			return err
		}

		var newBalance decimal.Decimal
		if params.Type == models.TransactionDeposit {
			newBalance = account.Balance.Add(params.Amount)
		} else {
			if account.Balance.LessThan(params.Amount) {
				return apperrors.NewUnprocessable("Insufficient funds. Current balance: %s", account.Balance.StringFixed(2))
			}
			newBalance = account.Balance.Sub(params.Amount)
		}

		now := time.Now().UTC()
		if err := r.Accounts.UpdateBalance(ctx, accountID, newBalance, now); err != nil {
			return err
		}

		transaction = &models.Transaction{
			Amount:          params.Amount,
			Type:            params.Type,
			Description:     params.Description,
			BalanceAfter:    newBalance,
			TransactionDate: now,
			AccountID:       accountID,
		}
		return r.Transactions.Create(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}
	s.accountViews.Delete(ctx, cache.AccountKey(accountID))

	s.logger.Info("transaction applied",
		zap.Int64("transaction_id", transaction.ID),
		zap.Int64("account_id", accountID),
		zap.String("type", string(transaction.Type)),
		zap.String("amount", transaction.Amount.StringFixed(2)),
		zap.String("balance_after", transaction.BalanceAfter.StringFixed(2)),
	)
	return transaction, nil
}

// ListByAccount returns the account's history, most recent first. The
// requester must own the account.
func (s *TransactionService) ListByAccount(ctx context.Context, accountID, requesterID int64) ([]models.Transaction, error) {
	if _, err := resolveOwnedAccount(ctx, s.store.Accounts(), accountID, requesterID); err != nil {
		return nil, err
	}
	return s.store.Transactions().ListByAccount(ctx, accountID)
}

// ListByUser returns transactions across all accounts owned by requesterID,
// most recent first. The query is pre-scoped to the requester's own
// accounts, so no separate ownership check applies.
func (s *TransactionService) ListByUser(ctx context.Context, requesterID int64) ([]models.Transaction, error) {
	return s.store.Transactions().ListByOwner(ctx, requesterID)
}
