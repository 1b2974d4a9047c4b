package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/cache"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/repository"
)

// ---- test fixtures ----

// testEnv wires the three services onto a shared in-memory store with the
// cache disabled, which is exactly the "memory" driver configuration.
type testEnv struct {
	store        *repository.MemoryStore
	users        *UserService
	accounts     *AccountService
	transactions *TransactionService
}

func newTestEnv() *testEnv {
	store := repository.NewMemoryStore()
	logger := zap.NewNop()
	userViews := cache.NewViewCache[models.User](nil, 0, logger)
	accountViews := cache.NewViewCache[models.Account](nil, 0, logger)
	return &testEnv{
		store:        store,
		users:        NewUserService(store, userViews, logger),
		accounts:     NewAccountService(store, accountViews, logger),
		transactions: NewTransactionService(store, accountViews, logger),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), CreateUserParams{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       email,
		PhoneNumber: "07700900123",
		Address:     "1 Test Street",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) seedAccount(t *testing.T, ownerID int64, balance string) *models.Account {
	t.Helper()
	account, err := e.accounts.Create(context.Background(), ownerID, CreateAccountParams{
		Name:           "Everyday Account",
		Type:           "personal",
		InitialBalance: dec(balance),
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
