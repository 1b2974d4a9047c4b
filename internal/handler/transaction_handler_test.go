package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/middleware"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/service"
)

// ---- mock implementations ----

type mockLedger struct {
	applyFn         func(accountID, requesterID int64, params service.ApplyTransactionParams) (*models.Transaction, error)
	listByAccountFn func(accountID, requesterID int64) ([]models.Transaction, error)
	listByUserFn    func(requesterID int64) ([]models.Transaction, error)
}

func (m *mockLedger) Apply(_ context.Context, accountID, requesterID int64, params service.ApplyTransactionParams) (*models.Transaction, error) {
	if m.applyFn != nil {
		return m.applyFn(accountID, requesterID, params)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockLedger) ListByAccount(_ context.Context, accountID, requesterID int64) ([]models.Transaction, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(accountID, requesterID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockLedger) ListByUser(_ context.Context, requesterID int64) ([]models.Transaction, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(requesterID)
	}
	return nil, fmt.Errorf("not configured")
}

func newTransactionTestRouter(ledger Ledger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTransactionHandler(ledger, testLogger())
	authed := r.Group("/v1", middleware.Auth())
	authed.POST("/accounts/:accountId/transactions", h.Create)
	authed.GET("/accounts/:accountId/transactions", h.ListByAccount)
	return r
}

// ---- test data ----

var testTransaction = &models.Transaction{
	ID:              1,
	Amount:          decimal.RequireFromString("50.00"),
	Type:            models.TransactionDeposit,
	Description:     "salary",
	BalanceAfter:    decimal.RequireFromString("1050.00"),
	TransactionDate: time.Now().UTC(),
	AccountID:       1,
}

func depositBody() map[string]any {
	return map[string]any{"amount": 50.00, "transactionType": "DEPOSIT", "description": "salary"}
}

// ---- tests ----

func TestTransactionHandlerCreate(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           any
		applyFn        func(accountID, requesterID int64, params service.ApplyTransactionParams) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success - deposit",
			url:  "/v1/accounts/1/transactions",
			body: depositBody(),
			applyFn: func(int64, int64, service.ApplyTransactionParams) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success - lowercase transaction type",
			url:  "/v1/accounts/1/transactions",
			body: map[string]any{"amount": 25.00, "transactionType": "withdrawal"},
			applyFn: func(int64, int64, service.ApplyTransactionParams) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable - insufficient funds",
			url:  "/v1/accounts/1/transactions",
			body: map[string]any{"amount": 500.00, "transactionType": "WITHDRAWAL"},
			applyFn: func(int64, int64, service.ApplyTransactionParams) (*models.Transaction, error) {
				return nil, apperrors.NewUnprocessable("Insufficient funds. Current balance: 100.00")
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "forbidden - another user's account",
			url:  "/v1/accounts/2/transactions",
			body: depositBody(),
			applyFn: func(int64, int64, service.ApplyTransactionParams) (*models.Transaction, error) {
				return nil, apperrors.NewForbidden("You can only access your own bank accounts")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - account does not exist",
			url:  "/v1/accounts/9999/transactions",
			body: depositBody(),
			applyFn: func(accountID, _ int64, _ service.ApplyTransactionParams) (*models.Transaction, error) {
				return nil, apperrors.NewNotFound("Bank account not found with ID: %d", accountID)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - missing amount",
			url:            "/v1/accounts/1/transactions",
			body:           map[string]any{"transactionType": "DEPOSIT"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - zero amount",
			url:            "/v1/accounts/1/transactions",
			body:           map[string]any{"amount": 0, "transactionType": "DEPOSIT"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - negative amount",
			url:            "/v1/accounts/1/transactions",
			body:           map[string]any{"amount": -10.00, "transactionType": "DEPOSIT"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - unknown transaction type",
			url:            "/v1/accounts/1/transactions",
			body:           map[string]any{"amount": 10.00, "transactionType": "TRANSFER"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionTestRouter(&mockLedger{applyFn: tt.applyFn})
			w := doRequest(router, http.MethodPost, tt.url, tt.body, "1")
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestTransactionHandlerCreateParsesType(t *testing.T) {
	var got service.ApplyTransactionParams
	router := newTransactionTestRouter(&mockLedger{
		applyFn: func(_, _ int64, params service.ApplyTransactionParams) (*models.Transaction, error) {
			got = params
			return testTransaction, nil
		},
	})

	w := doRequest(router, http.MethodPost, "/v1/accounts/1/transactions", map[string]any{
		"amount": 25.50, "transactionType": "withdrawal", "description": "groceries",
	}, "1")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if got.Type != models.TransactionWithdrawal {
		t.Errorf("type = %q, want WITHDRAWAL", got.Type)
	}
	if !got.Amount.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("amount = %s, want 25.50", got.Amount)
	}
	if got.Description != "groceries" {
		t.Errorf("description = %q", got.Description)
	}
}

func TestTransactionHandlerListByAccount(t *testing.T) {
	tests := []struct {
		name           string
		listFn         func(accountID, requesterID int64) ([]models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success",
			listFn: func(int64, int64) ([]models.Transaction, error) {
				return []models.Transaction{*testTransaction}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - another user's account",
			listFn: func(int64, int64) ([]models.Transaction, error) {
				return nil, apperrors.NewForbidden("You can only access your own bank accounts")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - account does not exist",
			listFn: func(accountID, _ int64) ([]models.Transaction, error) {
				return nil, apperrors.NewNotFound("Bank account not found with ID: %d", accountID)
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionTestRouter(&mockLedger{listByAccountFn: tt.listFn})
			w := doRequest(router, http.MethodGet, "/v1/accounts/1/transactions", nil, "1")
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestTransactionHandlerListReturnsEmptyArray(t *testing.T) {
	router := newTransactionTestRouter(&mockLedger{
		listByAccountFn: func(int64, int64) ([]models.Transaction, error) { return nil, nil },
	})
	w := doRequest(router, http.MethodGet, "/v1/accounts/1/transactions", nil, "1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "[]" {
		t.Errorf("body = %q, want bare empty array", got)
	}
}

func TestTransactionHandlerResponseShape(t *testing.T) {
	router := newTransactionTestRouter(&mockLedger{
		applyFn: func(int64, int64, service.ApplyTransactionParams) (*models.Transaction, error) {
			return testTransaction, nil
		},
	})
	w := doRequest(router, http.MethodPost, "/v1/accounts/1/transactions", depositBody(), "1")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"transactionId", "amount", "transactionType", "balanceAfter", "transactionDate", "accountId"} {
		if _, ok := body[field]; !ok {
			t.Errorf("response missing field %q", field)
		}
	}
}
