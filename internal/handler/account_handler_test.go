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

type mockAccountRegistry struct {
	createFn func(ownerID int64, params service.CreateAccountParams) (*models.Account, error)
	listFn   func(ownerID int64) ([]models.Account, error)
	getFn    func(accountID, requesterID int64) (*models.Account, error)
	updateFn func(accountID, requesterID int64, patch models.AccountPatch) (*models.Account, error)
	deleteFn func(accountID, requesterID int64) error
}

func (m *mockAccountRegistry) Create(_ context.Context, ownerID int64, params service.CreateAccountParams) (*models.Account, error) {
	if m.createFn != nil {
		return m.createFn(ownerID, params)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountRegistry) List(_ context.Context, ownerID int64) ([]models.Account, error) {
	if m.listFn != nil {
		return m.listFn(ownerID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountRegistry) Get(_ context.Context, accountID, requesterID int64) (*models.Account, error) {
	if m.getFn != nil {
		return m.getFn(accountID, requesterID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountRegistry) Update(_ context.Context, accountID, requesterID int64, patch models.AccountPatch) (*models.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(accountID, requesterID, patch)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountRegistry) Delete(_ context.Context, accountID, requesterID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(accountID, requesterID)
	}
	return fmt.Errorf("not configured")
}

func newAccountTestRouter(accounts AccountRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAccountHandler(accounts, testLogger())
	authed := r.Group("/v1", middleware.Auth())
	authed.POST("/accounts", h.Create)
	authed.GET("/accounts", h.List)
	authed.GET("/accounts/:accountId", h.Get)
	authed.PATCH("/accounts/:accountId", h.Update)
	authed.DELETE("/accounts/:accountId", h.Delete)
	return r
}

// ---- test data ----

var testAccount = &models.Account{
	ID:            1,
	Name:          "Everyday Account",
	Type:          "personal",
	Balance:       decimal.RequireFromString("1000.00"),
	AccountNumber: "EB00000000018",
	OwnerID:       1,
	CreatedAt:     time.Now().UTC(),
	UpdatedAt:     time.Now().UTC(),
}

func createAccountBody() map[string]any {
	return map[string]any{
		"accountName":    "Everyday Account",
		"accountType":    "personal",
		"initialBalance": 1000.00,
	}
}

// ---- tests ----

func TestAccountHandlerCreate(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFn       func(ownerID int64, params service.CreateAccountParams) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: createAccountBody(),
			createFn: func(int64, service.CreateAccountParams) (*models.Account, error) {
				return testAccount, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing initial balance",
			body:           map[string]any{"accountName": "Everyday Account", "accountType": "personal"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - negative initial balance",
			body:           map[string]any{"accountName": "Everyday Account", "accountType": "personal", "initialBalance": -1.00},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - name too short",
			body:           map[string]any{"accountName": "A", "accountType": "personal", "initialBalance": 0},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountRegistry{createFn: tt.createFn})
			w := doRequest(router, http.MethodPost, "/v1/accounts", tt.body, "1")
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestAccountHandlerListReturnsEmptyArray(t *testing.T) {
	router := newAccountTestRouter(&mockAccountRegistry{
		listFn: func(int64) ([]models.Account, error) { return nil, nil },
	})
	w := doRequest(router, http.MethodGet, "/v1/accounts", nil, "1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "[]" {
		t.Errorf("body = %q, want bare empty array", got)
	}
}

func TestAccountHandlerGet(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		getFn          func(accountID, requesterID int64) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "success - own account",
			url:  "/v1/accounts/1",
			getFn: func(accountID, requesterID int64) (*models.Account, error) {
				return testAccount, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - another user's account",
			url:  "/v1/accounts/2",
			getFn: func(accountID, requesterID int64) (*models.Account, error) {
				return nil, apperrors.NewForbidden("You can only access your own bank accounts")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - account does not exist",
			url:  "/v1/accounts/9999",
			getFn: func(accountID, requesterID int64) (*models.Account, error) {
				return nil, apperrors.NewNotFound("Bank account not found with ID: %d", accountID)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - non-numeric account id",
			url:            "/v1/accounts/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountRegistry{getFn: tt.getFn})
			w := doRequest(router, http.MethodGet, tt.url, nil, "1")
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestAccountHandlerGetResponseShape(t *testing.T) {
	router := newAccountTestRouter(&mockAccountRegistry{
		getFn: func(int64, int64) (*models.Account, error) { return testAccount, nil },
	})
	w := doRequest(router, http.MethodGet, "/v1/accounts/1", nil, "1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"accountId", "accountName", "accountType", "balance", "accountNumber", "userId"} {
		if _, ok := body[field]; !ok {
			t.Errorf("response missing field %q", field)
		}
	}
	// Money renders as a bare JSON number.
	var balance float64
	if err := json.Unmarshal(body["balance"], &balance); err != nil || balance != 1000 {
		t.Errorf("balance = %s, want unquoted 1000", body["balance"])
	}
}

func TestAccountHandlerUpdatePassesPatch(t *testing.T) {
	var got models.AccountPatch
	router := newAccountTestRouter(&mockAccountRegistry{
		updateFn: func(accountID, requesterID int64, patch models.AccountPatch) (*models.Account, error) {
			got = patch
			return testAccount, nil
		},
	})

	w := doRequest(router, http.MethodPatch, "/v1/accounts/1", map[string]any{"accountName": "Holiday Fund"}, "1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if got.Name == nil || *got.Name != "Holiday Fund" {
		t.Errorf("name patch = %v, want Holiday Fund", got.Name)
	}
	if got.Type != nil {
		t.Errorf("absent type field not nil: %v", *got.Type)
	}
}

func TestAccountHandlerDelete(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(accountID, requesterID int64) error
		expectedStatus int
	}{
		{
			name:           "success",
			deleteFn:       func(accountID, requesterID int64) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "forbidden - another user's account",
			deleteFn: func(accountID, requesterID int64) error {
				return apperrors.NewForbidden("You can only access your own bank accounts")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found - account does not exist",
			deleteFn: func(accountID, requesterID int64) error {
				return apperrors.NewNotFound("Bank account not found with ID: %d", accountID)
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountRegistry{deleteFn: tt.deleteFn})
			w := doRequest(router, http.MethodDelete, "/v1/accounts/1", nil, "1")
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}
