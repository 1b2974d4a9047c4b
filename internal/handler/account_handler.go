package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/middleware"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/service"
)

// AccountRegistry defines the account operations used by AccountHandler.
type AccountRegistry interface {
	Create(ctx context.Context, ownerID int64, params service.CreateAccountParams) (*models.Account, error)
	List(ctx context.Context, ownerID int64) ([]models.Account, error)
	Get(ctx context.Context, accountID, requesterID int64) (*models.Account, error)
	Update(ctx context.Context, accountID, requesterID int64, patch models.AccountPatch) (*models.Account, error)
	Delete(ctx context.Context, accountID, requesterID int64) error
}

type AccountHandler struct {
	accounts AccountRegistry
	logger   *zap.Logger
}

func NewAccountHandler(accounts AccountRegistry, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

type CreateAccountRequest struct {
	Name string `json:"accountName" validate:"required,min=2,max=100"`
	Type string `json:"accountType" validate:"required"`
	// Pointer so a missing balance is rejected instead of defaulting to zero.
	InitialBalance *decimal.Decimal `json:"initialBalance"`
}

type UpdateAccountRequest struct {
	Name *string `json:"accountName" validate:"omitempty,min=2,max=100"`
	Type *string `json:"accountType"`
}

// Create handles POST /v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	requesterID, _ := middleware.CallerID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	validationErrors := middleware.ValidateRequest(req)
	switch {
	case req.InitialBalance == nil:
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "initialBalance", Message: "Initial balance is required", Type: "required",
		})
	case req.InitialBalance.IsNegative():
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "initialBalance", Message: "Initial balance must be non-negative", Type: "gte",
		})
	}
	if validationErrors != nil {
		middleware.RespondWithValidationErrors(c, validationErrors)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), requesterID, service.CreateAccountParams{
		Name:           req.Name,
		Type:           req.Type,
		InitialBalance: *req.InitialBalance,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// List handles GET /v1/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	requesterID, _ := middleware.CallerID(c)

	accounts, err := h.accounts.List(c.Request.Context(), requesterID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

// Get handles GET /v1/accounts/:accountId.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	account, err := h.accounts.Get(c.Request.Context(), accountID, requesterID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// Update handles PATCH /v1/accounts/:accountId.
func (h *AccountHandler) Update(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationErrors(c, validationErrors)
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), accountID, requesterID, models.AccountPatch{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /v1/accounts/:accountId.
func (h *AccountHandler) Delete(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	if err := h.accounts.Delete(c.Request.Context(), accountID, requesterID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
