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

// Ledger defines the transaction operations used by TransactionHandler.
type Ledger interface {
	Apply(ctx context.Context, accountID, requesterID int64, params service.ApplyTransactionParams) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID, requesterID int64) ([]models.Transaction, error)
	ListByUser(ctx context.Context, requesterID int64) ([]models.Transaction, error)
}

type TransactionHandler struct {
	ledger Ledger
	logger *zap.Logger
}

func NewTransactionHandler(ledger Ledger, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, logger: logger}
}

type CreateTransactionRequest struct {
	// Pointer so a missing amount is rejected instead of defaulting to zero.
	Amount      *decimal.Decimal `json:"amount"`
	Type        string           `json:"transactionType" validate:"required"`
	Description string           `json:"description" validate:"omitempty,max=255"`
}

// Create handles POST /v1/accounts/:accountId/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	validationErrors := middleware.ValidateRequest(req)
	switch {
	case req.Amount == nil:
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "amount", Message: "Amount is required", Type: "required",
		})
	case !req.Amount.IsPositive():
		validationErrors = append(validationErrors, middleware.ValidationError{
			Field: "amount", Message: "Amount must be greater than 0", Type: "gt",
		})
	}
	if validationErrors != nil {
		middleware.RespondWithValidationErrors(c, validationErrors)
		return
	}

	transactionType, err := models.ParseTransactionType(req.Type)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction, err := h.ledger.Apply(c.Request.Context(), accountID, requesterID, service.ApplyTransactionParams{
		Amount:      *req.Amount,
		Type:        transactionType,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// ListByAccount handles GET /v1/accounts/:accountId/transactions.
func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId", "Invalid account ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	transactions, err := h.ledger.ListByAccount(c.Request.Context(), accountID, requesterID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

// ListByUser handles GET /v1/accounts/transactions: the caller's history
// across every account they own.
func (h *TransactionHandler) ListByUser(c *gin.Context) {
	requesterID, _ := middleware.CallerID(c)

	transactions, err := h.ledger.ListByUser(c.Request.Context(), requesterID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}
