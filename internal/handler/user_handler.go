package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/middleware"
	"github.com/ProgrammerArk/Bank-API/internal/models"
	"github.com/ProgrammerArk/Bank-API/internal/service"
)

// UserDirectory defines the identity operations used by UserHandler.
type UserDirectory interface {
	Create(ctx context.Context, params service.CreateUserParams) (*models.User, error)
	Get(ctx context.Context, userID, requesterID int64) (*models.User, error)
	Update(ctx context.Context, userID, requesterID int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, userID, requesterID int64) error
}

type UserHandler struct {
	users  UserDirectory
	logger *zap.Logger
}

func NewUserHandler(users UserDirectory, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type CreateUserRequest struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string `json:"lastName" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=10,max=15"`
	Address     string `json:"address" validate:"max=200"`
}

// UpdateUserRequest uses pointer fields so an absent field is distinguishable
// from an explicit empty value.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName    *string `json:"lastName" validate:"omitempty,min=2,max=50"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=10,max=15"`
	Address     *string `json:"address" validate:"omitempty,max=200"`
}

// Create handles POST /v1/users. Registration runs without authentication.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationErrors(c, validationErrors)
		return
	}

	user, err := h.users.Create(c.Request.Context(), service.CreateUserParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get handles GET /v1/users/:userId.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "userId", "Invalid user ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	user, err := h.users.Get(c.Request.Context(), userID, requesterID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PATCH /v1/users/:userId.
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "userId", "Invalid user ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationErrors(c, validationErrors)
		return
	}

	user, err := h.users.Update(c.Request.Context(), userID, requesterID, models.UserPatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:userId.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "userId", "Invalid user ID format")
	if !ok {
		return
	}
	requesterID, _ := middleware.CallerID(c)

	if err := h.users.Delete(c.Request.Context(), userID, requesterID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a numeric path parameter, writing a 400 on failure.
func pathID(c *gin.Context, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
