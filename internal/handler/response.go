// Package handler binds the core services to the HTTP surface. It owns the
// single mapping from typed core errors to transport statuses; the services
// never see HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/apperrors"
	"github.com/ProgrammerArk/Bank-API/internal/middleware"
)

// HTTPStatus maps a core error to its transport status. Anything outside the
// known taxonomy is an internal error.
func HTTPStatus(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsUnprocessable(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the transport response for a core error.
// Unexpected errors are logged and surfaced with a generic message so no
// internal detail leaks.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		middleware.RespondWithError(c, status, "An unexpected error occurred")
		return
	}
	middleware.RespondWithError(c, status, err.Error())
}
