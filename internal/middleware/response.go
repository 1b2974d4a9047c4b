package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Message   string    `json:"message"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Errors    []string  `json:"errors,omitempty"`
}

func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithValidationErrors writes a 400 carrying one message per failed
// field.
func RespondWithValidationErrors(c *gin.Context, validationErrors []ValidationError) {
	messages := make([]string, 0, len(validationErrors))
	for _, ve := range validationErrors {
		messages = append(messages, ve.Field+": "+ve.Message)
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message:   "Validation failed",
		Status:    http.StatusBadRequest,
		Timestamp: time.Now().UTC(),
		Errors:    messages,
	})
}
