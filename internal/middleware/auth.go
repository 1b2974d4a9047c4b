package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the opaque numeric id of the caller on every request
// except user registration.
const UserIDHeader = "X-User-Id"

const userIDContextKey = "userId"

// Auth authenticates the caller from the X-User-Id header before any core
// logic runs: a missing id is a 401, a non-numeric id a 400.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if header == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// CallerID returns the authenticated caller id set by Auth.
func CallerID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
