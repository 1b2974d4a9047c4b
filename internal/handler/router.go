package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ProgrammerArk/Bank-API/internal/middleware"
)

// NewRouter assembles the full HTTP surface. Registration is the only
// unauthenticated endpoint; everything else sits behind the numeric-id auth
// middleware.
func NewRouter(users *UserHandler, accounts *AccountHandler, transactions *TransactionHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.POST("/users", users.Create)

	authed := v1.Group("", middleware.Auth())
	{
		authed.GET("/users/:userId", users.Get)
		authed.PATCH("/users/:userId", users.Update)
		authed.DELETE("/users/:userId", users.Delete)

		authed.POST("/accounts", accounts.Create)
		authed.GET("/accounts", accounts.List)
		// gin's route tree rejects the static /accounts/transactions next to
		// the :accountId wildcard, so the user-wide listing dispatches here.
		authed.GET("/accounts/:accountId", func(c *gin.Context) {
			if c.Param("accountId") == "transactions" {
				transactions.ListByUser(c)
				return
			}
			accounts.Get(c)
		})
		authed.PATCH("/accounts/:accountId", accounts.Update)
		authed.DELETE("/accounts/:accountId", accounts.Delete)

		authed.POST("/accounts/:accountId/transactions", transactions.Create)
		authed.GET("/accounts/:accountId/transactions", transactions.ListByAccount)
	}

	return router
}
