package api

import (
	"context"  // Context for service calls
	"net/http" // HTTP status codes

	"echo_bank/internal/domain"     // Domain models
	"echo_bank/internal/middleware" // Authenticated user lookup
	"echo_bank/internal/service"    // Services

	"github.com/gin-gonic/gin" // Gin web framework
)

// AccountService is satisfied by *service.Accounts
type AccountService interface {
	List(ctx context.Context, userID string) ([]service.AccountEntry, bool, error)
	CreateMock(ctx context.Context, userID string) ([]domain.Account, error)
	Transactions(ctx context.Context, userID, accountID string) ([]service.TransactionEntry, error)
}

// ListAccountsHandler returns the caller's accounts
func ListAccountsHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		list, cached, err := accounts.List(c.Request.Context(), userID) // Fetch accounts
		if err != nil {
			respondError(c, err, "Error fetching accounts")
			return
		}
		c.JSON(http.StatusOK, gin.H{"accounts": list, "cached": cached})
	}
}

// CreateMockAccountsHandler seeds a checking and a savings account for testing
func CreateMockAccountsHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		created, err := accounts.CreateMock(c.Request.Context(), userID) // Write mock data
		if err != nil {
			respondError(c, err, "Error creating accounts")
			return
		}
		summary := make([]gin.H, len(created))
		for i, a := range created {
			summary[i] = gin.H{"id": a.ID, "type": a.Type, "balance": a.Balance}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Mock accounts created successfully", "accounts": summary})
	}
}

// ListTransactionsHandler returns the transactions of one of the caller's accounts
func ListTransactionsHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		txs, err := accounts.Transactions(c.Request.Context(), userID, c.Param("accountId")) // Fetch transactions
		if err != nil {
			respondError(c, err, "Error fetching transactions")
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": txs})
	}
}
