package api

import (
	"context"  // Context for service calls
	"net/http" // HTTP status codes

	"echo_bank/internal/middleware" // Authenticated user lookup
	"echo_bank/internal/plaid"      // Plaid client

	"github.com/gin-gonic/gin" // Gin web framework
)

// LinkTokenCreator is satisfied by *plaid.Client
type LinkTokenCreator interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (*plaid.LinkToken, error)
}

// CreateLinkTokenHandler issues a Plaid Link token bound to the caller
func CreateLinkTokenHandler(creator LinkTokenCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c) // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if creator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Plaid is not configured"})
			return
		}
		tok, err := creator.CreateLinkToken(c.Request.Context(), userID) // Ask Plaid
		if err != nil {
			respondError(c, err, "Plaid error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"link_token": tok.LinkToken})
	}
}
