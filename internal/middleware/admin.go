package middleware

import (
	"context"  // Context for the role lookup
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"echo_bank/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// RoleLookup returns the role of a user; satisfied by *service.Users
type RoleLookup interface {
	Role(ctx context.Context, userID string) (string, error)
}

// AdminOnlyMiddleware checks the user's role from the document store on each request
func AdminOnlyMiddleware(users RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := UserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, err := users.Role(c.Request.Context(), userID) // Fetch role from the user document
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		// Check if user role is admin
		if role != domain.RoleAdmin {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
