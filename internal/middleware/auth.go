package middleware

import (
	"net/http" // HTTP status codes

	"echo_bank/internal/auth" // Token verification

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "userID"

// AuthMiddleware verifies the bearer credential and stores the user id in the context
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization")) // Extract the bearer token
		// Check if the Authorization header is present and properly formatted
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, err := verifier.Verify(c.Request.Context(), token) // Resolve the user
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Requested route
				"error": err.Error(),  // Verification failure
			}).Warn("Rejected credential")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, userID) // Store userID in context
		c.Next()                 // Proceed to the next handler
	}
}

// UserID returns the id stored by AuthMiddleware
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(UserIDKey)
	return userID, userID != ""
}
