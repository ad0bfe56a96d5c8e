package api

import (
	"context"  // Context for service calls
	"errors"   // Error matching
	"io"       // Empty body detection
	"net/http" // HTTP status codes

	"echo_bank/internal/auth"    // Bearer token parsing
	"echo_bank/internal/service" // Services

	"github.com/gin-gonic/gin" // Gin web framework
)

// Linker runs the onboarding workflow; satisfied by *service.Onboarding
type Linker interface {
	LinkUser(ctx context.Context, credential string, req service.LinkRequest) (*service.LinkResult, error)
}

// LinkUserHandler links the caller to a new Nessie customer with two accounts.
// The credential is checked by the workflow itself, before anything else runs.
func LinkUserHandler(linker Linker) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := auth.BearerToken(c.GetHeader("Authorization")) // Extract the bearer token
		if credential == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req service.LinkRequest // Bind JSON request to struct
		// An empty body is the same as {}: every field is optional
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := linker.LinkUser(c.Request.Context(), credential, req) // Run the workflow
		if err != nil {
			respondError(c, err, "Error linking user with Nessie")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "User linked with Nessie and accounts created",
			"customerId": res.CustomerID, // Nessie customer id
			"accounts":   res.Accounts,   // Checking and savings
		})
	}
}
