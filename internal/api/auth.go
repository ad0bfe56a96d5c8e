package api

import (
	"context"  // Context for service calls
	"net/http" // HTTP status codes

	"echo_bank/internal/domain"  // Domain models
	"echo_bank/internal/service" // Services

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserService is the user-facing part of *service.Users
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListPage(ctx context.Context, page, pageSize int) (*service.UserPage, bool, error)
	Role(ctx context.Context, userID string) (string, error)
}

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates a user account
func RegisterHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password (6-72 characters) are required"})
			return
		}
		user, err := users.Register(c.Request.Context(), req) // Create the user
		if err != nil {
			respondError(c, err, "Registration failed")
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{
			"message": "User successfully registered",
			"user": gin.H{
				"uid":         user.ID,          // New user id
				"email":       user.Email,       // Normalized email
				"displayName": user.DisplayName, // Display name
			},
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		token, err := users.Login(c.Request.Context(), req.Email, req.Password) // Check credentials
		if err != nil {
			respondError(c, err, "Login failed")
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}
