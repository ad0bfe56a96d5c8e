package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"echo_bank/internal/domain"     // Domain errors
	"echo_bank/internal/middleware" // Authenticated user lookup

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps a service error to the HTTP status returned to the client
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrAlreadyLinked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError // Any downstream failure
	}
}

// respondError logs err with the request context and writes {"error": ...}
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	fields := logrus.Fields{
		"path":   c.FullPath(), // Requested route
		"status": status,       // Response status
		"error":  err.Error(),  // Error message
	}
	if userID, ok := middleware.UserID(c); ok {
		fields["user_id"] = userID // Authenticated user, if any
	}
	entry := logrus.WithFields(fields)
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}
	body := err.Error()
	if status == http.StatusUnauthorized {
		body = "Unauthorized" // Never echo verifier details
	}
	c.JSON(status, gin.H{"error": body})
}
