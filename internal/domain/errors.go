package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyLinked      = errors.New("user is already linked to a Nessie customer")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("admin access required")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountNotFound    = errors.New("account not found")
)

// ExternalAPIError is a non-2xx answer from a third-party HTTP API.
// Body carries the raw response text.
type ExternalAPIError struct {
	Service string
	Status  int
	Body    string
}

func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.Status, e.Body)
}

// ValidationError reports a success response that is missing required data.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// LinkError is what the onboarding workflow surfaces to its caller.
type LinkError struct {
	Msg string
	Err error
}

func (e *LinkError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
