package domain

import "time"

// Roles stored on the user document
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User Model, stored at users/{id}
type User struct {
	ID               string         `json:"-"`                          // Document id, not part of the fields
	Email            string         `json:"email"`                      // Login email
	DisplayName      string         `json:"displayName"`                // Shown in the UI
	PasswordHash     string         `json:"passwordHash,omitempty"`     // bcrypt hash
	Role             string         `json:"role,omitempty"`             // Role: user or admin
	IsVerified       bool           `json:"isVerified"`                 // Email verification flag
	CreatedAt        *time.Time     `json:"createdAt,omitempty"`        // Registration time
	LastLogin        *time.Time     `json:"lastLogin,omitempty"`        // Last successful login
	NessieCustomerID string         `json:"nessieCustomerId,omitempty"` // Linked Nessie customer
	NessieData       map[string]any `json:"nessieData,omitempty"`       // Raw customer payload snapshot
	HasNessieAccess  bool           `json:"hasNessieAccess,omitempty"`  // Linkage flag
	NessieLinkedAt   *time.Time     `json:"nessieLinkedAt,omitempty"`   // Linkage timestamp
}

// Linked reports whether the customer-creation step has completed for this user
func (u *User) Linked() bool {
	return u.NessieCustomerID != ""
}
