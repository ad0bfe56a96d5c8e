package service

import (
	"context" // Context for store calls
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Email normalization
	"time"    // Timestamps and token TTL

	"echo_bank/internal/domain" // Domain models
	"echo_bank/internal/store"  // Document store
	"echo_bank/internal/utils"  // JWT and cache keys

	"github.com/google/uuid"     // User ids
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // For password hashing
)

// RegisterInput is the body of POST /user.
type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	DisplayName string `json:"displayName" binding:"max=100"`
}

// UserSummary is what the admin listing exposes about a user.
type UserSummary struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName"`
	Role             string `json:"role"`
	IsVerified       bool   `json:"isVerified"`
	HasNessieAccess  bool   `json:"hasNessieAccess"`
	NessieCustomerID string `json:"nessieCustomerId,omitempty"`
}

// UserPage is one page of the admin listing.
type UserPage struct {
	Users      []UserSummary `json:"users"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Users handles registration, login and user lookups.
type Users struct {
	docs      store.DocumentStore
	cache     Cache
	jwtSecret string
	jwtTTL    time.Duration
	now       func() time.Time
	newID     func() string
}

func NewUsers(docs store.DocumentStore, cache Cache, jwtSecret string, jwtTTL time.Duration) *Users {
	return &Users{
		docs:      docs,
		cache:     orNoCache(cache),
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

type emailIndex struct {
	UserID string `json:"userId"`
}

// Register creates the user document and its email index entry.
func (u *Users) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email)) // Emails are case-insensitive
	if _, err := u.docs.Read(ctx, store.EmailDoc(email)); err == nil {
		return nil, domain.ErrUserExists // Email already registered
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@") // Default to the local part
	}
	now := u.now().UTC()
	user := &domain.User{
		ID:           u.newID(),       // New user id
		Email:        email,           // Normalized email
		DisplayName:  displayName,     // Shown in the UI
		PasswordHash: string(hash),    // Never returned by the API
		Role:         domain.RoleUser, // Admins are promoted by hand
		IsVerified:   false,           // No email verification flow
		CreatedAt:    &now,            // Registration time
		LastLogin:    &now,            // Updated on every login
	}
	fields, err := store.Encode(user)
	if err != nil {
		return nil, err
	}
	if err := u.docs.Write(ctx, store.UserDoc(user.ID), fields, true); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}
	index, err := store.Encode(emailIndex{UserID: user.ID})
	if err != nil {
		return nil, err
	}
	if err := u.docs.Write(ctx, store.EmailDoc(email), index, false); err != nil { // Email -> user id index
		return nil, fmt.Errorf("store email index: %w", err)
	}

	if err := u.cache.DeletePrefix(ctx, utils.AdminUsersPrefix); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate admin users cache")
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   email,
	}).Info("User registered")
	return user, nil
}

// Login checks the password and returns a signed token.
func (u *Users) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	indexFields, err := u.docs.Read(ctx, store.EmailDoc(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	} else if err != nil {
		return "", fmt.Errorf("lookup email: %w", err)
	}
	var index emailIndex
	if err := store.Decode(indexFields, &index); err != nil || index.UserID == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := u.Get(ctx, index.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	} else if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials // Wrong password
	}

	token, err := utils.GenerateJWT(user.ID, u.jwtSecret, u.jwtTTL) // Issue the token
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := u.docs.Write(ctx, store.UserDoc(user.ID), store.Fields{"lastLogin": u.now().UTC()}, true); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}
	return token, nil
}

// Get loads a user document.
func (u *Users) Get(ctx context.Context, uid string) (*domain.User, error) {
	fields, err := u.docs.Read(ctx, store.UserDoc(uid))
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidPath) {
		return nil, domain.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	var user domain.User
	if err := store.Decode(fields, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", uid, err)
	}
	user.ID = uid
	return &user, nil
}

// Role returns the role stored on the user document.
func (u *Users) Role(ctx context.Context, uid string) (string, error) {
	user, err := u.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	if user.Role == "" {
		return domain.RoleUser, nil
	}
	return user.Role, nil
}

// ListPage returns one page of all users, ordered by id. The second result
// reports a cache hit.
func (u *Users) ListPage(ctx context.Context, page, pageSize int) (*UserPage, bool, error) {
	key := utils.AdminUsersKey(page, pageSize)
	var cached UserPage
	if found, err := u.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, true, nil
	}

	docs, err := u.docs.ScanCollection(ctx, "users")
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}
	total := len(docs)                      // Total number of users
	offset := min((page-1)*pageSize, total) // Calculate offset for pagination
	end := min(offset+pageSize, total)      // End of the page

	summaries := make([]UserSummary, 0, end-offset)
	for _, d := range docs[offset:end] {
		var user domain.User
		if err := store.Decode(d.Fields, &user); err != nil {
			return nil, false, fmt.Errorf("decode user %s: %w", d.ID, err)
		}
		role := user.Role
		if role == "" {
			role = domain.RoleUser
		}
		summaries = append(summaries, UserSummary{
			ID:               d.ID,
			Email:            user.Email,
			DisplayName:      user.DisplayName,
			Role:             role,
			IsVerified:       user.IsVerified,
			HasNessieAccess:  user.HasNessieAccess,
			NessieCustomerID: user.NessieCustomerID,
		})
	}
	result := &UserPage{
		Users:      summaries,
		Page:       page,
		PageSize:   pageSize,
		Total:      int64(total),
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	if err := u.cache.Set(ctx, key, result); err != nil {
		logrus.WithError(err).Warn("Admin users cache write failed")
	}
	return result, false, nil
}
