package service

import (
	"context"
	"testing"
	"time"

	"echo_bank/internal/domain"
	"echo_bank/internal/store"
	"echo_bank/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsers(docs store.DocumentStore) *Users {
	u := NewUsers(docs, nil, "secret", time.Hour)
	u.now = func() time.Time { return fixedNow }
	n := 0
	u.newID = func() string {
		n++
		return "user-" + string(rune('0'+n))
	}
	return u
}

func TestUsers_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	u := newTestUsers(docs)

	user, err := u.Register(ctx, RegisterInput{Email: "Jane@Example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "jane", user.DisplayName)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	stored, err := u.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)

	token, err := u.Login(ctx, "JANE@example.com", "hunter22")
	require.NoError(t, err)
	claims, err := utils.ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestUsers_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	u := newTestUsers(store.NewMemoryStore())

	_, err := u.Register(ctx, RegisterInput{Email: "a@x.io", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)
	_, err = u.Register(ctx, RegisterInput{Email: "A@x.io", Password: "password2"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUsers_LoginFailures(t *testing.T) {
	ctx := context.Background()
	u := newTestUsers(store.NewMemoryStore())
	_, err := u.Register(ctx, RegisterInput{Email: "a@x.io", Password: "password1"})
	require.NoError(t, err)

	_, err = u.Login(ctx, "a@x.io", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = u.Login(ctx, "nobody@x.io", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUsers_LinkKeepsRegistrationFields(t *testing.T) {
	ctx := context.Background()
	docs := newRecordingStore()
	u := newTestUsers(docs)
	_, err := u.Register(ctx, RegisterInput{Email: "a@x.io", Password: "password1"})
	require.NoError(t, err)

	o := NewOnboarding(&fakeVerifier{tokens: map[string]string{"t": "user-1"}}, happyBank(), docs, nil, false)
	_, err = o.LinkUser(ctx, "t", LinkRequest{FirstName: "A"})
	require.NoError(t, err)

	user, err := u.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.Equal(t, "c1", user.NessieCustomerID)
}

func TestUsers_RoleAndGetMissing(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	u := newTestUsers(docs)
	require.NoError(t, docs.Write(ctx, "users/boss", store.Fields{"role": "admin"}, false))
	require.NoError(t, docs.Write(ctx, "users/plain", store.Fields{"email": "p@x.io"}, false))

	role, err := u.Role(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	role, err = u.Role(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, role)

	_, err = u.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUsers_ListPage(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	u := NewUsers(docs, newRedisCache(t), "secret", time.Hour)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, docs.Write(ctx, store.UserDoc(id), store.Fields{"email": id + "@x.io", "passwordHash": "h"}, false))
	}

	page, cached, err := u.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "c", page.Users[0].ID)
	assert.Equal(t, domain.RoleUser, page.Users[0].Role)

	again, cached, err := u.ListPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, page, again)

	beyond, _, err := u.ListPage(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond.Users)
}
