package accounts_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/quipulabs/go-accounts"
)

func newTestUser(role accounts.UserRole) *accounts.User {
	return &accounts.User{
		ID:    uuid.New(),
		Email: "pepe.rone@example.com",
		Role:  role,
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := accounts.NewTokenService([]byte("test-signing-key"), 72, "go-accounts", nil)
	user := newTestUser(accounts.RoleAdmin)

	token, err := svc.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.Equal(t, accounts.RoleAdmin, claims.Role())
	assert.False(t, claims.IssuedAt().IsZero())

	// expiry rides on the token
	expected := time.Now().Add(72 * time.Hour)
	assert.WithinDuration(t, expected, claims.Expires(), time.Minute)
}

func TestTokenServiceRejectsTampered(t *testing.T) {
	svc := accounts.NewTokenService([]byte("test-signing-key"), 72, "go-accounts", nil)

	token, err := svc.Generate(newTestUser(accounts.RoleUser))
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"

	_, err = svc.Validate(tampered)
	assert.Error(t, err)
}

func TestTokenServiceRejectsWrongKey(t *testing.T) {
	issuing := accounts.NewTokenService([]byte("key-one"), 72, "go-accounts", nil)
	verifying := accounts.NewTokenService([]byte("key-two"), 72, "go-accounts", nil)

	token, err := issuing.Generate(newTestUser(accounts.RoleUser))
	require.NoError(t, err)

	_, err = verifying.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := accounts.NewTokenService([]byte("test-signing-key"), -1, "go-accounts", nil)

	token, err := svc.Generate(newTestUser(accounts.RoleUser))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := accounts.NewTokenService([]byte("test-signing-key"), 72, "go-accounts", nil)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.Error(t, err, "token %q should not validate", raw)
	}
}

func TestSessionClaimsHasAnyRole(t *testing.T) {
	claims := &accounts.SessionClaims{UserRole: accounts.RoleUser}

	assert.True(t, claims.HasAnyRole())
	assert.True(t, claims.HasAnyRole(accounts.RoleUser))
	assert.True(t, claims.HasAnyRole(accounts.RoleAdmin, accounts.RoleUser))
	assert.False(t, claims.HasAnyRole(accounts.RoleAdmin))
}
