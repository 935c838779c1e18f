package accounts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/quipulabs/go-accounts"
)

func TestUserRoleIsValid(t *testing.T) {
	assert.True(t, accounts.RoleUser.IsValid())
	assert.True(t, accounts.RoleAdmin.IsValid())
	assert.False(t, accounts.UserRole("root").IsValid())
	assert.False(t, accounts.UserRole("").IsValid())
}

func TestUserDetailsOmitsSecrets(t *testing.T) {
	now := time.Now()
	expires := now.Add(time.Hour)
	user := &accounts.User{
		ID:                  uuid.New(),
		Role:                accounts.RoleUser,
		FirstName:           "Pepe",
		LastName:            "Rone",
		Email:               "pepe.rone@example.com",
		Avatar:              accounts.DefaultAvatar,
		PasswordHash:        "$2a$10$notarealhash",
		VerificationToken:   "verification-token",
		ResetToken:          "reset-token",
		ResetTokenExpiresAt: &expires,
		CreatedAt:           &now,
	}

	raw, err := json.Marshal(user.Details())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "Pepe", decoded["firstName"])
	assert.Equal(t, "Rone", decoded["lastName"])
	assert.Equal(t, "pepe.rone@example.com", decoded["email"])
	assert.Contains(t, decoded, "created")

	body := string(raw)
	assert.NotContains(t, body, "notarealhash")
	assert.NotContains(t, body, "verification-token")
	assert.NotContains(t, body, "reset-token")
}

func TestUserJSONHidesSecrets(t *testing.T) {
	user := &accounts.User{
		ID:                uuid.New(),
		Email:             "pepe.rone@example.com",
		PasswordHash:      "$2a$10$notarealhash",
		VerificationToken: "verification-token",
		ResetToken:        "reset-token",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "notarealhash")
	assert.NotContains(t, body, "verification-token")
	assert.NotContains(t, body, "reset-token")
}

func TestWithProfileDoesNotMutateReceiver(t *testing.T) {
	original := accounts.User{
		FirstName: "Pepe",
		LastName:  "Rone",
		Email:     "pepe.rone@example.com",
	}

	updated := original.WithProfile("Jose", "", "jose@example.com")

	assert.Equal(t, "Jose", updated.FirstName)
	assert.Equal(t, "Rone", updated.LastName)
	assert.Equal(t, "jose@example.com", updated.Email)

	assert.Equal(t, "Pepe", original.FirstName)
	assert.Equal(t, "pepe.rone@example.com", original.Email)
}
