package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by a session token: the subject is
// the user id and the role travels with the token so the gate can authorize
// without a storage lookup (roles are immutable after creation).
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string   `json:"uid,omitempty"`
	UserRole UserRole `json:"role,omitempty"`
}

// UserID returns the authenticated user's id.
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the role claim.
func (c *SessionClaims) Role() UserRole {
	return c.UserRole
}

// HasAnyRole reports whether the role claim is a member of the given set.
// An empty set accepts any authenticated identity.
func (c *SessionClaims) HasAnyRole(roles ...UserRole) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if c.UserRole == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
