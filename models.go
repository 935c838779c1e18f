package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is a closed, two variant role enumeration. Roles are assigned at
// creation and never reassigned through this subsystem.
type UserRole string

const (
	// RoleUser is the default role for self-registered accounts
	RoleUser UserRole = "user"
	// RoleAdmin can manage the user collection. The first account ever
	// created is promoted to this role (bootstrap admin).
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// DefaultAvatar is the placeholder every account starts with. It is never
// removed from disk when a real avatar replaces it.
const DefaultAvatar = "default.jpg"

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID                  uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role                UserRole   `bun:"role,notnull" json:"role,omitempty"`
	FirstName           string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName            string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email               string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Avatar              string     `bun:"avatar,notnull" json:"avatar,omitempty"`
	PasswordHash        string     `bun:"password_hash" json:"-"`
	IsVerified          bool       `bun:"is_verified" json:"is_verified,omitempty"`
	VerificationToken   string     `bun:"verification_token,nullzero" json:"-"`
	ResetToken          string     `bun:"reset_token,nullzero" json:"-"`
	ResetTokenExpiresAt *time.Time `bun:"reset_token_expires_at,nullzero" json:"-"`
	CreatedAt           *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// UserDetails is the client facing representation. It never carries the
// password hash or any of the single purpose tokens.
type UserDetails struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt *time.Time `json:"created,omitempty"`
	UpdatedAt *time.Time `json:"updated,omitempty"`
}

// Details returns the public view of the user record.
func (u *User) Details() *UserDetails {
	return &UserDetails{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ResetTokenValidAt reports whether the reset token is usable at t. The
// boundary is strict: at exactly ExpiresAt the token is already rejected.
func (u *User) ResetTokenValidAt(t time.Time) bool {
	if u.ResetToken == "" || u.ResetTokenExpiresAt == nil {
		return false
	}
	return t.Before(*u.ResetTokenExpiresAt)
}

// WithProfile returns a copy of the user with the provided profile fields
// replaced. Empty values keep the current field. Callers persist the copy;
// the loaded value is never aliased across requests.
func (u User) WithProfile(firstName, lastName, email string) *User {
	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}
	if email != "" {
		u.Email = email
	}
	now := time.Now()
	u.UpdatedAt = &now
	return &u
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() *User {
	now := time.Now()
	u.UpdatedAt = &now
	return u
}
