package accounts

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package needs. The server wires
// a glog logger; library code never depends on a concrete implementation.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*User, string, error)
	SessionFromToken(token string) (*SessionClaims, error)
}

// Mailer is the outbound email collaborator. Implementations render and
// deliver the verification and password reset notifications.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, user *User, origin string) error
	SendPasswordResetEmail(ctx context.Context, user *User, origin string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
