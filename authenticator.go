package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Auther verifies credentials against the store and exchanges them for
// session tokens.
type Auther struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the email/password pair and returns the user alongside a
// freshly minted session token. Pending accounts cannot log in until their
// email is verified.
func (s *Auther) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, "", ErrUserNotFound
		}
		s.logger.Error("login user lookup error", "error", err)
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for login")
	}

	if !user.IsVerified {
		s.logger.Warn("login blocked on unverified account", "email", email)
		return nil, "", ErrAccountNotVerified
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("login token generation error", "error", err)
		return nil, "", err
	}

	return user, token, nil
}

// SessionFromToken validates a raw token string and returns its claims.
func (s *Auther) SessionFromToken(raw string) (*SessionClaims, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Error("session token validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}
