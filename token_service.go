package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService issues and validates signed session tokens.
type TokenService interface {
	Generate(user *User) (string, error)
	Validate(tokenString string) (*SessionClaims, error)
}

// TokenServiceImpl signs session tokens with a process wide HS256 key. The
// key is loaded once at startup and never rotated at runtime.
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	logger          Logger
}

// NewTokenService creates a new TokenService instance. tokenExpiration is
// expressed in hours; the original design issued tokens without an expiry
// claim, a gap this rewrite closes.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
	}
}

// Generate creates a session token asserting the user's id and role.
func (ts *TokenServiceImpl) Generate(user *User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		UID:      user.ID.String(),
		UserRole: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign session token")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// Malformed, tampered, wrong-key and expired tokens all fail.
func (ts *TokenServiceImpl) Validate(tokenString string) (*SessionClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token service validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(err, errors.CategoryAuth, "session token expired").
				WithTextCode(TextCodeInvalidSession).
				WithCode(errors.CodeBadRequest)
		}
		return nil, errors.Wrap(err, errors.CategoryAuth, "session token malformed or tampered").
			WithTextCode(TextCodeInvalidSession).
			WithCode(errors.CodeBadRequest)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token service validate could not decode claims")
	return nil, errors.New("unable to decode session claims", errors.CategoryAuth).
		WithTextCode(TextCodeInvalidSession).
		WithCode(errors.CodeBadRequest)
}
