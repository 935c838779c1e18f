package accounts

import (
	"github.com/gofiber/fiber/v2"
)

// SessionContextKey is the request local under which the gate stores the
// validated session claims.
const SessionContextKey = "session"

// Protected gates a route behind a valid session token and, optionally, a
// role set. The Authorization header carries the raw token with no scheme
// prefix. A missing header and an out-of-set role both answer 403; a token
// that fails validation answers 400.
func Protected(tokens TokenService, roles ...UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		if raw == "" {
			return ErrNoTokenProvided
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			return ErrInvalidToken
		}

		if !claims.HasAnyRole(roles...) {
			return ErrInsufficientRole
		}

		c.Locals(SessionContextKey, claims)

		return c.Next()
	}
}
