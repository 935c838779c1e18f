package accounts

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// SessionFromCtx returns the session claims stored by the gate, failing if
// the route ran without one.
func SessionFromCtx(c *fiber.Ctx) (*SessionClaims, error) {
	claims, ok := c.Locals(SessionContextKey).(*SessionClaims)
	if !ok || claims == nil {
		return nil, goerrors.New("no session in request context", goerrors.CategoryAuth).
			WithTextCode(TextCodeMissingToken).
			WithCode(goerrors.CodeForbidden)
	}
	return claims, nil
}
