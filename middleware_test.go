package accounts_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/quipulabs/go-accounts"
)

func TestProtectedMiddleware(t *testing.T) {
	tokens := accounts.NewTokenService([]byte("test-signing-key"), 72, "go-accounts", nil)

	userToken, err := tokens.Generate(newTestUser(accounts.RoleUser))
	require.NoError(t, err)

	adminToken, err := tokens.Generate(newTestUser(accounts.RoleAdmin))
	require.NoError(t, err)

	app := accounts.NewServer(nil)
	app.Get("/any", accounts.Protected(tokens), func(c *fiber.Ctx) error {
		claims, err := accounts.SessionFromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"uid": claims.UserID()})
	})
	app.Get("/admin", accounts.Protected(tokens, accounts.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{
			name:   "missing header",
			path:   "/any",
			header: "",
			status: fiber.StatusForbidden,
		},
		{
			name:   "garbage token",
			path:   "/any",
			header: "not-a-token",
			status: fiber.StatusBadRequest,
		},
		{
			name:   "valid token",
			path:   "/any",
			header: userToken,
			status: fiber.StatusOK,
		},
		{
			name:   "user role on admin route",
			path:   "/admin",
			header: userToken,
			status: fiber.StatusForbidden,
		},
		{
			name:   "admin role on admin route",
			path:   "/admin",
			header: adminToken,
			status: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				// the raw token, no scheme prefix
				req.Header.Set("Authorization", tt.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}

func TestProtectedRejectsBearerPrefix(t *testing.T) {
	tokens := accounts.NewTokenService([]byte("test-signing-key"), 72, "go-accounts", nil)
	token, err := tokens.Generate(newTestUser(accounts.RoleUser))
	require.NoError(t, err)

	app := accounts.NewServer(nil)
	app.Get("/any", accounts.Protected(tokens), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	// the header carries the bare token; a scheme prefix breaks validation
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}
