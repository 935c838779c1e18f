package accounts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goerrors "github.com/goliatone/go-errors"
)

// NewServer builds the fiber app with the shared error boundary. Every
// handler and middleware returns errors instead of writing responses, and
// the boundary renders them all the same way: {"error": message} with the
// rich error's status code.
func NewServer(logger Logger) *fiber.App {
	if logger == nil {
		logger = defLogger{}
	}

	app := fiber.New(fiber.Config{
		AppName:      "go-accounts",
		ErrorHandler: errorBoundary(logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return true },
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	return app
}

func errorBoundary(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			code := richErr.Code
			if code == 0 {
				code = fiber.StatusInternalServerError
			}
			if code >= fiber.StatusInternalServerError {
				logger.Error("request failed", "path", c.Path(), "error", err)
			}
			return c.Status(code).JSON(fiber.Map{
				"error": richErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		logger.Error("unhandled error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}

// RegisterRoutes wires the HTTP surface. Self service routes under /auth
// are public up to login; profile, password and avatar edits require a
// session whose subject matches the :id parameter. The /users admin surface
// requires an admin session.
func RegisterRoutes(app *fiber.App, auth *AuthController, users *UserController, tokens TokenService) {
	ag := app.Group("/auth")
	ag.Post("/register", auth.Register)
	ag.Post("/login", auth.Login)
	ag.Post("/verify-email", auth.VerifyEmail)
	ag.Post("/forgot-password", auth.ForgotPassword)
	ag.Post("/reset-password", auth.ResetPassword)

	ag.Put("/profile/:id", Protected(tokens), auth.UpdateProfile)
	ag.Put("/password/:id", Protected(tokens), auth.UpdatePassword)
	ag.Post("/avatar/:id", Protected(tokens), auth.UpdateAvatar)

	ug := app.Group("/users", Protected(tokens, RoleAdmin))
	ug.Get("/", users.List)
	ug.Get("/:id", users.Show)
	ug.Post("/", users.Create)
	ug.Delete("/:id", users.Delete)
}
