package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ResetTokenTTL is how long a password reset ticket stays usable.
const ResetTokenTTL = 24 * time.Hour

// InitializePasswordResetMessage starts the forgot password flow for the
// account behind the given email.
type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	Origin     string `json:"-"`
	OnResponse func(user *User)
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetHandler struct {
	repo   RepositoryManager
	mailer Mailer
	logger Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, mailer Mailer, logger Logger) *InitializePasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &InitializePasswordResetHandler{
		repo:   repo,
		mailer: mailer,
		logger: logger,
	}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if IsNotFound(err) {
				return ErrUnknownEmail
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
		}

		token, err := RandomTokenString()
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate reset token")
		}

		expiresAt := time.Now().Add(ResetTokenTTL)
		user.ResetToken = token
		user.ResetTokenExpiresAt = &expiresAt
		user.Touch()

		if user, err = h.repo.Users().UpdateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password reset transaction failed")
	}

	if h.mailer != nil {
		if err := h.mailer.SendPasswordResetEmail(ctx, user, event.Origin); err != nil {
			h.logger.Error("failed to send password reset email", "email", user.Email, "error", err)
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
