package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// FinalizePasswordResetMessage completes the forgot password flow. The
// ticket is single use: a successful reset clears it, so presenting it a
// second time fails the lookup.
type FinalizePasswordResetMessage struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	OnResponse      func(user *User)
}

func (e FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

type FinalizePasswordResetHandler struct {
	repo RepositoryManager
}

func NewFinalizePasswordResetHandler(repo RepositoryManager) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{repo: repo}
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Password != event.ConfirmPassword {
		return ErrPasswordMismatch
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().GetByResetTokenTx(ctx, tx, event.Token)
		if err != nil {
			if IsNotFound(err) {
				return ErrInvalidOrExpiredToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up reset token")
		}

		if !user.ResetTokenValidAt(time.Now()) {
			return ErrInvalidOrExpiredToken
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided").
				WithCode(goerrors.CodeBadRequest)
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, user.ID, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password")
		}

		user.PasswordHash = hash
		user.ResetToken = ""
		user.ResetTokenExpiresAt = nil

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password reset finalization failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
