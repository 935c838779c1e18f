package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpdatePasswordMessage changes an authenticated user's credential. The
// current password must check out before the new one is accepted.
type UpdatePasswordMessage struct {
	UserID         uuid.UUID `json:"-"`
	OldPassword    string    `json:"oldPassword"`
	NewPassword    string    `json:"newPassword"`
	RepeatPassword string    `json:"repeatPassword"`
	OnResponse     func(user *User)
}

func (e UpdatePasswordMessage) Type() string { return "user.update_password" }

type UpdatePasswordHandler struct {
	repo RepositoryManager
}

func NewUpdatePasswordHandler(repo RepositoryManager) *UpdatePasswordHandler {
	return &UpdatePasswordHandler{repo: repo}
}

func (h *UpdatePasswordHandler) Execute(ctx context.Context, event UpdatePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdatePasswordHandler) execute(ctx context.Context, event UpdatePasswordMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.NewPassword != event.RepeatPassword {
		return ErrPasswordMismatch
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().GetByIDTx(ctx, tx, event.UserID)
		if err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password update")
		}

		if err := ComparePasswordAndHash(event.OldPassword, user.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}

		hash, err := HashPassword(event.NewPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided").
				WithCode(goerrors.CodeBadRequest)
		}

		user.PasswordHash = hash
		user.Touch()

		if user, err = h.repo.Users().UpdateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password update transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
