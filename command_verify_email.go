package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// VerifyEmailMessage claims a pending account: the opaque token proves
// ownership of the mailbox and the chosen password becomes the credential.
type VerifyEmailMessage struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	OnResponse      func(user *User)
}

func (e VerifyEmailMessage) Type() string { return "user.verify_email" }

type VerifyEmailHandler struct {
	repo RepositoryManager
}

func NewVerifyEmailHandler(repo RepositoryManager) *VerifyEmailHandler {
	return &VerifyEmailHandler{repo: repo}
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Password != event.ConfirmPassword {
		return ErrPasswordMismatch
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().GetByVerificationTokenTx(ctx, tx, event.Token)
		if err != nil {
			if IsNotFound(err) {
				return ErrInvalidOrExpiredToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided").
				WithCode(goerrors.CodeBadRequest)
		}

		if err := h.repo.Users().VerifyAccountTx(ctx, tx, user.ID, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
		}

		user.IsVerified = true
		user.VerificationToken = ""
		user.PasswordHash = hash

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
