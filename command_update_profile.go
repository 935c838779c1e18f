package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpdateProfileMessage edits an account's identity fields. Changing the
// email re-checks uniqueness against the rest of the store.
type UpdateProfileMessage struct {
	UserID     uuid.UUID `json:"-"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	OnResponse func(user *User)
}

func (e UpdateProfileMessage) Type() string { return "user.update_profile" }

type UpdateProfileHandler struct {
	repo RepositoryManager
}

func NewUpdateProfileHandler(repo RepositoryManager) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

func (h *UpdateProfileHandler) Execute(ctx context.Context, event UpdateProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateProfileHandler) execute(ctx context.Context, event UpdateProfileMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := h.repo.Users().GetByIDTx(ctx, tx, event.UserID)
		if err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for profile update")
		}

		if event.Email != "" && event.Email != current.Email {
			if _, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
				return ErrEmailAlreadyRegistered
			} else if !IsNotFound(err) {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
			}
		}

		updated := current.WithProfile(event.FirstName, event.LastName, event.Email)

		if user, err = h.repo.Users().UpdateTx(ctx, tx, updated); err != nil {
			if IsDuplicateKey(err) {
				return ErrEmailAlreadyRegistered
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store profile update")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "profile update transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
