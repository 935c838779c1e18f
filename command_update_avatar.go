package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpdateAvatarMessage swaps a user's avatar reference. The caller is
// responsible for persisting the uploaded file first; OnResponse receives the
// previous file name so the stale upload can be removed after commit.
type UpdateAvatarMessage struct {
	UserID     uuid.UUID
	FileName   string
	OnResponse func(user *User, previous string)
}

func (e UpdateAvatarMessage) Type() string { return "user.update_avatar" }

type UpdateAvatarHandler struct {
	repo RepositoryManager
}

func NewUpdateAvatarHandler(repo RepositoryManager) *UpdateAvatarHandler {
	return &UpdateAvatarHandler{repo: repo}
}

func (h *UpdateAvatarHandler) Execute(ctx context.Context, event UpdateAvatarMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during avatar update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateAvatarHandler) execute(ctx context.Context, event UpdateAvatarMessage) error {
	user := &User{}
	previous := ""
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = h.repo.Users().GetByIDTx(ctx, tx, event.UserID)
		if err != nil {
			if IsNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for avatar update")
		}

		previous = user.Avatar
		user.Avatar = event.FileName
		user.Touch()

		if user, err = h.repo.Users().UpdateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store avatar update")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "avatar update transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user, previous)
	}

	return nil
}
