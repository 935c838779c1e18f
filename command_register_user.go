package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a self service sign up. Accounts created this
// way are active immediately; the very first account in an empty store is
// promoted to admin so a fresh deployment can bootstrap itself.
type RegisterUserMessage struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	UseHashid  bool
	OnResponse func(user *User)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// advisory check; the unique email index is the real guard
		if _, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrEmailAlreadyRegistered
		} else if !IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
		}

		total, err := h.repo.Users().CountAllTx(ctx, tx)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count existing users")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided").
				WithCode(goerrors.CodeBadRequest)
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.FirstName = event.FirstName
		user.LastName = event.LastName
		user.IsVerified = true
		user.Role = RoleUser
		if total == 0 {
			user.Role = RoleAdmin
		}

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			if IsDuplicateKey(err) {
				return ErrEmailAlreadyRegistered
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
