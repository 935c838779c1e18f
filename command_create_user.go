package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// CreateUserMessage carries an admin issued account. The record starts out
// pending, with no credential: the owner claims it through the emailed
// verification link and sets their own password there.
type CreateUserMessage struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"isAdmin"`
	Origin     string `json:"-"`
	UseHashid  bool
	OnResponse func(user *User)
}

func (e CreateUserMessage) Type() string { return "user.create" }

type CreateUserHandler struct {
	repo   RepositoryManager
	mailer Mailer
	logger Logger
}

func NewCreateUserHandler(repo RepositoryManager, mailer Mailer, logger Logger) *CreateUserHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &CreateUserHandler{
		repo:   repo,
		mailer: mailer,
		logger: logger,
	}
}

func (h *CreateUserHandler) Execute(ctx context.Context, event CreateUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user creation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateUserHandler) execute(ctx context.Context, event CreateUserMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrEmailAlreadyRegistered
		} else if !IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
		}

		token, err := RandomTokenString()
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate verification token")
		}

		user.Email = event.Email
		user.FirstName = event.FirstName
		user.LastName = event.LastName
		user.IsVerified = false
		user.VerificationToken = token
		user.Role = RoleUser
		if event.IsAdmin {
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
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user creation transaction failed")
	}

	// the account exists either way; a failed email only costs a resend
	if h.mailer != nil {
		if err := h.mailer.SendVerificationEmail(ctx, user, event.Origin); err != nil {
			h.logger.Error("failed to send verification email", "email", user.Email, "error", err)
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
