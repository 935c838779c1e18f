package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VerifyAccountSQL promotes a pending account: writes the hash, marks the
// email verified and burns the verification token. Done in raw SQL because
// clearing columns to NULL does not survive zero-value-skipping ORM updates.
var VerifyAccountSQL = `UPDATE "users" AS "usr"
SET
	"is_verified" = TRUE,
	"password_hash" = ?,
	"verification_token" = NULL,
	"updated_at" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

// ResetUserPasswordSQL writes a new hash and clears the reset token in the
// same statement, so a consumed token can never be replayed.
var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"reset_token" = NULL,
	"reset_token_expires_at" = NULL,
	"updated_at" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

// Users is the storage collaborator for user records. Lookups that miss
// return a record-not-found error detectable with repository.IsRecordNotFound
// or IsNotFound.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)
	GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)

	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	Update(ctx context.Context, record *User) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	VerifyAccountTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	List(ctx context.Context) ([]*User, error)
	CountAll(ctx context.Context) (int, error)
	CountAllTx(ctx context.Context, tx bun.IDB) (int, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the bun backed Users store.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetByIDTx(ctx, a.db, id)
}

func (a *users) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	return a.getOneTx(ctx, tx, "id", id.String())
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getOneTx(ctx, tx, "email", strings.TrimSpace(email))
}

func (a *users) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	return a.getOneTx(ctx, tx, "verification_token", token)
}

func (a *users) GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	return a.getOneTx(ctx, tx, "reset_token", token)
}

func (a *users) getOneTx(ctx context.Context, tx bun.IDB, column string, value any) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"column": column,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *users) Update(ctx context.Context, record *User) (*User, error) {
	return a.UpdateTx(ctx, a.db, record)
}

func (a *users) UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String()))
}

func (a *users) VerifyAccountTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	return a.rawUpdate(ctx, tx, VerifyAccountSQL, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	return a.rawUpdate(ctx, tx, ResetUserPasswordSQL, id, passwordHash)
}

func (a *users) rawUpdate(ctx context.Context, tx bun.IDB, query string, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, query, passwordHash, time.Now(), id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	records := []*User{}

	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *users) CountAll(ctx context.Context) (int, error) {
	return a.CountAllTx(ctx, a.db)
}

func (a *users) CountAllTx(ctx context.Context, tx bun.IDB) (int, error) {
	return tx.NewSelect().Model((*User)(nil)).Count(ctx)
}

func (a *users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)

	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.Avatar == "" {
		record.Avatar = DefaultAvatar
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// IsNotFound reports whether err signals a lookup miss, whichever layer
// produced it.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateKey detects unique constraint violations on insert. The unique
// email index is the authoritative guard against concurrent registrations;
// the in-handler existence check is advisory only.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
