package accounts

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager aggregates the stores and exposes transaction scoping.
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
}

type mngr struct {
	db    *bun.DB
	users Users
}

var _ RepositoryManager = (*mngr)(nil)

// NewRepositoryManager builds the storage facade used by command handlers
// and controllers.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		users: NewUsersRepository(db),
	}
}

func (m *mngr) Users() Users {
	return m.users
}

func (m *mngr) Validate() error {
	if m.db == nil {
		return ErrNoConnection
	}
	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		panic(err)
	}
}

// RunInTx executes the given function inside a transaction, committing on nil
// and rolling back on error or context cancellation.
func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}
