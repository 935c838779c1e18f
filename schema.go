package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// CreateSchema materializes the users table if it does not exist yet.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create users table")
	}
	return nil
}
