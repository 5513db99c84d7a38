package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nicolasparada/go-db"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/types"
)

func (c *Cockroach) UpsertUser(ctx context.Context, in types.UpsertUser) (types.User, error) {
	var out types.User

	const q = `
		INSERT INTO users (id, email, username)
		VALUES (@user_id, @email, @username)
		ON CONFLICT (email) DO UPDATE SET email = excluded.email
		RETURNING users.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id":  id.Generate(),
		"email":    in.Email,
		"username": in.Username,
	})
	if err != nil {
		return out, fmt.Errorf("sql upsert user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if err != nil {
		return out, fmt.Errorf("sql collect upserted user: %w", err)
	}

	return out, nil
}

func (c *Cockroach) User(ctx context.Context, in types.RetrieveUser) (types.User, error) {
	var out types.User

	const q = `
		SELECT users.*
		FROM users
		WHERE users.id = @user_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": in.UserID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select user: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.User])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("user not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect user: %w", err)
	}

	return out, nil
}
