package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nicolasparada/go-db"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

func (c *Cockroach) Item(ctx context.Context, in types.RetrieveItem) (types.Item, error) {
	var out types.Item

	const q = `
		SELECT items.*,
			json_build_object(
				'id', owner.id,
				'username', owner.username,
				'createdAt', owner.created_at
			) AS owner
		FROM items
		INNER JOIN users AS owner ON owner.id = items.user_id
		WHERE items.id = @item_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"item_id": in.ItemID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select item: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Item])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("item not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect item: %w", err)
	}

	return out, nil
}

func (c *Cockroach) UserItems(ctx context.Context, in types.ListUserItems) (types.Page[types.Item], error) {
	var out types.Page[types.Item]

	query := `
		SELECT items.*
		FROM items
		WHERE items.user_id = @user_id
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.UserID,
	}

	query, err := addPageFilter(query, "items.created_at", "items.id", false, args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "items.created_at", "items.id", false, in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select user items: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Item])
	if err != nil {
		return out, fmt.Errorf("sql collect user items: %w", err)
	}

	err = applyPageInfo(&out, in.PageArgs, func(item types.Item) timeCursor {
		return timeCursor{ID: item.ID, Value: item.CreatedAt}
	})

	return out, err
}

// itemForUpdate locks the item row for the rest of the transaction.
func (c *Cockroach) itemForUpdate(ctx context.Context, itemID string) (types.Item, error) {
	var out types.Item

	const q = `
		SELECT items.id, items.user_id, items.title, items.status
		FROM items
		WHERE items.id = @item_id
		FOR UPDATE
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"item_id": itemID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select item for update: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Item])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("item not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect item for update: %w", err)
	}

	return out, nil
}

func (c *Cockroach) markItemsTraded(ctx context.Context, itemIDs ...string) error {
	const q = `
		UPDATE items
		SET status = @traded_status,
			updated_at = now()
		WHERE id = ANY (@item_ids)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"traded_status": types.ItemStatusTraded,
		"item_ids":      itemIDs,
	})
	if err != nil {
		return fmt.Errorf("sql update items to traded: %w", err)
	}

	return nil
}
