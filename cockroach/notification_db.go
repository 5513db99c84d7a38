package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/types"
)

// CreateNotification persists a notification record. Notifications tied to a
// trade offer are deduped per (user, kind, trade offer): replays report
// created = false instead of inserting a second record.
func (c *Cockroach) CreateNotification(ctx context.Context, in types.CreateNotification) (types.Notification, bool, error) {
	var out types.Notification

	const q = `
		INSERT INTO notifications (id, user_id, kind, title, body, data, trade_offer_id)
		VALUES (@notification_id, @user_id, @kind, @title, @body, @data, @trade_offer_id)
		ON CONFLICT DO NOTHING
		RETURNING notifications.*
	`

	data := in.Data
	if data == nil {
		data = map[string]any{}
	}

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"notification_id": id.Generate(),
		"user_id":         in.UserID,
		"kind":            in.Kind,
		"title":           in.Title,
		"body":            in.Body,
		"data":            data,
		"trade_offer_id":  in.TradeOfferID,
	})
	if err != nil {
		return out, false, fmt.Errorf("sql insert notification: %w", err)
	}

	inserted, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Notification])
	if err != nil {
		return out, false, fmt.Errorf("sql collect inserted notification: %w", err)
	}

	if len(inserted) == 0 {
		return out, false, nil
	}

	return inserted[0], true, nil
}

func (c *Cockroach) Notifications(ctx context.Context, in types.ListNotifications) (types.Page[types.Notification], error) {
	var out types.Page[types.Notification]

	query := `
		SELECT notifications.*
		FROM notifications
		WHERE notifications.user_id = @user_id
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.UserID(),
	}

	query, err := addPageFilter(query, "notifications.created_at", "notifications.id", false, args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "notifications.created_at", "notifications.id", false, in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select notifications: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Notification])
	if err != nil {
		return out, fmt.Errorf("sql collect notifications: %w", err)
	}

	err = applyPageInfo(&out, in.PageArgs, func(n types.Notification) timeCursor {
		return timeCursor{ID: n.ID, Value: n.CreatedAt}
	})

	return out, err
}

func (c *Cockroach) ReadNotification(ctx context.Context, in types.ReadNotification) error {
	const q = `
		UPDATE notifications
		SET read_at = now()
		WHERE id = @notification_id
			AND user_id = @user_id
			AND read_at IS NULL
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"notification_id": in.NotificationID,
		"user_id":         in.UserID(),
	})
	if err != nil {
		return fmt.Errorf("sql update notification read_at: %w", err)
	}

	return nil
}

func (c *Cockroach) ReadNotifications(ctx context.Context, userID string) error {
	const q = `
		UPDATE notifications
		SET read_at = now()
		WHERE user_id = @user_id
			AND read_at IS NULL
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("sql update notifications read_at: %w", err)
	}

	return nil
}

func (c *Cockroach) HasUnreadNotifications(ctx context.Context, userID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = @user_id
				AND read_at IS NULL
		)
	`

	var unread bool
	err := c.db.QueryRow(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	}).Scan(&unread)
	if err != nil {
		return false, fmt.Errorf("sql check unread notifications: %w", err)
	}

	return unread, nil
}
