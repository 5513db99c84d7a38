package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swapmeet/swapmeet/types"
)

func (c *Cockroach) UpsertPushSubscription(ctx context.Context, in types.CreatePushSubscription) error {
	const q = `
		INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth)
		VALUES (@endpoint, @user_id, @p256dh, @auth)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = excluded.user_id,
			p256dh = excluded.p256dh,
			auth = excluded.auth
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"endpoint": in.Endpoint,
		"user_id":  in.LoggedInUserID(),
		"p256dh":   in.P256DH,
		"auth":     in.Auth,
	})
	if err != nil {
		return fmt.Errorf("sql upsert push subscription: %w", err)
	}

	return nil
}

func (c *Cockroach) DeletePushSubscription(ctx context.Context, in types.DeletePushSubscription) error {
	const q = `
		DELETE FROM push_subscriptions
		WHERE endpoint = @endpoint
			AND user_id = @user_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"endpoint": in.Endpoint,
		"user_id":  in.LoggedInUserID(),
	})
	if err != nil {
		return fmt.Errorf("sql delete push subscription: %w", err)
	}

	return nil
}

func (c *Cockroach) UserPushSubscriptions(ctx context.Context, userID string) ([]types.PushSubscription, error) {
	const q = `
		SELECT push_subscriptions.*
		FROM push_subscriptions
		WHERE push_subscriptions.user_id = @user_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("sql select push subscriptions: %w", err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.PushSubscription])
	if err != nil {
		return nil, fmt.Errorf("sql collect push subscriptions: %w", err)
	}

	return out, nil
}

// PrunePushSubscription drops a subscription the push service reported gone.
func (c *Cockroach) PrunePushSubscription(ctx context.Context, endpoint string) error {
	const q = `
		DELETE FROM push_subscriptions
		WHERE endpoint = @endpoint
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"endpoint": endpoint,
	})
	if err != nil {
		return fmt.Errorf("sql prune push subscription: %w", err)
	}

	return nil
}
