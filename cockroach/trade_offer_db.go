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

func (c *Cockroach) CreateTradeOffer(ctx context.Context, in types.CreateTradeOffer) (types.TradeOffer, error) {
	var out types.TradeOffer
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		fromItem, err := c.itemForUpdate(ctx, in.FromItemID)
		if err != nil {
			return err
		}

		if fromItem.UserID != in.LoggedInUserID() {
			return errs.NewPermissionDeniedError("cannot offer an item you do not own")
		}

		toItem, err := c.itemForUpdate(ctx, in.ToItemID)
		if err != nil {
			return err
		}

		if toItem.UserID == in.LoggedInUserID() {
			return errs.NewFailedPreconditionError("cannot make a trade offer to yourself")
		}

		if fromItem.Status != types.ItemStatusActive {
			return errs.NewFailedPreconditionError("offered item is not active")
		}

		if toItem.Status != types.ItemStatusActive {
			return errs.NewFailedPreconditionError("requested item is not active")
		}

		out, err = c.createTradeOffer(ctx, in, toItem.UserID)
		return err
	})
}

func (c *Cockroach) createTradeOffer(ctx context.Context, in types.CreateTradeOffer, toUserID string) (types.TradeOffer, error) {
	var out types.TradeOffer

	const q = `
		INSERT INTO trade_offers (id, from_user_id, to_user_id, from_item_id, to_item_id, message)
		VALUES (@trade_offer_id, @from_user_id, @to_user_id, @from_item_id, @to_item_id, @message)
		RETURNING trade_offers.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"trade_offer_id": id.Generate(),
		"from_user_id":   in.LoggedInUserID(),
		"to_user_id":     toUserID,
		"from_item_id":   in.FromItemID,
		"to_item_id":     in.ToItemID,
		"message":        in.Message,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert trade offer: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.TradeOffer])
	if err != nil {
		return out, fmt.Errorf("sql collect inserted trade offer: %w", err)
	}

	return out, nil
}

func (c *Cockroach) TradeOffer(ctx context.Context, in types.RetrieveTradeOffer) (types.TradeOffer, error) {
	var out types.TradeOffer

	const q = `
		SELECT trade_offers.*,
			to_json(from_item) AS from_item,
			to_json(to_item) AS to_item,
			json_build_object('id', from_user.id, 'username', from_user.username) AS from_user,
			json_build_object('id', to_user.id, 'username', to_user.username) AS to_user
		FROM trade_offers
		INNER JOIN items AS from_item ON from_item.id = trade_offers.from_item_id
		INNER JOIN items AS to_item ON to_item.id = trade_offers.to_item_id
		INNER JOIN users AS from_user ON from_user.id = trade_offers.from_user_id
		INNER JOIN users AS to_user ON to_user.id = trade_offers.to_user_id
		WHERE trade_offers.id = @trade_offer_id
			AND @user_id IN (trade_offers.from_user_id, trade_offers.to_user_id)
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"trade_offer_id": in.TradeOfferID,
		"user_id":        in.LoggedInUserID(),
	})
	if err != nil {
		return out, fmt.Errorf("sql select trade offer: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.TradeOffer])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("trade offer not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect trade offer: %w", err)
	}

	return out, nil
}

func (c *Cockroach) TradeOffers(ctx context.Context, in types.ListTradeOffers) (types.Page[types.TradeOffer], error) {
	var out types.Page[types.TradeOffer]

	query := `
		SELECT trade_offers.*,
			to_json(from_item) AS from_item,
			to_json(to_item) AS to_item,
			json_build_object('id', from_user.id, 'username', from_user.username) AS from_user,
			json_build_object('id', to_user.id, 'username', to_user.username) AS to_user
		FROM trade_offers
		INNER JOIN items AS from_item ON from_item.id = trade_offers.from_item_id
		INNER JOIN items AS to_item ON to_item.id = trade_offers.to_item_id
		INNER JOIN users AS from_user ON from_user.id = trade_offers.from_user_id
		INNER JOIN users AS to_user ON to_user.id = trade_offers.to_user_id
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
	}

	switch in.Direction {
	case types.TradeOfferDirectionIncoming:
		query += " WHERE trade_offers.to_user_id = @user_id"
	case types.TradeOfferDirectionOutgoing:
		query += " WHERE trade_offers.from_user_id = @user_id"
	default:
		query += " WHERE @user_id IN (trade_offers.from_user_id, trade_offers.to_user_id)"
	}

	if in.Status != nil {
		query += " AND trade_offers.status = @status"
		args["status"] = *in.Status
	}

	query, err := addPageFilter(query, "trade_offers.created_at", "trade_offers.id", false, args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "trade_offers.created_at", "trade_offers.id", false, in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select trade offers: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.TradeOffer])
	if err != nil {
		return out, fmt.Errorf("sql collect trade offers: %w", err)
	}

	err = applyPageInfo(&out, in.PageArgs, func(offer types.TradeOffer) timeCursor {
		return timeCursor{ID: offer.ID, Value: offer.CreatedAt}
	})

	return out, err
}

func (c *Cockroach) TransitionTradeOffer(ctx context.Context, in types.TransitionTradeOffer) (types.TradeOffer, error) {
	var out types.TradeOffer
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		offer, err := c.tradeOfferForUpdate(ctx, in.TradeOfferID)
		if err != nil {
			return err
		}

		switch in.Status {
		case types.TradeOfferStatusAccepted, types.TradeOfferStatusRejected:
			if offer.ToUserID != in.LoggedInUserID() {
				return errs.NewPermissionDeniedError("only the recipient can accept or reject a trade offer")
			}
		case types.TradeOfferStatusCancelled:
			if offer.FromUserID != in.LoggedInUserID() {
				return errs.NewPermissionDeniedError("only the sender can cancel a trade offer")
			}
		}

		if offer.Status.Terminal() {
			return errs.NewFailedPreconditionError(fmt.Sprintf("trade offer already %s", offer.Status))
		}

		// Accepting couples the offer to both item statuses within the same
		// transaction; either everything lands or nothing does.
		if in.Status == types.TradeOfferStatusAccepted {
			for _, itemID := range []string{offer.FromItemID, offer.ToItemID} {
				item, err := c.itemForUpdate(ctx, itemID)
				if err != nil {
					return err
				}

				if item.Status != types.ItemStatusActive {
					return errs.NewFailedPreconditionError(fmt.Sprintf("item %q is no longer active", item.Title))
				}
			}

			if err := c.markItemsTraded(ctx, offer.FromItemID, offer.ToItemID); err != nil {
				return err
			}
		}

		out, err = c.transitionTradeOffer(ctx, offer.ID, in.Status)
		return err
	})
}

func (c *Cockroach) transitionTradeOffer(ctx context.Context, tradeOfferID string, status types.TradeOfferStatus) (types.TradeOffer, error) {
	var out types.TradeOffer

	const q = `
		UPDATE trade_offers
		SET status = @status,
			updated_at = now()
		WHERE id = @trade_offer_id
			AND status = @pending_status
		RETURNING trade_offers.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"trade_offer_id": tradeOfferID,
		"status":         status,
		"pending_status": types.TradeOfferStatusPending,
	})
	if err != nil {
		return out, fmt.Errorf("sql update trade offer status: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.TradeOffer])
	if db.IsNotFoundError(err) {
		return out, errs.NewFailedPreconditionError("trade offer is no longer pending")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect transitioned trade offer: %w", err)
	}

	return out, nil
}

func (c *Cockroach) DeleteTradeOffer(ctx context.Context, in types.DeleteTradeOffer) error {
	return c.db.RunTx(ctx, func(ctx context.Context) error {
		offer, err := c.tradeOfferForUpdate(ctx, in.TradeOfferID)
		if err != nil {
			return err
		}

		if in.LoggedInUserID() != offer.FromUserID && in.LoggedInUserID() != offer.ToUserID {
			return errs.NewNotFoundError("trade offer not found")
		}

		switch offer.Status {
		case types.TradeOfferStatusRejected, types.TradeOfferStatusCancelled:
		default:
			return errs.NewFailedPreconditionError(fmt.Sprintf("cannot delete a %s trade offer", offer.Status))
		}

		const q = `
			DELETE FROM trade_offers
			WHERE id = @trade_offer_id
		`

		_, err = c.db.Exec(ctx, q, pgx.StrictNamedArgs{
			"trade_offer_id": offer.ID,
		})
		if err != nil {
			return fmt.Errorf("sql delete trade offer: %w", err)
		}

		return nil
	})
}

func (c *Cockroach) tradeOfferForUpdate(ctx context.Context, tradeOfferID string) (types.TradeOffer, error) {
	var out types.TradeOffer

	const q = `
		SELECT trade_offers.*
		FROM trade_offers
		WHERE trade_offers.id = @trade_offer_id
		FOR UPDATE
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"trade_offer_id": tradeOfferID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select trade offer for update: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.TradeOffer])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("trade offer not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect trade offer for update: %w", err)
	}

	return out, nil
}
