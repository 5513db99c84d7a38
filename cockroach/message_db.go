package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/types"
)

// CreateMessage appends a message, bumping the recipient's unread count and
// the conversation recency in the same transaction. Sending implies
// re-engagement: any tombstone on the pair is cleared for both participants.
func (c *Cockroach) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		conversationID := types.ConversationKey(in.LoggedInUserID(), in.ToUserID)
		in.SetConversationID(conversationID)

		if err := c.upsertConversation(ctx, conversationID, in.TradeOfferID); err != nil {
			return err
		}

		if err := c.upsertParticipants(ctx, conversationID, in.LoggedInUserID(), in.ToUserID); err != nil {
			return err
		}

		if err := c.reactivateParticipants(ctx, conversationID); err != nil {
			return err
		}

		msg, err := c.createMessage(ctx, in)
		if err != nil {
			return err
		}

		if err := c.bumpUnreadCount(ctx, conversationID, in.ToUserID); err != nil {
			return err
		}

		if err := c.touchConversation(ctx, conversationID, msg); err != nil {
			return err
		}

		out = msg
		return nil
	})
}

func (c *Cockroach) createMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message

	const q = `
		INSERT INTO messages (id, conversation_id, from_user_id, to_user_id, content, image_url)
		VALUES (@message_id, @conversation_id, @from_user_id, @to_user_id, @content, @image_url)
		RETURNING messages.*
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"message_id":      id.Generate(),
		"conversation_id": in.ConversationID(),
		"from_user_id":    in.LoggedInUserID(),
		"to_user_id":      in.ToUserID,
		"content":         in.Content,
		"image_url":       in.ImageURL,
	})
	if err != nil {
		return out, fmt.Errorf("sql insert message: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return out, fmt.Errorf("sql collect inserted message: %w", err)
	}

	return out, nil
}

func (c *Cockroach) bumpUnreadCount(ctx context.Context, conversationID, toUserID string) error {
	const q = `
		UPDATE conversation_participants
		SET unread_count = unread_count + 1,
			updated_at = now()
		WHERE conversation_id = @conversation_id
			AND user_id = @to_user_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"to_user_id":      toUserID,
	})
	if err != nil {
		return fmt.Errorf("sql bump unread count: %w", err)
	}

	return nil
}

func (c *Cockroach) touchConversation(ctx context.Context, conversationID string, msg types.Message) error {
	preview := "Photo"
	if msg.Content != nil {
		preview = *msg.Content
	}

	const q = `
		UPDATE conversations
		SET last_message = @last_message,
			last_message_at = @last_message_at
		WHERE id = @conversation_id
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"last_message":    preview,
		"last_message_at": msg.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("sql touch conversation: %w", err)
	}

	return nil
}

// Messages lists the conversation timeline in ascending order, excluding
// messages the logged in user has hidden. Fetching the timeline marks the
// conversation as read for them.
func (c *Cockroach) Messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		if _, err := c.participant(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
			return err
		}

		msgs, err := c.messages(ctx, in)
		if err != nil {
			return err
		}

		if err := c.markConversationRead(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
			return err
		}

		out = msgs
		return nil
	})
}

func (c *Cockroach) messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]

	query := `
		SELECT messages.*,
			json_build_object('id', from_user.id, 'username', from_user.username) AS from_user,
			json_build_object('isMine', messages.from_user_id = @user_id) AS relationship
		FROM messages
		INNER JOIN users AS from_user ON from_user.id = messages.from_user_id
		WHERE messages.conversation_id = @conversation_id
			AND NOT EXISTS (
				SELECT 1 FROM message_deletions
				WHERE message_deletions.message_id = messages.id
					AND message_deletions.user_id = @user_id
			)
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": in.ConversationID,
		"user_id":         in.LoggedInUserID(),
	}

	query, err := addPageFilter(query, "messages.created_at", "messages.id", true, args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, "messages.created_at", "messages.id", true, in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select messages: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Message])
	if err != nil {
		return out, fmt.Errorf("sql collect messages: %w", err)
	}

	err = applyPageInfo(&out, in.PageArgs, func(m types.Message) timeCursor {
		return timeCursor{ID: m.ID, Value: m.CreatedAt}
	})

	return out, err
}
