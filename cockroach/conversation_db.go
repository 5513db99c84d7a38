package cockroach

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nicolasparada/go-db"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

// Conversation gets or creates the conversation between the logged in user
// and the other participant. The operation is idempotent: the row id is the
// deterministic pair key, and re-running against an active conversation
// performs no redundant write.
func (c *Cockroach) Conversation(ctx context.Context, in types.RetrieveConversation) (types.Conversation, error) {
	var out types.Conversation
	return out, c.db.RunTx(ctx, func(ctx context.Context) error {
		conversationID := types.ConversationKey(in.LoggedInUserID(), in.OtherUserID)

		if err := c.upsertConversation(ctx, conversationID, in.TradeOfferID); err != nil {
			return err
		}

		if err := c.upsertParticipants(ctx, conversationID, in.LoggedInUserID(), in.OtherUserID); err != nil {
			return err
		}

		if err := c.reactivateParticipants(ctx, conversationID); err != nil {
			return err
		}

		var err error
		out, err = c.conversation(ctx, conversationID, in.LoggedInUserID())
		return err
	})
}

func (c *Cockroach) upsertConversation(ctx context.Context, conversationID string, tradeOfferID *string) error {
	const q = `
		INSERT INTO conversations (id, trade_offer_id)
		VALUES (@conversation_id, @trade_offer_id)
		ON CONFLICT (id) DO UPDATE
		SET trade_offer_id = COALESCE(conversations.trade_offer_id, excluded.trade_offer_id)
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"trade_offer_id":  tradeOfferID,
	})
	if err != nil {
		return fmt.Errorf("sql upsert conversation: %w", err)
	}

	return nil
}

func (c *Cockroach) upsertParticipants(ctx context.Context, conversationID, userID, otherUserID string) error {
	const q = `
		INSERT INTO conversation_participants (user_id, conversation_id, other_user_id)
		VALUES (@user_id, @conversation_id, @other_user_id)
			 , (@other_user_id, @conversation_id, @user_id)
		ON CONFLICT (user_id, conversation_id) DO NOTHING
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"user_id":         userID,
		"conversation_id": conversationID,
		"other_user_id":   otherUserID,
	})
	if err != nil {
		return fmt.Errorf("sql upsert conversation participants: %w", err)
	}

	return nil
}

// reactivateParticipants clears the soft-delete tombstone for the whole
// pair. The conversation has a single shared timeline, so reactivation is
// symmetric rather than per-actor.
func (c *Cockroach) reactivateParticipants(ctx context.Context, conversationID string) error {
	const q = `
		UPDATE conversation_participants
		SET deleted_at = NULL,
			updated_at = now()
		WHERE conversation_id = @conversation_id
			AND deleted_at IS NOT NULL
	`

	_, err := c.db.Exec(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
	})
	if err != nil {
		return fmt.Errorf("sql reactivate conversation participants: %w", err)
	}

	return nil
}

func (c *Cockroach) conversation(ctx context.Context, conversationID, userID string) (types.Conversation, error) {
	var out types.Conversation

	const q = `
		SELECT conversations.*,
			json_build_object(
				'userID', conversation_participants.user_id,
				'conversationID', conversation_participants.conversation_id,
				'otherUserID', conversation_participants.other_user_id,
				'unreadCount', conversation_participants.unread_count,
				'deletedAt', conversation_participants.deleted_at,
				'createdAt', conversation_participants.created_at,
				'updatedAt', conversation_participants.updated_at,
				'otherUser', json_build_object(
					'id', other_user.id,
					'username', other_user.username
				)
			) AS participation
		FROM conversations
		INNER JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id
		INNER JOIN users AS other_user ON other_user.id = conversation_participants.other_user_id
		WHERE conversations.id = @conversation_id
			AND conversation_participants.user_id = @user_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select conversation: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("conversation not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect conversation: %w", err)
	}

	return out, nil
}

// Conversations lists the logged in user's conversations by recency,
// excluding the ones they soft-deleted.
func (c *Cockroach) Conversations(ctx context.Context, in types.ListConversations) (types.Page[types.Conversation], error) {
	var out types.Page[types.Conversation]

	query := `
		SELECT conversations.*,
			json_build_object(
				'userID', conversation_participants.user_id,
				'conversationID', conversation_participants.conversation_id,
				'otherUserID', conversation_participants.other_user_id,
				'unreadCount', conversation_participants.unread_count,
				'deletedAt', conversation_participants.deleted_at,
				'createdAt', conversation_participants.created_at,
				'updatedAt', conversation_participants.updated_at,
				'otherUser', json_build_object(
					'id', other_user.id,
					'username', other_user.username
				)
			) AS participation
		FROM conversations
		INNER JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id
		INNER JOIN users AS other_user ON other_user.id = conversation_participants.other_user_id
		WHERE conversation_participants.user_id = @user_id
			AND conversation_participants.deleted_at IS NULL
	`
	args := pgx.StrictNamedArgs{
		"user_id": in.LoggedInUserID(),
	}

	const activityCol = "COALESCE(conversations.last_message_at, conversations.created_at)"

	query, err := addPageFilter(query, activityCol, "conversations.id", false, args, in.PageArgs)
	if err != nil {
		return out, err
	}

	query = addPageOrder(query, activityCol, "conversations.id", false, in.PageArgs)
	query = addPageLimit(query, args, in.PageArgs)

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		return out, fmt.Errorf("sql select conversations: %w", err)
	}

	out.Items, err = pgx.CollectRows(rows, pgx.RowToStructByNameLax[types.Conversation])
	if err != nil {
		return out, fmt.Errorf("sql collect conversations: %w", err)
	}

	err = applyPageInfo(&out, in.PageArgs, func(conversation types.Conversation) timeCursor {
		activity := conversation.CreatedAt
		if conversation.LastMessageAt != nil {
			activity = *conversation.LastMessageAt
		}
		return timeCursor{ID: conversation.ID, Value: activity}
	})

	return out, err
}

// DeleteConversation tombstones the conversation for the logged in user
// and hides its current messages from them. Nothing is ever pruned; the
// other participant keeps seeing the full timeline.
func (c *Cockroach) DeleteConversation(ctx context.Context, in types.DeleteConversation) error {
	return c.db.RunTx(ctx, func(ctx context.Context) error {
		if _, err := c.participant(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
			return err
		}

		const tombstone = `
			UPDATE conversation_participants
			SET deleted_at = now(),
				unread_count = 0,
				updated_at = now()
			WHERE conversation_id = @conversation_id
				AND user_id = @user_id
				AND deleted_at IS NULL
		`

		_, err := c.db.Exec(ctx, tombstone, pgx.StrictNamedArgs{
			"conversation_id": in.ConversationID,
			"user_id":         in.LoggedInUserID(),
		})
		if err != nil {
			return fmt.Errorf("sql tombstone conversation participant: %w", err)
		}

		const hideMessages = `
			INSERT INTO message_deletions (message_id, user_id)
			SELECT messages.id, @user_id
			FROM messages
			WHERE messages.conversation_id = @conversation_id
			ON CONFLICT (message_id, user_id) DO NOTHING
		`

		_, err = c.db.Exec(ctx, hideMessages, pgx.StrictNamedArgs{
			"conversation_id": in.ConversationID,
			"user_id":         in.LoggedInUserID(),
		})
		if err != nil {
			return fmt.Errorf("sql hide conversation messages: %w", err)
		}

		return nil
	})
}

func (c *Cockroach) ReadConversation(ctx context.Context, in types.ReadConversation) error {
	return c.db.RunTx(ctx, func(ctx context.Context) error {
		if _, err := c.participant(ctx, in.ConversationID, in.LoggedInUserID()); err != nil {
			return err
		}

		return c.markConversationRead(ctx, in.ConversationID, in.LoggedInUserID())
	})
}

func (c *Cockroach) markConversationRead(ctx context.Context, conversationID, userID string) error {
	const resetUnread = `
		UPDATE conversation_participants
		SET unread_count = 0,
			updated_at = now()
		WHERE conversation_id = @conversation_id
			AND user_id = @user_id
			AND unread_count != 0
	`

	_, err := c.db.Exec(ctx, resetUnread, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	if err != nil {
		return fmt.Errorf("sql reset unread count: %w", err)
	}

	const readMessages = `
		UPDATE messages
		SET is_read = true
		WHERE conversation_id = @conversation_id
			AND to_user_id = @user_id
			AND NOT is_read
			AND NOT EXISTS (
				SELECT 1 FROM message_deletions
				WHERE message_deletions.message_id = messages.id
					AND message_deletions.user_id = @user_id
			)
	`

	_, err = c.db.Exec(ctx, readMessages, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	if err != nil {
		return fmt.Errorf("sql mark messages as read: %w", err)
	}

	return nil
}

// ConversationParticipant fetches the participant row for userID in the
// given conversation, or a not found error when the user is no party to it.
func (c *Cockroach) ConversationParticipant(ctx context.Context, conversationID, userID string) (types.ConversationParticipant, error) {
	return c.participant(ctx, conversationID, userID)
}

func (c *Cockroach) participant(ctx context.Context, conversationID, userID string) (types.ConversationParticipant, error) {
	var out types.ConversationParticipant

	const q = `
		SELECT conversation_participants.*
		FROM conversation_participants
		WHERE conversation_participants.conversation_id = @conversation_id
			AND conversation_participants.user_id = @user_id
	`

	rows, err := c.db.Query(ctx, q, pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	if err != nil {
		return out, fmt.Errorf("sql select conversation participant: %w", err)
	}

	out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[types.ConversationParticipant])
	if db.IsNotFoundError(err) {
		return out, errs.NewNotFoundError("conversation not found")
	}

	if err != nil {
		return out, fmt.Errorf("sql collect conversation participant: %w", err)
	}

	return out, nil
}
