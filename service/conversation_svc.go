package service

import (
	"context"
	"fmt"

	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

// Conversation gets or creates the conversation with the other user.
// Re-requesting an existing conversation reactivates it for both sides if
// either had soft-deleted it.
func (svc *Service) Conversation(ctx context.Context, in types.RetrieveConversation) (types.Conversation, error) {
	var out types.Conversation

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if in.OtherUserID == loggedInUser.ID {
		return out, errs.NewInvalidArgumentError("OtherUserID", "Cannot start a conversation with yourself")
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	if _, err := svc.Cockroach.User(ctx, types.RetrieveUser{UserID: in.OtherUserID}); err != nil {
		return out, err
	}

	return svc.Cockroach.Conversation(ctx, in)
}

func (svc *Service) Conversations(ctx context.Context, in types.ListConversations) (types.Page[types.Conversation], error) {
	var out types.Page[types.Conversation]

	if err := in.PageArgs.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.Conversations(ctx, in)
}

// DeleteConversation soft-deletes the conversation for the logged in user
// only. The other participant keeps seeing it, and any new message from
// either side restores it.
func (svc *Service) DeleteConversation(ctx context.Context, in types.DeleteConversation) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.DeleteConversation(ctx, in)
}

// ReadConversation resets the logged in user's unread count and marks the
// visible messages addressed to them as read.
func (svc *Service) ReadConversation(ctx context.Context, in types.ReadConversation) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.ReadConversation(ctx, in)
}

// ConversationStream emits the logged in user's conversation list: once on
// subscribe, then again every time any of their conversations changes. Each
// emission is a fresh snapshot, so a client that reconnects misses nothing.
func (svc *Service) ConversationStream(ctx context.Context) (<-chan []types.Conversation, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	// Coalescing buffer: bursts of pings collapse into one re-query.
	pings := make(chan struct{}, 1)
	ping := func() {
		select {
		case pings <- struct{}{}:
		default:
		}
	}

	unsub, err := svc.PubSub.Sub(conversationsTopic(loggedInUser.ID), func([]byte) {
		ping()
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to conversations: %w", err)
	}

	ping()

	out := make(chan []types.Conversation)
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				if err := unsub(); err != nil {
					svc.report(fmt.Errorf("unsubscribe from conversations: %w", err))
				}
				return
			case <-pings:
			}

			var in types.ListConversations
			in.SetLoggedInUserID(loggedInUser.ID)

			page, err := svc.Cockroach.Conversations(ctx, in)
			if err != nil {
				if ctx.Err() == nil {
					svc.report(fmt.Errorf("stream conversations: %w", err))
				}
				continue
			}

			select {
			case out <- page.Items:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}
