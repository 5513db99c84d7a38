package service

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

// CreateMessage sends a message to the other user, creating or restoring
// the conversation as needed.
func (svc *Service) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if in.ToUserID == loggedInUser.ID {
		return out, errs.NewInvalidArgumentError("ToUserID", "Cannot message yourself")
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	if _, err := svc.Cockroach.User(ctx, types.RetrieveUser{UserID: in.ToUserID}); err != nil {
		return out, err
	}

	out, err := svc.Cockroach.CreateMessage(ctx, in)
	if err != nil {
		return out, err
	}

	svc.broadcastMessage(out)

	return out, nil
}

// Messages lists the conversation's timeline in ascending order, skipping
// messages sent before the logged in user soft-deleted the conversation.
// Listing also marks the conversation as read.
func (svc *Service) Messages(ctx context.Context, in types.ListMessages) (types.Page[types.Message], error) {
	var out types.Page[types.Message]

	if err := in.Validate(); err != nil {
		return out, err
	}

	if err := in.PageArgs.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.Messages(ctx, in)
}

// MessageStream emits messages of the given conversation in realtime.
func (svc *Service) MessageStream(ctx context.Context, conversationID string) (<-chan types.Message, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	if _, err := svc.Cockroach.ConversationParticipant(ctx, conversationID, loggedInUser.ID); err != nil {
		return nil, err
	}

	out := make(chan types.Message)
	unsub, err := svc.PubSub.Sub(messagesTopic(conversationID), func(data []byte) {
		var msg types.Message
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&msg); err != nil {
			svc.report(fmt.Errorf("gob decode message: %w", err))
			return
		}

		select {
		case out <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to messages: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := unsub(); err != nil {
			svc.report(fmt.Errorf("unsubscribe from messages: %w", err))
		}
		close(out)
	}()

	return out, nil
}

// broadcastMessage fans a freshly stored message out to the realtime
// streams, nudges both conversation lists, and alerts the recipient over
// web push when they are not on the site.
func (svc *Service) broadcastMessage(msg types.Message) {
	svc.background(func(ctx context.Context) error {
		var b bytes.Buffer
		if err := gob.NewEncoder(&b).Encode(msg); err != nil {
			return fmt.Errorf("gob encode message: %w", err)
		}

		if err := svc.PubSub.Pub(messagesTopic(msg.ConversationID), b.Bytes()); err != nil {
			return fmt.Errorf("publish message: %w", err)
		}

		for _, userID := range []string{msg.FromUserID, msg.ToUserID} {
			if err := svc.PubSub.Pub(conversationsTopic(userID), nil); err != nil {
				return fmt.Errorf("publish conversation ping: %w", err)
			}
		}

		svc.sendMessageWebPush(ctx, msg)

		return nil
	})
}

func (svc *Service) sendMessageWebPush(ctx context.Context, msg types.Message) {
	if !svc.WebPush.Enabled() {
		return
	}

	// Foregrounded clients already see the message land; skip the push.
	if svc.presence.active(msg.ToUserID) {
		return
	}

	preview := "Photo"
	if msg.Content != nil {
		preview = *msg.Content
	}

	sender := msg.FromUserID
	if msg.FromUser != nil {
		sender = msg.FromUser.Username
	}

	svc.sendWebPush(ctx, msg.ToUserID, webPushPayload{
		Title: "New message from " + sender,
		Body:  preview,
		URL:   svc.BaseURL + "/messages?conversation=" + msg.ConversationID,
	})
}

func conversationsTopic(userID string) string    { return "conversations_" + userID }
func messagesTopic(conversationID string) string { return "messages_" + conversationID }
