package service

import (
	"context"
	"testing"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/types"
)

func TestNotification_DedupePerTradeOffer(t *testing.T) {
	skipIfNoDB(t)

	user := createTestUser(t)
	tradeOfferID := id.Generate()

	ctx := context.Background()

	in := types.CreateNotification{
		UserID:       user.ID,
		Kind:         types.NotificationKindTradeOffer,
		Title:        "New trade offer",
		Body:         "someone wants to trade",
		TradeOfferID: &tradeOfferID,
	}

	_, created, err := testCockroach.CreateNotification(ctx, in)
	if err != nil {
		t.Fatalf("CreateNotification() error = %v", err)
	}
	if !created {
		t.Fatal("first notification not created")
	}

	_, created, err = testCockroach.CreateNotification(ctx, in)
	if err != nil {
		t.Fatalf("CreateNotification() retry error = %v", err)
	}
	if created {
		t.Error("duplicate (user, kind, trade offer) notification created")
	}

	// A different kind for the same offer is its own notification.
	in.Kind = types.NotificationKindTradeCompleted
	_, created, err = testCockroach.CreateNotification(ctx, in)
	if err != nil {
		t.Fatalf("CreateNotification() other kind error = %v", err)
	}
	if !created {
		t.Error("different kind deduped against unrelated notification")
	}
}

func TestNotification_ReadFlow(t *testing.T) {
	skipIfNoDB(t)

	user := createTestUser(t)
	ctx := context.Background()

	n, created, err := testCockroach.CreateNotification(ctx, types.CreateNotification{
		UserID: user.ID,
		Kind:   types.NotificationKindAdminMessage,
		Title:  "Welcome",
		Body:   "Thanks for joining.",
	})
	if err != nil || !created {
		t.Fatalf("CreateNotification() = created %v, error %v", created, err)
	}

	unread, err := testCockroach.HasUnreadNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("HasUnreadNotifications() error = %v", err)
	}
	if !unread {
		t.Error("HasUnreadNotifications() = false, want true")
	}

	readIn := types.ReadNotification{NotificationID: n.ID}
	readIn.SetUserID(user.ID)

	if err := testCockroach.ReadNotification(ctx, readIn); err != nil {
		t.Fatalf("ReadNotification() error = %v", err)
	}

	unread, err = testCockroach.HasUnreadNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("HasUnreadNotifications() error = %v", err)
	}
	if unread {
		t.Error("HasUnreadNotifications() = true after read")
	}

	var in types.ListNotifications
	in.SetUserID(user.ID)

	page, err := testCockroach.Notifications(ctx, in)
	if err != nil {
		t.Fatalf("Notifications() error = %v", err)
	}
	if len(page.Items) == 0 {
		t.Fatal("Notifications() returned nothing")
	}
	if !page.Items[0].Read() {
		t.Error("notification not marked read")
	}
}

func TestService_CreateMessage_rejectsSelf(t *testing.T) {
	user := types.User{ID: id.Generate(), Username: "selfie"}
	svc := &Service{}

	content := "hello me"
	_, err := svc.CreateMessage(asUser(user), types.CreateMessage{
		ToUserID: user.ID,
		Content:  &content,
	})
	if err == nil {
		t.Fatal("CreateMessage() to self succeeded")
	}
}

func TestService_Conversation_rejectsSelf(t *testing.T) {
	user := types.User{ID: id.Generate(), Username: "selfie"}
	svc := &Service{}

	_, err := svc.Conversation(asUser(user), types.RetrieveConversation{
		OtherUserID: user.ID,
	})
	if err == nil {
		t.Fatal("Conversation() with self succeeded")
	}
}
