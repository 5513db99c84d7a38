package service

import (
	"testing"

	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

func TestConversation_PairKeyIdempotent(t *testing.T) {
	skipIfNoDB(t)

	userA := createTestUser(t)
	userB := createTestUser(t)

	ctx := asUser(userA)

	inA := types.RetrieveConversation{OtherUserID: userB.ID}
	inA.SetLoggedInUserID(userA.ID)

	convA, err := testCockroach.Conversation(ctx, inA)
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}

	inB := types.RetrieveConversation{OtherUserID: userA.ID}
	inB.SetLoggedInUserID(userB.ID)

	convB, err := testCockroach.Conversation(ctx, inB)
	if err != nil {
		t.Fatalf("Conversation() from other side error = %v", err)
	}

	if convA.ID != convB.ID {
		t.Errorf("conversation IDs differ: %q vs %q", convA.ID, convB.ID)
	}
	if want := types.ConversationKey(userA.ID, userB.ID); convA.ID != want {
		t.Errorf("conversation ID = %q, want %q", convA.ID, want)
	}
	if convA.Participation == nil || convA.Participation.OtherUserID != userB.ID {
		t.Errorf("participation = %+v, want other user %s", convA.Participation, userB.ID)
	}
}

func TestConversation_SoftDeleteIsOneSided(t *testing.T) {
	skipIfNoDB(t)

	userA := createTestUser(t)
	userB := createTestUser(t)

	ctx := asUser(userA)

	sendMessage(t, userA, userB, "first")

	conversationID := types.ConversationKey(userA.ID, userB.ID)

	deleteIn := types.DeleteConversation{ConversationID: conversationID}
	deleteIn.SetLoggedInUserID(userA.ID)

	if err := testCockroach.DeleteConversation(ctx, deleteIn); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	if got := listConversations(t, userA); len(got) != 0 {
		t.Errorf("deleter still sees %d conversations", len(got))
	}
	if got := listConversations(t, userB); len(got) != 1 {
		t.Errorf("other participant sees %d conversations, want 1", len(got))
	}
}

func TestConversation_MessageReactivatesBothSides(t *testing.T) {
	skipIfNoDB(t)

	userA := createTestUser(t)
	userB := createTestUser(t)

	ctx := asUser(userA)

	sendMessage(t, userA, userB, "before delete")

	conversationID := types.ConversationKey(userA.ID, userB.ID)

	deleteIn := types.DeleteConversation{ConversationID: conversationID}
	deleteIn.SetLoggedInUserID(userA.ID)

	if err := testCockroach.DeleteConversation(ctx, deleteIn); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	sendMessage(t, userB, userA, "after delete")

	if got := listConversations(t, userA); len(got) != 1 {
		t.Fatalf("deleter sees %d conversations after new message, want 1", len(got))
	}

	// The deleter sees only what was sent after the delete.
	msgs := listMessages(t, userA, conversationID)
	if len(msgs) != 1 {
		t.Fatalf("deleter sees %d messages, want 1", len(msgs))
	}
	if msgs[0].Content == nil || *msgs[0].Content != "after delete" {
		t.Errorf("visible message = %v, want the post-delete one", msgs[0].Content)
	}

	// The other participant keeps the full timeline.
	if msgs := listMessages(t, userB, conversationID); len(msgs) != 2 {
		t.Errorf("other participant sees %d messages, want 2", len(msgs))
	}
}

func TestConversation_UnreadCounts(t *testing.T) {
	skipIfNoDB(t)

	userA := createTestUser(t)
	userB := createTestUser(t)

	ctx := asUser(userB)

	sendMessage(t, userA, userB, "one")
	sendMessage(t, userA, userB, "two")

	conversationID := types.ConversationKey(userA.ID, userB.ID)

	participant, err := testCockroach.ConversationParticipant(ctx, conversationID, userB.ID)
	if err != nil {
		t.Fatalf("ConversationParticipant() error = %v", err)
	}
	if participant.UnreadCount != 2 {
		t.Errorf("recipient unread count = %d, want 2", participant.UnreadCount)
	}

	// The sender's own count stays at zero.
	participant, err = testCockroach.ConversationParticipant(ctx, conversationID, userA.ID)
	if err != nil {
		t.Fatalf("ConversationParticipant() error = %v", err)
	}
	if participant.UnreadCount != 0 {
		t.Errorf("sender unread count = %d, want 0", participant.UnreadCount)
	}

	readIn := types.ReadConversation{ConversationID: conversationID}
	readIn.SetLoggedInUserID(userB.ID)

	if err := testCockroach.ReadConversation(ctx, readIn); err != nil {
		t.Fatalf("ReadConversation() error = %v", err)
	}

	participant, err = testCockroach.ConversationParticipant(ctx, conversationID, userB.ID)
	if err != nil {
		t.Fatalf("ConversationParticipant() error = %v", err)
	}
	if participant.UnreadCount != 0 {
		t.Errorf("unread count after read = %d, want 0", participant.UnreadCount)
	}

	msgs := listMessages(t, userB, conversationID)
	for _, msg := range msgs {
		if !msg.IsRead {
			t.Errorf("message %s still unread after ReadConversation", msg.ID)
		}
	}
}

func TestConversation_OutsiderCannotAccess(t *testing.T) {
	skipIfNoDB(t)

	userA := createTestUser(t)
	userB := createTestUser(t)
	outsider := createTestUser(t)

	ctx := asUser(outsider)

	sendMessage(t, userA, userB, "private")

	conversationID := types.ConversationKey(userA.ID, userB.ID)

	listIn := types.ListMessages{ConversationID: conversationID}
	listIn.SetLoggedInUserID(outsider.ID)

	if _, err := testCockroach.Messages(ctx, listIn); !errs.IsNotFound(err) {
		t.Errorf("outsider Messages() error = %v, want not found", err)
	}

	deleteIn := types.DeleteConversation{ConversationID: conversationID}
	deleteIn.SetLoggedInUserID(outsider.ID)

	if err := testCockroach.DeleteConversation(ctx, deleteIn); !errs.IsNotFound(err) {
		t.Errorf("outsider DeleteConversation() error = %v, want not found", err)
	}
}

func sendMessage(t *testing.T, from, to types.User, content string) types.Message {
	t.Helper()

	in := types.CreateMessage{
		ToUserID: to.ID,
		Content:  &content,
	}
	in.SetLoggedInUserID(from.ID)

	msg, err := testCockroach.CreateMessage(asUser(from), in)
	if err != nil {
		t.Fatalf("could not send message: %v", err)
	}

	return msg
}

func listConversations(t *testing.T, user types.User) []types.Conversation {
	t.Helper()

	var in types.ListConversations
	in.SetLoggedInUserID(user.ID)

	page, err := testCockroach.Conversations(asUser(user), in)
	if err != nil {
		t.Fatalf("could not list conversations: %v", err)
	}

	return page.Items
}

func listMessages(t *testing.T, user types.User, conversationID string) []types.Message {
	t.Helper()

	in := types.ListMessages{ConversationID: conversationID}
	in.SetLoggedInUserID(user.ID)

	page, err := testCockroach.Messages(asUser(user), in)
	if err != nil {
		t.Fatalf("could not list messages: %v", err)
	}

	return page.Items
}
