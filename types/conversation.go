package types

import (
	"strings"
	"time"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/validator"
)

type Conversation struct {
	// ID is the deterministic key derived from the sorted participant pair,
	// so at most one conversation ever exists per pair.
	ID            string     `db:"id" json:"id"`
	LastMessage   *string    `db:"last_message" json:"lastMessage"`
	LastMessageAt *time.Time `db:"last_message_at" json:"lastMessageAt"`
	TradeOfferID  *string    `db:"trade_offer_id" json:"tradeOfferID"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`

	Participation *ConversationParticipant `db:"participation,omitempty" json:"participation,omitempty"`
}

type ConversationParticipant struct {
	UserID         string     `db:"user_id" json:"userID"`
	ConversationID string     `db:"conversation_id" json:"conversationID"`
	OtherUserID    string     `db:"other_user_id" json:"otherUserID"`
	UnreadCount    int        `db:"unread_count" json:"unreadCount"`
	DeletedAt      *time.Time `db:"deleted_at" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`

	OtherUser *User `db:"other_user,omitempty" json:"otherUser,omitempty"`
}

// Deleted reports whether the participant has soft-deleted the conversation.
// Messages are retained regardless.
func (p ConversationParticipant) Deleted() bool {
	return p.DeletedAt != nil
}

// ConversationKey derives the conversation id from the unordered participant
// pair. ConversationKey(a, b) == ConversationKey(b, a).
func ConversationKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

type RetrieveConversation struct {
	OtherUserID  string
	TradeOfferID *string

	loggedInUserID string
}

func (in *RetrieveConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in RetrieveConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *RetrieveConversation) Validate() error {
	v := validator.New()

	if in.OtherUserID == "" {
		v.AddError("OtherUserID", "Other user ID is required")
	}
	if !id.Valid(in.OtherUserID) {
		v.AddError("OtherUserID", "Other user ID is invalid")
	}
	if in.TradeOfferID != nil && !id.Valid(*in.TradeOfferID) {
		v.AddError("TradeOfferID", "Trade offer ID is invalid")
	}

	return v.AsError()
}

type ListConversations struct {
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListConversations) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListConversations) LoggedInUserID() string {
	return in.loggedInUserID
}

type ReadConversation struct {
	ConversationID string

	loggedInUserID string
}

func (in *ReadConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ReadConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ReadConversation) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	}
	if !validConversationID(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}

type DeleteConversation struct {
	ConversationID string

	loggedInUserID string
}

func (in *DeleteConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in DeleteConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *DeleteConversation) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	}
	if !validConversationID(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}

func validConversationID(s string) bool {
	userA, userB, ok := strings.Cut(s, ":")
	return ok && id.Valid(userA) && id.Valid(userB) && userA < userB
}
