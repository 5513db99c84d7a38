package types

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/validator"
)

type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversationID"`
	FromUserID     string    `db:"from_user_id" json:"fromUserID"`
	ToUserID       string    `db:"to_user_id" json:"toUserID"`
	Content        *string   `db:"content" json:"content"`
	ImageURL       *string   `db:"image_url" json:"imageURL"`
	IsRead         bool      `db:"is_read" json:"isRead"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`

	FromUser     *User                `db:"from_user,omitempty" json:"fromUser,omitempty"`
	Relationship *MessageRelationship `db:"relationship,omitempty" json:"relationship,omitempty"`
}

type MessageRelationship struct {
	IsMine bool `json:"isMine"`
}

type CreateMessage struct {
	ToUserID     string
	Content      *string
	ImageURL     *string
	TradeOfferID *string

	loggedInUserID string
	conversationID string
}

func (in *CreateMessage) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateMessage) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateMessage) SetConversationID(conversationID string) {
	in.conversationID = conversationID
}

func (in CreateMessage) ConversationID() string {
	return in.conversationID
}

func (in *CreateMessage) Validate() error {
	v := validator.New()

	if in.ToUserID == "" {
		v.AddError("ToUserID", "To user ID is required")
	}
	if !id.Valid(in.ToUserID) {
		v.AddError("ToUserID", "To user ID is invalid")
	}

	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			in.Content = nil
		} else {
			in.Content = &content
		}
	}

	// Exactly one content kind.
	if in.Content == nil && in.ImageURL == nil {
		v.AddError("Content", "Either content or image URL is required")
	}
	if in.Content != nil && in.ImageURL != nil {
		v.AddError("Content", "Only one of content or image URL is allowed")
	}

	if in.Content != nil && utf8.RuneCountInString(*in.Content) > 1000 {
		v.AddError("Content", "Content must be at most 1000 characters")
	}

	if in.ImageURL != nil {
		u, err := url.Parse(*in.ImageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			v.AddError("ImageURL", "Image URL is invalid")
		}
	}

	if in.TradeOfferID != nil && !id.Valid(*in.TradeOfferID) {
		v.AddError("TradeOfferID", "Trade offer ID is invalid")
	}

	return v.AsError()
}

type ListMessages struct {
	ConversationID string
	PageArgs       PageArgs

	loggedInUserID string
}

func (in *ListMessages) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListMessages) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListMessages) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	}
	if !validConversationID(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}
