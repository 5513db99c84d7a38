package types

import (
	"time"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/validator"
)

type Notification struct {
	ID           string           `db:"id" json:"id"`
	UserID       string           `db:"user_id" json:"userID"`
	Kind         NotificationKind `db:"kind" json:"kind"`
	Title        string           `db:"title" json:"title"`
	Body         string           `db:"body" json:"body"`
	Data         map[string]any   `db:"data" json:"data"`
	TradeOfferID *string          `db:"trade_offer_id" json:"tradeOfferID"`
	ReadAt       *time.Time       `db:"read_at" json:"readAt"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

func (n Notification) Read() bool {
	return n.ReadAt != nil
}

type NotificationKind string

func (k NotificationKind) String() string {
	return string(k)
}

const (
	NotificationKindTradeOffer     NotificationKind = "trade_offer"
	NotificationKindTradeAccepted  NotificationKind = "trade_accepted"
	NotificationKindTradeRejected  NotificationKind = "trade_rejected"
	NotificationKindTradeCompleted NotificationKind = "trade_completed"
	NotificationKindAdminMessage   NotificationKind = "admin_message"
	NotificationKindNewRating      NotificationKind = "new_rating"
)

type CreateNotification struct {
	UserID       string
	Kind         NotificationKind
	Title        string
	Body         string
	Data         map[string]any
	TradeOfferID *string
}

type ListNotifications struct {
	PageArgs PageArgs

	userID string
}

func (in *ListNotifications) SetUserID(userID string) {
	in.userID = userID
}

func (in ListNotifications) UserID() string {
	return in.userID
}

type ReadNotification struct {
	NotificationID string

	userID string
}

func (in *ReadNotification) SetUserID(userID string) {
	in.userID = userID
}

func (in ReadNotification) UserID() string {
	return in.userID
}

func (in *ReadNotification) Validate() error {
	v := validator.New()

	if in.NotificationID == "" {
		v.AddError("NotificationID", "Notification ID is required")
	}
	if !id.Valid(in.NotificationID) {
		v.AddError("NotificationID", "Notification ID is invalid")
	}

	return v.AsError()
}
