package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/validator"
)

type TradeOffer struct {
	ID         string           `db:"id" json:"id"`
	FromUserID string           `db:"from_user_id" json:"fromUserID"`
	ToUserID   string           `db:"to_user_id" json:"toUserID"`
	FromItemID string           `db:"from_item_id" json:"fromItemID"`
	ToItemID   string           `db:"to_item_id" json:"toItemID"`
	Message    *string          `db:"message" json:"message"`
	Status     TradeOfferStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`

	FromItem *Item `db:"from_item,omitempty" json:"fromItem,omitempty"`
	ToItem   *Item `db:"to_item,omitempty" json:"toItem,omitempty"`
	FromUser *User `db:"from_user,omitempty" json:"fromUser,omitempty"`
	ToUser   *User `db:"to_user,omitempty" json:"toUser,omitempty"`
}

type TradeOfferStatus string

const (
	TradeOfferStatusPending   TradeOfferStatus = "pending"
	TradeOfferStatusAccepted  TradeOfferStatus = "accepted"
	TradeOfferStatusRejected  TradeOfferStatus = "rejected"
	TradeOfferStatusCancelled TradeOfferStatus = "cancelled"
)

func (s TradeOfferStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transition is legal.
func (s TradeOfferStatus) Terminal() bool {
	switch s {
	case TradeOfferStatusAccepted, TradeOfferStatusRejected, TradeOfferStatusCancelled:
		return true
	}
	return false
}

type CreateTradeOffer struct {
	ToItemID   string
	FromItemID string
	Message    *string

	loggedInUserID string
}

func (in *CreateTradeOffer) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateTradeOffer) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreateTradeOffer) Validate() error {
	v := validator.New()

	if in.FromItemID == "" {
		v.AddError("FromItemID", "From item ID is required")
	}
	if !id.Valid(in.FromItemID) {
		v.AddError("FromItemID", "From item ID is invalid")
	}
	if in.ToItemID == "" {
		v.AddError("ToItemID", "To item ID is required")
	}
	if !id.Valid(in.ToItemID) {
		v.AddError("ToItemID", "To item ID is invalid")
	}
	if in.FromItemID != "" && in.FromItemID == in.ToItemID {
		v.AddError("ToItemID", "Cannot offer an item for itself")
	}

	if in.Message != nil {
		msg := strings.TrimSpace(*in.Message)
		if msg == "" {
			in.Message = nil
		} else {
			in.Message = &msg
			if utf8.RuneCountInString(msg) > 1000 {
				v.AddError("Message", "Message must be at most 1000 characters")
			}
		}
	}

	return v.AsError()
}

type RetrieveTradeOffer struct {
	TradeOfferID string

	loggedInUserID string
}

func (in *RetrieveTradeOffer) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in RetrieveTradeOffer) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *RetrieveTradeOffer) Validate() error {
	v := validator.New()

	if in.TradeOfferID == "" {
		v.AddError("TradeOfferID", "Trade offer ID is required")
	}
	if !id.Valid(in.TradeOfferID) {
		v.AddError("TradeOfferID", "Trade offer ID is invalid")
	}

	return v.AsError()
}

type TransitionTradeOffer struct {
	TradeOfferID string
	Status       TradeOfferStatus

	loggedInUserID string
}

func (in *TransitionTradeOffer) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in TransitionTradeOffer) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *TransitionTradeOffer) Validate() error {
	v := validator.New()

	if in.TradeOfferID == "" {
		v.AddError("TradeOfferID", "Trade offer ID is required")
	}
	if !id.Valid(in.TradeOfferID) {
		v.AddError("TradeOfferID", "Trade offer ID is invalid")
	}
	if !in.Status.Terminal() {
		v.AddError("Status", "Status must be accepted, rejected or cancelled")
	}

	return v.AsError()
}

type DeleteTradeOffer struct {
	TradeOfferID string

	loggedInUserID string
}

func (in *DeleteTradeOffer) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in DeleteTradeOffer) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *DeleteTradeOffer) Validate() error {
	v := validator.New()

	if in.TradeOfferID == "" {
		v.AddError("TradeOfferID", "Trade offer ID is required")
	}
	if !id.Valid(in.TradeOfferID) {
		v.AddError("TradeOfferID", "Trade offer ID is invalid")
	}

	return v.AsError()
}

type TradeOfferDirection string

const (
	TradeOfferDirectionAll      TradeOfferDirection = "all"
	TradeOfferDirectionIncoming TradeOfferDirection = "incoming"
	TradeOfferDirectionOutgoing TradeOfferDirection = "outgoing"
)

type ListTradeOffers struct {
	Direction TradeOfferDirection
	Status    *TradeOfferStatus
	PageArgs  PageArgs

	loggedInUserID string
}

func (in *ListTradeOffers) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListTradeOffers) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListTradeOffers) Validate() error {
	v := validator.New()

	if in.Direction == "" {
		in.Direction = TradeOfferDirectionAll
	}
	switch in.Direction {
	case TradeOfferDirectionAll, TradeOfferDirectionIncoming, TradeOfferDirectionOutgoing:
	default:
		v.AddError("Direction", "Direction must be all, incoming or outgoing")
	}

	if in.Status != nil {
		switch *in.Status {
		case TradeOfferStatusPending, TradeOfferStatusAccepted, TradeOfferStatusRejected, TradeOfferStatusCancelled:
		default:
			v.AddError("Status", "Status is invalid")
		}
	}

	return v.AsError()
}
