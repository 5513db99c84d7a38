package types

import (
	"time"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/validator"
)

type Item struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userID"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      ItemStatus `db:"status" json:"status"`
	ImageURLs   []string   `db:"image_urls" json:"imageURLs"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	Owner *User `db:"owner,omitempty" json:"owner,omitempty"`
}

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusActive   ItemStatus = "active"
	ItemStatusTraded   ItemStatus = "traded"
	ItemStatusInactive ItemStatus = "inactive"
	ItemStatusRejected ItemStatus = "rejected"
	ItemStatusExpired  ItemStatus = "expired"
)

func (s ItemStatus) String() string {
	return string(s)
}

type RetrieveItem struct {
	ItemID string
}

func (in *RetrieveItem) Validate() error {
	v := validator.New()

	if in.ItemID == "" {
		v.AddError("ItemID", "Item ID is required")
	}
	if !id.Valid(in.ItemID) {
		v.AddError("ItemID", "Item ID is invalid")
	}

	return v.AsError()
}

type ListUserItems struct {
	UserID   string
	PageArgs PageArgs
}

func (in *ListUserItems) Validate() error {
	v := validator.New()

	if in.UserID == "" {
		v.AddError("UserID", "User ID is required")
	}
	if !id.Valid(in.UserID) {
		v.AddError("UserID", "User ID is invalid")
	}

	return v.AsError()
}
