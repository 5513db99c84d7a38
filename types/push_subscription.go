package types

import (
	"net/url"
	"time"

	"github.com/swapmeet/swapmeet/validator"
)

type PushSubscription struct {
	UserID    string    `db:"user_id" json:"userID"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	P256DH    string    `db:"p256dh" json:"-"`
	Auth      string    `db:"auth" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreatePushSubscription struct {
	Endpoint string
	P256DH   string
	Auth     string

	loggedInUserID string
}

func (in *CreatePushSubscription) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreatePushSubscription) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *CreatePushSubscription) Validate() error {
	v := validator.New()

	if in.Endpoint == "" {
		v.AddError("Endpoint", "Endpoint is required")
	}
	if in.Endpoint != "" {
		u, err := url.Parse(in.Endpoint)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			v.AddError("Endpoint", "Endpoint must be an https URL")
		}
	}
	if in.P256DH == "" {
		v.AddError("P256DH", "P256DH key is required")
	}
	if in.Auth == "" {
		v.AddError("Auth", "Auth secret is required")
	}

	return v.AsError()
}

type DeletePushSubscription struct {
	Endpoint string

	loggedInUserID string
}

func (in *DeletePushSubscription) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in DeletePushSubscription) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *DeletePushSubscription) Validate() error {
	v := validator.New()

	if in.Endpoint == "" {
		v.AddError("Endpoint", "Endpoint is required")
	}

	return v.AsError()
}
