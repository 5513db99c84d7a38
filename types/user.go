package types

import (
	"regexp"
	"strings"
	"time"

	"github.com/swapmeet/swapmeet/id"
	"github.com/swapmeet/swapmeet/validator"
)

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email,omitempty"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type UpsertUser struct {
	Email    string
	Username string
}

func (in *UpsertUser) Validate() error {
	v := validator.New()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if in.Email == "" {
		v.AddError("Email", "Email is required")
	}
	if in.Email != "" && !reEmail.MatchString(in.Email) {
		v.AddError("Email", "Email is invalid")
	}
	if in.Username == "" {
		v.AddError("Username", "Username is required")
	}

	return v.AsError()
}

type RetrieveUser struct {
	UserID string
}

func (in *RetrieveUser) Validate() error {
	v := validator.New()

	if in.UserID == "" {
		v.AddError("UserID", "User ID is required")
	}
	if !id.Valid(in.UserID) {
		v.AddError("UserID", "User ID is invalid")
	}

	return v.AsError()
}
