package service

import (
	"context"

	"github.com/swapmeet/swapmeet/types"
)

// UpsertUser creates the user on first login and returns the existing row
// on subsequent logins with the same email.
func (svc *Service) UpsertUser(ctx context.Context, in types.UpsertUser) (types.User, error) {
	var out types.User

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Cockroach.UpsertUser(ctx, in)
}

func (svc *Service) User(ctx context.Context, in types.RetrieveUser) (types.User, error) {
	var out types.User

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Cockroach.User(ctx, in)
}
