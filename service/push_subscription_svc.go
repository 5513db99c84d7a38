package service

import (
	"context"

	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

func (svc *Service) CreatePushSubscription(ctx context.Context, in types.CreatePushSubscription) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.UpsertPushSubscription(ctx, in)
}

func (svc *Service) DeletePushSubscription(ctx context.Context, in types.DeletePushSubscription) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.DeletePushSubscription(ctx, in)
}
