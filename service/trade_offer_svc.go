package service

import (
	"context"

	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

func (svc *Service) CreateTradeOffer(ctx context.Context, in types.CreateTradeOffer) (types.TradeOffer, error) {
	var out types.TradeOffer

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, err := svc.Cockroach.CreateTradeOffer(ctx, in)
	if err != nil {
		return out, err
	}

	svc.notifyTradeOffer(out)

	return out, nil
}

func (svc *Service) TradeOffer(ctx context.Context, in types.RetrieveTradeOffer) (types.TradeOffer, error) {
	var out types.TradeOffer

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.TradeOffer(ctx, in)
}

func (svc *Service) TradeOffers(ctx context.Context, in types.ListTradeOffers) (types.Page[types.TradeOffer], error) {
	var out types.Page[types.TradeOffer]

	if err := in.Validate(); err != nil {
		return out, err
	}

	if err := in.PageArgs.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.TradeOffers(ctx, in)
}

// AcceptTradeOffer moves a pending offer to accepted and marks both items
// as traded, atomically. Only the offer recipient may accept.
func (svc *Service) AcceptTradeOffer(ctx context.Context, in types.TransitionTradeOffer) (types.TradeOffer, error) {
	in.Status = types.TradeOfferStatusAccepted

	out, err := svc.transitionTradeOffer(ctx, in)
	if err != nil {
		return out, err
	}

	svc.notifyTradeAccepted(out)
	svc.notifyTradeCompleted(out)

	return out, nil
}

// RejectTradeOffer moves a pending offer to rejected. Only the offer
// recipient may reject.
func (svc *Service) RejectTradeOffer(ctx context.Context, in types.TransitionTradeOffer) (types.TradeOffer, error) {
	in.Status = types.TradeOfferStatusRejected

	out, err := svc.transitionTradeOffer(ctx, in)
	if err != nil {
		return out, err
	}

	svc.notifyTradeRejected(out)

	return out, nil
}

// CancelTradeOffer moves a pending offer to cancelled. Only the offer
// sender may cancel, and no notification is dispatched.
func (svc *Service) CancelTradeOffer(ctx context.Context, in types.TransitionTradeOffer) (types.TradeOffer, error) {
	in.Status = types.TradeOfferStatusCancelled

	return svc.transitionTradeOffer(ctx, in)
}

func (svc *Service) transitionTradeOffer(ctx context.Context, in types.TransitionTradeOffer) (types.TradeOffer, error) {
	var out types.TradeOffer

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.TransitionTradeOffer(ctx, in)
}

func (svc *Service) DeleteTradeOffer(ctx context.Context, in types.DeleteTradeOffer) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Cockroach.DeleteTradeOffer(ctx, in)
}
