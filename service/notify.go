package service

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/swapmeet/swapmeet/types"
	"github.com/swapmeet/swapmeet/webpush"
	"golang.org/x/sync/errgroup"
)

func (svc *Service) notifyTradeOffer(offer types.TradeOffer) {
	svc.background(func(ctx context.Context) error {
		offer, err := svc.tradeOfferWithDetails(ctx, offer)
		if err != nil {
			return err
		}

		return svc.dispatchNotification(ctx, types.CreateNotification{
			UserID:       offer.ToUserID,
			Kind:         types.NotificationKindTradeOffer,
			Title:        "New trade offer",
			Body:         fmt.Sprintf("%s wants to trade %q for your %q", username(offer.FromUser), itemTitle(offer.FromItem), itemTitle(offer.ToItem)),
			Data:         map[string]any{"tradeOfferID": offer.ID},
			TradeOfferID: &offer.ID,
		})
	})
}

func (svc *Service) notifyTradeAccepted(offer types.TradeOffer) {
	svc.background(func(ctx context.Context) error {
		offer, err := svc.tradeOfferWithDetails(ctx, offer)
		if err != nil {
			return err
		}

		return svc.dispatchNotification(ctx, types.CreateNotification{
			UserID:       offer.FromUserID,
			Kind:         types.NotificationKindTradeAccepted,
			Title:        "Trade offer accepted",
			Body:         fmt.Sprintf("%s accepted your offer for %q", username(offer.ToUser), itemTitle(offer.ToItem)),
			Data:         map[string]any{"tradeOfferID": offer.ID},
			TradeOfferID: &offer.ID,
		})
	})
}

func (svc *Service) notifyTradeRejected(offer types.TradeOffer) {
	svc.background(func(ctx context.Context) error {
		offer, err := svc.tradeOfferWithDetails(ctx, offer)
		if err != nil {
			return err
		}

		return svc.dispatchNotification(ctx, types.CreateNotification{
			UserID:       offer.FromUserID,
			Kind:         types.NotificationKindTradeRejected,
			Title:        "Trade offer declined",
			Body:         fmt.Sprintf("%s declined your offer for %q", username(offer.ToUser), itemTitle(offer.ToItem)),
			Data:         map[string]any{"tradeOfferID": offer.ID},
			TradeOfferID: &offer.ID,
		})
	})
}

// notifyTradeCompleted tells both participants the trade went through.
// Dedupe on (user, kind, trade offer) makes re-dispatch harmless.
func (svc *Service) notifyTradeCompleted(offer types.TradeOffer) {
	svc.background(func(ctx context.Context) error {
		offer, err := svc.tradeOfferWithDetails(ctx, offer)
		if err != nil {
			return err
		}

		body := fmt.Sprintf("%q was traded for %q", itemTitle(offer.FromItem), itemTitle(offer.ToItem))
		for _, userID := range []string{offer.FromUserID, offer.ToUserID} {
			err := svc.dispatchNotification(ctx, types.CreateNotification{
				UserID:       userID,
				Kind:         types.NotificationKindTradeCompleted,
				Title:        "Trade completed",
				Body:         body,
				Data:         map[string]any{"tradeOfferID": offer.ID},
				TradeOfferID: &offer.ID,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// dispatchNotification stores the notification, then broadcasts it to the
// user's realtime stream and, when they are away, over web push. A store
// deduped by an earlier dispatch is dropped silently.
func (svc *Service) dispatchNotification(ctx context.Context, in types.CreateNotification) error {
	n, created, err := svc.Cockroach.CreateNotification(ctx, in)
	if err != nil {
		return err
	}

	if !created {
		return nil
	}

	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(n); err != nil {
		return fmt.Errorf("gob encode notification: %w", err)
	}

	if err := svc.PubSub.Pub(notificationTopic(n.UserID), b.Bytes()); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	if svc.WebPush.Enabled() && !svc.presence.active(n.UserID) {
		svc.sendWebPush(ctx, n.UserID, webPushPayload{
			Title: n.Title,
			Body:  n.Body,
			URL:   svc.BaseURL + "/trade-offers",
		})
	}

	return nil
}

type webPushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// sendWebPush delivers the payload to every registered subscription of the
// user, pruning the ones the push service reports gone. Failures are
// reported, never propagated.
func (svc *Service) sendWebPush(ctx context.Context, userID string, payload webPushPayload) {
	subs, err := svc.Cockroach.UserPushSubscriptions(ctx, userID)
	if err != nil {
		svc.report(fmt.Errorf("list push subscriptions: %w", err))
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		svc.report(fmt.Errorf("json encode web push payload: %w", err))
		return
	}

	var g errgroup.Group
	for _, sub := range subs {
		g.Go(func() error {
			err := svc.WebPush.Send(ctx, sub, data)
			if errors.Is(err, webpush.ErrSubscriptionGone) {
				if err := svc.Cockroach.PrunePushSubscription(ctx, sub.Endpoint); err != nil {
					svc.report(fmt.Errorf("prune push subscription: %w", err))
				}
				return nil
			}
			if err != nil {
				svc.report(err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// tradeOfferWithDetails re-fetches the offer with users and items joined,
// which the write paths don't return.
func (svc *Service) tradeOfferWithDetails(ctx context.Context, offer types.TradeOffer) (types.TradeOffer, error) {
	in := types.RetrieveTradeOffer{TradeOfferID: offer.ID}
	in.SetLoggedInUserID(offer.FromUserID)

	out, err := svc.Cockroach.TradeOffer(ctx, in)
	if err != nil {
		return out, fmt.Errorf("retrieve trade offer for notification: %w", err)
	}

	return out, nil
}

func username(u *types.User) string {
	if u == nil {
		return "Someone"
	}
	return u.Username
}

func itemTitle(item *types.Item) string {
	if item == nil {
		return "an item"
	}
	return item.Title
}
