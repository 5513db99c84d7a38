// Package webpush sends Web Push (VAPID) alerts to browser subscriptions.
package webpush

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	webpushgo "github.com/SherClockHolmes/webpush-go"
	"github.com/swapmeet/swapmeet/types"
)

// ErrSubscriptionGone denotes a subscription the push service no longer
// recognizes. Callers should prune it.
var ErrSubscriptionGone = errors.New("push subscription gone")

type Sender struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

func (s *Sender) Enabled() bool {
	return s != nil && s.VAPIDPublicKey != "" && s.VAPIDPrivateKey != ""
}

func (s *Sender) Send(ctx context.Context, sub types.PushSubscription, payload []byte) error {
	if !s.Enabled() {
		return nil
	}

	resp, err := webpushgo.SendNotificationWithContext(ctx, payload, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpushgo.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}, &webpushgo.Options{
		Subscriber:      s.Subscriber,
		VAPIDPublicKey:  s.VAPIDPublicKey,
		VAPIDPrivateKey: s.VAPIDPrivateKey,
		TTL:             60,
		Urgency:         webpushgo.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("send web push: %w", err)
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusGone, http.StatusNotFound:
		return ErrSubscriptionGone
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send web push: unexpected status %d", resp.StatusCode)
	}

	return nil
}
