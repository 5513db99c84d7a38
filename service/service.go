package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/swapmeet/swapmeet/cockroach"
	"github.com/swapmeet/swapmeet/pubsub"
	"github.com/swapmeet/swapmeet/webpush"
)

type Service struct {
	Cockroach *cockroach.Cockroach
	PubSub    *pubsub.PubSub
	WebPush   *webpush.Sender
	BaseURL   string

	Errs              chan<- error
	BaseContext       context.Context
	BackgroundTimeout time.Duration

	presence presence
	wg       sync.WaitGroup
}

func (svc *Service) Wait() {
	svc.wg.Wait()
}

// background runs best-effort work detached from the caller's request:
// failures are reported, never returned to the originating operation.
func (svc *Service) background(fn func(ctx context.Context) error) {
	svc.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				svc.report(fmt.Errorf("service background panic: %v", rcv))
			}
		}()

		ctx, cancel := context.WithTimeout(svc.BaseContext, svc.BackgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			svc.report(fmt.Errorf("service background error: %w", err))
		}
	})
}

func (svc *Service) report(err error) {
	if svc.Errs == nil {
		return
	}

	select {
	case svc.Errs <- err:
	default:
	}
}
