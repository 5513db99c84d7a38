package service

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/swapmeet/swapmeet/auth"
	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

func (svc *Service) Notifications(ctx context.Context, in types.ListNotifications) (types.Page[types.Notification], error) {
	var out types.Page[types.Notification]

	if err := in.PageArgs.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetUserID(loggedInUser.ID)

	return svc.Cockroach.Notifications(ctx, in)
}

func (svc *Service) ReadNotification(ctx context.Context, in types.ReadNotification) error {
	if err := in.Validate(); err != nil {
		return err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	in.SetUserID(loggedInUser.ID)

	return svc.Cockroach.ReadNotification(ctx, in)
}

func (svc *Service) ReadNotifications(ctx context.Context) error {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	return svc.Cockroach.ReadNotifications(ctx, loggedInUser.ID)
}

func (svc *Service) HasUnreadNotifications(ctx context.Context) (bool, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return false, errs.Unauthenticated
	}

	return svc.Cockroach.HasUnreadNotifications(ctx, loggedInUser.ID)
}

// NotificationStream emits the logged in user's notifications in realtime.
// While the stream is open the user counts as present, which suppresses
// web push for them.
func (svc *Service) NotificationStream(ctx context.Context) (<-chan types.Notification, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	out := make(chan types.Notification)
	unsub, err := svc.PubSub.Sub(notificationTopic(loggedInUser.ID), func(data []byte) {
		var n types.Notification
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&n); err != nil {
			svc.report(fmt.Errorf("gob decode notification: %w", err))
			return
		}

		select {
		case out <- n:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to notifications: %w", err)
	}

	svc.presence.connect(loggedInUser.ID)

	go func() {
		<-ctx.Done()
		svc.presence.disconnect(loggedInUser.ID)
		if err := unsub(); err != nil {
			svc.report(fmt.Errorf("unsubscribe from notifications: %w", err))
		}
		close(out)
	}()

	return out, nil
}

func notificationTopic(userID string) string { return "notifications_" + userID }
