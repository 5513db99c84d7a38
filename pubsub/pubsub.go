// Package pubsub is a thin NATS wrapper used for the realtime
// subscription streams. Payloads are opaque bytes; callers pick the codec.
package pubsub

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

type PubSub struct {
	conn *nats.Conn
}

func New(conn *nats.Conn) *PubSub {
	return &PubSub{conn: conn}
}

func (ps *PubSub) Pub(topic string, data []byte) error {
	if err := ps.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", topic, err)
	}
	return nil
}

// Sub delivers each payload published on topic to cb, on NATS's own
// delivery goroutine. The returned function unsubscribes.
func (ps *PubSub) Sub(topic string, cb func(data []byte)) (func() error, error) {
	sub, err := ps.conn.Subscribe(topic, func(msg *nats.Msg) {
		cb(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", topic, err)
	}

	return sub.Unsubscribe, nil
}
