// Package natsio publishes registry events on a NATS broker so lobby
// clients can follow rooms they are not polling.
package natsio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"kaliteedi/internal/app"
)

// Publisher fans registry events out on kaliteedi.room.<code>.<kind>.
type Publisher struct {
	nc *nats.Conn
}

// Connect dials the broker and returns a ready publisher.
func Connect(url string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("kaliteedi-server"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{nc: nc}, nil
}

func (p *Publisher) Publish(roomCode string, ev app.Event) error {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Kind, err)
	}
	subject := fmt.Sprintf("kaliteedi.room.%s.%s", roomCode, ev.Kind)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection before shutdown.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.Drain()
}

var _ app.EventSink = (*Publisher)(nil)
