package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels the outbox relay publishes to. Consumers (realtime UI feeds,
// notification fan-out) subscribe by event type.
const (
	ChannelMessages      = "clinic.messages"
	ChannelRegistrations = "clinic.registrations"
)
