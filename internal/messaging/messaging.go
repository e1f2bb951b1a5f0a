package messaging

import "context"

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Subscriber defines an interface for subscribing to a message topic.
// Consume blocks until ctx is cancelled.
type Subscriber interface {
	Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error)
}

// Broker is a Publisher and Subscriber that owns transport resources.
type Broker interface {
	Publisher
	Subscriber
	Close() error
}

// EventTypeHeader carries the entity.Event type name next to the payload.
const EventTypeHeader = "event-type"
