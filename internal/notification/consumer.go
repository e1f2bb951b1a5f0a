package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/messaging"
)

// Dispatcher sends the email for one pre-order.
type Dispatcher interface {
	Dispatch(ctx context.Context, n entity.PreorderNotification) error
}

// MailConsumer reads PreorderPlaced events and dispatches email for each.
type MailConsumer struct {
	subscriber messaging.Subscriber
	dispatcher Dispatcher
	topic      string
	groupID    string
	timeout    time.Duration
}

func NewMailConsumer(subscriber messaging.Subscriber, dispatcher Dispatcher, topic, groupID string, timeout time.Duration) *MailConsumer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MailConsumer{
		subscriber: subscriber,
		dispatcher: dispatcher,
		topic:      topic,
		groupID:    groupID,
		timeout:    timeout,
	}
}

// Run blocks until ctx is cancelled.
func (c *MailConsumer) Run(ctx context.Context) {
	slog.Info("Mail consumer started", "topic", c.topic, "group", c.groupID)
	c.subscriber.Consume(ctx, c.topic, c.groupID, c.Handle)
}

// Handle processes one payload. Undecodable payloads are logged and skipped.
func (c *MailConsumer) Handle(ctx context.Context, payload []byte) error {
	var event entity.PreorderPlaced
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.Warn("Skipping undecodable event", "topic", c.topic, "err", err)
		return nil
	}

	n := event.Notification()
	if n.MissingRequired() {
		slog.Warn("Skipping incomplete event", "event_id", event.EventID, "order_id", event.OrderID)
		return nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.dispatcher.Dispatch(ctx, n); err != nil {
		return fmt.Errorf("failed to dispatch mail for order %s: %w", event.OrderID, err)
	}
	slog.Info("📧 Pre-order mail dispatched", "order_id", event.OrderID, "event_id", event.EventID)
	return nil
}
