package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/messaging"
)

// DefaultTopic carries PreorderPlaced events.
const DefaultTopic = "preorders.placed"

// EventNotifier publishes a PreorderPlaced event; a MailConsumer turns it
// into email.
type EventNotifier struct {
	publisher messaging.Publisher
	topic     string
}

func NewEventNotifier(publisher messaging.Publisher, topic string) *EventNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &EventNotifier{publisher: publisher, topic: topic}
}

func (n *EventNotifier) Notify(ctx context.Context, rec *entity.PreorderRecord) error {
	event := entity.NewPreorderPlaced(uuid.NewString(), rec)
	if err := n.publisher.PublishEvent(ctx, n.topic, rec.ID, event); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
	}
	return nil
}
