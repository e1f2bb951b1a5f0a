// Package memory is an in-process messaging.Broker for single-binary
// deployments and tests. Consumer groups are ignored: every Consume call
// receives every message published after it subscribed.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/kmohsen11/Argos/internal/entity"
	"github.com/kmohsen11/Argos/internal/messaging"
)

const keyMetadata = "key"

type channelBroker struct {
	pubSub *gochannel.GoChannel
}

// NewBroker creates an in-memory broker backed by a watermill go channel.
func NewBroker(buffer int64) messaging.Broker {
	return &channelBroker{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: buffer},
			watermill.NewSlogLogger(slog.Default()),
		),
	}
}

func (b *channelBroker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(keyMetadata, key)
	if e, ok := event.(entity.Event); ok {
		msg.Metadata.Set(messaging.EventTypeHeader, e.EventType())
	}
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *channelBroker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		slog.Error("Failed to subscribe", "topic", topic, "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Consumer shutting down", "topic", topic)
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := handler(ctx, msg.Payload); err != nil {
				slog.Error("Error handling message", "topic", topic, "group", groupID, "err", err)
			}
			msg.Ack()
		}
	}
}

func (b *channelBroker) Close() error {
	return b.pubSub.Close()
}
