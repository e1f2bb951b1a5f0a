// Package notification delivers the best-effort side channel that follows a
// durably stored pre-order.
package notification

import (
	"context"
	"log/slog"

	"github.com/kmohsen11/Argos/internal/entity"
)

// Notifier announces a stored pre-order. Implementations make one attempt
// and never retry.
type Notifier interface {
	Notify(ctx context.Context, rec *entity.PreorderRecord) error
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(ctx context.Context, rec *entity.PreorderRecord) error {
	slog.Debug("Notification disabled", "order_id", rec.ID)
	return nil
}
