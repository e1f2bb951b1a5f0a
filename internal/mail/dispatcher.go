package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kmohsen11/Argos/internal/entity"
)

// Dispatcher sends the operator notification and, when enabled, the
// customer confirmation for one pre-order.
type Dispatcher struct {
	mailer          Mailer
	composer        Composer
	confirmCustomer bool
}

func NewDispatcher(mailer Mailer, composer Composer, confirmCustomer bool) *Dispatcher {
	return &Dispatcher{mailer: mailer, composer: composer, confirmCustomer: confirmCustomer}
}

// Dispatch fails only when the operator message cannot be delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, n entity.PreorderNotification) error {
	msg, err := d.composer.Operator(n)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send operator mail: %w", err)
	}
	slog.Info("Operator mail sent", "email", n.Email, "product", n.ProductType)

	if !d.confirmCustomer {
		return nil
	}

	confirm, err := d.composer.Customer(n)
	if err == nil {
		err = d.mailer.Send(ctx, confirm)
	}
	if err != nil {
		slog.Warn("Customer confirmation not sent", "email", n.Email, "err", err)
		return nil
	}
	slog.Info("Customer confirmation sent", "email", n.Email)
	return nil
}
