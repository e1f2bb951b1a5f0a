package repository

import (
	"context"
	"errors"

	"github.com/kmohsen11/Argos/internal/entity"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// PreorderRepository handles persistence for pre-orders.
type PreorderRepository interface {
	// Create inserts exactly one pending record. The returned record carries
	// the identity and timestamp assigned by the store.
	Create(ctx context.Context, req entity.PreorderRequest) (*entity.PreorderRecord, error)
	FindByID(ctx context.Context, id string) (*entity.PreorderRecord, error)
	FindRecent(ctx context.Context, limit int) ([]entity.PreorderRecord, error)
	Ping(ctx context.Context) error
}
