package repository

import (
	"context"
	"time"

	"github.com/sangkips/outlet-pos/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and endpoint
	GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error)
	// Create stores a processed request. Setting ID to an expired key's id replaces that key.
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys that expired before now and returns how many were removed
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
