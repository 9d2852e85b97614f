package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
)

// OutboxRepository persists events for asynchronous delivery.
type OutboxRepository interface {
	// Create joins the caller's transaction when one is in the context.
	Create(ctx context.Context, event *entity.OutboxEvent) error
	// ListPending returns up to limit pending events, oldest first.
	ListPending(ctx context.Context, limit int) ([]entity.OutboxEvent, error)
	// Claim moves a pending event to processing. It returns false when another worker got there first.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	// Release puts a claimed event back to pending and records the failure.
	Release(ctx context.Context, id uuid.UUID, cause error) error
}
