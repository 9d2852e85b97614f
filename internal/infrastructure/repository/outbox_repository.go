package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) domainRepo.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, event *entity.OutboxEvent) error {
	return conn(ctx, r.db).Create(event).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]entity.OutboxEvent, error) {
	var events []entity.OutboxEvent
	err := conn(ctx, r.db).
		Where("status = ?", enum.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// Claim is a conditional update, so two workers never publish the same event.
func (r *outboxRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.OutboxEvent{}).
		Where("id = ? AND status = ?", id, enum.OutboxStatusPending).
		Update("status", enum.OutboxStatusProcessing)
	return result.RowsAffected == 1, result.Error
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return conn(ctx, r.db).Model(&entity.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       enum.OutboxStatusProcessed,
			"processed_at": &now,
		}).Error
}

func (r *outboxRepository) Release(ctx context.Context, id uuid.UUID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return conn(ctx, r.db).Model(&entity.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     enum.OutboxStatusPending,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		}).Error
}
