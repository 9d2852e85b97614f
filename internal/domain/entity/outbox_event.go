package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// EventBillCreated is emitted once per committed sale.
const EventBillCreated = "bill.created"

// OutboxEvent is written in the same transaction as the change it describes
// and later relayed to the message broker.
type OutboxEvent struct {
	ID          uuid.UUID         `gorm:"type:char(36);primaryKey"`
	EventType   string            `gorm:"size:64;not null"`
	AggregateID uuid.UUID         `gorm:"type:char(36);not null"`
	Outlet      enum.Outlet       `gorm:"size:20;not null"`
	Payload     string            `gorm:"type:text;not null"`
	Status      enum.OutboxStatus `gorm:"size:20;not null;index"`
	Attempts    int               `gorm:"not null;default:0"`
	LastError   string            `gorm:"type:text"`
	CreatedAt   time.Time         `gorm:"index"`
	ProcessedAt *time.Time
}

// BeforeCreate generates a UUID before creating a new event
func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = enum.OutboxStatusPending
	}
	return nil
}

// TableName returns the table name for OutboxEvent
func (OutboxEvent) TableName() string {
	return "outbox_events"
}
