package messaging

import (
	"context"
	"log/slog"
	"time"

	domainRepo "github.com/sangkips/outlet-pos/internal/domain/repository"
)

// OutboxWorker relays pending outbox events to the broker.
// Delivery is at least once: an event is marked processed only after Publish succeeds.
type OutboxWorker struct {
	repo      domainRepo.OutboxRepository
	publisher Publisher
	interval  time.Duration
	batchSize int
	log       *slog.Logger
}

func NewOutboxWorker(repo domainRepo.OutboxRepository, publisher Publisher, interval time.Duration, batchSize int, log *slog.Logger) *OutboxWorker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxWorker{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		log:       log.With("component", "outbox_worker"),
	}
}

// Run drains the backlog, then polls until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	w.log.Info("draining pending outbox events on startup")
	w.drain(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("outbox worker stopped")
			return nil
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.ProcessBatch(ctx)
		if err != nil {
			w.log.Warn("outbox batch failed", "error", err)
			return
		}
		if n < w.batchSize {
			return
		}
	}
}

// ProcessBatch publishes one batch and returns how many events were read.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repo.ListPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	for _, ev := range events {
		claimed, err := w.repo.Claim(ctx, ev.ID)
		if err != nil {
			return len(events), err
		}
		if !claimed {
			continue
		}

		msg := Message{
			Key:   ev.Outlet.String(),
			Value: []byte(ev.Payload),
			Headers: map[string]string{
				"event_type":   ev.EventType,
				"event_id":     ev.ID.String(),
				"aggregate_id": ev.AggregateID.String(),
			},
		}
		if err := w.publisher.Publish(ctx, msg); err != nil {
			w.log.Warn("publish failed, event released", "event_id", ev.ID, "error", err)
			if relErr := w.repo.Release(ctx, ev.ID, err); relErr != nil {
				return len(events), relErr
			}
			// broker is unhealthy; retry on the next tick
			return 0, nil
		}
		if err := w.repo.MarkProcessed(ctx, ev.ID); err != nil {
			return len(events), err
		}
	}
	return len(events), nil
}
