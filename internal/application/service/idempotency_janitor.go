package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sangkips/outlet-pos/internal/domain/repository"
)

// IdempotencyJanitor periodically deletes expired idempotency keys.
type IdempotencyJanitor struct {
	repo     repository.IdempotencyRepository
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewIdempotencyJanitor creates a janitor that purges every interval.
func NewIdempotencyJanitor(repo repository.IdempotencyRepository, interval time.Duration, log *slog.Logger) *IdempotencyJanitor {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &IdempotencyJanitor{repo: repo, interval: interval, log: log, now: time.Now}
}

// Run purges until ctx is cancelled.
func (j *IdempotencyJanitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Purge(ctx)
		}
	}
}

// Purge removes keys that have expired and returns how many went.
func (j *IdempotencyJanitor) Purge(ctx context.Context) int64 {
	n, err := j.repo.DeleteExpired(ctx, j.now())
	if err != nil {
		j.log.Error("failed to purge idempotency keys", "error", err)
		return 0
	}
	if n > 0 {
		j.log.Info("purged idempotency keys", "count", n)
	}
	return n
}
