package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/haeseoky/member-service/internal/events"
	"github.com/haeseoky/member-service/internal/observability"
	"github.com/haeseoky/member-service/internal/repository"
)

// OutboxDispatcher delivers committed events to the event port. Rows stay
// pending until a publish succeeds, so a crash or a failing broker delays
// delivery but never loses an event; consumers may see duplicates.
type OutboxDispatcher struct {
	outbox    repository.OutboxRepository
	publisher events.Publisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

// OutboxDependencies bundles collaborators for the dispatcher.
type OutboxDependencies struct {
	OutboxRepo repository.OutboxRepository
	Publisher  events.Publisher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Interval   time.Duration
	BatchSize  int
}

// NewOutboxDispatcher constructs the dispatcher.
func NewOutboxDispatcher(deps OutboxDependencies) *OutboxDispatcher {
	batch := deps.BatchSize
	if batch <= 0 {
		batch = 50
	}
	interval := deps.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &OutboxDispatcher{
		outbox:    deps.OutboxRepo,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		interval:  interval,
		batchSize: batch,
	}
}

// Run polls the outbox until ctx is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchPending(ctx); err != nil {
				d.logger.Error("outbox poll failed", zap.Error(err))
			}
		}
	}
}

// DispatchPending publishes one batch of pending rows and returns how many
// were delivered. A failed publish marks the row for retry and moves on.
func (d *OutboxDispatcher) DispatchPending(ctx context.Context) (int, error) {
	records, err := d.outbox.FetchPending(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, record := range records {
		event := record.Event()
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.metrics.RecordEventPublishFailure(string(event.Type))
			d.logger.Warn("event publish failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Int("attempts", record.Attempts+1),
				zap.Error(err))
			if err := d.outbox.MarkFailed(ctx, record.ID, err); err != nil {
				d.logger.Error("outbox mark failed errored", zap.String("event_id", record.ID), zap.Error(err))
			}
			continue
		}

		if err := d.outbox.MarkPublished(ctx, record.ID); err != nil {
			// The event went out but the row stays pending; it will be
			// republished and consumers must dedup by event id.
			d.logger.Error("outbox mark published errored", zap.String("event_id", record.ID), zap.Error(err))
			continue
		}

		d.metrics.RecordEventPublished(string(event.Type))
		published++
	}
	return published, nil
}
