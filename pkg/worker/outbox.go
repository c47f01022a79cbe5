package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/messaging"
	"github.com/bookline/booking-api/pkg/metrics"
)

// OutboxProcessor drains pending outbox events to the message broker. The
// fetch uses SKIP LOCKED, but its row locks end with the statement, so two
// workers polling at once may pick up the same batch and publish an event
// twice. Delivery is at-least-once; consumers must tolerate duplicates.
type OutboxProcessor struct {
	outbox    repository.OutboxRepository
	broker    messaging.Broker
	logger    *zap.Logger
	metrics   *metrics.Metrics
	batchSize int
	interval  time.Duration
	retention time.Duration
}

type OutboxConfig struct {
	BatchSize int
	Interval  time.Duration
	Retention time.Duration
}

func NewOutboxProcessor(outbox repository.OutboxRepository, broker messaging.Broker, logger *zap.Logger, m *metrics.Metrics, cfg OutboxConfig) *OutboxProcessor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	return &OutboxProcessor{
		outbox:    outbox,
		broker:    broker,
		logger:    logger,
		metrics:   m,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		retention: cfg.Retention,
	}
}

// Run polls until the context is cancelled.
func (p *OutboxProcessor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.batchSize),
		zap.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error("batch processing failed", zap.Error(err))
			}
		case <-cleanup.C:
			p.pruneProcessed(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.outbox.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		start := time.Now()
		err := p.broker.Publish(ctx, event.EventType, event.Payload)
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())

		if err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			msg := err.Error()
			if updateErr := p.outbox.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &msg); updateErr != nil {
				p.logger.Error("failed to mark event failed",
					zap.String("event_id", event.ID.String()), zap.Error(updateErr))
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		if err := p.outbox.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
			p.logger.Error("failed to mark event processed",
				zap.String("event_id", event.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func (p *OutboxProcessor) pruneProcessed(ctx context.Context) {
	deleted, err := p.outbox.DeleteProcessedBefore(ctx, time.Now().Add(-p.retention))
	if err != nil {
		p.logger.Error("failed to prune processed events", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("pruned processed events", zap.Int64("count", deleted))
	}
}
