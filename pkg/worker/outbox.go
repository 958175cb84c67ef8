package worker

import (
	"context"
	"time"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/messaging"
	"github.com/careops/clinic-api/pkg/metrics"
)

// OutboxProcessor polls pending outbox rows and relays them to the
// message broker. Events that keep failing past maxRetries are parked
// as FAILED for manual inspection.
type OutboxProcessor struct {
	repo         repository.OutboxRepository
	broker       messaging.Broker
	logger       *logger.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	log *logger.Logger,
	m *metrics.Metrics,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:         repo,
		broker:       broker,
		logger:       log,
		metrics:      m,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}
}

// Start blocks until ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
	)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.repo.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		p.process(ctx, event)
	}
	return nil
}

func (p *OutboxProcessor) process(ctx context.Context, event *model.OutboxEvent) {
	start := time.Now()
	err := p.broker.Publish(ctx, channelFor(event.EventType), event)
	p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		msg := err.Error()

		status := model.OutboxStatusPending
		if event.RetryCount+1 >= p.maxRetries {
			status = model.OutboxStatusFailed
		}
		if updateErr := p.repo.UpdateStatus(ctx, event.ID, status, &msg); updateErr != nil {
			p.logger.Error(updateErr, "failed to record outbox failure", "event_id", event.ID)
		}
		p.logger.Error(err, "failed to publish outbox event",
			"event_id", event.ID,
			"event_type", event.EventType,
			"retries", event.RetryCount+1,
		)
		return
	}

	if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
		p.logger.Error(err, "failed to mark outbox event processed", "event_id", event.ID)
		return
	}
	p.metrics.OutboxEventsProcessed.Inc()
}

func channelFor(eventType string) string {
	switch eventType {
	case model.EventRegistrationApproved, model.EventRegistrationRejected:
		return messaging.ChannelRegistrations
	default:
		return messaging.ChannelMessages
	}
}
