package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository/repositorytest"
	"github.com/careops/clinic-api/pkg/logger"
	"github.com/careops/clinic-api/pkg/messaging"
	"github.com/careops/clinic-api/pkg/metrics"
)

// Registered once: the prometheus default registry rejects duplicates.
var testMetrics = metrics.NewMetrics("clinic_test", "worker")

type fakeBroker struct {
	mu        sync.Mutex
	published map[string][]string
	fail      bool
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{published: make(map[string][]string)}
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("broker unavailable")
	}
	event := message.(*model.OutboxEvent)
	b.published[channel] = append(b.published[channel], event.EventType)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func newProcessor(store *repositorytest.Store, broker messaging.Broker, maxRetries int) *OutboxProcessor {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewOutboxProcessor(store.OutboxRepo(), broker, log, testMetrics, time.Millisecond, 10, maxRetries)
}

func enqueue(t *testing.T, store *repositorytest.Store, eventType string) *model.OutboxEvent {
	t.Helper()
	event, err := model.NewOutboxEvent(eventType, map[string]string{"k": "v"})
	require.NoError(t, err)
	store.OutboxEvents = append(store.OutboxEvents, event)
	return event
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	store := repositorytest.NewStore()
	broker := newFakeBroker()
	enqueue(t, store, model.EventMessageCreated)
	enqueue(t, store, model.EventRegistrationApproved)
	enqueue(t, store, model.EventRegistrationRejected)

	processor := newProcessor(store, broker, 5)
	require.NoError(t, processor.processBatch(context.Background()))

	assert.Equal(t, []string{model.EventMessageCreated}, broker.published[messaging.ChannelMessages])
	assert.Equal(t,
		[]string{model.EventRegistrationApproved, model.EventRegistrationRejected},
		broker.published[messaging.ChannelRegistrations])

	for _, event := range store.OutboxEvents {
		assert.Equal(t, model.OutboxStatusProcessed, event.Status)
		assert.NotNil(t, event.ProcessedAt)
	}

	pending, err := store.OutboxRepo().GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessBatchKeepsFailedEventPending(t *testing.T) {
	store := repositorytest.NewStore()
	broker := newFakeBroker()
	broker.fail = true
	event := enqueue(t, store, model.EventMessageCreated)

	processor := newProcessor(store, broker, 5)
	require.NoError(t, processor.processBatch(context.Background()))

	assert.Equal(t, model.OutboxStatusPending, event.Status)
	assert.Equal(t, 1, event.RetryCount)
	require.NotNil(t, event.ErrorMessage)
	assert.Equal(t, "broker unavailable", *event.ErrorMessage)
}

func TestProcessBatchParksEventAfterMaxRetries(t *testing.T) {
	store := repositorytest.NewStore()
	broker := newFakeBroker()
	broker.fail = true
	event := enqueue(t, store, model.EventMessageCreated)

	processor := newProcessor(store, broker, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, processor.processBatch(context.Background()))
	}

	assert.Equal(t, model.OutboxStatusFailed, event.Status)
	assert.Equal(t, 3, event.RetryCount)

	// Parked events are not retried.
	broker.fail = false
	require.NoError(t, processor.processBatch(context.Background()))
	assert.Empty(t, broker.published)
}
