package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "worker")

type fakeOutbox struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
}

func newFakeOutbox(events ...*model.OutboxEvent) *fakeOutbox {
	return &fakeOutbox{pending: events, statuses: map[uuid.UUID]model.OutboxStatus{}}
}

func (f *fakeOutbox) Create(context.Context, *model.OutboxEvent) error { return nil }

func (f *fakeOutbox) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutbox) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, _ *string) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeOutbox) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published map[string]int
	fail      bool
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.fail {
		return errors.New("broker down")
	}
	if f.published == nil {
		f.published = map[string]int{}
	}
	f.published[channel]++
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func event(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   json.RawMessage(`{}`),
		Status:    model.OutboxStatusPending,
	}
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	created := event(model.EventBookingCreated)
	cancelled := event(model.EventBookingCancelled)
	outbox := newFakeOutbox(created, cancelled)
	broker := &fakeBroker{}

	p := NewOutboxProcessor(outbox, broker, zap.NewNop(), testMetrics, OutboxConfig{})
	require.NoError(t, p.processBatch(context.Background()))

	assert.Equal(t, 1, broker.published[model.EventBookingCreated])
	assert.Equal(t, 1, broker.published[model.EventBookingCancelled])
	assert.Equal(t, model.OutboxStatusProcessed, outbox.statuses[created.ID])
	assert.Equal(t, model.OutboxStatusProcessed, outbox.statuses[cancelled.ID])
}

func TestProcessBatchMarksFailed(t *testing.T) {
	ev := event(model.EventBookingCreated)
	outbox := newFakeOutbox(ev)
	broker := &fakeBroker{fail: true}

	p := NewOutboxProcessor(outbox, broker, zap.NewNop(), testMetrics, OutboxConfig{})
	require.NoError(t, p.processBatch(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, outbox.statuses[ev.ID])
}
