package notification

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/pkg/logger"
)

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*model.Notification
	updated []*model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.New()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) Update(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *n
	f.updated = append(f.updated, &copied)
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	failures int
	sent     []string
}

func (f *fakeSender) Send(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestService(repo *fakeNotificationRepo, sender *fakeSender) *Service {
	svc := NewService(repo, sender, logger.NewLogger(&logger.Config{Output: io.Discard}))
	svc.sleep = func(time.Duration) {}
	svc.done = make(chan struct{}, 1)
	return svc
}

func testBookingParts() (*model.Booking, *model.Customer, *model.Offering) {
	booking := &model.Booking{
		ScheduledAt: time.Date(2025, time.March, 11, 10, 0, 0, 0, time.UTC),
	}
	booking.ID = uuid.New()

	customer := &model.Customer{Name: "Ada Jensen", Email: "ada@example.com"}
	customer.ID = uuid.New()

	offering := &model.Offering{Name: "Haircut"}
	offering.ID = uuid.New()

	return booking, customer, offering
}

func TestBookingCreatedNotificationDelivered(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := &fakeSender{}
	svc := newTestService(repo, sender)

	booking, customer, offering := testBookingParts()
	require.NoError(t, svc.EnqueueBookingCreated(context.Background(), booking, customer, offering))
	<-svc.done

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, booking.ID, n.BookingID)
	assert.Equal(t, "ada@example.com", n.Recipient)
	assert.Contains(t, n.Subject, "Haircut")
	assert.Contains(t, n.Content, "Ada Jensen")

	assert.Equal(t, []string{"ada@example.com"}, sender.sent)
	require.NotEmpty(t, repo.updated)
	final := repo.updated[len(repo.updated)-1]
	assert.Equal(t, model.NotificationStatusSent, final.Status)
	assert.NotNil(t, final.SentAt)
}

func TestDeliveryRetriesThenSucceeds(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := &fakeSender{failures: 2}
	svc := newTestService(repo, sender)

	booking, customer, offering := testBookingParts()
	require.NoError(t, svc.EnqueueBookingCancelled(context.Background(), booking, customer, offering))
	<-svc.done

	assert.Len(t, sender.sent, 1)
	final := repo.updated[len(repo.updated)-1]
	assert.Equal(t, model.NotificationStatusSent, final.Status)
	assert.Equal(t, 2, final.RetryCount)
}

func TestDeliveryFailsPermanently(t *testing.T) {
	repo := &fakeNotificationRepo{}
	sender := &fakeSender{failures: maxRetries + 1}
	svc := newTestService(repo, sender)

	booking, customer, offering := testBookingParts()
	require.NoError(t, svc.EnqueueBookingCreated(context.Background(), booking, customer, offering))
	<-svc.done

	assert.Empty(t, sender.sent)
	final := repo.updated[len(repo.updated)-1]
	assert.Equal(t, model.NotificationStatusFailed, final.Status)
	assert.Equal(t, maxRetries+1, final.RetryCount)
	assert.NotEmpty(t, final.LastError)
}
