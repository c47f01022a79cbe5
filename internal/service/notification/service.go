package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/bookline/booking-api/internal/email"
	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/logger"
)

const (
	maxRetries   = 3
	retryBackoff = 30 * time.Second
)

// Service records booking notifications and delivers them over email. Delivery
// happens off the request path; a failed send is retried with backoff and the
// bookkeeping lands in the notifications table.
type Service struct {
	notifications repository.NotificationRepository
	sender        email.Sender
	logger        *logger.Logger

	sleep func(time.Duration) // replaced in tests
	done  chan struct{}       // signalled after each delivery finishes
}

func NewService(notifications repository.NotificationRepository, sender email.Sender, log *logger.Logger) *Service {
	return &Service{
		notifications: notifications,
		sender:        sender,
		logger:        log,
		sleep:         time.Sleep,
	}
}

func (s *Service) EnqueueBookingCreated(ctx context.Context, booking *model.Booking, customer *model.Customer, offering *model.Offering) error {
	subject := fmt.Sprintf("Booking received: %s", offering.Name)
	content := fmt.Sprintf(
		"Hi %s,\n\nWe received your booking for %s on %s. We'll confirm it shortly.\n",
		customer.Name, offering.Name, booking.ScheduledAt.Format("Monday, 2 January 2006 at 15:04"),
	)
	return s.enqueue(ctx, booking, customer.Email, subject, content)
}

func (s *Service) EnqueueBookingCancelled(ctx context.Context, booking *model.Booking, customer *model.Customer, offering *model.Offering) error {
	subject := fmt.Sprintf("Booking cancelled: %s", offering.Name)
	content := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s on %s has been cancelled.\n",
		customer.Name, offering.Name, booking.ScheduledAt.Format("Monday, 2 January 2006 at 15:04"),
	)
	return s.enqueue(ctx, booking, customer.Email, subject, content)
}

func (s *Service) enqueue(ctx context.Context, booking *model.Booking, recipient, subject, content string) error {
	notification := &model.Notification{
		BookingID: booking.ID,
		Recipient: recipient,
		Subject:   subject,
		Content:   content,
		Status:    model.NotificationStatusPending,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	go s.deliver(notification)
	return nil
}

// deliver runs detached from the request; bookkeeping uses a fresh context so
// a cancelled request does not lose the status update.
func (s *Service) deliver(notification *model.Notification) {
	ctx := context.Background()
	defer func() {
		if s.done != nil {
			s.done <- struct{}{}
		}
	}()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			s.sleep(retryBackoff * time.Duration(attempt))
		}

		err := s.sender.Send(notification.Recipient, notification.Subject, notification.Content)
		if err == nil {
			now := time.Now()
			notification.Status = model.NotificationStatusSent
			notification.SentAt = &now
			if err := s.notifications.Update(ctx, notification); err != nil {
				s.logger.Error(err, "failed to mark notification sent", "notification_id", notification.ID)
			}
			return
		}

		notification.RetryCount = attempt + 1
		notification.LastError = err.Error()
		notification.Status = model.NotificationStatusRetrying
		notification.NextRetryAt = time.Now().Add(retryBackoff * time.Duration(attempt+1))

		if attempt == maxRetries {
			notification.Status = model.NotificationStatusFailed
			s.logger.Error(err, "notification delivery failed permanently",
				"notification_id", notification.ID, "recipient", notification.Recipient)
		} else {
			s.logger.Warn("notification delivery failed, will retry",
				"notification_id", notification.ID, "attempt", attempt+1)
		}

		if err := s.notifications.Update(ctx, notification); err != nil {
			s.logger.Error(err, "failed to update notification status", "notification_id", notification.ID)
		}
	}
}
