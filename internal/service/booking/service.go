package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrOfferingNotFound = errors.New("offering not found")
	ErrOfferingInactive = errors.New("offering is not bookable")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSlotTaken        = errors.New("slot is already booked")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotCancellable   = errors.New("booking can no longer be cancelled")
	ErrBadTransition    = errors.New("invalid status transition")
)

// Notifier enqueues customer-facing messages for booking lifecycle changes.
type Notifier interface {
	EnqueueBookingCreated(ctx context.Context, booking *model.Booking, customer *model.Customer, offering *model.Offering) error
	EnqueueBookingCancelled(ctx context.Context, booking *model.Booking, customer *model.Customer, offering *model.Offering) error
}

type Service struct {
	bookings  repository.BookingRepository
	offerings repository.OfferingRepository
	customers repository.CustomerRepository
	outbox    repository.OutboxRepository
	audit     repository.AuditRepository
	notifier  Notifier
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	bookings repository.BookingRepository,
	offerings repository.OfferingRepository,
	customers repository.CustomerRepository,
	outbox repository.OutboxRepository,
	audit repository.AuditRepository,
	notifier Notifier,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookings:  bookings,
		offerings: offerings,
		customers: customers,
		outbox:    outbox,
		audit:     audit,
		notifier:  notifier,
		logger:    log,
		metrics:   m,
	}
}

// allowed status transitions; finished, cancelled and no_show are terminal
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingStatusPending:   {model.BookingStatusConfirmed, model.BookingStatusCancelled},
	model.BookingStatusConfirmed: {model.BookingStatusFinished, model.BookingStatusCancelled, model.BookingStatusNoShow, model.BookingStatusRescheduled},
}

func canTransition(from, to model.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Create reserves a slot for a customer. The booking starts in pending status.
// The uniqueness constraint on (offering, scheduled_at) is the authority on
// double booking; a duplicate insert surfaces as ErrSlotTaken.
func (s *Service) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	offering, err := s.offerings.Get(ctx, req.OfferingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	if !offering.Active {
		return nil, ErrOfferingInactive
	}

	customer, err := s.customers.Get(ctx, req.CustomerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	booking := &model.Booking{
		OfferingID:  req.OfferingID,
		CustomerID:  req.CustomerID,
		ScheduledAt: req.ScheduledAt,
		Status:      model.BookingStatusPending,
		Notes:       req.Notes,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.BookingConflicts.Inc()
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.metrics.BookingsCreated.Inc()

	// Side effects past this point must not fail the committed booking
	s.publishEvent(ctx, model.EventBookingCreated, booking)
	s.recordAudit(ctx, booking.CustomerID, "booking.create", booking.ID)

	if err := s.notifier.EnqueueBookingCreated(ctx, booking, customer, offering); err != nil {
		s.logger.Error(err, "failed to enqueue booking notification", "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *Service) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	bookings, err := s.bookings.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Cancel moves a booking to cancelled. Finished and no-show bookings stay as
// they are; cancelling twice is rejected so the caller learns nothing changed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case model.BookingStatusCancelled:
		return nil, ErrAlreadyCancelled
	case model.BookingStatusFinished, model.BookingStatusNoShow:
		return nil, ErrNotCancellable
	}

	booking.Status = model.BookingStatusCancelled
	if reason != "" {
		booking.CancelReason = &reason
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.publishEvent(ctx, model.EventBookingCancelled, booking)
	s.recordAudit(ctx, booking.CustomerID, "booking.cancel", booking.ID)

	if customer, err := s.customers.Get(ctx, booking.CustomerID); err == nil {
		if offering, err := s.offerings.Get(ctx, booking.OfferingID); err == nil {
			if err := s.notifier.EnqueueBookingCancelled(ctx, booking, customer, offering); err != nil {
				s.logger.Error(err, "failed to enqueue cancellation notification", "booking_id", booking.ID)
			}
		}
	}

	return booking, nil
}

// UpdateStatus applies a lifecycle transition such as confirm or no-show.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(booking.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, booking.Status, status)
	}

	booking.Status = status
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if status == model.BookingStatusConfirmed {
		s.publishEvent(ctx, model.EventBookingConfirmed, booking)
	}
	s.recordAudit(ctx, booking.CustomerID, "booking.status."+string(status), booking.ID)

	return booking, nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	payload, err := json.Marshal(booking)
	if err != nil {
		s.logger.Error(err, "failed to marshal booking event", "booking_id", booking.ID)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to create outbox event",
			"booking_id", booking.ID, "event_type", eventType)
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID uuid.UUID, action string, resourceID uuid.UUID) {
	entry := &model.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: "booking",
		ResourceID:   resourceID,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to record audit entry", "action", action)
	}
}
