package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
// For bookings this is the enforcement point against double-booked slots.
var ErrDuplicate = errors.New("duplicate record")

// All repository interfaces in one file
type (
	StaffRepository interface {
		Create(ctx context.Context, staff *model.Staff) error
		Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
		GetByEmail(ctx context.Context, email string) (*model.Staff, error)
		Update(ctx context.Context, staff *model.Staff) error
		List(ctx context.Context) ([]*model.Staff, error)
	}

	OfferingRepository interface {
		Create(ctx context.Context, offering *model.Offering) error
		Get(ctx context.Context, id uuid.UUID) (*model.Offering, error)
		Update(ctx context.Context, offering *model.Offering) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.OfferingFilters) ([]*model.Offering, error)
	}

	ShiftRepository interface {
		Upsert(ctx context.Context, shift *model.Shift) error
		Get(ctx context.Context, id uuid.UUID) (*model.Shift, error)
		GetByStaffAndWeekday(ctx context.Context, staffID uuid.UUID, weekday time.Weekday) (*model.Shift, error)
		ListForStaff(ctx context.Context, staffID uuid.UUID) ([]*model.Shift, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
		GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	}

	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		Update(ctx context.Context, booking *model.Booking) error
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
		ListForOfferingOnDay(ctx context.Context, offeringID uuid.UUID, day time.Time) ([]*model.Booking, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Update(ctx context.Context, notification *model.Notification) error
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
	}
)
