package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
)

// Business errors surfaced by the availability pipeline. Repository failures
// other than not-found propagate unchanged.
var (
	ErrOfferingNotFound = errors.New("offering not found")
	ErrOfferingInactive = errors.New("offering is not bookable")
	ErrNoShift          = errors.New("no working window for that weekday")
	ErrDayUnavailable   = errors.New("staff member is unavailable that day")
)

type Service struct {
	offerings repository.OfferingRepository
	shifts    repository.ShiftRepository
	bookings  repository.BookingRepository
}

func NewService(offerings repository.OfferingRepository, shifts repository.ShiftRepository, bookings repository.BookingRepository) *Service {
	return &Service{
		offerings: offerings,
		shifts:    shifts,
		bookings:  bookings,
	}
}

// GetAvailableSlots computes the bookable slots for an offering on one
// calendar day: validate the offering, resolve the staff member's working
// window for the day's weekday, tile the window into duration-sized slots and
// mark the ones already taken. Read-only; safe to call concurrently.
func (s *Service) GetAvailableSlots(ctx context.Context, offeringID uuid.UUID, day time.Time) ([]model.Slot, error) {
	offering, err := s.validateOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	windowStart, windowEnd, err := s.resolveWindow(ctx, offering.StaffID, day)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.ListForOfferingOnDay(ctx, offeringID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return generateSlots(windowStart, windowEnd, offering.Duration(), booked), nil
}

func (s *Service) validateOffering(ctx context.Context, id uuid.UUID) (*model.Offering, error) {
	offering, err := s.offerings.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	if !offering.Active {
		return nil, ErrOfferingInactive
	}
	return offering, nil
}

// resolveWindow anchors the staff member's shift for the day's weekday to the
// day's date components. Shift times and the target day share one local
// reference frame; no timezone conversion happens here.
func (s *Service) resolveWindow(ctx context.Context, staffID uuid.UUID, day time.Time) (time.Time, time.Time, error) {
	shift, err := s.shifts.GetByStaffAndWeekday(ctx, staffID, day.Weekday())
	if errors.Is(err, repository.ErrNotFound) {
		return time.Time{}, time.Time{}, ErrNoShift
	}
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to get shift: %w", err)
	}
	if shift.Unavailable {
		return time.Time{}, time.Time{}, ErrDayUnavailable
	}

	windowStart, err := atTimeOfDay(day, shift.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	windowEnd, err := atTimeOfDay(day, shift.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return windowStart, windowEnd, nil
}

func atTimeOfDay(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// generateSlots tiles [windowStart, windowEnd) into contiguous slots of the
// offering duration, ordered by start time. The tiling is strict: slots never
// extend past windowEnd, and a trailing remainder shorter than the duration
// yields no slot. A window shorter than the duration yields no slots at all.
//
// A slot is busy iff some booking starts exactly at the slot start. Bookings
// made before a duration change may no longer align to slot starts and are
// then not detected; conflict detection stays point-equal on purpose until
// interval overlap is agreed on.
func generateSlots(windowStart, windowEnd time.Time, duration time.Duration, booked []*model.Booking) []model.Slot {
	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.ScheduledAt.UnixNano()] = struct{}{}
	}

	slots := []model.Slot{}
	for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(duration) {
		_, busy := taken[cursor.UnixNano()]
		slots = append(slots, model.Slot{
			Start: cursor,
			End:   cursor.Add(duration),
			Busy:  busy,
		})
	}
	return slots
}
