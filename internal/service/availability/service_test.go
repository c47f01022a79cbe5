package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
)

// 2025-03-11 is a Tuesday
var tuesday = time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)

type fakeOfferingRepo struct {
	offerings map[uuid.UUID]*model.Offering
}

func (f *fakeOfferingRepo) Get(_ context.Context, id uuid.UUID) (*model.Offering, error) {
	o, ok := f.offerings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOfferingRepo) Create(context.Context, *model.Offering) error { return nil }
func (f *fakeOfferingRepo) Update(context.Context, *model.Offering) error { return nil }
func (f *fakeOfferingRepo) Delete(context.Context, uuid.UUID) error       { return nil }
func (f *fakeOfferingRepo) List(context.Context, *model.OfferingFilters) ([]*model.Offering, error) {
	return nil, nil
}

type shiftKey struct {
	staffID uuid.UUID
	weekday time.Weekday
}

type fakeShiftRepo struct {
	shifts map[shiftKey]*model.Shift
}

func (f *fakeShiftRepo) GetByStaffAndWeekday(_ context.Context, staffID uuid.UUID, weekday time.Weekday) (*model.Shift, error) {
	s, ok := f.shifts[shiftKey{staffID, weekday}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) Upsert(context.Context, *model.Shift) error { return nil }
func (f *fakeShiftRepo) Get(context.Context, uuid.UUID) (*model.Shift, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeShiftRepo) ListForStaff(context.Context, uuid.UUID) ([]*model.Shift, error) {
	return nil, nil
}
func (f *fakeShiftRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeBookingRepo struct {
	bookings []*model.Booking
}

func (f *fakeBookingRepo) ListForOfferingOnDay(_ context.Context, offeringID uuid.UUID, day time.Time) ([]*model.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.OfferingID == offeringID && !b.ScheduledAt.Before(dayStart) && b.ScheduledAt.Before(dayEnd) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Create(context.Context, *model.Booking) error { return nil }
func (f *fakeBookingRepo) Get(context.Context, uuid.UUID) (*model.Booking, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeBookingRepo) Update(context.Context, *model.Booking) error { return nil }
func (f *fakeBookingRepo) List(context.Context, *model.BookingFilters) ([]*model.Booking, error) {
	return nil, nil
}

type fixture struct {
	svc        *Service
	offeringID uuid.UUID
	staffID    uuid.UUID
}

func newFixture(durationMinutes int, active bool, start, end string, unavailable bool, bookedAt ...time.Time) *fixture {
	offeringID := uuid.New()
	staffID := uuid.New()

	offering := &model.Offering{
		StaffID:         staffID,
		Name:            "Deep Tissue Massage",
		DurationMinutes: durationMinutes,
		Price:           80,
		Active:          active,
	}
	offering.ID = offeringID

	shift := &model.Shift{
		StaffID:     staffID,
		Weekday:     tuesday.Weekday(),
		StartTime:   start,
		EndTime:     end,
		Unavailable: unavailable,
	}

	var bookings []*model.Booking
	for _, at := range bookedAt {
		bookings = append(bookings, &model.Booking{
			OfferingID:  offeringID,
			CustomerID:  uuid.New(),
			ScheduledAt: at,
			Status:      model.BookingStatusConfirmed,
		})
	}

	return &fixture{
		svc: NewService(
			&fakeOfferingRepo{offerings: map[uuid.UUID]*model.Offering{offeringID: offering}},
			&fakeShiftRepo{shifts: map[shiftKey]*model.Shift{{staffID, shift.Weekday}: shift}},
			&fakeBookingRepo{bookings: bookings},
		),
		offeringID: offeringID,
		staffID:    staffID,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 11, hour, min, 0, 0, time.UTC)
}

func TestThreeHourWindowProducesThreeSlots(t *testing.T) {
	f := newFixture(60, true, "09:00", "12:00", false)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(10, 0), slots[0].End)
	assert.Equal(t, at(10, 0), slots[1].Start)
	assert.Equal(t, at(11, 0), slots[1].End)
	assert.Equal(t, at(11, 0), slots[2].Start)
	assert.Equal(t, at(12, 0), slots[2].End)

	for _, slot := range slots {
		assert.False(t, slot.Busy)
	}
}

func TestBookedSlotIsMarkedBusy(t *testing.T) {
	f := newFixture(60, true, "09:00", "12:00", false, at(10, 0))

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.False(t, slots[0].Busy)
	assert.True(t, slots[1].Busy)
	assert.False(t, slots[2].Busy)
}

func TestWindowShorterThanDurationYieldsNoSlots(t *testing.T) {
	f := newFixture(60, true, "09:00", "09:30", false)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestTrailingRemainderIsDropped(t *testing.T) {
	f := newFixture(60, true, "09:00", "10:30", false)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(10, 0), slots[0].End)
}

func TestSlotCountFloorsRemainder(t *testing.T) {
	f := newFixture(60, true, "09:00", "12:15", false)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestUnknownOffering(t *testing.T) {
	f := newFixture(60, true, "09:00", "12:00", false)

	_, err := f.svc.GetAvailableSlots(context.Background(), uuid.New(), tuesday)
	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestInactiveOffering(t *testing.T) {
	f := newFixture(60, false, "09:00", "12:00", false)

	_, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	assert.ErrorIs(t, err, ErrOfferingInactive)
}

func TestMissingShiftForWeekday(t *testing.T) {
	f := newFixture(60, true, "09:00", "12:00", false)

	// shift exists for Tuesday only
	wednesday := tuesday.AddDate(0, 0, 1)
	_, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, wednesday)
	assert.ErrorIs(t, err, ErrNoShift)
}

func TestUnavailableDay(t *testing.T) {
	f := newFixture(60, true, "09:00", "12:00", true)

	_, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	assert.ErrorIs(t, err, ErrDayUnavailable)
}

func TestMisalignedBookingDoesNotMarkSlots(t *testing.T) {
	// a booking made before a duration change may sit between slot starts;
	// point-equality matching leaves every slot free
	f := newFixture(60, true, "09:00", "12:00", false, at(10, 30))

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for _, slot := range slots {
		assert.False(t, slot.Busy)
	}
}

func TestSlotsAreOrderedAndContiguous(t *testing.T) {
	f := newFixture(30, true, "08:00", "18:00", false)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 20)

	for i, slot := range slots {
		assert.Equal(t, 30*time.Minute, slot.End.Sub(slot.Start))
		if i > 0 {
			assert.Equal(t, slots[i-1].End, slot.Start)
			assert.True(t, slots[i-1].Start.Before(slot.Start))
		}
	}
}

func TestRepeatedCallsYieldIdenticalSlots(t *testing.T) {
	f := newFixture(45, true, "09:00", "13:00", false, at(9, 45))

	first, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	second, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBookingOnAnotherDayDoesNotMarkSlots(t *testing.T) {
	nextTuesday := at(10, 0).AddDate(0, 0, 7)
	f := newFixture(60, true, "09:00", "12:00", false, nextTuesday)

	slots, err := f.svc.GetAvailableSlots(context.Background(), f.offeringID, tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for _, slot := range slots {
		assert.False(t, slot.Busy)
	}
}
