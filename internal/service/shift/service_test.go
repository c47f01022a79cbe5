package shift

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/logger"
)

type shiftKey struct {
	staffID uuid.UUID
	weekday time.Weekday
}

type fakeShiftRepo struct {
	shifts map[shiftKey]*model.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: map[shiftKey]*model.Shift{}}
}

func (f *fakeShiftRepo) Upsert(_ context.Context, s *model.Shift) error {
	key := shiftKey{s.StaffID, s.Weekday}
	if existing, ok := f.shifts[key]; ok {
		s.ID = existing.ID
	} else {
		s.ID = uuid.New()
	}
	f.shifts[key] = s
	return nil
}

func (f *fakeShiftRepo) Get(context.Context, uuid.UUID) (*model.Shift, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeShiftRepo) GetByStaffAndWeekday(_ context.Context, staffID uuid.UUID, weekday time.Weekday) (*model.Shift, error) {
	s, ok := f.shifts[shiftKey{staffID, weekday}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) ListForStaff(_ context.Context, staffID uuid.UUID) ([]*model.Shift, error) {
	var out []*model.Shift
	for _, s := range f.shifts {
		if s.StaffID == staffID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) Delete(context.Context, uuid.UUID) error { return nil }

type fakeStaffRepo struct {
	staff *model.Staff
}

func (f *fakeStaffRepo) Get(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	if f.staff == nil || f.staff.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.staff, nil
}

func (f *fakeStaffRepo) Create(context.Context, *model.Staff) error { return nil }
func (f *fakeStaffRepo) GetByEmail(context.Context, string) (*model.Staff, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeStaffRepo) Update(context.Context, *model.Staff) error { return nil }
func (f *fakeStaffRepo) List(context.Context) ([]*model.Staff, error) {
	return nil, nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(context.Context, *model.AuditLog) error { return nil }

func newTestService() (*Service, *fakeShiftRepo, *model.Staff) {
	staff := &model.Staff{Name: "Mia Park", Email: "mia@example.com", Status: model.StaffStatusActive}
	staff.ID = uuid.New()

	shifts := newFakeShiftRepo()
	svc := NewService(shifts, &fakeStaffRepo{staff: staff}, &fakeAuditRepo{},
		logger.NewLogger(&logger.Config{Output: io.Discard}))
	return svc, shifts, staff
}

func TestUpsertShift(t *testing.T) {
	svc, repo, staff := newTestService()

	shift, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID:   staff.ID,
		Weekday:   2,
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, shift.Weekday)
	assert.Len(t, repo.shifts, 1)
}

func TestUpsertReplacesExistingWeekday(t *testing.T) {
	svc, repo, staff := newTestService()

	first, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID: staff.ID, Weekday: 2, StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)

	second, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID: staff.ID, Weekday: 2, StartTime: "10:00", EndTime: "16:00",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.shifts, 1)
	assert.Equal(t, "10:00", repo.shifts[shiftKey{staff.ID, time.Tuesday}].StartTime)
}

func TestUpsertRejectsInvertedWindow(t *testing.T) {
	svc, _, staff := newTestService()

	_, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID: staff.ID, Weekday: 2, StartTime: "17:00", EndTime: "09:00",
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestUpsertRejectsBadClock(t *testing.T) {
	svc, _, staff := newTestService()

	_, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID: staff.ID, Weekday: 2, StartTime: "9am", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestUpsertRejectsBadWeekday(t *testing.T) {
	svc, _, staff := newTestService()

	_, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID: staff.ID, Weekday: 7, StartTime: "09:00", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestUpsertUnknownStaff(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Upsert(context.Background(), uuid.New(), &model.UpsertShiftRequest{
		StaffID: uuid.New(), Weekday: 2, StartTime: "09:00", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUpsertUnavailableDayAllowsAnyWindow(t *testing.T) {
	svc, _, staff := newTestService()

	shift, err := svc.Upsert(context.Background(), staff.ID, &model.UpsertShiftRequest{
		StaffID: staff.ID, Weekday: 0, StartTime: "00:00", EndTime: "00:00", Unavailable: true,
	})
	require.NoError(t, err)
	assert.True(t, shift.Unavailable)
}
