package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/logger"
)

var (
	ErrShiftNotFound  = errors.New("shift not found")
	ErrStaffNotFound  = errors.New("staff member not found")
	ErrInvalidWindow  = errors.New("shift start must be before end")
	ErrInvalidClock   = errors.New("time must be HH:MM in 24h format")
	ErrInvalidWeekday = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
)

type Service struct {
	shifts repository.ShiftRepository
	staff  repository.StaffRepository
	audit  repository.AuditRepository
	logger *logger.Logger
}

func NewService(shifts repository.ShiftRepository, staff repository.StaffRepository, audit repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{
		shifts: shifts,
		staff:  staff,
		audit:  audit,
		logger: log,
	}
}

// Upsert creates or replaces the shift for a (staff, weekday) pair. One shift
// per pair; a second upsert for the same weekday overwrites the window.
func (s *Service) Upsert(ctx context.Context, actorID uuid.UUID, req *model.UpsertShiftRequest) (*model.Shift, error) {
	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, ErrInvalidWeekday
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if !req.Unavailable && !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	if _, err := s.staff.Get(ctx, req.StaffID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	shift := &model.Shift{
		StaffID:     req.StaffID,
		Weekday:     time.Weekday(req.Weekday),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Unavailable: req.Unavailable,
	}

	if err := s.shifts.Upsert(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to upsert shift: %w", err)
	}

	s.recordAudit(ctx, actorID, "shift.upsert", shift.ID)
	return shift, nil
}

func (s *Service) ListForStaff(ctx context.Context, staffID uuid.UUID) ([]*model.Shift, error) {
	shifts, err := s.shifts.ListForStaff(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	err := s.shifts.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrShiftNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	s.recordAudit(ctx, actorID, "shift.delete", id)
	return nil
}

func parseClock(clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return t, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID uuid.UUID, action string, resourceID uuid.UUID) {
	entry := &model.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: "shift",
		ResourceID:   resourceID,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to record audit entry", "action", action)
	}
}
