package offering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/logger"
)

var (
	ErrOfferingNotFound = errors.New("offering not found")
	ErrStaffNotFound    = errors.New("staff member not found")
)

type Service struct {
	offerings repository.OfferingRepository
	staff     repository.StaffRepository
	audit     repository.AuditRepository
	logger    *logger.Logger
}

func NewService(offerings repository.OfferingRepository, staff repository.StaffRepository, audit repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{
		offerings: offerings,
		staff:     staff,
		audit:     audit,
		logger:    log,
	}
}

// Create registers a new bookable offering for a staff member. New offerings
// start active.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *model.CreateOfferingRequest) (*model.Offering, error) {
	if _, err := s.staff.Get(ctx, req.StaffID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	offering := &model.Offering{
		StaffID:         req.StaffID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}

	if err := s.offerings.Create(ctx, offering); err != nil {
		return nil, fmt.Errorf("failed to create offering: %w", err)
	}

	s.recordAudit(ctx, actorID, "offering.create", offering.ID)
	return offering, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Offering, error) {
	offering, err := s.offerings.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return offering, nil
}

func (s *Service) List(ctx context.Context, filters *model.OfferingFilters) ([]*model.Offering, error) {
	offerings, err := s.offerings.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}

// Update applies partial changes. Deactivating an offering hides it from
// availability without touching existing bookings.
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, req *model.UpdateOfferingRequest) (*model.Offering, error) {
	offering, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		offering.Name = *req.Name
	}
	if req.Description != nil {
		offering.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		offering.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		offering.Price = *req.Price
	}
	if req.Active != nil {
		offering.Active = *req.Active
	}

	if err := s.offerings.Update(ctx, offering); err != nil {
		return nil, fmt.Errorf("failed to update offering: %w", err)
	}

	s.recordAudit(ctx, actorID, "offering.update", offering.ID)
	return offering, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	err := s.offerings.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOfferingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete offering: %w", err)
	}

	s.recordAudit(ctx, actorID, "offering.delete", id)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID uuid.UUID, action string, resourceID uuid.UUID) {
	entry := &model.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: "offering",
		ResourceID:   resourceID,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to record audit entry", "action", action)
	}
}
