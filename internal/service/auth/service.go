package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/internal/repository"
	"github.com/bookline/booking-api/pkg/auth"
	"github.com/bookline/booking-api/pkg/security"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffInactive      = errors.New("staff account is inactive")
)

type Service struct {
	staff  repository.StaffRepository
	hasher security.PasswordHasher
	tokens auth.JWTService
}

func NewService(staff repository.StaffRepository, hasher security.PasswordHasher, tokens auth.JWTService) *Service {
	return &Service{
		staff:  staff,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterStaffRequest) (*model.Staff, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &model.Staff{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Status:       model.StaffStatusActive,
	}

	if err := s.staff.Create(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return staff, nil
}

// Login verifies credentials and issues an access and refresh token pair. A
// missing account and a wrong password return the same error.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	staff, err := s.staff.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	if staff.Status != model.StaffStatusActive {
		return nil, ErrStaffInactive
	}
	if err := s.hasher.Compare(staff.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(staff)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	staff, err := s.staff.Get(ctx, claims.StaffID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if staff.Status != model.StaffStatusActive {
		return nil, ErrStaffInactive
	}

	return s.issueTokens(staff)
}

func (s *Service) issueTokens(staff *model.Staff) (*model.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(staff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(staff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
