package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookline/booking-api/internal/model"
)

// JWTService issues and validates staff access tokens
type JWTService interface {
	GenerateAccessToken(staff *model.Staff) (string, error)
	GenerateRefreshToken(staff *model.Staff) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
	ValidateRefreshToken(token string) (*model.TokenClaims, error)
}

type Config struct {
	Secret             string
	RefreshSecret      string
	ExpiryHours        int
	RefreshExpiryHours int
}

type jwtService struct {
	cfg Config
}

func NewJWTService(cfg Config) JWTService {
	return &jwtService{cfg: cfg}
}

type staffClaims struct {
	StaffID string `json:"staff_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

func (s *jwtService) GenerateAccessToken(staff *model.Staff) (string, error) {
	return s.sign(staff, []byte(s.cfg.Secret), time.Duration(s.cfg.ExpiryHours)*time.Hour)
}

func (s *jwtService) GenerateRefreshToken(staff *model.Staff) (string, error) {
	return s.sign(staff, []byte(s.cfg.RefreshSecret), time.Duration(s.cfg.RefreshExpiryHours)*time.Hour)
}

func (s *jwtService) sign(staff *model.Staff, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := staffClaims{
		StaffID: staff.ID.String(),
		Email:   staff.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(token string) (*model.TokenClaims, error) {
	return s.parse(token, []byte(s.cfg.Secret))
}

func (s *jwtService) ValidateRefreshToken(token string) (*model.TokenClaims, error) {
	return s.parse(token, []byte(s.cfg.RefreshSecret))
}

func (s *jwtService) parse(token string, secret []byte) (*model.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &staffClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*staffClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	staffID, err := uuid.Parse(claims.StaffID)
	if err != nil {
		return nil, fmt.Errorf("invalid staff ID in token")
	}

	return &model.TokenClaims{
		StaffID: staffID,
		Email:   claims.Email,
	}, nil
}
