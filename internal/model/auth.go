package model

import (
	"github.com/google/uuid"
)

type TokenClaims struct {
	StaffID uuid.UUID `json:"staff_id"`
	Email   string    `json:"email"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
