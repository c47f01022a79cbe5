package model

import (
	"time"

	"github.com/google/uuid"
)

// Offering is a staff member's bookable instance of a service. Duration is the
// estimated length of one booking and drives slot generation.
type Offering struct {
	Base
	StaffID         uuid.UUID `db:"staff_id" json:"staff_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Price           float64   `db:"price" json:"price"`
	Active          bool      `db:"active" json:"active"`
}

// Duration returns the offering duration as a time.Duration
func (o *Offering) Duration() time.Duration {
	return time.Duration(o.DurationMinutes) * time.Minute
}

type CreateOfferingRequest struct {
	StaffID         uuid.UUID `json:"staff_id" binding:"required"`
	Name            string    `json:"name" binding:"required,max=200"`
	Description     string    `json:"description" binding:"max=1000"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
	Price           float64   `json:"price" binding:"gte=0"`
}

type UpdateOfferingRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0"`
	Active          *bool    `json:"active"`
}

type OfferingFilters struct {
	StaffID uuid.UUID
	Active  *bool
}
