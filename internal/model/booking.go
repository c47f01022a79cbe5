package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusFinished    BookingStatus = "finished"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusNoShow      BookingStatus = "no_show"
	BookingStatusRescheduled BookingStatus = "rescheduled"
)

// Booking is a customer's reservation of an offering at a specific instant.
type Booking struct {
	Base
	OfferingID   uuid.UUID     `db:"offering_id" json:"offering_id"`
	CustomerID   uuid.UUID     `db:"customer_id" json:"customer_id"`
	ScheduledAt  time.Time     `db:"scheduled_at" json:"scheduled_at"`
	Status       BookingStatus `db:"status" json:"status"`
	Notes        string        `db:"notes" json:"notes,omitempty"`
	CancelReason *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateBookingRequest struct {
	OfferingID  uuid.UUID `json:"offering_id" binding:"required"`
	CustomerID  uuid.UUID `json:"customer_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

type UpdateBookingRequest struct {
	Status *BookingStatus `json:"status"`
	Notes  *string        `json:"notes"`
}

type BookingFilters struct {
	OfferingID uuid.UUID
	CustomerID uuid.UUID
	Status     BookingStatus
	StartDate  time.Time
	EndDate    time.Time
	Pagination Pagination
}
