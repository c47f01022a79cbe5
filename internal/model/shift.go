package model

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a staff member's working window on one weekday. At most one shift
// exists per (staff, weekday) pair; the database enforces that uniqueness.
// StartTime and EndTime are wall-clock values ("HH:MM", 24h) in the business's
// local reference frame.
type Shift struct {
	Base
	StaffID     uuid.UUID    `db:"staff_id" json:"staff_id"`
	Weekday     time.Weekday `db:"weekday" json:"weekday"`
	StartTime   string       `db:"start_time" json:"start_time"`
	EndTime     string       `db:"end_time" json:"end_time"`
	Unavailable bool         `db:"unavailable" json:"unavailable"`
}

type UpsertShiftRequest struct {
	StaffID     uuid.UUID `json:"staff_id" binding:"required"`
	Weekday     int       `json:"weekday" binding:"min=0,max=6"`
	StartTime   string    `json:"start_time" binding:"required,timeofday"`
	EndTime     string    `json:"end_time" binding:"required,timeofday"`
	Unavailable bool      `json:"unavailable"`
}
