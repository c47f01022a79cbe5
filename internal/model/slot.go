package model

import (
	"time"
)

// Slot is a computed candidate booking interval. Slots are produced fresh on
// every availability query and never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Busy  bool      `json:"busy"`
}
