package models

import (
	"time"

	"github.com/google/uuid"
)

// KioskDisplay is one registered lobby screen. The service polls a
// building for as long as at least one of its displays keeps
// heartbeating.
type KioskDisplay struct {
	ID          uuid.UUID  `json:"id"`
	BuildingID  string     `json:"building_id"`
	Name        string     `json:"name"`
	NotifyEmail string     `json:"notify_email,omitempty"`
	NotifyPhone string     `json:"notify_phone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSeenAt  time.Time  `json:"last_seen_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
