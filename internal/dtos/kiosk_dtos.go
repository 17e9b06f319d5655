package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/domora/kiosk-service/internal/models"
)

type HealthCheckResponse struct {
	Status string `json:"status"`
}

/*
RegisterDisplayRequest creates one lobby display. The notify fields are
the contact the escalation checks fall back to for this building.
*/
type RegisterDisplayRequest struct {
	BuildingID  string `json:"building_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	NotifyEmail string `json:"notify_email" validate:"omitempty,email"`
	NotifyPhone string `json:"notify_phone" validate:"omitempty,e164"`
}

type DisplayDTO struct {
	ID         uuid.UUID `json:"id"`
	BuildingID string    `json:"building_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

func NewDisplayDTO(d *models.KioskDisplay) DisplayDTO {
	return DisplayDTO{
		ID:         d.ID,
		BuildingID: d.BuildingID,
		Name:       d.Name,
		CreatedAt:  d.CreatedAt,
		LastSeenAt: d.LastSeenAt,
	}
}

/*
KioskViewResponse is the aggregated read model one kiosk screen renders.
Snapshot is null until the first successful poll for the building (and
right after the target building changes). Countdown is omitted when no
assembly target is set or when the display cutoff has passed. Error
carries the user-visible message of the last failed poll, if any.
*/
type KioskViewResponse struct {
	BuildingID       string                   `json:"building_id"`
	Loading          bool                     `json:"loading"`
	Error            string                   `json:"error,omitempty"`
	Snapshot         *models.BuildingSnapshot `json:"snapshot,omitempty"`
	Countdown        *models.CountdownState   `json:"countdown,omitempty"`
	UrgentPriorities []models.UrgentPriority  `json:"urgent_priorities"`
}

type RefreshResponse struct {
	Status string `json:"status"`
}
