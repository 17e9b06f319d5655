package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/repositories"
	"github.com/domora/kiosk-service/internal/utils"
)

// SeedDemoDisplays registers a couple of demo lobby screens so a fresh
// dev environment has something to watch. No-op when displays exist.
func SeedDemoDisplays(ctx context.Context, repo repositories.KioskDisplayRepository) error {
	existing, err := repo.ListActiveBuildingIDs(ctx, time.Time{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		utils.Logger.Debug("Displays already registered; skipping demo seed")
		return nil
	}

	now := time.Now().UTC()
	demos := []models.KioskDisplay{
		{
			ID:          uuid.New(),
			BuildingID:  "1",
			Name:        "Lobby North",
			NotifyEmail: "manager@example.com",
			CreatedAt:   now,
			LastSeenAt:  now,
		},
		{
			ID:         uuid.New(),
			BuildingID: "2",
			Name:       "Lobby South",
			CreatedAt:  now,
			LastSeenAt: now,
		},
	}
	for i := range demos {
		if err := repo.Create(ctx, &demos[i]); err != nil {
			return err
		}
	}
	utils.Logger.Infof("Seeded %d demo display(s)", len(demos))
	return nil
}
