// internal/services/display_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/repositories"
	"github.com/domora/kiosk-service/internal/utils"
)

// DisplayService registers lobby displays and keeps the watch manager
// in sync with which buildings still have a live screen.
type DisplayService struct {
	repo         repositories.KioskDisplayRepository
	manager      *WatchManager
	heartbeatTTL time.Duration
}

func NewDisplayService(repo repositories.KioskDisplayRepository, manager *WatchManager, heartbeatTTL time.Duration) *DisplayService {
	return &DisplayService{
		repo:         repo,
		manager:      manager,
		heartbeatTTL: heartbeatTTL,
	}
}

// Register records a new display and immediately starts (or joins) the
// watch for its building so the first kiosk view request has data soon.
func (s *DisplayService) Register(ctx context.Context, buildingID, name, notifyEmail, notifyPhone string) (*models.KioskDisplay, error) {
	now := time.Now().UTC()
	d := &models.KioskDisplay{
		ID:          uuid.New(),
		BuildingID:  buildingID,
		Name:        name,
		NotifyEmail: notifyEmail,
		NotifyPhone: notifyPhone,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.manager.Watch(buildingID)
	return d, nil
}

// Heartbeat marks a display as alive.
func (s *DisplayService) Heartbeat(ctx context.Context, id uuid.UUID) error {
	return s.repo.Touch(ctx, id, time.Now().UTC())
}

// Get returns one display record.
func (s *DisplayService) Get(ctx context.Context, id uuid.UUID) (*models.KioskDisplay, error) {
	return s.repo.GetByID(ctx, id)
}

// ResumeWatches starts watches for every building that had a live
// display before the service restarted.
func (s *DisplayService) ResumeWatches(ctx context.Context) error {
	ids, err := s.repo.ListActiveBuildingIDs(ctx, time.Now().UTC().Add(-s.heartbeatTTL))
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.manager.Watch(id)
	}
	utils.Logger.Infof("Resumed watches for %d building(s)", len(ids))
	return nil
}

// EvictStaleWatches stops polling buildings whose displays have all
// gone quiet. Wired to a cron schedule.
func (s *DisplayService) EvictStaleWatches(ctx context.Context) error {
	ids, err := s.repo.ListActiveBuildingIDs(ctx, time.Now().UTC().Add(-s.heartbeatTTL))
	if err != nil {
		return err
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	s.manager.Retain(keep)
	return nil
}
