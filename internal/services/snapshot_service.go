// internal/services/snapshot_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/domora/kiosk-service/internal/backend"
	"github.com/domora/kiosk-service/internal/constants"
	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"
)

/*
SnapshotFetcher produces one fully-normalized BuildingSnapshot per call.
The poller depends on this interface so tests can substitute a scripted
fetcher.
*/
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, buildingID string) (*models.BuildingSnapshot, error)
}

// SnapshotService is the production SnapshotFetcher: one consolidated
// public-info request per building, normalized, with a best-effort
// announcements enrichment when the primary list came back empty.
type SnapshotService struct {
	client *backend.Client
	now    func() time.Time
}

func NewSnapshotService(client *backend.Client) *SnapshotService {
	return &SnapshotService{
		client: client,
		now:    time.Now,
	}
}

// FetchSnapshot issues the primary aggregate request scoped to the
// current financial month. A primary failure fails the fetch as a whole;
// no partial or stale snapshot is ever returned. The enrichment request
// is optional: its failure is logged and swallowed.
func (s *SnapshotService) FetchSnapshot(ctx context.Context, buildingID string) (*models.BuildingSnapshot, error) {
	now := s.now()
	month := now.Format("2006-01")

	payload, err := s.client.GetPublicInfo(ctx, buildingID, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrLoadFailed, err)
	}

	snap := backend.Normalize(payload, now)

	if len(snap.Announcements) == 0 {
		snap.Announcements = s.enrichAnnouncements(ctx, buildingID)
	}

	return snap, nil
}

// enrichAnnouncements is the narrow, non-critical boundary around the
// fallback announcements listing. Errors never propagate past here.
func (s *SnapshotService) enrichAnnouncements(ctx context.Context, buildingID string) []models.Announcement {
	raw, err := s.client.ListRecentAnnouncements(ctx, buildingID, constants.EnrichmentPageSize)
	if err != nil {
		utils.Logger.WithError(err).Debugf("Announcements enrichment failed for building=%s", buildingID)
		return []models.Announcement{}
	}

	out := make([]models.Announcement, 0, len(raw))
	for i, an := range raw {
		if len(out) >= constants.MaxAnnouncementsPerSnapshot {
			break
		}
		out = append(out, backend.NormalizeAnnouncement(an, fmt.Sprintf("idx-%d", i)))
	}
	return out
}
