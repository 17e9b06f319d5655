package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/domora/kiosk-service/internal/constants"
	"github.com/domora/kiosk-service/internal/models"
)

// stubDisplayRepo serves a fixed display list and counts lookups, which
// is how the cooldown tests observe whether a notification was
// attempted.
type stubDisplayRepo struct {
	displays []*models.KioskDisplay
	lookups  int
}

func (r *stubDisplayRepo) Create(context.Context, *models.KioskDisplay) error { return nil }

func (r *stubDisplayRepo) GetByID(context.Context, uuid.UUID) (*models.KioskDisplay, error) {
	return nil, nil
}

func (r *stubDisplayRepo) ListByBuildingID(context.Context, string) ([]*models.KioskDisplay, error) {
	r.lookups++
	return r.displays, nil
}

func (r *stubDisplayRepo) ListActiveBuildingIDs(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

func (r *stubDisplayRepo) Touch(context.Context, uuid.UUID, time.Time) error { return nil }
func (r *stubDisplayRepo) Delete(context.Context, uuid.UUID) error           { return nil }

func TestEscalationReasonsLowCollectionRate(t *testing.T) {
	snap := snapFor("A")
	snap.Financial.CollectionRate = 65

	reasons := escalationReasons(snap)
	require.Len(t, reasons, 1)
	require.Contains(t, reasons[0], "65%")
}

func TestEscalationReasonsUrgentMaintenance(t *testing.T) {
	snap := snapFor("A")
	snap.Financial.CollectionRate = 95
	snap.Maintenance.UrgentCount = constants.UrgentMaintenanceEscalationMin

	reasons := escalationReasons(snap)
	require.Len(t, reasons, 1)
	require.Contains(t, reasons[0], fmt.Sprintf("%d urgent", constants.UrgentMaintenanceEscalationMin))
}

func TestEscalationReasonsHealthyBuilding(t *testing.T) {
	snap := snapFor("A")
	snap.Financial.CollectionRate = constants.CollectionRateCutoff
	snap.Maintenance.UrgentCount = constants.UrgentMaintenanceEscalationMin - 1

	require.Empty(t, escalationReasons(snap))
}

func TestEscalationReasonsBothConcerns(t *testing.T) {
	snap := snapFor("A")
	snap.Financial.CollectionRate = 40
	snap.Maintenance.UrgentCount = 5

	require.Len(t, escalationReasons(snap), 2)
}

func TestEscalationCooldownSuppressesRepeatNotifications(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	watch := manager.Watch("A")
	snap := snapFor("A")
	snap.Financial.CollectionRate = 50
	fetcher.push("A", snap, nil)
	require.Eventually(t, func() bool {
		return watch.Poller.Snapshot() != nil
	}, testWait, 5*time.Millisecond)

	repo := &stubDisplayRepo{}
	svc := NewEscalationService(repo, manager, nil, nil, "ops@example.com", "+15550000000", "Domora")

	require.NoError(t, svc.RunEscalationCheck(context.Background()))
	require.Equal(t, 1, repo.lookups)

	// still inside the cooldown window, so nothing new goes out
	require.NoError(t, svc.RunEscalationCheck(context.Background()))
	require.Equal(t, 1, repo.lookups)
}

func TestEscalationSkipsHealthyBuildings(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	watch := manager.Watch("A")
	snap := snapFor("A")
	snap.Financial.CollectionRate = 95
	fetcher.push("A", snap, nil)
	require.Eventually(t, func() bool {
		return watch.Poller.Snapshot() != nil
	}, testWait, 5*time.Millisecond)

	repo := &stubDisplayRepo{}
	svc := NewEscalationService(repo, manager, nil, nil, "ops@example.com", "+15550000000", "Domora")

	require.NoError(t, svc.RunEscalationCheck(context.Background()))
	require.Zero(t, repo.lookups)
}
