package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"
)

// recordingMutator captures outgoing assembly mutations without a
// backend.
type recordingMutator struct {
	started   []int
	completed []struct {
		order                  int
		decisionType, decision string
	}
	ended []string
	err   error
}

func (m *recordingMutator) StartAgendaItem(_ context.Context, _ string, order int) error {
	m.started = append(m.started, order)
	return m.err
}

func (m *recordingMutator) CompleteAgendaItem(_ context.Context, _ string, order int, decisionType, decision string) error {
	m.completed = append(m.completed, struct {
		order                  int
		decisionType, decision string
	}{order, decisionType, decision})
	return m.err
}

func (m *recordingMutator) EndAssembly(_ context.Context, assemblyID string) error {
	m.ended = append(m.ended, assemblyID)
	return m.err
}

func assemblySnap(buildingID string, status models.AssemblyStatus, items ...models.AgendaItem) *models.BuildingSnapshot {
	s := snapFor(buildingID)
	s.UpcomingAssembly = &models.UpcomingAssembly{
		ID:            "asm-7",
		Title:         "Annual assembly",
		ScheduledDate: "2026-09-15",
		Status:        status,
		AgendaItems:   items,
	}
	return s
}

// assemblyHarness starts one watched building whose poller has the
// given snapshot applied, and returns the service under test.
func assemblyHarness(t *testing.T, mutator *recordingMutator, snap *models.BuildingSnapshot) (*AssemblyService, *gatedFetcher) {
	t.Helper()
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	buildingID := snap.Building.ID
	manager.Watch(buildingID)
	fetcher.push(buildingID, snap, nil)

	watch, ok := manager.Get(buildingID)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return watch.Poller.Snapshot() != nil
	}, testWait, 5*time.Millisecond)

	return NewAssemblyService(mutator, manager), fetcher
}

func TestStartItemHappyPath(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Type: models.AgendaVoting, Status: models.AgendaItemCompleted},
		models.AgendaItem{Order: 2, Type: models.AgendaDiscussion, Status: models.AgendaItemPending},
	)
	svc, fetcher := assemblyHarness(t, mutator, snap)

	err := svc.StartItem(context.Background(), "B", 2)
	require.NoError(t, err)
	require.Equal(t, []int{2}, mutator.started)

	// the mutation triggers a re-poll
	require.Eventually(t, func() bool {
		return fetcher.callCount("B") == 2
	}, testWait, 5*time.Millisecond)
	fetcher.push("B", snap, nil)
}

func TestStartItemRejectsNonPending(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Status: models.AgendaItemCompleted},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	err := svc.StartItem(context.Background(), "B", 1)
	require.ErrorIs(t, err, utils.ErrWrongStatus)
	require.Empty(t, mutator.started)
}

func TestStartItemRejectsSecondInProgress(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Status: models.AgendaItemInProgress},
		models.AgendaItem{Order: 2, Status: models.AgendaItemPending},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	err := svc.StartItem(context.Background(), "B", 2)
	require.ErrorIs(t, err, utils.ErrWrongStatus)
	require.Empty(t, mutator.started)
}

func TestStartItemUnknownOrder(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Status: models.AgendaItemPending},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	err := svc.StartItem(context.Background(), "B", 9)
	require.ErrorIs(t, err, utils.ErrNoSuchAgendaItem)
}

func TestCompleteItemRequiresDecision(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Type: models.AgendaVoting, Status: models.AgendaItemInProgress},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	err := svc.CompleteItem(context.Background(), "B", 1, "", "   ")
	require.ErrorIs(t, err, utils.ErrDecisionRequired)
	require.Empty(t, mutator.completed, "an empty decision must not reach the backend")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, utils.ErrCodeDecisionRequired, appErr.Code)
}

func TestCompleteItemDefaultsDecisionType(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Type: models.AgendaVoting, Status: models.AgendaItemInProgress},
	)
	svc, fetcher := assemblyHarness(t, mutator, snap)

	err := svc.CompleteItem(context.Background(), "B", 1, "", "approved by majority")
	require.NoError(t, err)
	require.Len(t, mutator.completed, 1)
	require.Equal(t, "voting", mutator.completed[0].decisionType)
	require.Equal(t, "approved by majority", mutator.completed[0].decision)

	require.Eventually(t, func() bool {
		return fetcher.callCount("B") == 2
	}, testWait, 5*time.Millisecond)
	fetcher.push("B", snap, nil)
}

func TestCompleteItemRejectsNotInProgress(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Status: models.AgendaItemPending},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	err := svc.CompleteItem(context.Background(), "B", 1, "", "done")
	require.ErrorIs(t, err, utils.ErrWrongStatus)
	require.Empty(t, mutator.completed)
}

func TestSuggestedDecisionByItemType(t *testing.T) {
	mutator := &recordingMutator{}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Type: models.AgendaVoting, Status: models.AgendaItemInProgress},
		models.AgendaItem{Order: 2, Type: models.AgendaInformational, Status: models.AgendaItemPending},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	suggestion, err := svc.SuggestedDecision("B", 1)
	require.NoError(t, err)
	require.Equal(t, models.AgendaVoting.DefaultDecision(), suggestion)

	suggestion, err = svc.SuggestedDecision("B", 2)
	require.NoError(t, err)
	require.Equal(t, models.AgendaInformational.DefaultDecision(), suggestion)
}

func TestEndAssemblyRequiresConfirmation(t *testing.T) {
	mutator := &recordingMutator{}
	svc, _ := assemblyHarness(t, mutator, assemblySnap("B", models.AssemblyInProgress))

	err := svc.End(context.Background(), "B", false)
	require.ErrorIs(t, err, utils.ErrConfirmationRequired)
	require.Empty(t, mutator.ended)
}

func TestEndAssemblyConfirmed(t *testing.T) {
	mutator := &recordingMutator{}
	svc, fetcher := assemblyHarness(t, mutator, assemblySnap("B", models.AssemblyInProgress))

	err := svc.End(context.Background(), "B", true)
	require.NoError(t, err)
	require.Equal(t, []string{"asm-7"}, mutator.ended)

	require.Eventually(t, func() bool {
		return fetcher.callCount("B") == 2
	}, testWait, 5*time.Millisecond)
	fetcher.push("B", assemblySnap("B", models.AssemblyCompleted), nil)
}

func TestEndAssemblyWrongStatus(t *testing.T) {
	mutator := &recordingMutator{}
	svc, _ := assemblyHarness(t, mutator, assemblySnap("B", models.AssemblyCompleted))

	err := svc.End(context.Background(), "B", true)
	require.ErrorIs(t, err, utils.ErrWrongStatus)
	require.Empty(t, mutator.ended)
}

func TestMutationsAgainstUnwatchedBuilding(t *testing.T) {
	mutator := &recordingMutator{}
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)
	svc := NewAssemblyService(mutator, manager)

	err := svc.StartItem(context.Background(), "nobody", 1)
	require.ErrorIs(t, err, utils.ErrBuildingNotWatched)
}

func TestMutationsWithoutAssembly(t *testing.T) {
	mutator := &recordingMutator{}
	svc, _ := assemblyHarness(t, mutator, snapFor("B"))

	err := svc.End(context.Background(), "B", true)
	require.ErrorIs(t, err, utils.ErrNoAssembly)
}

func TestBackendErrorPassesThrough(t *testing.T) {
	backendErr := errors.New("conflict (409): already completed")
	mutator := &recordingMutator{err: backendErr}
	snap := assemblySnap("B", models.AssemblyInProgress,
		models.AgendaItem{Order: 1, Status: models.AgendaItemPending},
	)
	svc, _ := assemblyHarness(t, mutator, snap)

	err := svc.StartItem(context.Background(), "B", 1)
	require.ErrorIs(t, err, backendErr)
}
