package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domora/kiosk-service/internal/models"
)

func TestWatchManagerStartsAndReusesWatch(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	w1 := manager.Watch("A")
	require.Eventually(t, func() bool {
		return fetcher.callCount("A") == 1
	}, testWait, 5*time.Millisecond)

	w2 := manager.Watch("A")
	require.Same(t, w1, w2)
	require.Equal(t, 1, fetcher.callCount("A"))
}

func TestWatchManagerGetDoesNotStart(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	_, ok := manager.Get("A")
	require.False(t, ok)
	require.Zero(t, fetcher.callCount("A"))
}

func TestWatchManagerRetargetsCountdownFromSnapshot(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	watch := manager.Watch("A")

	snap := snapFor("A")
	snap.UpcomingAssembly = &models.UpcomingAssembly{
		ID:            "asm-1",
		ScheduledDate: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		ScheduledTime: "19:00",
		Status:        models.AssemblyScheduled,
	}
	fetcher.push("A", snap, nil)

	require.Eventually(t, func() bool {
		_, active := watch.Countdown.State()
		return active
	}, testWait, 5*time.Millisecond)
}

func TestWatchManagerClearsCountdownWhenAssemblyEnds(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	watch := manager.Watch("A")

	future := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	scheduled := snapFor("A")
	scheduled.UpcomingAssembly = &models.UpcomingAssembly{
		ID: "asm-1", ScheduledDate: future, Status: models.AssemblyScheduled,
	}
	fetcher.push("A", scheduled, nil)
	require.Eventually(t, func() bool {
		_, active := watch.Countdown.State()
		return active
	}, testWait, 5*time.Millisecond)

	completed := snapFor("A")
	completed.UpcomingAssembly = &models.UpcomingAssembly{
		ID: "asm-1", ScheduledDate: future, Status: models.AssemblyCompleted,
	}
	watch.Poller.Refetch()
	require.Eventually(t, func() bool {
		return fetcher.callCount("A") == 2
	}, testWait, 5*time.Millisecond)
	fetcher.push("A", completed, nil)

	require.Eventually(t, func() bool {
		_, active := watch.Countdown.State()
		return !active
	}, testWait, 5*time.Millisecond)
}

func TestWatchManagerRetainEvicts(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	manager.Watch("A")
	manager.Watch("B")
	fetcher.push("A", snapFor("A"), nil)
	fetcher.push("B", snapFor("B"), nil)

	manager.Retain(map[string]bool{"B": true})

	_, ok := manager.Get("A")
	require.False(t, ok)
	_, ok = manager.Get("B")
	require.True(t, ok)
}

func TestWatchManagerSnapshots(t *testing.T) {
	fetcher := newGatedFetcher()
	manager := NewWatchManager(fetcher, time.Hour, time.Hour, time.Hour)
	t.Cleanup(manager.StopAll)

	watch := manager.Watch("A")
	fetcher.push("A", snapFor("A"), nil)
	require.Eventually(t, func() bool {
		return watch.Poller.Snapshot() != nil
	}, testWait, 5*time.Millisecond)

	snaps := manager.Snapshots()
	require.Len(t, snaps, 1)
	require.Equal(t, "A", snaps["A"].Building.ID)
}
