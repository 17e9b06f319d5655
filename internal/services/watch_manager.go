// internal/services/watch_manager.go
package services

import (
	"time"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"

	"sync"
)

// BuildingWatch bundles the two independent timers serving one
// building: the adaptive poller and the countdown engine. They never
// read each other's state; the only coupling is the retarget hook that
// runs when a poll result is applied.
type BuildingWatch struct {
	Poller    *Poller
	Countdown *CountdownEngine
}

// WatchManager owns one BuildingWatch per building currently backed by
// at least one live display. Watches are created on demand and evicted
// when every display for the building has gone quiet.
type WatchManager struct {
	fetcher       SnapshotFetcher
	liveInterval  time.Duration
	idleInterval  time.Duration
	countdownTick time.Duration

	mu      sync.Mutex
	watches map[string]*BuildingWatch
}

func NewWatchManager(fetcher SnapshotFetcher, liveInterval, idleInterval, countdownTick time.Duration) *WatchManager {
	return &WatchManager{
		fetcher:       fetcher,
		liveInterval:  liveInterval,
		idleInterval:  idleInterval,
		countdownTick: countdownTick,
		watches:       make(map[string]*BuildingWatch),
	}
}

// Watch returns the watch for a building, starting one if needed.
func (m *WatchManager) Watch(buildingID string) *BuildingWatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.watches[buildingID]; ok {
		return w
	}

	countdown := NewCountdownEngine(m.countdownTick)
	poller := NewPoller(m.fetcher, m.liveInterval, m.idleInterval, func(snap *models.BuildingSnapshot) {
		retargetCountdown(countdown, snap)
	})
	w := &BuildingWatch{Poller: poller, Countdown: countdown}
	m.watches[buildingID] = w
	poller.SetBuilding(buildingID)

	utils.Logger.Infof("Started watch for building=%s", buildingID)
	return w
}

// Get returns an existing watch without starting one.
func (m *WatchManager) Get(buildingID string) (*BuildingWatch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.watches[buildingID]
	return w, ok
}

// Snapshots returns the last applied snapshot per watched building.
func (m *WatchManager) Snapshots() map[string]*models.BuildingSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]*models.BuildingSnapshot, len(m.watches))
	for id, w := range m.watches {
		out[id] = w.Poller.Snapshot()
	}
	return out
}

// Retain stops and removes every watch whose building is not in keep.
// Wired to the stale-display eviction cron.
func (m *WatchManager) Retain(keep map[string]bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, w := range m.watches {
		if keep[id] {
			continue
		}
		w.Poller.Stop()
		w.Countdown.Clear()
		delete(m.watches, id)
		utils.Logger.Infof("Evicted watch for building=%s (no live displays)", id)
	}
}

// StopAll shuts every watch down.
func (m *WatchManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, w := range m.watches {
		w.Poller.Stop()
		w.Countdown.Clear()
		delete(m.watches, id)
	}
}

// retargetCountdown points the countdown at the applied snapshot's
// assembly, or clears it when there is nothing to count down to.
func retargetCountdown(countdown *CountdownEngine, snap *models.BuildingSnapshot) {
	asm := snap.UpcomingAssembly
	if asm == nil || asm.ScheduledDate == "" ||
		asm.Status == models.AssemblyCompleted || asm.Status == models.AssemblyCancelled {
		countdown.Clear()
		return
	}
	countdown.SetTarget(asm.ScheduledDate, asm.ScheduledTime)
}
