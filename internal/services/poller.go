// internal/services/poller.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"
)

/*
Poller owns the polling lifecycle for one building identifier.

Only the most recent request's result is ever applied: every issued
fetch carries the generation current at issue time, and a result is
applied only if its generation still matches when it arrives. Changing
the target building clears the displayed state, bumps the generation
(so anything in flight for the old identifier becomes a no-op on
arrival) and fetches immediately. There is no abort of the underlying
HTTP request, only suppression of its effect.

The poll cadence is re-evaluated after every completed fetch: the live
interval while the applied snapshot reports an assembly in progress,
the idle interval otherwise. A failed fetch sets the error message and
keeps the previous snapshot; there is no backoff and no retry before
the next scheduled tick.
*/
type Poller struct {
	fetcher      SnapshotFetcher
	liveInterval time.Duration
	idleInterval time.Duration

	// onApplied runs (outside the lock) for every applied snapshot;
	// the manager uses it to retarget the countdown engine.
	onApplied func(*models.BuildingSnapshot)

	mu         sync.Mutex
	buildingID string
	generation uint64
	snapshot   *models.BuildingSnapshot
	errMsg     string
	loading    bool
	timer      *time.Timer
	stopped    bool
}

func NewPoller(fetcher SnapshotFetcher, liveInterval, idleInterval time.Duration, onApplied func(*models.BuildingSnapshot)) *Poller {
	return &Poller{
		fetcher:      fetcher,
		liveInterval: liveInterval,
		idleInterval: idleInterval,
		onApplied:    onApplied,
	}
}

// SetBuilding switches the poller to a new target building. Displayed
// data and error state are cleared proactively before the first fetch
// for the new identifier is issued. Setting the same identifier again
// is a no-op.
func (p *Poller) SetBuilding(buildingID string) {
	p.mu.Lock()
	if p.stopped || p.buildingID == buildingID {
		p.mu.Unlock()
		return
	}
	p.buildingID = buildingID
	p.snapshot = nil
	p.errMsg = ""
	p.loading = true
	p.cancelTimerLocked()
	gen := p.bumpGenerationLocked()
	p.mu.Unlock()

	go p.fetch(gen, buildingID)
}

// Refetch issues a manual fetch on demand with the same
// fetch-and-generation-check logic as the scheduled polls.
func (p *Poller) Refetch() {
	p.mu.Lock()
	if p.stopped || p.buildingID == "" {
		p.mu.Unlock()
		return
	}
	p.loading = true
	p.cancelTimerLocked()
	gen := p.bumpGenerationLocked()
	id := p.buildingID
	p.mu.Unlock()

	go p.fetch(gen, id)
}

// Stop halts the poll loop. In-flight results are discarded on arrival.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.cancelTimerLocked()
	p.generation++
}

// Snapshot returns the last applied snapshot, or nil before the first
// success (and right after a building change).
func (p *Poller) Snapshot() *models.BuildingSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// ErrMessage returns the current user-visible error, empty when none.
func (p *Poller) ErrMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

func (p *Poller) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Poller) BuildingID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buildingID
}

func (p *Poller) bumpGenerationLocked() uint64 {
	p.generation++
	return p.generation
}

func (p *Poller) cancelTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// fetch runs one poll cycle for the given generation and applies the
// result only if that generation is still the latest issued one.
func (p *Poller) fetch(gen uint64, buildingID string) {
	snap, err := p.fetcher.FetchSnapshot(context.Background(), buildingID)

	p.mu.Lock()
	if p.stopped || gen != p.generation {
		// A newer request was issued (or the target changed) while this
		// one was in flight; its result must never be shown.
		p.mu.Unlock()
		utils.Logger.Debugf("Discarding stale poll result for building=%s gen=%d", buildingID, gen)
		return
	}

	p.loading = false
	if err != nil {
		p.errMsg = "load failed"
		utils.Logger.WithError(err).Warnf("Poll failed for building=%s", buildingID)
	} else {
		p.snapshot = snap
		p.errMsg = ""
	}
	p.scheduleNextLocked()
	applied := p.snapshot
	p.mu.Unlock()

	if err == nil && p.onApplied != nil {
		p.onApplied(applied)
	}
}

// scheduleNextLocked arms the next poll tick based on the snapshot that
// is applied right now. The switch affects the next interval, never the
// one already elapsed.
func (p *Poller) scheduleNextLocked() {
	p.cancelTimerLocked()
	interval := p.idleInterval
	if p.snapshot != nil && p.snapshot.UpcomingAssembly != nil &&
		p.snapshot.UpcomingAssembly.Status == models.AssemblyInProgress {
		interval = p.liveInterval
	}
	p.timer = time.AfterFunc(interval, p.pollTick)
}

func (p *Poller) pollTick() {
	p.mu.Lock()
	if p.stopped || p.buildingID == "" {
		p.mu.Unlock()
		return
	}
	p.loading = true
	gen := p.bumpGenerationLocked()
	id := p.buildingID
	p.mu.Unlock()

	p.fetch(gen, id)
}
