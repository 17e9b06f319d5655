// internal/services/countdown_engine.go
package services

import (
	"sync"
	"time"

	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"
)

/*
CountdownEngine keeps a continuously updating time-delta between "now"
and a fixed target wall-clock moment, on its own 1-second tick,
independent of data polling. It holds no reference to poll state; the
manager retargets it whenever an applied snapshot changes the upcoming
assembly.

Each tick is a full recomputation against the wall clock; there is no
smoothing or drift correction beyond reading the clock fresh every
tick, which is fine at whole-second granularity.
*/
type CountdownEngine struct {
	tick time.Duration
	now  func() time.Time

	mu        sync.Mutex
	date      string
	timeOfDay string
	state     models.CountdownState
	active    bool
	stopCh    chan struct{}
}

func NewCountdownEngine(tick time.Duration) *CountdownEngine {
	return &CountdownEngine{
		tick: tick,
		now:  time.Now,
	}
}

// SetTarget points the engine at a new (date, time) target and starts
// the tick loop. Re-setting the same target is a no-op; a changed
// target restarts the loop from a fresh recomputation.
func (e *CountdownEngine) SetTarget(scheduledDate, scheduledTime string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active && e.date == scheduledDate && e.timeOfDay == scheduledTime {
		return
	}
	e.stopLocked()

	state, err := models.ComputeCountdown(scheduledDate, scheduledTime, e.now())
	if err != nil {
		utils.Logger.WithError(err).Warnf("Countdown target rejected: date=%q time=%q", scheduledDate, scheduledTime)
		return
	}

	e.date = scheduledDate
	e.timeOfDay = scheduledTime
	e.state = state
	e.active = true
	e.stopCh = make(chan struct{})

	go e.run(scheduledDate, scheduledTime, e.stopCh)
}

// Clear stops the tick loop and drops the target.
func (e *CountdownEngine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// State returns the latest computed countdown and whether a target is
// currently set.
func (e *CountdownEngine) State() (models.CountdownState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.active
}

func (e *CountdownEngine) stopLocked() {
	if e.stopCh != nil {
		close(e.stopCh)
		e.stopCh = nil
	}
	e.active = false
	e.date = ""
	e.timeOfDay = ""
	e.state = models.CountdownState{}
}

func (e *CountdownEngine) run(scheduledDate, scheduledTime string, stopCh chan struct{}) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			state, err := models.ComputeCountdown(scheduledDate, scheduledTime, e.now())
			if err != nil {
				continue
			}
			e.mu.Lock()
			// The target may have been swapped between the tick firing
			// and the lock being taken.
			if e.active && e.date == scheduledDate && e.timeOfDay == scheduledTime {
				e.state = state
			}
			e.mu.Unlock()
		}
	}
}
