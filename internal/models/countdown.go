package models

import (
	"fmt"
	"time"

	"github.com/domora/kiosk-service/internal/constants"
)

/*
CountdownState is the derived time-delta between "now" and a fixed
target wall-clock moment. It is recomputed from scratch on every tick;
nothing here is persisted.

HasStarted flips once now reaches the target. IsPast flips once the
target is more than the past-cutoff behind now and is the "stop showing
this" signal, distinct from HasStarted. IsToday compares calendar dates
in local time regardless of HasStarted.
*/
type CountdownState struct {
	Days       int  `json:"days"`
	Hours      int  `json:"hours"`
	Minutes    int  `json:"minutes"`
	Seconds    int  `json:"seconds"`
	IsToday    bool `json:"is_today"`
	HasStarted bool `json:"has_started"`
	IsPast     bool `json:"is_past"`
}

// ComputeCountdown resolves (scheduledDate, scheduledTime) to an absolute
// instant in now's location and derives the countdown state against now.
// scheduledDate is "2006-01-02"; scheduledTime is "15:04" and defaults to
// midnight when empty. The breakdown is non-negative and all zero once
// the target has started.
func ComputeCountdown(scheduledDate, scheduledTime string, now time.Time) (CountdownState, error) {
	day, err := time.ParseInLocation("2006-01-02", scheduledDate, now.Location())
	if err != nil {
		return CountdownState{}, fmt.Errorf("invalid scheduled date %q: %w", scheduledDate, err)
	}

	hour, minute := 0, 0
	if scheduledTime != "" {
		clock, err := time.Parse("15:04", scheduledTime)
		if err != nil {
			return CountdownState{}, fmt.Errorf("invalid scheduled time %q: %w", scheduledTime, err)
		}
		hour, minute = clock.Hour(), clock.Minute()
	}

	target := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())

	st := CountdownState{
		IsToday:    now.Year() == target.Year() && now.YearDay() == target.YearDay(),
		HasStarted: !now.Before(target),
		IsPast:     now.Sub(target) > constants.CountdownPastCutoff,
	}
	if st.HasStarted {
		return st, nil
	}

	remaining := int(target.Sub(now).Seconds())
	st.Days = remaining / 86400
	st.Hours = (remaining % 86400) / 3600
	st.Minutes = (remaining % 3600) / 60
	st.Seconds = remaining % 60
	return st, nil
}
