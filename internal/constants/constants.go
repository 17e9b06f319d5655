package constants

import (
	"time"
)

// Polling cadence. The live interval applies while the last applied
// snapshot reports an assembly in progress; the idle interval otherwise.
const (
	LivePollInterval = 15 * time.Second
	IdlePollInterval = 5 * time.Minute
	CountdownTick    = 1 * time.Second
)

// Countdown display cutoff: once an assembly started more than this long
// ago the countdown is suppressed entirely.
const CountdownPastCutoff = 3 * time.Hour

// Urgent-priority derivation. Thresholds carried over from the
// management backend's dashboard behavior; treat as tunables, not
// business rules with documented rationale.
const (
	CollectionRateCutoff           = 80.0 // percent; below this a financial entry is emitted
	UrgentAnnouncementCap          = 2    // high-priority announcements taken, at most
	UrgentListCap                  = 6    // combined urgent list length, at most
	UrgentSnippetMaxLen            = 100  // characters kept of a description
	HighPriorityScoreCutoff        = 7    // numeric announcement priority at/above which it counts as high
	UrgentMaintenanceEscalationMin = 3    // open urgent maintenance items before escalation notifies
)

// Snapshot list bounds.
const (
	MaxAnnouncementsPerSnapshot = 5
)

// Display registry.
const (
	DisplayHeartbeatTTL = 30 * time.Minute // no heartbeat for this long => stop polling the building
	EscalationCooldown  = 12 * time.Hour   // min gap between notifications per building
	EnrichmentPageSize  = 5                // page size for the fallback announcements listing
)
