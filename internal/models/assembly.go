package models

import (
	"errors"
)

// AssemblyStatus is the closed set of lifecycle states an assembly can
// be in. The backend owns the authoritative state machine; this type
// exists so the client side validates what it reflects instead of
// rendering whatever string arrives.
type AssemblyStatus string

const (
	AssemblyScheduled  AssemblyStatus = "scheduled"
	AssemblyInProgress AssemblyStatus = "in_progress"
	AssemblyCompleted  AssemblyStatus = "completed"
	AssemblyCancelled  AssemblyStatus = "cancelled"
)

// ParseAssemblyStatus maps a raw backend tag onto the closed set,
// falling back to "scheduled" for anything unknown or empty.
func ParseAssemblyStatus(raw string) AssemblyStatus {
	switch AssemblyStatus(raw) {
	case AssemblyInProgress, AssemblyCompleted, AssemblyCancelled:
		return AssemblyStatus(raw)
	default:
		return AssemblyScheduled
	}
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step. Used to guard mutations before they reach the backend.
func (s AssemblyStatus) CanTransitionTo(next AssemblyStatus) bool {
	switch s {
	case AssemblyScheduled:
		return next == AssemblyInProgress || next == AssemblyCancelled
	case AssemblyInProgress:
		return next == AssemblyCompleted || next == AssemblyCancelled
	default:
		return false
	}
}

type AgendaItemType string

const (
	AgendaInformational AgendaItemType = "informational"
	AgendaDiscussion    AgendaItemType = "discussion"
	AgendaVoting        AgendaItemType = "voting"
	AgendaApproval      AgendaItemType = "approval"
)

// DefaultDecision returns the suggested free-text decision phrase for
// completing an item of this type.
func (t AgendaItemType) DefaultDecision() string {
	if t == AgendaVoting {
		return "approved by majority"
	}
	return "discussion concluded"
}

type AgendaItemStatus string

const (
	AgendaItemPending    AgendaItemStatus = "pending"
	AgendaItemInProgress AgendaItemStatus = "in_progress"
	AgendaItemCompleted  AgendaItemStatus = "completed"
)

type AgendaItem struct {
	Order            int              `json:"order"`
	Title            string           `json:"title"`
	Type             AgendaItemType   `json:"type"`
	EstimatedMinutes int              `json:"estimated_minutes,omitempty"`
	Status           AgendaItemStatus `json:"status"`
	DecisionType     string           `json:"decision_type,omitempty"`
	Decision         string           `json:"decision,omitempty"`
}

// AssemblyParticipation mirrors the backend-computed quorum figures.
// Mills are thousandths of total building ownership.
type AssemblyParticipation struct {
	RequiredMills    int     `json:"required_mills"`
	RepresentedMills int     `json:"represented_mills"`
	QuorumPercent    float64 `json:"quorum_percent"`
	AttendeeCount    int     `json:"attendee_count"`
}

type UpcomingAssembly struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	ScheduledDate   string                `json:"scheduled_date"`
	ScheduledTime   string                `json:"scheduled_time,omitempty"`
	Location        string                `json:"location,omitempty"`
	Status          AssemblyStatus        `json:"status"`
	PreVotingActive bool                  `json:"pre_voting_active"`
	Participation   AssemblyParticipation `json:"participation"`
	AgendaItems     []AgendaItem          `json:"agenda_items"`
}

// ErrInconsistentAgenda is returned when more than one agenda item
// claims to be in progress; the backend enforces at most one, so seeing
// two means the payload itself is inconsistent.
var ErrInconsistentAgenda = errors.New("inconsistent_agenda")

// InProgressItem scans the ordered agenda list for the single item in
// progress. Returns nil when none is.
func (a *UpcomingAssembly) InProgressItem() (*AgendaItem, error) {
	var found *AgendaItem
	for i := range a.AgendaItems {
		if a.AgendaItems[i].Status != AgendaItemInProgress {
			continue
		}
		if found != nil {
			return nil, ErrInconsistentAgenda
		}
		found = &a.AgendaItems[i]
	}
	return found, nil
}

// NextPendingItem returns the first not-yet-completed, not-in-progress
// item in agenda order, or nil when everything is done.
func (a *UpcomingAssembly) NextPendingItem() *AgendaItem {
	for i := range a.AgendaItems {
		if a.AgendaItems[i].Status == AgendaItemPending {
			return &a.AgendaItems[i]
		}
	}
	return nil
}

// ItemByOrder looks an agenda item up by its order index.
func (a *UpcomingAssembly) ItemByOrder(order int) *AgendaItem {
	for i := range a.AgendaItems {
		if a.AgendaItems[i].Order == order {
			return &a.AgendaItems[i]
		}
	}
	return nil
}
