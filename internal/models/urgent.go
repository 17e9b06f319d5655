package models

import (
	"fmt"

	"github.com/domora/kiosk-service/internal/constants"
)

type UrgentPriorityType string

const (
	UrgentTypeMaintenance  UrgentPriorityType = "maintenance"
	UrgentTypeFinancial    UrgentPriorityType = "financial"
	UrgentTypeAnnouncement UrgentPriorityType = "announcement"
)

/*
UrgentPriority is a synthesized "needs attention now" entry. Entries are
recomputed from scratch on every snapshot, never partially updated, and
the list is capped preserving insertion order (announcements first, then
financial, then the guaranteed fallback).
*/
type UrgentPriority struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        UrgentPriorityType `json:"type"`
	Priority    string             `json:"priority"`
	Due         string             `json:"due"`
}

const (
	financialDueLabel    = "continuous monitoring"
	fallbackUrgentTitle  = "No urgent issues"
	fallbackUrgentDetail = "All building systems operating normally"
)

// DeriveUrgentPriorities builds the ranked attention list from a
// snapshot. The ordering and thresholds are fixed heuristics:
//
//  1. up to UrgentAnnouncementCap announcements with high priority
//  2. one financial entry when the collection rate is below the cutoff
//  3. one maintenance fallback entry when nothing else qualified
//
// The result is capped at UrgentListCap without any further sorting.
func DeriveUrgentPriorities(s *BuildingSnapshot) []UrgentPriority {
	out := make([]UrgentPriority, 0, 4)

	taken := 0
	for _, an := range s.Announcements {
		if an.Priority != AnnouncementPriorityHigh {
			continue
		}
		if taken >= constants.UrgentAnnouncementCap {
			break
		}
		due := "Today"
		if an.CreatedAt != nil {
			due = an.CreatedAt.Format("2 Jan")
		}
		out = append(out, UrgentPriority{
			ID:          "announcement-" + an.ID,
			Title:       an.Title,
			Description: truncateSnippet(an.Description, constants.UrgentSnippetMaxLen),
			Type:        UrgentTypeAnnouncement,
			Priority:    AnnouncementPriorityHigh,
			Due:         due,
		})
		taken++
	}

	if s.Financial.CollectionRate < constants.CollectionRateCutoff {
		out = append(out, UrgentPriority{
			ID:    "financial-collection",
			Title: "Low collection rate",
			Description: fmt.Sprintf(
				"Collection rate is %.0f%%, below the %.0f%% target",
				s.Financial.CollectionRate, constants.CollectionRateCutoff,
			),
			Type:     UrgentTypeFinancial,
			Priority: AnnouncementPriorityHigh,
			Due:      financialDueLabel,
		})
	}

	// The list is never empty while the feature is displayed.
	if len(out) == 0 {
		out = append(out, UrgentPriority{
			ID:          "maintenance-all-clear",
			Title:       fallbackUrgentTitle,
			Description: fallbackUrgentDetail,
			Type:        UrgentTypeMaintenance,
			Priority:    "low",
			Due:         "Today",
		})
	}

	if len(out) > constants.UrgentListCap {
		out = out[:constants.UrgentListCap]
	}
	return out
}

func truncateSnippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
