// internal/backend/normalize.go
package backend

import (
	"sort"
	"time"

	"github.com/domora/kiosk-service/internal/constants"
	"github.com/domora/kiosk-service/internal/models"
)

/*
Normalize converts one loose public-info payload into the strict
BuildingSnapshot shape. Pure transform, no I/O.

Default table (applied whenever the backend omits a field):

	counts                 -> 0
	rates / money amounts  -> 0
	lists                  -> empty slice, never nil-as-absent semantics
	vote is_active         -> true
	maintenance priority   -> "medium"
	assembly status        -> "scheduled"
	agenda item status     -> "pending"
	agenda item type       -> "informational"
	ad is_active           -> true

Announcement priority derives to "high" when the record is flagged
urgent or its numeric priority reaches the cutoff, "medium" otherwise.
Content and Description mirror each other, honoring both historical
field names. The announcement list is truncated to the display cap
preserving the backend's order.
*/
func Normalize(p *PublicInfoPayload, fetchedAt time.Time) *models.BuildingSnapshot {
	snap := &models.BuildingSnapshot{
		Announcements: normalizeAnnouncements(p.Announcements),
		Votes:         normalizeVotes(p.Votes),
		Financial:     normalizeFinancial(p.FinancialSection()),
		Maintenance:   normalizeMaintenance(p.Maintenance),
		Ads:           normalizeAds(p.Ads),
		FetchedAt:     fetchedAt,
	}

	if bi := p.BuildingInfo; bi != nil {
		snap.Building = models.BuildingInfo{
			ID:                 bi.ID.String(),
			Name:               strOrEmpty(bi.Name),
			Address:            strOrEmpty(bi.Address),
			TotalApartments:    intOrZero(bi.TotalApartments),
			OccupiedApartments: intOrZero(bi.OccupiedApartments),
			ManagerName:        strOrEmpty(bi.ManagerName),
			ManagerPhone:       strOrEmpty(bi.ManagerPhone),
			ManagerEmail:       strOrEmpty(bi.ManagerEmail),
		}
	}

	if p.UpcomingAssembly != nil {
		snap.UpcomingAssembly = normalizeAssembly(p.UpcomingAssembly)
	}

	return snap
}

// NormalizeAnnouncement converts a single raw announcement record; the
// enrichment path uses it for the fallback listing as well.
func NormalizeAnnouncement(raw RawAnnouncement, fallbackID string) models.Announcement {
	text := strOrEmpty(raw.Description)
	if text == "" {
		text = strOrEmpty(raw.Content)
	}

	priority := models.AnnouncementPriorityMedium
	urgent := boolOr(raw.IsUrgent, false)
	if urgent || floatOrZero(raw.Priority) >= constants.HighPriorityScoreCutoff {
		priority = models.AnnouncementPriorityHigh
	}

	id := raw.ID.String()
	if id == "" {
		id = fallbackID
	}

	return models.Announcement{
		ID:          id,
		Title:       strOrEmpty(raw.Title),
		Description: text,
		Content:     text,
		Priority:    priority,
		IsUrgent:    urgent,
		CreatedAt:   parseBackendTime(raw.CreatedAt),
		StartsAt:    parseBackendTime(raw.StartDate),
		EndsAt:      parseBackendTime(raw.EndDate),
	}
}

func normalizeAnnouncements(raw []RawAnnouncement) []models.Announcement {
	out := make([]models.Announcement, 0, len(raw))
	for i, an := range raw {
		if len(out) >= constants.MaxAnnouncementsPerSnapshot {
			break
		}
		out = append(out, NormalizeAnnouncement(an, "idx-"+itoa(i)))
	}
	return out
}

func normalizeVotes(raw []RawVote) []models.Vote {
	out := make([]models.Vote, 0, len(raw))
	for i, v := range raw {
		id := v.ID.String()
		if id == "" {
			id = "idx-" + itoa(i)
		}
		out = append(out, models.Vote{
			ID:                      id,
			Title:                   strOrEmpty(v.Title),
			Description:             strOrEmpty(v.Description),
			StartsAt:                parseBackendTime(v.StartDate),
			EndsAt:                  parseBackendTime(v.EndDate),
			TotalVotes:              intOrZero(v.TotalVotes),
			ParticipationPercentage: floatOrZero(v.ParticipationPercentage),
			IsActive:                boolOr(v.IsActive, true),
			Results:                 v.Results,
		})
	}
	return out
}

func normalizeFinancial(raw *RawFinancial) models.FinancialSummary {
	fin := models.FinancialSummary{
		RecentExpenses:       []models.ExpenseItem{},
		CurrentMonthExpenses: []models.ExpenseItem{},
		HeatingExpenses:      []models.ExpenseItem{},
		ApartmentBalances:    []models.ApartmentBalance{},
	}
	if raw == nil {
		return fin
	}

	fin.CollectionRate = floatOrZero(raw.CollectionRate)
	fin.ReserveFund = floatOrZero(raw.ReserveFund)
	fin.TotalObligations = floatOrZero(raw.TotalObligations)
	fin.TotalCollected = floatOrZero(raw.TotalCollected)
	fin.RecentExpenses = normalizeExpenses(raw.RecentExpenses)
	fin.CurrentMonthExpenses = normalizeExpenses(raw.CurrentMonthExpenses)
	fin.HeatingExpenses = normalizeExpenses(raw.HeatingExpenses)

	for _, b := range raw.ApartmentBalances {
		balance := floatOrZero(b.Balance)
		fin.ApartmentBalances = append(fin.ApartmentBalances, models.ApartmentBalance{
			Apartment: strOrEmpty(b.Apartment),
			Balance:   balance,
			IsDebtor:  boolOr(b.IsDebtor, balance < 0),
		})
	}
	return fin
}

func normalizeExpenses(raw []RawExpense) []models.ExpenseItem {
	out := make([]models.ExpenseItem, 0, len(raw))
	for _, e := range raw {
		out = append(out, models.ExpenseItem{
			ID:          e.ID.String(),
			Description: strOrEmpty(e.Description),
			Amount:      floatOrZero(e.Amount),
			IncurredOn:  parseBackendTime(e.Date),
		})
	}
	return out
}

func normalizeMaintenance(raw *RawMaintenance) models.MaintenanceSummary {
	m := models.MaintenanceSummary{ActiveTasks: []models.MaintenanceTask{}}
	if raw == nil {
		return m
	}
	m.ActiveContractors = intOrZero(raw.ActiveContractors)
	m.UrgentCount = intOrZero(raw.UrgentCount)
	for i, t := range raw.ActiveTasks {
		id := t.ID.String()
		if id == "" {
			id = "idx-" + itoa(i)
		}
		priority := strOrEmpty(t.Priority)
		if priority == "" {
			priority = "medium"
		}
		m.ActiveTasks = append(m.ActiveTasks, models.MaintenanceTask{
			ID:       id,
			Title:    strOrEmpty(t.Title),
			Priority: priority,
			Status:   strOrEmpty(t.Status),
		})
	}
	return m
}

func normalizeAssembly(raw *RawAssembly) *models.UpcomingAssembly {
	asm := &models.UpcomingAssembly{
		ID:              raw.ID.String(),
		Title:           strOrEmpty(raw.Title),
		ScheduledDate:   strOrEmpty(raw.ScheduledDate),
		ScheduledTime:   strOrEmpty(raw.ScheduledTime),
		Location:        strOrEmpty(raw.Location),
		Status:          models.ParseAssemblyStatus(strOrEmpty(raw.Status)),
		PreVotingActive: boolOr(raw.PreVotingActive, false),
		AgendaItems:     []models.AgendaItem{},
	}

	if p := raw.Participation; p != nil {
		asm.Participation = models.AssemblyParticipation{
			RequiredMills:    intOrZero(p.RequiredMills),
			RepresentedMills: intOrZero(p.RepresentedMills),
			QuorumPercent:    floatOrZero(p.QuorumPercent),
			AttendeeCount:    intOrZero(p.AttendeeCount),
		}
	}

	for i, item := range raw.AgendaItems {
		order := intOrZero(item.Order)
		if item.Order == nil {
			order = i + 1
		}
		itemType := models.AgendaItemType(strOrEmpty(item.Type))
		switch itemType {
		case models.AgendaDiscussion, models.AgendaVoting, models.AgendaApproval:
		default:
			itemType = models.AgendaInformational
		}
		status := models.AgendaItemStatus(strOrEmpty(item.Status))
		switch status {
		case models.AgendaItemInProgress, models.AgendaItemCompleted:
		default:
			status = models.AgendaItemPending
		}
		asm.AgendaItems = append(asm.AgendaItems, models.AgendaItem{
			Order:            order,
			Title:            strOrEmpty(item.Title),
			Type:             itemType,
			EstimatedMinutes: intOrZero(item.EstimatedMinutes),
			Status:           status,
			DecisionType:     strOrEmpty(item.DecisionType),
			Decision:         strOrEmpty(item.Decision),
		})
	}

	// Agenda order values are unique and strictly increasing per
	// assembly; restore that invariant if the backend returned them
	// out of order.
	sort.SliceStable(asm.AgendaItems, func(i, j int) bool {
		return asm.AgendaItems[i].Order < asm.AgendaItems[j].Order
	})

	return asm
}

func normalizeAds(raw []RawAd) []models.Ad {
	out := make([]models.Ad, 0, len(raw))
	for i, ad := range raw {
		id := ad.ID.String()
		if id == "" {
			id = "idx-" + itoa(i)
		}
		out = append(out, models.Ad{
			ID:       id,
			Title:    strOrEmpty(ad.Title),
			ImageURL: strOrEmpty(ad.ImageURL),
			LinkURL:  strOrEmpty(ad.LinkURL),
			IsActive: boolOr(ad.IsActive, true),
		})
	}
	return out
}
