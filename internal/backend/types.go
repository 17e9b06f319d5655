// internal/backend/types.go
package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

/*
Raw payload shapes for the hub backend's public-info aggregate. Field
names and optional-ness vary between backend versions (including the
legacy `financial` vs `financial_info` alias), so everything here is
loose: pointers and tolerant scalar types. The strict client-side shape
is produced by Normalize.
*/

// FlexID accepts either a JSON number or a JSON string and keeps the
// textual form. The backend's ids are numeric; older ad payloads carry
// them as strings.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

type PublicInfoPayload struct {
	BuildingInfo     *RawBuildingInfo  `json:"building_info"`
	Announcements    []RawAnnouncement `json:"announcements"`
	Votes            []RawVote         `json:"votes"`
	Financial        *RawFinancial     `json:"financial"`
	FinancialInfo    *RawFinancial     `json:"financial_info"` // legacy alias for Financial
	Maintenance      *RawMaintenance   `json:"maintenance"`
	UpcomingAssembly *RawAssembly      `json:"upcoming_assembly"`
	Ads              []RawAd           `json:"ads"`
}

// FinancialSection resolves the legacy alias: `financial` wins when both
// are present.
func (p *PublicInfoPayload) FinancialSection() *RawFinancial {
	if p.Financial != nil {
		return p.Financial
	}
	return p.FinancialInfo
}

type RawBuildingInfo struct {
	ID                 FlexID  `json:"id"`
	Name               *string `json:"name"`
	Address            *string `json:"address"`
	TotalApartments    *int    `json:"total_apartments"`
	OccupiedApartments *int    `json:"occupied_apartments"`
	ManagerName        *string `json:"manager_name"`
	ManagerPhone       *string `json:"manager_phone"`
	ManagerEmail       *string `json:"manager_email"`
}

type RawAnnouncement struct {
	ID          FlexID   `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"` // some versions send content instead of description
	IsUrgent    *bool    `json:"is_urgent"`
	Priority    *float64 `json:"priority"`
	CreatedAt   *string  `json:"created_at"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
}

// AnnouncementListing tolerates both a bare array and a paginated
// `{results: [...]}` envelope from the generic announcements endpoint.
type AnnouncementListing struct {
	Items []RawAnnouncement
}

func (l *AnnouncementListing) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &l.Items)
	}
	var envelope struct {
		Results []RawAnnouncement `json:"results"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return err
	}
	l.Items = envelope.Results
	return nil
}

type RawVote struct {
	ID                      FlexID         `json:"id"`
	Title                   *string        `json:"title"`
	Description             *string        `json:"description"`
	StartDate               *string        `json:"start_date"`
	EndDate                 *string        `json:"end_date"`
	TotalVotes              *int           `json:"total_votes"`
	ParticipationPercentage *float64       `json:"participation_percentage"`
	IsActive                *bool          `json:"is_active"`
	Results                 map[string]int `json:"results"`
}

type RawFinancial struct {
	CollectionRate       *float64              `json:"collection_rate"`
	ReserveFund          *float64              `json:"reserve_fund"`
	TotalObligations     *float64              `json:"total_obligations"`
	TotalCollected       *float64              `json:"total_collected"`
	RecentExpenses       []RawExpense          `json:"recent_expenses"`
	CurrentMonthExpenses []RawExpense          `json:"current_month_expenses"`
	HeatingExpenses      []RawExpense          `json:"heating_expenses"`
	ApartmentBalances    []RawApartmentBalance `json:"apartment_balances"`
}

type RawExpense struct {
	ID          FlexID   `json:"id"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Date        *string  `json:"date"`
}

type RawApartmentBalance struct {
	Apartment *string  `json:"apartment"`
	Balance   *float64 `json:"balance"`
	IsDebtor  *bool    `json:"is_debtor"`
}

type RawMaintenance struct {
	ActiveContractors *int                 `json:"active_contractors"`
	UrgentCount       *int                 `json:"urgent_count"`
	ActiveTasks       []RawMaintenanceTask `json:"active_tasks"`
}

type RawMaintenanceTask struct {
	ID       FlexID  `json:"id"`
	Title    *string `json:"title"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
}

type RawAssembly struct {
	ID              FlexID            `json:"id"`
	Title           *string           `json:"title"`
	ScheduledDate   *string           `json:"scheduled_date"`
	ScheduledTime   *string           `json:"scheduled_time"`
	Location        *string           `json:"location"`
	Status          *string           `json:"status"`
	PreVotingActive *bool             `json:"pre_voting_active"`
	Participation   *RawParticipation `json:"participation"`
	AgendaItems     []RawAgendaItem   `json:"agenda_items"`
}

type RawParticipation struct {
	RequiredMills    *int     `json:"required_mills"`
	RepresentedMills *int     `json:"represented_mills"`
	QuorumPercent    *float64 `json:"quorum_percent"`
	AttendeeCount    *int     `json:"attendee_count"`
}

type RawAgendaItem struct {
	Order            *int    `json:"order"`
	Title            *string `json:"title"`
	Type             *string `json:"type"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Status           *string `json:"status"`
	DecisionType     *string `json:"decision_type"`
	Decision         *string `json:"decision"`
}

type RawAd struct {
	ID       FlexID  `json:"id"`
	Title    *string `json:"title"`
	ImageURL *string `json:"image_url"`
	LinkURL  *string `json:"link_url"`
	IsActive *bool   `json:"is_active"`
}

// timeLayouts are tried in order when parsing the backend's mixed
// timestamp formats.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseBackendTime(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t
		}
	}
	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// itoa is used when synthesizing fallback ids for list entries the
// backend sent without one.
func itoa(i int) string { return strconv.Itoa(i) }
