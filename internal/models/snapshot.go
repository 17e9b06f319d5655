package models

import (
	"time"
)

/*
BuildingSnapshot is one fully-normalized aggregate of building data as of
the last successful poll. A snapshot is immutable once constructed: each
accepted poll replaces the whole value, never merges into it, so any
consumer holding a reference keeps a consistent view.
*/
type BuildingSnapshot struct {
	Building         BuildingInfo       `json:"building_info"`
	Announcements    []Announcement     `json:"announcements"`
	Votes            []Vote             `json:"votes"`
	Financial        FinancialSummary   `json:"financial"`
	Maintenance      MaintenanceSummary `json:"maintenance"`
	UpcomingAssembly *UpcomingAssembly  `json:"upcoming_assembly,omitempty"`
	Ads              []Ad               `json:"ads"`
	FetchedAt        time.Time          `json:"fetched_at"`
}

type BuildingInfo struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Address            string `json:"address"`
	TotalApartments    int    `json:"total_apartments"`
	OccupiedApartments int    `json:"occupied_apartments"`
	ManagerName        string `json:"manager_name,omitempty"`
	ManagerPhone       string `json:"manager_phone,omitempty"`
	ManagerEmail       string `json:"manager_email,omitempty"`
}

// Announcement priorities as derived during normalization.
const (
	AnnouncementPriorityHigh   = "high"
	AnnouncementPriorityMedium = "medium"
)

/*
Announcement keeps both Content and Description carrying the same text;
downstream consumers historically read either name.
*/
type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Priority    string     `json:"priority"`
	IsUrgent    bool       `json:"is_urgent"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

type Vote struct {
	ID                      string         `json:"id"`
	Title                   string         `json:"title"`
	Description             string         `json:"description,omitempty"`
	StartsAt                *time.Time     `json:"starts_at,omitempty"`
	EndsAt                  *time.Time     `json:"ends_at,omitempty"`
	TotalVotes              int            `json:"total_votes"`
	ParticipationPercentage float64        `json:"participation_percentage"`
	IsActive                bool           `json:"is_active"`
	Results                 map[string]int `json:"results,omitempty"`
}

/*
FinancialSummary defaults every money field to zero when the backend
omits it, so formatting and arithmetic downstream never meet an absent
value.
*/
type FinancialSummary struct {
	CollectionRate       float64            `json:"collection_rate"`
	ReserveFund          float64            `json:"reserve_fund"`
	TotalObligations     float64            `json:"total_obligations"`
	TotalCollected       float64            `json:"total_collected"`
	RecentExpenses       []ExpenseItem      `json:"recent_expenses"`
	CurrentMonthExpenses []ExpenseItem      `json:"current_month_expenses"`
	HeatingExpenses      []ExpenseItem      `json:"heating_expenses"`
	ApartmentBalances    []ApartmentBalance `json:"apartment_balances"`
}

type ExpenseItem struct {
	ID          string     `json:"id,omitempty"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	IncurredOn  *time.Time `json:"incurred_on,omitempty"`
}

type ApartmentBalance struct {
	Apartment string  `json:"apartment"`
	Balance   float64 `json:"balance"`
	IsDebtor  bool    `json:"is_debtor"`
}

type MaintenanceSummary struct {
	ActiveContractors int               `json:"active_contractors"`
	UrgentCount       int               `json:"urgent_count"`
	ActiveTasks       []MaintenanceTask `json:"active_tasks"`
}

type MaintenanceTask struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Status   string `json:"status,omitempty"`
}

type Ad struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`
	IsActive bool   `json:"is_active"`
}
