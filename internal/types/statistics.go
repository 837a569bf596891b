package types

import (
	"time"

	"cleanroster/internal/models"

	"github.com/shopspring/decimal"
)

type StatusBreakdown struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}

type MonthlyEntry struct {
	Month   string          `json:"month"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatsReport struct {
	TotalReservations     int                           `json:"total_reservations"`
	TotalRevenue          decimal.Decimal               `json:"total_revenue"`
	StatusBreakdown       StatusBreakdown               `json:"status_breakdown"`
	PriorityBreakdown     map[models.Priority]int       `json:"priority_breakdown"`
	CleaningTypeBreakdown map[models.Specialization]int `json:"cleaning_type_breakdown"`
	MonthlyBreakdown      []MonthlyEntry                `json:"monthly_breakdown"`
}

type GroupWorkload struct {
	GroupName      string  `json:"group_name"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

type TaskStats struct {
	TotalTasks      int     `json:"total_tasks"`
	PendingTasks    int     `json:"pending_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

type DateRange struct {
	Start *time.Time
	End   *time.Time
}

type TaskDashboard struct {
	Stats         TaskStats             `json:"stats"`
	UpcomingTasks []*models.Reservation `json:"upcoming_tasks"`
	RecentTasks   []*models.Reservation `json:"recent_tasks"`
	Workload      []GroupWorkload       `json:"workload,omitempty"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type GroupRatingEntry struct {
	Name           string                `json:"name"`
	Specialization models.Specialization `json:"specialization"`
	Rating         float64               `json:"rating"`
}

type AdminDashboard struct {
	TotalGroups        int64                 `json:"total_groups"`
	TotalMembers       int64                 `json:"total_members"`
	TotalClients       int64                 `json:"total_clients"`
	TotalReservations  int64                 `json:"total_reservations"`
	RecentReservations []*models.Reservation `json:"recent_reservations"`
	MonthlyStats       []MonthlyCount        `json:"monthly_stats"`
	TopGroups          []GroupRatingEntry    `json:"top_groups"`
}

type RatingResult struct {
	ReservationID string  `json:"reservation_id"`
	GroupID       string  `json:"group_id"`
	PreviousScore float64 `json:"previous_rating"`
	UpdatedRating float64 `json:"updated_rating"`
}

type StatsSnapshot struct {
	Report      StatsReport `json:"report"`
	GeneratedAt time.Time   `json:"generated_at"`
}
