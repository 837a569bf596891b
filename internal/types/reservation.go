package types

import (
	"time"

	"cleanroster/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationQuery is the predicate set understood by the store. Zero values
// mean "no restriction".
type ReservationQuery struct {
	ClientID *uuid.UUID
	// ScopeToGroups restricts results to AssignedGroupIDs, an empty list then
	// matches nothing.
	ScopeToGroups    bool
	AssignedGroupIDs []uuid.UUID
	Status           *models.TaskStatus
	// CleaningFrom is inclusive, CleaningBefore is exclusive.
	CleaningFrom   *time.Time
	CleaningBefore *time.Time
	Limit          int
	OrderBy        string
}

// ReservationUpdate carries the fields a caller wants to change; nil fields are left untouched.
type ReservationUpdate struct {
	ApprovedByClient *bool
	ApprovedByAdmin  *bool
	Status           *models.TaskStatus
	Notes            *string
	Priority         *models.Priority
	Price            *decimal.Decimal
	ClientRating     *int
	RatedAt          *time.Time
}

func (u ReservationUpdate) Columns() map[string]any {
	columns := map[string]any{}
	if u.ApprovedByClient != nil {
		columns["approved_by_client"] = *u.ApprovedByClient
	}
	if u.ApprovedByAdmin != nil {
		columns["approved_by_admin"] = *u.ApprovedByAdmin
	}
	if u.Status != nil {
		columns["status"] = *u.Status
	}
	if u.Notes != nil {
		columns["notes"] = *u.Notes
	}
	if u.Priority != nil {
		columns["priority"] = *u.Priority
	}
	if u.Price != nil {
		columns["price"] = *u.Price
	}
	if u.ClientRating != nil {
		columns["client_rating"] = *u.ClientRating
	}
	if u.RatedAt != nil {
		columns["rated_at"] = *u.RatedAt
	}
	return columns
}

// Apply copies the set fields onto r.
func (u ReservationUpdate) Apply(r *models.Reservation) {
	if u.ApprovedByClient != nil {
		r.ApprovedByClient = *u.ApprovedByClient
	}
	if u.ApprovedByAdmin != nil {
		r.ApprovedByAdmin = *u.ApprovedByAdmin
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	if u.Priority != nil {
		r.Priority = *u.Priority
	}
	if u.Price != nil {
		r.Price = *u.Price
	}
	if u.ClientRating != nil {
		rating := *u.ClientRating
		r.ClientRating = &rating
	}
	if u.RatedAt != nil {
		ratedAt := *u.RatedAt
		r.RatedAt = &ratedAt
	}
}

type SortField string

const (
	SortDefault         SortField = ""
	SortCleaningDate    SortField = "cleaning_date"
	SortReservationDate SortField = "reservation_date"
	SortPrice           SortField = "price"
	SortPriority        SortField = "priority"
)

func (s SortField) IsValid() bool {
	switch s {
	case SortDefault, SortCleaningDate, SortReservationDate, SortPrice, SortPriority:
		return true
	default:
		return false
	}
}

// TaskFilters are the optional narrowing options of a role scoped view.
// DateTo is inclusive through the end of that day.
type TaskFilters struct {
	Status   *models.TaskStatus
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   SortField
	SortDesc bool
}

type GroupFilters struct {
	Specialization *models.Specialization
	Skip           int
	Limit          int
}
