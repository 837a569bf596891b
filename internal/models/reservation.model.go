package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Money fields (price, revenue) marshal as JSON numbers, not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Reservation struct {
	BaseUUIDModel
	CleaningType     Specialization  `gorm:"type:text;index;not null"          json:"cleaning_type"`
	Address          string          `gorm:"type:text;not null"                json:"address"`
	HouseNumber      string          `gorm:"type:text"                         json:"house_number"`
	CleaningDate     datatypes.Date  `gorm:"index;not null"                    json:"cleaning_date"`
	ReservationDate  time.Time       `gorm:"type:timestamptz;not null"         json:"reservation_date"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null"       json:"price"`
	ApprovedByClient bool            `gorm:"type:bool;default:false;not null"  json:"approved_by_client"`
	ApprovedByAdmin  bool            `gorm:"type:bool;default:false;not null"  json:"approved_by_admin"`
	Priority         Priority        `gorm:"type:text;default:MEDIUM;not null" json:"priority"`
	Status           TaskStatus      `gorm:"type:text;default:pending;index;not null" json:"status"`
	Notes            string          `gorm:"type:text"                         json:"notes"`
	ClientID         uuid.UUID       `gorm:"type:uuid;index;not null"          json:"client_id"`
	Client           *User           `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"-"`
	AssignedGroupID  *uuid.UUID      `gorm:"type:uuid;index"                   json:"assigned_group_id"`
	AssignedGroup    *Group          `gorm:"foreignKey:AssignedGroupID;constraint:OnDelete:RESTRICT" json:"-"`
	ClientRating     *int            `gorm:"type:int"                          json:"client_rating,omitempty"`
	RatedAt          *time.Time      `gorm:"type:timestamptz"                  json:"rated_at,omitempty"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	r.ApplyDefaults(time.Now())
	return r.Validate()
}

// ApplyDefaults fills the zero valued fields a new reservation starts with.
func (r *Reservation) ApplyDefaults(now time.Time) {
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if r.Status == "" {
		r.Status = TaskStatusPending
	}
	if r.ReservationDate.IsZero() {
		r.ReservationDate = now
	}
}

func (r *Reservation) Validate() error {
	if !r.CleaningType.IsValid() {
		return errors.New("reservation cleaning type is invalid")
	}
	if !r.Priority.IsValid() {
		return errors.New("reservation priority is invalid")
	}
	if !r.Status.IsValid() {
		return errors.New("reservation status is invalid")
	}
	if r.Price.IsNegative() {
		return errors.New("reservation price must not be negative")
	}
	return nil
}

func (r *Reservation) CleaningTime() time.Time {
	return time.Time(r.CleaningDate)
}

func (r *Reservation) IsRated() bool {
	return r.RatedAt != nil
}

func (r *Reservation) IsAssignedTo(groupID uuid.UUID) bool {
	return r.AssignedGroupID != nil && *r.AssignedGroupID == groupID
}
