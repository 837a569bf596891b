package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxGroupMembers = 5
	MinGroupRating  = 1.0
	MaxGroupRating  = 5.0
	// DefaultGroupRating is the midpoint of the rating range.
	DefaultGroupRating = 3.0
)

type Group struct {
	BaseUUIDModel
	Name           string         `gorm:"type:text;uniqueIndex;not null"        json:"name"`
	Specialization Specialization `gorm:"type:text;index;not null"              json:"specialization"`
	Rating         float64        `gorm:"type:double precision;default:3;not null" json:"rating"`
	ChiefID        *uuid.UUID     `gorm:"type:uuid;uniqueIndex"                 json:"chief_id,omitempty"`
	Chief          *User          `gorm:"foreignKey:ChiefID;constraint:OnDelete:SET NULL" json:"chief,omitempty"`
	Members        []*User        `gorm:"many2many:group_members"               json:"members"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.Rating == 0 {
		g.Rating = DefaultGroupRating
	}
	return g.Validate()
}

// Validate checks the invariants a stored group must hold.
func (g *Group) Validate() error {
	if !g.Specialization.IsValid() {
		return errors.New("group specialization is invalid")
	}
	if g.Rating < MinGroupRating || g.Rating > MaxGroupRating {
		return errors.New("group rating out of range")
	}
	if len(g.Members) > MaxGroupMembers {
		return errors.New("group has too many members")
	}
	return nil
}

func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, member := range g.Members {
		if member != nil && member.ID == userID {
			return true
		}
	}
	return false
}

func (g *Group) IsChief(userID uuid.UUID) bool {
	return g.ChiefID != nil && *g.ChiefID == userID
}
