package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	Username     string `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Role         Role   `gorm:"type:text;index;not null"       json:"role"`
	PasswordHash string `gorm:"type:text;not null"             json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	if !u.Role.IsValid() {
		return errors.New("user role is invalid")
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
