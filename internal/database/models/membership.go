package models

import (
	"github.com/google/uuid"
)

// Role represents a user's role within a team
type Role string

const (
	RoleCoach  Role = "coach"
	RolePlayer Role = "player"
)

// Membership joins a user to a team with a role. A user holds at most one
// membership per team; the last coach leaving a team deletes the team.
type Membership struct {
	BaseModel
	TeamID uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_team_user" validate:"required"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_team_user;index" validate:"required"`
	Role   Role      `json:"role" gorm:"type:varchar(20);not null" validate:"required,oneof=coach player"`

	// Relationships
	Team Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}
