package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessCode grants join rights to a team with a fixed role. Exactly one
// active code exists per (team, role); codes are globally unique and are
// rotated as a pair, never consumed per join.
type AccessCode struct {
	BaseModel
	TeamID    uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_access_codes_team_role" validate:"required"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null;size:12" validate:"required"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;uniqueIndex:idx_access_codes_team_role" validate:"required,oneof=coach player"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`

	// Relationships
	Team Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for AccessCode
func (AccessCode) TableName() string {
	return "access_codes"
}

// Expired reports whether the code is past its expiry
func (c *AccessCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
