package models

import (
	"github.com/google/uuid"
)

// Post is a flat team-feed entry written by any member of the team
type Post struct {
	BaseModel
	TeamID   uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index" validate:"required"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index" validate:"required"`
	Content  string    `json:"content" gorm:"not null;size:2000" validate:"required,max=2000"`

	// Relationships
	Team   Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Post
func (Post) TableName() string {
	return "posts"
}
