package models

import (
	"github.com/google/uuid"
)

// Comment is one entry in the flat, append-only thread scoped to a
// (player, task) pair. Visible to that player and the team's coaches.
type Comment struct {
	BaseModel
	TaskID   uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index:idx_comments_task_player" validate:"required"`
	PlayerID uuid.UUID `json:"player_id" gorm:"type:uuid;not null;index:idx_comments_task_player" validate:"required"`
	SenderID uuid.UUID `json:"sender_id" gorm:"type:uuid;not null" validate:"required"`
	Content  string    `json:"content" gorm:"not null;size:2000" validate:"required,max=2000"`

	// Relationships
	Task   Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Player User `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	Sender User `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
