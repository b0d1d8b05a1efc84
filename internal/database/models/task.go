package models

import (
	"github.com/google/uuid"
)

// Task is an assignment attached to a node, the unit a player submits work
// against. SortOrder is a dense zero-based rank among siblings of the same
// node, rewritten only by explicit reordering.
type Task struct {
	BaseModel
	TeamID      uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index" validate:"required"`
	NodeID      uuid.UUID `json:"node_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title       string    `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description string    `json:"description" gorm:"size:2000" validate:"max=2000"`
	SortOrder   int       `json:"order" gorm:"not null;default:0"`

	// Relationships
	Team        Team         `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Node        Node         `json:"node,omitempty" gorm:"foreignKey:NodeID;constraint:OnDelete:CASCADE"`
	Media       []TaskMedia  `json:"media,omitempty" gorm:"foreignKey:TaskID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:TaskID"`
	Completions []Completion `json:"completions,omitempty" gorm:"foreignKey:TaskID"`
	Comments    []Comment    `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
}

// TableName returns the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TaskMedia references one stored media object attached to a task. The key is
// opaque to this service; the media store owns the bytes.
type TaskMedia struct {
	BaseModel
	TaskID uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index" validate:"required"`
	Key    string    `json:"key" gorm:"not null;size:255" validate:"required,max=255"`

	// Relationships
	Task Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for TaskMedia
func (TaskMedia) TableName() string {
	return "task_media"
}
