package models

import (
	"github.com/google/uuid"
)

// Submission marks that a player has turned in work for a task and is
// awaiting review. At most one row exists per (task, player); together with
// Completion its presence derives the player's lifecycle state.
type Submission struct {
	BaseModel
	TaskID   uuid.UUID `json:"task_id" gorm:"type:uuid;not null;uniqueIndex:idx_submissions_task_player" validate:"required"`
	PlayerID uuid.UUID `json:"player_id" gorm:"type:uuid;not null;uniqueIndex:idx_submissions_task_player;index" validate:"required"`

	// Relationships
	Task   Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Player User `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}

// Completion marks a coach's approval of a player's work for a task. At most
// one row exists per (task, player).
type Completion struct {
	BaseModel
	TaskID   uuid.UUID `json:"task_id" gorm:"type:uuid;not null;uniqueIndex:idx_completions_task_player" validate:"required"`
	PlayerID uuid.UUID `json:"player_id" gorm:"type:uuid;not null;uniqueIndex:idx_completions_task_player;index" validate:"required"`

	// Relationships
	Task   Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Player User `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Completion
func (Completion) TableName() string {
	return "completions"
}

// TaskState is the derived per-(task, player) lifecycle state. It is never
// stored; it is reconstructed from Submission/Completion row presence.
type TaskState string

const (
	TaskStateUnsubmitted TaskState = "unsubmitted"
	TaskStateSubmitted   TaskState = "submitted"
	TaskStateCompleted   TaskState = "completed"
)

// DeriveTaskState maps row presence to the lifecycle state. A completion row
// wins over a submission row.
func DeriveTaskState(hasSubmission, hasCompletion bool) TaskState {
	switch {
	case hasCompletion:
		return TaskStateCompleted
	case hasSubmission:
		return TaskStateSubmitted
	default:
		return TaskStateUnsubmitted
	}
}
