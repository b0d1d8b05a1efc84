package models

import (
	"github.com/google/uuid"
)

// NotificationType classifies the event that produced a notification
type NotificationType string

const (
	NotificationTypeSubmission  NotificationType = "submission"
	NotificationTypeApproval    NotificationType = "approval"
	NotificationTypeReturned    NotificationType = "returned"
	NotificationTypeComment     NotificationType = "comment"
	NotificationTypeTeamDeleted NotificationType = "team_deleted"
	NotificationTypeRemoved     NotificationType = "removed"
)

// Notification is one in-app message for one recipient. Rows are write-once
// except for the IsRead flag. The team/node/task references are informational
// and survive deletion of what they point at (SET NULL, not CASCADE) so that
// e.g. the "team deleted" notification outlives the team.
type Notification struct {
	BaseModel
	RecipientID uuid.UUID        `json:"recipient_id" gorm:"type:uuid;not null;index" validate:"required"`
	SenderID    uuid.UUID        `json:"sender_id" gorm:"type:uuid;not null" validate:"required"`
	Type        NotificationType `json:"type" gorm:"type:varchar(30);not null" validate:"required"`
	Content     string           `json:"content" gorm:"not null;size:500" validate:"required,max=500"`
	TeamID      *uuid.UUID       `json:"team_id,omitempty" gorm:"type:uuid"`
	NodeID      *uuid.UUID       `json:"node_id,omitempty" gorm:"type:uuid"`
	TaskID      *uuid.UUID       `json:"task_id,omitempty" gorm:"type:uuid"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false"`

	// Relationships
	Recipient User  `json:"recipient,omitempty" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Team      *Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
	Node      *Node `json:"node,omitempty" gorm:"foreignKey:NodeID;constraint:OnDelete:SET NULL"`
	Task      *Task `json:"task,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
