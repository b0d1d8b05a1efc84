package models

import (
	"github.com/google/uuid"
)

// Node is one skill/step in a team's training graph. ExternalID is chosen by
// the graph editor client and is the node's stable identity across saves; the
// UUID primary key is storage-internal only.
type Node struct {
	BaseModel
	TeamID     uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_nodes_team_external" validate:"required"`
	ExternalID string    `json:"node_id" gorm:"not null;size:100;uniqueIndex:idx_nodes_team_external" validate:"required,max=100"`
	Label      string    `json:"label" gorm:"not null;size:200" validate:"required,max=200"`
	X          float64   `json:"x" gorm:"not null"`
	Y          float64   `json:"y" gorm:"not null"`

	// Relationships
	Team  Team   `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:NodeID"`
}

// TableName returns the table name for Node
func (Node) TableName() string {
	return "nodes"
}
