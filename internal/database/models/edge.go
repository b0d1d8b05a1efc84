package models

import (
	"github.com/google/uuid"
)

// Edge is a directed prerequisite between two nodes of the same team's graph.
// Source and target reference node external IDs; edges are wholesale-replaced
// on every graph save, so they carry no identity worth diffing.
type Edge struct {
	BaseModel
	TeamID           uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_edges_team_external" validate:"required"`
	ExternalID       string    `json:"edge_id" gorm:"not null;size:100;uniqueIndex:idx_edges_team_external" validate:"required,max=100"`
	SourceExternalID string    `json:"source" gorm:"not null;size:100" validate:"required,max=100"`
	TargetExternalID string    `json:"target" gorm:"not null;size:100" validate:"required,max=100"`

	// Relationships
	Team Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Edge
func (Edge) TableName() string {
	return "edges"
}
