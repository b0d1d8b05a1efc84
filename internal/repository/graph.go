package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraphRepository handles database operations for a team's training graph
type GraphRepository struct {
	db *gorm.DB
}

// NewGraphRepository creates a new graph repository
func NewGraphRepository(db *gorm.DB) *GraphRepository {
	return &GraphRepository{db: db}
}

// GetNodesByTeamID retrieves all nodes of a team
func (r *GraphRepository) GetNodesByTeamID(teamID uuid.UUID) ([]models.Node, error) {
	var nodes []models.Node
	err := r.db.Where("team_id = ?", teamID).Find(&nodes).Error
	return nodes, err
}

// GetNodeByExternalID retrieves one node by its team-scoped external ID
func (r *GraphRepository) GetNodeByExternalID(teamID uuid.UUID, externalID string) (*models.Node, error) {
	var node models.Node
	err := r.db.First(&node, "team_id = ? AND external_id = ?", teamID, externalID).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// CreateNode inserts a node
func (r *GraphRepository) CreateNode(node *models.Node) error {
	return r.db.Create(node).Error
}

// UpdateNode updates a stored node's label and position in place
func (r *GraphRepository) UpdateNode(node *models.Node) error {
	return r.db.Model(&models.Node{}).
		Where("id = ?", node.ID).
		Updates(map[string]interface{}{"label": node.Label, "x": node.X, "y": node.Y}).Error
}

// DeleteNodesByExternalIDs deletes the named nodes of a team. Their tasks and
// all task dependents follow through the foreign-key cascades.
func (r *GraphRepository) DeleteNodesByExternalIDs(teamID uuid.UUID, externalIDs []string) error {
	if len(externalIDs) == 0 {
		return nil
	}
	return r.db.Delete(&models.Node{}, "team_id = ? AND external_id IN ?", teamID, externalIDs).Error
}

// GetEdgesByTeamID retrieves all edges of a team
func (r *GraphRepository) GetEdgesByTeamID(teamID uuid.UUID) ([]models.Edge, error) {
	var edges []models.Edge
	err := r.db.Where("team_id = ?", teamID).Find(&edges).Error
	return edges, err
}

// ReplaceEdges unconditionally swaps a team's edge set for the incoming one.
// Edges carry no identity worth diffing.
func (r *GraphRepository) ReplaceEdges(teamID uuid.UUID, edges []models.Edge) error {
	if err := r.db.Delete(&models.Edge{}, "team_id = ?", teamID).Error; err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	return r.db.Create(&edges).Error
}

// NodeTaskCounts is a per-node task progress aggregate for one player
type NodeTaskCounts struct {
	NodeExternalID string `json:"node_id"`
	TotalTasks     int64  `json:"total_tasks"`
	CompletedTasks int64  `json:"completed_tasks"`
}

// TaskCountsForPlayer computes, per node of the team, the total task count
// and the count of this player's completions. Read-time aggregation; nothing
// is stored.
func (r *GraphRepository) TaskCountsForPlayer(teamID, playerID uuid.UUID) ([]NodeTaskCounts, error) {
	var counts []NodeTaskCounts
	err := r.db.Raw(`
		SELECT n.external_id AS node_external_id,
		       COUNT(t.id) AS total_tasks,
		       COUNT(c.id) AS completed_tasks
		FROM nodes n
		LEFT JOIN tasks t ON t.node_id = n.id
		LEFT JOIN completions c ON c.task_id = t.id AND c.player_id = ?
		WHERE n.team_id = ?
		GROUP BY n.external_id
	`, playerID, teamID).Scan(&counts).Error
	return counts, err
}
