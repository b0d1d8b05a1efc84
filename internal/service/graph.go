package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraphService owns the per-team training graph and its
// reconciliation-on-save. Saves ship the whole graph; node identity is the
// client-chosen external ID.
type GraphService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewGraphService creates a new graph service
func NewGraphService(db *gorm.DB, validator *validator.Validate) *GraphService {
	return &GraphService{db: db, validator: validator}
}

// GraphNodeInput is one incoming node of a whole-graph save. Position fields
// are pointers so that a missing coordinate fails validation instead of
// silently becoming zero.
type GraphNodeInput struct {
	NodeID string   `json:"node_id" validate:"required,max=100"`
	Label  string   `json:"label" validate:"required,max=200"`
	X      *float64 `json:"x" validate:"required"`
	Y      *float64 `json:"y" validate:"required"`
}

// GraphEdgeInput is one incoming edge of a whole-graph save
type GraphEdgeInput struct {
	EdgeID string `json:"edge_id" validate:"required,max=100"`
	Source string `json:"source" validate:"required,max=100"`
	Target string `json:"target" validate:"required,max=100"`
}

// ReplaceGraphRequest carries a complete replacement graph for one team
type ReplaceGraphRequest struct {
	Nodes []GraphNodeInput `json:"nodes" validate:"dive"`
	Edges []GraphEdgeInput `json:"edges" validate:"dive"`
}

// NodeResponse is one node of a graph read. Task counts are present only for
// player viewers.
type NodeResponse struct {
	NodeID         string  `json:"node_id"`
	Label          string  `json:"label"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	TotalTasks     *int64  `json:"total_tasks,omitempty"`
	CompletedTasks *int64  `json:"completed_tasks,omitempty"`
}

// EdgeResponse is one edge of a graph read
type EdgeResponse struct {
	EdgeID string `json:"edge_id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphResponse is a whole-graph read
type GraphResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	Edges []EdgeResponse `json:"edges"`
}

// ReplaceGraph reconciles the stored graph with the incoming one: stored
// nodes absent from the incoming set are deleted (cascading their tasks and
// dependents), nodes present in both are updated in place, new nodes are
// inserted, and the edge set is replaced wholesale. The whole reconciliation
// is one transaction; a partial graph is never observable.
func (s *GraphService) ReplaceGraph(teamID uuid.UUID, req *ReplaceGraphRequest) error {
	// Reject the whole batch before any write
	if err := s.validateBatch(req); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := repository.NewTeamRepository(tx).CheckTeamExists(teamID)
		if err != nil {
			return fmt.Errorf("failed to verify team: %w", err)
		}
		if !exists {
			return apperrors.ErrTeamNotFound
		}

		graphRepo := repository.NewGraphRepository(tx)
		stored, err := graphRepo.GetNodesByTeamID(teamID)
		if err != nil {
			return fmt.Errorf("failed to load stored nodes: %w", err)
		}

		diff := diffNodes(stored, req.Nodes)

		if err := graphRepo.DeleteNodesByExternalIDs(teamID, diff.Deleted); err != nil {
			return fmt.Errorf("failed to delete stale nodes: %w", err)
		}
		for i := range diff.Updated {
			if err := graphRepo.UpdateNode(&diff.Updated[i]); err != nil {
				return fmt.Errorf("failed to update node %s: %w", diff.Updated[i].ExternalID, err)
			}
		}
		for i := range diff.Inserted {
			diff.Inserted[i].TeamID = teamID
			if err := graphRepo.CreateNode(&diff.Inserted[i]); err != nil {
				return fmt.Errorf("failed to insert node %s: %w", diff.Inserted[i].ExternalID, err)
			}
		}

		edges := make([]models.Edge, len(req.Edges))
		for i, e := range req.Edges {
			edges[i] = models.Edge{
				TeamID:           teamID,
				ExternalID:       e.EdgeID,
				SourceExternalID: e.Source,
				TargetExternalID: e.Target,
			}
		}
		if err := graphRepo.ReplaceEdges(teamID, edges); err != nil {
			return fmt.Errorf("failed to replace edges: %w", err)
		}

		return nil
	})
}

// validateBatch rejects a malformed save before the diff transaction opens
func (s *GraphService) validateBatch(req *ReplaceGraphRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	nodeIDs := make(map[string]bool, len(req.Nodes))
	for _, n := range req.Nodes {
		if nodeIDs[n.NodeID] {
			return apperrors.NewValidationError("node_id", fmt.Sprintf("duplicate node id %q in batch", n.NodeID))
		}
		nodeIDs[n.NodeID] = true
	}

	edgeIDs := make(map[string]bool, len(req.Edges))
	for _, e := range req.Edges {
		if edgeIDs[e.EdgeID] {
			return apperrors.NewValidationError("edge_id", fmt.Sprintf("duplicate edge id %q in batch", e.EdgeID))
		}
		edgeIDs[e.EdgeID] = true
		if !nodeIDs[e.Source] || !nodeIDs[e.Target] {
			return apperrors.ErrEdgeEndpointMissing
		}
	}

	return nil
}

// nodeDiff partitions a whole-graph save against storage
type nodeDiff struct {
	Deleted  []string      // stored external IDs absent from the incoming set
	Updated  []models.Node // stored rows with incoming label/position applied
	Inserted []models.Node // incoming nodes with no stored counterpart
}

// diffNodes computes the reconciliation plan. Pure; storage order does not
// matter and incoming order is preserved for inserts.
func diffNodes(stored []models.Node, incoming []GraphNodeInput) nodeDiff {
	byExternalID := make(map[string]models.Node, len(stored))
	for _, n := range stored {
		byExternalID[n.ExternalID] = n
	}

	var diff nodeDiff
	seen := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		seen[in.NodeID] = true
		if existing, ok := byExternalID[in.NodeID]; ok {
			existing.Label = in.Label
			existing.X = *in.X
			existing.Y = *in.Y
			diff.Updated = append(diff.Updated, existing)
		} else {
			diff.Inserted = append(diff.Inserted, models.Node{
				ExternalID: in.NodeID,
				Label:      in.Label,
				X:          *in.X,
				Y:          *in.Y,
			})
		}
	}
	for _, n := range stored {
		if !seen[n.ExternalID] {
			diff.Deleted = append(diff.Deleted, n.ExternalID)
		}
	}

	return diff
}

// ReadGraph returns a team's nodes and edges. For player viewers every node
// additionally carries completed/total task counts scoped to that player,
// aggregated at read time from completion rows. Nodes, edges and counts are
// read from one repeatable-read snapshot; under read committed each statement
// snapshots separately and a concurrent save could pair new nodes with stale
// edges.
func (s *GraphService) ReadGraph(teamID uuid.UUID, viewerID uuid.UUID, viewerRole models.Role) (*GraphResponse, error) {
	var (
		nodes        []models.Node
		edges        []models.Edge
		countsByNode map[string]repository.NodeTaskCounts
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := repository.NewTeamRepository(tx).CheckTeamExists(teamID)
		if err != nil {
			return fmt.Errorf("failed to verify team: %w", err)
		}
		if !exists {
			return apperrors.ErrTeamNotFound
		}

		graphRepo := repository.NewGraphRepository(tx)
		if nodes, err = graphRepo.GetNodesByTeamID(teamID); err != nil {
			return fmt.Errorf("failed to load nodes: %w", err)
		}
		if edges, err = graphRepo.GetEdgesByTeamID(teamID); err != nil {
			return fmt.Errorf("failed to load edges: %w", err)
		}

		if viewerRole == models.RolePlayer {
			counts, err := graphRepo.TaskCountsForPlayer(teamID, viewerID)
			if err != nil {
				return fmt.Errorf("failed to aggregate task counts: %w", err)
			}
			countsByNode = make(map[string]repository.NodeTaskCounts, len(counts))
			for _, c := range counts {
				countsByNode[c.NodeExternalID] = c
			}
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}

	resp := &GraphResponse{
		Nodes: make([]NodeResponse, len(nodes)),
		Edges: make([]EdgeResponse, len(edges)),
	}
	for i, n := range nodes {
		nr := NodeResponse{NodeID: n.ExternalID, Label: n.Label, X: n.X, Y: n.Y}
		if countsByNode != nil {
			if c, ok := countsByNode[n.ExternalID]; ok {
				total, completed := c.TotalTasks, c.CompletedTasks
				nr.TotalTasks = &total
				nr.CompletedTasks = &completed
			}
		}
		resp.Nodes[i] = nr
	}
	for i, e := range edges {
		resp.Edges[i] = EdgeResponse{EdgeID: e.ExternalID, Source: e.SourceExternalID, Target: e.TargetExternalID}
	}

	return resp, nil
}

// GetNode resolves a node by its team-scoped external ID
func (s *GraphService) GetNode(teamID uuid.UUID, nodeExternalID string) (*models.Node, error) {
	node, err := repository.NewGraphRepository(s.db).GetNodeByExternalID(teamID, nodeExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	return node, nil
}
