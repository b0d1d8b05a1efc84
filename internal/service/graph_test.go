package service

import (
	"testing"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func storedNode(teamID uuid.UUID, externalID, label string, x, y float64) models.Node {
	return models.Node{
		BaseModel:  models.BaseModel{ID: uuid.New()},
		TeamID:     teamID,
		ExternalID: externalID,
		Label:      label,
		X:          x,
		Y:          y,
	}
}

func TestDiffNodes_EmptyIncomingDeletesEverything(t *testing.T) {
	teamID := uuid.New()
	stored := []models.Node{
		storedNode(teamID, "a", "A", 0, 0),
		storedNode(teamID, "b", "B", 1, 1),
	}

	diff := diffNodes(stored, nil)

	assert.ElementsMatch(t, []string{"a", "b"}, diff.Deleted)
	assert.Empty(t, diff.Updated)
	assert.Empty(t, diff.Inserted)
}

func TestDiffNodes_PartitionsInsertUpdateDelete(t *testing.T) {
	teamID := uuid.New()
	stored := []models.Node{
		storedNode(teamID, "keep", "Old Label", 0, 0),
		storedNode(teamID, "drop", "Dropped", 5, 5),
	}
	incoming := []GraphNodeInput{
		{NodeID: "keep", Label: "New Label", X: f64(3), Y: f64(4)},
		{NodeID: "new", Label: "Brand New", X: f64(7), Y: f64(8)},
	}

	diff := diffNodes(stored, incoming)

	assert.Equal(t, []string{"drop"}, diff.Deleted)

	require.Len(t, diff.Updated, 1)
	assert.Equal(t, "keep", diff.Updated[0].ExternalID)
	assert.Equal(t, "New Label", diff.Updated[0].Label)
	assert.Equal(t, 3.0, diff.Updated[0].X)
	assert.Equal(t, 4.0, diff.Updated[0].Y)
	// Updated rows keep their stored primary key so task attachments survive
	assert.Equal(t, stored[0].ID, diff.Updated[0].ID)

	require.Len(t, diff.Inserted, 1)
	assert.Equal(t, "new", diff.Inserted[0].ExternalID)
	assert.Equal(t, uuid.Nil, diff.Inserted[0].ID)
}

func TestDiffNodes_UnchangedGraphIsAllUpdates(t *testing.T) {
	teamID := uuid.New()
	stored := []models.Node{
		storedNode(teamID, "a", "A", 1, 2),
		storedNode(teamID, "b", "B", 3, 4),
	}
	incoming := []GraphNodeInput{
		{NodeID: "a", Label: "A", X: f64(1), Y: f64(2)},
		{NodeID: "b", Label: "B", X: f64(3), Y: f64(4)},
	}

	diff := diffNodes(stored, incoming)

	assert.Empty(t, diff.Deleted)
	assert.Empty(t, diff.Inserted)
	assert.Len(t, diff.Updated, 2)
}

func TestValidateBatch_RejectsDuplicateNodeIDs(t *testing.T) {
	s := NewGraphService(nil, validator.New())

	err := s.validateBatch(&ReplaceGraphRequest{
		Nodes: []GraphNodeInput{
			{NodeID: "dup", Label: "First", X: f64(0), Y: f64(0)},
			{NodeID: "dup", Label: "Second", X: f64(1), Y: f64(1)},
		},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateBatch_RejectsEdgeWithUnknownEndpoint(t *testing.T) {
	s := NewGraphService(nil, validator.New())

	err := s.validateBatch(&ReplaceGraphRequest{
		Nodes: []GraphNodeInput{
			{NodeID: "a", Label: "A", X: f64(0), Y: f64(0)},
		},
		Edges: []GraphEdgeInput{
			{EdgeID: "e1", Source: "a", Target: "ghost"},
		},
	})

	assert.ErrorIs(t, err, apperrors.ErrEdgeEndpointMissing)
}

func TestValidateBatch_RejectsMissingCoordinates(t *testing.T) {
	s := NewGraphService(nil, validator.New())

	err := s.validateBatch(&ReplaceGraphRequest{
		Nodes: []GraphNodeInput{
			{NodeID: "a", Label: "A", X: f64(0)}, // Y missing
		},
	})

	require.Error(t, err)
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestValidateBatch_AcceptsWellFormedGraph(t *testing.T) {
	s := NewGraphService(nil, validator.New())

	err := s.validateBatch(&ReplaceGraphRequest{
		Nodes: []GraphNodeInput{
			{NodeID: "a", Label: "A", X: f64(0), Y: f64(0)},
			{NodeID: "b", Label: "B", X: f64(1), Y: f64(1)},
		},
		Edges: []GraphEdgeInput{
			{EdgeID: "e1", Source: "a", Target: "b"},
		},
	})

	assert.NoError(t, err)
}
