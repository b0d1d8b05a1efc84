//go:build integration
// +build integration

package repository

import (
	"errors"
	"testing"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	"github.com/taikikob/teamup-sub000/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// GraphRepositoryTestSuite tests the GraphRepository
type GraphRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *GraphRepository
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *GraphRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewGraphRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *GraphRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *GraphRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *GraphRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// seedTeam inserts a bare team row
func (suite *GraphRepositoryTestSuite) seedTeam() *models.Team {
	team := suite.factories.Team.Create()
	suite.NoError(suite.baseTestSuite.DB.Create(team).Error)
	return team
}

// TestCreateNodeDuplicateExternalID tests that the same external ID cannot be
// inserted twice within one team
func (suite *GraphRepositoryTestSuite) TestCreateNodeDuplicateExternalID() {
	team := suite.seedTeam()

	suite.NoError(suite.repo.CreateNode(suite.factories.Node.Create(team.ID, "n1")))

	err := suite.repo.CreateNode(suite.factories.Node.Create(team.ID, "n1"))
	suite.Error(err)
	suite.True(errors.Is(err, gorm.ErrDuplicatedKey))
}

// TestCreateNodeSameExternalIDAcrossTeams tests that external IDs are scoped
// per team
func (suite *GraphRepositoryTestSuite) TestCreateNodeSameExternalIDAcrossTeams() {
	teamA := suite.seedTeam()
	teamB := suite.seedTeam()

	suite.NoError(suite.repo.CreateNode(suite.factories.Node.Create(teamA.ID, "n1")))
	suite.NoError(suite.repo.CreateNode(suite.factories.Node.Create(teamB.ID, "n1")))
}

// TestUpdateNode tests updating label and position in place
func (suite *GraphRepositoryTestSuite) TestUpdateNode() {
	team := suite.seedTeam()
	node := suite.factories.Node.Create(team.ID, "n1")
	suite.NoError(suite.repo.CreateNode(node))

	node.Label = "Dribbling"
	node.X = 42.5
	node.Y = -7
	suite.NoError(suite.repo.UpdateNode(node))

	stored, err := suite.repo.GetNodeByExternalID(team.ID, "n1")
	suite.NoError(err)
	suite.Equal(node.ID, stored.ID)
	suite.Equal("Dribbling", stored.Label)
	suite.Equal(42.5, stored.X)
	suite.Equal(-7.0, stored.Y)
}

// TestDeleteNodesByExternalIDsCascadesTasks tests that deleting nodes removes
// their tasks through the foreign key
func (suite *GraphRepositoryTestSuite) TestDeleteNodesByExternalIDsCascadesTasks() {
	db := suite.baseTestSuite.DB
	team := suite.seedTeam()

	keep := suite.factories.Node.Create(team.ID, "keep")
	drop := suite.factories.Node.Create(team.ID, "drop")
	suite.NoError(suite.repo.CreateNode(keep))
	suite.NoError(suite.repo.CreateNode(drop))

	suite.NoError(db.Create(suite.factories.Task.Create(team.ID, keep.ID, 0)).Error)
	suite.NoError(db.Create(suite.factories.Task.Create(team.ID, drop.ID, 0)).Error)

	suite.NoError(suite.repo.DeleteNodesByExternalIDs(team.ID, []string{"drop"}))

	nodes, err := suite.repo.GetNodesByTeamID(team.ID)
	suite.NoError(err)
	suite.Len(nodes, 1)
	suite.Equal("keep", nodes[0].ExternalID)

	var tasks int64
	suite.NoError(db.Model(&models.Task{}).Where("team_id = ?", team.ID).Count(&tasks).Error)
	suite.Equal(int64(1), tasks)
}

// TestDeleteNodesByExternalIDsEmptyList tests the no-op path
func (suite *GraphRepositoryTestSuite) TestDeleteNodesByExternalIDsEmptyList() {
	team := suite.seedTeam()
	suite.NoError(suite.repo.CreateNode(suite.factories.Node.Create(team.ID, "n1")))

	suite.NoError(suite.repo.DeleteNodesByExternalIDs(team.ID, nil))

	nodes, err := suite.repo.GetNodesByTeamID(team.ID)
	suite.NoError(err)
	suite.Len(nodes, 1)
}

// TestReplaceEdges tests that the edge set is swapped wholesale
func (suite *GraphRepositoryTestSuite) TestReplaceEdges() {
	team := suite.seedTeam()

	first := []models.Edge{
		{TeamID: team.ID, ExternalID: "e1", SourceExternalID: "a", TargetExternalID: "b"},
		{TeamID: team.ID, ExternalID: "e2", SourceExternalID: "b", TargetExternalID: "c"},
	}
	suite.NoError(suite.repo.ReplaceEdges(team.ID, first))

	second := []models.Edge{
		{TeamID: team.ID, ExternalID: "e3", SourceExternalID: "a", TargetExternalID: "c"},
	}
	suite.NoError(suite.repo.ReplaceEdges(team.ID, second))

	edges, err := suite.repo.GetEdgesByTeamID(team.ID)
	suite.NoError(err)
	suite.Len(edges, 1)
	suite.Equal("e3", edges[0].ExternalID)

	// Replacing with an empty set clears everything
	suite.NoError(suite.repo.ReplaceEdges(team.ID, nil))
	edges, err = suite.repo.GetEdgesByTeamID(team.ID)
	suite.NoError(err)
	suite.Len(edges, 0)
}

// TestTaskCountsForPlayer tests the per-node aggregate join
func (suite *GraphRepositoryTestSuite) TestTaskCountsForPlayer() {
	db := suite.baseTestSuite.DB
	team := suite.seedTeam()

	player := suite.factories.User.Create()
	other := suite.factories.User.Create()
	suite.NoError(db.Create(player).Error)
	suite.NoError(db.Create(other).Error)

	nodeA := suite.factories.Node.Create(team.ID, "a")
	nodeB := suite.factories.Node.Create(team.ID, "b")
	empty := suite.factories.Node.Create(team.ID, "empty")
	suite.NoError(suite.repo.CreateNode(nodeA))
	suite.NoError(suite.repo.CreateNode(nodeB))
	suite.NoError(suite.repo.CreateNode(empty))

	taskA1 := suite.factories.Task.Create(team.ID, nodeA.ID, 0)
	taskA2 := suite.factories.Task.Create(team.ID, nodeA.ID, 1)
	taskB1 := suite.factories.Task.Create(team.ID, nodeB.ID, 0)
	for _, task := range []*models.Task{taskA1, taskA2, taskB1} {
		suite.NoError(db.Create(task).Error)
	}

	// Player completed one of two tasks on node a; the other player's
	// completion on node b must not leak into the player's counts.
	suite.NoError(db.Create(&models.Completion{TaskID: taskA1.ID, PlayerID: player.ID}).Error)
	suite.NoError(db.Create(&models.Completion{TaskID: taskB1.ID, PlayerID: other.ID}).Error)

	counts, err := suite.repo.TaskCountsForPlayer(team.ID, player.ID)
	suite.NoError(err)
	suite.Len(counts, 3)

	byNode := make(map[string]NodeTaskCounts, len(counts))
	for _, c := range counts {
		byNode[c.NodeExternalID] = c
	}

	suite.Equal(int64(2), byNode["a"].TotalTasks)
	suite.Equal(int64(1), byNode["a"].CompletedTasks)
	suite.Equal(int64(1), byNode["b"].TotalTasks)
	suite.Equal(int64(0), byNode["b"].CompletedTasks)
	suite.Equal(int64(0), byNode["empty"].TotalTasks)
	suite.Equal(int64(0), byNode["empty"].CompletedTasks)
}

// TestGetNodeByExternalIDNotFound tests retrieving a missing node
func (suite *GraphRepositoryTestSuite) TestGetNodeByExternalIDNotFound() {
	team := suite.seedTeam()

	node, err := suite.repo.GetNodeByExternalID(team.ID, "missing")
	suite.Error(err)
	suite.Equal(gorm.ErrRecordNotFound, err)
	suite.Nil(node)
}

// TestGetNodesByTeamIDScopesToTeam tests that another team's nodes are not
// returned
func (suite *GraphRepositoryTestSuite) TestGetNodesByTeamIDScopesToTeam() {
	teamA := suite.seedTeam()
	teamB := suite.seedTeam()

	suite.NoError(suite.repo.CreateNode(suite.factories.Node.Create(teamA.ID, "n1")))
	suite.NoError(suite.repo.CreateNode(suite.factories.Node.Create(teamB.ID, "n2")))

	nodes, err := suite.repo.GetNodesByTeamID(teamA.ID)
	suite.NoError(err)
	suite.Len(nodes, 1)
	suite.Equal("n1", nodes[0].ExternalID)
	suite.NotEqual(uuid.Nil, nodes[0].ID)
}

// TestGraphRepositoryTestSuite runs the test suite
func TestGraphRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GraphRepositoryTestSuite))
}
