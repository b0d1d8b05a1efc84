//go:build integration
// +build integration

package repository

import (
	"testing"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	"github.com/taikikob/teamup-sub000/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// TeamRepositoryTestSuite tests the TeamRepository
type TeamRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *TeamRepository
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *TeamRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewTeamRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *TeamRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *TeamRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *TeamRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// TestCreateAndGetByID tests the round trip of a team row
func (suite *TeamRepositoryTestSuite) TestCreateAndGetByID() {
	team := suite.factories.Team.WithName("Falcons U14")
	suite.NoError(suite.repo.Create(team))

	stored, err := suite.repo.GetByID(team.ID)
	suite.NoError(err)
	suite.Equal(team.ID, stored.ID)
	suite.Equal("Falcons U14", stored.Name)
}

// TestGetByIDNotFound tests retrieving a non-existent team
func (suite *TeamRepositoryTestSuite) TestGetByIDNotFound() {
	team, err := suite.repo.GetByID(uuid.New())
	suite.Error(err)
	suite.Equal(gorm.ErrRecordNotFound, err)
	suite.Nil(team)
}

// TestGetWithMemberships tests preloading memberships and their users
func (suite *TeamRepositoryTestSuite) TestGetWithMemberships() {
	db := suite.baseTestSuite.DB

	team, coach, player, memberships := suite.factories.CreateCoachedTeam()
	suite.NoError(db.Create(coach).Error)
	suite.NoError(db.Create(player).Error)
	suite.NoError(db.Create(team).Error)
	for _, m := range memberships {
		suite.NoError(db.Create(m).Error)
	}

	stored, err := suite.repo.GetWithMemberships(team.ID)
	suite.NoError(err)
	suite.Len(stored.Memberships, 2)

	byUser := make(map[uuid.UUID]models.Membership, 2)
	for _, m := range stored.Memberships {
		byUser[m.UserID] = m
	}
	suite.Equal(models.RoleCoach, byUser[coach.ID].Role)
	suite.Equal(coach.FullName, byUser[coach.ID].User.FullName)
	suite.Equal(models.RolePlayer, byUser[player.ID].Role)
}

// TestUpdate tests persisting field changes
func (suite *TeamRepositoryTestSuite) TestUpdate() {
	team := suite.factories.Team.Create()
	suite.NoError(suite.repo.Create(team))

	team.Description = "Winter season squad"
	team.CoverImageKey = "covers/falcons.png"
	suite.NoError(suite.repo.Update(team))

	stored, err := suite.repo.GetByID(team.ID)
	suite.NoError(err)
	suite.Equal("Winter season squad", stored.Description)
	suite.Equal("covers/falcons.png", stored.CoverImageKey)
}

// TestDeleteCascades tests that deleting a team removes every dependent row
// while notifications survive with their team reference nulled
func (suite *TeamRepositoryTestSuite) TestDeleteCascades() {
	db := suite.baseTestSuite.DB

	team, coach, player, memberships := suite.factories.CreateCoachedTeam()
	suite.NoError(db.Create(coach).Error)
	suite.NoError(db.Create(player).Error)
	suite.NoError(db.Create(team).Error)
	for _, m := range memberships {
		suite.NoError(db.Create(m).Error)
	}

	node := suite.factories.Node.Create(team.ID, "n1")
	suite.NoError(db.Create(node).Error)
	suite.NoError(db.Create(&models.Edge{TeamID: team.ID, ExternalID: "e1", SourceExternalID: "n1", TargetExternalID: "n1"}).Error)

	task := suite.factories.Task.Create(team.ID, node.ID, 0)
	suite.NoError(db.Create(task).Error)
	suite.NoError(db.Create(&models.TaskMedia{TaskID: task.ID, Key: "media/clip.mp4"}).Error)
	suite.NoError(db.Create(&models.Submission{TaskID: task.ID, PlayerID: player.ID}).Error)
	suite.NoError(db.Create(&models.Completion{TaskID: task.ID, PlayerID: player.ID}).Error)
	suite.NoError(db.Create(&models.Comment{TaskID: task.ID, PlayerID: player.ID, SenderID: coach.ID, Content: "nice work"}).Error)
	suite.NoError(db.Create(suite.factories.AccessCode.Create(team.ID, models.RolePlayer, "PLYR-1234")).Error)
	suite.NoError(db.Create(&models.Post{TeamID: team.ID, AuthorID: coach.ID, Content: "practice moved to 6pm"}).Error)

	notification := &models.Notification{
		RecipientID: player.ID,
		SenderID:    coach.ID,
		Type:        models.NotificationTypeTeamDeleted,
		Content:     "Team was deleted",
		TeamID:      &team.ID,
	}
	suite.NoError(db.Create(notification).Error)

	suite.NoError(suite.repo.Delete(team.ID))

	for table, model := range map[string]interface{}{
		"memberships":  &models.Membership{},
		"nodes":        &models.Node{},
		"edges":        &models.Edge{},
		"tasks":        &models.Task{},
		"task_media":   &models.TaskMedia{},
		"submissions":  &models.Submission{},
		"completions":  &models.Completion{},
		"comments":     &models.Comment{},
		"access_codes": &models.AccessCode{},
		"posts":        &models.Post{},
	} {
		var count int64
		suite.NoError(db.Model(model).Count(&count).Error)
		suite.Equal(int64(0), count, "expected no rows left in %s", table)
	}

	var stored models.Notification
	suite.NoError(db.First(&stored, "id = ?", notification.ID).Error)
	suite.Nil(stored.TeamID)
	suite.Equal("Team was deleted", stored.Content)
}

// TestCheckTeamExists tests the existence probe
func (suite *TeamRepositoryTestSuite) TestCheckTeamExists() {
	team := suite.factories.Team.Create()
	suite.NoError(suite.repo.Create(team))

	exists, err := suite.repo.CheckTeamExists(team.ID)
	suite.NoError(err)
	suite.True(exists)

	exists, err = suite.repo.CheckTeamExists(uuid.New())
	suite.NoError(err)
	suite.False(exists)
}

// TestTeamRepositoryTestSuite runs the test suite
func TestTeamRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TeamRepositoryTestSuite))
}
