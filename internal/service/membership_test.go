//go:build integration
// +build integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taikikob/teamup-sub000/internal/accesscode"
	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/mocks"
	"github.com/taikikob/teamup-sub000/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// MembershipServiceTestSuite tests team creation, joining, leaving and the
// cascade deletion coordinator against a real database, with the media
// collaborators mocked
type MembershipServiceTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	factories     *testutils.FactorySet

	ctrl       *gomock.Controller
	mediaStore *mocks.MockStore
	mediaCache *mocks.MockCacheInvalidator
	service    *MembershipService
}

// SetupSuite runs before all tests in the suite
func (suite *MembershipServiceTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *MembershipServiceTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test and wires a fresh service around fresh
// mocks
func (suite *MembershipServiceTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	suite.ctrl = gomock.NewController(suite.T())
	suite.mediaStore = mocks.NewMockStore(suite.ctrl)
	suite.mediaCache = mocks.NewMockCacheInvalidator(suite.ctrl)
	suite.service = suite.newService(accesscode.Generate)
}

// TearDownTest runs after each test
func (suite *MembershipServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
	suite.baseTestSuite.TearDownTest()
}

// newService builds a MembershipService with the given code generator
func (suite *MembershipServiceTestSuite) newService(generate func() string) *MembershipService {
	db := suite.baseTestSuite.DB
	return NewMembershipService(
		db,
		validator.New(),
		NewNotificationService(db),
		suite.mediaStore,
		suite.mediaCache,
		720*time.Hour,
		generate,
	)
}

// seedUser inserts one user row
func (suite *MembershipServiceTestSuite) seedUser() *models.User {
	user := suite.factories.User.Create()
	suite.NoError(suite.baseTestSuite.DB.Create(user).Error)
	return user
}

// seedCoachedTeam inserts a team with one coach and one player
func (suite *MembershipServiceTestSuite) seedCoachedTeam() (*models.Team, *models.User, *models.User) {
	db := suite.baseTestSuite.DB
	team, coach, player, memberships := suite.factories.CreateCoachedTeam()
	suite.NoError(db.Create(coach).Error)
	suite.NoError(db.Create(player).Error)
	suite.NoError(db.Create(team).Error)
	for _, m := range memberships {
		suite.NoError(db.Create(m).Error)
	}
	return team, coach, player
}

// TestCreateTeamMintsCodes tests that a new team arrives with a coach
// membership and one code per role
func (suite *MembershipServiceTestSuite) TestCreateTeamMintsCodes() {
	creator := suite.seedUser()

	resp, err := suite.service.CreateTeam(creator.ID, &CreateTeamRequest{Name: "Falcons U14"})
	suite.NoError(err)
	suite.Equal("Falcons U14", resp.Name)
	suite.Len(resp.AccessCodes, 2)

	roles := map[models.Role]bool{}
	for _, c := range resp.AccessCodes {
		roles[c.Role] = true
		suite.NotEmpty(c.Code)
		suite.True(c.ExpiresAt.After(time.Now()))
	}
	suite.True(roles[models.RoleCoach])
	suite.True(roles[models.RolePlayer])

	var membership models.Membership
	suite.NoError(suite.baseTestSuite.DB.First(&membership, "team_id = ? AND user_id = ?", resp.ID, creator.ID).Error)
	suite.Equal(models.RoleCoach, membership.Role)
}

// TestCreateTeamUnknownCreator tests creating a team as a missing user
func (suite *MembershipServiceTestSuite) TestCreateTeamUnknownCreator() {
	_, err := suite.service.CreateTeam(uuid.New(), &CreateTeamRequest{Name: "Ghost Team"})
	suite.ErrorIs(err, apperrors.ErrUserNotFound)

	var teams int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Team{}).Count(&teams).Error)
	suite.Equal(int64(0), teams)
}

// TestMintCodesRetriesOnCollision tests that a code collision is retried
// with a new candidate instead of failing the transaction
func (suite *MembershipServiceTestSuite) TestMintCodesRetriesOnCollision() {
	db := suite.baseTestSuite.DB

	other := suite.factories.Team.Create()
	suite.NoError(db.Create(other).Error)
	suite.NoError(db.Create(suite.factories.AccessCode.Create(other.ID, models.RolePlayer, "TAKEN-001")).Error)

	sequence := []string{"TAKEN-001", "FRESH-001", "FRESH-002"}
	i := 0
	service := suite.newService(func() string {
		code := sequence[i]
		i++
		return code
	})

	creator := suite.seedUser()
	resp, err := service.CreateTeam(creator.ID, &CreateTeamRequest{Name: "Collision Team"})
	suite.NoError(err)
	suite.Len(resp.AccessCodes, 2)
	suite.Equal("FRESH-001", resp.AccessCodes[0].Code)
	suite.Equal("FRESH-002", resp.AccessCodes[1].Code)
}

// TestMintCodesExhaustsRetries tests the bounded retry loop
func (suite *MembershipServiceTestSuite) TestMintCodesExhaustsRetries() {
	db := suite.baseTestSuite.DB

	other := suite.factories.Team.Create()
	suite.NoError(db.Create(other).Error)
	suite.NoError(db.Create(suite.factories.AccessCode.Create(other.ID, models.RolePlayer, "STUCK-001")).Error)

	service := suite.newService(func() string { return "STUCK-001" })

	creator := suite.seedUser()
	_, err := service.CreateTeam(creator.ID, &CreateTeamRequest{Name: "Unlucky Team"})
	suite.ErrorIs(err, apperrors.ErrAccessCodeExhausted)

	// The whole creation rolled back with the minting
	var teams int64
	suite.NoError(db.Model(&models.Team{}).Where("name = ?", "Unlucky Team").Count(&teams).Error)
	suite.Equal(int64(0), teams)
}

// TestJoinByCode tests redeeming a code for each role
func (suite *MembershipServiceTestSuite) TestJoinByCode() {
	team, _, _ := suite.seedCoachedTeam()
	suite.NoError(suite.baseTestSuite.DB.Create(suite.factories.AccessCode.Create(team.ID, models.RolePlayer, "PLYR-0001")).Error)

	joiner := suite.seedUser()
	resp, err := suite.service.JoinByCode(joiner.ID, "PLYR-0001")
	suite.NoError(err)
	suite.Equal(team.ID, resp.TeamID)
	suite.Equal(team.Name, resp.TeamName)
	suite.Equal(models.RolePlayer, resp.Role)

	// The code is reusable; a second user can redeem it
	second := suite.seedUser()
	_, err = suite.service.JoinByCode(second.ID, "PLYR-0001")
	suite.NoError(err)
}

// TestJoinByCodeExpired tests redeeming a stale code
func (suite *MembershipServiceTestSuite) TestJoinByCodeExpired() {
	team, _, _ := suite.seedCoachedTeam()
	suite.NoError(suite.baseTestSuite.DB.Create(suite.factories.AccessCode.Expired(team.ID, models.RolePlayer, "OLDC-0001")).Error)

	joiner := suite.seedUser()
	_, err := suite.service.JoinByCode(joiner.ID, "OLDC-0001")
	suite.ErrorIs(err, apperrors.ErrAccessCodeExpired)
}

// TestJoinByCodeUnknown tests redeeming a code that does not exist
func (suite *MembershipServiceTestSuite) TestJoinByCodeUnknown() {
	joiner := suite.seedUser()
	_, err := suite.service.JoinByCode(joiner.ID, "NOPE-0000")
	suite.ErrorIs(err, apperrors.ErrAccessCodeNotFound)
}

// TestJoinByCodeTwice tests that joining the same team twice conflicts even
// across roles
func (suite *MembershipServiceTestSuite) TestJoinByCodeTwice() {
	team, _, _ := suite.seedCoachedTeam()
	db := suite.baseTestSuite.DB
	suite.NoError(db.Create(suite.factories.AccessCode.Create(team.ID, models.RolePlayer, "PLYR-0001")).Error)
	suite.NoError(db.Create(suite.factories.AccessCode.Create(team.ID, models.RoleCoach, "COCH-0001")).Error)

	joiner := suite.seedUser()
	_, err := suite.service.JoinByCode(joiner.ID, "PLYR-0001")
	suite.NoError(err)

	_, err = suite.service.JoinByCode(joiner.ID, "COCH-0001")
	suite.ErrorIs(err, apperrors.ErrAlreadyMember)
}

// TestRotateCodes tests that rotation invalidates the old pair
func (suite *MembershipServiceTestSuite) TestRotateCodes() {
	team, _, _ := suite.seedCoachedTeam()
	suite.NoError(suite.baseTestSuite.DB.Create(suite.factories.AccessCode.Create(team.ID, models.RolePlayer, "PLYR-0001")).Error)

	codes, err := suite.service.RotateCodes(team.ID)
	suite.NoError(err)
	suite.Len(codes, 2)

	joiner := suite.seedUser()
	_, err = suite.service.JoinByCode(joiner.ID, "PLYR-0001")
	suite.ErrorIs(err, apperrors.ErrAccessCodeNotFound)
}

// TestDeleteTeamCleansUpMediaAndNotifies tests the cascade deletion
// coordinator end to end: members notified, media handed to the
// collaborators, rows gone
func (suite *MembershipServiceTestSuite) TestDeleteTeamCleansUpMediaAndNotifies() {
	db := suite.baseTestSuite.DB

	team, coach, player, memberships := suite.factories.CreateCoachedTeam()
	team.CoverImageKey = "covers/falcons.png"
	suite.NoError(db.Create(coach).Error)
	suite.NoError(db.Create(player).Error)
	suite.NoError(db.Create(team).Error)
	for _, m := range memberships {
		suite.NoError(db.Create(m).Error)
	}

	node := suite.factories.Node.Create(team.ID, "n1")
	suite.NoError(db.Create(node).Error)
	task := suite.factories.Task.Create(team.ID, node.ID, 0)
	suite.NoError(db.Create(task).Error)
	suite.NoError(db.Create(&models.TaskMedia{TaskID: task.ID, Key: "media/clip.mp4"}).Error)

	// One store call fails; the teardown must shrug and keep going
	suite.mediaStore.EXPECT().DeleteObject(gomock.Any(), "media/clip.mp4").Return(errors.New("store unavailable"))
	suite.mediaStore.EXPECT().DeleteObject(gomock.Any(), "covers/falcons.png").Return(nil)
	suite.mediaCache.EXPECT().Invalidate(gomock.Any(), "media/clip.mp4").Return(nil)
	suite.mediaCache.EXPECT().Invalidate(gomock.Any(), "covers/falcons.png").Return(nil)

	suite.NoError(suite.service.DeleteTeam(context.Background(), team.ID, coach.ID))

	var teams int64
	suite.NoError(db.Model(&models.Team{}).Count(&teams).Error)
	suite.Equal(int64(0), teams)

	// Every member got the deletion notice with the team reference nulled by
	// the cascade
	for _, recipient := range []uuid.UUID{coach.ID, player.ID} {
		var rows []models.Notification
		suite.NoError(db.Where("recipient_id = ?", recipient).Find(&rows).Error)
		suite.Len(rows, 1)
		suite.Equal(models.NotificationTypeTeamDeleted, rows[0].Type)
		suite.Contains(rows[0].Content, team.Name)
		suite.Nil(rows[0].TeamID)
	}
}

// TestDeleteTeamUnknown tests deleting a missing team
func (suite *MembershipServiceTestSuite) TestDeleteTeamUnknown() {
	coach := suite.seedUser()
	err := suite.service.DeleteTeam(context.Background(), uuid.New(), coach.ID)
	suite.ErrorIs(err, apperrors.ErrTeamNotFound)
}

// TestLeaveTeamAsPlayer tests that a leaving player takes their rows along
func (suite *MembershipServiceTestSuite) TestLeaveTeamAsPlayer() {
	db := suite.baseTestSuite.DB
	team, _, player := suite.seedCoachedTeam()

	node := suite.factories.Node.Create(team.ID, "n1")
	suite.NoError(db.Create(node).Error)
	task := suite.factories.Task.Create(team.ID, node.ID, 0)
	suite.NoError(db.Create(task).Error)
	suite.NoError(db.Create(&models.Submission{TaskID: task.ID, PlayerID: player.ID}).Error)
	suite.NoError(db.Create(&models.Post{TeamID: team.ID, AuthorID: player.ID, Content: "see you all at practice"}).Error)

	result, err := suite.service.LeaveTeam(context.Background(), team.ID, player.ID)
	suite.NoError(err)
	suite.False(result.TeamDeleted)

	var memberships, submissions, posts int64
	suite.NoError(db.Model(&models.Membership{}).Where("user_id = ?", player.ID).Count(&memberships).Error)
	suite.NoError(db.Model(&models.Submission{}).Where("player_id = ?", player.ID).Count(&submissions).Error)
	suite.NoError(db.Model(&models.Post{}).Where("author_id = ?", player.ID).Count(&posts).Error)
	suite.Equal(int64(0), memberships)
	suite.Equal(int64(0), submissions)
	suite.Equal(int64(0), posts)

	// The team itself survives
	var teams int64
	suite.NoError(db.Model(&models.Team{}).Count(&teams).Error)
	suite.Equal(int64(1), teams)
}

// TestLeaveTeamAsCoachWithPeers tests that a coach with peers leaves only
// their membership behind
func (suite *MembershipServiceTestSuite) TestLeaveTeamAsCoachWithPeers() {
	db := suite.baseTestSuite.DB
	team, coach, _ := suite.seedCoachedTeam()

	second := suite.seedUser()
	suite.NoError(db.Create(suite.factories.Membership.Coach(team.ID, second.ID)).Error)

	result, err := suite.service.LeaveTeam(context.Background(), team.ID, coach.ID)
	suite.NoError(err)
	suite.False(result.TeamDeleted)

	var teams int64
	suite.NoError(db.Model(&models.Team{}).Count(&teams).Error)
	suite.Equal(int64(1), teams)
}

// TestLeaveTeamAsLastCoach tests that the last coach leaving deletes the
// whole team through the same coordinator as an explicit delete
func (suite *MembershipServiceTestSuite) TestLeaveTeamAsLastCoach() {
	db := suite.baseTestSuite.DB
	team, coach, player := suite.seedCoachedTeam()

	result, err := suite.service.LeaveTeam(context.Background(), team.ID, coach.ID)
	suite.NoError(err)
	suite.True(result.TeamDeleted)

	var teams int64
	suite.NoError(db.Model(&models.Team{}).Count(&teams).Error)
	suite.Equal(int64(0), teams)

	var rows []models.Notification
	suite.NoError(db.Where("recipient_id = ?", player.ID).Find(&rows).Error)
	suite.Len(rows, 1)
	suite.Equal(models.NotificationTypeTeamDeleted, rows[0].Type)
}

// TestLeaveTeamNotAMember tests leaving a team the caller never joined
func (suite *MembershipServiceTestSuite) TestLeaveTeamNotAMember() {
	team, _, _ := suite.seedCoachedTeam()
	stranger := suite.seedUser()

	_, err := suite.service.LeaveTeam(context.Background(), team.ID, stranger.ID)
	suite.ErrorIs(err, apperrors.ErrMembershipNotFound)
}

// TestRemovePlayer tests ejecting a player and the single notification they
// receive
func (suite *MembershipServiceTestSuite) TestRemovePlayer() {
	db := suite.baseTestSuite.DB
	team, coach, player := suite.seedCoachedTeam()

	suite.NoError(suite.service.RemovePlayer(team.ID, player.ID, coach.ID))

	var memberships int64
	suite.NoError(db.Model(&models.Membership{}).Where("user_id = ?", player.ID).Count(&memberships).Error)
	suite.Equal(int64(0), memberships)

	var rows []models.Notification
	suite.NoError(db.Where("recipient_id = ?", player.ID).Find(&rows).Error)
	suite.Len(rows, 1)
	suite.Equal(models.NotificationTypeRemoved, rows[0].Type)
	suite.Contains(rows[0].Content, team.Name)
}

// TestRemovePlayerRejectsCoach tests that coaches cannot be removed
func (suite *MembershipServiceTestSuite) TestRemovePlayerRejectsCoach() {
	team, coach, _ := suite.seedCoachedTeam()

	second := suite.seedUser()
	suite.NoError(suite.baseTestSuite.DB.Create(suite.factories.Membership.Coach(team.ID, second.ID)).Error)

	err := suite.service.RemovePlayer(team.ID, second.ID, coach.ID)
	suite.ErrorIs(err, apperrors.ErrCoachCannotBeRemoved)
}

// TestRemovePlayerUnknown tests removing someone who is not on the team
func (suite *MembershipServiceTestSuite) TestRemovePlayerUnknown() {
	team, coach, _ := suite.seedCoachedTeam()

	err := suite.service.RemovePlayer(team.ID, uuid.New(), coach.ID)
	suite.ErrorIs(err, apperrors.ErrPlayerNotFound)
}

// TestMembershipServiceTestSuite runs the test suite
func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
