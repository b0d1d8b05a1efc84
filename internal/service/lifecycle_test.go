//go:build integration
// +build integration

package service

import (
	"testing"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// LifecycleServiceTestSuite tests the submit/approve/return transitions
// against a real database, including their notification fan-out
type LifecycleServiceTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	service       *LifecycleService
	factories     *testutils.FactorySet

	team   *models.Team
	coach  *models.User
	player *models.User
	task   *models.Task
}

// SetupSuite runs before all tests in the suite
func (suite *LifecycleServiceTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.service = NewLifecycleService(suite.baseTestSuite.DB, NewNotificationService(suite.baseTestSuite.DB))
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *LifecycleServiceTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test and seeds a coached team with one task
func (suite *LifecycleServiceTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

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
	task := suite.factories.Task.Create(team.ID, node.ID, 0)
	task.Title = "Wall passes"
	suite.NoError(db.Create(task).Error)

	suite.team = team
	suite.coach = coach
	suite.player = player
	suite.task = task
}

// TearDownTest runs after each test
func (suite *LifecycleServiceTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// notificationsFor returns all notification rows addressed to a user
func (suite *LifecycleServiceTestSuite) notificationsFor(recipientID uuid.UUID) []models.Notification {
	var rows []models.Notification
	suite.NoError(suite.baseTestSuite.DB.
		Where("recipient_id = ?", recipientID).
		Order("created_at ASC").
		Find(&rows).Error)
	return rows
}

// TestSubmitNotifiesCoaches tests that a submit reaches every coach and no
// player
func (suite *LifecycleServiceTestSuite) TestSubmitNotifiesCoaches() {
	db := suite.baseTestSuite.DB
	secondCoach := suite.factories.User.Create()
	suite.NoError(db.Create(secondCoach).Error)
	suite.NoError(db.Create(suite.factories.Membership.Coach(suite.team.ID, secondCoach.ID)).Error)

	resp, err := suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateSubmitted, resp.State)

	for _, coachID := range []uuid.UUID{suite.coach.ID, secondCoach.ID} {
		rows := suite.notificationsFor(coachID)
		suite.Len(rows, 1)
		suite.Equal(models.NotificationTypeSubmission, rows[0].Type)
		suite.Equal(suite.player.ID, rows[0].SenderID)
		suite.Contains(rows[0].Content, suite.player.FullName)
		suite.Contains(rows[0].Content, "Wall passes")
		suite.Equal(suite.team.ID, *rows[0].TeamID)
		suite.Equal(suite.task.ID, *rows[0].TaskID)
	}

	suite.Len(suite.notificationsFor(suite.player.ID), 0)
}

// TestSubmitTwiceConflicts tests the duplicate submission guard
func (suite *LifecycleServiceTestSuite) TestSubmitTwiceConflicts() {
	_, err := suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)

	_, err = suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.ErrorIs(err, apperrors.ErrDuplicateSubmission)

	// The failed transaction must not have fanned out a second notification
	suite.Len(suite.notificationsFor(suite.coach.ID), 1)

	var count int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Submission{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

// TestSubmitUnknownTask tests submitting against a missing task
func (suite *LifecycleServiceTestSuite) TestSubmitUnknownTask() {
	_, err := suite.service.Submit(uuid.New(), suite.player.ID)
	suite.ErrorIs(err, apperrors.ErrTaskNotFound)
}

// TestApproveWithoutSubmission tests that a coach can complete work directly
func (suite *LifecycleServiceTestSuite) TestApproveWithoutSubmission() {
	resp, err := suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateCompleted, resp.State)

	rows := suite.notificationsFor(suite.player.ID)
	suite.Len(rows, 1)
	suite.Equal(models.NotificationTypeApproval, rows[0].Type)
	suite.Equal(suite.coach.ID, rows[0].SenderID)
	suite.Contains(rows[0].Content, "approved")
}

// TestApproveTwiceConflicts tests the duplicate approval guard
func (suite *LifecycleServiceTestSuite) TestApproveTwiceConflicts() {
	_, err := suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)

	_, err = suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.ErrorIs(err, apperrors.ErrAlreadyCompleted)

	suite.Len(suite.notificationsFor(suite.player.ID), 1)
}

// TestUnapproveResetsToUnsubmitted tests the full return path: after an
// unapprove the pair looks like it never submitted
func (suite *LifecycleServiceTestSuite) TestUnapproveResetsToUnsubmitted() {
	_, err := suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	_, err = suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)

	resp, err := suite.service.Unapprove(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateUnsubmitted, resp.State)

	state, err := suite.service.State(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateUnsubmitted, state.State)

	var submissions, completions int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Submission{}).Count(&submissions).Error)
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Completion{}).Count(&completions).Error)
	suite.Equal(int64(0), submissions)
	suite.Equal(int64(0), completions)

	// Approval then return; both messages reached the player, in order
	rows := suite.notificationsFor(suite.player.ID)
	suite.Len(rows, 2)
	suite.Equal(models.NotificationTypeApproval, rows[0].Type)
	suite.Equal(models.NotificationTypeReturned, rows[1].Type)
	suite.Contains(rows[1].Content, "returned for more practice")

	// Submitting again after a return is allowed
	_, err = suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)
}

// TestUnapproveBeforeApproval tests that a coach can return work that is
// submitted but not yet approved
func (suite *LifecycleServiceTestSuite) TestUnapproveBeforeApproval() {
	_, err := suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)

	resp, err := suite.service.Unapprove(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateUnsubmitted, resp.State)

	state, err := suite.service.State(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateUnsubmitted, state.State)

	var submissions int64
	suite.NoError(suite.baseTestSuite.DB.Model(&models.Submission{}).Count(&submissions).Error)
	suite.Equal(int64(0), submissions)

	// The player hears that the work came back
	rows := suite.notificationsFor(suite.player.ID)
	suite.Len(rows, 1)
	suite.Equal(models.NotificationTypeReturned, rows[0].Type)
	suite.Equal(suite.coach.ID, rows[0].SenderID)
	suite.Contains(rows[0].Content, "returned for more practice")
}

// TestUnapproveWithNoWork tests unapproving a pair that never submitted at
// all; with neither row present there is nothing to return
func (suite *LifecycleServiceTestSuite) TestUnapproveWithNoWork() {
	_, err := suite.service.Unapprove(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.ErrorIs(err, apperrors.ErrSubmissionNotFound)

	// No notification for a transition that did not happen
	suite.Len(suite.notificationsFor(suite.player.ID), 0)
}

// TestUnsubmitWithdrawsQuietly tests that a withdrawal produces no
// notification
func (suite *LifecycleServiceTestSuite) TestUnsubmitWithdrawsQuietly() {
	_, err := suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)

	before := len(suite.notificationsFor(suite.coach.ID))

	resp, err := suite.service.Unsubmit(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateUnsubmitted, resp.State)

	suite.Len(suite.notificationsFor(suite.coach.ID), before)
	suite.Len(suite.notificationsFor(suite.player.ID), 0)
}

// TestUnsubmitAfterApproval tests that approved work cannot be withdrawn
func (suite *LifecycleServiceTestSuite) TestUnsubmitAfterApproval() {
	_, err := suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	_, err = suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)

	_, err = suite.service.Unsubmit(suite.task.ID, suite.player.ID)
	suite.ErrorIs(err, apperrors.ErrAlreadyCompleted)
}

// TestUnsubmitWithoutSubmission tests withdrawing when nothing is pending
func (suite *LifecycleServiceTestSuite) TestUnsubmitWithoutSubmission() {
	_, err := suite.service.Unsubmit(suite.task.ID, suite.player.ID)
	suite.ErrorIs(err, apperrors.ErrSubmissionNotFound)
}

// TestStateDerivation tests the read-only state probe across the cycle
func (suite *LifecycleServiceTestSuite) TestStateDerivation() {
	state, err := suite.service.State(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateUnsubmitted, state.State)

	_, err = suite.service.Submit(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	state, err = suite.service.State(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateSubmitted, state.State)

	_, err = suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
	suite.NoError(err)
	state, err = suite.service.State(suite.task.ID, suite.player.ID)
	suite.NoError(err)
	suite.Equal(models.TaskStateCompleted, state.State)
}

// TestUnapproveOutcomeByExistingRows tests the return transition from every
// combination of existing rows; anything present is deleted, only an empty
// pair has nothing to return
func (suite *LifecycleServiceTestSuite) TestUnapproveOutcomeByExistingRows() {
	tests := []struct {
		name    string
		submit  bool
		approve bool
		wantErr error
	}{
		{"no rows", false, false, apperrors.ErrSubmissionNotFound},
		{"submission only", true, false, nil},
		{"completion only", false, true, nil},
		{"both rows", true, true, nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			if tt.submit {
				_, err := suite.service.Submit(suite.task.ID, suite.player.ID)
				suite.NoError(err)
			}
			if tt.approve {
				_, err := suite.service.Approve(suite.task.ID, suite.player.ID, suite.coach.ID)
				suite.NoError(err)
			}

			_, err := suite.service.Unapprove(suite.task.ID, suite.player.ID, suite.coach.ID)
			if tt.wantErr != nil {
				suite.ErrorIs(err, tt.wantErr)
				return
			}
			suite.NoError(err)

			var submissions, completions int64
			suite.NoError(suite.baseTestSuite.DB.Model(&models.Submission{}).Count(&submissions).Error)
			suite.NoError(suite.baseTestSuite.DB.Model(&models.Completion{}).Count(&completions).Error)
			suite.Equal(int64(0), submissions)
			suite.Equal(int64(0), completions)
		})
	}
}

// TestStateIsAtomicUnderConcurrentTransitions tests that a state read never
// reports a half-applied transition. The writer toggles the pair between no
// rows and both rows in single transactions, so a read that derives
// "submitted" has torn one of them apart.
func (suite *LifecycleServiceTestSuite) TestStateIsAtomicUnderConcurrentTransitions() {
	db := suite.baseTestSuite.DB
	taskID, playerID := suite.task.ID, suite.player.ID

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 25; i++ {
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&models.Submission{TaskID: taskID, PlayerID: playerID}).Error; err != nil {
					return err
				}
				return tx.Create(&models.Completion{TaskID: taskID, PlayerID: playerID}).Error
			})
			if err != nil {
				done <- err
				return
			}
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("task_id = ? AND player_id = ?", taskID, playerID).Delete(&models.Completion{}).Error; err != nil {
					return err
				}
				return tx.Where("task_id = ? AND player_id = ?", taskID, playerID).Delete(&models.Submission{}).Error
			})
			if err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	for {
		select {
		case err := <-done:
			suite.NoError(err)
			return
		default:
		}

		state, err := suite.service.State(taskID, playerID)
		suite.NoError(err)
		suite.NotEqual(models.TaskStateSubmitted, state.State)
	}
}

// TestLifecycleServiceTestSuite runs the test suite
func TestLifecycleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleServiceTestSuite))
}
