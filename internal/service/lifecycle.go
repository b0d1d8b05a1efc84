package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LifecycleService drives the per-(task, player) submit/approve/return
// transitions. Every transition runs in one transaction together with its
// notification fan-out, so a transition is visible exactly when its
// notifications are.
type LifecycleService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(db *gorm.DB, notifications *NotificationService) *LifecycleService {
	return &LifecycleService{db: db, notifications: notifications}
}

// TaskStateResponse reports the derived lifecycle state after a transition
type TaskStateResponse struct {
	TaskID   uuid.UUID        `json:"task_id"`
	PlayerID uuid.UUID        `json:"player_id"`
	State    models.TaskState `json:"state"`
}

// Submit records that a player turned in work for a task and notifies every
// coach of the team. A second submit for the same pair is a conflict, whether
// it races or not.
func (s *LifecycleService) Submit(taskID, playerID uuid.UUID) (*TaskStateResponse, error) {
	var resp *TaskStateResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, err := s.getTask(tx, taskID)
		if err != nil {
			return err
		}

		repo := repository.NewLifecycleRepository(tx)
		if err := repo.CreateSubmission(&models.Submission{TaskID: taskID, PlayerID: playerID}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateSubmission
			}
			return fmt.Errorf("failed to create submission: %w", err)
		}

		player, err := repository.NewUserRepository(tx).GetByID(playerID)
		if err != nil {
			return fmt.Errorf("failed to resolve player: %w", err)
		}

		content := fmt.Sprintf("%s submitted work for task %q", player.FullName, task.Title)
		if err := s.notifications.NotifyCoaches(tx, task.TeamID, models.NotificationTypeSubmission, playerID, content, s.refs(task)); err != nil {
			return err
		}

		resp = s.stateResponse(taskID, playerID, models.TaskStateSubmitted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Approve records a coach's approval and notifies the player. Approval does
// not require a prior submission; a coach can mark work complete directly.
func (s *LifecycleService) Approve(taskID, playerID, coachID uuid.UUID) (*TaskStateResponse, error) {
	var resp *TaskStateResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, err := s.getTask(tx, taskID)
		if err != nil {
			return err
		}

		repo := repository.NewLifecycleRepository(tx)
		if err := repo.CreateCompletion(&models.Completion{TaskID: taskID, PlayerID: playerID}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrAlreadyCompleted
			}
			return fmt.Errorf("failed to create completion: %w", err)
		}

		content := fmt.Sprintf("Your work for task %q was approved", task.Title)
		if err := s.notifications.NotifyUser(tx, playerID, models.NotificationTypeApproval, coachID, content, s.refs(task)); err != nil {
			return err
		}

		resp = s.stateResponse(taskID, playerID, models.TaskStateCompleted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Unapprove returns a player's work, whether it was already approved or still
// awaiting review. Whatever completion and submission rows exist go away, so
// the resulting state is indistinguishable from never having submitted, and
// the player is told why. Only when neither row exists is there nothing to
// return and the call fails.
func (s *LifecycleService) Unapprove(taskID, playerID, coachID uuid.UUID) (*TaskStateResponse, error) {
	var resp *TaskStateResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, err := s.getTask(tx, taskID)
		if err != nil {
			return err
		}

		repo := repository.NewLifecycleRepository(tx)
		completions, err := repo.DeleteCompletion(taskID, playerID)
		if err != nil {
			return fmt.Errorf("failed to delete completion: %w", err)
		}
		submissions, err := repo.DeleteSubmission(taskID, playerID)
		if err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		if completions+submissions == 0 {
			return apperrors.ErrSubmissionNotFound
		}

		content := fmt.Sprintf("Your work for task %q was returned for more practice", task.Title)
		if err := s.notifications.NotifyUser(tx, playerID, models.NotificationTypeReturned, coachID, content, s.refs(task)); err != nil {
			return err
		}

		resp = s.stateResponse(taskID, playerID, models.TaskStateUnsubmitted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Unsubmit lets a player withdraw pending work before review. No notification
// goes out; coaches never acted on the submission.
func (s *LifecycleService) Unsubmit(taskID, playerID uuid.UUID) (*TaskStateResponse, error) {
	var resp *TaskStateResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.getTask(tx, taskID); err != nil {
			return err
		}

		repo := repository.NewLifecycleRepository(tx)
		completion, err := repo.GetCompletion(taskID, playerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check completion: %w", err)
		}
		if completion != nil {
			return apperrors.ErrAlreadyCompleted
		}

		deleted, err := repo.DeleteSubmission(taskID, playerID)
		if err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		if deleted == 0 {
			return apperrors.ErrSubmissionNotFound
		}

		resp = s.stateResponse(taskID, playerID, models.TaskStateUnsubmitted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// State reports the derived lifecycle state for a (task, player) pair. Both
// row lookups share one repeatable-read snapshot; under read committed each
// statement gets its own snapshot and a concurrent transition could show up
// half-applied.
func (s *LifecycleService) State(taskID, playerID uuid.UUID) (*TaskStateResponse, error) {
	var resp *TaskStateResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.getTask(tx, taskID); err != nil {
			return err
		}
		state, err := repository.NewLifecycleRepository(tx).State(taskID, playerID)
		if err != nil {
			return fmt.Errorf("failed to derive task state: %w", err)
		}
		resp = s.stateResponse(taskID, playerID, state)
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *LifecycleService) getTask(db *gorm.DB, taskID uuid.UUID) (*models.Task, error) {
	task, err := repository.NewTaskRepository(db).GetByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *LifecycleService) refs(task *models.Task) Refs {
	teamID := task.TeamID
	taskID := task.ID
	return Refs{TeamID: &teamID, TaskID: &taskID}
}

func (s *LifecycleService) stateResponse(taskID, playerID uuid.UUID, state models.TaskState) *TaskStateResponse {
	return &TaskStateResponse{TaskID: taskID, PlayerID: playerID, State: state}
}
