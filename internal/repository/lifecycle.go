package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LifecycleRepository handles the submission and completion rows whose
// presence derives a player's per-task state
type LifecycleRepository struct {
	db *gorm.DB
}

// NewLifecycleRepository creates a new lifecycle repository
func NewLifecycleRepository(db *gorm.DB) *LifecycleRepository {
	return &LifecycleRepository{db: db}
}

// CreateSubmission inserts a submission row. The composite unique index on
// (task_id, player_id) makes a concurrent duplicate surface as
// gorm.ErrDuplicatedKey from this insert, not from a separate probe.
func (r *LifecycleRepository) CreateSubmission(s *models.Submission) error {
	return r.db.Create(s).Error
}

// GetSubmission retrieves the submission row for a (task, player) pair
func (r *LifecycleRepository) GetSubmission(taskID, playerID uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.First(&submission, "task_id = ? AND player_id = ?", taskID, playerID).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// DeleteSubmission removes the submission row for a (task, player) pair and
// reports how many rows went away
func (r *LifecycleRepository) DeleteSubmission(taskID, playerID uuid.UUID) (int64, error) {
	res := r.db.Delete(&models.Submission{}, "task_id = ? AND player_id = ?", taskID, playerID)
	return res.RowsAffected, res.Error
}

// CreateCompletion inserts a completion row, guarded by the same kind of
// composite unique index as submissions
func (r *LifecycleRepository) CreateCompletion(c *models.Completion) error {
	return r.db.Create(c).Error
}

// GetCompletion retrieves the completion row for a (task, player) pair
func (r *LifecycleRepository) GetCompletion(taskID, playerID uuid.UUID) (*models.Completion, error) {
	var completion models.Completion
	err := r.db.First(&completion, "task_id = ? AND player_id = ?", taskID, playerID).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// DeleteCompletion removes the completion row for a (task, player) pair
func (r *LifecycleRepository) DeleteCompletion(taskID, playerID uuid.UUID) (int64, error) {
	res := r.db.Delete(&models.Completion{}, "task_id = ? AND player_id = ?", taskID, playerID)
	return res.RowsAffected, res.Error
}

// State derives the lifecycle state for a (task, player) pair from row
// presence. There is no stored enum to consult.
func (r *LifecycleRepository) State(taskID, playerID uuid.UUID) (models.TaskState, error) {
	var submissionCount, completionCount int64
	if err := r.db.Model(&models.Submission{}).
		Where("task_id = ? AND player_id = ?", taskID, playerID).
		Count(&submissionCount).Error; err != nil {
		return "", err
	}
	if err := r.db.Model(&models.Completion{}).
		Where("task_id = ? AND player_id = ?", taskID, playerID).
		Count(&completionCount).Error; err != nil {
		return "", err
	}
	return models.DeriveTaskState(submissionCount > 0, completionCount > 0), nil
}

// DeletePlayerRowsInTeam removes every submission, completion and comment a
// player owns for tasks of the given team. Used when a player leaves or is
// removed while the team stays.
func (r *LifecycleRepository) DeletePlayerRowsInTeam(teamID, playerID uuid.UUID) error {
	taskIDs := r.db.Model(&models.Task{}).Select("id").Where("team_id = ?", teamID)

	if err := r.db.Delete(&models.Submission{}, "player_id = ? AND task_id IN (?)", playerID, taskIDs).Error; err != nil {
		return err
	}
	if err := r.db.Delete(&models.Completion{}, "player_id = ? AND task_id IN (?)", playerID, taskIDs).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Comment{}, "player_id = ? AND task_id IN (?)", playerID, taskIDs).Error
}
