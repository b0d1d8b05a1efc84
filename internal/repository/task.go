package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository handles database operations for tasks and their media
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByNodeID retrieves all tasks of a node ordered by rank
func (r *TaskRepository) GetByNodeID(nodeID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("node_id = ?", nodeID).Order("sort_order ASC").Find(&tasks).Error
	return tasks, err
}

// Update updates a task
func (r *TaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// SetSortOrder sets one task's rank
func (r *TaskRepository) SetSortOrder(taskID uuid.UUID, order int) error {
	return r.db.Model(&models.Task{}).Where("id = ?", taskID).Update("sort_order", order).Error
}

// Delete deletes a task. Submissions, completions, comments and media rows
// follow through the foreign-key cascades.
func (r *TaskRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}

// CountByNodeID counts the tasks attached to a node
func (r *TaskRepository) CountByNodeID(nodeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("node_id = ?", nodeID).Count(&count).Error
	return count, err
}

// CreateMedia attaches a media reference to a task
func (r *TaskRepository) CreateMedia(m *models.TaskMedia) error {
	return r.db.Create(m).Error
}

// GetMediaByTaskID retrieves all media references of a task
func (r *TaskRepository) GetMediaByTaskID(taskID uuid.UUID) ([]models.TaskMedia, error) {
	var media []models.TaskMedia
	err := r.db.Where("task_id = ?", taskID).Find(&media).Error
	return media, err
}

// MediaKeysByTeamID enumerates the distinct media keys owned by any task of
// the team. Used by the cascade deletion coordinator before rows go away.
func (r *TaskRepository) MediaKeysByTeamID(teamID uuid.UUID) ([]string, error) {
	var keys []string
	err := r.db.Model(&models.TaskMedia{}).
		Distinct("task_media.key").
		Joins("JOIN tasks ON tasks.id = task_media.task_id").
		Where("tasks.team_id = ?", teamID).
		Pluck("task_media.key", &keys).Error
	return keys, err
}
