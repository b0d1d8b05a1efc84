package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository handles database operations for task comment threads
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create appends a comment to a (player, task) thread
func (r *CommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetThread retrieves the flat thread for a (task, player) pair, oldest first
func (r *CommentRepository) GetThread(taskID, playerID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Sender").
		Where("task_id = ? AND player_id = ?", taskID, playerID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
