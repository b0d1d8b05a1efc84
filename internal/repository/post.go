package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository handles database operations for team feed posts
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a new post
func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetByTeamID retrieves a team's posts, newest first
func (r *PostRepository) GetByTeamID(teamID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	if err := r.db.Model(&models.Post{}).Where("team_id = ?", teamID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Author").
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// DeleteByTeamAndAuthor removes every post a user wrote in a team
func (r *PostRepository) DeleteByTeamAndAuthor(teamID, authorID uuid.UUID) error {
	return r.db.Delete(&models.Post{}, "team_id = ? AND author_id = ?", teamID, authorID).Error
}
