package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetWithMemberships retrieves a team with all its memberships and users
func (r *TeamRepository) GetWithMemberships(id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.Preload("Memberships").Preload("Memberships.User").First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Update updates a team
func (r *TeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete deletes a team row. Memberships, access codes, nodes, edges, tasks,
// submissions, completions, comments and posts go with it through the
// foreign-key cascades declared on the models.
func (r *TeamRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Team{}, "id = ?", id).Error
}

// CheckTeamExists checks if a team exists by ID
func (r *TeamRepository) CheckTeamExists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Team{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
