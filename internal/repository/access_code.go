package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessCodeRepository handles database operations for team access codes
type AccessCodeRepository struct {
	db *gorm.DB
}

// NewAccessCodeRepository creates a new access code repository
func NewAccessCodeRepository(db *gorm.DB) *AccessCodeRepository {
	return &AccessCodeRepository{db: db}
}

// Create inserts a new access code. The global unique index on code and the
// composite unique index on (team_id, role) both surface as
// gorm.ErrDuplicatedKey; the caller decides whether to retry.
func (r *AccessCodeRepository) Create(code *models.AccessCode) error {
	return r.db.Create(code).Error
}

// GetByCode retrieves an access code by its code string
func (r *AccessCodeRepository) GetByCode(code string) (*models.AccessCode, error) {
	var accessCode models.AccessCode
	err := r.db.First(&accessCode, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &accessCode, nil
}

// GetByTeamID retrieves all access codes of a team
func (r *AccessCodeRepository) GetByTeamID(teamID uuid.UUID) ([]models.AccessCode, error) {
	var codes []models.AccessCode
	err := r.db.Where("team_id = ?", teamID).Find(&codes).Error
	return codes, err
}

// DeleteByTeamID deletes all access codes of a team. Codes rotate as a set.
func (r *AccessCodeRepository) DeleteByTeamID(teamID uuid.UUID) error {
	return r.db.Delete(&models.AccessCode{}, "team_id = ?", teamID).Error
}
