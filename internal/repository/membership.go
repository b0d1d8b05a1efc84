package repository

import (
	"github.com/taikikob/teamup-sub000/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository handles database operations for team memberships
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create creates a new membership
func (r *MembershipRepository) Create(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

// GetByTeamAndUser retrieves the membership of a user within a team
func (r *MembershipRepository) GetByTeamAndUser(teamID, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.First(&membership, "team_id = ? AND user_id = ?", teamID, userID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetByTeamID retrieves all memberships of a team
func (r *MembershipRepository) GetByTeamID(teamID uuid.UUID) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Where("team_id = ?", teamID).Find(&memberships).Error
	return memberships, err
}

// GetByTeamAndRole retrieves all memberships of a team with the given role
func (r *MembershipRepository) GetByTeamAndRole(teamID uuid.UUID, role models.Role) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Where("team_id = ? AND role = ?", teamID, role).Find(&memberships).Error
	return memberships, err
}

// GetByUserID retrieves all memberships of a user across teams
func (r *MembershipRepository) GetByUserID(userID uuid.UUID) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Preload("Team").Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

// CountByTeamAndRole counts memberships of a team with the given role
func (r *MembershipRepository) CountByTeamAndRole(teamID uuid.UUID, role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).
		Where("team_id = ? AND role = ?", teamID, role).
		Count(&count).Error
	return count, err
}

// Delete deletes a membership by ID
func (r *MembershipRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Membership{}, "id = ?", id).Error
}

// DeleteByTeamAndUser deletes the membership of a user within a team
func (r *MembershipRepository) DeleteByTeamAndUser(teamID, userID uuid.UUID) error {
	return r.db.Delete(&models.Membership{}, "team_id = ? AND user_id = ?", teamID, userID).Error
}
