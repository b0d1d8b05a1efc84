package handlers

import (
	"errors"
	"net/http"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsInvalidState(err),
		errors.Is(err, apperrors.ErrTaskOrderMismatch),
		errors.Is(err, apperrors.ErrEdgeEndpointMissing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err), errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAccessCodeExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseUUIDParam parses a path parameter as a UUID, replying 400 on failure.
// The bool reports whether the handler should continue.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID extracts the authenticated user from the request context,
// replying 401 when the auth middleware did not run
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return id, true
}

// Access answers role questions for handlers. Every protected route resolves
// the caller's membership before touching the services.
type Access struct {
	db *gorm.DB
}

// NewAccess creates a new access checker
func NewAccess(db *gorm.DB) *Access {
	return &Access{db: db}
}

// RoleInTeam returns the caller's role within a team, or ErrNotATeamMember
func (a *Access) RoleInTeam(teamID, userID uuid.UUID) (models.Role, error) {
	membership, err := repository.NewMembershipRepository(a.db).GetByTeamAndUser(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrNotATeamMember
		}
		return "", err
	}
	return membership.Role, nil
}

// RequireMember checks that the caller belongs to the team
func (a *Access) RequireMember(teamID, userID uuid.UUID) (models.Role, error) {
	return a.RoleInTeam(teamID, userID)
}

// RequireCoach checks that the caller is a coach of the team
func (a *Access) RequireCoach(teamID, userID uuid.UUID) error {
	role, err := a.RoleInTeam(teamID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleCoach {
		return apperrors.ErrCoachRoleRequired
	}
	return nil
}

// TeamIDForTask resolves the owning team of a task so role checks can run
// before task-level operations
func (a *Access) TeamIDForTask(taskID uuid.UUID) (uuid.UUID, error) {
	task, err := repository.NewTaskRepository(a.db).GetByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperrors.ErrTaskNotFound
		}
		return uuid.Nil, err
	}
	return task.TeamID, nil
}
