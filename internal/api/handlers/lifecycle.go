package handlers

import (
	"net/http"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LifecycleHandler handles HTTP requests for the submit/approve/return
// lifecycle of tasks
type LifecycleHandler struct {
	lifecycleService *service.LifecycleService
	access           *Access
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(lifecycleService *service.LifecycleService, access *Access) *LifecycleHandler {
	return &LifecycleHandler{
		lifecycleService: lifecycleService,
		access:           access,
	}
}

// requirePlayer checks the caller is a player member of the team owning the
// task. The bool reports whether the handler should continue.
func (h *LifecycleHandler) requirePlayer(c *gin.Context, taskID, userID uuid.UUID) bool {
	teamID, err := h.access.TeamIDForTask(taskID)
	if err != nil {
		respondError(c, err)
		return false
	}
	role, err := h.access.RequireMember(teamID, userID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if role != models.RolePlayer {
		respondError(c, apperrors.ErrNotATeamMember)
		return false
	}
	return true
}

// requireCoach checks the caller coaches the team owning the task
func (h *LifecycleHandler) requireCoach(c *gin.Context, taskID, userID uuid.UUID) bool {
	teamID, err := h.access.TeamIDForTask(taskID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// Submit handles POST /tasks/:taskId/submit
// @Summary Submit work for a task
// @Description Mark the caller's work on a task as submitted and notify every
// @Description coach of the team. Player only; resubmitting is a conflict.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Success 201 {object} service.TaskStateResponse "Work submitted"
// @Failure 403 {object} map[string]interface{} "Not a player of this team"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Failure 409 {object} map[string]interface{} "Already submitted"
// @Security BearerAuth
// @Router /tasks/{taskId}/submit [post]
func (h *LifecycleHandler) Submit(c *gin.Context) {
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.requirePlayer(c, taskID, userID) {
		return
	}

	state, err := h.lifecycleService.Submit(taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

// Unsubmit handles DELETE /tasks/:taskId/submit
// @Summary Withdraw submitted work
// @Description Withdraw the caller's pending submission before review. Player only.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Success 200 {object} service.TaskStateResponse "Submission withdrawn"
// @Failure 403 {object} map[string]interface{} "Not a player of this team"
// @Failure 404 {object} map[string]interface{} "No pending submission"
// @Failure 409 {object} map[string]interface{} "Work already approved"
// @Security BearerAuth
// @Router /tasks/{taskId}/submit [delete]
func (h *LifecycleHandler) Unsubmit(c *gin.Context) {
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.requirePlayer(c, taskID, userID) {
		return
	}

	state, err := h.lifecycleService.Unsubmit(taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Approve handles POST /tasks/:taskId/players/:playerId/approve
// @Summary Approve a player's work
// @Description Mark a player's work on a task as complete and notify them. Coach only.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Param playerId path string true "Player user ID (UUID)"
// @Success 201 {object} service.TaskStateResponse "Work approved"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Failure 409 {object} map[string]interface{} "Already approved"
// @Security BearerAuth
// @Router /tasks/{taskId}/players/{playerId}/approve [post]
func (h *LifecycleHandler) Approve(c *gin.Context) {
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	playerID, ok := parseUUIDParam(c, "playerId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.requireCoach(c, taskID, userID) {
		return
	}

	state, err := h.lifecycleService.Approve(taskID, playerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

// Unapprove handles DELETE /tasks/:taskId/players/:playerId/approve
// @Summary Return a player's approved work
// @Description Revoke an approval; the player's state returns to unsubmitted
// @Description and they are notified. Coach only.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Param playerId path string true "Player user ID (UUID)"
// @Success 200 {object} service.TaskStateResponse "Work returned"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "No approval to revoke"
// @Security BearerAuth
// @Router /tasks/{taskId}/players/{playerId}/approve [delete]
func (h *LifecycleHandler) Unapprove(c *gin.Context) {
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	playerID, ok := parseUUIDParam(c, "playerId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.requireCoach(c, taskID, userID) {
		return
	}

	state, err := h.lifecycleService.Unapprove(taskID, playerID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// State handles GET /tasks/:taskId/players/:playerId/state
// @Summary Get a player's task state
// @Description Get the derived lifecycle state of a (task, player) pair.
// @Description Coaches may read any player; players only themselves.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Param playerId path string true "Player user ID (UUID)"
// @Success 200 {object} service.TaskStateResponse "Derived state"
// @Failure 403 {object} map[string]interface{} "Not allowed to read this state"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Security BearerAuth
// @Router /tasks/{taskId}/players/{playerId}/state [get]
func (h *LifecycleHandler) State(c *gin.Context) {
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	playerID, ok := parseUUIDParam(c, "playerId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	teamID, err := h.access.TeamIDForTask(taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	role, err := h.access.RequireMember(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if role != models.RoleCoach && userID != playerID {
		respondError(c, apperrors.ErrNotATeamMember)
		return
	}

	state, err := h.lifecycleService.State(taskID, playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
