package handlers

import (
	"net/http"

	"github.com/taikikob/teamup-sub000/internal/database/models"
	apperrors "github.com/taikikob/teamup-sub000/internal/errors"
	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommentHandler handles HTTP requests for per-(player, task) comment threads
type CommentHandler struct {
	commentService *service.CommentService
	access         *Access
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *service.CommentService, access *Access) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		access:         access,
	}
}

// threadAccess checks the caller may touch the (task, player) thread: the
// team's coaches and the player in question, nobody else
func (h *CommentHandler) threadAccess(c *gin.Context, taskID, playerID, userID uuid.UUID) bool {
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
	if role != models.RoleCoach && userID != playerID {
		respondError(c, apperrors.ErrNotATeamMember)
		return false
	}
	return true
}

// AddComment handles POST /tasks/:taskId/players/:playerId/comments
// @Summary Add a comment
// @Description Append a comment to the (task, player) thread. The player
// @Description writing notifies the coaches; a coach writing notifies the player.
// @Tags comments
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Param playerId path string true "Player user ID (UUID)"
// @Param comment body service.AddCommentRequest true "Comment content"
// @Success 201 {object} service.CommentResponse "Comment added"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Not allowed on this thread"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Security BearerAuth
// @Router /tasks/{taskId}/players/{playerId}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
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
	if !h.threadAccess(c, taskID, playerID, userID) {
		return
	}

	var req service.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Add(taskID, playerID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetThread handles GET /tasks/:taskId/players/:playerId/comments
// @Summary Read a comment thread
// @Description Get the flat thread for a (task, player) pair, oldest first
// @Tags comments
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID (UUID)"
// @Param playerId path string true "Player user ID (UUID)"
// @Success 200 {array} service.CommentResponse "The thread"
// @Failure 403 {object} map[string]interface{} "Not allowed on this thread"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Security BearerAuth
// @Router /tasks/{taskId}/players/{playerId}/comments [get]
func (h *CommentHandler) GetThread(c *gin.Context) {
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
	if !h.threadAccess(c, taskID, playerID, userID) {
		return
	}

	thread, err := h.commentService.GetThread(taskID, playerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}
