package handlers

import (
	"net/http"

	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles HTTP requests for the ordered task lists of graph nodes
type TaskHandler struct {
	taskService *service.TaskService
	access      *Access
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService, access *Access) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		access:      access,
	}
}

// AddMediaRequest represents the request to attach a media key to a task
type AddMediaRequest struct {
	Key string `json:"key" binding:"required"`
}

// CreateTask handles POST /teams/:id/nodes/:nodeId/tasks
// @Summary Create a task
// @Description Create a task under a graph node. Coach only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param nodeId path string true "Node external ID"
// @Param task body service.CreateTaskRequest true "Task data"
// @Success 201 {object} service.TaskResponse "Successfully created task"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Node not found"
// @Security BearerAuth
// @Router /teams/{id}/nodes/{nodeId}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(teamID, c.Param("nodeId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks handles GET /teams/:id/nodes/:nodeId/tasks
// @Summary List node tasks
// @Description Get the tasks of a node in rank order. Any member may read.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param nodeId path string true "Node external ID"
// @Success 200 {array} service.TaskResponse "Tasks in rank order"
// @Failure 403 {object} map[string]interface{} "Not a team member"
// @Failure 404 {object} map[string]interface{} "Node not found"
// @Security BearerAuth
// @Router /teams/{id}/nodes/{nodeId}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, err := h.access.RequireMember(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.taskService.ListByNode(teamID, c.Param("nodeId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// ReorderTasks handles PUT /teams/:id/nodes/:nodeId/tasks/order
// @Summary Reorder node tasks
// @Description Rewrite the ranks of a node's tasks. The body must list every
// @Description sibling exactly once. Coach only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param nodeId path string true "Node external ID"
// @Param order body service.ReorderRequest true "Task IDs in new order"
// @Success 204 "Tasks reordered"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 422 {object} map[string]interface{} "Sequence does not match the sibling set"
// @Security BearerAuth
// @Router /teams/{id}/nodes/{nodeId}/tasks/order [put]
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	var req service.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.taskService.Reorder(teamID, c.Param("nodeId"), &req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// EditDescription handles PATCH /teams/:id/tasks/:taskId
// @Summary Edit task description
// @Description Update a task's description. Coach only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param taskId path string true "Task ID (UUID)"
// @Param task body service.EditDescriptionRequest true "New description"
// @Success 200 {object} service.TaskResponse "Successfully updated task"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Security BearerAuth
// @Router /teams/{id}/tasks/{taskId} [patch]
func (h *TaskHandler) EditDescription(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	var req service.EditDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.EditDescription(teamID, taskID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /teams/:id/tasks/:taskId
// @Summary Delete a task
// @Description Delete a task with its submissions, completions, comments and
// @Description media. Media objects are cleaned up best-effort. Coach only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param taskId path string true "Task ID (UUID)"
// @Success 204 "Task deleted"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Security BearerAuth
// @Router /teams/{id}/tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), teamID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMedia handles POST /teams/:id/tasks/:taskId/media
// @Summary Attach media to a task
// @Description Register a stored media object key against a task. Coach only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param taskId path string true "Task ID (UUID)"
// @Param media body AddMediaRequest true "Media key"
// @Success 201 "Media attached"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Task not found"
// @Security BearerAuth
// @Router /teams/{id}/tasks/{taskId}/media [post]
func (h *TaskHandler) AddMedia(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseUUIDParam(c, "taskId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	var req AddMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.taskService.AddMedia(teamID, taskID, req.Key); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}
