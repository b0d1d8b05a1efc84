package handlers

import (
	"net/http"

	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// GraphHandler handles HTTP requests for the training graph
type GraphHandler struct {
	graphService *service.GraphService
	access       *Access
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(graphService *service.GraphService, access *Access) *GraphHandler {
	return &GraphHandler{
		graphService: graphService,
		access:       access,
	}
}

// ReplaceGraph handles PUT /teams/:id/graph
// @Summary Replace the training graph
// @Description Reconcile the stored graph against the submitted one: nodes are
// @Description inserted, updated or deleted by external ID, edges are replaced
// @Description wholesale. All-or-nothing. Coach only.
// @Tags graph
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param graph body service.ReplaceGraphRequest true "Full desired graph"
// @Success 204 "Graph replaced"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 422 {object} map[string]interface{} "Edge references unknown node"
// @Security BearerAuth
// @Router /teams/{id}/graph [put]
func (h *GraphHandler) ReplaceGraph(c *gin.Context) {
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

	var req service.ReplaceGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.graphService.ReplaceGraph(teamID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetGraph handles GET /teams/:id/graph
// @Summary Read the training graph
// @Description Get the team's graph. Players additionally see per-node
// @Description completed/total task counts for their own progress.
// @Tags graph
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} service.GraphResponse "The team's graph"
// @Failure 403 {object} map[string]interface{} "Not a team member"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /teams/{id}/graph [get]
func (h *GraphHandler) GetGraph(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, err := h.access.RequireMember(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	graph, err := h.graphService.ReadGraph(teamID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, graph)
}
