package handlers

import (
	"net/http"
	"strconv"

	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles HTTP requests for team reads, profile updates and the
// team feed
type TeamHandler struct {
	teamService *service.TeamService
	access      *Access
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *service.TeamService, access *Access) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		access:      access,
	}
}

// GetTeam handles GET /teams/:id
// @Summary Get team by ID
// @Description Get a team with its full member roster. Caller must be a member.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} service.TeamResponse "Successfully retrieved team"
// @Failure 400 {object} map[string]interface{} "Invalid team ID"
// @Failure 403 {object} map[string]interface{} "Not a team member"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
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

	team, err := h.teamService.GetTeam(teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// MyTeams handles GET /teams
// @Summary List my teams
// @Description List every team the caller belongs to together with their role
// @Tags teams
// @Accept json
// @Produce json
// @Success 200 {array} service.MyTeamResponse "Successfully retrieved teams"
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) MyTeams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	teams, err := h.teamService.MyTeams(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

// UpdateTeam handles PATCH /teams/:id
// @Summary Update team profile
// @Description Partially update a team's name, description or cover image. Coach only.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param team body service.UpdateTeamRequest true "Fields to update"
// @Success 200 {object} service.TeamResponse "Successfully updated team"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [patch]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
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

	var req service.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.UpdateTeam(teamID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// CreatePost handles POST /teams/:id/posts
// @Summary Post to the team feed
// @Description Append an entry to the team feed. Any member may post.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param post body service.CreatePostRequest true "Post content"
// @Success 201 {object} service.PostResponse "Successfully created post"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Not a team member"
// @Security BearerAuth
// @Router /teams/{id}/posts [post]
func (h *TeamHandler) CreatePost(c *gin.Context) {
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

	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.teamService.CreatePost(teamID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts handles GET /teams/:id/posts
// @Summary Read the team feed
// @Description Get a page of the team feed, newest first
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.PostListResponse "Successfully retrieved posts"
// @Failure 403 {object} map[string]interface{} "Not a team member"
// @Security BearerAuth
// @Router /teams/{id}/posts [get]
func (h *TeamHandler) ListPosts(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	posts, err := h.teamService.ListPosts(teamID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
