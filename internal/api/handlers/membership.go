package handlers

import (
	"net/http"

	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// MembershipHandler handles HTTP requests for team membership and the team
// lifecycle around it
type MembershipHandler struct {
	membershipService *service.MembershipService
	access            *Access
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipService *service.MembershipService, access *Access) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		access:            access,
	}
}

// JoinRequest represents the request to join a team by code
type JoinRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateTeam handles POST /teams
// @Summary Create a new team
// @Description Create a team; the caller becomes its coach and join codes are minted
// @Tags teams
// @Accept json
// @Produce json
// @Param team body service.CreateTeamRequest true "Team data"
// @Success 201 {object} service.CreateTeamResponse "Successfully created team"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 409 {object} map[string]interface{} "Code generation exhausted"
// @Security BearerAuth
// @Router /teams [post]
func (h *MembershipHandler) CreateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.membershipService.CreateTeam(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// Join handles POST /teams/join
// @Summary Join a team by access code
// @Description Redeem a join code for a membership with the code's role
// @Tags teams
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Access code"
// @Success 201 {object} service.JoinResponse "Successfully joined team"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Access code not found"
// @Failure 409 {object} map[string]interface{} "Already a member"
// @Failure 410 {object} map[string]interface{} "Access code expired"
// @Security BearerAuth
// @Router /teams/join [post]
func (h *MembershipHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.membershipService.JoinByCode(userID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetCodes handles GET /teams/:id/codes
// @Summary Get team join codes
// @Description Get the current join codes of a team. Coach only.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {array} service.AccessCodeResponse "Current join codes"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Security BearerAuth
// @Router /teams/{id}/codes [get]
func (h *MembershipHandler) GetCodes(c *gin.Context) {
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

	codes, err := h.membershipService.GetCodes(teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, codes)
}

// RotateCodes handles POST /teams/:id/codes/rotate
// @Summary Rotate team join codes
// @Description Replace both join codes with fresh ones. Coach only.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {array} service.AccessCodeResponse "New join codes"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /teams/{id}/codes/rotate [post]
func (h *MembershipHandler) RotateCodes(c *gin.Context) {
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

	codes, err := h.membershipService.RotateCodes(teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, codes)
}

// DeleteTeam handles DELETE /teams/:id
// @Summary Delete a team
// @Description Tear down a team: members are notified, media objects are cleaned up
// @Description best-effort, and every dependent row goes with the team. Coach only.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 204 "Team deleted"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *MembershipHandler) DeleteTeam(c *gin.Context) {
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

	if err := h.membershipService.DeleteTeam(c.Request.Context(), teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave handles POST /teams/:id/leave
// @Summary Leave a team
// @Description Leave a team. A player's work goes with them; the last coach
// @Description leaving deletes the whole team.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} service.LeaveResult "Left the team"
// @Failure 404 {object} map[string]interface{} "Membership not found"
// @Security BearerAuth
// @Router /teams/{id}/leave [post]
func (h *MembershipHandler) Leave(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.membershipService.LeaveTeam(c.Request.Context(), teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemovePlayer handles DELETE /teams/:id/players/:playerId
// @Summary Remove a player from a team
// @Description Eject a player together with their work and notify them. Coach only.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param playerId path string true "Player user ID (UUID)"
// @Success 204 "Player removed"
// @Failure 403 {object} map[string]interface{} "Coach role required"
// @Failure 404 {object} map[string]interface{} "Player not found"
// @Failure 422 {object} map[string]interface{} "Coaches cannot be removed"
// @Security BearerAuth
// @Router /teams/{id}/players/{playerId} [delete]
func (h *MembershipHandler) RemovePlayer(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
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

	if err := h.access.RequireCoach(teamID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.membershipService.RemovePlayer(teamID, playerID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
