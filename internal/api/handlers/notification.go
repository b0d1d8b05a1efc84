package handlers

import (
	"net/http"
	"strconv"

	"github.com/taikikob/teamup-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles HTTP requests for the caller's notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List handles GET /notifications
// @Summary List my notifications
// @Description Get a page of the caller's notifications, newest first, with
// @Description the unread count
// @Tags notifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {object} service.NotificationListResponse "Notifications"
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	notifications, err := h.notificationService.List(userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead handles POST /notifications/:id/read
// @Summary Mark a notification read
// @Description Mark one of the caller's notifications as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID (UUID)"
// @Success 204 "Marked read"
// @Failure 404 {object} map[string]interface{} "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(userID, notificationID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
