package http

import (
	"net/http"
	"strconv"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"
	"github.com/boltauto/garage_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	reminderService     *services.ReminderService
	logger              ports.LoggerPort
}

type NotificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	Count         int                    `json:"count"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

func NewNotificationHandler(
	notificationService *services.NotificationService,
	reminderService *services.ReminderService,
	logger ports.LoggerPort,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		reminderService:     reminderService,
		logger:              logger,
	}
}

// @Summary My notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max items, default 10"
// @Param unread query bool false "Only unread"
// @Success 200 {object} NotificationsResponse
// @Failure 401 {object} errorResponse
// @Router /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))

	notifications, err := h.notificationService.GetUserNotifications(c.Request.Context(), payload.UserID, limit, unreadOnly)
	if err != nil {
		handleError(c, err)
		return
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}

	c.JSON(http.StatusOK, NotificationsResponse{Notifications: notifications, Count: len(notifications)})
}

// @Summary Unread notification count
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UnreadCountResponse
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), payload.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{Unread: count})
}

// @Summary Mark notification read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), payload.UserID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	newSuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}

// @Summary Mark all notifications read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successResponse
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), payload.UserID); err != nil {
		handleError(c, err)
		return
	}
	newSuccessResponse(c, http.StatusOK, "All notifications marked as read", nil)
}

// @Summary Generate maintenance reminders
// @Description Admin only. Runs the reminder generator for every opted-in user.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.ReminderSummary
// @Failure 403 {object} errorResponse
// @Router /admin/maintenance/reminders [post]
func (h *NotificationHandler) GenerateReminders(c *gin.Context) {
	summary, err := h.reminderService.GenerateMaintenanceReminders(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
