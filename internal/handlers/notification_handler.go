package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
)

// watermarkBootstrap is how far back the first poll looks when the client has
// no watermark yet.
const watermarkBootstrap = time.Hour

// NotificationHandler serves the notification poller endpoints. The legacy
// client multiplexes every operation over /notifications with an `action`
// query parameter, which is preserved here for compatibility.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.DispatchGet)
	g.POST("/notifications", h.DispatchPost)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
}

// DispatchGet routes GET actions. Unknown actions answer 200 with a failure
// body rather than 4xx; existing pollers depend on that.
func (h *NotificationHandler) DispatchGet(c echo.Context) error {
	switch c.QueryParam("action") {
	case "check":
		return h.check(c)
	default:
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Invalid action"})
	}
}

// DispatchPost routes POST actions.
func (h *NotificationHandler) DispatchPost(c echo.Context) error {
	switch c.QueryParam("action") {
	case "mark_read":
		return h.markRead(c)
	case "mark_all_read":
		return h.markAllRead(c)
	default:
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": "Invalid action"})
	}
}

// check returns entries newer than the client's watermark (epoch millis),
// newest first, capped at the page size. A missing or zero watermark
// bootstraps to the last hour.
func (h *NotificationHandler) check(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	sinceMs, _ := strconv.ParseInt(c.QueryParam("since"), 10, 64)
	var since time.Time
	if sinceMs > 0 {
		since = time.UnixMilli(sinceMs)
	} else {
		since = time.Now().Add(-watermarkBootstrap)
	}

	notifications, err := h.notificationRepository.GetSince(currentUserID, since, repositories.DefaultNotificationPageSize)
	if err != nil {
		// poll reads degrade to an empty delta; the next tick retries anyway
		log.Printf("notification check failed for user %d: %v", currentUserID, err)
		notifications = []models.Notification{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": notifications,
		"count":         len(notifications),
		"timestamp":     time.Now().UnixMilli(),
	})
}

// MarkReadRequest identifies the entry to transition.
type MarkReadRequest struct {
	NotificationID uint `json:"notification_id" form:"notification_id"`
}

// markRead transitions one entry to read. The update is conditional on the
// entry being unread and owned by the caller, so repeated or concurrent calls
// stay idempotent and a foreign id is indistinguishable from a missing one.
func (h *NotificationHandler) markRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.NotificationID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "notification_id is required")
	}

	transitioned, err := h.notificationRepository.MarkAsRead(currentUserID, req.NotificationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Notification not found"})
		}
		log.Printf("mark_read failed for user %d entry %d: %v", currentUserID, req.NotificationID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification as read")
	}

	message := "Notification marked as read"
	if !transitioned {
		message = "Notification was already read"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message})
}

// markAllRead transitions every unread entry owned by the caller. Zero unread
// entries is still a success.
func (h *NotificationHandler) markAllRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if _, err := h.notificationRepository.MarkAllAsRead(currentUserID); err != nil {
		log.Printf("mark_all_read failed for user %d: %v", currentUserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All notifications marked as read"})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		// count reads degrade to zero rather than failing the badge render
		log.Printf("unread count failed for user %d: %v", currentUserID, err)
		count = 0
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}
