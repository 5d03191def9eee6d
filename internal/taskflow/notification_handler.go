package taskflow

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

const (
	notificationViewMessage     = "Access Denied: You can only view your own notifications."
	notificationMarkReadMessage = "Access Denied: You can only mark your own notifications as read."
	notificationDeleteMessage   = "Access Denied: You can only delete your own notifications."
)

type NotificationHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db, log: logger.New("NotificationHandler")}
}

// ListByUser returns a user's notifications newest first. Users may only
// read their own.
func (h *NotificationHandler) ListByUser(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	userID, ok := parseID(c.Param("userId"))
	if !ok || userID != claims.UserID {
		return c.String(http.StatusForbidden, notificationViewMessage)
	}

	var notifications []Notification
	err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return serverError(c, h.log, "Error fetching notifications", err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Notification not found.")
	}

	var notification Notification
	if err := h.db.First(&notification, "notification_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Notification not found.")
		}
		return serverError(c, h.log, "Error fetching notification", err)
	}

	if notification.UserID != claims.UserID {
		return c.String(http.StatusForbidden, notificationMarkReadMessage)
	}

	if err := h.db.Model(&notification).Update("is_read", true).Error; err != nil {
		return serverError(c, h.log, "Error updating notification", err)
	}
	return c.String(http.StatusOK, "Notification marked as read.")
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.String(http.StatusNotFound, "Notification not found.")
	}

	var notification Notification
	if err := h.db.First(&notification, "notification_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.String(http.StatusNotFound, "Notification not found.")
		}
		return serverError(c, h.log, "Error fetching notification", err)
	}

	if notification.UserID != claims.UserID {
		return c.String(http.StatusForbidden, notificationDeleteMessage)
	}

	if err := h.db.Delete(&notification).Error; err != nil {
		return serverError(c, h.log, "Error deleting notification", err)
	}
	return c.String(http.StatusOK, "Notification deleted successfully.")
}
