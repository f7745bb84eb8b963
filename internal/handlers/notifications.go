package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
)

const notificationPageSize = 50

// Notifications lists the viewer's notifications, newest first.
func Notifications(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	notifications, err := Store.Notifications.ListForUser(c.Request.Context(), userID, notificationPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead marks one notification read.
func MarkNotificationRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	err := Store.Notifications.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// MarkAllNotificationsRead marks everything read for the viewer.
func MarkAllNotificationsRead(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	if err := Store.Notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
