package views

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/steemit/condenser/internal/models"
)

// notificationView is a notification with its rendered message attached
type notificationView struct {
	models.Notification
	Message string `json:"message"`
}

// getNotifications fetches the list wholesale and renders it with the unread
// counter. The list is replaced, never appended, so deletions on the server
// are reflected immediately.
func (v *Views) getNotifications(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}

	if err := v.notifications.Fetch(c.Request.Context()); err != nil {
		v.fail(c, err)
		return
	}

	items := v.notifications.Items()
	out := make([]notificationView, len(items))
	for i := range items {
		out[i] = notificationView{Notification: items[i], Message: models.NotifyMessage(&items[i])}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": out,
		"unread_count":  v.notifications.Unread(),
	})
}

// getUnreadCount is the cheap endpoint the badge polls
func (v *Views) getUnreadCount(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}

	if err := v.notifications.FetchUnreadCount(c.Request.Context()); err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": v.notifications.Unread()})
}

func (v *Views) markNotificationRead(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := v.notifications.MarkRead(c.Request.Context(), id); err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": v.notifications.Unread()})
}

func (v *Views) markAllNotificationsRead(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}

	if err := v.notifications.MarkAllRead(c.Request.Context()); err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": 0})
}

func (v *Views) deleteNotification(c *gin.Context) {
	if !v.requireUser(c) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := v.notifications.Delete(c.Request.Context(), id); err != nil {
		v.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": v.notifications.Unread()})
}
