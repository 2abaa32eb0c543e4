package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/steemit/condenser/internal/models"
)

// ListNotifications fetches a page of notification records for the signed-in user
func (c *Client) ListNotifications(ctx context.Context, limit int) (*models.NotificationPage, error) {
	ctx, end := span(ctx, "backend.list_notifications")
	defer end()

	var page models.NotificationPage
	path := fmt.Sprintf("/notifications?limit=%d", limit)
	if err := c.get(ctx, path, &page, true); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &page, nil
}

// UnreadCount fetches the unread notification counter. Cheap enough to poll
// independently of the full list.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	ctx, end := span(ctx, "backend.unread_count")
	defer end()

	var result struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.get(ctx, "/notifications/count", &result, true); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return result.UnreadCount, nil
}

// MarkNotificationRead marks a single notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	ctx, end := span(ctx, "backend.mark_notification_read")
	defer end()

	path := fmt.Sprintf("/notifications/%d/read", id)
	if err := c.do(ctx, http.MethodPut, path, nil, nil, true); err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	ctx, end := span(ctx, "backend.mark_all_notifications_read")
	defer end()

	if err := c.do(ctx, http.MethodPut, "/notifications/mark-all-read", nil, nil, true); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

// DeleteNotification deletes a notification record
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	ctx, end := span(ctx, "backend.delete_notification")
	defer end()

	path := fmt.Sprintf("/notifications/%d/delete", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, true); err != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}
	return nil
}
