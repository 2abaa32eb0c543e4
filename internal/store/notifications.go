package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/pkg/logging"
)

// NotificationAPI is the slice of the backend the notification store needs
type NotificationAPI interface {
	ListNotifications(ctx context.Context, limit int) (*models.NotificationPage, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error
}

// NotificationStore holds the notification list and the unread counter.
// Records are created server-side; locally each one moves unread→read
// (one-way) or is deleted (terminal). The unread counter is adjusted on
// those transitions and clamped at zero.
type NotificationStore struct {
	mu     sync.RWMutex
	items  []models.Notification
	unread int

	api      NotificationAPI
	auth     Authorizer
	pageSize int
	logger   *zap.Logger
}

// NewNotificationStore creates a notification store
func NewNotificationStore(api NotificationAPI, auth Authorizer, pageSize int) *NotificationStore {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &NotificationStore{
		api:      api,
		auth:     auth,
		pageSize: pageSize,
		logger:   logging.WithComponent("notification-store"),
	}
}

// Items returns a copy of the current notification list
func (s *NotificationStore) Items() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Unread returns the unread counter
func (s *NotificationStore) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Fetch replaces the local list wholesale with the server's. No-op when
// signed out.
func (s *NotificationStore) Fetch(ctx context.Context) error {
	if s.auth != nil && !s.auth.SignedIn() {
		return nil
	}

	page, err := s.api.ListNotifications(ctx, s.pageSize)
	if err != nil {
		s.logger.Warn("Failed to fetch notifications", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.items = page.Results
	s.mu.Unlock()
	return nil
}

// FetchUnreadCount refreshes the badge counter independently of the full
// list, so it can be cheap-polled. No-op when signed out.
func (s *NotificationStore) FetchUnreadCount(ctx context.Context) error {
	if s.auth != nil && !s.auth.SignedIn() {
		return nil
	}

	count, err := s.api.UnreadCount(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch unread count", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.unread = count
	s.mu.Unlock()
	return nil
}

// MarkRead marks one notification read. The counter only moves when the
// record actually transitions, so repeated calls are idempotent.
func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	if s.auth != nil && !s.auth.SignedIn() {
		return nil
	}

	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		s.logger.Warn("Failed to mark notification read", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].IsRead {
				s.items[i].IsRead = true
				if s.unread > 0 {
					s.unread--
				}
			}
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// MarkAllRead flips every record to read and zeroes the counter
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	if s.auth != nil && !s.auth.SignedIn() {
		return nil
	}

	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		s.logger.Warn("Failed to mark all notifications read", zap.Error(err))
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	s.unread = 0
	s.mu.Unlock()
	return nil
}

// Delete removes a record from the local list; if it was unread, the counter
// drops by one.
func (s *NotificationStore) Delete(ctx context.Context, id int64) error {
	if s.auth != nil && !s.auth.SignedIn() {
		return nil
	}

	if err := s.api.DeleteNotification(ctx, id); err != nil {
		s.logger.Warn("Failed to delete notification", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].IsRead && s.unread > 0 {
				s.unread--
			}
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Reset clears the list and the counter
func (s *NotificationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.unread = 0
}
