package store

import (
	"context"
	"sync"

	"github.com/steemit/condenser/internal/backend"
	"github.com/steemit/condenser/internal/models"
)

type fakeAuth struct {
	signedIn bool
}

func (f *fakeAuth) SignedIn() bool { return f.signedIn }

// fakeLikeAPI scripts successive LikePost responses
type fakeLikeAPI struct {
	mu      sync.Mutex
	results []likeScript
	calls   int
	block   chan struct{} // when non-nil, LikePost waits on it
}

type likeScript struct {
	result *backend.LikeResult
	err    error
}

func (f *fakeLikeAPI) LikePost(ctx context.Context, id int64) (*backend.LikeResult, error) {
	f.mu.Lock()
	block := f.block
	idx := f.calls
	f.calls++
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if idx >= len(f.results) {
		return &backend.LikeResult{}, nil
	}
	s := f.results[idx]
	return s.result, s.err
}

func (f *fakeLikeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeNotifyAPI is an in-memory notification backend
type fakeNotifyAPI struct {
	mu          sync.Mutex
	page        models.NotificationPage
	unread      int
	err         error
	listCalls   int
	countCalls  int
	readCalls   int
	deleteCalls int
}

func (f *fakeNotifyAPI) ListNotifications(ctx context.Context, limit int) (*models.NotificationPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	page := f.page
	return &page, nil
}

func (f *fakeNotifyAPI) UnreadCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.err != nil {
		return 0, f.err
	}
	return f.unread, nil
}

func (f *fakeNotifyAPI) MarkNotificationRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	return f.err
}

func (f *fakeNotifyAPI) MarkAllNotificationsRead(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeNotifyAPI) DeleteNotification(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.err
}

func (f *fakeNotifyAPI) counts() (list, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.countCalls
}

// fakeFollowAPI scripts follow responses
type fakeFollowAPI struct {
	mu        sync.Mutex
	following []models.User
	result    *backend.FollowResult
	err       error
}

func (f *fakeFollowAPI) ListFollowing(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.following, f.err
}

func (f *fakeFollowAPI) FollowUser(ctx context.Context, userID int64) (*backend.FollowResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

// fakeAnalyticsAPI serves the refresh pull
type fakeAnalyticsAPI struct {
	following []models.User
	stats     *models.UserStats
	posts     []models.Post
	err       error
}

func (f *fakeAnalyticsAPI) ListFollowing(ctx context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.following, nil
}

func (f *fakeAnalyticsAPI) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeAnalyticsAPI) ListUserPosts(ctx context.Context) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}
