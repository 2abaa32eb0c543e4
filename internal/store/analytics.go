package store

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/pkg/logging"
)

// AnalyticsAPI is the slice of the backend the analytics store needs for
// its refresh pull
type AnalyticsAPI interface {
	ListFollowing(ctx context.Context) ([]models.User, error)
	GetUserStats(ctx context.Context) (*models.UserStats, error)
	ListUserPosts(ctx context.Context) ([]models.Post, error)
}

// AnalyticsStore holds per-post aggregates and the derived creator rollup.
// It performs no network I/O of its own except Refresh; all other inputs
// arrive through the event bus, so its correctness depends on callers
// publishing consistent before/after values. The rollup is maintained
// incrementally on each mutation; at all times it must equal a recompute
// from scratch over the known per-post aggregates.
type AnalyticsStore struct {
	mu     sync.RWMutex
	stats  map[int64]models.PostStats
	rollup models.CreatorStats

	api    AnalyticsAPI
	auth   Authorizer
	logger *zap.Logger
}

// NewAnalyticsStore creates an analytics store subscribed to the bus
func NewAnalyticsStore(api AnalyticsAPI, auth Authorizer, bus *Bus) *AnalyticsStore {
	s := &AnalyticsStore{
		stats:  make(map[int64]models.PostStats),
		api:    api,
		auth:   auth,
		logger: logging.WithComponent("analytics-store"),
	}
	if bus != nil {
		bus.SubscribeLikes(func(ev LikeEvent) { s.ApplyLike(ev.PostID, ev.IsLiked, ev.LikeCount) })
		bus.SubscribeComments(func(ev CommentEvent) { s.ApplyComments(ev.PostID, ev.CommentCount) })
		bus.SubscribeSeeds(s.Seed)
	}
	return s
}

// round1 rounds to one decimal place, matching how averages are displayed
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Seed loads per-post aggregates from a fetched list, then recomputes the
// rollup from the full resulting set. An empty set yields an all-zero
// rollup; averages never divide by zero.
func (s *AnalyticsStore) Seed(posts []models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range posts {
		s.stats[p.ID] = models.PostStats{
			Views:        p.ViewCount,
			LikeCount:    p.LikeCount,
			CommentCount: p.CommentCount,
			IsLiked:      p.IsLiked,
			IsSaved:      p.IsSaved,
		}
	}

	s.recomputeLocked()
}

// recomputeLocked rebuilds the rollup totals from every known post aggregate
func (s *AnalyticsStore) recomputeLocked() {
	totalPosts := len(s.stats)
	totalViews, totalLikes, totalComments := 0, 0, 0
	for _, st := range s.stats {
		totalViews += st.Views
		totalLikes += st.LikeCount
		totalComments += st.CommentCount
	}

	s.rollup.TotalPosts = totalPosts
	s.rollup.TotalViews = totalViews
	s.rollup.TotalLikes = totalLikes
	s.rollup.TotalComments = totalComments
	s.averagesLocked()
}

// averagesLocked derives the averages from the current totals
func (s *AnalyticsStore) averagesLocked() {
	if s.rollup.TotalPosts == 0 {
		s.rollup.AvgLikes = 0
		s.rollup.AvgComments = 0
		s.rollup.AvgViews = 0
		return
	}
	n := float64(s.rollup.TotalPosts)
	s.rollup.AvgLikes = round1(float64(s.rollup.TotalLikes) / n)
	s.rollup.AvgComments = round1(float64(s.rollup.TotalComments) / n)
	s.rollup.AvgViews = round1(float64(s.rollup.TotalViews) / n)
}

// Get returns the aggregate for a post, falling back to the supplied defaults
func (s *AnalyticsStore) Get(postID int64, defaults models.PostStats) models.PostStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.stats[postID]; ok {
		return st
	}
	return defaults
}

// Rollup returns a copy of the creator rollup
func (s *AnalyticsStore) Rollup() models.CreatorStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rollup
}

// ApplyLike folds a like change into the per-post aggregate and maintains the
// rollup incrementally: the like delta is applied to the total rather than
// resumming every post.
func (s *AnalyticsStore) ApplyLike(postID int64, isLiked bool, likeCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, known := s.stats[postID]
	delta := likeCount - st.LikeCount
	st.IsLiked = isLiked
	st.LikeCount = likeCount
	s.stats[postID] = st

	if !known {
		s.rollup.TotalPosts = len(s.stats)
	}
	s.rollup.TotalLikes += delta
	s.averagesLocked()
}

// ApplyComments is the symmetric incremental update for comment counts
func (s *AnalyticsStore) ApplyComments(postID int64, commentCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, known := s.stats[postID]
	delta := commentCount - st.CommentCount
	st.CommentCount = commentCount
	s.stats[postID] = st

	if !known {
		s.rollup.TotalPosts = len(s.stats)
	}
	s.rollup.TotalComments += delta
	s.averagesLocked()
}

// ApplySaved records the saved flag for a post. Saved state does not feed
// the rollup.
func (s *AnalyticsStore) ApplySaved(postID int64, isSaved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stats[postID]
	st.IsSaved = isSaved
	s.stats[postID] = st
}

// IncrementViews bumps the local view counter for a post. The backend already
// counted the view during the detail fetch, so this is cosmetic and never
// re-synced.
func (s *AnalyticsStore) IncrementViews(postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, known := s.stats[postID]
	st.Views++
	s.stats[postID] = st

	if !known {
		s.rollup.TotalPosts = len(s.stats)
	}
	s.rollup.TotalViews++
	s.averagesLocked()
}

// SetAudience records follower/following counts fetched from the backend
func (s *AnalyticsStore) SetAudience(followers, following int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollup.Followers = followers
	s.rollup.Following = following
}

// Refresh pulls fresh audience counters and the user's own posts from the
// backend. Partial failures are logged and skipped; whatever succeeded is
// applied. No-op when signed out.
func (s *AnalyticsStore) Refresh(ctx context.Context) {
	if s.auth != nil && !s.auth.SignedIn() {
		return
	}

	following := -1
	if users, err := s.api.ListFollowing(ctx); err != nil {
		s.logger.Warn("Failed to fetch following list", zap.Error(err))
	} else {
		following = len(users)
	}

	if stats, err := s.api.GetUserStats(ctx); err != nil {
		s.logger.Warn("Failed to fetch user stats", zap.Error(err))
		if following >= 0 {
			s.mu.Lock()
			s.rollup.Following = following
			s.mu.Unlock()
		}
	} else {
		f := stats.Followers
		s.mu.Lock()
		s.rollup.Followers = f
		if following >= 0 {
			s.rollup.Following = following
		}
		s.mu.Unlock()
	}

	if posts, err := s.api.ListUserPosts(ctx); err != nil {
		s.logger.Warn("Failed to fetch user posts", zap.Error(err))
	} else {
		s.Seed(posts)
	}
}

// Reset drops all aggregates and zeroes the rollup
func (s *AnalyticsStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[int64]models.PostStats)
	s.rollup = models.CreatorStats{}
}
