package store

import (
	"context"
	"testing"

	"github.com/steemit/condenser/internal/models"
)

func seedPosts() []models.Post {
	return []models.Post{
		{ID: 1, ViewCount: 10, LikeCount: 3, CommentCount: 1},
		{ID: 2, ViewCount: 20, LikeCount: 5, CommentCount: 0},
		{ID: 3, ViewCount: 0, LikeCount: 0, CommentCount: 4},
	}
}

// recomputeRollup is the from-scratch reference the incremental rollup must
// always match.
func recomputeRollup(stats map[int64]models.PostStats) models.CreatorStats {
	r := models.CreatorStats{TotalPosts: len(stats)}
	for _, st := range stats {
		r.TotalViews += st.Views
		r.TotalLikes += st.LikeCount
		r.TotalComments += st.CommentCount
	}
	if r.TotalPosts > 0 {
		n := float64(r.TotalPosts)
		r.AvgLikes = round1(float64(r.TotalLikes) / n)
		r.AvgComments = round1(float64(r.TotalComments) / n)
		r.AvgViews = round1(float64(r.TotalViews) / n)
	}
	return r
}

func TestSeedRollup(t *testing.T) {
	s := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, nil)
	s.Seed(seedPosts())

	r := s.Rollup()
	if r.TotalPosts != 3 || r.TotalViews != 30 || r.TotalLikes != 8 || r.TotalComments != 5 {
		t.Errorf("rollup totals = %+v", r)
	}
	if r.AvgLikes != 2.7 || r.AvgComments != 1.7 || r.AvgViews != 10.0 {
		t.Errorf("rollup averages = %+v, want 2.7/1.7/10.0", r)
	}
}

func TestSeedEmpty(t *testing.T) {
	s := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, nil)
	s.Seed(nil)

	r := s.Rollup()
	if r != (models.CreatorStats{}) {
		t.Errorf("empty seed rollup = %+v, want all zero", r)
	}
}

func TestIncrementalMatchesFullRecompute(t *testing.T) {
	s := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, nil)
	posts := seedPosts()
	s.Seed(posts)

	// Shadow copy the test maintains independently
	shadow := make(map[int64]models.PostStats)
	for _, p := range posts {
		shadow[p.ID] = models.PostStats{Views: p.ViewCount, LikeCount: p.LikeCount, CommentCount: p.CommentCount}
	}

	ops := []struct {
		postID int64
		liked  bool
		count  int
	}{
		{1, true, 4},
		{2, false, 4},
		{1, false, 3},
		{4, true, 1}, // previously unknown post
		{3, true, 1},
		{1, true, 4},
	}

	for _, op := range ops {
		s.ApplyLike(op.postID, op.liked, op.count)
		st := shadow[op.postID]
		st.IsLiked = op.liked
		st.LikeCount = op.count
		shadow[op.postID] = st

		want := recomputeRollup(shadow)
		got := s.Rollup()
		if got.TotalLikes != want.TotalLikes || got.TotalPosts != want.TotalPosts || got.AvgLikes != want.AvgLikes {
			t.Fatalf("after ApplyLike(%d, %v, %d): incremental %+v != recompute %+v",
				op.postID, op.liked, op.count, got, want)
		}
	}
}

func TestApplyComments(t *testing.T) {
	s := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, nil)
	s.Seed(seedPosts())

	s.ApplyComments(1, 2) // 1 -> 2
	r := s.Rollup()
	if r.TotalComments != 6 {
		t.Errorf("TotalComments = %d, want 6", r.TotalComments)
	}
	if r.AvgComments != 2.0 {
		t.Errorf("AvgComments = %v, want 2.0", r.AvgComments)
	}
}

func TestIncrementViews(t *testing.T) {
	s := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, nil)
	s.Seed(seedPosts())

	s.IncrementViews(2)
	r := s.Rollup()
	if r.TotalViews != 31 {
		t.Errorf("TotalViews = %d, want 31", r.TotalViews)
	}
	if got := s.Get(2, models.PostStats{}); got.Views != 21 {
		t.Errorf("post views = %d, want 21", got.Views)
	}
}

func TestLikeEventsDriveAnalytics(t *testing.T) {
	// The like store publishes; the analytics store subscribes. No direct
	// coupling between the two.
	bus := NewBus()
	analytics := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, bus)
	likes := NewLikeStore(&fakeLikeAPI{}, &fakeAuth{signedIn: true}, bus)

	likes.Seed(seedPosts())
	if r := analytics.Rollup(); r.TotalLikes != 8 {
		t.Fatalf("seed did not propagate: %+v", r)
	}

	likes.Set(1, true, 4)
	if r := analytics.Rollup(); r.TotalLikes != 9 {
		t.Errorf("TotalLikes after like event = %d, want 9", r.TotalLikes)
	}
}

func TestRefresh(t *testing.T) {
	api := &fakeAnalyticsAPI{
		following: []models.User{{ID: 2}, {ID: 3}},
		stats:     &models.UserStats{Followers: 7, Following: 99}, // following from list wins
		posts:     seedPosts(),
	}
	s := NewAnalyticsStore(api, &fakeAuth{signedIn: true}, nil)

	s.Refresh(context.Background())

	r := s.Rollup()
	if r.Followers != 7 || r.Following != 2 {
		t.Errorf("audience = followers %d following %d, want 7/2", r.Followers, r.Following)
	}
	if r.TotalPosts != 3 {
		t.Errorf("TotalPosts = %d, want 3", r.TotalPosts)
	}
}

func TestRefreshSignedOut(t *testing.T) {
	api := &fakeAnalyticsAPI{posts: seedPosts()}
	s := NewAnalyticsStore(api, &fakeAuth{signedIn: false}, nil)

	s.Refresh(context.Background())
	if r := s.Rollup(); r.TotalPosts != 0 {
		t.Errorf("signed-out refresh mutated state: %+v", r)
	}
}

func TestAnalyticsReset(t *testing.T) {
	s := NewAnalyticsStore(&fakeAnalyticsAPI{}, &fakeAuth{signedIn: true}, nil)
	s.Seed(seedPosts())
	s.SetAudience(4, 5)
	s.Reset()

	if r := s.Rollup(); r != (models.CreatorStats{}) {
		t.Errorf("rollup after reset = %+v, want zero", r)
	}
}
