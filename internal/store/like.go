package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/backend"
	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/pkg/logging"
)

// LikeAPI is the slice of the backend the like store needs
type LikeAPI interface {
	LikePost(ctx context.Context, id int64) (*backend.LikeResult, error)
}

// LikeStore holds per-post like overrides. An override takes precedence over
// the values embedded in a fetched post; absent an override, reads fall back
// to caller-supplied defaults. Overrides never outlive the signed-in user.
type LikeStore struct {
	mu        sync.RWMutex
	overrides map[int64]models.LikeState
	inflight  map[int64]int
	gen       uint64

	api    LikeAPI
	auth   Authorizer
	bus    *Bus
	logger *zap.Logger
}

// NewLikeStore creates a like store wired to the event bus
func NewLikeStore(api LikeAPI, auth Authorizer, bus *Bus) *LikeStore {
	return &LikeStore{
		overrides: make(map[int64]models.LikeState),
		inflight:  make(map[int64]int),
		api:       api,
		auth:      auth,
		bus:       bus,
		logger:    logging.WithComponent("like-store"),
	}
}

// Get returns the override for a post, or the caller-supplied defaults when
// none exists yet (first render of a freshly fetched post).
func (s *LikeStore) Get(postID int64, defaultLiked bool, defaultCount int) models.LikeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.overrides[postID]; ok {
		return st
	}
	return models.LikeState{IsLiked: defaultLiked, LikeCount: defaultCount}
}

// Set unconditionally overwrites the override and publishes the change
func (s *LikeStore) Set(postID int64, isLiked bool, likeCount int) {
	s.mu.Lock()
	s.overrides[postID] = models.LikeState{IsLiked: isLiked, LikeCount: likeCount}
	s.mu.Unlock()

	s.bus.PublishLike(LikeEvent{PostID: postID, IsLiked: isLiked, LikeCount: likeCount})
}

// Seed bulk-loads overrides from a fetched post list and forwards the list to
// seed subscribers. A post with an in-flight Toggle is skipped: its local
// override is logically more current than the fetched snapshot, and the
// reconcile that follows will install the authoritative server state anyway.
func (s *LikeStore) Seed(posts []models.Post) {
	s.mu.Lock()
	for _, p := range posts {
		if s.inflight[p.ID] > 0 {
			continue
		}
		s.overrides[p.ID] = models.LikeState{IsLiked: p.IsLiked, LikeCount: p.LikeCount}
	}
	s.mu.Unlock()

	s.bus.PublishSeed(posts)
}

// Toggle flips the like on a post: auth guard, synchronous optimistic apply,
// server round-trip, then reconcile with the server's authoritative state or
// revert to the exact pre-action values on failure. currentLiked and
// currentCount are the values the caller is displaying.
func (s *LikeStore) Toggle(ctx context.Context, postID int64, currentLiked bool, currentCount int) (models.LikeState, error) {
	if s.auth != nil && !s.auth.SignedIn() {
		return models.LikeState{IsLiked: currentLiked, LikeCount: currentCount}, backend.ErrAuthRequired
	}

	newLiked := !currentLiked
	newCount := currentCount + 1
	if !newLiked {
		newCount = currentCount - 1
		if newCount < 0 {
			newCount = 0
		}
	}

	s.mu.Lock()
	s.inflight[postID]++
	gen := s.gen
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inflight[postID] > 0 {
			s.inflight[postID]--
		}
		s.mu.Unlock()
	}()

	var final models.LikeState
	err := RunMutation(ctx, Mutation{
		Apply: func() {
			s.setIfCurrent(gen, postID, newLiked, newCount)
			final = models.LikeState{IsLiked: newLiked, LikeCount: newCount}
		},
		Commit: func(ctx context.Context) error {
			result, err := s.api.LikePost(ctx, postID)
			if err != nil {
				return err
			}
			// Server is the source of truth; it may disagree with the
			// optimistic guess under concurrent likes from other users.
			s.setIfCurrent(gen, postID, result.Liked, result.LikeCount)
			final = models.LikeState{IsLiked: result.Liked, LikeCount: result.LikeCount}
			return nil
		},
		Revert: func() {
			s.setIfCurrent(gen, postID, currentLiked, currentCount)
			final = models.LikeState{IsLiked: currentLiked, LikeCount: currentCount}
		},
	})
	if err != nil {
		s.logger.Warn("Like toggle failed, state reverted",
			zap.Int64("post_id", postID), zap.Error(err))
		return final, err
	}

	return final, nil
}

// setIfCurrent writes an override unless the store was reset after the
// owning mutation started. A reconcile from the previous account must not
// resurrect state for the next one.
func (s *LikeStore) setIfCurrent(gen uint64, postID int64, isLiked bool, likeCount int) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.overrides[postID] = models.LikeState{IsLiked: isLiked, LikeCount: likeCount}
	s.mu.Unlock()

	s.bus.PublishLike(LikeEvent{PostID: postID, IsLiked: isLiked, LikeCount: likeCount})
}

// Len returns the number of overrides currently held
func (s *LikeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.overrides)
}

// Reset drops every override. Called on sign-out and on account switch.
func (s *LikeStore) Reset() {
	s.mu.Lock()
	s.overrides = make(map[int64]models.LikeState)
	s.inflight = make(map[int64]int)
	s.gen++
	s.mu.Unlock()
}
