package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/backend"
	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/pkg/logging"
)

// FollowAPI is the slice of the backend the follow store needs
type FollowAPI interface {
	ListFollowing(ctx context.Context) ([]models.User, error)
	FollowUser(ctx context.Context, userID int64) (*backend.FollowResult, error)
}

// FollowStore holds the set of user ids the signed-in user follows, with the
// same guard/optimistic/reconcile shape as the like store.
type FollowStore struct {
	mu        sync.RWMutex
	following map[int64]bool
	gen       uint64

	api    FollowAPI
	auth   Authorizer
	logger *zap.Logger
}

// NewFollowStore creates a follow store
func NewFollowStore(api FollowAPI, auth Authorizer) *FollowStore {
	return &FollowStore{
		following: make(map[int64]bool),
		api:       api,
		auth:      auth,
		logger:    logging.WithComponent("follow-store"),
	}
}

// Load replaces the set from the backend's following list. No-op when
// signed out.
func (s *FollowStore) Load(ctx context.Context) error {
	if s.auth != nil && !s.auth.SignedIn() {
		s.Reset()
		return nil
	}

	users, err := s.api.ListFollowing(ctx)
	if err != nil {
		s.logger.Warn("Failed to load following list", zap.Error(err))
		return err
	}

	set := make(map[int64]bool, len(users))
	for _, u := range users {
		set[u.ID] = true
	}

	s.mu.Lock()
	s.following = set
	s.mu.Unlock()
	return nil
}

// IsFollowing reports whether a user is in the following set
func (s *FollowStore) IsFollowing(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.following[userID]
}

// Count returns the size of the following set
func (s *FollowStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.following)
}

// Toggle follows or unfollows a user optimistically, reconciling with the
// server's authoritative answer and reverting the exact prior membership on
// failure.
func (s *FollowStore) Toggle(ctx context.Context, userID int64) (bool, error) {
	if s.auth != nil && !s.auth.SignedIn() {
		return false, backend.ErrAuthRequired
	}

	s.mu.Lock()
	wasFollowing := s.following[userID]
	gen := s.gen
	s.mu.Unlock()

	var final bool
	err := RunMutation(ctx, Mutation{
		Apply: func() {
			s.setIfCurrent(gen, userID, !wasFollowing)
			final = !wasFollowing
		},
		Commit: func(ctx context.Context) error {
			result, err := s.api.FollowUser(ctx, userID)
			if err != nil {
				return err
			}
			s.setIfCurrent(gen, userID, result.Following)
			final = result.Following
			return nil
		},
		Revert: func() {
			s.setIfCurrent(gen, userID, wasFollowing)
			final = wasFollowing
		},
	})
	if err != nil {
		s.logger.Warn("Follow toggle failed, state reverted",
			zap.Int64("user_id", userID), zap.Error(err))
		return final, err
	}

	return final, nil
}

func (s *FollowStore) setIfCurrent(gen uint64, userID int64, following bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	if following {
		s.following[userID] = true
	} else {
		delete(s.following, userID)
	}
}

// Reset drops the following set. Called on sign-out and on account switch.
func (s *FollowStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.following = make(map[int64]bool)
	s.gen++
}
