package store

import (
	"context"
	"errors"
	"testing"

	"github.com/steemit/condenser/internal/backend"
	"github.com/steemit/condenser/internal/models"
)

func TestFollowLoad(t *testing.T) {
	api := &fakeFollowAPI{following: []models.User{{ID: 2}, {ID: 5}}}
	s := NewFollowStore(api, &fakeAuth{signedIn: true})

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !s.IsFollowing(2) || !s.IsFollowing(5) || s.IsFollowing(3) {
		t.Error("following set does not match backend list")
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
}

func TestFollowToggleOptimisticRevert(t *testing.T) {
	api := &fakeFollowAPI{err: errors.New("down")}
	s := NewFollowStore(api, &fakeAuth{signedIn: true})

	if _, err := s.Toggle(context.Background(), 9); err == nil {
		t.Fatal("Toggle() should propagate the failure")
	}
	if s.IsFollowing(9) {
		t.Error("failed follow must revert to not-following")
	}
}

func TestFollowToggleServerWins(t *testing.T) {
	api := &fakeFollowAPI{result: &backend.FollowResult{Following: true}}
	s := NewFollowStore(api, &fakeAuth{signedIn: true})

	following, err := s.Toggle(context.Background(), 9)
	if err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if !following || !s.IsFollowing(9) {
		t.Error("server-confirmed follow should be recorded")
	}
}

func TestFollowToggleRequiresAuth(t *testing.T) {
	s := NewFollowStore(&fakeFollowAPI{}, &fakeAuth{signedIn: false})

	_, err := s.Toggle(context.Background(), 1)
	if !errors.Is(err, backend.ErrAuthRequired) {
		t.Fatalf("Toggle() error = %v, want ErrAuthRequired", err)
	}
}

func TestFollowReset(t *testing.T) {
	api := &fakeFollowAPI{following: []models.User{{ID: 2}}}
	s := NewFollowStore(api, &fakeAuth{signedIn: true})
	s.Load(context.Background())

	s.Reset()
	if s.Count() != 0 {
		t.Errorf("Count() after reset = %d, want 0", s.Count())
	}
}
