package store

import (
	"sync"

	"github.com/steemit/condenser/internal/models"
)

// LikeEvent is published whenever a post's like override changes,
// optimistically or after reconciliation.
type LikeEvent struct {
	PostID    int64
	IsLiked   bool
	LikeCount int
}

// CommentEvent is published when a post's comment count changes
type CommentEvent struct {
	PostID       int64
	CommentCount int
}

// Bus is the in-process event seam between stores. The like store publishes;
// the analytics store subscribes. Keeping the coupling here makes the
// dependency direction explicit and lets each store be tested alone.
type Bus struct {
	mu               sync.RWMutex
	likeListeners    []func(LikeEvent)
	commentListeners []func(CommentEvent)
	seedListeners    []func([]models.Post)
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeLikes registers a listener for like changes
func (b *Bus) SubscribeLikes(fn func(LikeEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.likeListeners = append(b.likeListeners, fn)
}

// SubscribeComments registers a listener for comment-count changes
func (b *Bus) SubscribeComments(fn func(CommentEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commentListeners = append(b.commentListeners, fn)
}

// SubscribeSeeds registers a listener for bulk post seeding
func (b *Bus) SubscribeSeeds(fn func([]models.Post)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seedListeners = append(b.seedListeners, fn)
}

// PublishLike delivers a like event to all listeners, in registration order
func (b *Bus) PublishLike(ev LikeEvent) {
	b.mu.RLock()
	listeners := b.likeListeners
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// PublishComment delivers a comment event to all listeners
func (b *Bus) PublishComment(ev CommentEvent) {
	b.mu.RLock()
	listeners := b.commentListeners
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// PublishSeed delivers a bulk seed to all listeners
func (b *Bus) PublishSeed(posts []models.Post) {
	b.mu.RLock()
	listeners := b.seedListeners
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(posts)
	}
}
