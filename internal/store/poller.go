package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/steemit/condenser/pkg/logging"
)

// Poller refreshes the unread-notification counter on a fixed interval while
// a user is signed in. It is an explicit start/stop handle owned by the
// session lifecycle: Stop is deterministic, so no timer keeps firing
// authenticated requests after sign-out.
type Poller struct {
	store    *NotificationStore
	auth     Authorizer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	logger *zap.Logger
}

// NewPoller creates a poller for the given notification store
func NewPoller(store *NotificationStore, auth Authorizer, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		store:    store,
		auth:     auth,
		interval: interval,
		logger:   logging.WithComponent("notification-poller"),
	}
}

// Start begins polling. It does not start at all when no user is signed in,
// and is a no-op when already running. The initial refresh (full list plus
// counter) happens immediately; subsequent ticks refresh only the counter.
func (p *Poller) Start() {
	if p.auth != nil && !p.auth.SignedIn() {
		return
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	done := make(chan struct{})
	p.done = done
	p.mu.Unlock()

	p.logger.Info("Notification polling started", zap.Duration("interval", p.interval))

	go p.run(ctx, done)
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.store.Fetch(ctx)
	p.store.FetchUnreadCount(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.store.FetchUnreadCount(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Stop halts polling and waits for the loop to exit. Safe to call when not
// running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	p.logger.Info("Notification polling stopped")
}

// Running reports whether the poll loop is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
