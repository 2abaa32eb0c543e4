package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/steemit/condenser/internal/cache"
	"github.com/steemit/condenser/internal/models"
	"github.com/steemit/condenser/pkg/config"
	"github.com/steemit/condenser/pkg/logging"
)

// Manager owns the signed-in credential and user identity. Stores register
// reset hooks so that a sign-out or an identity switch drops every piece of
// the previous account's optimistic state before the new account can read it.
type Manager struct {
	mu    sync.RWMutex
	token string
	user  *models.User

	store     *cache.Cache
	keyPrefix string
	ttl       configTTL

	resetHooks []func()
	logger     *zap.Logger
}

type configTTL = config.SessionConfig

// record is the persisted session shape
type record struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// NewManager creates a session manager. store may be nil (no persistence).
func NewManager(cfg *config.SessionConfig, store *cache.Cache) *Manager {
	return &Manager{
		store:     store,
		keyPrefix: cfg.KeyPrefix,
		ttl:       *cfg,
		logger:    logging.GetLogger().With(zap.String("component", "session")),
	}
}

// Token returns the current bearer token, empty when signed out.
// Implements backend.CredentialSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns the signed-in user, nil when signed out
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// SignedIn reports whether a user is signed in
func (m *Manager) SignedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.user != nil
}

// OnReset registers a hook fired on sign-out and on identity change
func (m *Manager) OnReset(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetHooks = append(m.resetHooks, fn)
}

// SignIn adopts a credential. When the user id is absent from the payload it
// is extracted from the token claims. If the identity differs from the
// current one, reset hooks fire first so no optimistic state leaks across
// accounts.
func (m *Manager) SignIn(token string, user models.User) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if user.ID == 0 {
		id, err := UserIDFromToken(token)
		if err != nil {
			return fmt.Errorf("cannot determine user identity: %w", err)
		}
		user.ID = id
	}

	m.mu.Lock()
	changed := m.user == nil || m.user.ID != user.ID
	hooks := m.resetHooks
	m.token = token
	u := user
	m.user = &u
	m.mu.Unlock()

	if changed {
		for _, fn := range hooks {
			fn()
		}
	}

	if err := m.persist(); err != nil && err != cache.ErrCacheDisabled {
		m.logger.Warn("Failed to persist session", zap.Error(err))
	}

	m.logger.Info("User signed in", zap.Int64("user_id", user.ID))
	return nil
}

// SignOut clears the session and fires reset hooks
func (m *Manager) SignOut() {
	m.mu.Lock()
	wasSignedIn := m.token != ""
	m.token = ""
	m.user = nil
	hooks := m.resetHooks
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if err := m.store.Delete(m.key()); err != nil && err != cache.ErrCacheDisabled {
		m.logger.Warn("Failed to clear persisted session", zap.Error(err))
	}

	if wasSignedIn {
		m.logger.Info("User signed out")
	}
}

// Restore loads a persisted session, if any. Called once at startup.
func (m *Manager) Restore() error {
	var rec record
	if err := m.store.GetJSON(m.key(), &rec); err != nil {
		if err == cache.ErrCacheDisabled || cache.IsMiss(err) {
			return nil
		}
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if rec.Token == "" || rec.User.ID == 0 {
		return nil
	}

	m.mu.Lock()
	m.token = rec.Token
	u := rec.User
	m.user = &u
	m.mu.Unlock()

	m.logger.Info("Session restored", zap.Int64("user_id", rec.User.ID))
	return nil
}

func (m *Manager) persist() error {
	m.mu.RLock()
	rec := record{Token: m.token}
	if m.user != nil {
		rec.User = *m.user
	}
	ttl := m.ttl.TTL
	m.mu.RUnlock()

	return m.store.SetJSON(m.key(), rec, ttl)
}

func (m *Manager) key() string {
	return m.keyPrefix + ":current"
}
