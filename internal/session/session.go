// Package session holds the current authenticated identity and the durable
// credential material behind it. An expired access token is treated exactly
// like a missing one: the expiry claim is decoded locally, no network
// round-trip.
package session

import (
	"context"
	"sync"
	"time"

	"fixly/internal/domain"
	"fixly/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// AnonymousKey identifies view state recorded before login.
const AnonymousKey = "anonymous"

type Manager struct {
	store  domain.CredentialStore
	views  domain.ViewStateRepository
	logger *zerolog.Logger

	mu      sync.RWMutex
	current *models.User
	access  string
}

// NewManager restores the identity from the credential store. Corrupt or
// expired credentials are cleared so the session starts logged out rather
// than half-authenticated.
func NewManager(store domain.CredentialStore, views domain.ViewStateRepository, logger *zerolog.Logger) *Manager {
	m := &Manager{store: store, views: views, logger: logger}

	creds, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load stored credentials, starting logged out")
		_ = store.Clear()
		return m
	}
	if creds == nil {
		return m
	}

	if tokenExpired(creds.Tokens.Access, time.Now()) {
		logger.Info().Str("username", creds.User.Username).Msg("stored access token expired, clearing credentials")
		_ = store.Clear()
		return m
	}

	user := creds.User
	m.current = &user
	m.access = creds.Tokens.Access
	return m
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Current returns the logged-in user, or nil when anonymous.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	user := *m.current
	return &user
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

// SessionKey keys view state for the current identity.
func (m *Manager) SessionKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return AnonymousKey
	}
	return m.current.Username
}

func (m *Manager) Login(user models.User, tokens models.Tokens) error {
	creds := &models.Credentials{
		User:    user,
		Tokens:  tokens,
		SavedAt: time.Now(),
	}
	if err := m.store.Save(creds); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = &user
	m.access = tokens.Access
	m.mu.Unlock()

	m.logger.Info().Str("username", user.Username).Msg("logged in")
	return nil
}

// Logout clears the credential store and the session's view state, so a
// later unauthenticated session cannot observe stale provider association.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	key := AnonymousKey
	if m.current != nil {
		key = m.current.Username
	}
	m.current = nil
	m.access = ""
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		return err
	}

	if m.views != nil {
		if err := m.views.ClearView(ctx, key); err != nil {
			m.logger.Warn().Err(err).Str("session", key).Msg("failed to clear view state on logout")
		}
	}

	m.logger.Info().Str("session", key).Msg("logged out")
	return nil
}

// tokenExpired decodes the exp claim without verifying the signature; the
// server remains the source of truth, this only avoids presenting a token
// that is already dead.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		// No expiry claim: leave it to the server to reject.
		return false
	}

	return exp.Before(now)
}
