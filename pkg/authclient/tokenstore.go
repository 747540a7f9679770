// Package authclient holds the client side of the session lifecycle: token
// storage with lazy expiry, a logout broadcast shared by all observers, a
// revalidation heartbeat, and an HTTP client that handles the CSRF dance
// against the gateway.
package authclient

import (
	"sync"
	"time"
)

// DefaultTokenTTL is applied when Store is called with a non-positive TTL.
const DefaultTokenTTL = 12 * time.Hour

// TokenStore keeps the bearer token together with its absolute expiry.
// Expiration is lazy: the expired token is cleared by the Get that first
// observes it, not by a timer.
type TokenStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time // test hook
}

func NewTokenStore() *TokenStore {
	return &TokenStore{now: time.Now}
}

// Store saves the token with an absolute expiry of now+ttl.
func (s *TokenStore) Store(token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = s.now().Add(ttl)
}

// Get returns the token, or "" when none is stored or it has expired.
// Reading an expired token clears the store as a side effect.
func (s *TokenStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return ""
	}
	if !s.now().Before(s.expiresAt) {
		s.token = ""
		s.expiresAt = time.Time{}
		return ""
	}
	return s.token
}

// ExpiringSoon reports whether the token expires within the given window.
// A missing or already expired token reports false; there is nothing left
// to warn about.
func (s *TokenStore) ExpiringSoon(window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return false
	}
	now := s.now()
	if !now.Before(s.expiresAt) {
		return false
	}
	return s.expiresAt.Sub(now) <= window
}

// Clear drops the token immediately.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}
