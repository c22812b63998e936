// services/session.go - Server-side session state
package services

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SessionTTL is fixed from issuance; the lifetime does not slide on use.
const SessionTTL = 24 * time.Hour

type sessionEntry struct {
	userID    uint
	expiresAt time.Time
}

// SessionStore maps opaque tokens to an identity and expiry. State is held
// in memory only, so sessions do not survive a process restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	clock    clockwork.Clock
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(clockwork.NewRealClock())
}

func NewSessionStoreWithClock(clock clockwork.Clock) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		ttl:      SessionTTL,
		clock:    clock,
	}
}

// Create issues a new opaque token for the given user. Expired entries are
// swept here so the store stays bounded without a background timer.
func (s *SessionStore) Create(userID uint) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", err
	}

	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for t, entry := range s.sessions {
		if entry.expiresAt.Before(now) {
			delete(s.sessions, t)
		}
	}

	s.sessions[token] = sessionEntry{
		userID:    userID,
		expiresAt: now.Add(s.ttl),
	}

	return token, nil
}

// Get resolves a token to its user ID. Returns false for tokens that are
// unknown or past their expiry.
func (s *SessionStore) Get(token string) (uint, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return 0, false
	}

	if entry.expiresAt.Before(s.clock.Now()) {
		s.Destroy(token)
		return 0, false
	}

	return entry.userID, true
}

// Destroy removes a session. Idempotent: destroying an unknown or already
// destroyed token is a no-op.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Count returns the number of live entries, expired ones included until the
// next sweep.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func generateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
