// internal/auth/session.go
package auth

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore maps opaque session tokens to the authenticated user's id.
// State lives for the lifetime of the process; sessions are never expired.
type SessionStore struct {
	mu    sync.RWMutex
	users map[string]int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		users: make(map[string]int64),
	}
}

// NewToken returns a fresh opaque session token.
func (s *SessionStore) NewToken() string {
	return uuid.NewString()
}

// Establish records that token is authenticated as userID.
func (s *SessionStore) Establish(token string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[token] = userID
}

// UserID returns the user id bound to token, if any.
func (s *SessionStore) UserID(token string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.users[token]
	return userID, ok
}

// IsAuthenticated reports whether a user id is bound to token.
func (s *SessionStore) IsAuthenticated(token string) bool {
	_, ok := s.UserID(token)
	return ok
}
