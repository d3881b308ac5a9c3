package web

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "session"

// Sessions is an in-memory session token store. Tokens are random UUIDs
// with a fixed TTL; there is no persistence (single controller instance).
type Sessions struct {
	mu       sync.Mutex
	username string
	password string
	ttl      time.Duration
	now      func() time.Time
	tokens   map[string]time.Time // token -> expiry
}

// NewSessions creates a session store gating access with the given
// credentials.
func NewSessions(username, password string, ttl time.Duration) *Sessions {
	return &Sessions{
		username: username,
		password: password,
		ttl:      ttl,
		now:      time.Now,
		tokens:   make(map[string]time.Time),
	}
}

// SetClock overrides the expiry clock, for tests.
func (s *Sessions) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Login checks the credentials and, on success, issues a session token.
func (s *Sessions) Login(username, password string) (string, bool) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", false
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return token, true
}

// Valid reports whether the token identifies a live session. Expired
// tokens are pruned as they are seen.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke removes the token.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
