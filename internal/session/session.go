// Package session holds runtime state shared by the control transports.
package session

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"
)

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Logins       int
	InputEnabled bool
	Injected     uint64
	Failed       uint64
}

// Session holds issued login tokens, the input gate, and injection counters.
type Session struct {
	mu           sync.RWMutex
	password     string
	open         bool
	tokens       map[string]struct{}
	inputEnabled bool
	injected     uint64
	failed       uint64
}

// New returns an initialized session with the given password.
func New(password string) *Session {
	return &Session{
		password:     password,
		tokens:       map[string]struct{}{},
		inputEnabled: true,
	}
}

// NewOpen returns a session that needs no password, for development setups.
func NewOpen() *Session {
	s := New("")
	s.open = true
	return s
}

// Login validates the password and issues a token identifying this login.
func (s *Session) Login(pass string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open && !s.matches(pass) {
		return "", false
	}
	token := uuid.NewString()
	s.tokens[token] = struct{}{}
	return token, true
}

// Authorize reports whether token is a live login token or the password itself.
// Open sessions authorize every request.
func (s *Session) Authorize(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.open {
		return true
	}
	if token == "" {
		return false
	}
	if _, ok := s.tokens[token]; ok {
		return true
	}
	return s.matches(token)
}

// Logout revokes a login token. Unknown tokens are ignored.
func (s *Session) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Open reports whether the session runs without a password.
func (s *Session) Open() bool {
	return s.open
}

// SetInputEnabled toggles whether inputs are forwarded to the host.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether inputs are forwarded to the host.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// RecordResult counts one simulate outcome.
func (s *Session) RecordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failed++
		return
	}
	s.injected++
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Logins:       len(s.tokens),
		InputEnabled: s.inputEnabled,
		Injected:     s.injected,
		Failed:       s.failed,
	}
}

// matches compares a candidate secret in constant time. Callers hold mu.
func (s *Session) matches(candidate string) bool {
	if candidate == "" || s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.password)) == 1
}
