package ads

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session holds the ad visibility state of one visitor session. A slot is
// shown at most once per session.
type Session struct {
	mu    sync.Mutex
	shown map[string]string // slot -> placement id
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{shown: make(map[string]string)}
}

// Decide reports whether p should be shown, and records the slot as shown
// when it should.
func (s *Session) Decide(p Placement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.shown[p.Slot]; seen {
		return false
	}
	s.shown[p.Slot] = p.ID
	return true
}

// Reset forgets every shown slot.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = make(map[string]string)
}

// SessionStore keeps a bounded number of sessions, each living for ttl
// after creation.
type SessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

// NewSessionStore creates a store holding at most size sessions.
func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	if size <= 0 {
		size = 10000
	}
	return &SessionStore{
		sessions: expirable.NewLRU[string, *Session](size, nil, ttl),
	}
}

// Get returns the session for id, creating it if it is unknown or expired.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions.Get(id); ok {
		return s
	}
	s := NewSession()
	st.sessions.Add(id, s)
	return s
}

// End clears and drops the session for id. Callers still holding the
// session see it empty. It reports whether a session existed.
func (st *SessionStore) End(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions.Peek(id); ok {
		s.Reset()
	}
	return st.sessions.Remove(id)
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	return st.sessions.Len()
}
