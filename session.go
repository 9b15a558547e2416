package widgetdemo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the HTTP session id.
const SessionCookie = "widgetdemo-session"

// DefaultSessionTTL is how long an idle HTTP session is kept.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore manages state for HTTP connections
type SessionStore interface {
	Get(sessionID string) interface{}
	Set(sessionID string, state interface{})
	Delete(sessionID string)
	Len() int
}

type sessionEntry struct {
	state      interface{}
	lastAccess time.Time
}

// MemorySessionStore is an in-memory session store. Sessions idle for
// longer than the TTL are dropped on access or by Cleanup.
type MemorySessionStore struct {
	sessions map[string]*sessionEntry
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates a store with DefaultSessionTTL
func NewMemorySessionStore() *MemorySessionStore {
	return NewMemorySessionStoreTTL(DefaultSessionTTL)
}

// NewMemorySessionStoreTTL creates a store that expires sessions idle for
// longer than ttl. Zero means DefaultSessionTTL.
func NewMemorySessionStoreTTL(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get retrieves a session and refreshes its last access time
func (s *MemorySessionStore) Get(sessionID string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	now := s.now()
	if now.Sub(entry.lastAccess) > s.ttl {
		delete(s.sessions, sessionID)
		return nil
	}
	entry.lastAccess = now
	return entry.state
}

// Set stores a session
func (s *MemorySessionStore) Set(sessionID string, state interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &sessionEntry{state: state, lastAccess: s.now()}
}

// Delete removes a session
func (s *MemorySessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of stored sessions, expired ones included until
// the next Cleanup
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were removed
func (s *MemorySessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	cutoff := s.now().Add(-s.ttl)
	for id, entry := range s.sessions {
		if entry.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			count++
		}
	}
	return count
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *MemorySessionStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func newSessionID() string {
	return uuid.NewString()
}
