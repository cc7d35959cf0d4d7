package conversation

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned when no live session exists for a key.
var ErrSessionNotFound = errors.New("conversation: session not found")

// SessionStore holds conversational state between turns. Implementations are
// safe for concurrent use; serializing concurrent messages for one session
// key remains the caller's job.
type SessionStore interface {
	Get(ctx context.Context, key string) (*Session, error)
	Upsert(ctx context.Context, sess *Session) error
	Expire(ctx context.Context, key string) error
}

// Defaults for the in-memory store's eviction policy.
const (
	defaultSessionTTL      = 24 * time.Hour
	defaultSessionCapacity = 10000
)

// MemorySessionStore keeps sessions in process memory with TTL- and
// capacity-based eviction, so an abandoned conversation cannot pin memory
// forever.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory session store. Non-positive ttl
// or capacity use the defaults.
func NewMemorySessionStore(ttl time.Duration, capacity int) *MemorySessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if capacity <= 0 {
		capacity = defaultSessionCapacity
	}
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the live session for the key, or ErrSessionNotFound when the
// key is unknown or its session has expired.
func (s *MemorySessionStore) Get(ctx context.Context, key string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().Sub(sess.UpdatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.sessions, key)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	out := *sess
	return &out, nil
}

// Upsert stores the session, refreshing its timestamp and evicting expired
// or over-capacity entries.
func (s *MemorySessionStore) Upsert(ctx context.Context, sess *Session) error {
	stored := *sess
	stored.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[stored.Key] = &stored
	s.sweepLocked()
	return nil
}

// Expire removes the session for the key. Unknown keys are a no-op.
func (s *MemorySessionStore) Expire(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweepLocked drops expired sessions, then evicts the stalest entries while
// over capacity. Caller holds the write lock.
func (s *MemorySessionStore) sweepLocked() {
	now := s.now()
	for key, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > s.ttl {
			delete(s.sessions, key)
		}
	}
	for len(s.sessions) > s.capacity {
		var oldestKey string
		var oldest time.Time
		for key, sess := range s.sessions {
			if oldestKey == "" || sess.UpdatedAt.Before(oldest) {
				oldestKey = key
				oldest = sess.UpdatedAt
			}
		}
		delete(s.sessions, oldestKey)
	}
}
