package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/activity-finder/internal/domain/activity"
)

type sessionRecord struct {
	state     activity.SessionState
	expiresAt time.Time
}

// MemoryStore keeps session state in process memory with an idle TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionRecord
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs a store. A non-positive ttl keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]sessionRecord),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load implements activity.SessionStore.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (activity.SessionState, bool, error) {
	s.mu.RLock()
	record, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return activity.SessionState{}, false, nil
	}
	if s.expired(record.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return activity.SessionState{}, false, nil
	}
	state := record.state
	state.SeenActivities = append([]string(nil), record.state.SeenActivities...)
	return state, true, nil
}

// Save implements activity.SessionStore and refreshes the session's TTL.
func (s *MemoryStore) Save(_ context.Context, sessionID string, state activity.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	state.SeenActivities = append([]string(nil), state.SeenActivities...)
	s.sessions[sessionID] = sessionRecord{state: state, expiresAt: exp}
	s.sweepLocked()
	return nil
}

func (s *MemoryStore) sweepLocked() {
	for id, record := range s.sessions {
		if s.expired(record.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ activity.SessionStore = (*MemoryStore)(nil)
