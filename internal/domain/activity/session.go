package activity

import (
	"context"
	"sync"
)

// SessionStore persists suggestion state for a single browsing session.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (SessionState, bool, error)
	Save(ctx context.Context, sessionID string, state SessionState) error
}

// Tracker serialises read-modify-write cycles on a session's state so two
// requests from the same session cannot lose each other's updates.
// Different sessions never contend.
type Tracker struct {
	store SessionStore
	locks *keyedMutex
}

// NewTracker wraps a session store with per-session locking.
func NewTracker(store SessionStore) *Tracker {
	return &Tracker{store: store, locks: newKeyedMutex()}
}

// Lock acquires the session's mutex. The returned func releases it.
func (t *Tracker) Lock(sessionID string) func() {
	return t.locks.lock(sessionID)
}

// Load reads the session state. Callers mutating state must hold Lock.
func (t *Tracker) Load(ctx context.Context, sessionID string) (SessionState, bool, error) {
	return t.store.Load(ctx, sessionID)
}

// Save writes the session state. Callers must hold Lock.
func (t *Tracker) Save(ctx context.Context, sessionID string, state SessionState) error {
	return t.store.Save(ctx, sessionID, state)
}

// MarkSeen appends places not yet present, keeping the list free of duplicates.
func MarkSeen(seen []string, places ...string) []string {
	index := make(map[string]struct{}, len(seen)+len(places))
	for _, place := range seen {
		index[place] = struct{}{}
	}
	for _, place := range places {
		if _, ok := index[place]; ok {
			continue
		}
		index[place] = struct{}{}
		seen = append(seen, place)
	}
	return seen
}

// Forget removes every occurrence of place from the seen list.
func Forget(seen []string, place string) []string {
	out := make([]string, 0, len(seen))
	for _, s := range seen {
		if s == place {
			continue
		}
		out = append(out, s)
	}
	return out
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
