package identity

import (
	"sync"
	"time"
)

// stateStore keeps PKCE verifiers between the OAuth redirect and the
// callback. Every entry has a bounded lifetime and is removed on first
// use, so the map cannot grow without bound under abandoned handshakes.
type stateStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]stateEntry
	now     func() time.Time
}

type stateEntry struct {
	verifier  string
	expiresAt time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{
		ttl:     ttl,
		entries: make(map[string]stateEntry),
		now:     time.Now,
	}
}

// Put stores the verifier under state, evicting any expired entries
// while the lock is held.
func (s *stateStore) Put(state, verifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if e.expiresAt.Before(now) {
			delete(s.entries, k)
		}
	}

	s.entries[state] = stateEntry{
		verifier:  verifier,
		expiresAt: now.Add(s.ttl),
	}
}

// Take returns the verifier for state and removes it. A state is
// single-use: a second Take, or a Take after expiry, reports false.
func (s *stateStore) Take(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return "", false
	}
	delete(s.entries, state)

	if e.expiresAt.Before(s.now()) {
		return "", false
	}
	return e.verifier, true
}
