package tweet

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in memory for testing and local
// development. All conditional writes happen under a single mutex,
// giving the same per-tweet atomicity the SQL implementation gets from
// conditional UPDATEs.
type MemoryStore struct {
	mu     sync.RWMutex
	tweets map[uuid.UUID]*Tweet
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tweets: make(map[uuid.UUID]*Tweet),
	}
}

func (ms *MemoryStore) Create(_ context.Context, text string, scheduledAt time.Time, ownerID uuid.UUID) (Tweet, error) {
	if err := validateCreate(text, scheduledAt); err != nil {
		return Tweet{}, err
	}

	t := Tweet{
		ID:          uuid.New(),
		Text:        text,
		ScheduledAt: scheduledAt.UTC(),
		Status:      StatusPending,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	tc := t
	ms.tweets[t.ID] = &tc
	return t, nil
}

func (ms *MemoryStore) Get(_ context.Context, id, ownerID uuid.UUID) (Tweet, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	t, ok := ms.tweets[id]
	if !ok || t.OwnerID != ownerID {
		return Tweet{}, ErrNotFound
	}
	return *t, nil
}

func (ms *MemoryStore) ListPending(_ context.Context, ownerID uuid.UUID) ([]Tweet, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	tweets := make([]Tweet, 0)
	for _, t := range ms.tweets {
		if t.OwnerID == ownerID && t.Status == StatusPending {
			tweets = append(tweets, *t)
		}
	}
	slices.SortFunc(tweets, func(a, b Tweet) int {
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})
	return tweets, nil
}

func (ms *MemoryStore) Claim(_ context.Context, id uuid.UUID) (Tweet, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tweets[id]
	if !ok {
		return Tweet{}, ErrNotFound
	}
	if t.Status != StatusPending {
		return Tweet{}, ErrInvalidTransition
	}
	t.Status = StatusPublishing
	return *t, nil
}

func (ms *MemoryStore) SetStatus(_ context.Context, id uuid.UUID, status Status) error {
	if !status.Terminal() {
		return ErrInvalidTransition
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tweets[id]
	if !ok {
		return ErrNotFound
	}
	if t.Status != StatusPublishing {
		return ErrInvalidTransition
	}
	t.Status = status
	return nil
}

func (ms *MemoryStore) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tweets[id]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}
	if t.Status != StatusPending {
		return ErrNotPending
	}
	delete(ms.tweets, id)
	return nil
}

func (ms *MemoryStore) ListDuePending(_ context.Context, now time.Time, limit int) ([]Tweet, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	tweets := make([]Tweet, 0)
	for _, t := range ms.tweets {
		if t.Status == StatusPending && !t.ScheduledAt.After(now) {
			tweets = append(tweets, *t)
		}
	}
	slices.SortFunc(tweets, func(a, b Tweet) int {
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})
	if limit > 0 && len(tweets) > limit {
		tweets = tweets[:limit]
	}
	return tweets, nil
}
