package dispatch

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue implements Queue in memory for testing and local
// development. Semantics mirror the Redis implementation: one entry per
// task id, enqueue replaces the due time, pop is atomic under the lock.
type MemoryQueue struct {
	mu      sync.Mutex
	entries map[uuid.UUID]time.Time
}

// NewMemoryQueue creates an empty in-memory dispatch queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		entries: make(map[uuid.UUID]time.Time),
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, taskID uuid.UUID, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[taskID] = time.Now().Add(delay)
	return nil
}

func (q *MemoryQueue) Cancel(_ context.Context, taskID uuid.UUID) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.entries[taskID]; !ok {
		return false, nil
	}
	delete(q.entries, taskID)
	return true, nil
}

func (q *MemoryQueue) PopDue(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	type entry struct {
		id  uuid.UUID
		due time.Time
	}
	due := make([]entry, 0)
	for id, t := range q.entries {
		if !t.After(now) {
			due = append(due, entry{id: id, due: t})
		}
	}
	slices.SortFunc(due, func(a, b entry) int {
		return a.due.Compare(b.due)
	})
	if len(due) > limit {
		due = due[:limit]
	}

	ids := make([]uuid.UUID, 0, len(due))
	for _, e := range due {
		delete(q.entries, e.id)
		ids = append(ids, e.id)
	}
	return ids, nil
}

func (q *MemoryQueue) Contains(_ context.Context, taskID uuid.UUID) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.entries[taskID]
	return ok, nil
}

// DueAt reports the due time of a queued entry. Test helper.
func (q *MemoryQueue) DueAt(taskID uuid.UUID) (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t, ok := q.entries[taskID]
	return t, ok
}
