package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Queue is the delayed dispatch capability the scheduling core depends
// on. Entries are keyed by task id: enqueueing an id that is already
// queued replaces its due time instead of duplicating it, which makes
// transport-level retries of a schedule request harmless.
//
// The queue holds no authoritative task state. It is purely a
// time-delayed trigger; the task store remains the source of truth and
// the worker re-checks it before acting on anything popped here.
type Queue interface {
	// Enqueue schedules taskID for availability no earlier than
	// now + max(0, delay).
	Enqueue(ctx context.Context, taskID uuid.UUID, delay time.Duration) error

	// Cancel removes a not-yet-dispatched entry. Returns false if the
	// entry was already dispatched or never existed; that result is
	// advisory, not an error.
	Cancel(ctx context.Context, taskID uuid.UUID) (bool, error)

	// PopDue atomically removes and returns up to limit entries whose
	// due time is at or before now. Each entry is returned to exactly
	// one caller per enqueue.
	PopDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)

	// Contains reports whether taskID currently has a queued entry.
	Contains(ctx context.Context, taskID uuid.UUID) (bool, error)
}
