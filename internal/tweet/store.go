package tweet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the durable record of every scheduled tweet and the single
// source of truth for its status. All serialization between concurrent
// schedulers, cancellers and workers happens through the conditional
// writes below; no caller holds a lock across store operations.
type Store interface {
	// Create persists a new tweet in pending status with a fresh id.
	// Returns ErrEmptyText, ErrTextTooLong or ErrZeroScheduleTime on
	// invalid input.
	Create(ctx context.Context, text string, scheduledAt time.Time, ownerID uuid.UUID) (Tweet, error)

	// Get returns the tweet only if it belongs to ownerID. Cross-owner
	// lookups report ErrNotFound to avoid existence leakage.
	Get(ctx context.Context, id, ownerID uuid.UUID) (Tweet, error)

	// ListPending returns the owner's pending tweets. Order carries no
	// semantic meaning.
	ListPending(ctx context.Context, ownerID uuid.UUID) ([]Tweet, error)

	// Claim atomically moves a tweet from pending to publishing and
	// returns it. This is the worker's re-check and claim in a single
	// conditional write: a tweet that was cancelled, already claimed or
	// already finished yields ErrNotFound or ErrInvalidTransition and
	// must not be published.
	Claim(ctx context.Context, id uuid.UUID) (Tweet, error)

	// SetStatus records the terminal outcome of a claimed tweet. Only
	// publishing -> sent and publishing -> failed are valid.
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Delete removes a pending tweet owned by ownerID. Returns
	// ErrNotFound if absent or not owned, ErrNotPending if the tweet
	// already left the pending state.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// ListDuePending returns up to limit pending tweets whose schedule
	// time is at or before now. Used by the reconciliation sweep.
	ListDuePending(ctx context.Context, now time.Time, limit int) ([]Tweet, error)
}

// validateCreate enforces the creation invariants shared by all Store
// implementations.
func validateCreate(text string, scheduledAt time.Time) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if scheduledAt.IsZero() {
		return ErrZeroScheduleTime
	}
	return nil
}
