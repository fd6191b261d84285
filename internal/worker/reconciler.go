package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tweetsched/tweetsched/internal/tweet"
	"github.com/tweetsched/tweetsched/pkg/logger"
)

// ReconcilerStore lists pending tweets that are due for dispatch.
type ReconcilerStore interface {
	ListDuePending(ctx context.Context, now time.Time, limit int) ([]tweet.Tweet, error)
}

// ReconcilerQueue is the dispatch queue slice the reconciler needs.
type ReconcilerQueue interface {
	Enqueue(ctx context.Context, taskID uuid.UUID, delay time.Duration) error
	Contains(ctx context.Context, taskID uuid.UUID) (bool, error)
}

// Reconciler periodically re-enqueues orphans: pending tweets whose
// dispatch entry was lost, either because the enqueue failed after the
// store write succeeded or because a consumer crashed between popping
// an entry and claiming the tweet. Re-enqueueing is safe because the
// queue replaces entries by task id and the worker's claim step absorbs
// duplicates.
type Reconciler struct {
	store ReconcilerStore
	queue ReconcilerQueue

	interval  time.Duration
	batchSize int
	log       *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithSweepInterval sets how often the sweep runs.
func WithSweepInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithSweepBatchSize limits how many due tweets one sweep inspects.
func WithSweepBatchSize(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithReconcilerLogger sets the logger for the reconciler.
func WithReconcilerLogger(log *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReconciler creates the orphan sweep.
func NewReconciler(store ReconcilerStore, queue ReconcilerQueue, opts ...ReconcilerOption) (*Reconciler, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if queue == nil {
		return nil, ErrQueueNil
	}

	r := &Reconciler{
		store:     store,
		queue:     queue,
		interval:  time.Minute,
		batchSize: 100,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run starts the sweep loop and returns a function suitable for errgroup.
func (r *Reconciler) Run(ctx context.Context) func() error {
	return func() error {
		ctx, r.cancel = context.WithCancel(ctx)
		r.done = make(chan struct{})
		defer close(r.done)

		r.log.Info("reconciler started", slog.Duration("sweep_interval", r.interval))

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Info("reconciler stopped")
				return nil
			case <-ticker.C:
				if err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
					r.log.Error("reconciliation sweep failed", logger.Error(err))
				}
			}
		}
	}
}

// Sweep runs one reconciliation pass: every due pending tweet without a
// live dispatch entry is re-enqueued for immediate dispatch.
func (r *Reconciler) Sweep(ctx context.Context) error {
	due, err := r.store.ListDuePending(ctx, time.Now(), r.batchSize)
	if err != nil {
		return fmt.Errorf("list due pending tweets: %w", err)
	}

	for _, t := range due {
		queued, err := r.queue.Contains(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("check dispatch entry for %s: %w", t.ID, err)
		}
		if queued {
			continue
		}

		if err := r.queue.Enqueue(ctx, t.ID, 0); err != nil {
			return fmt.Errorf("re-enqueue orphan %s: %w", t.ID, err)
		}
		r.log.Warn("re-enqueued orphaned tweet", logger.TweetID(t.ID))
	}
	return nil
}
