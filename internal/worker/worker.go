package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tweetsched/tweetsched/internal/tweet"
	"github.com/tweetsched/tweetsched/pkg/logger"
)

// TaskStore is the slice of the tweet store the worker needs: the
// atomic claim and the terminal status write.
type TaskStore interface {
	Claim(ctx context.Context, id uuid.UUID) (tweet.Tweet, error)
	SetStatus(ctx context.Context, id uuid.UUID, status tweet.Status) error
}

// DueSource drains due entries from the dispatch queue.
type DueSource interface {
	PopDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

// TokenSource resolves an owner's current publishing credential.
type TokenSource interface {
	AccessToken(ctx context.Context, ownerID uuid.UUID) (string, error)
}

// Publisher posts the tweet text to the external publishing API.
type Publisher interface {
	Publish(ctx context.Context, accessToken, text string) error
}

// Worker drains due entries and publishes the corresponding tweets.
//
// Per entry the worker re-checks authoritative state by claiming the
// tweet with a conditional write: a tweet that was cancelled, already
// published, or claimed by another worker instance yields no side
// effect, which makes processing idempotent under the queue's
// at-least-once delivery. Publish outcomes are terminal; there is no
// retry, and the queue entry is consumed regardless of outcome.
type Worker struct {
	store  TaskStore
	queue  DueSource
	tokens TokenSource
	pub    Publisher

	workerID uuid.UUID
	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopMu   sync.Mutex // Protects stopping state and WaitGroup operations

	pollInterval   time.Duration
	batchSize      int
	publishTimeout time.Duration
	log            *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// New creates a worker.
func New(store TaskStore, queue DueSource, tokens TokenSource, pub Publisher, opts ...Option) (*Worker, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if queue == nil {
		return nil, ErrQueueNil
	}
	if tokens == nil {
		return nil, ErrTokenSourceNil
	}
	if pub == nil {
		return nil, ErrPublisherNil
	}

	options := &options{
		pollInterval:   5 * time.Second,
		batchSize:      10,
		maxConcurrent:  1,
		publishTimeout: 30 * time.Second,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Worker{
		store:          store,
		queue:          queue,
		tokens:         tokens,
		pub:            pub,
		workerID:       uuid.New(),
		sem:            make(chan struct{}, options.maxConcurrent),
		pollInterval:   options.pollInterval,
		batchSize:      options.batchSize,
		publishTimeout: options.publishTimeout,
		log:            options.log,
	}, nil
}

// Start begins draining the queue in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return errors.New("worker already started")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.stopping.Store(false)

	go w.run()

	w.log.Info("worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Duration("poll_interval", w.pollInterval),
		slog.Int("max_concurrent", cap(w.sem)))

	return nil
}

// Stop gracefully shuts down the worker, waiting for in-flight
// publishes to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return errors.New("worker not started")
	}

	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()

	w.log.Info("worker stopping, waiting for active publishes to complete",
		slog.String("worker_id", w.workerID.String()))

	w.wg.Wait()

	w.log.Info("worker stopped", slog.String("worker_id", w.workerID.String()))
	return nil
}

// Run starts the worker and returns a function suitable for errgroup.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

// run is the main drain loop.
func (w *Worker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			ids, err := w.queue.PopDue(w.ctx, time.Now(), w.batchSize)
			if err != nil {
				if w.ctx.Err() == nil {
					w.log.Error("failed to pop due dispatch entries",
						slog.String("worker_id", w.workerID.String()),
						logger.Error(err))
				}
				continue
			}

			for _, id := range ids {
				select {
				case w.sem <- struct{}{}:
				case <-w.ctx.Done():
					return
				}

				// Ensure we don't add to the WaitGroup after Stop() starts.
				w.stopMu.Lock()
				if w.stopping.Load() {
					w.stopMu.Unlock()
					<-w.sem
					return
				}
				w.wg.Add(1)
				w.stopMu.Unlock()

				go func(id uuid.UUID) {
					defer w.wg.Done()
					defer func() { <-w.sem }()

					if err := w.Process(w.ctx, id); err != nil {
						w.log.Error("failed to process dispatched tweet",
							slog.String("worker_id", w.workerID.String()),
							logger.TweetID(id),
							logger.Error(err))
					}
				}(id)
			}
		}
	}
}

// Process handles one dispatched entry end to end. Exported so tests
// and single-shot tooling can drive the worker synchronously.
func (w *Worker) Process(ctx context.Context, id uuid.UUID) error {
	claimed, err := w.store.Claim(ctx, id)
	if err != nil {
		// Cancelled, already published, or claimed elsewhere: the entry
		// is acknowledged with no side effect.
		if errors.Is(err, tweet.ErrNotFound) || errors.Is(err, tweet.ErrInvalidTransition) {
			w.log.Debug("skipping dispatched tweet, no longer claimable",
				logger.TweetID(id),
				logger.Error(err))
			return nil
		}
		return fmt.Errorf("claim tweet %s: %w", id, err)
	}

	start := time.Now()

	if err := w.publish(ctx, claimed); err != nil {
		w.log.Error("tweet publish failed",
			logger.TweetID(id),
			logger.UserID(claimed.OwnerID),
			logger.Duration(time.Since(start)),
			logger.Error(err))

		if err := w.store.SetStatus(ctx, id, tweet.StatusFailed); err != nil {
			return fmt.Errorf("mark tweet %s failed: %w", id, err)
		}
		return nil
	}

	if err := w.store.SetStatus(ctx, id, tweet.StatusSent); err != nil {
		return fmt.Errorf("mark tweet %s sent: %w", id, err)
	}

	w.log.Info("tweet published",
		logger.TweetID(id),
		logger.UserID(claimed.OwnerID),
		logger.Duration(time.Since(start)))
	return nil
}

// publish resolves the owner's credential and calls the publishing API.
// The call runs under its own timeout detached from the worker
// lifecycle so graceful shutdown lets in-flight publishes complete.
// Timeouts are ordinary failures, not distinguished from other errors.
func (w *Worker) publish(_ context.Context, t tweet.Tweet) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.publishTimeout)
	defer cancel()

	token, err := w.tokens.AccessToken(ctx, t.OwnerID)
	if err != nil {
		return fmt.Errorf("resolve credential for owner %s: %w", t.OwnerID, err)
	}

	return w.pub.Publish(ctx, token, t.Text)
}
