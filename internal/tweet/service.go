package tweet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tweetsched/tweetsched/internal/dispatch"
	"github.com/tweetsched/tweetsched/pkg/logger"
)

// Service implements the scheduling and cancellation operations on top
// of a Store and a dispatch.Queue.
type Service struct {
	store Store
	queue dispatch.Queue
	log   *slog.Logger
	now   func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a scheduling service.
func NewService(store Store, queue dispatch.Queue, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if queue == nil {
		return nil, ErrQueueNil
	}

	s := &Service{
		store: store,
		queue: queue,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Schedule validates and persists a new tweet, then enqueues it for
// dispatch keyed by the tweet's own id. The delay is clamped to zero so
// past-due times dispatch immediately instead of being rejected.
//
// If the enqueue fails after the store write succeeded, the tweet is
// left in place as a pending orphan and the error is surfaced; the
// reconciliation sweep re-enqueues it once due. No inline retry, no
// partial-state cleanup.
func (s *Service) Schedule(ctx context.Context, ownerID uuid.UUID, text string, scheduledAt time.Time) (Tweet, error) {
	t, err := s.store.Create(ctx, text, scheduledAt, ownerID)
	if err != nil {
		return Tweet{}, err
	}

	delay := max(time.Duration(0), t.ScheduledAt.Sub(s.now()))
	if err := s.queue.Enqueue(ctx, t.ID, delay); err != nil {
		s.log.ErrorContext(ctx, "tweet persisted but enqueue failed, leaving orphan for reconciler",
			logger.TweetID(t.ID),
			logger.Error(err))
		return Tweet{}, fmt.Errorf("enqueue scheduled tweet %s: %w", t.ID, err)
	}

	s.log.InfoContext(ctx, "tweet scheduled",
		logger.TweetID(t.ID),
		logger.UserID(ownerID),
		slog.Time("scheduled_at", t.ScheduledAt),
		logger.Duration(delay))

	return t, nil
}

// ListPending returns the owner's pending tweets.
func (s *Service) ListPending(ctx context.Context, ownerID uuid.UUID) ([]Tweet, error) {
	return s.store.ListPending(ctx, ownerID)
}

// Cancel deletes a pending tweet and removes its dispatch entry. The
// store delete is the authority: it fails fast with ErrNotFound or
// ErrNotPending. The queue cancel result is advisory only; a false
// result means the entry was already dispatched, and the worker's own
// claim step guards against publishing a deleted tweet.
func (s *Service) Cancel(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	removed, err := s.queue.Cancel(ctx, id)
	if err != nil {
		s.log.WarnContext(ctx, "tweet deleted but queue cancel failed, worker claim will absorb the entry",
			logger.TweetID(id),
			logger.Error(err))
	} else if !removed {
		s.log.DebugContext(ctx, "dispatch entry already gone on cancel", logger.TweetID(id))
	}

	s.log.InfoContext(ctx, "tweet cancelled", logger.TweetID(id), logger.UserID(ownerID))
	return nil
}
