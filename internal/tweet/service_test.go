package tweet_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tweetsched/tweetsched/internal/tweet"
)

// MockQueue is a mock implementation of dispatch.Queue
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, taskID uuid.UUID, delay time.Duration) error {
	args := m.Called(ctx, taskID, delay)
	return args.Error(0)
}

func (m *MockQueue) Cancel(ctx context.Context, taskID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueue) PopDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockQueue) Contains(ctx context.Context, taskID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()

		_, err := tweet.NewService(nil, new(MockQueue))
		assert.ErrorIs(t, err, tweet.ErrStoreNil)
	})

	t.Run("nil queue", func(t *testing.T) {
		t.Parallel()

		_, err := tweet.NewService(tweet.NewMemoryStore(), nil)
		assert.ErrorIs(t, err, tweet.ErrQueueNil)
	})
}

func TestService_Schedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("enqueues with delay equal to time until schedule", func(t *testing.T) {
		t.Parallel()

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)
		queue.On("Enqueue", ctx, mock.AnythingOfType("uuid.UUID"), time.Hour).Return(nil)

		svc, err := tweet.NewService(tweet.NewMemoryStore(), queue, tweet.WithClock(clock))
		require.NoError(t, err)

		created, err := svc.Schedule(ctx, owner, "Hello", now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, tweet.StatusPending, created.Status)
		queue.AssertCalled(t, "Enqueue", ctx, created.ID, time.Hour)
	})

	t.Run("past schedule time clamps delay to zero", func(t *testing.T) {
		t.Parallel()

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)
		queue.On("Enqueue", ctx, mock.AnythingOfType("uuid.UUID"), time.Duration(0)).Return(nil)

		svc, err := tweet.NewService(tweet.NewMemoryStore(), queue, tweet.WithClock(clock))
		require.NoError(t, err)

		created, err := svc.Schedule(ctx, owner, "Hello", now.Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, tweet.StatusPending, created.Status)
	})

	t.Run("validation failure enqueues nothing", func(t *testing.T) {
		t.Parallel()

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)

		store := tweet.NewMemoryStore()
		svc, err := tweet.NewService(store, queue, tweet.WithClock(clock))
		require.NoError(t, err)

		_, err = svc.Schedule(ctx, owner, strings.Repeat("a", 281), now.Add(time.Hour))
		assert.ErrorIs(t, err, tweet.ErrTextTooLong)

		pending, err := store.ListPending(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, pending)
		queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure surfaces error but leaves orphan in store", func(t *testing.T) {
		t.Parallel()

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)
		queue.On("Enqueue", ctx, mock.AnythingOfType("uuid.UUID"), mock.Anything).
			Return(errors.New("broker unavailable"))

		store := tweet.NewMemoryStore()
		svc, err := tweet.NewService(store, queue, tweet.WithClock(clock))
		require.NoError(t, err)

		_, err = svc.Schedule(ctx, owner, "Hello", now.Add(time.Hour))
		require.Error(t, err)

		// No cleanup: the pending record stays for the reconciler.
		pending, err := store.ListPending(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("deletes and cancels dispatch entry", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created, err := store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)
		queue.On("Cancel", ctx, created.ID).Return(true, nil)

		svc, err := tweet.NewService(store, queue)
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, owner, created.ID))

		_, err = store.Get(ctx, created.ID, owner)
		assert.ErrorIs(t, err, tweet.ErrNotFound)
	})

	t.Run("already dispatched queue entry is not an error", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created, err := store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)
		queue.On("Cancel", ctx, created.ID).Return(false, nil)

		svc, err := tweet.NewService(store, queue)
		require.NoError(t, err)

		assert.NoError(t, svc.Cancel(ctx, owner, created.ID))
	})

	t.Run("missing tweet fails fast without touching the queue", func(t *testing.T) {
		t.Parallel()

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)

		svc, err := tweet.NewService(tweet.NewMemoryStore(), queue)
		require.NoError(t, err)

		err = svc.Cancel(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, tweet.ErrNotFound)
		queue.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})

	t.Run("non-pending tweet reports conflict", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created, err := store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)
		_, err = store.Claim(ctx, created.ID)
		require.NoError(t, err)
		require.NoError(t, store.SetStatus(ctx, created.ID, tweet.StatusSent))

		queue := new(MockQueue)
		defer queue.AssertExpectations(t)

		svc, err := tweet.NewService(store, queue)
		require.NoError(t, err)

		err = svc.Cancel(ctx, owner, created.ID)
		assert.ErrorIs(t, err, tweet.ErrNotPending)
		queue.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})
}
