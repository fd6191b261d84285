package tweet_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetsched/tweetsched/internal/tweet"
)

func TestMemoryStore_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	scheduledAt := time.Now().Add(time.Hour)

	t.Run("creates pending tweet with fresh id", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created, err := store.Create(ctx, "Hello", scheduledAt, owner)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "Hello", created.Text)
		assert.Equal(t, tweet.StatusPending, created.Status)
		assert.Equal(t, owner, created.OwnerID)
		assert.Equal(t, time.UTC, created.ScheduledAt.Location())
	})

	t.Run("rejects empty text", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		_, err := store.Create(ctx, "", scheduledAt, owner)
		assert.ErrorIs(t, err, tweet.ErrEmptyText)
	})

	t.Run("rejects oversized text without persisting", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		_, err := store.Create(ctx, strings.Repeat("a", 281), scheduledAt, owner)
		assert.ErrorIs(t, err, tweet.ErrTextTooLong)

		pending, err := store.ListPending(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("rejects zero schedule time", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		_, err := store.Create(ctx, "Hello", time.Time{}, owner)
		assert.ErrorIs(t, err, tweet.ErrZeroScheduleTime)
	})
}

func TestMemoryStore_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	store := tweet.NewMemoryStore()
	created, err := store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
	require.NoError(t, err)

	t.Run("cross-owner get behaves like missing tweet", func(t *testing.T) {
		_, err := store.Get(ctx, created.ID, stranger)
		assert.ErrorIs(t, err, tweet.ErrNotFound)
	})

	t.Run("cross-owner delete behaves like missing tweet", func(t *testing.T) {
		err := store.Delete(ctx, created.ID, stranger)
		assert.ErrorIs(t, err, tweet.ErrNotFound)

		// The tweet is untouched for its real owner.
		got, err := store.Get(ctx, created.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, tweet.StatusPending, got.Status)
	})

	t.Run("cross-owner list is empty", func(t *testing.T) {
		pending, err := store.ListPending(ctx, stranger)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestMemoryStore_StateMachine(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	newPending := func(t *testing.T, store *tweet.MemoryStore) tweet.Tweet {
		t.Helper()
		created, err := store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)
		return created
	}

	t.Run("claim moves pending to publishing", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created := newPending(t, store)

		claimed, err := store.Claim(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, tweet.StatusPublishing, claimed.Status)
		assert.Equal(t, created.Text, claimed.Text)
	})

	t.Run("second claim fails", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created := newPending(t, store)

		_, err := store.Claim(ctx, created.ID)
		require.NoError(t, err)

		_, err = store.Claim(ctx, created.ID)
		assert.ErrorIs(t, err, tweet.ErrInvalidTransition)
	})

	t.Run("claim of missing tweet reports not found", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		_, err := store.Claim(ctx, uuid.New())
		assert.ErrorIs(t, err, tweet.ErrNotFound)
	})

	t.Run("terminal statuses only from publishing", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created := newPending(t, store)

		// pending -> sent is not a valid shortcut.
		err := store.SetStatus(ctx, created.ID, tweet.StatusSent)
		assert.ErrorIs(t, err, tweet.ErrInvalidTransition)

		_, err = store.Claim(ctx, created.ID)
		require.NoError(t, err)

		require.NoError(t, store.SetStatus(ctx, created.ID, tweet.StatusSent))

		// sent is terminal: no further transition succeeds.
		err = store.SetStatus(ctx, created.ID, tweet.StatusFailed)
		assert.ErrorIs(t, err, tweet.ErrInvalidTransition)
	})

	t.Run("set status rejects non-terminal target", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created := newPending(t, store)

		err := store.SetStatus(ctx, created.ID, tweet.StatusPending)
		assert.ErrorIs(t, err, tweet.ErrInvalidTransition)
	})

	t.Run("delete only while pending", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created := newPending(t, store)

		_, err := store.Claim(ctx, created.ID)
		require.NoError(t, err)
		require.NoError(t, store.SetStatus(ctx, created.ID, tweet.StatusSent))

		err = store.Delete(ctx, created.ID, owner)
		assert.ErrorIs(t, err, tweet.ErrNotPending)

		// The terminal status is unchanged by the failed delete.
		got, err := store.Get(ctx, created.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, tweet.StatusSent, got.Status)
	})

	t.Run("delete removes pending tweet", func(t *testing.T) {
		t.Parallel()

		store := tweet.NewMemoryStore()
		created := newPending(t, store)

		require.NoError(t, store.Delete(ctx, created.ID, owner))

		_, err := store.Get(ctx, created.ID, owner)
		assert.ErrorIs(t, err, tweet.ErrNotFound)
	})
}

func TestMemoryStore_ListDuePending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	now := time.Now()

	store := tweet.NewMemoryStore()

	past, err := store.Create(ctx, "past", now.Add(-time.Hour), owner)
	require.NoError(t, err)
	_, err = store.Create(ctx, "future", now.Add(time.Hour), owner)
	require.NoError(t, err)
	claimed, err := store.Create(ctx, "claimed", now.Add(-time.Minute), owner)
	require.NoError(t, err)
	_, err = store.Claim(ctx, claimed.ID)
	require.NoError(t, err)

	due, err := store.ListDuePending(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, past.ID, due[0].ID)
}
