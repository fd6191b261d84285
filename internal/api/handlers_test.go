package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetsched/tweetsched/internal/api"
	"github.com/tweetsched/tweetsched/internal/dispatch"
	"github.com/tweetsched/tweetsched/internal/tweet"
)

type fixture struct {
	router chi.Router
	store  *tweet.MemoryStore
	queue  *dispatch.MemoryQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := tweet.NewMemoryStore()
	queue := dispatch.NewMemoryQueue()
	svc, err := tweet.NewService(store, queue)
	require.NoError(t, err)

	router := api.NewRouter(api.RouterOptions{
		Handler: api.NewHandler(svc, nil),
		CORS:    []string{"http://localhost:5173"},
	})
	return &fixture{router: router, store: store, queue: queue}
}

func (f *fixture) do(t *testing.T, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if owner != "" {
		req.Header.Set(api.OwnerHeader, owner)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestScheduleTweet(t *testing.T) {
	t.Parallel()

	owner := uuid.New().String()
	scheduledAt := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	t.Run("creates tweet and dispatch entry", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", owner,
			`{"text":"Hello","scheduled_at":"`+scheduledAt+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data tweet.Tweet `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tweet.StatusPending, resp.Data.Status)
		assert.Equal(t, "Hello", resp.Data.Text)

		queued, err := f.queue.Contains(context.Background(), resp.Data.ID)
		require.NoError(t, err)
		assert.True(t, queued)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", "",
			`{"text":"Hello","scheduled_at":"`+scheduledAt+`"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed identity is unauthorized", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", "not-a-uuid",
			`{"text":"Hello","scheduled_at":"`+scheduledAt+`"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("oversized text is rejected with nothing persisted", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", owner,
			`{"text":"`+strings.Repeat("a", 281)+`","scheduled_at":"`+scheduledAt+`"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		pending, err := f.store.ListPending(context.Background(), uuid.MustParse(owner))
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("missing schedule time is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", owner, `{"text":"Hello"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unparseable schedule time is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", owner,
			`{"text":"Hello","scheduled_at":"next tuesday"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodPost, "/api/schedule-tweet", owner, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListScheduledTweets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	f := newFixture(t)
	_, err := f.store.Create(ctx, "mine", time.Now().Add(time.Hour), owner)
	require.NoError(t, err)
	_, err = f.store.Create(ctx, "theirs", time.Now().Add(time.Hour), stranger)
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/scheduled-tweets", owner.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []tweet.Tweet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "mine", resp.Data[0].Text)
}

func TestDeleteScheduledTweet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("deletes pending tweet", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		created, err := f.store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)
		require.NoError(t, f.queue.Enqueue(ctx, created.ID, time.Hour))

		rec := f.do(t, http.MethodDelete, "/api/scheduled-tweet/"+created.ID.String(), owner.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)

		_, err = f.store.Get(ctx, created.ID, owner)
		assert.ErrorIs(t, err, tweet.ErrNotFound)

		queued, err := f.queue.Contains(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, queued)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodDelete, "/api/scheduled-tweet/"+uuid.NewString(), owner.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, http.MethodDelete, "/api/scheduled-tweet/nope", owner.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other owner's tweet is indistinguishable from missing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		created, err := f.store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)

		rec := f.do(t, http.MethodDelete, "/api/scheduled-tweet/"+created.ID.String(), uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sent tweet reports conflict", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		created, err := f.store.Create(ctx, "Hello", time.Now().Add(time.Hour), owner)
		require.NoError(t, err)
		_, err = f.store.Claim(ctx, created.ID)
		require.NoError(t, err)
		require.NoError(t, f.store.SetStatus(ctx, created.ID, tweet.StatusSent))

		rec := f.do(t, http.MethodDelete, "/api/scheduled-tweet/"+created.ID.String(), owner.String(), "")
		assert.Equal(t, http.StatusConflict, rec.Code)

		got, err := f.store.Get(ctx, created.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, tweet.StatusSent, got.Status)
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		req := httptest.NewRequest(http.MethodOptions, "/api/scheduled-tweets", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		req := httptest.NewRequest(http.MethodGet, "/api/scheduled-tweets", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
