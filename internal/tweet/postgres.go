package tweet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tweetsched/tweetsched/pkg/pg"
)

// PostgresStore implements Store on a pgx connection pool. Status
// transitions are expressed as conditional UPDATEs so the per-tweet
// state machine is enforced atomically by the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const tweetColumns = `id, text, scheduled_at, status, owner_id, created_at`

func scanTweet(row pgx.Row) (Tweet, error) {
	var t Tweet
	err := row.Scan(&t.ID, &t.Text, &t.ScheduledAt, &t.Status, &t.OwnerID, &t.CreatedAt)
	return t, err
}

func (s *PostgresStore) Create(ctx context.Context, text string, scheduledAt time.Time, ownerID uuid.UUID) (Tweet, error) {
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

	const q = `
		INSERT INTO tweets (id, text, scheduled_at, status, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, q, t.ID, t.Text, t.ScheduledAt, t.Status, t.OwnerID, t.CreatedAt); err != nil {
		return Tweet{}, fmt.Errorf("insert tweet: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Get(ctx context.Context, id, ownerID uuid.UUID) (Tweet, error) {
	const q = `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1 AND owner_id = $2`
	t, err := scanTweet(s.pool.QueryRow(ctx, q, id, ownerID))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Tweet{}, ErrNotFound
		}
		return Tweet{}, fmt.Errorf("get tweet: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListPending(ctx context.Context, ownerID uuid.UUID) ([]Tweet, error) {
	const q = `SELECT ` + tweetColumns + ` FROM tweets WHERE owner_id = $1 AND status = $2 ORDER BY scheduled_at`
	rows, err := s.pool.Query(ctx, q, ownerID, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending tweets: %w", err)
	}
	defer rows.Close()

	tweets := make([]Tweet, 0)
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (s *PostgresStore) Claim(ctx context.Context, id uuid.UUID) (Tweet, error) {
	const q = `
		UPDATE tweets SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING ` + tweetColumns
	t, err := scanTweet(s.pool.QueryRow(ctx, q, StatusPublishing, id, StatusPending))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Tweet{}, s.transitionError(ctx, id)
		}
		return Tweet{}, fmt.Errorf("claim tweet: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Terminal() {
		return ErrInvalidTransition
	}

	const q = `UPDATE tweets SET status = $1 WHERE id = $2 AND status = $3`
	tag, err := s.pool.Exec(ctx, q, status, id, StatusPublishing)
	if err != nil {
		return fmt.Errorf("set tweet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, id)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	const q = `DELETE FROM tweets WHERE id = $1 AND owner_id = $2 AND status = $3`
	tag, err := s.pool.Exec(ctx, q, id, ownerID, StatusPending)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish absent/not-owned from a tweet that left pending.
	var status Status
	err = s.pool.QueryRow(ctx, `SELECT status FROM tweets WHERE id = $1 AND owner_id = $2`, id, ownerID).Scan(&status)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete tweet: %w", err)
	}
	return ErrNotPending
}

func (s *PostgresStore) ListDuePending(ctx context.Context, now time.Time, limit int) ([]Tweet, error) {
	const q = `
		SELECT ` + tweetColumns + ` FROM tweets
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at
		LIMIT $3`
	rows, err := s.pool.Query(ctx, q, StatusPending, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list due pending tweets: %w", err)
	}
	defer rows.Close()

	tweets := make([]Tweet, 0)
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

// transitionError resolves why a conditional status write matched no
// rows: the tweet is either gone or in a state the transition forbids.
func (s *PostgresStore) transitionError(ctx context.Context, id uuid.UUID) error {
	var status Status
	err := s.pool.QueryRow(ctx, `SELECT status FROM tweets WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("resolve tweet status: %w", err)
	}
	return ErrInvalidTransition
}
