package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tweetsched/tweetsched/pkg/pg"
)

// Repository is the read/write surface for owning principals.
type Repository interface {
	// Get returns the user by internal id.
	Get(ctx context.Context, id uuid.UUID) (User, error)

	// UpsertByTwitterID creates the user on first login and refreshes
	// the stored credentials on every subsequent login.
	UpsertByTwitterID(ctx context.Context, twitterID, accessToken, refreshToken string) (User, error)
}

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, twitter_id, access_token, refresh_token, created_at, updated_at`

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.TwitterID, &u.AccessToken, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) UpsertByTwitterID(ctx context.Context, twitterID, accessToken, refreshToken string) (User, error) {
	const q = `
		INSERT INTO users (id, twitter_id, access_token, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (twitter_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	now := time.Now().UTC()
	var u User
	err := r.pool.QueryRow(ctx, q, uuid.New(), twitterID, accessToken, refreshToken, now).Scan(
		&u.ID, &u.TwitterID, &u.AccessToken, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}
