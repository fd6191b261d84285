package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set key used when no key is configured.
const DefaultKey = "dispatch:tweets"

// popDueScript removes and returns due members in one atomic step so an
// entry is handed to exactly one consumer per enqueue.
var popDueScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
if #due > 0 then
	redis.call('ZREM', KEYS[1], unpack(due))
end
return due
`)

// RedisQueue implements Queue on a Redis sorted set. The member is the
// task id and the score is the due time in unix milliseconds, so ZADD
// gives replace-or-noop semantics per id and ZREM implements cancel.
type RedisQueue struct {
	client redis.UniversalClient
	key    string
}

// RedisQueueOption configures a RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKey overrides the sorted set key.
func WithKey(key string) RedisQueueOption {
	return func(q *RedisQueue) {
		if key != "" {
			q.key = key
		}
	}
}

// NewRedisQueue creates a Queue backed by the given Redis client.
func NewRedisQueue(client redis.UniversalClient, opts ...RedisQueueOption) (*RedisQueue, error) {
	if client == nil {
		return nil, ErrClientNil
	}

	q := &RedisQueue{
		client: client,
		key:    DefaultKey,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

func (q *RedisQueue) Enqueue(ctx context.Context, taskID uuid.UUID, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	due := time.Now().Add(delay)

	err := q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: taskID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("enqueue dispatch entry %s: %w", taskID, err)
	}
	return nil
}

func (q *RedisQueue) Cancel(ctx context.Context, taskID uuid.UUID) (bool, error) {
	removed, err := q.client.ZRem(ctx, q.key, taskID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("cancel dispatch entry %s: %w", taskID, err)
	}
	return removed > 0, nil
}

func (q *RedisQueue) PopDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, nil
	}

	members, err := popDueScript.Run(ctx, q.client, []string{q.key}, now.UnixMilli(), limit).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("pop due dispatch entries: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			// A malformed member cannot be dispatched; it has already
			// been removed from the set, so skip it.
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (q *RedisQueue) Contains(ctx context.Context, taskID uuid.UUID) (bool, error) {
	_, err := q.client.ZScore(ctx, q.key, taskID.String()).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check dispatch entry %s: %w", taskID, err)
	}
	return true, nil
}
