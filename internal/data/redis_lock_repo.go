package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/target/jobops-api/internal/core"
)

const lockKeyPrefix = "lock:"

// RedisLockRepo implements core.LockRepository with Redis SET NX.
type RedisLockRepo struct {
	client redis.UniversalClient
	owner  string
}

var _ core.LockRepository = (*RedisLockRepo)(nil)

// NewRedisLockRepo creates a new RedisLockRepo. Each instance writes a unique owner token
// so lock holders are visible when inspecting Redis.
func NewRedisLockRepo(client redis.UniversalClient) *RedisLockRepo {
	return &RedisLockRepo{client: client, owner: uuid.NewString()}
}

// TryLock atomically sets key only if it doesn't already exist.
func (r *RedisLockRepo) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	// SETNX followed by EXPIRE is not atomic; SET with NX and a TTL is.
	status, err := r.client.SetArgs(ctx, lockKeyPrefix+key, r.owner, redis.SetArgs{Mode: "NX", TTL: ttl}).Result()
	if err != nil {
		// go-redis reports an unmet NX condition as redis.Nil.
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis SET NX: %w", err)
	}
	return status == "OK", nil
}

// Unlock removes key.
func (r *RedisLockRepo) Unlock(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := r.client.Del(ctx, lockKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Health checks the health of the Redis connection.
func (r *RedisLockRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
