package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/testutil"
)

func TestRedisLockRepo_TryLockUnlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	ctx := context.Background()
	first := NewRedisLockRepo(client)
	second := NewRedisLockRepo(client)
	key := "sweep:test:" + time.Now().Format(time.RFC3339Nano)

	ok, err := first.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// another replica cannot take the same tick
	ok, err = second.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl := client.TTL(ctx, lockKeyPrefix+key).Val()
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, first.Unlock(ctx, key))
	ok, err = second.TryLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock(ctx, key))
}

func TestRedisLockRepo_EmptyKey(t *testing.T) {
	repo := NewRedisLockRepo(nil)
	_, err := repo.TryLock(context.Background(), "", time.Second)
	require.Error(t, err)
	require.Error(t, repo.Unlock(context.Background(), ""))
}
