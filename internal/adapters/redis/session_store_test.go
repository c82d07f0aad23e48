package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/testutil"
)

func newSession(id, userID string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    userID,
		Username:  "dfield",
		Email:     "dana@example.com",
		Role:      domainauth.RoleTechnician,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := newSession("sess-1", "user-123", 30*time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Username, got.Username)
	assert.Equal(t, domainauth.RoleTechnician, got.Role)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl := client.TTL(ctx, DefaultPrefix+"sess-1").Val()
	assert.True(t, ttl > 29*time.Minute && ttl <= 30*time.Minute, "ttl %s", ttl)
}

func TestSessionStore_Missing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(context.Background(), ""))
}

func TestSessionStore_Delete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("sess-del", "user-123", time.Minute)))
	require.NoError(t, store.Delete(ctx, "sess-del"))
	_, err := store.Get(ctx, "sess-del")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_ExpiredByClock(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	now := time.Now()
	store := NewSessionStore(client, SessionStoreOptions{Now: func() time.Time { return now }})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("sess-clock", "user-123", time.Hour)))

	// the stored ExpiresAt is authoritative even while the key is still present
	now = now.Add(2 * time.Hour)
	_, err := store.Get(ctx, "sess-clock")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, client.Exists(ctx, DefaultPrefix+"sess-clock").Val())
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.Save(ctx, newSession("", "user-123", time.Minute))
	assert.ErrorContains(t, err, "session ID cannot be empty")

	err = store.Save(ctx, newSession("old", "user-123", -time.Hour))
	assert.ErrorContains(t, err, "session is expired")
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{Prefix: "test-prefix:"})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("p1", "user-123", time.Minute)))
	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:p1").Val())
	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:user:user-123").Val())
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("laptop", "tech-1", time.Hour)))
	require.NoError(t, store.Save(ctx, newSession("phone", "tech-1", 2*time.Hour)))
	require.NoError(t, store.Save(ctx, newSession("other", "tech-2", time.Hour)))

	idxTTL := client.TTL(ctx, DefaultPrefix+"user:tech-1").Val()
	assert.True(t, idxTTL > time.Hour, "index outlives the older session, got %s", idxTTL)

	n, err := store.DeleteByUser(ctx, "tech-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.Get(ctx, "laptop")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "phone")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "other")
	assert.NoError(t, err)

	n, err = store.DeleteByUser(ctx, "tech-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
