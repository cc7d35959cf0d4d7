package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, 100)
	ctx := context.Background()

	sess := newSession("abc")
	sess.State = StateAwaitingReason
	require.NoError(t, store.Upsert(ctx, sess))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingReason, got.State)
	assert.False(t, got.UpdatedAt.IsZero())

	// The returned session is a copy; mutating it must not leak back.
	got.State = StateBooked
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingReason, again.State)
}

func TestMemorySessionStoreMissingKey(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, 100)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreExpire(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, 100)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, newSession("abc")))
	require.NoError(t, store.Expire(ctx, "abc"))
	_, err := store.Get(ctx, "abc")
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Expiring an unknown key is a no-op.
	require.NoError(t, store.Expire(ctx, "unknown"))
}

func TestMemorySessionStoreTTLEviction(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 100)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, newSession("stale")))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "stale")
	require.ErrorIs(t, err, ErrSessionNotFound)
	assert.Zero(t, store.Len())
}

func TestMemorySessionStoreCapacityEviction(t *testing.T) {
	store := NewMemorySessionStore(time.Hour, 2)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, newSession("oldest")))
	now = now.Add(time.Second)
	require.NoError(t, store.Upsert(ctx, newSession("middle")))
	now = now.Add(time.Second)
	require.NoError(t, store.Upsert(ctx, newSession("newest")))

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "oldest")
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "newest")
	require.NoError(t, err)
}

func newTestRedisStore(t *testing.T) *RedisSessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, time.Hour)
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	sess := newSession("abc")
	sess.State = StateAwaitingSlotChoice
	sess.Data.Reason = "headaches"
	require.NoError(t, store.Upsert(ctx, sess))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingSlotChoice, got.State)
	assert.Equal(t, "headaches", got.Data.Reason)
}

func TestRedisSessionStoreMissingKey(t *testing.T) {
	store := newTestRedisStore(t)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStoreExpire(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, newSession("abc")))
	require.NoError(t, store.Expire(ctx, "abc"))
	_, err := store.Get(ctx, "abc")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
