package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

// setupTestRedis creates a miniredis server and returns a RedisStore backed by it.
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_LoadMissingIsEmpty(t *testing.T) {
	store, _ := setupTestRedis(t)

	c, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRedisStore_SaveLoadRoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	var c Cart
	c.Add(trufa, 2)
	require.NoError(t, store.Save(ctx, "u1", &c))

	assert.True(t, mr.Exists("cart:u1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:u1"))

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, c.Lines, got.Lines)
	assert.Equal(t, c.Total(), got.Total())
}

func TestRedisStore_SaveEmptyDeletes(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	var c Cart
	c.Add(trufa, 1)
	require.NoError(t, store.Save(ctx, "u1", &c))

	c.Clear()
	require.NoError(t, store.Save(ctx, "u1", &c))
	assert.False(t, mr.Exists("cart:u1"))
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	var c Cart
	c.Add(trufa, 1)
	require.NoError(t, store.Save(ctx, "u1", &c))
	require.NoError(t, store.Delete(ctx, "u1"))
	assert.False(t, mr.Exists("cart:u1"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("cart:u1", "{not json"))

	_, err := store.Load(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}
