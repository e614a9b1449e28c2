package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tictac/pkg/history"
	"github.com/aretw0/tictac/pkg/history/historytest"
	"github.com/aretw0/tictac/pkg/history/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := redis.New(mr.Addr(), "", 0, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	historytest.RunStoreContract(t, store)
}

func TestRedisStore_Keys(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, history.Record{ID: "g1", FinishedAt: time.Now()}))

	assert.True(t, mr.Exists("test:rec:g1"))
	assert.False(t, mr.Exists("test:g1"))
	members, err := mr.ZMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, members)
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_TTLPrunesIndex(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, history.Record{ID: "old", FinishedAt: time.Now()}))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"rec:old"))

	mr.FastForward(2 * time.Minute)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	members, err := mr.ZMembers(redis.DefaultPrefix + "index")
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestRedisStore_IndexKeyIsNotARecord(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, history.Record{ID: "g1", FinishedAt: time.Now()}))
	require.NoError(t, store.Save(ctx, history.Record{ID: "g2", FinishedAt: time.Now().Add(time.Second)}))

	_, err := store.Load(ctx, "index")
	assert.ErrorIs(t, err, history.ErrNotFound)
	require.NoError(t, store.Delete(ctx, "index"))

	members, err := mr.ZMembers(redis.DefaultPrefix + "index")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"g1", "g2"}, members)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
