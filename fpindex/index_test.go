package fpindex

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refpersys/rpsfront/rpshash"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, redis.Cmdable) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	fp := rpshash.Fingerprint{H0: 42, H1: -7, Count: 3}

	prior, collided, err := store.Record(ctx, fp, "abc")
	require.NoError(t, err)
	assert.Empty(t, prior)
	assert.False(t, collided)

	prior, collided, err = store.Record(ctx, fp, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", prior)
	assert.False(t, collided, "the same text twice is not a collision")

	prior, collided, err = store.Record(ctx, fp, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "abc", prior)
	assert.True(t, collided)

	other := rpshash.Fingerprint{H0: 42, H1: 7, Count: 3}
	_, collided, err = store.Record(ctx, other, "xyz")
	require.NoError(t, err)
	assert.False(t, collided)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr, client := newRedis(t)
	storeContract(t, NewRedisStore(client, ""))

	got, err := mr.Get(DefaultRedisPrefix + "42:-7")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	mr, client := newRedis(t)
	store := NewRedisStore(client, "test:")

	_, _, err := store.Record(context.Background(), rpshash.SumString("ab"), "ab")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:435788:3237130598"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	_, _, err := NewRedisStore(client, "").Record(context.Background(), rpshash.SumString("x"), "x")
	assert.Error(t, err)
}

func TestIndex_Add(t *testing.T) {
	ix := New(nil)
	ctx := context.Background()

	e, err := ix.Add(ctx, "RefPerSys")
	require.NoError(t, err)
	assert.Equal(t, rpshash.SumString("RefPerSys"), e.Fingerprint)
	assert.False(t, e.Collision)
	assert.Empty(t, e.Prior)

	e, err = ix.Add(ctx, "RefPerSys")
	require.NoError(t, err)
	assert.False(t, e.Collision)
	assert.Equal(t, "RefPerSys", e.Prior)
}

func TestIndex_AddRejectsBadInput(t *testing.T) {
	ix := New(nil)
	_, err := ix.Add(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = ix.Add(context.Background(), "ok\xffnot")
	assert.ErrorIs(t, err, rpshash.ErrInvalidUTF8)
}

func TestIndex_SharedRedis(t *testing.T) {
	_, client := newRedis(t)
	first := New(NewRedisStore(client, ""))
	second := New(NewRedisStore(client, ""))
	ctx := context.Background()

	_, err := first.Add(ctx, "shared")
	require.NoError(t, err)
	e, err := second.Add(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "shared", e.Prior, "second host sees the first host's entry")
}
