package location

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestRedisStore_PutAndGetMany(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()
	battery := 80

	require.NoError(t, store.Put(ctx, &Sample{AccountID: 1, Latitude: 4.6, Longitude: -74.1, BatteryLevel: &battery}))
	require.NoError(t, store.Put(ctx, &Sample{AccountID: 2, Latitude: 6.2, Longitude: -75.5}))
	require.NoError(t, store.Put(ctx, &Sample{AccountID: 1, Latitude: 4.7, Longitude: -74.0, BatteryLevel: &battery}))

	assert.True(t, mr.Exists("location:1"))
	assert.Equal(t, time.Hour, mr.TTL("location:1"))

	got, err := store.GetMany(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4.7, got[1].Latitude)
	assert.Equal(t, 80, *got[1].BatteryLevel)
	assert.Nil(t, got[2].BatteryLevel)
	assert.NotContains(t, got, int64(3))

	empty, err := store.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisStore_SamplesExpire(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Sample{AccountID: 5, Latitude: 1, Longitude: 1}))
	mr.FastForward(25 * time.Hour)

	got, err := store.GetMany(ctx, []int64{5})
	require.NoError(t, err)
	assert.Empty(t, got)
}
