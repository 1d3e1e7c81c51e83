package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/alpha-scanner/internal/service"
	"github.com/alpha-scanner/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshotStore(t *testing.T, ttl time.Duration) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSnapshotStore(NewRedisCacheFromClient(client), ttl), mr
}

func testSnapshot() *service.BuyerSnapshot {
	return &service.BuyerSnapshot{
		Pair: types.PairInfo{
			PairAddress: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			TokenSymbol: "PEPE",
			TokenName:   "Pepe",
		},
		Buyers: []string{
			"0x1111111111111111111111111111111111111111",
			"0x2222222222222222222222222222222222222222",
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, _ := newTestSnapshotStore(t, time.Minute)
	ctx := context.Background()
	token := "0x3333333333333333333333333333333333333333"

	require.NoError(t, store.SetSnapshot(ctx, token, testSnapshot()))

	got, ok, err := store.GetSnapshot(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testSnapshot(), got)
}

func TestSnapshotMiss(t *testing.T) {
	store, _ := newTestSnapshotStore(t, time.Minute)

	got, ok, err := store.GetSnapshot(context.Background(), "0x3333333333333333333333333333333333333333")

	require.NoError(t, err, "a miss is not an error")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSnapshotKeyIsCaseInsensitive(t *testing.T) {
	store, _ := newTestSnapshotStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, "0x3333333333333333333333333333333333333AbC", testSnapshot()))

	_, ok, err := store.GetSnapshot(ctx, "0x3333333333333333333333333333333333333abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSnapshotExpires(t *testing.T) {
	store, mr := newTestSnapshotStore(t, 30*time.Second)
	ctx := context.Background()
	token := "0x3333333333333333333333333333333333333333"

	require.NoError(t, store.SetSnapshot(ctx, token, testSnapshot()))

	mr.FastForward(time.Minute)

	_, ok, err := store.GetSnapshot(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok, "expired snapshot must read as a miss")
}
