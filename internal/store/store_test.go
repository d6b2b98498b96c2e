package store

import (
	"context"
	"os"
	"testing"
	"time"

	"flashloan-program/internal/types"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	acc, found, err := s.Get(context.Background(), types.Pubkey{1})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, acc)
}

func TestMemoryStore_CommitAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := types.Pubkey{1}
	in := &Account{Lamports: 5, Owner: types.Pubkey{2}, Data: []byte{1, 2, 3}}

	require.NoError(t, s.Commit(ctx, map[types.Pubkey]*Account{key: in}))
	assert.Equal(t, 1, s.Len())

	// 存储内部不受调用方后续修改影响
	in.Data[0] = 9
	got, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte{1, 2, 3}, got.Data)

	got.Data[1] = 9
	again, _, _ := s.Get(ctx, key)
	assert.Equal(t, []byte{1, 2, 3}, again.Data)
}

func TestAccount_CodecRoundTrip(t *testing.T) {
	tests := []*Account{
		{Lamports: 1_343_280, Owner: types.Pubkey{0xaa, 31: 0xbb}, Data: make([]byte, 65)},
		{Lamports: 0, Executable: true, Data: []byte{}},
		{Lamports: ^uint64(0), Owner: types.Pubkey{1}, Data: []byte{0, 1, 2, 0xff}},
	}
	for _, acc := range tests {
		val, err := encodeAccount(acc)
		require.NoError(t, err)

		got, err := decodeAccount(val)
		require.NoError(t, err)
		assert.Equal(t, acc, got)
	}
}

func TestDecodeAccount_Truncated(t *testing.T) {
	val, err := encodeAccount(&Account{Lamports: 1, Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	_, err = decodeAccount(val[:len(val)-2])
	assert.Error(t, err)
}

func TestRedisStore_Key(t *testing.T) {
	s := NewRedisStore(nil, "")
	key := types.PubkeyFromBase58("SysvarRent111111111111111111111111111111111")
	assert.Equal(t, "flashloan:account:SysvarRent111111111111111111111111111111111", s.getKey(key))
}

// 需要本地 Redis：REDIS_ADDR=127.0.0.1:6379 go test ./internal/store/
func TestRedisStore_RealRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	prefix := "flashloan-test:" + time.Now().Format("20060102150405.000")
	s := NewRedisStore(rdb, prefix)
	key := types.Pubkey{7}

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	acc := &Account{Lamports: 10, Owner: types.Pubkey{8}, Data: []byte{1, 0, 1}}
	require.NoError(t, s.Commit(ctx, map[types.Pubkey]*Account{key: acc}))

	got, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, acc, got)

	rdb.Del(ctx, s.getKey(key))
}
