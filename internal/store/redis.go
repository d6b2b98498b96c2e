package store

import (
	"context"
	"errors"
	"fmt"

	"flashloan-program/internal/types"

	"github.com/near/borsh-go"
	"github.com/redis/go-redis/v9"
)

// 账户 key 默认前缀
const defaultKeyPrefix = "flashloan:account"

// accountRecord Redis 中账户的 borsh 编码结构，字段顺序即编码顺序
type accountRecord struct {
	Lamports   uint64
	Owner      [32]byte
	Executable bool
	Data       []byte
}

// RedisStore 基于 Redis 的账户存储，Commit 通过 MULTI/EXEC 保证原子性
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 账户存储，prefix 为空时使用默认前缀
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// getKey 构造 Redis key：<prefix>:<base58 pubkey>
func (r *RedisStore) getKey(key types.Pubkey) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RedisStore) Get(ctx context.Context, key types.Pubkey) (*Account, bool, error) {
	val, err := r.rdb.Get(ctx, r.getKey(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("redis get account %s error: %w", key, err)
	}

	acc, err := decodeAccount(val)
	if err != nil {
		return nil, false, fmt.Errorf("decode account %s: %w", key, err)
	}
	return acc, true, nil
}

func (r *RedisStore) Commit(ctx context.Context, accounts map[types.Pubkey]*Account) error {
	if len(accounts) == 0 {
		return nil
	}

	values := make(map[string][]byte, len(accounts))
	for key, acc := range accounts {
		val, err := encodeAccount(acc)
		if err != nil {
			return fmt.Errorf("encode account %s: %w", key, err)
		}
		values[r.getKey(key)] = val
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis commit %d accounts error: %w", len(accounts), err)
	}
	return nil
}

func encodeAccount(acc *Account) ([]byte, error) {
	return borsh.Serialize(accountRecord{
		Lamports:   acc.Lamports,
		Owner:      acc.Owner,
		Executable: acc.Executable,
		Data:       acc.Data,
	})
}

func decodeAccount(val []byte) (*Account, error) {
	var rec accountRecord
	if err := borsh.Deserialize(&rec, val); err != nil {
		return nil, err
	}
	data := rec.Data
	if data == nil {
		data = []byte{}
	}
	return &Account{
		Lamports:   rec.Lamports,
		Owner:      rec.Owner,
		Executable: rec.Executable,
		Data:       data,
	}, nil
}
