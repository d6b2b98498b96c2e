package store

import (
	"context"

	"flashloan-program/internal/types"
)

// Account 账本中保存的账户
type Account struct {
	Lamports   uint64
	Owner      types.Pubkey
	Executable bool
	Data       []byte
}

// Clone 深拷贝，避免调用方持有存储内部的切片
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// AccountStore 本地运行时使用的账户存储
type AccountStore interface {
	// Get 读取账户，不存在时 found 为 false
	Get(ctx context.Context, key types.Pubkey) (acc *Account, found bool, err error)

	// Commit 原子写入一批账户：要么全部可见，要么全部不可见
	Commit(ctx context.Context, accounts map[types.Pubkey]*Account) error
}
