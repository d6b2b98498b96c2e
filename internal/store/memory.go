package store

import (
	"context"
	"sync"

	"flashloan-program/internal/types"
)

// MemoryStore 进程内账户存储
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[types.Pubkey]*Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[types.Pubkey]*Account),
	}
}

func (m *MemoryStore) Get(_ context.Context, key types.Pubkey) (*Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[key]
	if !ok {
		return nil, false, nil
	}
	return acc.Clone(), true, nil
}

func (m *MemoryStore) Commit(_ context.Context, accounts map[types.Pubkey]*Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, acc := range accounts {
		m.accounts[key] = acc.Clone()
	}
	return nil
}

// Len 当前保存的账户数
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}
