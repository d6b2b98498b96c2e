package processor

import (
	"flashloan-program/internal/errs"
	"flashloan-program/internal/types"
)

// AccountInfo 宿主传入的账户句柄。Data 为宿主借出的存储切片，处理期间原地读写。
type AccountInfo struct {
	Key        types.Pubkey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Owner      types.Pubkey
	Executable bool
	Data       []byte
}

func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}

// accountIter 按固定顺序依次取出账户句柄
type accountIter struct {
	accounts []*AccountInfo
	next     int
}

func newAccountIter(accounts []*AccountInfo) *accountIter {
	return &accountIter{accounts: accounts}
}

// Next 取下一个账户，耗尽时返回 ErrNotEnoughAccountKeys
func (it *accountIter) Next() (*AccountInfo, error) {
	if it.next >= len(it.accounts) {
		return nil, errs.ErrNotEnoughAccountKeys
	}
	acc := it.accounts[it.next]
	it.next++
	return acc, nil
}
