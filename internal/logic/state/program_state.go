package state

import (
	"flashloan-program/internal/errs"
	"flashloan-program/internal/types"
)

// ProgramState 程序状态账户的持久化记录
//
// Layout（共 65 字节）：
//
//	[0, 1)   is_initialized  0 / 1
//	[1, 33)  initializer
//	[33, 65) token_account   受程序控制的 token 账户
type ProgramState struct {
	IsInitialized bool
	Initializer   types.Pubkey
	TokenAccount  types.Pubkey
}

const (
	offsetInitialized  = 0
	offsetInitializer  = offsetInitialized + 1
	offsetTokenAccount = offsetInitializer + types.PubkeySize

	// Len 序列化后的固定长度
	Len = offsetTokenAccount + types.PubkeySize
)

// Unpack 从 65 字节窗口解析状态。调用方须保证 len(src) >= Len。
func Unpack(src []byte) (ProgramState, error) {
	src = src[:Len]

	var s ProgramState
	switch src[offsetInitialized] {
	case 0:
		s.IsInitialized = false
	case 1:
		s.IsInitialized = true
	default:
		return ProgramState{}, errs.ErrInvalidAccountData
	}
	copy(s.Initializer[:], src[offsetInitializer:offsetTokenAccount])
	copy(s.TokenAccount[:], src[offsetTokenAccount:Len])
	return s, nil
}

// Pack 将状态写入 dst 的前 65 字节。调用方须保证 len(dst) >= Len。
func Pack(s ProgramState, dst []byte) {
	dst = dst[:Len]

	if s.IsInitialized {
		dst[offsetInitialized] = 1
	} else {
		dst[offsetInitialized] = 0
	}
	copy(dst[offsetInitializer:offsetTokenAccount], s.Initializer[:])
	copy(dst[offsetTokenAccount:Len], s.TokenAccount[:])
}

// Marshal 返回新分配的 65 字节编码
func Marshal(s ProgramState) []byte {
	buf := make([]byte, Len)
	Pack(s, buf)
	return buf
}
