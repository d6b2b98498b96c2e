package consts

import (
	"flashloan-program/internal/types"
)

// 公钥形式的地址常量（types.Pubkey），用于链上比对等场景。
var (
	// Programs
	SystemProgram types.Pubkey
	TokenProgram  types.Pubkey

	// Sysvars
	SysvarRent types.Pubkey

	DefaultFlashloanProgram types.Pubkey
)

// init 自动将 base58 字符串地址转换为 types.Pubkey
func init() {
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram = types.PubkeyFromBase58(TokenProgramStr)

	SysvarRent = types.PubkeyFromBase58(SysvarRentStr)

	DefaultFlashloanProgram = types.PubkeyFromBase58(FlashloanProgramStr)
}
