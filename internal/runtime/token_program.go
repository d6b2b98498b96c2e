package runtime

import (
	"context"
	"encoding/binary"

	"flashloan-program/internal/consts"
	"flashloan-program/internal/errs"
	"flashloan-program/internal/logic/processor"
	"flashloan-program/internal/types"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/zeromicro/go-zero/core/logx"
)

// token 程序的自定义错误码
var (
	ErrTokenOwnerMismatch           = errs.Custom(4, "token: owner does not match")
	ErrTokenInvalidInstruction      = errs.Custom(12, "token: invalid instruction")
	ErrTokenAuthorityTypeNotSupport = errs.Custom(15, "token: authority type not supported")
)

// token 账户布局中的偏移
const (
	tokenOffsetMint   = 0
	tokenOffsetOwner  = 32
	tokenOffsetAmount = 64
	tokenOffsetState  = 108

	tokenStateInitialized = 1
)

// setAuthorityDataLen tag + authority type + option + new authority
const setAuthorityDataLen = 3 + types.PubkeySize

// tokenProgram 本地运行时内置的 token 程序，仅支持 SetAuthority(AccountOwner)
type tokenProgram struct{}

func (tokenProgram) Process(ctx context.Context, accounts []*processor.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return ErrTokenInvalidInstruction
	}
	switch sdktoken.Instruction(data[0]) {
	case sdktoken.InstructionSetAuthority:
		return processSetAuthority(ctx, accounts, data)
	default:
		return ErrTokenInvalidInstruction
	}
}

// processSetAuthority 账户顺序：[token 账户, 当前 owner]
func processSetAuthority(ctx context.Context, accounts []*processor.AccountInfo, data []byte) error {
	if len(accounts) < 2 {
		return errs.ErrNotEnoughAccountKeys
	}
	if len(data) < 3 {
		return ErrTokenInvalidInstruction
	}
	if sdktoken.AuthorityType(data[1]) != sdktoken.AuthorityTypeAccountOwner {
		return ErrTokenAuthorityTypeNotSupport
	}
	// 账户 owner 不允许置空
	if data[2] != 1 || len(data) < setAuthorityDataLen {
		return ErrTokenInvalidInstruction
	}
	newOwner, err := types.PubkeyFromBytes(data[3:setAuthorityDataLen])
	if err != nil {
		return ErrTokenInvalidInstruction
	}

	account, authority := accounts[0], accounts[1]
	if account.Owner != consts.TokenProgram {
		return errs.ErrIncorrectProgramID
	}
	tokenAccount, err := sdktoken.TokenAccountFromData(account.Data)
	if err != nil {
		return errs.ErrInvalidAccountData
	}
	if types.PubkeyFromCommon(tokenAccount.Owner) != authority.Key {
		return ErrTokenOwnerMismatch
	}
	if !authority.IsSigner {
		return errs.ErrMissingSignature
	}

	copy(account.Data[tokenOffsetOwner:tokenOffsetOwner+types.PubkeySize], newOwner[:])
	logx.WithContext(ctx).Infof("token account %s owner changed %s -> %s", account.Key, authority.Key, newOwner)
	return nil
}

// NewTokenAccountData 构造已初始化的 token 账户数据
func NewTokenAccountData(mint, owner types.Pubkey, amount uint64) []byte {
	data := make([]byte, sdktoken.TokenAccountSize)
	copy(data[tokenOffsetMint:], mint[:])
	copy(data[tokenOffsetOwner:], owner[:])
	binary.LittleEndian.PutUint64(data[tokenOffsetAmount:], amount)
	data[tokenOffsetState] = tokenStateInitialized
	return data
}

// TokenAccountOwner 读取 token 账户当前 owner
func TokenAccountOwner(data []byte) (types.Pubkey, error) {
	tokenAccount, err := sdktoken.TokenAccountFromData(data)
	if err != nil {
		return types.Pubkey{}, err
	}
	return types.PubkeyFromCommon(tokenAccount.Owner), nil
}
