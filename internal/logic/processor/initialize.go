package processor

import (
	"context"

	"flashloan-program/internal/consts"
	"flashloan-program/internal/errs"
	"flashloan-program/internal/logic/state"
	"flashloan-program/internal/logic/sysvar"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/zeromicro/go-zero/core/logx"
)

// processInitialize 初始化程序状态，并把 token 账户的所有权转交给 PDA。
// 前置条件按顺序检查，校验失败时不写入任何数据；CPI 失败时已写入的状态由宿主整体丢弃。
func (p *Processor) processInitialize(ctx context.Context, accounts []*AccountInfo) error {
	it := newAccountIter(accounts)

	initializer, err := it.Next()
	if err != nil {
		return err
	}
	if !initializer.IsSigner {
		return errs.ErrMissingSignature
	}

	tokenAccount, err := it.Next()
	if err != nil {
		return err
	}
	programAccount, err := it.Next()
	if err != nil {
		return err
	}

	rentAccount, err := it.Next()
	if err != nil {
		return err
	}
	rent, err := rentFromAccount(rentAccount)
	if err != nil {
		return err
	}
	if !rent.IsExempt(programAccount.Lamports, programAccount.DataLen()) {
		return errs.ErrNotRentExempt
	}

	// 状态账户必须恰好为 state.Len 字节
	if programAccount.DataLen() != state.Len {
		return errs.ErrInvalidAccountData
	}
	programState, err := state.Unpack(programAccount.Data)
	if err != nil {
		return err
	}
	if programState.IsInitialized {
		return errs.ErrAlreadyInitialized
	}

	programState.IsInitialized = true
	programState.Initializer = initializer.Key
	programState.TokenAccount = tokenAccount.Key
	state.Pack(programState, programAccount.Data)

	pda, _, err := DeriveAuthority(p.programID)
	if err != nil {
		return err
	}

	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}

	newAuth := pda.ToCommon()
	ownerChangeIx := sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  tokenAccount.Key.ToCommon(),
		NewAuth:  &newAuth,
		AuthType: sdktoken.AuthorityTypeAccountOwner,
		Auth:     initializer.Key.ToCommon(),
	})
	ownerChangeIx.ProgramID = tokenProgram.Key.ToCommon()

	logx.WithContext(ctx).Infof("Calling the token program to transfer token account %s ownership to %s", tokenAccount.Key, pda)
	return p.invoker.Invoke(ctx, ownerChangeIx, []*AccountInfo{tokenAccount, initializer, tokenProgram})
}

// rentFromAccount 校验并解析 rent sysvar 账户
func rentFromAccount(acc *AccountInfo) (sysvar.Rent, error) {
	if acc.Key != consts.SysvarRent {
		return sysvar.Rent{}, errs.ErrInvalidArgument
	}
	rent, err := sysvar.RentFromData(acc.Data)
	if err != nil {
		return sysvar.Rent{}, errs.ErrInvalidArgument
	}
	return rent, nil
}
