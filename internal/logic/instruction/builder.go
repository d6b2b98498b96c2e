package instruction

import (
	"flashloan-program/internal/consts"
	"flashloan-program/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

// NewInitializeInstruction 构造客户端使用的 Initialize 指令（账户顺序见 Initialize）
func NewInitializeInstruction(programID, initializer, tokenAccount, programAccount types.Pubkey) sdktypes.Instruction {
	return sdktypes.Instruction{
		ProgramID: programID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: initializer.ToCommon(), IsSigner: true, IsWritable: false},
			{PubKey: tokenAccount.ToCommon(), IsSigner: false, IsWritable: true},
			{PubKey: programAccount.ToCommon(), IsSigner: false, IsWritable: true},
			{PubKey: consts.SysvarRent.ToCommon(), IsSigner: false, IsWritable: false},
			{PubKey: consts.TokenProgram.ToCommon(), IsSigner: false, IsWritable: false},
		},
		Data: Pack(Initialize{}),
	}
}

// NewExecuteOperationInstruction 构造 ExecuteOperation 指令，通常由借贷程序回调时使用
func NewExecuteOperationInstruction(programID types.Pubkey, amount uint64, lendingProgram types.Pubkey) sdktypes.Instruction {
	return sdktypes.Instruction{
		ProgramID: programID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: lendingProgram.ToCommon(), IsSigner: false, IsWritable: false},
			{PubKey: consts.TokenProgram.ToCommon(), IsSigner: false, IsWritable: false},
		},
		Data: Pack(ExecuteOperation{Amount: amount}),
	}
}

// FlashloanAccounts 闪电贷调用涉及的借贷侧账户
type FlashloanAccounts struct {
	DestinationLiquidity   types.Pubkey // 接收借款的 token 账户（本程序的 token 账户）
	Reserve                types.Pubkey
	ReserveLiquiditySupply types.Pubkey
	LendingMarket          types.Pubkey
	LendingMarketAuthority types.Pubkey
}

// NewFlashloanCallInstruction 构造 FlashloanCall 指令。payload 一般为
// Pack(ExecuteOperation{...})，借贷程序放款后会用它回调本程序。
func NewFlashloanCallInstruction(programID types.Pubkey, amount uint64, payload []byte, accs FlashloanAccounts) sdktypes.Instruction {
	return sdktypes.Instruction{
		ProgramID: programID.ToCommon(),
		Accounts: []sdktypes.AccountMeta{
			{PubKey: accs.DestinationLiquidity.ToCommon(), IsSigner: false, IsWritable: true},
			{PubKey: accs.Reserve.ToCommon(), IsSigner: false, IsWritable: true},
			{PubKey: accs.ReserveLiquiditySupply.ToCommon(), IsSigner: false, IsWritable: true},
			{PubKey: accs.LendingMarket.ToCommon(), IsSigner: false, IsWritable: false},
			{PubKey: accs.LendingMarketAuthority.ToCommon(), IsSigner: false, IsWritable: false},
			{PubKey: programID.ToCommon(), IsSigner: false, IsWritable: false},
			{PubKey: consts.TokenProgram.ToCommon(), IsSigner: false, IsWritable: false},
		},
		Data: Pack(FlashloanCall{Amount: amount, Payload: payload}),
	}
}
