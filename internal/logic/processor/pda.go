package processor

import (
	"fmt"

	"flashloan-program/internal/consts"
	"flashloan-program/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// DeriveAuthority 由固定种子和程序 id 推导 token 账户托管地址（PDA）及 bump。
// 结果只依赖这两个输入，且只有该程序能以此地址签名。
func DeriveAuthority(programID types.Pubkey) (types.Pubkey, uint8, error) {
	pda, bump, err := common.FindProgramAddress([][]byte{[]byte(consts.AuthoritySeed)}, programID.ToCommon())
	if err != nil {
		return types.Pubkey{}, 0, fmt.Errorf("find program address: %w", err)
	}
	return types.PubkeyFromCommon(pda), bump, nil
}
