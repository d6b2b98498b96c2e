package consts

const (
	// AuthoritySeed 程序派生地址（PDA）的固定种子，修改会导致已托管的 token 账户失联
	AuthoritySeed = "my_flashloan_program"

	// MaxInvokeDepth 跨程序调用的最大嵌套深度（含顶层指令）
	MaxInvokeDepth = 4
)
