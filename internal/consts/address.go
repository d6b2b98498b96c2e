package consts

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr = "11111111111111111111111111111111"
	TokenProgramStr  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// Sysvars
	SysvarRentStr = "SysvarRent111111111111111111111111111111111"

	// 本地运行时默认使用的闪电贷程序地址（可在配置中覆盖）
	FlashloanProgramStr = "F1ashLoan1111111111111111111111111111111111"
)
