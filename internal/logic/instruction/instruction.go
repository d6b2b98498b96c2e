package instruction

import (
	"encoding/binary"

	"flashloan-program/internal/errs"
)

// Tag 指令首字节
type Tag uint8

const (
	TagInitialize       Tag = 0
	TagExecuteOperation Tag = 1
	TagFlashloanCall    Tag = 2
)

const amountSize = 8

func (t Tag) String() string {
	switch t {
	case TagInitialize:
		return "Initialize"
	case TagExecuteOperation:
		return "ExecuteOperation"
	case TagFlashloanCall:
		return "FlashloanCall"
	default:
		return "Unknown"
	}
}

// Instruction 程序可接受的指令，仅本包内的三种类型实现该接口
type Instruction interface {
	Tag() Tag
	sealed()
}

// Initialize 创建并填充程序账户，同时把 token 账户的所有权转交给 PDA。
//
// 账户顺序：
//
//	0. `[signer]`   初始化者
//	1. `[writable]` 程序使用的 token 账户，需预先创建且归初始化者所有
//	2. `[writable]` 程序状态账户
//	3. `[]`         rent sysvar
//	4. `[]`         token 程序
type Initialize struct{}

// ExecuteOperation 借贷程序放款后回调本程序，由集成方在此使用资金并授权归还。
//
// 账户顺序：
//
//	0. `[]` 借贷程序
//	1. `[]` token 程序
type ExecuteOperation struct {
	Amount uint64
}

// FlashloanCall 调用借贷程序的闪电贷入口。Payload 为预先编码好的
// ExecuteOperation 指令，由借贷程序原样回传。
//
// 账户顺序：
//
//	0. `[writable]` 接收借款的 token 账户
//	1. `[writable]` 借贷储备账户
//	2. `[writable]` 储备流动性 token 账户
//	3. `[]`         借贷市场账户
//	4. `[]`         借贷市场派生权限
//	5. `[]`         本程序 id
//	6. `[]`         token 程序
type FlashloanCall struct {
	Amount  uint64
	Payload []byte
}

func (Initialize) Tag() Tag       { return TagInitialize }
func (ExecuteOperation) Tag() Tag { return TagExecuteOperation }
func (FlashloanCall) Tag() Tag    { return TagFlashloanCall }

func (Initialize) sealed()       {}
func (ExecuteOperation) sealed() {}
func (FlashloanCall) sealed()    {}

// Unpack 将不可信的字节序列解析为指令
func Unpack(input []byte) (Instruction, error) {
	if len(input) == 0 {
		return nil, errs.ErrInvalidInstruction
	}
	tag, rest := Tag(input[0]), input[1:]

	switch tag {
	case TagInitialize:
		return Initialize{}, nil

	case TagExecuteOperation:
		amount, _, err := unpackU64(rest)
		if err != nil {
			return nil, err
		}
		return ExecuteOperation{Amount: amount}, nil

	case TagFlashloanCall:
		amount, rest, err := unpackU64(rest)
		if err != nil {
			return nil, err
		}
		// payload 原样拷贝，不引用调用方缓冲区
		payload := make([]byte, len(rest))
		copy(payload, rest)
		return FlashloanCall{Amount: amount, Payload: payload}, nil

	default:
		return nil, errs.ErrInvalidInstruction
	}
}

// unpackU64 读取小端 u64，不足 8 字节返回 ErrInstructionUnpack
func unpackU64(input []byte) (uint64, []byte, error) {
	if len(input) < amountSize {
		return 0, nil, errs.ErrInstructionUnpack
	}
	return binary.LittleEndian.Uint64(input[:amountSize]), input[amountSize:], nil
}

// Pack 将指令编码为字节序列，是 Unpack 的逆过程
func Pack(ix Instruction) []byte {
	switch v := ix.(type) {
	case Initialize:
		return []byte{byte(TagInitialize)}

	case ExecuteOperation:
		buf := make([]byte, 1+amountSize)
		buf[0] = byte(TagExecuteOperation)
		binary.LittleEndian.PutUint64(buf[1:], v.Amount)
		return buf

	case FlashloanCall:
		buf := make([]byte, 1+amountSize, 1+amountSize+len(v.Payload))
		buf[0] = byte(TagFlashloanCall)
		binary.LittleEndian.PutUint64(buf[1:], v.Amount)
		return append(buf, v.Payload...)

	default:
		// sealed 接口保证不会走到这里
		panic("instruction: unknown instruction type")
	}
}
