package errs

import "fmt"

// builtinShift 宿主内置错误码位于高 32 位，低 32 位留给程序自定义错误
const builtinShift = 32

// ProgramError 表示上报给调用方的错误，Code 为宿主可见的 u64 错误码
type ProgramError struct {
	code    uint64
	custom  bool
	message string
}

func (e *ProgramError) Error() string {
	return e.message
}

// Code 返回上报给宿主的错误码。Custom(0) 按宿主约定编码为 1<<32。
func (e *ProgramError) Code() uint64 {
	if e.custom && e.code == 0 {
		return customZero
	}
	return e.code
}

// IsCustom 是否为程序自定义错误
func (e *ProgramError) IsCustom() bool {
	return e.custom
}

func newCustom(code uint32, message string) *ProgramError {
	e := &ProgramError{code: uint64(code), custom: true, message: message}
	registry[e.Code()] = e
	return e
}

func newBuiltin(n uint64, message string) *ProgramError {
	e := &ProgramError{code: n << builtinShift, message: message}
	registry[e.Code()] = e
	return e
}

var registry = map[uint64]*ProgramError{}

const customZero = uint64(1) << builtinShift

// 程序自定义错误（Custom(n)）
var (
	ErrInvalidInstruction = newCustom(0, "invalid instruction")
	ErrInstructionUnpack  = newCustom(1, "instruction unpack error")
	ErrNotRentExempt      = newCustom(2, "not rent exempt")
)

// 宿主内置错误，编号为账本 ProgramError 的内置序号（左移 32 位）
var (
	ErrInvalidArgument        = newBuiltin(2, "invalid argument")
	ErrInvalidInstructionData = newBuiltin(3, "invalid instruction data")
	ErrInvalidAccountData     = newBuiltin(4, "invalid account data")
	ErrAccountDataTooSmall    = newBuiltin(5, "account data too small")
	ErrInsufficientFunds      = newBuiltin(6, "insufficient funds")
	ErrIncorrectProgramID     = newBuiltin(7, "incorrect program id")
	ErrMissingSignature       = newBuiltin(8, "missing required signature")
	ErrAlreadyInitialized     = newBuiltin(9, "account already initialized")
	ErrUninitializedAccount   = newBuiltin(10, "uninitialized account")
	ErrNotEnoughAccountKeys   = newBuiltin(11, "not enough account keys")
	ErrAccountBorrowFailed    = newBuiltin(12, "account borrow failed")
	ErrMaxSeedLengthExceeded  = newBuiltin(13, "max seed length exceeded")
	ErrInvalidSeeds           = newBuiltin(14, "invalid seeds")
	ErrBorshIoError           = newBuiltin(15, "borsh io error")
	ErrAccountNotRentExempt   = newBuiltin(16, "account not rent exempt")
	ErrUnsupportedSysvar      = newBuiltin(17, "unsupported sysvar")
)

// HostError 由宿主在指令层面判定的错误（程序本身不会返回），
// Kind 为账本 InstructionError 的判别值，与 ProgramError 编码互不重叠。
type HostError struct {
	kind    uint32
	message string
}

func (e *HostError) Error() string {
	return e.message
}

func (e *HostError) Kind() uint32 {
	return e.kind
}

func newHost(kind uint32, message string) *HostError {
	return &HostError{kind: kind, message: message}
}

// 宿主指令级错误
var (
	ErrExternalAccountDataModified = newHost(13, "external account data modified")
	ErrReadonlyDataModified        = newHost(15, "readonly account data modified")
	ErrUnsupportedProgramID        = newHost(30, "unsupported program id")
	ErrCallDepth                   = newHost(31, "call depth exceeded")
	ErrPrivilegeEscalation         = newHost(38, "privilege escalation")
)

// FromCode 根据宿主错误码还原错误；未知自定义码返回带编号的新错误
func FromCode(code uint64) *ProgramError {
	if e, ok := registry[code]; ok {
		return e
	}
	if code < customZero {
		return &ProgramError{code: code, custom: true, message: fmt.Sprintf("custom program error: %#x", code)}
	}
	return &ProgramError{code: code, message: fmt.Sprintf("unknown program error: %#x", code)}
}

// Custom 构造其他程序（例如 token 程序）使用的自定义错误
func Custom(code uint32, message string) *ProgramError {
	return &ProgramError{code: uint64(code), custom: true, message: message}
}
