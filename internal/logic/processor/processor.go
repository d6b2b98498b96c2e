package processor

import (
	"context"

	"flashloan-program/internal/logic/instruction"
	"flashloan-program/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/core/logx"
)

// Invoker 宿主提供的跨程序调用能力。调用失败时整个交易由宿主回滚。
type Invoker interface {
	Invoke(ctx context.Context, ix sdktypes.Instruction, accounts []*AccountInfo) error
}

// OperationHandler 闪电贷业务扩展点，由集成方实现
type OperationHandler interface {
	// ExecuteOperation 借款到账后执行业务逻辑，结束前需保证 token 账户余额足以归还
	// amount 与手续费，并授权借贷程序拉取欠款。
	ExecuteOperation(ctx context.Context, programID types.Pubkey, accounts []*AccountInfo, amount uint64) error

	// FlashloanCall 调用借贷程序的闪电贷入口，payload 由借贷程序原样回传。
	FlashloanCall(ctx context.Context, programID types.Pubkey, accounts []*AccountInfo, amount uint64, payload []byte) error
}

// NopHandler 默认扩展点实现：不做任何校验，直接成功
type NopHandler struct{}

func (NopHandler) ExecuteOperation(context.Context, types.Pubkey, []*AccountInfo, uint64) error {
	return nil
}

func (NopHandler) FlashloanCall(context.Context, types.Pubkey, []*AccountInfo, uint64, []byte) error {
	return nil
}

type Option func(p *Processor)

// WithHandler 替换默认的 NopHandler
func WithHandler(h OperationHandler) Option {
	return func(p *Processor) {
		if h != nil {
			p.handler = h
		}
	}
}

// Processor 指令分发与校验
type Processor struct {
	programID types.Pubkey
	invoker   Invoker
	handler   OperationHandler
}

func NewProcessor(programID types.Pubkey, invoker Invoker, opts ...Option) *Processor {
	p := &Processor{
		programID: programID,
		invoker:   invoker,
		handler:   NopHandler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) ProgramID() types.Pubkey {
	return p.programID
}

// Process 程序入口：解析指令数据并分发
func (p *Processor) Process(ctx context.Context, accounts []*AccountInfo, data []byte) error {
	ix, err := instruction.Unpack(data)
	if err != nil {
		return err
	}

	logger := logx.WithContext(ctx).WithFields(logx.Field("program", p.programID.String()))
	logger.Infof("Instruction: %s", ix.Tag())

	switch v := ix.(type) {
	case instruction.Initialize:
		return p.processInitialize(ctx, accounts)
	case instruction.ExecuteOperation:
		return p.handler.ExecuteOperation(ctx, p.programID, accounts, v.Amount)
	case instruction.FlashloanCall:
		return p.handler.FlashloanCall(ctx, p.programID, accounts, v.Amount, v.Payload)
	default:
		return nil
	}
}
