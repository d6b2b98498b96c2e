package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"flashloan-program/internal/consts"
	"flashloan-program/internal/errs"
	"flashloan-program/internal/logic/processor"
	"flashloan-program/internal/logic/sysvar"
	"flashloan-program/internal/store"
	"flashloan-program/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/zeromicro/go-zero/core/logx"
)

// Program 可被运行时调度的程序
type Program interface {
	Process(ctx context.Context, accounts []*processor.AccountInfo, data []byte) error
}

// Transaction 一笔待执行的交易
type Transaction struct {
	Instructions []sdktypes.Instruction
	Signers      []types.Pubkey
}

// InstructionError 交易中第 Index 条指令失败
type InstructionError struct {
	Index int
	Err   error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d failed: %v", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

// frame 一层程序调用，pre 为调用开始时各账户数据的快照
type frame struct {
	programID types.Pubkey
	pre       map[*processor.AccountInfo][]byte
}

// Runtime 本地账本宿主：串行执行交易，全部指令成功才提交，否则丢弃所有修改
type Runtime struct {
	mu       sync.Mutex
	store    store.AccountStore
	rent     sysvar.Rent
	programs map[types.Pubkey]Program
	frames   []*frame // 仅在持有 mu 时访问
}

// NewRuntime 创建运行时，并内置 token 程序
func NewRuntime(st store.AccountStore, rent sysvar.Rent) *Runtime {
	r := &Runtime{
		store:    st,
		rent:     rent,
		programs: make(map[types.Pubkey]Program),
	}
	r.programs[consts.TokenProgram] = tokenProgram{}
	return r
}

// RegisterProgram 部署程序
func (r *Runtime) RegisterProgram(id types.Pubkey, prog Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[id] = prog
}

func (r *Runtime) Rent() sysvar.Rent {
	return r.rent
}

// SetAccount 直接写入账户（创世/测试准备数据）
func (r *Runtime) SetAccount(ctx context.Context, key types.Pubkey, acc *store.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Commit(ctx, map[types.Pubkey]*store.Account{key: acc})
}

// Account 读取已提交的账户
func (r *Runtime) Account(ctx context.Context, key types.Pubkey) (*store.Account, bool, error) {
	return r.store.Get(ctx, key)
}

// Execute 执行交易。任一指令失败时返回 *InstructionError，且不提交任何修改。
func (r *Runtime) Execute(ctx context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx = context.WithValue(ctx, activeTxKey{}, r)

	infos, err := r.loadAccounts(ctx, tx)
	if err != nil {
		return err
	}

	for i, ix := range tx.Instructions {
		programID := types.PubkeyFromCommon(ix.ProgramID)
		prog, ok := r.programs[programID]
		if !ok {
			return &InstructionError{Index: i, Err: errs.ErrUnsupportedProgramID}
		}

		accounts := make([]*processor.AccountInfo, 0, len(ix.Accounts))
		for _, meta := range ix.Accounts {
			accounts = append(accounts, infos[types.PubkeyFromCommon(meta.PubKey)])
		}

		if err := r.runFrame(ctx, programID, prog, accounts, ix.Data); err != nil {
			logx.WithContext(ctx).Infof("transaction aborted at instruction %d (program %s): %v", i, programID, err)
			return &InstructionError{Index: i, Err: err}
		}
	}

	return r.commit(ctx, infos)
}

// activeTxKey 标记 ctx 来自本运行时正在执行的交易
type activeTxKey struct{}

// ErrInvokeOutsideTx Invoke 只能由 Execute 调度的程序在同一 ctx 上重入调用
var ErrInvokeOutsideTx = errors.New("invoke outside of transaction")

// Invoke 跨程序调用，实现 processor.Invoker。
// 只允许在 Execute 持有锁期间重入，判断依据是 ctx 而不是共享的 frames。
func (r *Runtime) Invoke(ctx context.Context, ix sdktypes.Instruction, callerAccounts []*processor.AccountInfo) error {
	if rt, _ := ctx.Value(activeTxKey{}).(*Runtime); rt != r || len(r.frames) == 0 {
		return ErrInvokeOutsideTx
	}
	if len(r.frames) >= consts.MaxInvokeDepth {
		return errs.ErrCallDepth
	}

	programID := types.PubkeyFromCommon(ix.ProgramID)
	byKey := make(map[types.Pubkey]*processor.AccountInfo, len(callerAccounts))
	for _, acc := range callerAccounts {
		byKey[acc.Key] = acc
	}

	programAccount, ok := byKey[programID]
	if !ok {
		return errs.ErrNotEnoughAccountKeys
	}
	prog, ok := r.programs[programID]
	if !ok || !programAccount.Executable {
		return errs.ErrUnsupportedProgramID
	}

	accounts := make([]*processor.AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		acc, ok := byKey[types.PubkeyFromCommon(meta.PubKey)]
		if !ok {
			return errs.ErrNotEnoughAccountKeys
		}
		// 被调用方不能获得调用方没有的签名/可写权限
		if (meta.IsSigner && !acc.IsSigner) || (meta.IsWritable && !acc.IsWritable) {
			return errs.ErrPrivilegeEscalation
		}
		accounts = append(accounts, acc)
	}

	return r.runFrame(ctx, programID, prog, accounts, ix.Data)
}

// runFrame 执行一层程序调用，并校验该程序只修改了自己拥有的可写账户
func (r *Runtime) runFrame(ctx context.Context, programID types.Pubkey, prog Program, accounts []*processor.AccountInfo, data []byte) error {
	f := &frame{
		programID: programID,
		pre:       make(map[*processor.AccountInfo][]byte, len(accounts)),
	}
	for _, acc := range accounts {
		if _, seen := f.pre[acc]; !seen {
			f.pre[acc] = bytes.Clone(acc.Data)
		}
	}

	r.frames = append(r.frames, f)
	err := prog.Process(ctx, accounts, data)
	r.frames = r.frames[:len(r.frames)-1]
	if err != nil {
		return err
	}

	for acc, pre := range f.pre {
		if bytes.Equal(pre, acc.Data) {
			continue
		}
		if !acc.IsWritable {
			return errs.ErrReadonlyDataModified
		}
		if acc.Owner != programID {
			return errs.ErrExternalAccountDataModified
		}
	}

	// 被调用方的合法修改不算作调用方的修改
	if len(r.frames) > 0 {
		parent := r.frames[len(r.frames)-1]
		for acc := range f.pre {
			if _, ok := parent.pre[acc]; ok {
				parent.pre[acc] = bytes.Clone(acc.Data)
			}
		}
	}
	return nil
}

// loadAccounts 加载交易涉及的全部账户，同一 key 只生成一个句柄
func (r *Runtime) loadAccounts(ctx context.Context, tx Transaction) (map[types.Pubkey]*processor.AccountInfo, error) {
	signers := make(map[types.Pubkey]bool, len(tx.Signers))
	for _, s := range tx.Signers {
		signers[s] = true
	}

	infos := make(map[types.Pubkey]*processor.AccountInfo)
	load := func(key types.Pubkey) (*processor.AccountInfo, error) {
		if info, ok := infos[key]; ok {
			return info, nil
		}
		info, err := r.loadAccount(ctx, key)
		if err != nil {
			return nil, err
		}
		info.IsSigner = signers[key]
		infos[key] = info
		return info, nil
	}

	for _, ix := range tx.Instructions {
		if _, err := load(types.PubkeyFromCommon(ix.ProgramID)); err != nil {
			return nil, err
		}
		for _, meta := range ix.Accounts {
			info, err := load(types.PubkeyFromCommon(meta.PubKey))
			if err != nil {
				return nil, err
			}
			if meta.IsWritable {
				info.IsWritable = true
			}
		}
	}
	return infos, nil
}

func (r *Runtime) loadAccount(ctx context.Context, key types.Pubkey) (*processor.AccountInfo, error) {
	if key == consts.SysvarRent {
		return &processor.AccountInfo{Key: key, Lamports: 1, Data: r.rent.Data()}, nil
	}
	if _, ok := r.programs[key]; ok {
		return &processor.AccountInfo{Key: key, Executable: true, Data: []byte{}}, nil
	}

	acc, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", key, err)
	}
	if !found {
		return &processor.AccountInfo{Key: key, Owner: consts.SystemProgram, Data: []byte{}}, nil
	}
	return &processor.AccountInfo{
		Key:        key,
		Lamports:   acc.Lamports,
		Owner:      acc.Owner,
		Executable: acc.Executable,
		Data:       acc.Data,
	}, nil
}

// commit 将可写账户写回存储
func (r *Runtime) commit(ctx context.Context, infos map[types.Pubkey]*processor.AccountInfo) error {
	dirty := make(map[types.Pubkey]*store.Account)
	for key, info := range infos {
		if !info.IsWritable || info.Executable || key == consts.SysvarRent {
			continue
		}
		dirty[key] = &store.Account{
			Lamports:   info.Lamports,
			Owner:      info.Owner,
			Executable: info.Executable,
			Data:       info.Data,
		}
	}
	if err := r.store.Commit(ctx, dirty); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
