package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"strings"

	"flashloan-program/internal/config"
	"flashloan-program/internal/consts"
	"flashloan-program/internal/errs"
	"flashloan-program/internal/logic/instruction"
	"flashloan-program/internal/logic/processor"
	"flashloan-program/internal/logic/state"
	"flashloan-program/internal/runtime"
	"flashloan-program/internal/store"
	"flashloan-program/internal/svc"
	"flashloan-program/internal/types"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/shopspring/decimal"
)

// lamportsDecimals 1 SOL = 10^9 lamports
const lamportsDecimals = 9

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, c config.Config, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "encode":
		return runEncode(rest, out)
	case "decode":
		return runDecode(rest, out)
	case "state":
		return runState(rest, out)
	case "pda":
		return runPDA(c, out)
	case "rent":
		return runRent(c, rest, out)
	case "simulate":
		return runSimulate(ctx, c, out)
	case "config":
		return runConfig(c, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// parseAmount 把 UI 数量按 decimals 转为最小单位
func parseAmount(s string, decimals int) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimals", s, decimals)
	}
	bi := raw.BigInt()
	if bi.Sign() < 0 || !bi.IsUint64() {
		return 0, fmt.Errorf("amount %s out of range", s)
	}
	return bi.Uint64(), nil
}

// formatAmount 最小单位转 UI 数量
func formatAmount(raw uint64, decimals int) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals)).String()
}

func runEncode(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: encode needs init|execute|flashloan", errUsage)
	}
	fs := flag.NewFlagSet("encode "+args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	amount := fs.String("amount", "0", "amount in UI units")
	decimals := fs.Int("decimals", 0, "token decimals")
	payload := fs.String("payload", "", "hex payload for flashloan; defaults to ExecuteOperation with the same amount")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var ix instruction.Instruction
	switch args[0] {
	case "init":
		ix = instruction.Initialize{}
	case "execute", "flashloan":
		raw, err := parseAmount(*amount, *decimals)
		if err != nil {
			return err
		}
		if args[0] == "execute" {
			ix = instruction.ExecuteOperation{Amount: raw}
			break
		}
		inner := instruction.Pack(instruction.ExecuteOperation{Amount: raw})
		if *payload != "" {
			if inner, err = hex.DecodeString(*payload); err != nil {
				return fmt.Errorf("invalid payload hex: %w", err)
			}
		}
		ix = instruction.FlashloanCall{Amount: raw, Payload: inner}
	default:
		return fmt.Errorf("%w: unknown instruction %q", errUsage, args[0])
	}

	_, err := fmt.Fprintln(out, hex.EncodeToString(instruction.Pack(ix)))
	return err
}

func decodeHexArg(args []string, what string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s needs exactly one hex argument", errUsage, what)
	}
	return hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
}

func runDecode(args []string, out io.Writer) error {
	data, err := decodeHexArg(args, "decode")
	if err != nil {
		return err
	}
	ix, err := instruction.Unpack(data)
	if err != nil {
		return describeError(err)
	}
	return printInstruction(out, ix, "")
}

func printInstruction(out io.Writer, ix instruction.Instruction, indent string) error {
	switch v := ix.(type) {
	case instruction.Initialize:
		fmt.Fprintf(out, "%s%s\n", indent, v.Tag())
	case instruction.ExecuteOperation:
		fmt.Fprintf(out, "%s%s amount=%d\n", indent, v.Tag(), v.Amount)
	case instruction.FlashloanCall:
		fmt.Fprintf(out, "%s%s amount=%d payload=%s\n", indent, v.Tag(), v.Amount, hex.EncodeToString(v.Payload))
		// payload 通常是回调本程序的指令
		if inner, err := instruction.Unpack(v.Payload); err == nil {
			return printInstruction(out, inner, indent+"  ")
		}
	}
	return nil
}

func runState(args []string, out io.Writer) error {
	data, err := decodeHexArg(args, "state")
	if err != nil {
		return err
	}
	if len(data) < state.Len {
		return fmt.Errorf("state record needs %d bytes, got %d", state.Len, len(data))
	}
	s, err := state.Unpack(data)
	if err != nil {
		return describeError(err)
	}
	fmt.Fprintf(out, "is_initialized: %t\n", s.IsInitialized)
	fmt.Fprintf(out, "initializer:    %s\n", s.Initializer)
	fmt.Fprintf(out, "token_account:  %s\n", s.TokenAccount)
	return nil
}

func runPDA(c config.Config, out io.Writer) error {
	pda, bump, err := processor.DeriveAuthority(c.ProgramConf.ProgramID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "program:   %s\n", c.ProgramConf.ProgramID)
	fmt.Fprintf(out, "seed:      %s\n", consts.AuthoritySeed)
	fmt.Fprintf(out, "authority: %s\n", pda)
	fmt.Fprintf(out, "bump:      %d\n", bump)
	return nil
}

func runRent(c config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rent", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	size := fs.Int("size", state.Len, "account data length")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *size < 0 {
		return fmt.Errorf("%w: negative size", errUsage)
	}
	lamports := c.RentConf.ToRent().MinimumBalance(*size)
	fmt.Fprintf(out, "size: %d bytes\n", *size)
	fmt.Fprintf(out, "rent-exempt minimum: %d lamports (%s SOL)\n", lamports, formatAmount(lamports, lamportsDecimals))
	return nil
}

// runConfig 打印补全默认值后的配置
func runConfig(c config.Config, out io.Writer) error {
	raw, err := config.Dump(c)
	if err != nil {
		return err
	}
	_, err = out.Write(raw)
	return err
}

// runSimulate 在本地运行时上准备账户并执行两次 Initialize，第二次应返回 AlreadyInitialized
func runSimulate(ctx context.Context, c config.Config, out io.Writer) error {
	sc, err := svc.NewServiceContext(ctx, c)
	if err != nil {
		return err
	}
	defer sc.Close()

	programID := c.ProgramConf.ProgramID
	initializer := types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	mint := types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	tokenAccount := types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	programAccount := types.PubkeyFromCommon(sdktypes.NewAccount().PublicKey)
	rent := sc.Runtime.Rent()

	tokenData := runtime.NewTokenAccountData(mint, initializer, 1_000_000)

	genesis := map[types.Pubkey]*store.Account{
		initializer: {Lamports: 1_000_000_000, Owner: consts.SystemProgram},
		tokenAccount: {
			Lamports: rent.MinimumBalance(len(tokenData)),
			Owner:    consts.TokenProgram,
			Data:     tokenData,
		},
		programAccount: {
			Lamports: rent.MinimumBalance(state.Len),
			Owner:    programID,
			Data:     make([]byte, state.Len),
		},
	}
	for key, acc := range genesis {
		if err := sc.Runtime.SetAccount(ctx, key, acc); err != nil {
			return err
		}
	}

	pda, _, err := processor.DeriveAuthority(programID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "initializer:     %s\n", initializer)
	fmt.Fprintf(out, "token account:   %s\n", tokenAccount)
	fmt.Fprintf(out, "program account: %s\n", programAccount)
	fmt.Fprintf(out, "authority:       %s\n", pda)

	tx := runtime.Transaction{
		Instructions: []sdktypes.Instruction{
			instruction.NewInitializeInstruction(programID, initializer, tokenAccount, programAccount),
		},
		Signers: []types.Pubkey{initializer},
	}
	for i := 1; i <= 2; i++ {
		err := sc.Runtime.Execute(ctx, tx)
		fmt.Fprintf(out, "initialize #%d: %s\n", i, resultString(err))
	}

	acc, _, err := sc.Runtime.Account(ctx, tokenAccount)
	if err != nil {
		return err
	}
	owner, err := runtime.TokenAccountOwner(acc.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "token account owner: %s (authority=%t)\n", owner, owner == pda)
	return nil
}

func resultString(err error) string {
	if err == nil {
		return "ok"
	}
	return describeError(err).Error()
}

func describeError(err error) error {
	var pe *errs.ProgramError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s (code %#x)", pe.Error(), pe.Code())
	}
	var he *errs.HostError
	if errors.As(err, &he) {
		return fmt.Errorf("%s (host error %d)", he.Error(), he.Kind())
	}
	return err
}
