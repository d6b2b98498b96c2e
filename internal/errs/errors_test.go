package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramError_Code(t *testing.T) {
	tests := []struct {
		err  *ProgramError
		code uint64
	}{
		{ErrInvalidInstruction, 1 << 32}, // Custom(0) 特殊编码
		{ErrInstructionUnpack, 1},
		{ErrNotRentExempt, 2},
		{ErrInvalidAccountData, 4 << 32},
		{ErrMissingSignature, 8 << 32},
		{ErrAlreadyInitialized, 9 << 32},
		{ErrNotEnoughAccountKeys, 11 << 32},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Same(t, tt.err, FromCode(tt.code))
		})
	}
}

func TestProgramError_IsCustom(t *testing.T) {
	assert.True(t, ErrInvalidInstruction.IsCustom())
	assert.True(t, ErrNotRentExempt.IsCustom())
	assert.False(t, ErrMissingSignature.IsCustom())
}

func TestFromCode_Unknown(t *testing.T) {
	e := FromCode(0x99)
	assert.True(t, e.IsCustom())
	assert.Equal(t, uint64(0x99), e.Code())

	e = FromCode(99 << 32)
	assert.False(t, e.IsCustom())
	assert.Contains(t, e.Error(), "unknown program error")
}

func TestErrorsIs_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("instruction 0: %w", ErrAlreadyInitialized)
	assert.True(t, errors.Is(wrapped, ErrAlreadyInitialized))
	assert.False(t, errors.Is(wrapped, ErrMissingSignature))

	var pe *ProgramError
	assert.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, uint64(9<<32), pe.Code())
}

func TestFromCode_BuiltinSeedErrors(t *testing.T) {
	tests := []struct {
		code uint64
		want *ProgramError
	}{
		{12 << 32, ErrAccountBorrowFailed},
		{13 << 32, ErrMaxSeedLengthExceeded},
		{14 << 32, ErrInvalidSeeds},
		{15 << 32, ErrBorshIoError},
		{16 << 32, ErrAccountNotRentExempt},
		{17 << 32, ErrUnsupportedSysvar},
	}
	for _, tt := range tests {
		t.Run(tt.want.Error(), func(t *testing.T) {
			assert.Same(t, tt.want, FromCode(tt.code))
		})
	}
}

func TestHostError(t *testing.T) {
	tests := []struct {
		err  *HostError
		kind uint32
	}{
		{ErrExternalAccountDataModified, 13},
		{ErrReadonlyDataModified, 15},
		{ErrUnsupportedProgramID, 30},
		{ErrCallDepth, 31},
		{ErrPrivilegeEscalation, 38},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind())

			wrapped := fmt.Errorf("instruction 0: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.err))
			var pe *ProgramError
			assert.False(t, errors.As(wrapped, &pe))
		})
	}

	assert.Equal(t, "readonly account data modified", ErrReadonlyDataModified.Error())
	assert.NotEqual(t, ErrReadonlyDataModified.Error(), FromCode(13<<32).Error())
}
