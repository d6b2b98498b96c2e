package state

import (
	"bytes"
	"testing"

	"flashloan-program/internal/errs"
	"flashloan-program/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledKey(b byte) types.Pubkey {
	var k types.Pubkey
	for i := range k {
		k[i] = b
	}
	return k
}

func TestLen(t *testing.T) {
	assert.Equal(t, 65, Len)
}

func TestUnpack_ZeroValue(t *testing.T) {
	s, err := Unpack(make([]byte, Len))
	require.NoError(t, err)
	assert.Equal(t, ProgramState{}, s)
}

func TestUnpack_InvalidFlag(t *testing.T) {
	for _, flag := range []byte{2, 3, 0x80, 0xff} {
		buf := make([]byte, Len)
		buf[0] = flag
		_, err := Unpack(buf)
		assert.ErrorIs(t, err, errs.ErrInvalidAccountData, "flag=%d", flag)
	}
}

func TestPack_Layout(t *testing.T) {
	s := ProgramState{
		IsInitialized: true,
		Initializer:   filledKey(0x11),
		TokenAccount:  filledKey(0x22),
	}
	buf := Marshal(s)

	require.Len(t, buf, Len)
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 32), buf[1:33])
	assert.Equal(t, bytes.Repeat([]byte{0x22}, 32), buf[33:65])
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	tests := []ProgramState{
		{},
		{IsInitialized: true},
		{IsInitialized: true, Initializer: filledKey(0xaa), TokenAccount: filledKey(0x55)},
		{IsInitialized: false, Initializer: types.Pubkey{1, 2, 3}, TokenAccount: types.Pubkey{31: 9}},
	}
	for _, s := range tests {
		got, err := Unpack(Marshal(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestPack_OnlyTouchesWindow(t *testing.T) {
	// 账户数据比记录长时，Pack 只改写前 65 字节
	buf := bytes.Repeat([]byte{0xee}, Len+10)
	Pack(ProgramState{IsInitialized: true}, buf)

	assert.Equal(t, bytes.Repeat([]byte{0xee}, 10), buf[Len:])
	got, err := Unpack(buf)
	require.NoError(t, err)
	assert.True(t, got.IsInitialized)
}

func TestPack_Deterministic(t *testing.T) {
	s := ProgramState{IsInitialized: true, Initializer: filledKey(7), TokenAccount: filledKey(8)}
	assert.Equal(t, Marshal(s), Marshal(s))
}
