package sui

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoveTarget(t *testing.T) {
	target, err := ParseMoveTarget("0x2::coin::zero")
	require.NoError(t, err)
	assert.Equal(t, byte(2), target.Package[31])
	assert.Equal(t, "coin", target.Module)
	assert.Equal(t, "zero", target.Function)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000002::coin::zero", target.String())

	for _, bad := range []string{"", "0x2::coin", "0x2::coin::zero::x", "zz::coin::zero", "0x2::1coin::zero", "0x2::coin::"} {
		_, err := ParseMoveTarget(bad)
		assert.Error(t, err, bad)
	}
}

func TestKindBytesLayout(t *testing.T) {
	ptb := NewProgrammableTransaction()
	arg := ptb.PureU64(7)
	ptb.MoveCall("0x2::counter::increment", arg)

	got, err := ptb.KindBytes()
	require.NoError(t, err)

	var want bytes.Buffer
	want.WriteByte(0) // ProgrammableTransaction
	want.WriteByte(1) // one input
	want.Write([]byte{0, 8, 7, 0, 0, 0, 0, 0, 0, 0})
	want.WriteByte(1) // one command
	want.WriteByte(0) // MoveCall
	pkg := make([]byte, 32)
	pkg[31] = 2
	want.Write(pkg)
	want.WriteByte(7)
	want.WriteString("counter")
	want.WriteByte(9)
	want.WriteString("increment")
	want.WriteByte(0)           // type arguments
	want.WriteByte(1)           // one argument
	want.Write([]byte{1, 0, 0}) // Input(0)
	assert.Equal(t, want.Bytes(), got)

	b64, err := ptb.KindBase64()
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(got), b64)
}

func TestKindBytesSharedClock(t *testing.T) {
	ptb := NewProgrammableTransaction()
	ptb.MoveCall("0x2::clock::timestamp_ms", ptb.Clock())

	got, err := ptb.KindBytes()
	require.NoError(t, err)

	clock := []byte{1, 1}
	id := make([]byte, 32)
	id[31] = 6
	clock = append(clock, id...)
	clock = append(clock, 1, 0, 0, 0, 0, 0, 0, 0, 0)
	assert.Equal(t, clock, got[2:2+len(clock)])
}

func TestKindBytesErrors(t *testing.T) {
	_, err := NewProgrammableTransaction().KindBytes()
	assert.ErrorContains(t, err, "no commands")

	ptb := NewProgrammableTransaction()
	ptb.MoveCall("not-a-target")
	_, err = ptb.KindBytes()
	assert.ErrorContains(t, err, "invalid move target")

	ptb = NewProgrammableTransaction()
	ptb.MoveCall("0x2::m::f", ptb.PureAddress("0xnothex"))
	_, err = ptb.KindBytes()
	assert.Error(t, err)
}

func TestResultArguments(t *testing.T) {
	ptb := NewProgrammableTransaction()
	first := ptb.MoveCall("0x2::m::a")
	ptb.MoveCall("0x2::m::b", first, GasCoin())

	got, err := ptb.KindBytes()
	require.NoError(t, err)
	// Result(0) then GasCoin at the end of the second command
	assert.Equal(t, []byte{2, 2, 0, 0, 0}, got[len(got)-5:])
}

func TestParseAddress(t *testing.T) {
	long, err := NormalizeAddress("0x6")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000006", long)
	assert.True(t, IsValidAddress(long))
	assert.False(t, IsValidAddress("0x6"))

	_, err = ParseAddress("0x")
	assert.Error(t, err)
	_, err = ParseAddress("0x" + string(bytes.Repeat([]byte("a"), 65)))
	assert.Error(t, err)
}
