package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinmay1088/gasline/chains/sui"
)

func TestParseMoveCallMatchesBuilder(t *testing.T) {
	got, err := parseMoveCall("0x2::demo::run", []string{
		"clock", "u8:7", "u64:1000", "bool:true", "string:hi", "address:0x5", "bytes:0a0b", "object:0x9:12:mut",
	})
	require.NoError(t, err)

	want := sui.NewProgrammableTransaction()
	want.MoveCall("0x2::demo::run",
		want.Clock(),
		want.PureU8(7),
		want.PureU64(1000),
		want.PureBool(true),
		want.PureString("hi"),
		want.PureAddress("0x5"),
		want.PureBytes([]byte{0x0a, 0x0b}),
		want.SharedObject("0x9", 12, true),
	)

	gotBytes, err := got.KindBytes()
	require.NoError(t, err)
	wantBytes, err := want.KindBytes()
	require.NoError(t, err)
	assert.Equal(t, wantBytes, gotBytes)
}

func TestParseMoveCallErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		args   []string
	}{
		{"bad target", "transfer", nil},
		{"no kind", "0x2::m::f", []string{"7"}},
		{"u8 overflow", "0x2::m::f", []string{"u8:300"}},
		{"bad bool", "0x2::m::f", []string{"bool:maybe"}},
		{"bad address", "0x2::m::f", []string{"address:zz"}},
		{"bad object", "0x2::m::f", []string{"object:0x9"}},
		{"bad object flag", "0x2::m::f", []string{"object:0x9:1:ro"}},
		{"unknown kind", "0x2::m::f", []string{"u128:1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMoveCall(tt.target, tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseChain(t *testing.T) {
	for in, want := range map[string]string{"APT": "aptos", "move": "movement", "Sui": "sui"} {
		got, err := parseChain(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseChain("eth")
	assert.Error(t, err)
}
