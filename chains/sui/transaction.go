package sui

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk/bcs"
)

// MoveTarget identifies a Move function as package::module::function.
type MoveTarget struct {
	Package  [AddressLength]byte
	Module   string
	Function string
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseMoveTarget parses "0xpkg::module::function".
func ParseMoveTarget(s string) (MoveTarget, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 {
		return MoveTarget{}, fmt.Errorf("invalid move target %q: expected package::module::function", s)
	}
	pkg, err := ParseAddress(parts[0])
	if err != nil {
		return MoveTarget{}, fmt.Errorf("invalid move target %q: %w", s, err)
	}
	for _, ident := range parts[1:] {
		if !identifierRe.MatchString(ident) {
			return MoveTarget{}, fmt.Errorf("invalid move target %q: bad identifier %q", s, ident)
		}
	}
	return MoveTarget{Package: pkg, Module: parts[1], Function: parts[2]}, nil
}

func (t MoveTarget) String() string {
	return "0x" + hex.EncodeToString(t.Package[:]) + "::" + t.Module + "::" + t.Function
}

// Argument kinds as encoded in a programmable transaction.
const (
	argGasCoin      uint8 = 0
	argInput        uint8 = 1
	argResult       uint8 = 2
	argNestedResult uint8 = 3
)

// Argument refers to an input or an earlier command's result.
type Argument struct {
	kind   uint8
	index  uint16
	nested uint16
}

// GasCoin refers to the transaction's gas coin.
func GasCoin() Argument {
	return Argument{kind: argGasCoin}
}

func (a Argument) MarshalBCS(ser *bcs.Serializer) {
	ser.Uleb128(uint32(a.kind))
	switch a.kind {
	case argInput, argResult:
		ser.U16(a.index)
	case argNestedResult:
		ser.U16(a.index)
		ser.U16(a.nested)
	}
}

// The well-known shared clock object.
const (
	ClockObjectID             = "0x6"
	clockInitialSharedVersion = 1
)

type callArg struct {
	pure []byte

	shared        bool
	objectID      [AddressLength]byte
	sharedVersion uint64
	mutable       bool
}

func (c callArg) MarshalBCS(ser *bcs.Serializer) {
	if !c.shared {
		ser.Uleb128(0) // Pure
		ser.WriteBytes(c.pure)
		return
	}
	ser.Uleb128(1) // Object
	ser.Uleb128(1) // SharedObject
	ser.FixedBytes(c.objectID[:])
	ser.U64(c.sharedVersion)
	ser.Bool(c.mutable)
}

type moveCall struct {
	target MoveTarget
	args   []Argument
}

func (m moveCall) MarshalBCS(ser *bcs.Serializer) {
	ser.Uleb128(0) // MoveCall
	ser.FixedBytes(m.target.Package[:])
	ser.WriteString(m.target.Module)
	ser.WriteString(m.target.Function)
	ser.Uleb128(0) // no type arguments
	ser.Uleb128(uint32(len(m.args)))
	for _, a := range m.args {
		ser.Struct(a)
	}
}

// ProgrammableTransaction builds a gasless transaction kind out of pure
// inputs, shared objects and move calls.
type ProgrammableTransaction struct {
	inputs   []callArg
	commands []moveCall
	err      error
}

// NewProgrammableTransaction returns an empty builder.
func NewProgrammableTransaction() *ProgrammableTransaction {
	return &ProgrammableTransaction{}
}

func (p *ProgrammableTransaction) addInput(arg callArg) Argument {
	p.inputs = append(p.inputs, arg)
	return Argument{kind: argInput, index: uint16(len(p.inputs) - 1)}
}

func (p *ProgrammableTransaction) pure(encode func(ser *bcs.Serializer)) Argument {
	ser := &bcs.Serializer{}
	encode(ser)
	if err := ser.Error(); err != nil && p.err == nil {
		p.err = fmt.Errorf("failed to encode pure input: %w", err)
	}
	return p.addInput(callArg{pure: ser.ToBytes()})
}

func (p *ProgrammableTransaction) PureU8(v uint8) Argument {
	return p.pure(func(ser *bcs.Serializer) { ser.U8(v) })
}

func (p *ProgrammableTransaction) PureU64(v uint64) Argument {
	return p.pure(func(ser *bcs.Serializer) { ser.U64(v) })
}

func (p *ProgrammableTransaction) PureBool(v bool) Argument {
	return p.pure(func(ser *bcs.Serializer) { ser.Bool(v) })
}

func (p *ProgrammableTransaction) PureString(v string) Argument {
	return p.pure(func(ser *bcs.Serializer) { ser.WriteString(v) })
}

func (p *ProgrammableTransaction) PureBytes(v []byte) Argument {
	return p.pure(func(ser *bcs.Serializer) { ser.WriteBytes(v) })
}

func (p *ProgrammableTransaction) PureAddress(s string) Argument {
	addr, err := ParseAddress(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return p.pure(func(ser *bcs.Serializer) { ser.FixedBytes(addr[:]) })
}

// SharedObject adds a shared object input.
func (p *ProgrammableTransaction) SharedObject(id string, initialSharedVersion uint64, mutable bool) Argument {
	objectID, err := ParseAddress(id)
	if err != nil && p.err == nil {
		p.err = err
	}
	return p.addInput(callArg{
		shared:        true,
		objectID:      objectID,
		sharedVersion: initialSharedVersion,
		mutable:       mutable,
	})
}

// Clock adds the immutable clock object 0x6.
func (p *ProgrammableTransaction) Clock() Argument {
	return p.SharedObject(ClockObjectID, clockInitialSharedVersion, false)
}

// MoveCall appends a call with no type arguments and returns its result.
func (p *ProgrammableTransaction) MoveCall(target string, args ...Argument) Argument {
	t, err := ParseMoveTarget(target)
	if err != nil && p.err == nil {
		p.err = err
	}
	p.commands = append(p.commands, moveCall{target: t, args: args})
	return Argument{kind: argResult, index: uint16(len(p.commands) - 1)}
}

// KindBytes serializes TransactionKind::ProgrammableTransaction.
func (p *ProgrammableTransaction) KindBytes() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.commands) == 0 {
		return nil, fmt.Errorf("transaction has no commands")
	}
	ser := &bcs.Serializer{}
	ser.Uleb128(0) // ProgrammableTransaction
	ser.Uleb128(uint32(len(p.inputs)))
	for _, in := range p.inputs {
		ser.Struct(in)
	}
	ser.Uleb128(uint32(len(p.commands)))
	for _, cmd := range p.commands {
		ser.Struct(cmd)
	}
	if err := ser.Error(); err != nil {
		return nil, fmt.Errorf("failed to serialize transaction kind: %w", err)
	}
	return ser.ToBytes(), nil
}

// KindBase64 is KindBytes as the gas station expects it.
func (p *ProgrammableTransaction) KindBase64() (string, error) {
	b, err := p.KindBytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
