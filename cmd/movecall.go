package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/chinmay1088/gasline/chains/sui"
)

// parseMoveCall builds a single move call from CLI arguments. Each argument
// is kind:value:
//
//	clock                      the shared clock object 0x6
//	u8:1 u64:5 bool:true       pure values
//	string:hello               UTF-8 string
//	address:0x2                Sui address
//	bytes:0a0b                 vector<u8> from hex
//	object:<id>:<version>[:mut] shared object at its initial shared version
func parseMoveCall(target string, args []string) (*sui.ProgrammableTransaction, error) {
	if _, err := sui.ParseMoveTarget(target); err != nil {
		return nil, err
	}
	ptb := sui.NewProgrammableTransaction()
	callArgs := make([]sui.Argument, 0, len(args))
	for _, raw := range args {
		arg, err := parseMoveArg(ptb, raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", raw, err)
		}
		callArgs = append(callArgs, arg)
	}
	ptb.MoveCall(target, callArgs...)
	return ptb, nil
}

func parseMoveArg(ptb *sui.ProgrammableTransaction, raw string) (sui.Argument, error) {
	if raw == "clock" {
		return ptb.Clock(), nil
	}
	kind, value, ok := strings.Cut(raw, ":")
	if !ok {
		return sui.Argument{}, fmt.Errorf("expected kind:value")
	}
	switch kind {
	case "u8":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return sui.Argument{}, err
		}
		return ptb.PureU8(uint8(v)), nil
	case "u64":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return sui.Argument{}, err
		}
		return ptb.PureU64(v), nil
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return sui.Argument{}, err
		}
		return ptb.PureBool(v), nil
	case "string":
		return ptb.PureString(value), nil
	case "address":
		if _, err := sui.ParseAddress(value); err != nil {
			return sui.Argument{}, err
		}
		return ptb.PureAddress(value), nil
	case "bytes":
		b, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
		if err != nil {
			return sui.Argument{}, err
		}
		return ptb.PureBytes(b), nil
	case "object":
		parts := strings.Split(value, ":")
		if len(parts) < 2 || len(parts) > 3 || (len(parts) == 3 && parts[2] != "mut") {
			return sui.Argument{}, fmt.Errorf("expected object:<id>:<version>[:mut]")
		}
		if _, err := sui.ParseAddress(parts[0]); err != nil {
			return sui.Argument{}, err
		}
		version, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return sui.Argument{}, fmt.Errorf("invalid version: %w", err)
		}
		return ptb.SharedObject(parts[0], version, len(parts) == 3), nil
	default:
		return sui.Argument{}, fmt.Errorf("unknown argument kind %q", kind)
	}
}
