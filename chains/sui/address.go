package sui

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the byte length of Sui addresses and object ids.
const AddressLength = 32

// ParseAddress decodes a 0x-prefixed hex address or object id. Short forms
// such as 0x2 are left padded.
func ParseAddress(s string) ([AddressLength]byte, error) {
	var out [AddressLength]byte
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if trimmed == "" || len(trimmed) > 2*AddressLength {
		return out, fmt.Errorf("invalid Sui address %q", s)
	}
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid Sui address %q: %w", s, err)
	}
	copy(out[AddressLength-len(b):], b)
	return out, nil
}

// NormalizeAddress returns the long 0x-prefixed form of s.
func NormalizeAddress(s string) (string, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(addr[:]), nil
}

// IsValidAddress reports whether s is a full-length Sui address.
func IsValidAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) != 2+2*AddressLength {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
