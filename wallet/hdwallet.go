package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/accounts"
)

// HDKey is one node of a derivation tree.
type HDKey struct {
	PrivateKey []byte
	ChainCode  []byte
	Depth      uint8
	ChildNum   uint32
}

const hardenedOffset = 0x80000000

// deriveEd25519Key derives a 32-byte Ed25519 seed along path with SLIP-0010.
// Ed25519 only supports hardened children.
func deriveEd25519Key(seed []byte, path string) ([]byte, error) {
	derivationPath, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse derivation path: %w", err)
	}

	hash := hmacSHA512([]byte("ed25519 seed"), seed)
	key := &HDKey{PrivateKey: hash[:32], ChainCode: hash[32:]}

	for _, childNum := range derivationPath {
		if !isHardened(childNum) {
			return nil, fmt.Errorf("ed25519 derivation requires hardened path components: %s", path)
		}
		data := make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, key.PrivateKey...)
		data = binary.BigEndian.AppendUint32(data, childNum)

		hash := hmacSHA512(key.ChainCode, data)
		key = &HDKey{
			PrivateKey: hash[:32],
			ChainCode:  hash[32:],
			Depth:      key.Depth + 1,
			ChildNum:   childNum,
		}
	}
	return key.PrivateKey, nil
}

// deriveSecp256k1Key derives a secp256k1 private key along path with BIP-32.
func deriveSecp256k1Key(seed []byte, path string) (*btcec.PrivateKey, error) {
	derivationPath, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse derivation path: %w", err)
	}

	masterKey, err := newMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	childKey := masterKey
	for _, childNum := range derivationPath {
		childKey, err = deriveChild(childKey, childNum)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child: %w", err)
		}
	}

	privateKey, _ := btcec.PrivKeyFromBytes(childKey.PrivateKey)
	return privateKey, nil
}

// newMasterKey creates a BIP-32 master key from seed
func newMasterKey(seed []byte) (*HDKey, error) {
	hash := hmacSHA512([]byte("Bitcoin seed"), seed)

	privateKey := hash[:32]
	if !isValidPrivateKey(privateKey) {
		return nil, fmt.Errorf("invalid private key")
	}

	return &HDKey{
		PrivateKey: privateKey,
		ChainCode:  hash[32:],
	}, nil
}

// deriveChild derives a BIP-32 child key from parent
func deriveChild(parent *HDKey, childNum uint32) (*HDKey, error) {
	var data []byte
	if isHardened(childNum) {
		data = append([]byte{0x00}, parent.PrivateKey...)
	} else {
		parentKey, _ := btcec.PrivKeyFromBytes(parent.PrivateKey)
		data = parentKey.PubKey().SerializeCompressed()
	}
	data = binary.BigEndian.AppendUint32(data, childNum)

	hash := hmacSHA512(parent.ChainCode, data)
	il, ir := hash[:32], hash[32:]

	var tweak btcec.ModNScalar
	if overflow := tweak.SetByteSlice(il); overflow {
		return nil, fmt.Errorf("invalid child key at index %d", childNum)
	}
	var parentScalar btcec.ModNScalar
	parentScalar.SetByteSlice(parent.PrivateKey)
	tweak.Add(&parentScalar)
	if tweak.IsZero() {
		return nil, fmt.Errorf("invalid child key at index %d", childNum)
	}

	childKey := tweak.Bytes()
	return &HDKey{
		PrivateKey: childKey[:],
		ChainCode:  ir,
		Depth:      parent.Depth + 1,
		ChildNum:   childNum,
	}, nil
}

// hmacSHA512 computes HMAC-SHA512
func hmacSHA512(key, data []byte) []byte {
	h := hmac.New(sha512.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// isValidPrivateKey checks the key is a non-zero scalar below the curve order
func isValidPrivateKey(privateKey []byte) bool {
	if len(privateKey) != 32 {
		return false
	}
	var k btcec.ModNScalar
	overflow := k.SetByteSlice(privateKey)
	return !overflow && !k.IsZero()
}

// isHardened checks if child number is hardened
func isHardened(childNum uint32) bool {
	return childNum >= hardenedOffset
}
