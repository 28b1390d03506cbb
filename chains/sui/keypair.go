package sui

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// SignatureScheme is the one-byte flag Sui prefixes to public keys and
// serialized signatures.
type SignatureScheme byte

const (
	SchemeEd25519   SignatureScheme = 0x00
	SchemeSecp256k1 SignatureScheme = 0x01
	SchemeSecp256r1 SignatureScheme = 0x02
	SchemeMultiSig  SignatureScheme = 0x03
	SchemeZkLogin   SignatureScheme = 0x05
)

func (s SignatureScheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	case SchemeSecp256r1:
		return "secp256r1"
	case SchemeMultiSig:
		return "multisig"
	case SchemeZkLogin:
		return "zklogin"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(s))
	}
}

// ParseScheme maps a scheme name to its flag. Only locally signable schemes
// are accepted.
func ParseScheme(name string) (SignatureScheme, error) {
	switch name {
	case "ed25519", "":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	default:
		return 0, fmt.Errorf("unsupported signature scheme: %s", name)
	}
}

// Keypair signs 32-byte intent digests on behalf of a Sui address.
type Keypair interface {
	PublicKey() []byte
	Scheme() SignatureScheme
	SignDigest(digest []byte) ([]byte, error)
	Address() string
}

// Address derives the Sui address for a public key:
// blake2b-256(flag || pubkey), hex encoded.
func Address(scheme SignatureScheme, publicKey []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(scheme)})
	h.Write(publicKey)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Ed25519Keypair is a Sui Ed25519 key.
type Ed25519Keypair struct {
	key ed25519.PrivateKey
}

// NewEd25519KeypairFromSeed builds a keypair from a 32-byte seed.
func NewEd25519KeypairFromSeed(seed []byte) (*Ed25519Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid ed25519 seed length: %d", len(seed))
	}
	return &Ed25519Keypair{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// GenerateEd25519Keypair returns a fresh random keypair.
func GenerateEd25519Keypair() (*Ed25519Keypair, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return &Ed25519Keypair{key: key}, nil
}

// Seed returns the 32-byte private key seed.
func (k *Ed25519Keypair) Seed() []byte {
	return k.key.Seed()
}

func (k *Ed25519Keypair) PublicKey() []byte {
	return []byte(k.key.Public().(ed25519.PublicKey))
}

func (k *Ed25519Keypair) Scheme() SignatureScheme {
	return SchemeEd25519
}

func (k *Ed25519Keypair) SignDigest(digest []byte) ([]byte, error) {
	return ed25519.Sign(k.key, digest), nil
}

func (k *Ed25519Keypair) Address() string {
	return Address(SchemeEd25519, k.PublicKey())
}

// Secp256k1Keypair is a Sui secp256k1 key. Signatures are 64-byte r||s over
// sha256 of the digest, with low S.
type Secp256k1Keypair struct {
	key *btcec.PrivateKey
}

// NewSecp256k1KeypairFromBytes builds a keypair from a 32-byte scalar.
func NewSecp256k1KeypairFromBytes(b []byte) (*Secp256k1Keypair, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("invalid secp256k1 key length: %d", len(b))
	}
	key, _ := btcec.PrivKeyFromBytes(b)
	return &Secp256k1Keypair{key: key}, nil
}

func (k *Secp256k1Keypair) PublicKey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

func (k *Secp256k1Keypair) Scheme() SignatureScheme {
	return SchemeSecp256k1
}

func (k *Secp256k1Keypair) SignDigest(digest []byte) ([]byte, error) {
	hash := sha256.Sum256(digest)
	sig, err := gethcrypto.Sign(hash[:], k.key.ToECDSA())
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	// drop the recovery id
	return sig[:64], nil
}

func (k *Secp256k1Keypair) Address() string {
	return Address(SchemeSecp256k1, k.PublicKey())
}
