package sui

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk/bcs"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Intent scopes. The version and app id bytes are always zero for Sui.
const (
	IntentTransactionData byte = 0
	IntentPersonalMessage byte = 3
)

// IntentDigest is blake2b-256(intent || message).
func IntentDigest(scope byte, message []byte) []byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{scope, 0, 0})
	h.Write(message)
	return h.Sum(nil)
}

// SignTransaction signs BCS transaction data and returns the serialized
// signature expected by sui_executeTransactionBlock.
func SignTransaction(kp Keypair, txBytes []byte) (string, error) {
	return signWithIntent(kp, IntentTransactionData, txBytes)
}

// SignPersonalMessage signs an arbitrary message. The message is BCS encoded
// as vector<u8> before the intent is applied.
func SignPersonalMessage(kp Keypair, message []byte) (string, error) {
	wrapped, err := personalMessageBytes(message)
	if err != nil {
		return "", err
	}
	return signWithIntent(kp, IntentPersonalMessage, wrapped)
}

func personalMessageBytes(message []byte) ([]byte, error) {
	ser := &bcs.Serializer{}
	ser.WriteBytes(message)
	if err := ser.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode personal message: %w", err)
	}
	return ser.ToBytes(), nil
}

func signWithIntent(kp Keypair, scope byte, message []byte) (string, error) {
	sig, err := kp.SignDigest(IntentDigest(scope, message))
	if err != nil {
		return "", err
	}
	return SerializeSignature(kp.Scheme(), sig, kp.PublicKey()), nil
}

// SerializeSignature encodes flag || signature || pubkey as base64.
func SerializeSignature(scheme SignatureScheme, sig, publicKey []byte) string {
	buf := make([]byte, 0, 1+len(sig)+len(publicKey))
	buf = append(buf, byte(scheme))
	buf = append(buf, sig...)
	buf = append(buf, publicKey...)
	return base64.StdEncoding.EncodeToString(buf)
}

// Signature is a decoded serialized signature.
type Signature struct {
	Scheme    SignatureScheme
	Signature []byte
	PublicKey []byte
}

// ParseSerializedSignature decodes a base64 serialized signature. zkLogin and
// multisig payloads are returned whole in Signature with no public key.
func ParseSerializedSignature(s string) (*Signature, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty signature")
	}
	scheme := SignatureScheme(raw[0])
	body := raw[1:]
	switch scheme {
	case SchemeEd25519:
		if len(body) != ed25519.SignatureSize+ed25519.PublicKeySize {
			return nil, fmt.Errorf("invalid ed25519 signature length: %d", len(body))
		}
		return &Signature{Scheme: scheme, Signature: body[:64], PublicKey: body[64:]}, nil
	case SchemeSecp256k1, SchemeSecp256r1:
		if len(body) != 64+33 {
			return nil, fmt.Errorf("invalid %s signature length: %d", scheme, len(body))
		}
		return &Signature{Scheme: scheme, Signature: body[:64], PublicKey: body[64:]}, nil
	case SchemeMultiSig, SchemeZkLogin:
		return &Signature{Scheme: scheme, Signature: body}, nil
	default:
		return nil, fmt.Errorf("unknown signature scheme flag 0x%02x", raw[0])
	}
}

// VerifyTransactionSignature checks an Ed25519 or secp256k1 signature over
// transaction data and returns the signer address.
func VerifyTransactionSignature(txBytes []byte, serialized string) (string, error) {
	sig, err := ParseSerializedSignature(serialized)
	if err != nil {
		return "", err
	}
	digest := IntentDigest(IntentTransactionData, txBytes)
	switch sig.Scheme {
	case SchemeEd25519:
		if !ed25519.Verify(sig.PublicKey, digest, sig.Signature) {
			return "", fmt.Errorf("signature verification failed")
		}
	case SchemeSecp256k1:
		hash := sha256.Sum256(digest)
		if !gethcrypto.VerifySignature(sig.PublicKey, hash[:], sig.Signature) {
			return "", fmt.Errorf("signature verification failed")
		}
	default:
		return "", fmt.Errorf("cannot verify %s signatures locally", sig.Scheme)
	}
	return Address(sig.Scheme, sig.PublicKey), nil
}
