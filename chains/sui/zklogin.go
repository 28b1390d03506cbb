package sui

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// NewEphemeralKey creates the short-lived key a zkLogin session signs with.
func NewEphemeralKey() (*Ed25519Keypair, error) {
	return GenerateEd25519Keypair()
}

// ExtendedEphemeralPublicKey is flag || public key in base64, the form the
// Sui SDKs hand to the prover.
func ExtendedEphemeralPublicKey(kp Keypair) string {
	return base64.StdEncoding.EncodeToString(extendedKey(kp))
}

func extendedKey(kp Keypair) []byte {
	return append([]byte{byte(kp.Scheme())}, kp.PublicKey()...)
}

// ParseExtendedEphemeralPublicKey accepts the base64 form and the older
// decimal form of flag || public key and returns the raw bytes.
func ParseExtendedEphemeralPublicKey(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil && validExtendedKey(b) {
		return b, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if ok && n.Sign() > 0 {
		b := n.Bytes()
		// an ed25519 flag is a leading zero and vanishes in the integer
		if len(b) == 32 {
			b = append([]byte{byte(SchemeEd25519)}, b...)
		}
		if validExtendedKey(b) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("invalid extended ephemeral public key %q", s)
}

func validExtendedKey(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch SignatureScheme(b[0]) {
	case SchemeEd25519:
		return len(b) == 33
	case SchemeSecp256k1, SchemeSecp256r1:
		return len(b) == 34
	default:
		return false
	}
}

// NonceLength is the length of a zkLogin OAuth nonce.
const NonceLength = 27

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// ZkLoginNonce is the OAuth nonce that binds an id token to an ephemeral key,
// a max epoch and the JWT randomness.
func ZkLoginNonce(kp Keypair, maxEpoch uint64, randomness string) (string, error) {
	return NonceFromExtendedKey(extendedKey(kp), maxEpoch, randomness)
}

// NonceFromExtendedKey computes the nonce from flag || public key. The key
// integer is split into 128-bit halves, hashed with the epoch and the
// randomness by the BN254 Poseidon, and the low 20 bytes are base64url encoded.
func NonceFromExtendedKey(extended []byte, maxEpoch uint64, randomness string) (string, error) {
	r, ok := new(big.Int).SetString(randomness, 10)
	if !ok || r.Sign() < 0 {
		return "", fmt.Errorf("invalid jwt randomness %q", randomness)
	}
	hi, lo := new(big.Int).QuoRem(new(big.Int).SetBytes(extended), two128, new(big.Int))
	h, err := poseidon.Hash([]*big.Int{hi, lo, new(big.Int).SetUint64(maxEpoch), r})
	if err != nil {
		return "", fmt.Errorf("failed to hash nonce inputs: %w", err)
	}
	nonce := base64.RawURLEncoding.EncodeToString(h.FillBytes(make([]byte, 32))[12:])
	if len(nonce) != NonceLength {
		return "", fmt.Errorf("unexpected nonce length %d", len(nonce))
	}
	return nonce, nil
}

// NewJWTRandomness returns 16 random bytes as a decimal string.
func NewJWTRandomness() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate randomness: %w", err)
	}
	return new(big.Int).SetBytes(buf).String(), nil
}

// IDToken holds the OpenID claims zkLogin binds an address to.
type IDToken struct {
	Issuer   string
	Subject  string
	Audience string
	Nonce    string
	Raw      string
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

// ParseIDToken reads the claims of an OpenID id token. The signature is not
// checked here; the salt service and prover verify it against the issuer's keys.
func ParseIDToken(token string) (*IDToken, error) {
	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("invalid id token: %w", err)
	}
	if claims.Issuer == "" || claims.Subject == "" {
		return nil, fmt.Errorf("invalid id token: missing iss or sub claim")
	}
	if len(claims.Audience) == 0 || claims.Audience[0] == "" {
		return nil, fmt.Errorf("invalid id token: missing aud claim")
	}
	if claims.Nonce == "" {
		return nil, fmt.Errorf("invalid id token: missing nonce claim")
	}
	return &IDToken{
		Issuer:   claims.Issuer,
		Subject:  claims.Subject,
		Audience: claims.Audience[0],
		Nonce:    claims.Nonce,
		Raw:      token,
	}, nil
}
