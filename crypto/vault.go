package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	ScryptN = 32768 // 2^15
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32 // AES-256 key length

	// VaultVersion is bumped whenever Secrets gains a field.
	VaultVersion = 2
)

// ErrWrongPassword is returned when the vault cannot be opened with the given password.
var ErrWrongPassword = errors.New("invalid password")

// Vault is the on-disk envelope for the local secrets.
type Vault struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// Secrets is everything gasline keeps encrypted: the mnemonic for locally held
// keys and the secret that unlocks invisible-wallet sessions.
type Secrets struct {
	Mnemonic     string `json:"mnemonic"`
	WalletSecret string `json:"wallet_secret,omitempty"`
	Version      int    `json:"version"`
}

// Seal encrypts secrets under password.
func Seal(secrets Secrets, password string) (*Vault, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	secrets.Version = VaultVersion
	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize secrets: %w", err)
	}
	defer clearBytes(plaintext)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &Vault{
		Salt:  salt,
		Nonce: nonce,
		Data:  aesGCM.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open decrypts the vault. A wrong password yields ErrWrongPassword.
func (v *Vault) Open(password string) (*Secrets, error) {
	key, err := deriveKey(password, v.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(v.Nonce) != aesGCM.NonceSize() {
		return nil, fmt.Errorf("corrupt vault: nonce is %d bytes", len(v.Nonce))
	}

	plaintext, err := aesGCM.Open(nil, v.Nonce, v.Data, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}
	defer clearBytes(plaintext)

	var secrets Secrets
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, fmt.Errorf("failed to deserialize secrets: %w", err)
	}
	return &secrets, nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
