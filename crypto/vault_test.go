package crypto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	in := Secrets{
		Mnemonic:     "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		WalletSecret: "correct-horse",
	}

	vault, err := Seal(in, "password123")
	require.NoError(t, err)
	assert.Len(t, vault.Salt, 32)
	assert.Len(t, vault.Nonce, 12)
	assert.NotContains(t, string(vault.Data), "abandon")

	out, err := vault.Open("password123")
	require.NoError(t, err)
	assert.Equal(t, in.Mnemonic, out.Mnemonic)
	assert.Equal(t, in.WalletSecret, out.WalletSecret)
	assert.Equal(t, VaultVersion, out.Version)
}

func TestOpenWrongPassword(t *testing.T) {
	vault, err := Seal(Secrets{Mnemonic: "m"}, "right-password")
	require.NoError(t, err)

	_, err = vault.Open("wrong-password")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestVaultSurvivesJSON(t *testing.T) {
	vault, err := Seal(Secrets{Mnemonic: "m", WalletSecret: "s"}, "pw-pw-pw-pw")
	require.NoError(t, err)

	data, err := json.Marshal(vault)
	require.NoError(t, err)

	var loaded Vault
	require.NoError(t, json.Unmarshal(data, &loaded))

	out, err := loaded.Open("pw-pw-pw-pw")
	require.NoError(t, err)
	assert.Equal(t, "s", out.WalletSecret)
}

func TestOpenCorruptNonce(t *testing.T) {
	vault, err := Seal(Secrets{Mnemonic: "m"}, "pw")
	require.NoError(t, err)
	vault.Nonce = vault.Nonce[:4]

	_, err = vault.Open("pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongPassword)
}
