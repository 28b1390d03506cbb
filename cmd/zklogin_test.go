package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinmay1088/gasline/chains/sui"
)

func TestZkLoginStatePersists(t *testing.T) {
	home := t.TempDir()

	_, err := loadZkLoginState(home)
	assert.ErrorContains(t, err, "zklogin begin")

	state, err := newZkLoginState("testnet", 42)
	require.NoError(t, err)
	require.NoError(t, saveZkLoginState(home, state))

	loaded, err := loadZkLoginState(home)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	kp, err := loaded.ephemeralKey()
	require.NoError(t, err)
	assert.Equal(t, state.ExtendedEphemeralPublicKey, sui.ExtendedEphemeralPublicKey(kp))

	nonce, err := sui.ZkLoginNonce(kp, 42, loaded.JWTRandomness)
	require.NoError(t, err)
	assert.Equal(t, nonce, loaded.Nonce)
	assert.Len(t, loaded.Nonce, sui.NonceLength)
}
