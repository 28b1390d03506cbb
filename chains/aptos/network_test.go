package aptos

import (
	"testing"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinmay1088/gasline/config"
)

func TestNetworkConfig(t *testing.T) {
	cfg, err := NetworkConfig(config.ChainAptos, "testnet")
	require.NoError(t, err)
	assert.Equal(t, aptos.TestnetConfig.NodeUrl, cfg.NodeUrl)

	cfg, err = NetworkConfig(config.ChainMovement, "testnet")
	require.NoError(t, err)
	assert.Equal(t, uint8(250), cfg.ChainId)

	cfg, err = NetworkConfig(config.ChainMovement, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, uint8(126), cfg.ChainId)

	_, err = NetworkConfig(config.ChainSui, "testnet")
	assert.Error(t, err)
	_, err = NetworkConfig(config.ChainAptos, "devnet")
	assert.Error(t, err)
}

func TestExplorerURL(t *testing.T) {
	assert.Equal(t, "https://explorer.aptoslabs.com/txn/0xabc?network=testnet", ExplorerURL(config.ChainAptos, "testnet", "0xabc"))
	assert.Contains(t, ExplorerURL(config.ChainMovement, "testnet", "0xabc"), "bardock")
}
