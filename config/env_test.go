package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GASLINE_HOME", t.TempDir())
	t.Setenv("GASLINE_CHAIN", "")
	t.Setenv("SHINAMI_REGION", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "us1", cfg.Region)
	assert.Equal(t, ChainAptos, cfg.Chain)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadReadsKeys(t *testing.T) {
	t.Setenv("GASLINE_HOME", t.TempDir())
	t.Setenv("SHINAMI_GAS_ACCESS_KEY", "us1_aptos_testnet_gas")
	t.Setenv("SHINAMI_WALLET_ACCESS_KEY", "us1_aptos_testnet_wal")
	t.Setenv("GASLINE_CHAIN", " Movement ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "us1_aptos_testnet_gas", cfg.GasAccessKey)
	assert.Equal(t, "us1_aptos_testnet_wal", cfg.WalletAccessKey)
	assert.Equal(t, ChainMovement, cfg.Chain)
	assert.NoError(t, cfg.RequireGasKey())
	assert.NoError(t, cfg.RequireWalletKey())
}

func TestLoadAcceptsAnyChain(t *testing.T) {
	t.Setenv("GASLINE_HOME", t.TempDir())
	t.Setenv("GASLINE_CHAIN", "sui")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sui", cfg.Chain)
	assert.ErrorContains(t, cfg.ValidateChain(), "GASLINE_CHAIN")
}

func TestValidateChain(t *testing.T) {
	for _, chain := range []string{ChainAptos, ChainMovement} {
		assert.NoError(t, Config{Chain: chain}.ValidateChain(), chain)
	}
	for _, chain := range []string{ChainSui, "", "solana"} {
		assert.Error(t, Config{Chain: chain}.ValidateChain(), chain)
	}
}

func TestLoadDefaultHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GASLINE_HOME", "")
	t.Setenv("GASLINE_CHAIN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".gasline"), cfg.Home)
}

func TestRequireKeys(t *testing.T) {
	var cfg Config
	assert.ErrorContains(t, cfg.RequireGasKey(), "SHINAMI_GAS_ACCESS_KEY")
	assert.ErrorContains(t, cfg.RequireWalletKey(), "SHINAMI_WALLET_ACCESS_KEY")
}

func TestParseEnvError(t *testing.T) {
	var target struct {
		Port int `env:"GASLINE_TEST_PORT"`
	}
	t.Setenv("GASLINE_TEST_PORT", "not-an-int")

	err := ParseEnv(&target)
	assert.ErrorContains(t, err, "parse env:")
}
