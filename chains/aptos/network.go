package aptos

import (
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"

	"github.com/chinmay1088/gasline/config"
)

// Movement networks. Testnet is Bardock.
var (
	MovementTestnetConfig = aptos.NetworkConfig{
		Name:    "bardock",
		ChainId: 250,
		NodeUrl: "https://testnet.bardock.movementnetwork.xyz/v1",
	}
	MovementMainnetConfig = aptos.NetworkConfig{
		Name:    "movement-mainnet",
		ChainId: 126,
		NodeUrl: "https://mainnet.movementnetwork.xyz/v1",
	}
)

// NetworkConfig returns the node configuration for chain (aptos or movement)
// on network (testnet or mainnet).
func NetworkConfig(chain, network string) (aptos.NetworkConfig, error) {
	mainnet := network == "mainnet"
	if !mainnet && network != "testnet" {
		return aptos.NetworkConfig{}, fmt.Errorf("unknown network: %s", network)
	}
	switch chain {
	case config.ChainAptos:
		if mainnet {
			return aptos.MainnetConfig, nil
		}
		return aptos.TestnetConfig, nil
	case config.ChainMovement:
		if mainnet {
			return MovementMainnetConfig, nil
		}
		return MovementTestnetConfig, nil
	default:
		return aptos.NetworkConfig{}, fmt.Errorf("unsupported chain: %s", chain)
	}
}

// NewNodeClient connects an SDK client to chain's full node.
func NewNodeClient(chain, network string) (*aptos.Client, error) {
	cfg, err := NetworkConfig(chain, network)
	if err != nil {
		return nil, err
	}
	client, err := aptos.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", chain, err)
	}
	return client, nil
}

// ExplorerURL links to a transaction on the chain's explorer.
func ExplorerURL(chain, network, hash string) string {
	if chain == config.ChainMovement {
		if network == "mainnet" {
			return fmt.Sprintf("https://explorer.movementnetwork.xyz/txn/%s?network=mainnet", hash)
		}
		return fmt.Sprintf("https://explorer.movementnetwork.xyz/txn/%s?network=bardock+testnet", hash)
	}
	return fmt.Sprintf("https://explorer.aptoslabs.com/txn/%s?network=%s", hash, network)
}
