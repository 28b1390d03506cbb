package api

import (
	"fmt"

	"github.com/chinmay1088/gasline/config"
)

// network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Shinami services. Each chain exposes its own set under
// https://api.<region>.shinami.com/<chain>/<service>/v1.
const (
	ServiceGas      = "gas"
	ServiceNode     = "node"
	ServiceKey      = "key"
	ServiceWallet   = "wallet"
	ServiceZkWallet = "zkwallet"
	ServiceZkProver = "zkprover"
)

// public sui full nodes, used when no node access key is configured
const (
	MainnetSuiRPC = "https://fullnode.mainnet.sui.io:443"
	TestnetSuiRPC = "https://fullnode.testnet.sui.io:443"
)

// ValidNetwork reports whether network is one gasline knows about.
func ValidNetwork(network string) bool {
	return network == NetworkMainnet || network == NetworkTestnet
}

func shinamiURL(region, chain, service string) string {
	return fmt.Sprintf("https://api.%s.shinami.com/%s/%s/v1", region, chain, service)
}

func endpointKey(chain, service string) string {
	return chain + "/" + service
}

// endpoint resolves the URL for a chain service, honouring overrides.
func (c *Client) endpoint(chain, service string) string {
	if url, ok := c.endpoints[endpointKey(chain, service)]; ok {
		return url
	}
	if chain == config.ChainSui && service == ServiceNode && c.keys.Node == "" {
		return c.GetSuiRPC()
	}
	return shinamiURL(c.region, chain, service)
}

// GetSuiRPC returns the public Sui full node for the client's network.
func (c *Client) GetSuiRPC() string {
	if c.IsTestnet() {
		return TestnetSuiRPC
	}
	return MainnetSuiRPC
}
