package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/wallet"
)

var networkCmd = &cobra.Command{
	Use:   "network [mainnet|testnet]",
	Short: "Show or change network",
	Long: `Show the current network or switch between mainnet and testnet.

Testnet uses Aptos testnet, Movement Bardock and Sui testnet.
Shinami access keys are per network: switch keys along with the network.

Examples:
  gasline network            # Show current network
  gasline network mainnet    # Switch to mainnet
  gasline network testnet    # Switch to testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return showCurrentNetwork(cfg, manager)
	}

	network := strings.ToLower(args[0])
	if err := manager.SetNetwork(network); err != nil {
		return err
	}
	fmt.Printf("🌐 Switched to %s network\n", strings.ToUpper(network))
	if network == wallet.NetworkMainnet {
		fmt.Println("⚠️  Sponsored transactions now spend your mainnet gas fund")
	}
	fmt.Println("💡 Gasline uses different keys per network. Run 'gasline unlock' again")
	return nil
}

func showCurrentNetwork(cfg config.Config, manager *wallet.Manager) error {
	network := manager.GetCurrentNetwork()
	if network == wallet.NetworkMainnet {
		fmt.Printf("🌐 Current network: %s\n", color.GreenString("Mainnet"))
	} else {
		fmt.Printf("🌐 Current network: %s\n", color.YellowString("Testnet"))
	}
	fmt.Println()
	fmt.Println("Network details:")
	for _, chain := range []string{config.ChainAptos, config.ChainMovement} {
		nc, err := aptos.NetworkConfig(chain, network)
		if err != nil {
			return err
		}
		fmt.Printf("   - %s: %s (chain id %d)\n", chainLabel(chain), nc.NodeUrl, nc.ChainId)
	}
	fmt.Printf("   - %s: %s\n", chainLabel(config.ChainSui), newClient(cfg, manager).GetSuiRPC())
	fmt.Println()
	fmt.Printf("Backend chain (GASLINE_CHAIN): %s\n", color.CyanString(cfg.Chain))
	fmt.Println("🔐 Your mainnet and testnet addresses are separate")
	return nil
}
