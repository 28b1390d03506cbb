package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/wallet"
)

var (
	version = "0.3.0"

	networkFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gasline",
	Short: "Gasless transactions on Aptos, Movement and Sui",
	Long: `Gasline sends transactions whose gas is paid by a Shinami gas station.
It keeps a local encrypted wallet for sender keys, talks to Shinami invisible
wallets and zkLogin services, and can run a small backend that sponsors
transactions for frontends.

Features:
  • Sponsored Aptos and Movement transfers (fee payer transactions)
  • Sponsored Sui move calls (gasless transaction kinds)
  • Invisible wallets created and driven by wallet id
  • zkLogin salt and proof retrieval
  • AES-256-GCM encrypted vault, BIP-39 recovery phrase
  • Mainnet and Testnet support

Environment:
  SHINAMI_GAS_ACCESS_KEY      gas station key
  SHINAMI_WALLET_ACCESS_KEY   wallet services key
  SHINAMI_NODE_ACCESS_KEY     Sui node key (public RPC when empty)

Examples:
  gasline init                                   # Create new wallet
  gasline unlock                                 # Unlock wallet
  gasline address                                # Show all addresses
  gasline sponsor aptos 0.1 0x1234...            # Gasless APT transfer
  gasline sponsor sui 0x2::clock::timestamp_ms clock
  gasline wallet aptos user-42 0.1 0x1234...     # Transfer from an invisible wallet
  gasline serve                                  # Run the sponsor backend`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network for this command (mainnet or testnet)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(fundCmd)
	rootCmd.AddCommand(sponsorCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(zkLoginCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recoveryPhraseCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Gasline v%s\n", version)
	},
}

// setup loads the environment and opens the wallet home, applying --network.
func setup() (config.Config, *wallet.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	manager := wallet.NewManager(cfg.Home)
	if networkFlag != "" {
		if err := manager.UseNetwork(strings.ToLower(networkFlag)); err != nil {
			return config.Config{}, nil, err
		}
	}
	return cfg, manager, nil
}

func newClient(cfg config.Config, manager *wallet.Manager) *api.Client {
	return api.NewClient(cfg, manager.GetCurrentNetwork())
}

func requireUnlocked(manager *wallet.Manager) error {
	if !manager.VaultExists() {
		return fmt.Errorf("no wallet found. Run 'gasline init' to create a new wallet")
	}
	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'gasline unlock' first")
	}
	return nil
}

// parseChain accepts the chain names and tickers users type.
func parseChain(arg string) (string, error) {
	switch strings.ToLower(arg) {
	case "aptos", "apt":
		return config.ChainAptos, nil
	case "movement", "move", "mov":
		return config.ChainMovement, nil
	case "sui":
		return config.ChainSui, nil
	default:
		return "", fmt.Errorf("unsupported chain: %s. Supported chains: aptos, movement, sui", arg)
	}
}

func networkLabel(manager *wallet.Manager) string {
	if manager.IsTestnet() {
		return "Testnet"
	}
	return "Mainnet"
}

func chainLabel(chain string) string {
	switch chain {
	case config.ChainAptos:
		return "Aptos (APT)"
	case config.ChainMovement:
		return "Movement (MOVE)"
	case config.ChainSui:
		return "Sui (SUI)"
	default:
		return chain
	}
}
