package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/wallet"
)

var addressCmd = &cobra.Command{
	Use:   "address [chain]",
	Short: "Show wallet address",
	Long: `Show your sender address for the specified chain.
Supported chains: aptos, movement, sui

Aptos and Movement share one account. Sui shows the Ed25519 address and,
with --scheme secp256k1, the secp256k1 one.

Examples:
  gasline address                     # Show all addresses
  gasline address sui --scheme secp256k1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAddress,
}

var schemeFlag string

func init() {
	addressCmd.Flags().StringVar(&schemeFlag, "scheme", "ed25519", "Sui signature scheme (ed25519 or secp256k1)")
}

func runAddress(cmd *cobra.Command, args []string) error {
	_, manager, err := setup()
	if err != nil {
		return err
	}
	if err := requireUnlocked(manager); err != nil {
		return err
	}

	fmt.Printf("🌐 Network: %s\n\n", networkLabel(manager))
	chains := []string{config.ChainAptos, config.ChainMovement, config.ChainSui}
	if len(args) == 1 {
		chain, err := parseChain(args[0])
		if err != nil {
			return err
		}
		chains = []string{chain}
	}
	for _, chain := range chains {
		address, err := chainAddress(manager, chain, schemeFlag)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", chainLabel(chain), address)
	}
	return nil
}

func chainAddress(manager *wallet.Manager, chain, schemeName string) (string, error) {
	if chain == config.ChainSui {
		scheme, err := sui.ParseScheme(schemeName)
		if err != nil {
			return "", err
		}
		kp, err := manager.SuiKeypair(scheme)
		if err != nil {
			return "", fmt.Errorf("failed to get Sui address: %w", err)
		}
		return kp.Address(), nil
	}
	account, err := manager.AptosAccount()
	if err != nil {
		return "", fmt.Errorf("failed to get %s address: %w", chain, err)
	}
	return account.Address.String(), nil
}
