package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/wallet"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [chain]",
	Short: "Check sender balances",
	Long: `Check the balances of your sender addresses.
Gasless transactions do not need gas, but transfers still need the coins.

Supported chains: aptos, movement, sui

Examples:
  gasline balance        # Check all balances
  gasline balance sui    # Check Sui balance`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if err := requireUnlocked(manager); err != nil {
		return err
	}

	chains := []string{config.ChainAptos, config.ChainMovement, config.ChainSui}
	if len(args) == 1 {
		chain, err := parseChain(args[0])
		if err != nil {
			return err
		}
		chains = []string{chain}
	}

	fmt.Println("💰 Wallet Balances")
	fmt.Printf("🌐 Network: %s\n", networkLabel(manager))
	fmt.Println()

	client := newClient(cfg, manager)
	for _, chain := range chains {
		if err := displayBalance(cmd.Context(), manager, client, chain); err != nil {
			fmt.Printf("❌ %s: Error - %v\n", chainLabel(chain), err)
		}
	}
	return nil
}

func displayBalance(ctx context.Context, manager *wallet.Manager, client *api.Client, chain string) error {
	if chain == config.ChainSui {
		kp, err := manager.SuiKeypair(sui.SchemeEd25519)
		if err != nil {
			return err
		}
		mist, err := client.GetSuiBalance(ctx, kp.Address(), "")
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s SUI\n", chainLabel(chain), sui.MistToSUI(mist).String())
		return nil
	}

	account, err := manager.AptosAccount()
	if err != nil {
		return err
	}
	node, err := aptos.NewNodeClient(chain, manager.GetCurrentNetwork())
	if err != nil {
		return err
	}
	octas, err := node.AccountAPTBalance(account.Address)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	fmt.Printf("%s: %s\n", chainLabel(chain), aptos.OctasToAPT(octas).String())
	return nil
}
