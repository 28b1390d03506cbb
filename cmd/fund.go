package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
)

var fundCmd = &cobra.Command{
	Use:   "fund [chain]",
	Short: "Show the gas station fund",
	Long: `Show the Shinami gas station fund that pays for sponsored transactions.
The fund is tied to SHINAMI_GAS_ACCESS_KEY and the current network.

Examples:
  gasline fund aptos
  gasline fund sui --network mainnet`,
	Args: cobra.ExactArgs(1),
	RunE: runFund,
}

func runFund(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireGasKey(); err != nil {
		return err
	}
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}

	client := newClient(cfg, manager)
	var fund *api.Fund
	if chain == config.ChainSui {
		fund, err = client.SuiFund(cmd.Context())
	} else {
		fund, err = client.AptosFund(cmd.Context(), chain)
	}
	if err != nil {
		return fmt.Errorf("failed to get fund: %w", err)
	}

	format := aptos.OctasToAPT
	if chain == config.ChainSui {
		format = sui.MistToSUI
	}
	fmt.Printf("⛽ Gas fund %s on %s (%s)\n", color.CyanString(fund.Name), chainLabel(chain), networkLabel(manager))
	fmt.Println()
	printFundLine("Balance", format(fund.Balance))
	printFundLine("In flight", format(fund.InFlight))
	printFundLine("Available", format(fund.Available()))
	if fund.DepositAddress != "" {
		fmt.Printf("   Deposit address: %s\n", fund.DepositAddress)
	}
	if fund.Available() == 0 {
		fmt.Println()
		fmt.Println(color.YellowString("⚠️  The fund is empty. Sponsored transactions will be rejected."))
	}
	return nil
}

func printFundLine(label string, amount decimal.Decimal) {
	fmt.Printf("   %-10s %s\n", label+":", amount.String())
}
