package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/flows"
)

var statusCmd = &cobra.Command{
	Use:   "status [chain] [hash|digest]",
	Short: "Show the status of a transaction",
	Long: `Show whether a transaction landed. For Sui, the gas station's view of
the sponsorship is shown too when SHINAMI_GAS_ACCESS_KEY is set.

Examples:
  gasline status aptos 0x5e1f...
  gasline status sui 7Hq3...`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}
	id := args[1]
	network := manager.GetCurrentNetwork()
	client := newClient(cfg, manager)

	if chain != config.ChainSui {
		node, err := aptos.NewNodeClient(chain, network)
		if err != nil {
			return err
		}
		var res *flows.AptosResult
		err = withSpinner("Waiting for transaction...", func() error {
			var err error
			res, err = flows.WaitAptos(cmd.Context(), node, id)
			return err
		})
		if res != nil && res.VMStatus != "" {
			printStatusLine(res.Success, res.VMStatus)
		}
		fmt.Printf("🔗 %s\n", aptos.ExplorerURL(chain, network, id))
		return err
	}

	if err := sui.ValidateDigest(id); err != nil {
		return err
	}
	resp, err := client.GetSuiTransaction(cmd.Context(), id)
	var rpcErr *api.RPCError
	switch {
	case errors.As(err, &rpcErr):
		fmt.Println("⏳ Transaction not found on the full node yet")
	case err != nil:
		return fmt.Errorf("failed to get transaction: %w", err)
	case resp.Effects != nil:
		msg := resp.Effects.Status.Status
		if resp.Effects.Status.Error != "" {
			msg = resp.Effects.Status.Error
		}
		printStatusLine(resp.Succeeded(), msg)
		gas := resp.Effects.GasUsed
		fmt.Printf("Gas used: computation %s, storage %s, rebate %s (MIST)\n", gas.ComputationCost, gas.StorageCost, gas.StorageRebate)
		if resp.Checkpoint != "" {
			fmt.Printf("Checkpoint: %s\n", resp.Checkpoint)
		}
	}

	if cfg.GasAccessKey != "" {
		status, err := client.SuiSponsorshipStatus(cmd.Context(), id)
		if err != nil {
			fmt.Printf("Sponsorship: %s\n", color.RedString("unknown (%v)", err))
		} else {
			fmt.Printf("Sponsorship: %s\n", color.CyanString(status))
		}
	}
	fmt.Printf("🔗 %s\n", sui.ExplorerURL(network, id))
	return nil
}

func printStatusLine(success bool, msg string) {
	if success {
		fmt.Printf("✅ Status: %s\n", color.GreenString(msg))
		return
	}
	fmt.Printf("❌ Status: %s\n", color.RedString(msg))
}
