package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/flows"
	"github.com/chinmay1088/gasline/wallet"
)

var sponsorCmd = &cobra.Command{
	Use:   "sponsor [chain] ...",
	Short: "Send a transaction with gas paid by the gas station",
	Long: `Send a gasless transaction from your sender address. The Shinami gas
station pays the fee.

Aptos and Movement:
  gasline sponsor aptos <amount> <recipient>
  gasline sponsor movement <amount> <recipient> --submit-via-gas-station

Sui (one move call; see argument kinds below):
  gasline sponsor sui <package::module::function> [args...]

Sui argument kinds:
  clock, u8:<n>, u64:<n>, bool:<b>, string:<s>, address:<0x..>,
  bytes:<hex>, object:<id>:<initial version>[:mut]

Examples:
  gasline sponsor aptos 0.1 0x1234...
  gasline sponsor sui 0xfa0e...::clock::access clock --gas-budget 5000000`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSponsor,
}

var (
	viaGasStationFlag bool
	gasBudgetFlag     uint64
	yesFlag           bool
)

func init() {
	sponsorCmd.Flags().BoolVar(&viaGasStationFlag, "submit-via-gas-station", false, "let the gas station submit the transaction (Aptos and Movement)")
	sponsorCmd.Flags().Uint64Var(&gasBudgetFlag, "gas-budget", 0, "Sui gas budget in MIST (0 lets the gas station estimate)")
	sponsorCmd.Flags().StringVar(&schemeFlag, "scheme", "ed25519", "Sui signature scheme (ed25519 or secp256k1)")
	sponsorCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
}

func runSponsor(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if err := requireUnlocked(manager); err != nil {
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

	if chain == config.ChainSui {
		return sponsorSui(cmd, manager, client, args[1], args[2:])
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: gasline sponsor %s <amount> <recipient>", chain)
	}
	return sponsorAptos(cmd, manager, client, chain, args[1], args[2])
}

func aptosDeps(manager *wallet.Manager, client *api.Client, chain string) (flows.AptosDeps, error) {
	node, err := aptos.NewNodeClient(chain, manager.GetCurrentNetwork())
	if err != nil {
		return flows.AptosDeps{}, err
	}
	return flows.AptosDeps{Chain: chain, Node: node, Gas: client}, nil
}

func sponsorAptos(cmd *cobra.Command, manager *wallet.Manager, client *api.Client, chain, amountStr, recipientStr string) error {
	fmt.Printf("⛽ Sending sponsored %s transfer\n", chainLabel(chain))
	fmt.Println()

	recipient, err := aptos.ParseAddress(recipientStr)
	if err != nil {
		return err
	}
	amount, err := aptos.APTToOctas(amountStr)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	sender, err := manager.AptosAccount()
	if err != nil {
		return fmt.Errorf("failed to get sender account: %w", err)
	}
	deps, err := aptosDeps(manager, client, chain)
	if err != nil {
		return err
	}

	fmt.Printf("From:   %s\n", sender.Address.String())
	fmt.Printf("To:     %s\n", recipient.String())
	fmt.Printf("Amount: %s\n", aptos.OctasToAPT(amount).String())
	fmt.Printf("Gas:    %s\n", color.GreenString("paid by gas station"))
	if !yesFlag && !confirmTransaction(manager) {
		fmt.Println("❌ Transaction cancelled by user")
		return nil
	}

	var res *flows.AptosResult
	err = withSpinner("Sponsoring and waiting for commit...", func() error {
		var err error
		if viaGasStationFlag {
			res, err = flows.AptosSponsorAndSubmit(cmd.Context(), deps, sender, recipient, amount)
		} else {
			res, err = flows.AptosSponsoredTransfer(cmd.Context(), deps, sender, recipient, amount)
		}
		return err
	})
	if err != nil {
		if res != nil && res.Hash != "" {
			fmt.Printf("🔗 %s\n", aptos.ExplorerURL(chain, manager.GetCurrentNetwork(), res.Hash))
		}
		return fmt.Errorf("sponsored transfer failed: %w", err)
	}

	fmt.Println("✅ Transaction committed!")
	fmt.Printf("📝 Hash: %s\n", res.Hash)
	fmt.Printf("🔗 %s\n", aptos.ExplorerURL(chain, manager.GetCurrentNetwork(), res.Hash))
	return nil
}

func suiDeps(client *api.Client) flows.SuiDeps {
	return flows.SuiDeps{Gas: client, Node: client, Wallets: client}
}

func sponsorSui(cmd *cobra.Command, manager *wallet.Manager, client *api.Client, target string, callArgs []string) error {
	fmt.Println("⛽ Sending sponsored Sui move call")
	fmt.Println()

	ptb, err := parseMoveCall(target, callArgs)
	if err != nil {
		return err
	}
	scheme, err := sui.ParseScheme(schemeFlag)
	if err != nil {
		return err
	}
	kp, err := manager.SuiKeypair(scheme)
	if err != nil {
		return fmt.Errorf("failed to get Sui keypair: %w", err)
	}

	fmt.Printf("Sender: %s (%s)\n", kp.Address(), scheme)
	fmt.Printf("Call:   %s\n", target)
	fmt.Printf("Gas:    %s\n", color.GreenString("paid by gas station"))
	if !yesFlag && !confirmTransaction(manager) {
		fmt.Println("❌ Transaction cancelled by user")
		return nil
	}

	var res *flows.SuiResult
	err = withSpinner("Sponsoring and executing...", func() error {
		var err error
		res, err = flows.SuiSponsoredMoveCall(cmd.Context(), suiDeps(client), kp, ptb, gasBudgetFlag)
		return err
	})
	printSuiResult(manager, res)
	if err != nil {
		return fmt.Errorf("sponsored move call failed: %w", err)
	}
	return nil
}

func printSuiResult(manager *wallet.Manager, res *flows.SuiResult) {
	if res == nil || res.Digest == "" {
		return
	}
	if res.Status == "success" {
		fmt.Println("✅ Transaction executed!")
	} else {
		fmt.Printf("❌ Transaction status: %s\n", res.Status)
	}
	fmt.Printf("📝 Digest: %s\n", res.Digest)
	fmt.Printf("🔗 %s\n", sui.ExplorerURL(manager.GetCurrentNetwork(), res.Digest))
}
