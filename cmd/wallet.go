package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/flows"
	"github.com/chinmay1088/gasline/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet [chain] [wallet id] ...",
	Short: "Send gasless transactions from Shinami invisible wallets",
	Long: `Drive an invisible wallet by its wallet id. The wallet is created on
first use. Its secret comes from GASLINE_WALLET_SECRET or the vault
(see 'gasline wallet secret').

Aptos:
  gasline wallet aptos <wallet id> <amount> <recipient>

Sui:
  gasline wallet sui <wallet id> <package::module::function> [args...]
  gasline wallet sui <wallet id> <target> [args...] --sign-separately

--sign-separately sponsors with the gas station, signs with the wallet and
executes on the full node instead of one wallet call.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runWallet,
}

var signSeparatelyFlag bool

func init() {
	walletCmd.Flags().BoolVar(&signSeparatelyFlag, "sign-separately", false, "sponsor, sign and execute as separate steps (Sui)")
	walletCmd.Flags().Uint64Var(&gasBudgetFlag, "gas-budget", 0, "Sui gas budget in MIST (0 lets the gas station estimate)")
	walletCmd.AddCommand(walletSecretCmd)
}

// walletSecret prefers the environment over the vault.
func walletSecret(cfg config.Config, manager *wallet.Manager) (string, error) {
	if cfg.WalletSecret != "" {
		return cfg.WalletSecret, nil
	}
	if !manager.VaultExists() || !manager.IsUnlocked() {
		return "", fmt.Errorf("no wallet secret: set GASLINE_WALLET_SECRET or unlock a wallet holding one")
	}
	secret, err := manager.GetWalletSecret()
	if errors.Is(err, wallet.ErrNoWalletSecret) {
		return "", fmt.Errorf("no wallet secret stored. Run 'gasline wallet secret' first")
	}
	return secret, err
}

func runWallet(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireWalletKey(); err != nil {
		return err
	}
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}
	secret, err := walletSecret(cfg, manager)
	if err != nil {
		return err
	}
	walletID := args[1]
	client := newClient(cfg, manager)

	if chain == config.ChainSui {
		if signSeparatelyFlag {
			if err := cfg.RequireGasKey(); err != nil {
				return err
			}
		}
		ptb, err := parseMoveCall(args[2], args[3:])
		if err != nil {
			return err
		}
		fmt.Printf("👻 Invisible wallet %s: %s\n", walletID, args[2])

		var res *flows.SuiResult
		err = withSpinner("Executing through the wallet service...", func() error {
			var err error
			if signSeparatelyFlag {
				res, err = flows.SuiInvisibleWalletSponsorSignExecute(cmd.Context(), suiDeps(client), walletID, secret, ptb, gasBudgetFlag)
			} else {
				res, err = flows.SuiInvisibleWalletMoveCall(cmd.Context(), suiDeps(client), walletID, secret, ptb, gasBudgetFlag)
			}
			return err
		})
		if res != nil {
			fmt.Printf("Wallet address: %s\n", res.Sender)
		}
		printSuiResult(manager, res)
		if err != nil {
			return fmt.Errorf("invisible wallet transaction failed: %w", err)
		}
		return nil
	}

	if chain == config.ChainMovement {
		return fmt.Errorf("invisible wallets are available on aptos and sui")
	}
	if len(args) != 4 {
		return fmt.Errorf("usage: gasline wallet %s <wallet id> <amount> <recipient>", chain)
	}
	amount, err := aptos.APTToOctas(args[2])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	recipient, err := aptos.ParseAddress(args[3])
	if err != nil {
		return err
	}
	node, err := aptos.NewNodeClient(chain, manager.GetCurrentNetwork())
	if err != nil {
		return err
	}

	fmt.Printf("👻 Invisible wallet %s: sending %s to %s\n", walletID, aptos.OctasToAPT(amount).String(), recipient.String())
	var res *flows.InvisibleWalletResult
	err = withSpinner("Executing through the wallet service...", func() error {
		var err error
		res, err = flows.AptosInvisibleWalletTransfer(cmd.Context(), node, client, walletID, secret, recipient, amount)
		if err != nil {
			return err
		}
		_, err = flows.WaitAptos(cmd.Context(), node, res.Hash)
		return err
	})
	if res != nil {
		fmt.Printf("Wallet address: %s\n", res.WalletAddress)
		fmt.Printf("📝 Hash: %s\n", res.Hash)
		fmt.Printf("🔗 %s\n", aptos.ExplorerURL(chain, manager.GetCurrentNetwork(), res.Hash))
	}
	if err != nil {
		return fmt.Errorf("invisible wallet transaction failed: %w", err)
	}
	fmt.Println("✅ Transaction committed!")
	return nil
}
