package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/wallet"
)

var recoveryPhraseCmd = &cobra.Command{
	Use:   "recovery-phrase [show|import]",
	Short: "Manage recovery phrase",
	Long: `Manage your wallet's recovery phrase (mnemonic).

Commands:
  show    - Display the recovery phrase (requires an unlocked wallet)
  import  - Import wallet from an existing recovery phrase`,
	Args: cobra.ExactArgs(1),
	RunE: runRecoveryPhrase,
}

var walletSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Store or replace the invisible wallet secret in the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, err := setup()
		if err != nil {
			return err
		}
		if !manager.VaultExists() {
			return fmt.Errorf("no wallet found. Run 'gasline init' first")
		}
		password, err := readPassword("Enter your wallet password: ")
		if err != nil {
			return err
		}
		secret, err := readSecret("New invisible wallet secret: ")
		if err != nil {
			return err
		}
		if secret == "" {
			return fmt.Errorf("secret must not be empty")
		}
		if err := manager.SetWalletSecret(password, secret); err != nil {
			return fmt.Errorf("failed to store secret: %w", err)
		}
		fmt.Println("✅ Invisible wallet secret stored")
		return nil
	},
}

func runRecoveryPhrase(cmd *cobra.Command, args []string) error {
	_, manager, err := setup()
	if err != nil {
		return err
	}
	switch action := strings.ToLower(args[0]); action {
	case "show":
		return showRecoveryPhrase(manager)
	case "import":
		return importRecoveryPhrase(manager)
	default:
		return fmt.Errorf("invalid action: %s. Use 'show' or 'import'", action)
	}
}

func showRecoveryPhrase(manager *wallet.Manager) error {
	if err := requireUnlocked(manager); err != nil {
		return err
	}
	mnemonic, err := manager.GetMnemonic()
	if err != nil {
		return fmt.Errorf("failed to get mnemonic: %w", err)
	}

	fmt.Println("🔐 Recovery Phrase:")
	fmt.Println()
	fmt.Printf("   %s\n", mnemonic)
	fmt.Println()
	fmt.Println("⚠️  Keep this phrase private. Anyone with it can sign as your addresses.")
	return nil
}

func importRecoveryPhrase(manager *wallet.Manager) error {
	if manager.VaultExists() {
		return fmt.Errorf("wallet already exists. Remove existing wallet first")
	}

	fmt.Println("📝 Import Wallet from Recovery Phrase")
	fmt.Println()
	fmt.Print("Enter recovery phrase (12 or 24 words): ")
	mnemonic, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read mnemonic: %w", err)
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if n := len(strings.Fields(mnemonic)); n != 12 && n != 24 {
		return fmt.Errorf("invalid mnemonic. Must be 12 or 24 words")
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	secret, err := readSecret("Invisible wallet secret (leave empty to skip): ")
	if err != nil {
		return err
	}
	if err := manager.ImportFromMnemonic(mnemonic, password, secret); err != nil {
		return fmt.Errorf("failed to import wallet: %w", err)
	}

	fmt.Println("✅ Wallet imported successfully!")
	fmt.Println("   - Run 'gasline address' to see your addresses")
	return nil
}
