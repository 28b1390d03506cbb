package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new wallet",
	Long: `Initialize a new Gasline wallet with a secure recovery phrase.

This command will:
  - Generate a new 24-word recovery phrase
  - Optionally store your Shinami invisible wallet secret
  - Create an encrypted vault
  - Derive your Aptos, Movement and Sui sender keys`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	_, manager, err := setup()
	if err != nil {
		return err
	}
	if manager.VaultExists() {
		return fmt.Errorf("wallet already exists. Remove %s/wallet.vault to create a new wallet", manager.Home())
	}

	fmt.Println("🚀 Initializing Gasline Wallet")
	fmt.Println()

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	secret, err := readSecret("Invisible wallet secret (leave empty to skip): ")
	if err != nil {
		return err
	}

	fmt.Println("Generating wallet...")
	if err := manager.Initialize(password, secret); err != nil {
		return fmt.Errorf("failed to initialize wallet: %w", err)
	}
	mnemonic, err := manager.GetMnemonic()
	if err != nil {
		return fmt.Errorf("failed to get recovery phrase: %w", err)
	}

	fmt.Println("✅ Wallet initialized successfully!")
	fmt.Println()
	fmt.Println("🔐 Recovery Phrase (24 words):")
	fmt.Println()
	fmt.Printf("   %s\n", mnemonic)
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT:")
	fmt.Println("   - Write down this recovery phrase and store it securely")
	fmt.Println("   - Anyone with this phrase can sign as your addresses")
	fmt.Println("   - This is the only way to recover your wallet")
	fmt.Println()
	fmt.Println("🔑 Next steps:")
	fmt.Println("   - Run 'gasline address' to see your addresses")
	fmt.Println("   - Run 'gasline sponsor' to send a gasless transaction")
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// readNewPassword asks for a password twice.
func readNewPassword() (string, error) {
	password, err := readPassword("Enter a password for your wallet: ")
	if err != nil {
		return "", err
	}
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters long")
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}
