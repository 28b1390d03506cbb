package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock wallet for session",
	Long: `Unlock your Gasline wallet for the current session.
The session lasts 30 minutes and is bound to the current network.

Example:
  gasline unlock`,
	RunE: runUnlock,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock wallet and end the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, manager, err := setup()
		if err != nil {
			return err
		}
		manager.Lock()
		fmt.Println("🔒 Wallet locked")
		return nil
	},
}

func runUnlock(cmd *cobra.Command, args []string) error {
	_, manager, err := setup()
	if err != nil {
		return err
	}
	if !manager.VaultExists() {
		return fmt.Errorf("no wallet found. Run 'gasline init' to create a new wallet")
	}
	if manager.IsUnlocked() {
		fmt.Println("✅ Wallet is already unlocked")
		return nil
	}

	password, err := readPassword("Enter your wallet password: ")
	if err != nil {
		return err
	}
	fmt.Println("Unlocking wallet...")
	if err := manager.Unlock(password); err != nil {
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}

	fmt.Printf("✅ Wallet unlocked on %s\n", networkLabel(manager))
	fmt.Println("💡 Use 'gasline address [chain]' to see your addresses")
	fmt.Println("💡 Use 'gasline balance [chain]' to check your balances")
	return nil
}
