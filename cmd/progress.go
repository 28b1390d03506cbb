package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/chinmay1088/gasline/wallet"
)

// withSpinner runs fn while a spinner with description turns on stderr.
func withSpinner(description string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan error, 1)
	go func() { done <- fn() }()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// confirmTransaction asks before anything is signed.
func confirmTransaction(manager *wallet.Manager) bool {
	fmt.Println()
	if manager.IsTestnet() {
		fmt.Println("⚠️  You are on testnet. Gas is paid from your testnet gas fund.")
	} else {
		fmt.Println("🚨 You are on mainnet. Real funds move and your gas fund pays the fee.")
	}
	fmt.Printf("Press y to confirm or n to stop (y/n): ")

	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
