package cmd

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/flows"
)

const zkLoginFile = "zklogin.json"

var zkLoginCmd = &cobra.Command{
	Use:   "zklogin",
	Short: "Prepare a Sui zkLogin session",
	Long: `Prepare a zkLogin session in two steps:

  gasline zklogin begin --max-epoch <epoch>
      creates an ephemeral key and JWT randomness and prints the OAuth nonce.
      Pass the nonce to your provider when you sign in.

  gasline zklogin prove --jwt <id token>
      fetches the salt and address for the token and a proof binding the
      ephemeral key to them.`,
}

var zkLoginBeginCmd = &cobra.Command{
	Use:   "begin",
	Short: "Create an ephemeral key for a zkLogin session",
	Args:  cobra.NoArgs,
	RunE:  runZkLoginBegin,
}

var zkLoginProveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Fetch salt, address and proof for an id token",
	Args:  cobra.NoArgs,
	RunE:  runZkLoginProve,
}

var (
	maxEpochFlag uint64
	jwtFlag      string
)

func init() {
	zkLoginBeginCmd.Flags().Uint64Var(&maxEpochFlag, "max-epoch", 0, "last Sui epoch the session is valid for")
	_ = zkLoginBeginCmd.MarkFlagRequired("max-epoch")
	zkLoginProveCmd.Flags().StringVar(&jwtFlag, "jwt", "", "OpenID id token (reads stdin when empty)")

	zkLoginCmd.AddCommand(zkLoginBeginCmd)
	zkLoginCmd.AddCommand(zkLoginProveCmd)
}

// zkLoginState persists a session between begin and prove.
type zkLoginState struct {
	Network                    string                `json:"network"`
	EphemeralSeed              string                `json:"ephemeralSeed"`
	ExtendedEphemeralPublicKey string                `json:"extendedEphemeralPublicKey"`
	JWTRandomness              string                `json:"jwtRandomness"`
	MaxEpoch                   uint64                `json:"maxEpoch"`
	Nonce                      string                `json:"nonce"`
	Session                    *flows.ZkLoginSession `json:"session,omitempty"`
}

func newZkLoginState(network string, maxEpoch uint64) (*zkLoginState, error) {
	kp, err := sui.NewEphemeralKey()
	if err != nil {
		return nil, err
	}
	randomness, err := sui.NewJWTRandomness()
	if err != nil {
		return nil, err
	}
	nonce, err := sui.ZkLoginNonce(kp, maxEpoch, randomness)
	if err != nil {
		return nil, err
	}
	return &zkLoginState{
		Network:                    network,
		EphemeralSeed:              hex.EncodeToString(kp.Seed()),
		ExtendedEphemeralPublicKey: sui.ExtendedEphemeralPublicKey(kp),
		JWTRandomness:              randomness,
		MaxEpoch:                   maxEpoch,
		Nonce:                      nonce,
	}, nil
}

func (s *zkLoginState) ephemeralKey() (*sui.Ed25519Keypair, error) {
	seed, err := hex.DecodeString(s.EphemeralSeed)
	if err != nil {
		return nil, fmt.Errorf("corrupt ephemeral key: %w", err)
	}
	return sui.NewEd25519KeypairFromSeed(seed)
}

func saveZkLoginState(home string, state *zkLoginState) error {
	if err := os.MkdirAll(home, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal zkLogin session: %w", err)
	}
	if err := os.WriteFile(filepath.Join(home, zkLoginFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write zkLogin session: %w", err)
	}
	return nil
}

func loadZkLoginState(home string) (*zkLoginState, error) {
	data, err := os.ReadFile(filepath.Join(home, zkLoginFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no zkLogin session. Run 'gasline zklogin begin' first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read zkLogin session: %w", err)
	}
	var state zkLoginState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zkLogin session: %w", err)
	}
	return &state, nil
}

func runZkLoginBegin(cmd *cobra.Command, args []string) error {
	_, manager, err := setup()
	if err != nil {
		return err
	}
	state, err := newZkLoginState(manager.GetCurrentNetwork(), maxEpochFlag)
	if err != nil {
		return err
	}
	if err := saveZkLoginState(manager.Home(), state); err != nil {
		return err
	}

	fmt.Println("🔑 zkLogin session started")
	fmt.Println()
	fmt.Printf("Extended ephemeral public key: %s\n", state.ExtendedEphemeralPublicKey)
	fmt.Printf("JWT randomness:                %s\n", state.JWTRandomness)
	fmt.Printf("Max epoch:                     %d\n", state.MaxEpoch)
	fmt.Printf("Nonce:                         %s\n", color.CyanString(state.Nonce))
	fmt.Println()
	fmt.Println("💡 Sign in with this nonce, then run 'gasline zklogin prove --jwt <token>'")
	return nil
}

func runZkLoginProve(cmd *cobra.Command, args []string) error {
	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireWalletKey(); err != nil {
		return err
	}
	state, err := loadZkLoginState(manager.Home())
	if err != nil {
		return err
	}
	if state.Network != manager.GetCurrentNetwork() {
		return fmt.Errorf("zkLogin session was started on %s. Switch networks or run 'gasline zklogin begin' again", state.Network)
	}
	token := jwtFlag
	if token == "" {
		data, err := readAllStdin()
		if err != nil {
			return err
		}
		token = data
	}
	kp, err := state.ephemeralKey()
	if err != nil {
		return err
	}

	var session *flows.ZkLoginSession
	err = withSpinner("Fetching salt and proof...", func() error {
		var err error
		session, err = flows.ZkLoginPrepare(cmd.Context(), newClient(cfg, manager), token, state.MaxEpoch, kp, state.JWTRandomness)
		return err
	})
	if err != nil {
		return fmt.Errorf("zkLogin failed: %w", err)
	}
	state.Session = session
	if err := saveZkLoginState(manager.Home(), state); err != nil {
		return err
	}

	fmt.Println("✅ zkLogin session ready")
	fmt.Printf("Address: %s\n", session.Address)
	fmt.Printf("Issuer:  %s\n", session.Issuer)
	fmt.Printf("Subject: %s\n", session.Subject)
	fmt.Printf("💾 Saved to %s\n", filepath.Join(manager.Home(), zkLoginFile))
	return nil
}

func readAllStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
