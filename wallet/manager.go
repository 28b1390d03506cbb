package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	aptossdk "github.com/aptos-labs/aptos-go-sdk"
	"github.com/tyler-smith/go-bip39"

	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/crypto"
)

const (
	// Network type constants
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"

	// Derivation paths (mainnet)
	AptosDerivationPath        = "m/44'/637'/0'/0'/0'"
	SuiEd25519DerivationPath   = "m/44'/784'/0'/0'/0'"
	SuiSecp256k1DerivationPath = "m/54'/784'/0'/0/0"

	// Derivation paths for testnet use account index 1
	AptosTestnetDerivationPath        = "m/44'/637'/1'/0'/0'"
	SuiEd25519TestnetDerivationPath   = "m/44'/784'/1'/0'/0'"
	SuiSecp256k1TestnetDerivationPath = "m/54'/784'/1'/0/0"

	// Session duration in minutes
	SessionDuration = 30

	vaultFile   = "wallet.vault"
	sessionFile = "session.json"
	networkFile = "network.txt"
)

var (
	// ErrLocked is returned when key material is requested from a locked wallet.
	ErrLocked = errors.New("wallet is locked")
	// ErrNoWalletSecret is returned when no invisible wallet secret was stored.
	ErrNoWalletSecret = errors.New("no invisible wallet secret stored")
)

// SessionData holds the wallet session information
type SessionData struct {
	Token        string    `json:"token"`
	Mnemonic     string    `json:"mnemonic"`
	WalletSecret string    `json:"wallet_secret,omitempty"`
	Expiration   time.Time `json:"expiration"`
	Network      string    `json:"network"`
}

// Manager handles the local vault, the unlocked session and key derivation
type Manager struct {
	home     string
	vault    *crypto.Vault
	secrets  crypto.Secrets
	mu       sync.Mutex
	unlocked bool
	network  string
	now      func() time.Time
}

// NewManager creates a wallet manager rooted at home (usually ~/.gasline).
func NewManager(home string) *Manager {
	m := &Manager{
		home:    home,
		network: NetworkTestnet,
		now:     time.Now,
	}
	if data, err := os.ReadFile(m.path(networkFile)); err == nil {
		network := strings.TrimSpace(string(data))
		if network == NetworkMainnet || network == NetworkTestnet {
			m.network = network
		}
	}
	return m
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.home, name)
}

// Home returns the directory holding wallet files.
func (m *Manager) Home() string {
	return m.home
}

// SetNetwork persists network as the default for future commands. Sessions
// are bound to a network, so switching invalidates the current one.
func (m *Manager) SetNetwork(network string) error {
	if network != NetworkMainnet && network != NetworkTestnet {
		return fmt.Errorf("invalid network: %s. Use 'mainnet' or 'testnet'", network)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.home, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(m.path(networkFile), []byte(network), 0600); err != nil {
		return fmt.Errorf("failed to write network file: %w", err)
	}
	if network != m.network {
		m.network = network
		m.unlocked = false
		m.secrets = crypto.Secrets{}
	}
	return nil
}

// UseNetwork overrides the network for this process only.
func (m *Manager) UseNetwork(network string) error {
	if network != NetworkMainnet && network != NetworkTestnet {
		return fmt.Errorf("invalid network: %s. Use 'mainnet' or 'testnet'", network)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if network != m.network {
		m.network = network
		m.unlocked = false
		m.secrets = crypto.Secrets{}
	}
	return nil
}

// generateSessionToken creates a random session token
func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// createSession creates and saves a new session
func (m *Manager) createSession() error {
	token, err := generateSessionToken()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	session := SessionData{
		Token:        token,
		Mnemonic:     m.secrets.Mnemonic,
		WalletSecret: m.secrets.WalletSecret,
		Expiration:   m.now().Add(SessionDuration * time.Minute),
		Network:      m.network,
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(m.path(sessionFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// loadSession loads the session if it exists and is valid. Callers hold mu.
func (m *Manager) loadSession() bool {
	data, err := os.ReadFile(m.path(sessionFile))
	if err != nil {
		return false
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		os.Remove(m.path(sessionFile))
		return false
	}
	if m.now().After(session.Expiration) {
		os.Remove(m.path(sessionFile))
		return false
	}
	if session.Network != m.network {
		return false
	}

	m.secrets = crypto.Secrets{Mnemonic: session.Mnemonic, WalletSecret: session.WalletSecret}
	m.unlocked = true
	return true
}

// ensureUnlocked reports whether secrets are available. Callers hold mu.
func (m *Manager) ensureUnlocked() error {
	if m.unlocked && m.secrets.Mnemonic != "" {
		return nil
	}
	if m.loadSession() {
		return nil
	}
	return ErrLocked
}

// Initialize creates a new wallet with a fresh 24-word mnemonic. walletSecret
// may be empty and set later with SetWalletSecret.
func (m *Manager) Initialize(password, walletSecret string) error {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return m.store(crypto.Secrets{Mnemonic: mnemonic, WalletSecret: walletSecret}, password)
}

// ImportFromMnemonic imports a wallet from an existing mnemonic
func (m *Manager) ImportFromMnemonic(mnemonic, password, walletSecret string) error {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("invalid mnemonic")
	}
	return m.store(crypto.Secrets{Mnemonic: mnemonic, WalletSecret: walletSecret}, password)
}

func (m *Manager) store(secrets crypto.Secrets, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeLocked(secrets, password)
}

// storeLocked seals secrets into a new vault and session. Callers hold mu.
func (m *Manager) storeLocked(secrets crypto.Secrets, password string) error {
	vault, err := crypto.Seal(secrets, password)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	if err := os.MkdirAll(m.home, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := m.saveVault(vault); err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}

	m.vault = vault
	m.secrets = secrets
	m.unlocked = true

	if err := m.createSession(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Unlock unlocks the wallet with the provided password
func (m *Manager) Unlock(password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadSession() {
		return nil
	}
	secrets, err := m.open(password)
	if err != nil {
		return err
	}

	m.secrets = *secrets
	m.unlocked = true

	if err := m.createSession(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// open decrypts the vault from disk. Callers hold mu.
func (m *Manager) open(password string) (*crypto.Secrets, error) {
	if m.vault == nil {
		vault, err := m.loadVault()
		if err != nil {
			return nil, fmt.Errorf("failed to load vault: %w", err)
		}
		m.vault = vault
	}
	secrets, err := m.vault.Open(password)
	if err != nil {
		return nil, err
	}
	return secrets, nil
}

// SetWalletSecret stores the secret that unlocks invisible wallet sessions.
// The vault is re-sealed, so the password is required.
func (m *Manager) SetWalletSecret(password, walletSecret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	secrets, err := m.open(password)
	if err != nil {
		return err
	}
	secrets.WalletSecret = walletSecret
	return m.storeLocked(*secrets, password)
}

// Lock locks the wallet and clears sensitive data from memory
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unlocked = false
	m.secrets = crypto.Secrets{}
	os.Remove(m.path(sessionFile))
}

// IsUnlocked returns whether the wallet is currently unlocked
func (m *Manager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureUnlocked() == nil
}

// GetMnemonic returns the current mnemonic (only if unlocked)
func (m *Manager) GetMnemonic() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureUnlocked(); err != nil {
		return "", err
	}
	return m.secrets.Mnemonic, nil
}

// GetWalletSecret returns the invisible wallet secret (only if unlocked)
func (m *Manager) GetWalletSecret() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureUnlocked(); err != nil {
		return "", err
	}
	if m.secrets.WalletSecret == "" {
		return "", ErrNoWalletSecret
	}
	return m.secrets.WalletSecret, nil
}

func (m *Manager) seed() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureUnlocked(); err != nil {
		return nil, err
	}
	return bip39.NewSeed(m.secrets.Mnemonic, ""), nil
}

func (m *Manager) pick(mainnet, testnet string) string {
	if m.IsTestnet() {
		return testnet
	}
	return mainnet
}

// AptosAccount returns the Ed25519 account used on Aptos and Movement.
func (m *Manager) AptosAccount() (*aptossdk.Account, error) {
	seed, err := m.seed()
	if err != nil {
		return nil, err
	}
	key, err := deriveEd25519Key(seed, m.pick(AptosDerivationPath, AptosTestnetDerivationPath))
	if err != nil {
		return nil, fmt.Errorf("failed to derive Aptos key: %w", err)
	}
	return aptos.AccountFromSeed(key)
}

// SuiKeypair returns the Sui keypair for scheme.
func (m *Manager) SuiKeypair(scheme sui.SignatureScheme) (sui.Keypair, error) {
	seed, err := m.seed()
	if err != nil {
		return nil, err
	}
	switch scheme {
	case sui.SchemeEd25519:
		key, err := deriveEd25519Key(seed, m.pick(SuiEd25519DerivationPath, SuiEd25519TestnetDerivationPath))
		if err != nil {
			return nil, fmt.Errorf("failed to derive Sui key: %w", err)
		}
		return sui.NewEd25519KeypairFromSeed(key)
	case sui.SchemeSecp256k1:
		key, err := deriveSecp256k1Key(seed, m.pick(SuiSecp256k1DerivationPath, SuiSecp256k1TestnetDerivationPath))
		if err != nil {
			return nil, fmt.Errorf("failed to derive Sui key: %w", err)
		}
		return sui.NewSecp256k1KeypairFromBytes(key.Serialize())
	default:
		return nil, fmt.Errorf("unsupported signature scheme: %s", scheme)
	}
}

// saveVault saves the vault to disk
func (m *Manager) saveVault(vault *crypto.Vault) error {
	data, err := json.Marshal(vault)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}
	if err := os.WriteFile(m.path(vaultFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	return nil
}

// loadVault loads the vault from disk
func (m *Manager) loadVault() (*crypto.Vault, error) {
	data, err := os.ReadFile(m.path(vaultFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}
	var vault crypto.Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vault: %w", err)
	}
	return &vault, nil
}

// VaultExists checks if a vault file exists
func (m *Manager) VaultExists() bool {
	_, err := os.Stat(m.path(vaultFile))
	return err == nil
}

// IsTestnet returns true if the wallet is in testnet mode
func (m *Manager) IsTestnet() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.network == NetworkTestnet
}

// GetCurrentNetwork returns the current network (mainnet or testnet)
func (m *Manager) GetCurrentNetwork() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.network
}
