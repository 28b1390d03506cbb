// Package config loads gasline settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Supported chains.
const (
	ChainAptos    = "aptos"
	ChainMovement = "movement"
	ChainSui      = "sui"
)

// Config is read from the environment. Shinami access keys are scoped to one
// network, so the network chosen on the command line must match the keys.
type Config struct {
	GasAccessKey    string `env:"SHINAMI_GAS_ACCESS_KEY"`
	WalletAccessKey string `env:"SHINAMI_WALLET_ACCESS_KEY"`
	NodeAccessKey   string `env:"SHINAMI_NODE_ACCESS_KEY"`
	Region          string `env:"SHINAMI_REGION" envDefault:"us1"`

	// Chain served by the Aptos-flavoured backend routes.
	Chain string `env:"GASLINE_CHAIN" envDefault:"aptos"`
	Addr  string `env:"GASLINE_ADDR" envDefault:":8080"`
	Home  string `env:"GASLINE_HOME"`

	// Secret the backend uses to open invisible wallet sessions.
	WalletSecret string `env:"GASLINE_WALLET_SECRET"`

	OTelEndpoint string `env:"GASLINE_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Chain = strings.ToLower(strings.TrimSpace(cfg.Chain))
	if cfg.Home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Home = filepath.Join(homeDir, ".gasline")
	}
	return cfg, nil
}

// ValidateChain checks the chain served by the backend's Aptos routes.
func (c Config) ValidateChain() error {
	switch c.Chain {
	case ChainAptos, ChainMovement:
		return nil
	default:
		return fmt.Errorf("GASLINE_CHAIN must be %q or %q, got %q", ChainAptos, ChainMovement, c.Chain)
	}
}

// RequireGasKey reports a helpful error when no gas station key is set.
func (c Config) RequireGasKey() error {
	if c.GasAccessKey == "" {
		return fmt.Errorf("SHINAMI_GAS_ACCESS_KEY is required")
	}
	return nil
}

// RequireWalletKey reports a helpful error when no wallet services key is set.
func (c Config) RequireWalletKey() error {
	if c.WalletAccessKey == "" {
		return fmt.Errorf("SHINAMI_WALLET_ACCESS_KEY is required")
	}
	return nil
}
