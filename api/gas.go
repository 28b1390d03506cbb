package api

import (
	"context"
	"fmt"

	"github.com/chinmay1088/gasline/config"
)

func aptosLike(chain string) error {
	if chain != config.ChainAptos && chain != config.ChainMovement {
		return fmt.Errorf("unsupported chain for Aptos gas station: %s", chain)
	}
	return nil
}

// SponsorAptosTransaction asks the gas station to become fee payer of a
// BCS-encoded simple transaction (hex). chain is aptos or movement.
func (c *Client) SponsorAptosTransaction(ctx context.Context, chain, txHex string) (*AptosSponsorResult, error) {
	if err := aptosLike(chain); err != nil {
		return nil, err
	}
	var result AptosSponsorResult
	err := c.call(ctx, c.endpoint(chain, ServiceGas), c.keys.Gas, "gas_sponsorTransaction", []any{txHex}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to sponsor transaction: %w", err)
	}
	if result.SignatureHex == "" || result.FeePayer.Address == "" {
		return nil, fmt.Errorf("failed to sponsor transaction: incomplete sponsor result")
	}
	return &result, nil
}

// SponsorAndSubmitAptosTransaction sponsors a transaction the sender has
// already signed and submits it to the chain in one call.
func (c *Client) SponsorAndSubmitAptosTransaction(ctx context.Context, chain, txHex, senderAuthHex string) (*AptosPendingTransaction, error) {
	if err := aptosLike(chain); err != nil {
		return nil, err
	}
	var result aptosSubmitResult
	err := c.call(ctx, c.endpoint(chain, ServiceGas), c.keys.Gas, "gas_sponsorAndSubmitSignedTransaction", []any{txHex, senderAuthHex}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to sponsor and submit transaction: %w", err)
	}
	if result.PendingTransaction.Hash == "" {
		return nil, fmt.Errorf("failed to sponsor and submit transaction: no transaction hash in response")
	}
	return &result.PendingTransaction, nil
}

// GetFund fetches the gas station fund for chain.
func (c *Client) GetFund(ctx context.Context, chain string) (*Fund, error) {
	var fund Fund
	if err := c.call(ctx, c.endpoint(chain, ServiceGas), c.keys.Gas, "gas_getFund", nil, &fund); err != nil {
		return nil, fmt.Errorf("failed to fetch %s fund: %w", chain, err)
	}
	return &fund, nil
}

// AptosFund fetches the Aptos or Movement gas station fund.
func (c *Client) AptosFund(ctx context.Context, chain string) (*Fund, error) {
	if err := aptosLike(chain); err != nil {
		return nil, err
	}
	return c.GetFund(ctx, chain)
}

// SuiFund fetches the Sui gas station fund.
func (c *Client) SuiFund(ctx context.Context) (*Fund, error) {
	return c.GetFund(ctx, config.ChainSui)
}

// SponsorSuiTransaction wraps a gasless transaction kind (base64) into
// sponsored transaction data. A zero gasBudget lets the gas station estimate it.
func (c *Client) SponsorSuiTransaction(ctx context.Context, txKind, sender string, gasBudget uint64) (*SuiSponsoredTransaction, error) {
	params := []any{txKind, sender}
	if gasBudget > 0 {
		params = append(params, fmt.Sprintf("%d", gasBudget))
	}
	var result SuiSponsoredTransaction
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceGas), c.keys.Gas, "gas_sponsorTransactionBlock", params, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to sponsor transaction: %w", err)
	}
	if result.TxBytes == "" || result.Signature == "" {
		return nil, fmt.Errorf("failed to sponsor transaction: incomplete sponsor result")
	}
	return &result, nil
}

// SuiSponsorshipStatus reports IN_FLIGHT, COMPLETE or INVALID for a
// sponsored transaction digest.
func (c *Client) SuiSponsorshipStatus(ctx context.Context, digest string) (string, error) {
	var status string
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceGas), c.keys.Gas, "gas_getSponsoredTransactionBlockStatus", []any{digest}, &status)
	if err != nil {
		return "", fmt.Errorf("failed to fetch sponsorship status: %w", err)
	}
	return status, nil
}
