package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chinmay1088/gasline/config"
)

// SuiCoinType is the native coin type.
const SuiCoinType = "0x2::sui::SUI"

var suiResponseOptions = map[string]bool{
	"showEffects": true,
}

// ExecuteSuiTransaction submits signed transaction data (base64) and waits for
// local execution on the full node.
func (c *Client) ExecuteSuiTransaction(ctx context.Context, txBytes string, signatures []string) (*SuiTransactionResponse, error) {
	if len(signatures) == 0 {
		return nil, fmt.Errorf("no signatures provided for transaction")
	}
	params := []any{txBytes, signatures, suiResponseOptions, "WaitForLocalExecution"}
	var resp SuiTransactionResponse
	if err := c.call(ctx, c.endpoint(config.ChainSui, ServiceNode), c.keys.Node, "sui_executeTransactionBlock", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to execute transaction: %w", err)
	}
	return &resp, nil
}

// GetSuiTransaction fetches a transaction by digest.
func (c *Client) GetSuiTransaction(ctx context.Context, digest string) (*SuiTransactionResponse, error) {
	var resp SuiTransactionResponse
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceNode), c.keys.Node, "sui_getTransactionBlock", []any{digest, suiResponseOptions}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return &resp, nil
}

// GetSuiBalance fetches the balance of coinType owned by owner, in MIST for SUI.
func (c *Client) GetSuiBalance(ctx context.Context, owner, coinType string) (uint64, error) {
	if coinType == "" {
		coinType = SuiCoinType
	}
	var balance SuiBalance
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceNode), c.keys.Node, "suix_getBalance", []any{owner, coinType}, &balance)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch Sui balance: %w", err)
	}
	total, err := strconv.ParseUint(balance.TotalBalance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid balance format: %w", err)
	}
	return total, nil
}

// GetSuiReferenceGasPrice returns the current reference gas price in MIST.
func (c *Client) GetSuiReferenceGasPrice(ctx context.Context) (uint64, error) {
	var price string
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceNode), c.keys.Node, "suix_getReferenceGasPrice", nil, &price)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch reference gas price: %w", err)
	}
	value, err := strconv.ParseUint(price, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gas price format: %w", err)
	}
	return value, nil
}
