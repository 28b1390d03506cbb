package api

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/chinmay1088/gasline/config"
)

// CreateSession exchanges the application's wallet secret for a short-lived
// session token on chain's key service.
func (c *Client) CreateSession(ctx context.Context, chain, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("wallet secret is empty")
	}
	var token string
	if err := c.call(ctx, c.endpoint(chain, ServiceKey), c.keys.Wallet, "shinami_key_createSession", []any{secret}, &token); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// CreateSuiWallet creates an invisible wallet for walletID and returns its address.
func (c *Client) CreateSuiWallet(ctx context.Context, walletID, sessionToken string) (string, error) {
	return c.walletAddress(ctx, config.ChainSui, "shinami_wal_createWallet", walletID, sessionToken)
}

// GetSuiWallet returns the address of an existing invisible wallet.
func (c *Client) GetSuiWallet(ctx context.Context, walletID string) (string, error) {
	return c.walletAddress(ctx, config.ChainSui, "shinami_wal_getWallet", walletID, "")
}

// SignSuiTransaction has the invisible wallet sign full transaction data.
func (c *Client) SignSuiTransaction(ctx context.Context, walletID, sessionToken, txBytes string) (*SuiSignResult, error) {
	var result SuiSignResult
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceWallet), c.keys.Wallet, "shinami_wal_signTransactionBlock", []any{walletID, sessionToken, txBytes}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return &result, nil
}

// SignSuiPersonalMessage signs message with the invisible wallet. The message
// is wrapped as BCS vector<u8> so the signature verifies like a wallet-adapter one.
func (c *Client) SignSuiPersonalMessage(ctx context.Context, walletID, sessionToken string, message []byte) (string, error) {
	var signature string
	params := []any{walletID, sessionToken, base64.StdEncoding.EncodeToString(message), true}
	if err := c.call(ctx, c.endpoint(config.ChainSui, ServiceWallet), c.keys.Wallet, "shinami_wal_signPersonalMessage", params, &signature); err != nil {
		return "", fmt.Errorf("failed to sign personal message: %w", err)
	}
	return signature, nil
}

// ExecuteGaslessSuiTransaction sponsors, signs and executes a transaction kind
// from the invisible wallet in one call.
func (c *Client) ExecuteGaslessSuiTransaction(ctx context.Context, walletID, sessionToken, txKind string, gasBudget uint64) (*SuiTransactionResponse, error) {
	var budget any
	if gasBudget > 0 {
		budget = fmt.Sprintf("%d", gasBudget)
	}
	params := []any{walletID, sessionToken, txKind, budget, suiResponseOptions, "WaitForLocalExecution"}
	var resp SuiTransactionResponse
	if err := c.call(ctx, c.endpoint(config.ChainSui, ServiceWallet), c.keys.Wallet, "shinami_wal_executeGaslessTransactionBlock", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to execute gasless transaction: %w", err)
	}
	return &resp, nil
}

// CreateAptosWallet creates an Aptos invisible wallet and returns its address.
func (c *Client) CreateAptosWallet(ctx context.Context, walletID, sessionToken string) (string, error) {
	return c.walletAddress(ctx, config.ChainAptos, "shinami_aptos_wal_createWallet", walletID, sessionToken)
}

// GetAptosWallet returns the address of an existing Aptos invisible wallet.
func (c *Client) GetAptosWallet(ctx context.Context, walletID string) (string, error) {
	return c.walletAddress(ctx, config.ChainAptos, "shinami_aptos_wal_getWallet", walletID, "")
}

// SignAptosTransaction returns the wallet's AccountAuthenticator (BCS hex) over
// a simple transaction.
func (c *Client) SignAptosTransaction(ctx context.Context, walletID, sessionToken, txHex string) (string, error) {
	var auth string
	err := c.call(ctx, c.endpoint(config.ChainAptos, ServiceWallet), c.keys.Wallet, "shinami_aptos_wal_signTransaction", []any{walletID, sessionToken, txHex}, &auth)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	return auth, nil
}

// ExecuteGaslessAptosTransaction signs, sponsors and submits a simple
// transaction from the invisible wallet.
func (c *Client) ExecuteGaslessAptosTransaction(ctx context.Context, walletID, sessionToken, txHex string) (*AptosPendingTransaction, error) {
	var result aptosSubmitResult
	err := c.call(ctx, c.endpoint(config.ChainAptos, ServiceWallet), c.keys.Wallet, "shinami_aptos_wal_executeGaslessTransaction", []any{walletID, sessionToken, txHex}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to execute gasless transaction: %w", err)
	}
	if result.PendingTransaction.Hash == "" {
		return nil, fmt.Errorf("failed to execute gasless transaction: no transaction hash in response")
	}
	return &result.PendingTransaction, nil
}

func (c *Client) walletAddress(ctx context.Context, chain, method, walletID, sessionToken string) (string, error) {
	if walletID == "" {
		return "", fmt.Errorf("wallet id is empty")
	}
	params := []any{walletID}
	if sessionToken != "" {
		params = append(params, sessionToken)
	}
	var address string
	if err := c.call(ctx, c.endpoint(chain, ServiceWallet), c.keys.Wallet, method, params, &address); err != nil {
		return "", fmt.Errorf("failed to resolve wallet %s: %w", walletID, err)
	}
	return address, nil
}
