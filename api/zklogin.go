package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chinmay1088/gasline/config"
)

// GetOrCreateZkLoginWallet returns the salt and address bound to the identity
// in jwt, creating them on first use.
func (c *Client) GetOrCreateZkLoginWallet(ctx context.Context, jwt string) (*ZkLoginWallet, error) {
	var wallet ZkLoginWallet
	err := c.call(ctx, c.endpoint(config.ChainSui, ServiceZkWallet), c.keys.Wallet, "shinami_zkw_getOrCreateZkLoginWallet", []any{jwt}, &wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to get zkLogin wallet: %w", err)
	}
	return &wallet, nil
}

// CreateZkLoginProof requests a zkLogin proof from the prover.
func (c *Client) CreateZkLoginProof(ctx context.Context, req ZkLoginProofRequest) (*ZkLoginProof, error) {
	params := []any{
		req.JWT,
		strconv.FormatUint(req.MaxEpoch, 10),
		req.ExtendedEphemeralPublicKey,
		req.JWTRandomness,
		req.Salt,
	}
	var proof ZkLoginProof
	if err := c.call(ctx, c.endpoint(config.ChainSui, ServiceZkProver), c.keys.Wallet, "shinami_zkp_createZkLoginProof", params, &proof); err != nil {
		return nil, fmt.Errorf("failed to create zkLogin proof: %w", err)
	}
	return &proof, nil
}
