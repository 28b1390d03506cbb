package flows

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/sui"
)

// ZkLoginService resolves salts and proves zkLogin sessions.
type ZkLoginService interface {
	GetOrCreateZkLoginWallet(ctx context.Context, jwt string) (*api.ZkLoginWallet, error)
	CreateZkLoginProof(ctx context.Context, req api.ZkLoginProofRequest) (*api.ZkLoginProof, error)
}

// ZkLoginSession is everything a client needs to sign as a zkLogin address
// until MaxEpoch.
type ZkLoginSession struct {
	Address  string          `json:"address"`
	Salt     string          `json:"salt"`
	Issuer   string          `json:"issuer"`
	Subject  string          `json:"subject"`
	MaxEpoch uint64          `json:"maxEpoch"`
	Proof    json.RawMessage `json:"zkProof"`
}

// ZkLoginPrepare reads the id token, checks that it was issued for the
// ephemeral key session, fetches the user's salt and address and
// requests a proof binding the ephemeral key to them.
func ZkLoginPrepare(ctx context.Context, svc ZkLoginService, jwt string, maxEpoch uint64, ephemeral sui.Keypair, randomness string) (res *ZkLoginSession, err error) {
	ctx, span := startSpan(ctx, "ZkLoginPrepare")
	defer func() { endSpan(span, err) }()

	token, err := sui.ParseIDToken(jwt)
	if err != nil {
		return nil, stepErr(StepIdentity, err)
	}
	nonce, err := sui.ZkLoginNonce(ephemeral, maxEpoch, randomness)
	if err != nil {
		return nil, stepErr(StepIdentity, err)
	}
	// a proof for a token issued to another session is rejected on chain
	if token.Nonce != nonce {
		return nil, stepErr(StepIdentity, fmt.Errorf("id token nonce %q does not match session nonce %q", token.Nonce, nonce))
	}
	wallet, err := svc.GetOrCreateZkLoginWallet(ctx, jwt)
	if err != nil {
		return nil, stepErr(StepSalt, err)
	}
	proof, err := svc.CreateZkLoginProof(ctx, api.ZkLoginProofRequest{
		JWT:                        jwt,
		MaxEpoch:                   maxEpoch,
		ExtendedEphemeralPublicKey: sui.ExtendedEphemeralPublicKey(ephemeral),
		JWTRandomness:              randomness,
		Salt:                       wallet.Salt,
	})
	if err != nil {
		return nil, stepErr(StepProof, err)
	}
	return &ZkLoginSession{
		Address:  wallet.Address,
		Salt:     wallet.Salt,
		Issuer:   token.Issuer,
		Subject:  token.Subject,
		MaxEpoch: maxEpoch,
		Proof:    proof.ZkProof,
	}, nil
}
