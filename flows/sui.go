package flows

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
)

// Defaults for waiting on Sui transactions.
const (
	DefaultSuiPollInterval = 500 * time.Millisecond
	DefaultSuiWaitTimeout  = 30 * time.Second
)

// SuiGasStation sponsors Sui transaction kinds.
type SuiGasStation interface {
	SponsorSuiTransaction(ctx context.Context, txKind, sender string, gasBudget uint64) (*api.SuiSponsoredTransaction, error)
}

// SuiNode executes and looks up Sui transactions.
type SuiNode interface {
	ExecuteSuiTransaction(ctx context.Context, txBytes string, signatures []string) (*api.SuiTransactionResponse, error)
	GetSuiTransaction(ctx context.Context, digest string) (*api.SuiTransactionResponse, error)
}

// SuiWalletService is the invisible wallet surface for Sui.
type SuiWalletService interface {
	CreateSession(ctx context.Context, chain, secret string) (string, error)
	GetSuiWallet(ctx context.Context, walletID string) (string, error)
	CreateSuiWallet(ctx context.Context, walletID, sessionToken string) (string, error)
	SignSuiTransaction(ctx context.Context, walletID, sessionToken, txBytes string) (*api.SuiSignResult, error)
	ExecuteGaslessSuiTransaction(ctx context.Context, walletID, sessionToken, txKind string, gasBudget uint64) (*api.SuiTransactionResponse, error)
}

// SuiDeps wires the Sui flows. Zero poll settings use the defaults.
type SuiDeps struct {
	Gas          SuiGasStation
	Node         SuiNode
	Wallets      SuiWalletService
	PollInterval time.Duration
	WaitTimeout  time.Duration
}

// SuiResult is the outcome of an executed Sui transaction.
type SuiResult struct {
	Digest string
	Status string
	Sender string
}

// SuiSponsoredMoveCall sponsors ptb for the keypair's address, signs the
// sponsored transaction data, executes it with both signatures and waits.
func SuiSponsoredMoveCall(ctx context.Context, deps SuiDeps, kp sui.Keypair, ptb *sui.ProgrammableTransaction, gasBudget uint64) (res *SuiResult, err error) {
	ctx, span := startSpan(ctx, "SuiSponsoredMoveCall", attribute.String("sender", kp.Address()))
	defer func() { endSpan(span, err) }()

	kind, err := ptb.KindBase64()
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	sponsored, err := sponsorSui(ctx, deps, kind, kp.Address(), gasBudget)
	if err != nil {
		return nil, err
	}
	txBytes, err := base64.StdEncoding.DecodeString(sponsored.TxBytes)
	if err != nil {
		return nil, stepErr(StepSponsor, fmt.Errorf("invalid transaction bytes: %w", err))
	}
	userSig, err := sui.SignTransaction(kp, txBytes)
	if err != nil {
		return nil, stepErr(StepSign, err)
	}
	return executeAndWait(ctx, deps, sponsored, userSig, kp.Address())
}

// SuiInvisibleWalletMoveCall has the invisible wallet walletID sponsor, sign
// and execute ptb in a single wallet service call.
func SuiInvisibleWalletMoveCall(ctx context.Context, deps SuiDeps, walletID, secret string, ptb *sui.ProgrammableTransaction, gasBudget uint64) (res *SuiResult, err error) {
	ctx, span := startSpan(ctx, "SuiInvisibleWalletMoveCall", attribute.String("wallet_id", walletID))
	defer func() { endSpan(span, err) }()

	kind, err := ptb.KindBase64()
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	token, address, err := suiWallet(ctx, deps, walletID, secret)
	if err != nil {
		return nil, err
	}
	resp, err := deps.Wallets.ExecuteGaslessSuiTransaction(ctx, walletID, token, kind, gasBudget)
	if err != nil {
		return nil, stepErr(StepSubmit, err)
	}
	return suiResult(resp, address)
}

// SuiInvisibleWalletSponsorSignExecute runs the same transaction as separate
// steps: sponsor with the gas station, sign with the wallet, execute on the
// full node.
func SuiInvisibleWalletSponsorSignExecute(ctx context.Context, deps SuiDeps, walletID, secret string, ptb *sui.ProgrammableTransaction, gasBudget uint64) (res *SuiResult, err error) {
	ctx, span := startSpan(ctx, "SuiInvisibleWalletSponsorSignExecute", attribute.String("wallet_id", walletID))
	defer func() { endSpan(span, err) }()

	kind, err := ptb.KindBase64()
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	token, address, err := suiWallet(ctx, deps, walletID, secret)
	if err != nil {
		return nil, err
	}
	sponsored, err := sponsorSui(ctx, deps, kind, address, gasBudget)
	if err != nil {
		return nil, err
	}
	signed, err := deps.Wallets.SignSuiTransaction(ctx, walletID, token, sponsored.TxBytes)
	if err != nil {
		return nil, stepErr(StepSign, err)
	}
	return executeAndWait(ctx, deps, sponsored, signed.Signature, address)
}

// ExecuteSui submits transaction data signed by sender and sponsor.
func ExecuteSui(ctx context.Context, deps SuiDeps, txBytes string, signatures []string) (res *SuiResult, err error) {
	ctx, span := startSpan(ctx, "ExecuteSui")
	defer func() { endSpan(span, err) }()

	if _, err := base64.StdEncoding.DecodeString(txBytes); err != nil {
		return nil, stepErr(StepDecode, fmt.Errorf("invalid transaction bytes: %w", err))
	}
	for _, sig := range signatures {
		if _, err := sui.ParseSerializedSignature(sig); err != nil {
			return nil, stepErr(StepDecode, err)
		}
	}
	resp, err := deps.Node.ExecuteSuiTransaction(ctx, txBytes, signatures)
	if err != nil {
		return nil, stepErr(StepSubmit, err)
	}
	return suiResult(resp, "")
}

// SponsorSui asks the gas station to sponsor a base64 transaction kind for
// sender and checks the returned digest.
func SponsorSui(ctx context.Context, deps SuiDeps, txKind, sender string, gasBudget uint64) (res *api.SuiSponsoredTransaction, err error) {
	ctx, span := startSpan(ctx, "SponsorSui", attribute.String("sender", sender))
	defer func() { endSpan(span, err) }()

	if _, err := base64.StdEncoding.DecodeString(txKind); err != nil {
		return nil, stepErr(StepDecode, fmt.Errorf("invalid transaction kind: %w", err))
	}
	normalized, err := sui.NormalizeAddress(sender)
	if err != nil {
		return nil, stepErr(StepDecode, err)
	}
	return sponsorSui(ctx, deps, txKind, normalized, gasBudget)
}

func sponsorSui(ctx context.Context, deps SuiDeps, kind, sender string, gasBudget uint64) (*api.SuiSponsoredTransaction, error) {
	sponsored, err := deps.Gas.SponsorSuiTransaction(ctx, kind, sender, gasBudget)
	if err != nil {
		return nil, stepErr(StepSponsor, err)
	}
	if sponsored.TxDigest != "" {
		txBytes, err := base64.StdEncoding.DecodeString(sponsored.TxBytes)
		if err != nil {
			return nil, stepErr(StepSponsor, fmt.Errorf("invalid transaction bytes: %w", err))
		}
		if got := sui.TransactionDigest(txBytes); got != sponsored.TxDigest {
			return nil, stepErr(StepSponsor, fmt.Errorf("digest mismatch: gas station reported %s, bytes hash to %s", sponsored.TxDigest, got))
		}
	}
	return sponsored, nil
}

func suiWallet(ctx context.Context, deps SuiDeps, walletID, secret string) (token, address string, err error) {
	token, err = deps.Wallets.CreateSession(ctx, config.ChainSui, secret)
	if err != nil {
		return "", "", stepErr(StepSession, err)
	}
	address, err = getOrCreateWallet(ctx, walletID, token, deps.Wallets.GetSuiWallet, deps.Wallets.CreateSuiWallet)
	if err != nil {
		return "", "", stepErr(StepWallet, err)
	}
	return token, address, nil
}

func executeAndWait(ctx context.Context, deps SuiDeps, sponsored *api.SuiSponsoredTransaction, senderSig, sender string) (*SuiResult, error) {
	resp, err := deps.Node.ExecuteSuiTransaction(ctx, sponsored.TxBytes, []string{senderSig, sponsored.Signature})
	if err != nil {
		return nil, stepErr(StepSubmit, err)
	}
	digest := resp.Digest
	if digest == "" {
		digest = sponsored.TxDigest
	}
	final, err := WaitSui(ctx, deps, digest)
	if err != nil {
		return nil, err
	}
	return suiResult(final, sender)
}

func suiResult(resp *api.SuiTransactionResponse, sender string) (*SuiResult, error) {
	res := &SuiResult{Digest: resp.Digest, Sender: sender}
	if resp.Effects != nil {
		res.Status = resp.Effects.Status.Status
	}
	if !resp.Succeeded() {
		msg := res.Status
		if resp.Effects != nil && resp.Effects.Status.Error != "" {
			msg = resp.Effects.Status.Error
		}
		return res, stepErr(StepWait, fmt.Errorf("transaction failed: %s", msg))
	}
	return res, nil
}

// WaitSui polls the full node until digest has effects, or returns ErrTimeout.
func WaitSui(ctx context.Context, deps SuiDeps, digest string) (*api.SuiTransactionResponse, error) {
	interval := deps.PollInterval
	if interval <= 0 {
		interval = DefaultSuiPollInterval
	}
	timeout := deps.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultSuiWaitTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		resp, err := deps.Node.GetSuiTransaction(ctx, digest)
		if err == nil && resp.Effects != nil {
			return resp, nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, stepErr(StepWait, ErrTimeout)
			}
			return nil, stepErr(StepWait, ctx.Err())
		case <-ticker.C:
		}
	}
}
