package flows

import (
	"context"
	"errors"
	"fmt"

	aptossdk "github.com/aptos-labs/aptos-go-sdk"
	aptosapi "github.com/aptos-labs/aptos-go-sdk/api"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/config"
)

// AptosNode is the full node surface the Aptos flows use. *aptos.Client from
// the SDK satisfies it.
type AptosNode interface {
	aptos.Builder
	SubmitTransaction(signed *aptossdk.SignedTransaction) (*aptosapi.SubmitTransactionResponse, error)
	WaitForTransaction(hash string, options ...any) (*aptosapi.UserTransaction, error)
}

// AptosGasStation sponsors Aptos and Movement transactions.
type AptosGasStation interface {
	SponsorAptosTransaction(ctx context.Context, chain, txHex string) (*api.AptosSponsorResult, error)
	SponsorAndSubmitAptosTransaction(ctx context.Context, chain, txHex, senderAuthHex string) (*api.AptosPendingTransaction, error)
}

// AptosDeps wires the Aptos flows. Chain is aptos or movement.
type AptosDeps struct {
	Chain string
	Node  AptosNode
	Gas   AptosGasStation
}

// AptosResult is the outcome of a committed transaction.
type AptosResult struct {
	Hash     string
	Success  bool
	VMStatus string
}

// SponsoredTransaction is a gasless transaction with the gas station's
// fee payer signature, ready for the sender to sign and submit.
type SponsoredTransaction struct {
	TransactionHex           string
	FeePayerAuthenticatorHex string
	FeePayerAddress          string
}

// AptosSponsoredTransfer builds a gasless transfer, signs it as sender, has
// the gas station co-sign as fee payer, then submits and waits.
func AptosSponsoredTransfer(ctx context.Context, deps AptosDeps, sender *aptossdk.Account, recipient aptossdk.AccountAddress, amount uint64) (res *AptosResult, err error) {
	ctx, span := startSpan(ctx, "AptosSponsoredTransfer", attribute.String("chain", deps.Chain))
	defer func() { endSpan(span, err) }()

	tx, err := aptos.BuildGaslessTransfer(deps.Node, sender.Address, recipient, amount)
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	senderAuth, err := aptos.SignAsSender(tx, sender)
	if err != nil {
		return nil, stepErr(StepSign, err)
	}
	sponsored, err := sponsorAptos(ctx, deps, tx)
	if err != nil {
		return nil, err
	}

	feePayerAuth, err := aptos.DecodeAuthenticator(sponsored.FeePayerAuthenticatorHex)
	if err != nil {
		return nil, stepErr(StepSponsor, err)
	}
	feePayer, err := aptos.ParseAddress(sponsored.FeePayerAddress)
	if err != nil {
		return nil, stepErr(StepSponsor, err)
	}
	signed, err := aptos.Assemble(tx, senderAuth, feePayerAuth, feePayer)
	if err != nil {
		return nil, stepErr(StepSubmit, err)
	}
	submitted, err := deps.Node.SubmitTransaction(signed)
	if err != nil {
		return nil, stepErr(StepSubmit, fmt.Errorf("failed to submit transaction: %w", err))
	}
	return WaitAptos(ctx, deps.Node, submitted.Hash)
}

// AptosSponsorAndSubmit builds and signs a gasless transfer and lets the gas
// station sponsor and submit it in one call.
func AptosSponsorAndSubmit(ctx context.Context, deps AptosDeps, sender *aptossdk.Account, recipient aptossdk.AccountAddress, amount uint64) (res *AptosResult, err error) {
	ctx, span := startSpan(ctx, "AptosSponsorAndSubmit", attribute.String("chain", deps.Chain))
	defer func() { endSpan(span, err) }()

	tx, err := aptos.BuildGaslessTransfer(deps.Node, sender.Address, recipient, amount)
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	senderAuth, err := aptos.SignAsSender(tx, sender)
	if err != nil {
		return nil, stepErr(StepSign, err)
	}
	txHex, err := tx.Hex()
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	authHex, err := aptos.EncodeAuthenticator(senderAuth)
	if err != nil {
		return nil, stepErr(StepSign, err)
	}
	pending, err := deps.Gas.SponsorAndSubmitAptosTransaction(ctx, deps.Chain, txHex, authHex)
	if err != nil {
		return nil, stepErr(StepSponsor, err)
	}
	return WaitAptos(ctx, deps.Node, pending.Hash)
}

// BuildAndSponsorAptos is the backend half of a sponsored transaction: it
// builds a gasless transaction for sender and returns it with the fee payer
// signature. The sender signs and submits on their side.
func BuildAndSponsorAptos(ctx context.Context, deps AptosDeps, sender aptossdk.AccountAddress, entry *aptossdk.EntryFunction) (res *SponsoredTransaction, err error) {
	ctx, span := startSpan(ctx, "BuildAndSponsorAptos", attribute.String("chain", deps.Chain))
	defer func() { endSpan(span, err) }()

	tx, err := aptos.BuildGaslessEntryFunction(deps.Node, sender, entry)
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	return sponsorAptos(ctx, deps, tx)
}

// SponsorAptos asks the gas station to co-sign an already built transaction.
func SponsorAptos(ctx context.Context, deps AptosDeps, txHex string) (res *SponsoredTransaction, err error) {
	ctx, span := startSpan(ctx, "SponsorAptos", attribute.String("chain", deps.Chain))
	defer func() { endSpan(span, err) }()

	tx, err := aptos.ParseSimpleTransaction(txHex)
	if err != nil {
		return nil, stepErr(StepDecode, err)
	}
	return sponsorAptos(ctx, deps, tx)
}

// SponsorAndSubmitSignedAptos forwards a sender-signed transaction to the gas
// station, which sponsors and submits it.
func SponsorAndSubmitSignedAptos(ctx context.Context, deps AptosDeps, txHex, senderAuthHex string) (pending *api.AptosPendingTransaction, err error) {
	ctx, span := startSpan(ctx, "SponsorAndSubmitSignedAptos", attribute.String("chain", deps.Chain))
	defer func() { endSpan(span, err) }()

	tx, err := aptos.ParseSimpleTransaction(txHex)
	if err != nil {
		return nil, stepErr(StepDecode, err)
	}
	auth, err := aptos.DecodeAuthenticator(senderAuthHex)
	if err != nil {
		return nil, stepErr(StepDecode, err)
	}
	// re-encode so the gas station always sees canonical 0x-prefixed hex
	canonicalTx, err := tx.Hex()
	if err != nil {
		return nil, stepErr(StepDecode, err)
	}
	canonicalAuth, err := aptos.EncodeAuthenticator(auth)
	if err != nil {
		return nil, stepErr(StepDecode, err)
	}
	pending, err = deps.Gas.SponsorAndSubmitAptosTransaction(ctx, deps.Chain, canonicalTx, canonicalAuth)
	if err != nil {
		return nil, stepErr(StepSponsor, err)
	}
	return pending, nil
}

func sponsorAptos(ctx context.Context, deps AptosDeps, tx *aptos.SimpleTransaction) (*SponsoredTransaction, error) {
	txHex, err := tx.Hex()
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	res, err := deps.Gas.SponsorAptosTransaction(ctx, deps.Chain, txHex)
	if err != nil {
		return nil, stepErr(StepSponsor, err)
	}
	return &SponsoredTransaction{
		TransactionHex:           txHex,
		FeePayerAuthenticatorHex: res.SignatureHex,
		FeePayerAddress:          res.FeePayer.Address,
	}, nil
}

// WaitAptos waits for hash to be committed.
func WaitAptos(ctx context.Context, node AptosNode, hash string) (*AptosResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, stepErr(StepWait, err)
	}
	txn, err := node.WaitForTransaction(hash)
	if err != nil {
		return &AptosResult{Hash: hash}, stepErr(StepWait, fmt.Errorf("failed to wait for transaction: %w", err))
	}
	res := &AptosResult{Hash: hash, Success: txn.Success, VMStatus: txn.VmStatus}
	if !txn.Success {
		return res, stepErr(StepWait, fmt.Errorf("transaction failed on chain: %s", txn.VmStatus))
	}
	return res, nil
}

// AptosWalletService is the invisible wallet surface for Aptos.
type AptosWalletService interface {
	CreateSession(ctx context.Context, chain, secret string) (string, error)
	GetAptosWallet(ctx context.Context, walletID string) (string, error)
	CreateAptosWallet(ctx context.Context, walletID, sessionToken string) (string, error)
	ExecuteGaslessAptosTransaction(ctx context.Context, walletID, sessionToken, txHex string) (*api.AptosPendingTransaction, error)
}

// InvisibleWalletResult is a transaction sent from an invisible wallet.
type InvisibleWalletResult struct {
	WalletAddress string
	Hash          string
}

// AptosInvisibleWalletTransfer sends a gasless transfer from the invisible
// wallet walletID, creating the wallet on first use.
func AptosInvisibleWalletTransfer(ctx context.Context, node aptos.Builder, wallets AptosWalletService, walletID, secret string, recipient aptossdk.AccountAddress, amount uint64) (res *InvisibleWalletResult, err error) {
	ctx, span := startSpan(ctx, "AptosInvisibleWalletTransfer")
	defer func() { endSpan(span, err) }()

	token, err := wallets.CreateSession(ctx, config.ChainAptos, secret)
	if err != nil {
		return nil, stepErr(StepSession, err)
	}
	address, err := getOrCreateWallet(ctx, walletID, token, wallets.GetAptosWallet, wallets.CreateAptosWallet)
	if err != nil {
		return nil, stepErr(StepWallet, err)
	}
	sender, err := aptos.ParseAddress(address)
	if err != nil {
		return nil, stepErr(StepWallet, err)
	}
	tx, err := aptos.BuildGaslessTransfer(node, sender, recipient, amount)
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	txHex, err := tx.Hex()
	if err != nil {
		return nil, stepErr(StepBuild, err)
	}
	pending, err := wallets.ExecuteGaslessAptosTransaction(ctx, walletID, token, txHex)
	if err != nil {
		return nil, stepErr(StepSubmit, err)
	}
	return &InvisibleWalletResult{WalletAddress: address, Hash: pending.Hash}, nil
}

// getOrCreateWallet looks the wallet up and creates it when the service
// answers with an RPC error. Transport failures abort.
func getOrCreateWallet(ctx context.Context, walletID, token string,
	get func(ctx context.Context, walletID string) (string, error),
	create func(ctx context.Context, walletID, token string) (string, error),
) (string, error) {
	address, err := get(ctx, walletID)
	if err == nil {
		return address, nil
	}
	var rpcErr *api.RPCError
	if !errors.As(err, &rpcErr) {
		return "", err
	}
	return create(ctx, walletID, token)
}
