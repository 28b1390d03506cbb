package flows

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"testing"

	aptossdk "github.com/aptos-labs/aptos-go-sdk"
	aptosapi "github.com/aptos-labs/aptos-go-sdk/api"
	"github.com/stretchr/testify/require"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
)

var errUpstream = errors.New("upstream unavailable")

func testAccount(t *testing.T, fill byte) *aptossdk.Account {
	t.Helper()
	account, err := aptos.AccountFromSeed(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return account
}

// fakeAptosNode builds deterministic transactions and records submissions.
type fakeAptosNode struct {
	calls      []string
	buildErr   error
	submitErr  error
	vmFailure  string
	submitted  *aptossdk.SignedTransaction
	newAccount bool
}

// Account answers like a node: 404 for an address that was never funded.
func (f *fakeAptosNode) Account(address aptossdk.AccountAddress, ledgerVersion ...uint64) (aptossdk.AccountInfo, error) {
	if f.newAccount {
		return aptossdk.AccountInfo{}, fmt.Errorf("get account info api err: %w", &aptossdk.HttpError{
			Status:     "404 Not Found",
			StatusCode: http.StatusNotFound,
			Method:     http.MethodGet,
			Body:       []byte(`{"error_code":"account_not_found"}`),
		})
	}
	return aptossdk.AccountInfo{SequenceNumberStr: "1"}, nil
}

func (f *fakeAptosNode) BuildTransactionMultiAgent(sender aptossdk.AccountAddress, payload aptossdk.TransactionPayload, options ...any) (*aptossdk.RawTransactionWithData, error) {
	f.calls = append(f.calls, "build")
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	seq, ok := uint64(0), false
	for _, opt := range options {
		if v, isSeq := opt.(aptossdk.SequenceNumber); isSeq {
			seq, ok = uint64(v), true
		}
	}
	if !ok {
		return nil, errors.New("sequence number not provided")
	}
	zero := aptossdk.AccountZero
	return &aptossdk.RawTransactionWithData{
		Variant: aptossdk.MultiAgentWithFeePayerRawTransactionWithDataVariant,
		Inner: &aptossdk.MultiAgentWithFeePayerRawTransactionWithData{
			RawTxn: &aptossdk.RawTransaction{
				Sender:                     sender,
				SequenceNumber:             seq,
				Payload:                    payload,
				MaxGasAmount:               1000,
				GasUnitPrice:               100,
				ExpirationTimestampSeconds: 1_700_000_300,
				ChainId:                    2,
			},
			FeePayer:         &zero,
			SecondarySigners: []aptossdk.AccountAddress{},
		},
	}, nil
}

func (f *fakeAptosNode) SubmitTransaction(signed *aptossdk.SignedTransaction) (*aptosapi.SubmitTransactionResponse, error) {
	f.calls = append(f.calls, "submit")
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = signed
	return &aptosapi.SubmitTransactionResponse{Hash: "0xsubmitted"}, nil
}

func (f *fakeAptosNode) WaitForTransaction(hash string, options ...any) (*aptosapi.UserTransaction, error) {
	f.calls = append(f.calls, "wait:"+hash)
	if f.vmFailure != "" {
		return &aptosapi.UserTransaction{Hash: hash, Success: false, VmStatus: f.vmFailure}, nil
	}
	return &aptosapi.UserTransaction{Hash: hash, Success: true, VmStatus: "Executed successfully"}, nil
}

// fakeAptosGas co-signs as a real fee payer account.
type fakeAptosGas struct {
	t        *testing.T
	sponsor  *aptossdk.Account
	err      error
	chain    string
	txHex    string
	authHex  string
	sponsors int
}

func (f *fakeAptosGas) SponsorAptosTransaction(ctx context.Context, chain, txHex string) (*api.AptosSponsorResult, error) {
	f.sponsors++
	f.chain, f.txHex = chain, txHex
	if f.err != nil {
		return nil, f.err
	}
	tx, err := aptos.ParseSimpleTransaction(txHex)
	require.NoError(f.t, err)
	msg := aptos.FeePayerMessage(tx)
	require.True(f.t, msg.SetFeePayer(f.sponsor.Address))
	auth, err := msg.Sign(f.sponsor)
	require.NoError(f.t, err)
	authHex, err := aptos.EncodeAuthenticator(auth)
	require.NoError(f.t, err)

	res := &api.AptosSponsorResult{SignatureHex: authHex}
	res.FeePayer.Address = f.sponsor.Address.String()
	return res, nil
}

func (f *fakeAptosGas) SponsorAndSubmitAptosTransaction(ctx context.Context, chain, txHex, senderAuthHex string) (*api.AptosPendingTransaction, error) {
	f.chain, f.txHex, f.authHex = chain, txHex, senderAuthHex
	if f.err != nil {
		return nil, f.err
	}
	return &api.AptosPendingTransaction{Hash: "0xsponsored"}, nil
}

// fakeSui plays gas station, full node and wallet service.
type fakeSui struct {
	t           *testing.T
	calls       []string
	sponsorErr  error
	executeErr  error
	getMisses   int
	neverFound  bool
	failStatus  string
	walletErr   error
	walletFound bool
	badDigest   bool
	txBytes     []byte
	executed    []string
	gasBudget   uint64
	sender      string
}

func newFakeSui(t *testing.T) *fakeSui {
	return &fakeSui{t: t, txBytes: []byte("sponsored transaction data"), walletFound: true}
}

func (f *fakeSui) SponsorSuiTransaction(ctx context.Context, txKind, sender string, gasBudget uint64) (*api.SuiSponsoredTransaction, error) {
	f.calls = append(f.calls, "sponsor")
	f.sender, f.gasBudget = sender, gasBudget
	if f.sponsorErr != nil {
		return nil, f.sponsorErr
	}
	_, err := base64.StdEncoding.DecodeString(txKind)
	require.NoError(f.t, err)
	digest := sui.TransactionDigest(f.txBytes)
	if f.badDigest {
		digest = sui.TransactionDigest([]byte("something else"))
	}
	return &api.SuiSponsoredTransaction{
		TxBytes:   base64.StdEncoding.EncodeToString(f.txBytes),
		TxDigest:  digest,
		Signature: "c3BvbnNvcg==",
	}, nil
}

func (f *fakeSui) ExecuteSuiTransaction(ctx context.Context, txBytes string, signatures []string) (*api.SuiTransactionResponse, error) {
	f.calls = append(f.calls, "execute")
	f.executed = signatures
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	return &api.SuiTransactionResponse{Digest: sui.TransactionDigest(f.txBytes)}, nil
}

func (f *fakeSui) GetSuiTransaction(ctx context.Context, digest string) (*api.SuiTransactionResponse, error) {
	f.calls = append(f.calls, "get")
	if f.neverFound || f.getMisses > 0 {
		f.getMisses--
		return nil, &api.RPCError{Code: -32602, Message: "Could not find the referenced transaction"}
	}
	return f.response(digest), nil
}

func (f *fakeSui) response(digest string) *api.SuiTransactionResponse {
	resp := &api.SuiTransactionResponse{Digest: digest}
	status := "success"
	if f.failStatus != "" {
		status = "failure"
	}
	resp.Effects = &api.SuiEffects{Status: api.SuiExecutionStatus{Status: status, Error: f.failStatus}}
	return resp
}

func (f *fakeSui) CreateSession(ctx context.Context, chain, secret string) (string, error) {
	f.calls = append(f.calls, "session:"+chain)
	if secret == "" {
		return "", &api.RPCError{Code: -32602, Message: "bad secret"}
	}
	return "token", nil
}

func (f *fakeSui) GetSuiWallet(ctx context.Context, walletID string) (string, error) {
	f.calls = append(f.calls, "getWallet")
	if f.walletErr != nil {
		return "", f.walletErr
	}
	if !f.walletFound {
		return "", &api.RPCError{Code: -32602, Message: "wallet not found"}
	}
	return "0xwallet", nil
}

func (f *fakeSui) CreateSuiWallet(ctx context.Context, walletID, sessionToken string) (string, error) {
	f.calls = append(f.calls, "createWallet")
	return "0xnewwallet", nil
}

func (f *fakeSui) SignSuiTransaction(ctx context.Context, walletID, sessionToken, txBytes string) (*api.SuiSignResult, error) {
	f.calls = append(f.calls, "walletSign")
	return &api.SuiSignResult{Signature: "d2FsbGV0", TxDigest: sui.TransactionDigest(f.txBytes)}, nil
}

func (f *fakeSui) ExecuteGaslessSuiTransaction(ctx context.Context, walletID, sessionToken, txKind string, gasBudget uint64) (*api.SuiTransactionResponse, error) {
	f.calls = append(f.calls, "executeGasless")
	return f.response("gaslessdigest"), nil
}
