package aptos

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuilder struct {
	sender     aptos.AccountAddress
	payload    aptos.TransactionPayload
	options    []any
	err        error
	accountErr error
}

func (f *fakeBuilder) Account(address aptos.AccountAddress, ledgerVersion ...uint64) (aptos.AccountInfo, error) {
	if f.accountErr != nil {
		return aptos.AccountInfo{}, f.accountErr
	}
	return aptos.AccountInfo{SequenceNumberStr: "3"}, nil
}

func (f *fakeBuilder) BuildTransactionMultiAgent(sender aptos.AccountAddress, payload aptos.TransactionPayload, options ...any) (*aptos.RawTransactionWithData, error) {
	f.sender, f.payload, f.options = sender, payload, options
	if f.err != nil {
		return nil, f.err
	}
	var seq uint64
	for _, opt := range options {
		if v, ok := opt.(aptos.SequenceNumber); ok {
			seq = uint64(v)
		}
	}
	zero := aptos.AccountZero
	return &aptos.RawTransactionWithData{
		Variant: aptos.MultiAgentWithFeePayerRawTransactionWithDataVariant,
		Inner: &aptos.MultiAgentWithFeePayerRawTransactionWithData{
			RawTxn:           rawTxn(sender, payload, seq),
			FeePayer:         &zero,
			SecondarySigners: []aptos.AccountAddress{},
		},
	}, nil
}

func rawTxn(sender aptos.AccountAddress, payload aptos.TransactionPayload, seq uint64) *aptos.RawTransaction {
	return &aptos.RawTransaction{
		Sender:                     sender,
		SequenceNumber:             seq,
		Payload:                    payload,
		MaxGasAmount:               2000,
		GasUnitPrice:               100,
		ExpirationTimestampSeconds: 1_700_000_000,
		ChainId:                    2,
	}
}

func testAccount(t *testing.T, fill byte) *aptos.Account {
	t.Helper()
	account, err := AccountFromSeed(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return account
}

func gaslessTransfer(t *testing.T, sender *aptos.Account) *SimpleTransaction {
	t.Helper()
	recipient, err := ParseAddress("0xb0b")
	require.NoError(t, err)
	tx, err := BuildGaslessTransfer(&fakeBuilder{}, sender.Address, recipient, 100)
	require.NoError(t, err)
	return tx
}

func TestBuildGaslessTransfer(t *testing.T) {
	sender := testAccount(t, 1)
	builder := &fakeBuilder{}
	recipient, err := ParseAddress("0xb0b")
	require.NoError(t, err)

	tx, err := BuildGaslessTransfer(builder, sender.Address, recipient, 100)
	require.NoError(t, err)

	assert.Equal(t, sender.Address, builder.sender)
	assert.Contains(t, builder.options, aptos.FeePayer(&aptos.AccountZero))
	assert.Contains(t, builder.options, aptos.ExpirationSeconds(expirationSeconds))
	assert.Contains(t, builder.options, aptos.SequenceNumber(3))
	assert.Equal(t, uint64(3), tx.RawTxn.SequenceNumber)
	entry, ok := builder.payload.Payload.(*aptos.EntryFunction)
	require.True(t, ok)
	assert.Equal(t, "transfer", entry.Function)
	require.NotNil(t, tx.FeePayer)
	assert.Equal(t, aptos.AccountZero, *tx.FeePayer)
}

func TestBuildGaslessNewAccount(t *testing.T) {
	builder := &fakeBuilder{accountErr: fmt.Errorf("get account info api err: %w", &aptos.HttpError{StatusCode: http.StatusNotFound})}

	tx, err := BuildGaslessTransfer(builder, testAccount(t, 9).Address, aptos.AccountOne, 1)
	require.NoError(t, err)
	assert.Contains(t, builder.options, aptos.SequenceNumber(0))
	assert.Equal(t, uint64(0), tx.RawTxn.SequenceNumber)
}

func TestBuildGaslessAccountLookupError(t *testing.T) {
	builder := &fakeBuilder{accountErr: &aptos.HttpError{StatusCode: http.StatusInternalServerError}}

	_, err := BuildGaslessTransfer(builder, aptos.AccountOne, aptos.AccountOne, 1)
	assert.ErrorContains(t, err, "failed to fetch account")
	assert.Nil(t, builder.options, "nothing is built when the lookup fails")
}

func TestBuildGaslessNewAccountAgainstNode(t *testing.T) {
	var accountLookups int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/accounts/"):
			accountLookups++
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Account not found","error_code":"account_not_found"}`))
		case r.URL.Path == "/v1/estimate_gas_price":
			_, _ = w.Write([]byte(`{"gas_estimate":100}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := aptos.NewClient(aptos.NetworkConfig{Name: "local", NodeUrl: srv.URL + "/v1", ChainId: 4})
	require.NoError(t, err)
	sender := testAccount(t, 9)

	tx, err := BuildGaslessTransfer(client, sender.Address, aptos.AccountOne, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, accountLookups)
	assert.Equal(t, uint64(0), tx.RawTxn.SequenceNumber)
	assert.Equal(t, sender.Address, tx.RawTxn.Sender)
	assert.Equal(t, uint8(4), tx.RawTxn.ChainId)
}

func TestBuildGaslessError(t *testing.T) {
	_, err := BuildGaslessTransfer(&fakeBuilder{err: errors.New("node down")}, aptos.AccountOne, aptos.AccountOne, 1)
	assert.ErrorContains(t, err, "node down")
}

func TestSimpleTransactionRoundTrip(t *testing.T) {
	tx := gaslessTransfer(t, testAccount(t, 1))

	encoded, err := tx.Hex()
	require.NoError(t, err)
	assert.True(t, len(encoded) > 2 && encoded[:2] == "0x")

	decoded, err := ParseSimpleTransaction(encoded)
	require.NoError(t, err)
	assert.Equal(t, tx.RawTxn.Sender, decoded.RawTxn.Sender)
	assert.Equal(t, tx.RawTxn.SequenceNumber, decoded.RawTxn.SequenceNumber)
	require.NotNil(t, decoded.FeePayer)

	again, err := decoded.Hex()
	require.NoError(t, err)
	assert.Equal(t, encoded, again)
}

func TestSimpleTransactionWithoutFeePayer(t *testing.T) {
	tx := &SimpleTransaction{RawTxn: gaslessTransfer(t, testAccount(t, 1)).RawTxn}
	b, err := bcs.Serialize(tx)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b[len(b)-1])

	encoded, err := tx.Hex()
	require.NoError(t, err)
	decoded, err := ParseSimpleTransaction(encoded)
	require.NoError(t, err)
	assert.Nil(t, decoded.FeePayer)
}

func TestParseSimpleTransactionErrors(t *testing.T) {
	_, err := ParseSimpleTransaction("")
	assert.Error(t, err)
	_, err = ParseSimpleTransaction("0xzz")
	assert.Error(t, err)
	_, err = ParseSimpleTransaction("0x0102")
	assert.Error(t, err)

	encoded, err := gaslessTransfer(t, testAccount(t, 1)).Hex()
	require.NoError(t, err)
	_, err = ParseSimpleTransaction(encoded + "00")
	assert.ErrorContains(t, err, "trailing bytes")
}

func TestSignAndAssemble(t *testing.T) {
	sender := testAccount(t, 1)
	sponsor := testAccount(t, 2)
	tx := gaslessTransfer(t, sender)

	senderAuth, err := SignAsSender(tx, sender)
	require.NoError(t, err)

	// what the gas station does on its side
	msg := FeePayerMessage(tx)
	require.True(t, msg.SetFeePayer(sponsor.Address))
	feePayerAuth, err := msg.Sign(sponsor)
	require.NoError(t, err)

	signed, err := Assemble(tx, senderAuth, feePayerAuth, sponsor.Address)
	require.NoError(t, err)
	_, err = bcs.Serialize(signed)
	require.NoError(t, err)

	// the original envelope is left untouched
	assert.Equal(t, aptos.AccountZero, *tx.FeePayer)

	_, err = Assemble(tx, nil, feePayerAuth, sponsor.Address)
	assert.Error(t, err)
}

func TestAuthenticatorHexRoundTrip(t *testing.T) {
	sender := testAccount(t, 1)
	auth, err := SignAsSender(gaslessTransfer(t, sender), sender)
	require.NoError(t, err)

	encoded, err := EncodeAuthenticator(auth)
	require.NoError(t, err)
	decoded, err := DecodeAuthenticator(encoded)
	require.NoError(t, err)
	again, err := EncodeAuthenticator(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, again)

	_, err = DecodeAuthenticator("0x")
	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x1 ")
	require.NoError(t, err)
	assert.Equal(t, aptos.AccountOne, addr)

	_, err = ParseAddress("not-an-address")
	assert.ErrorContains(t, err, "invalid address")
}

func TestAccountFromSeedDeterministic(t *testing.T) {
	assert.Equal(t, testAccount(t, 5).Address, testAccount(t, 5).Address)
	assert.NotEqual(t, testAccount(t, 5).Address, testAccount(t, 6).Address)

	_, err := AccountFromSeed([]byte{1})
	assert.Error(t, err)
}
