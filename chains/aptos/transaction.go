package aptos

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
)

// expirationSeconds is how long a gasless transaction stays valid. The gas
// station refuses transactions that expire more than an hour out.
const expirationSeconds = 300

// Builder builds raw transactions against a full node. *aptos.Client
// satisfies it.
type Builder interface {
	Account(address aptos.AccountAddress, ledgerVersion ...uint64) (aptos.AccountInfo, error)
	BuildTransactionMultiAgent(sender aptos.AccountAddress, payload aptos.TransactionPayload, options ...any) (*aptos.RawTransactionWithData, error)
}

// SimpleTransaction is a raw transaction plus an optional fee payer, the
// envelope the gas station sponsors.
type SimpleTransaction struct {
	RawTxn   *aptos.RawTransaction
	FeePayer *aptos.AccountAddress
}

func (t *SimpleTransaction) MarshalBCS(ser *bcs.Serializer) {
	t.RawTxn.MarshalBCS(ser)
	if t.FeePayer == nil {
		ser.Bool(false)
		return
	}
	ser.Bool(true)
	t.FeePayer.MarshalBCS(ser)
}

func (t *SimpleTransaction) UnmarshalBCS(des *bcs.Deserializer) {
	t.RawTxn = &aptos.RawTransaction{}
	t.RawTxn.UnmarshalBCS(des)
	t.FeePayer = nil
	if des.Bool() {
		t.FeePayer = &aptos.AccountAddress{}
		t.FeePayer.UnmarshalBCS(des)
	}
}

// Hex returns the 0x-prefixed BCS encoding.
func (t *SimpleTransaction) Hex() (string, error) {
	b, err := bcs.Serialize(t)
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}

// ParseSimpleTransaction decodes a hex BCS simple transaction.
func ParseSimpleTransaction(s string) (*SimpleTransaction, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	des := bcs.NewDeserializer(b)
	tx := &SimpleTransaction{}
	tx.UnmarshalBCS(des)
	if err := des.Error(); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	if des.Remaining() != 0 {
		return nil, fmt.Errorf("invalid transaction: %d trailing bytes", des.Remaining())
	}
	return tx, nil
}

// TransferEntryFunction is 0x1::aptos_account::transfer to recipient.
func TransferEntryFunction(recipient aptos.AccountAddress, amount uint64) (*aptos.EntryFunction, error) {
	entry, err := aptos.CoinTransferPayload(nil, recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer payload: %w", err)
	}
	return entry, nil
}

// BuildGaslessEntryFunction builds a fee payer transaction for entry with a
// 0x0 placeholder fee payer for the gas station to fill in.
func BuildGaslessEntryFunction(b Builder, sender aptos.AccountAddress, entry *aptos.EntryFunction) (*SimpleTransaction, error) {
	seq, err := SequenceNumber(b, sender)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	raw, err := b.BuildTransactionMultiAgent(
		sender,
		aptos.TransactionPayload{Payload: entry},
		aptos.FeePayer(&aptos.AccountZero),
		aptos.ExpirationSeconds(expirationSeconds),
		aptos.SequenceNumber(seq),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	inner, ok := raw.Inner.(*aptos.MultiAgentWithFeePayerRawTransactionWithData)
	if !ok {
		return nil, fmt.Errorf("failed to build transaction: not a fee payer transaction")
	}
	return &SimpleTransaction{RawTxn: inner.RawTxn, FeePayer: inner.FeePayer}, nil
}

// SequenceNumber returns the next sequence number of sender. An address with
// no account on chain starts at 0; its first fee payer transaction creates it.
func SequenceNumber(b Builder, sender aptos.AccountAddress) (uint64, error) {
	info, err := b.Account(sender)
	if err != nil {
		if IsAccountNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch account: %w", err)
	}
	seq, err := info.SequenceNumber()
	if err != nil {
		return 0, fmt.Errorf("failed to read sequence number: %w", err)
	}
	return seq, nil
}

// IsAccountNotFound reports whether err is the node's 404 for an account
// lookup.
func IsAccountNotFound(err error) bool {
	var httpErr *aptos.HttpError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// BuildGaslessTransfer builds a gasless APT (or MOVE) transfer.
func BuildGaslessTransfer(b Builder, sender, recipient aptos.AccountAddress, amount uint64) (*SimpleTransaction, error) {
	entry, err := TransferEntryFunction(recipient, amount)
	if err != nil {
		return nil, err
	}
	return BuildGaslessEntryFunction(b, sender, entry)
}

// FeePayerMessage is the signing view of tx: a fee payer transaction with no
// secondary signers.
func FeePayerMessage(tx *SimpleTransaction) *aptos.RawTransactionWithData {
	feePayer := aptos.AccountZero
	if tx.FeePayer != nil {
		feePayer = *tx.FeePayer
	}
	return &aptos.RawTransactionWithData{
		Variant: aptos.MultiAgentWithFeePayerRawTransactionWithDataVariant,
		Inner: &aptos.MultiAgentWithFeePayerRawTransactionWithData{
			RawTxn:           tx.RawTxn,
			FeePayer:         &feePayer,
			SecondarySigners: []aptos.AccountAddress{},
		},
	}
}

// SignAsSender signs tx as its sender. The fee payer is not known yet, so the
// signature covers the 0x0 placeholder.
func SignAsSender(tx *SimpleTransaction, signer crypto.Signer) (*crypto.AccountAuthenticator, error) {
	auth, err := FeePayerMessage(&SimpleTransaction{RawTxn: tx.RawTxn}).Sign(signer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return auth, nil
}

// Assemble joins the sender and fee payer signatures into a transaction the
// node accepts.
func Assemble(tx *SimpleTransaction, senderAuth, feePayerAuth *crypto.AccountAuthenticator, feePayer aptos.AccountAddress) (*aptos.SignedTransaction, error) {
	if senderAuth == nil || feePayerAuth == nil {
		return nil, fmt.Errorf("failed to assemble transaction: missing authenticator")
	}
	msg := FeePayerMessage(tx)
	if !msg.SetFeePayer(feePayer) {
		return nil, fmt.Errorf("failed to assemble transaction: cannot set fee payer")
	}
	signed, ok := msg.ToFeePayerSignedTransaction(senderAuth, feePayerAuth, []crypto.AccountAuthenticator{})
	if !ok {
		return nil, fmt.Errorf("failed to assemble transaction: not a fee payer transaction")
	}
	return signed, nil
}

// EncodeAuthenticator returns the 0x-prefixed BCS encoding of auth.
func EncodeAuthenticator(auth *crypto.AccountAuthenticator) (string, error) {
	b, err := bcs.Serialize(auth)
	if err != nil {
		return "", fmt.Errorf("failed to serialize authenticator: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}

// DecodeAuthenticator parses a hex BCS account authenticator.
func DecodeAuthenticator(s string) (*crypto.AccountAuthenticator, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid authenticator: %w", err)
	}
	des := bcs.NewDeserializer(b)
	auth := &crypto.AccountAuthenticator{}
	auth.UnmarshalBCS(des)
	if err := des.Error(); err != nil {
		return nil, fmt.Errorf("invalid authenticator: %w", err)
	}
	if des.Remaining() != 0 {
		return nil, fmt.Errorf("invalid authenticator: %d trailing bytes", des.Remaining())
	}
	return auth, nil
}

// ParseAddress accepts short and long hex addresses.
func ParseAddress(s string) (aptos.AccountAddress, error) {
	var addr aptos.AccountAddress
	if err := addr.ParseStringRelaxed(strings.TrimSpace(s)); err != nil {
		return addr, fmt.Errorf("invalid address %q (expected 0x followed by up to 64 hex characters): %w", s, err)
	}
	return addr, nil
}

// AccountFromSeed builds an Ed25519 account from a 32-byte private key seed.
func AccountFromSeed(seed []byte) (*aptos.Account, error) {
	key := &crypto.Ed25519PrivateKey{}
	if err := key.FromBytes(seed); err != nil {
		return nil, fmt.Errorf("invalid ed25519 key: %w", err)
	}
	account, err := aptos.NewAccountFromSigner(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, fmt.Errorf("empty hex string")
	}
	return hex.DecodeString(s)
}
