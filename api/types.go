package api

import (
	"encoding/json"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// Fund is a gas station fund as reported by gas_getFund. Amounts are in the
// chain's smallest unit (octas or MIST).
type Fund struct {
	Network        string `json:"network"`
	Name           string `json:"name"`
	Balance        uint64 `json:"balance"`
	InFlight       uint64 `json:"inFlight"`
	DepositAddress string `json:"depositAddress"`
}

// Available is the part of the balance not reserved by in-flight sponsorships.
func (f Fund) Available() uint64 {
	if f.InFlight > f.Balance {
		return 0
	}
	return f.Balance - f.InFlight
}

// AptosSponsorResult is the gas station's co-signature on an Aptos or
// Movement simple transaction.
type AptosSponsorResult struct {
	// SignatureHex is the BCS-encoded fee payer AccountAuthenticator.
	SignatureHex string `json:"signatureHex"`
	FeePayer     struct {
		Address string `json:"address"`
	} `json:"feePayer"`
}

// AptosPendingTransaction is a transaction accepted by the node's mempool.
type AptosPendingTransaction struct {
	Hash           string `json:"hash"`
	Sender         string `json:"sender"`
	SequenceNumber string `json:"sequence_number"`
}

type aptosSubmitResult struct {
	PendingTransaction AptosPendingTransaction `json:"pendingTransaction"`
}

// SuiSponsoredTransaction is full transaction data built and signed by the
// gas station around a gasless transaction kind.
type SuiSponsoredTransaction struct {
	TxBytes          string `json:"txBytes"`
	TxDigest         string `json:"txDigest"`
	Signature        string `json:"signature"`
	ExpireAtTime     int64  `json:"expireAtTime"`
	ExpireAfterEpoch int64  `json:"expireAfterEpoch"`
}

// SuiExecutionStatus is the effects status of an executed transaction.
type SuiExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SuiTransactionResponse is the subset of a Sui transaction block response
// gasline reads.
type SuiTransactionResponse struct {
	Digest     string      `json:"digest"`
	Effects    *SuiEffects `json:"effects,omitempty"`
	Checkpoint string      `json:"checkpoint,omitempty"`
}

// SuiEffects is the part of transaction effects gasline reports.
type SuiEffects struct {
	Status  SuiExecutionStatus `json:"status"`
	GasUsed SuiGasCostSummary  `json:"gasUsed"`
}

// SuiGasCostSummary breaks down gas charged, in MIST.
type SuiGasCostSummary struct {
	ComputationCost string `json:"computationCost"`
	StorageCost     string `json:"storageCost"`
	StorageRebate   string `json:"storageRebate"`
}

// Succeeded reports whether the effects say the transaction executed.
func (r *SuiTransactionResponse) Succeeded() bool {
	return r != nil && r.Effects != nil && r.Effects.Status.Status == "success"
}

// SuiBalance is a suix_getBalance result.
type SuiBalance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

// SuiSignResult is an invisible wallet's signature over transaction bytes.
type SuiSignResult struct {
	Signature string `json:"signature"`
	TxDigest  string `json:"txDigest"`
}

// ZkLoginWallet is the salt and address bound to an OAuth identity.
type ZkLoginWallet struct {
	UserID struct {
		Iss           string `json:"iss"`
		Aud           string `json:"aud"`
		KeyClaimName  string `json:"keyClaimName"`
		KeyClaimValue string `json:"keyClaimValue"`
	} `json:"userId"`
	Salt    string `json:"salt"`
	Address string `json:"address"`
}

// ZkLoginProofRequest carries the inputs the prover needs.
type ZkLoginProofRequest struct {
	JWT                        string `json:"jwt"`
	MaxEpoch                   uint64 `json:"maxEpoch"`
	ExtendedEphemeralPublicKey string `json:"extendedEphemeralPublicKey"`
	JWTRandomness              string `json:"jwtRandomness"`
	Salt                       string `json:"salt"`
}

// ZkLoginProof wraps the prover output. The proof itself is opaque to gasline
// and is passed through to whoever assembles the zkLogin signature.
type ZkLoginProof struct {
	ZkProof json.RawMessage `json:"zkProof"`
}
