package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/chinmay1088/gasline/api"
	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/chains/sui"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/flows"
)

type buildAndSponsorRequest struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"gt=0"`
}

type sponsoredResponse struct {
	Transaction           string `json:"transaction,omitempty"`
	FeePayerAuthenticator string `json:"feePayerAuthenticator"`
	FeePayerAddress       string `json:"feePayerAddress"`
}

func (s *Server) buildAndSponsorTx(w http.ResponseWriter, r *http.Request) error {
	var req buildAndSponsorRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	sender, err := aptos.ParseAddress(req.Sender)
	if err != nil {
		return invalid("sender: %v", err)
	}
	recipient, err := aptos.ParseAddress(req.Recipient)
	if err != nil {
		return invalid("recipient: %v", err)
	}
	entry, err := aptos.TransferEntryFunction(recipient, req.Amount)
	if err != nil {
		return invalid("%v", err)
	}

	res, err := flows.BuildAndSponsorAptos(r.Context(), s.deps.Aptos, sender, entry)
	if err != nil {
		return clientError(err)
	}
	writeJSON(w, http.StatusOK, sponsoredResponse{
		Transaction:           res.TransactionHex,
		FeePayerAuthenticator: res.FeePayerAuthenticatorHex,
		FeePayerAddress:       res.FeePayerAddress,
	})
	return nil
}

type sponsorRequest struct {
	Transaction string `json:"transaction" validate:"required,hexadecimal"`
}

func (s *Server) sponsorTx(w http.ResponseWriter, r *http.Request) error {
	var req sponsorRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	res, err := flows.SponsorAptos(r.Context(), s.deps.Aptos, req.Transaction)
	if err != nil {
		return clientError(err)
	}
	writeJSON(w, http.StatusOK, sponsoredResponse{
		FeePayerAuthenticator: res.FeePayerAuthenticatorHex,
		FeePayerAddress:       res.FeePayerAddress,
	})
	return nil
}

type sponsorAndSubmitRequest struct {
	Transaction         string `json:"transaction" validate:"required"`
	SenderAuthenticator string `json:"senderAuthenticator" validate:"required"`
}

type pendingResponse struct {
	PendingTx *api.AptosPendingTransaction `json:"pendingTx"`
}

func (s *Server) sponsorAndSubmitTx(w http.ResponseWriter, r *http.Request) error {
	var req sponsorAndSubmitRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	pending, err := flows.SponsorAndSubmitSignedAptos(r.Context(), s.deps.Aptos, req.Transaction, req.SenderAuthenticator)
	if err != nil {
		return clientError(err)
	}
	writeJSON(w, http.StatusOK, pendingResponse{PendingTx: pending})
	return nil
}

type invisibleWalletRequest struct {
	WalletID  string `json:"walletId" validate:"required,max=128"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"gt=0"`
}

type invisibleWalletResponse struct {
	WalletAddress string `json:"walletAddress"`
	Hash          string `json:"hash"`
}

func (s *Server) invisibleWalletTx(w http.ResponseWriter, r *http.Request) error {
	if s.deps.Aptos.Chain != config.ChainAptos {
		return invalid("invisible wallets are not available on %s", s.deps.Aptos.Chain)
	}
	var req invisibleWalletRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	recipient, err := aptos.ParseAddress(req.Recipient)
	if err != nil {
		return invalid("recipient: %v", err)
	}
	res, err := flows.AptosInvisibleWalletTransfer(r.Context(), s.deps.Aptos.Node, s.deps.AptosWallets,
		req.WalletID, s.deps.WalletSecret, recipient, req.Amount)
	if err != nil {
		return clientError(err)
	}
	writeJSON(w, http.StatusOK, invisibleWalletResponse{WalletAddress: res.WalletAddress, Hash: res.Hash})
	return nil
}

type suiSponsorRequest struct {
	TxKind    string `json:"txKind" validate:"required,base64"`
	Sender    string `json:"sender" validate:"required"`
	GasBudget uint64 `json:"gasBudget"`
}

func (s *Server) suiSponsorTx(w http.ResponseWriter, r *http.Request) error {
	var req suiSponsorRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	res, err := flows.SponsorSui(r.Context(), s.deps.Sui, req.TxKind, req.Sender, req.GasBudget)
	if err != nil {
		return clientError(err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

type suiExecuteRequest struct {
	TxBytes    string   `json:"txBytes" validate:"required,base64"`
	Signatures []string `json:"signatures" validate:"required,min=1,max=2,dive,base64"`
}

type suiExecuteResponse struct {
	Digest string `json:"digest"`
	Status string `json:"status"`
}

func (s *Server) suiExecuteTx(w http.ResponseWriter, r *http.Request) error {
	var req suiExecuteRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	res, err := flows.ExecuteSui(r.Context(), s.deps.Sui, req.TxBytes, req.Signatures)
	if err != nil {
		// a failed execution still has a digest worth returning
		if res != nil && res.Digest != "" {
			writeJSON(w, http.StatusOK, suiExecuteResponse{Digest: res.Digest, Status: res.Status})
			return nil
		}
		return clientError(err)
	}
	writeJSON(w, http.StatusOK, suiExecuteResponse{Digest: res.Digest, Status: res.Status})
	return nil
}

type zkLoginSaltRequest struct {
	JWT string `json:"jwt" validate:"required,jwt"`
}

type zkLoginSaltResponse struct {
	Salt    string `json:"salt"`
	Address string `json:"address"`
}

func (s *Server) zkLoginSalt(w http.ResponseWriter, r *http.Request) error {
	var req zkLoginSaltRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if _, err := sui.ParseIDToken(req.JWT); err != nil {
		return invalid("%v", err)
	}
	wallet, err := s.deps.ZkLogin.GetOrCreateZkLoginWallet(r.Context(), req.JWT)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, zkLoginSaltResponse{Salt: wallet.Salt, Address: wallet.Address})
	return nil
}

type zkLoginProofRequest struct {
	JWT                        string `json:"jwt" validate:"required,jwt"`
	MaxEpoch                   uint64 `json:"maxEpoch" validate:"gt=0"`
	ExtendedEphemeralPublicKey string `json:"extendedEphemeralPublicKey" validate:"required,base64|numeric"`
	JWTRandomness              string `json:"jwtRandomness" validate:"required,numeric"`
	Salt                       string `json:"salt" validate:"required,numeric"`
}

type zkLoginProofResponse struct {
	ZkProof json.RawMessage `json:"zkProof"`
}

func (s *Server) zkLoginProof(w http.ResponseWriter, r *http.Request) error {
	var req zkLoginProofRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	token, err := sui.ParseIDToken(req.JWT)
	if err != nil {
		return invalid("%v", err)
	}
	extended, err := sui.ParseExtendedEphemeralPublicKey(req.ExtendedEphemeralPublicKey)
	if err != nil {
		return invalid("%v", err)
	}
	nonce, err := sui.NonceFromExtendedKey(extended, req.MaxEpoch, req.JWTRandomness)
	if err != nil {
		return invalid("%v", err)
	}
	if token.Nonce != nonce {
		return invalid("id token nonce does not match extendedEphemeralPublicKey, maxEpoch and jwtRandomness")
	}
	proof, err := s.deps.ZkLogin.CreateZkLoginProof(r.Context(), api.ZkLoginProofRequest{
		JWT:                        req.JWT,
		MaxEpoch:                   req.MaxEpoch,
		ExtendedEphemeralPublicKey: base64.StdEncoding.EncodeToString(extended),
		JWTRandomness:              req.JWTRandomness,
		Salt:                       req.Salt,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, zkLoginProofResponse{ZkProof: proof.ZkProof})
	return nil
}
