package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stellar-txkit/internal/middleware"
	"github.com/stellar-txkit/internal/signing"
)

// SignHandler adds the server key's signature to submitted envelopes.
type SignHandler struct {
	signer            *signing.Signer
	networkPassphrase string
}

func NewSignHandler(signer *signing.Signer, networkPassphrase string) *SignHandler {
	return &SignHandler{
		signer:            signer,
		networkPassphrase: networkPassphrase,
	}
}

type SignRequest struct {
	TransactionXDR    string `json:"transaction_xdr"`
	NetworkPassphrase string `json:"network_passphrase"`
}

type SignResponse struct {
	SignedTransactionXDR string `json:"signed_transaction_xdr"`
	Hash                 string `json:"hash"`
	SignerPublicKey      string `json:"signer_public_key"`
}

func (h *SignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if !decode(w, r, &req) {
		return
	}
	if !required(w, "transaction_xdr", req.TransactionXDR) || !required(w, "network_passphrase", req.NetworkPassphrase) {
		return
	}
	if req.NetworkPassphrase != h.networkPassphrase {
		RespondError(w, http.StatusBadRequest, "invalid_network", "network_passphrase does not match the configured network")
		return
	}

	signed, hash, err := h.signer.Sign(req.TransactionXDR)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	log.Info().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("hash", hash).
		Msg("signed transaction")

	RespondJSON(w, http.StatusOK, SignResponse{
		SignedTransactionXDR: signed,
		Hash:                 hash,
		SignerPublicKey:      h.signer.PublicKey(),
	})
}
