package handler

import (
	"net/http"

	"github.com/stellar-txkit/internal/txrep"
)

// TxRepEncodeHandler renders a base64 envelope as txrep.
type TxRepEncodeHandler struct{}

type TxRepEncodeRequest struct {
	TransactionXDR string `json:"transaction_xdr"`
}

type TxRepResponse struct {
	TxRep string `json:"txrep"`
}

func (TxRepEncodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TxRepEncodeRequest
	if !decode(w, r, &req) || !required(w, "transaction_xdr", req.TransactionXDR) {
		return
	}
	text, err := txrep.FromBase64(req.TransactionXDR)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, TxRepResponse{TxRep: text})
}

// TxRepDecodeHandler parses txrep back into a base64 envelope.
type TxRepDecodeHandler struct{}

type TxRepDecodeRequest struct {
	TxRep string `json:"txrep"`
}

type TransactionResponse struct {
	TransactionXDR string `json:"transaction_xdr"`
}

func (TxRepDecodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TxRepDecodeRequest
	if !decode(w, r, &req) || !required(w, "txrep", req.TxRep) {
		return
	}
	b64, err := txrep.ToBase64(req.TxRep)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, TransactionResponse{TransactionXDR: b64})
}
