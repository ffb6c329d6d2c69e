package handler

import (
	"net/http"

	"github.com/stellar-txkit/internal/signing"
)

type InspectHandler struct {
	inspector *signing.Inspector
}

func NewInspectHandler(inspector *signing.Inspector) *InspectHandler {
	return &InspectHandler{inspector: inspector}
}

type InspectRequest struct {
	TransactionXDR string `json:"transaction_xdr"`
	// Signers are extra addresses to match signatures against.
	Signers []string `json:"signers,omitempty"`
}

func (h *InspectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req InspectRequest
	if !decode(w, r, &req) || !required(w, "transaction_xdr", req.TransactionXDR) {
		return
	}
	summary, err := h.inspector.Inspect(req.TransactionXDR, req.Signers...)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, summary)
}
