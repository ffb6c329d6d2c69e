package handler

import (
	"encoding/hex"
	"net/http"

	"github.com/stellar/go-stellar-sdk/amount"

	"github.com/stellar-txkit/internal/horizon"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/signing"
)

// InfoHandler describes the network and the optional features this server
// was started with.
type InfoHandler struct {
	resp InfoResponse
}

type InfoResponse struct {
	NetworkPassphrase   string   `json:"network_passphrase"`
	NetworkID           string   `json:"network_id"`
	BaseReserve         string   `json:"base_reserve"`
	SupportedOperations []string `json:"supported_operations"`
	SigningKey          string   `json:"signing_key,omitempty"`
	WebAuthDomain       string   `json:"web_auth_domain,omitempty"`
}

func NewInfoHandler(n network.Network, signingKey, webAuthDomain string) *InfoHandler {
	id := n.ID()
	return &InfoHandler{resp: InfoResponse{
		NetworkPassphrase:   n.Passphrase(),
		NetworkID:           hex.EncodeToString(id[:]),
		BaseReserve:         amount.StringFromInt64(horizon.BaseReserveStroops),
		SupportedOperations: signing.OperationNames(),
		SigningKey:          signingKey,
		WebAuthDomain:       webAuthDomain,
	}}
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.resp)
}
