package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/stellar-txkit/internal/horizon"
	"github.com/stellar-txkit/internal/sep10"
)

// AccountSigners looks up the signers and medium threshold of an account.
// *horizon.AccountLoader implements it.
type AccountSigners interface {
	Signers(ctx context.Context, accountID string) ([]horizon.Signer, int32, error)
}

// HorizonSigners adapts a Horizon account lookup to sep10.SignerSource.
func HorizonSigners(accounts AccountSigners) sep10.SignerSource {
	return sep10.SignerSourceFunc(func(ctx context.Context, account string) ([]sep10.Signer, int32, error) {
		found, threshold, err := accounts.Signers(ctx, account)
		if errors.Is(err, horizon.ErrAccountNotFound) {
			return nil, 0, sep10.ErrAccountNotFound
		}
		if err != nil {
			return nil, 0, err
		}
		signers := make([]sep10.Signer, len(found))
		for i, s := range found {
			signers[i] = sep10.Signer{Key: s.Key, Weight: s.Weight}
		}
		return signers, threshold, nil
	})
}

// ChallengeHandler issues SEP-10 challenge transactions.
type ChallengeHandler struct {
	server            *sep10.Server
	networkPassphrase string
}

func NewChallengeHandler(server *sep10.Server, networkPassphrase string) *ChallengeHandler {
	return &ChallengeHandler{server: server, networkPassphrase: networkPassphrase}
}

type ChallengeRequest struct {
	Account string  `json:"account"`
	Memo    *uint64 `json:"memo,omitempty"`
}

type ChallengeResponse struct {
	ChallengeID       string `json:"challenge_id"`
	Transaction       string `json:"transaction"`
	NetworkPassphrase string `json:"network_passphrase"`
}

func (h *ChallengeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if !decode(w, r, &req) || !required(w, "account", req.Account) {
		return
	}
	id, envelope, err := h.server.Challenge(r.Context(), req.Account, req.Memo)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, ChallengeResponse{
		ChallengeID:       id,
		Transaction:       envelope,
		NetworkPassphrase: h.networkPassphrase,
	})
}

// VerifyHandler checks signed challenges. Each challenge id verifies once.
type VerifyHandler struct {
	server *sep10.Server
}

func NewVerifyHandler(server *sep10.Server) *VerifyHandler {
	return &VerifyHandler{server: server}
}

type VerifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Transaction string `json:"transaction"`
}

type VerifyResponse struct {
	Account string   `json:"account"`
	Signers []string `json:"signers"`
}

func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decode(w, r, &req) || !required(w, "challenge_id", req.ChallengeID) || !required(w, "transaction", req.Transaction) {
		return
	}
	account, signers, err := h.server.Verify(r.Context(), req.ChallengeID, req.Transaction)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, VerifyResponse{Account: account, Signers: signers})
}
