package handler

import (
	"net/http"

	"github.com/stellar-txkit/internal/strkey"
)

type StrKeyDecodeHandler struct{}

type StrKeyDecodeRequest struct {
	StrKey string `json:"strkey"`
}

func (StrKeyDecodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req StrKeyDecodeRequest
	if !decode(w, r, &req) || !required(w, "strkey", req.StrKey) {
		return
	}
	d, err := strkey.Describe(req.StrKey)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, d)
}
