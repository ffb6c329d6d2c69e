package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/sep7"
	"github.com/stellar-txkit/internal/txrep"
)

// URIParseHandler validates SEP-7 request URIs and optionally checks their
// signature against the origin domain's stellar.toml.
type URIParseHandler struct {
	resolver sep7.TOMLResolver
}

func NewURIParseHandler(resolver sep7.TOMLResolver) *URIParseHandler {
	return &URIParseHandler{resolver: resolver}
}

type URIParseRequest struct {
	URI          string `json:"uri"`
	VerifyOrigin bool   `json:"verify_origin,omitempty"`
}

type URIParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type URIParseResponse struct {
	Operation      string     `json:"operation"`
	Params         []URIParam `json:"params"`
	Signed         bool       `json:"signed"`
	OriginVerified bool       `json:"origin_verified"`
	// TxRep renders the xdr parameter of tx requests.
	TxRep string `json:"txrep,omitempty"`
}

func (h *URIParseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req URIParseRequest
	if !decode(w, r, &req) || !required(w, "uri", req.URI) {
		return
	}
	u, err := sep7.Parse(req.URI)
	if err != nil {
		RespondErr(w, r, err)
		return
	}

	resp := URIParseResponse{
		Operation: u.Operation,
		Params:    make([]URIParam, 0, len(u.Keys())),
		Signed:    u.Has(sep7.ParamSignature),
	}
	for _, k := range u.Keys() {
		resp.Params = append(resp.Params, URIParam{Key: k, Value: u.Get(k)})
	}
	if u.Operation == sep7.OperationTx {
		if resp.TxRep, err = txrep.FromBase64(u.Get(sep7.ParamXDR)); err != nil {
			RespondErr(w, r, err)
			return
		}
	}

	if req.VerifyOrigin {
		if h.resolver == nil {
			RespondError(w, http.StatusBadRequest, "invalid_request", "origin verification is not available")
			return
		}
		if err := u.VerifyOrigin(r.Context(), h.resolver); err != nil {
			if sdkerr.KindOf(err) == sdkerr.KindUnknown {
				log.Warn().Err(err).Str("origin_domain", u.Get(sep7.ParamOriginDomain)).Msg("origin lookup failed")
				RespondError(w, http.StatusBadGateway, "origin_unreachable", err.Error())
				return
			}
			RespondErr(w, r, err)
			return
		}
		resp.OriginVerified = true
	}
	RespondJSON(w, http.StatusOK, resp)
}

// URISignHandler signs request URIs on behalf of the server's home domain.
type URISignHandler struct {
	key          *keypair.Full
	originDomain string
}

func NewURISignHandler(key *keypair.Full, originDomain string) *URISignHandler {
	return &URISignHandler{key: key, originDomain: originDomain}
}

type URISignRequest struct {
	URI string `json:"uri"`
}

type URISignResponse struct {
	URI string `json:"uri"`
}

func (h *URISignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req URISignRequest
	if !decode(w, r, &req) || !required(w, "uri", req.URI) {
		return
	}
	u, err := sep7.Parse(req.URI)
	if err != nil {
		RespondErr(w, r, err)
		return
	}
	if err := u.Sign(h.key, h.originDomain); err != nil {
		RespondErr(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, URISignResponse{URI: u.String()})
}
