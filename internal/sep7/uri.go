// Package sep7 builds, parses and signs web+stellar: URIs (SEP-0007).
package sep7

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/stellar/go-stellar-sdk/amount"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/stellartoml"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/xdr"
)

const (
	Scheme = "web+stellar:"

	OperationTx  = "tx"
	OperationPay = "pay"

	maxMessageLength = 300
	maxChainDepth    = 7
	signaturePrefix  = "stellar.sep.7 - URI Scheme"
)

// Parameter names.
const (
	ParamXDR               = "xdr"
	ParamReplace           = "replace"
	ParamCallback          = "callback"
	ParamPubkey            = "pubkey"
	ParamChain             = "chain"
	ParamDestination       = "destination"
	ParamAmount            = "amount"
	ParamAssetCode         = "asset_code"
	ParamAssetIssuer       = "asset_issuer"
	ParamMemo              = "memo"
	ParamMemoType          = "memo_type"
	ParamMessage           = "msg"
	ParamNetworkPassphrase = "network_passphrase"
	ParamOriginDomain      = "origin_domain"
	ParamSignature         = "signature"
)

var (
	ErrInvalidURI   = sdkerr.New(sdkerr.KindDecode, "sep7_invalid_uri", "not a web+stellar URI")
	ErrInvalidParam = sdkerr.New(sdkerr.KindValidation, "sep7_invalid_param", "invalid URI parameter")
	ErrMissingParam = sdkerr.New(sdkerr.KindValidation, "sep7_missing_param", "required URI parameter missing")
	ErrSignature    = sdkerr.New(sdkerr.KindCrypto, "sep7_signature", "URI signature does not verify")
	ErrNotSigned    = sdkerr.New(sdkerr.KindValidation, "sep7_not_signed", "URI carries no signature")
)

type param struct {
	key, value string
}

// URI is a SEP-7 request. Parameters keep their order so that a parsed URI
// prints back to the string its signature covers.
type URI struct {
	Operation string

	params []param
	// raw is the parsed text; cleared by any change.
	raw string
}

// NewTx returns a tx request for a base64 transaction envelope.
func NewTx(envelope string) *URI {
	return (&URI{Operation: OperationTx}).Set(ParamXDR, envelope)
}

// NewPay returns a pay request to destination.
func NewPay(destination string) *URI {
	return (&URI{Operation: OperationPay}).Set(ParamDestination, destination)
}

// Set replaces the value of key, or appends it. The signature always stays
// last.
func (u *URI) Set(key, value string) *URI {
	u.raw = ""
	for i := range u.params {
		if u.params[i].key == key {
			u.params[i].value = value
			return u
		}
	}
	u.params = append(u.params, param{key, value})
	if n := len(u.params); key != ParamSignature && n > 1 && u.params[n-2].key == ParamSignature {
		u.params[n-2], u.params[n-1] = u.params[n-1], u.params[n-2]
	}
	return u
}

// Get returns the value of key or "".
func (u *URI) Get(key string) string {
	for _, p := range u.params {
		if p.key == key {
			return p.value
		}
	}
	return ""
}

func (u *URI) Has(key string) bool {
	for _, p := range u.params {
		if p.key == key {
			return true
		}
	}
	return false
}

// Delete removes key.
func (u *URI) Delete(key string) *URI {
	out := u.params[:0]
	for _, p := range u.params {
		if p.key != key {
			out = append(out, p)
		}
	}
	u.params = out
	u.raw = ""
	return u
}

// Keys lists the parameter names in order.
func (u *URI) Keys() []string {
	keys := make([]string, len(u.params))
	for i, p := range u.params {
		keys[i] = p.key
	}
	return keys
}

func (u *URI) String() string {
	if u.raw != "" {
		return u.raw
	}
	return u.encode(true)
}

func (u *URI) encode(withSignature bool) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(u.Operation)
	sep := byte('?')
	for _, p := range u.params {
		if p.key == ParamSignature && !withSignature {
			continue
		}
		b.WriteByte(sep)
		sep = '&'
		b.WriteString(escape(p.key))
		b.WriteByte('=')
		b.WriteString(escape(p.value))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Parse reads and validates a SEP-7 URI.
func Parse(s string) (*URI, error) {
	return parse(s, 0)
}

func parse(s string, depth int) (*URI, error) {
	if !strings.HasPrefix(s, Scheme) {
		return nil, ErrInvalidURI.Withf("missing %q prefix", Scheme)
	}
	rest := strings.TrimPrefix(s, Scheme)
	op, query, _ := strings.Cut(rest, "?")
	if op != OperationTx && op != OperationPay {
		return nil, ErrInvalidURI.Withf("unsupported operation %q", op)
	}

	u := &URI{Operation: op}
	seen := make(map[string]bool)
	if query != "" {
		for _, pair := range strings.Split(query, "&") {
			k, v, _ := strings.Cut(pair, "=")
			key, err := url.QueryUnescape(k)
			if err != nil {
				return nil, ErrInvalidURI.Withf("parameter %q: %v", k, err)
			}
			value, err := url.QueryUnescape(v)
			if err != nil {
				return nil, ErrInvalidURI.Withf("parameter %q: %v", key, err)
			}
			if seen[key] {
				return nil, ErrInvalidParam.Withf("parameter %q repeated", key)
			}
			seen[key] = true
			u.params = append(u.params, param{key, value})
		}
	}
	if err := u.validate(depth); err != nil {
		return nil, err
	}
	u.raw = s
	return u, nil
}

// Validate checks the parameters of the request.
func (u *URI) Validate() error {
	return u.validate(0)
}

func (u *URI) validate(depth int) error {
	switch u.Operation {
	case OperationTx:
		if err := u.validateTx(depth); err != nil {
			return err
		}
	case OperationPay:
		if err := u.validatePay(); err != nil {
			return err
		}
	default:
		return ErrInvalidURI.Withf("unsupported operation %q", u.Operation)
	}

	if cb := u.Get(ParamCallback); cb != "" {
		if !strings.HasPrefix(cb, "url:") {
			return ErrInvalidParam.Withf("callback %q must start with url:", cb)
		}
	}
	if msg := u.Get(ParamMessage); len(msg) > maxMessageLength {
		return ErrInvalidParam.Withf("msg is %d characters, at most %d allowed", len(msg), maxMessageLength)
	}
	if u.Has(ParamOriginDomain) {
		domain := u.Get(ParamOriginDomain)
		if domain == "" || strings.ContainsAny(domain, "/:?# ") {
			return ErrInvalidParam.Withf("origin_domain %q is not a fully qualified domain name", domain)
		}
		if !u.Has(ParamSignature) {
			return ErrMissingParam.Withf("origin_domain requires signature")
		}
	}
	if u.Has(ParamSignature) {
		if _, err := base64.StdEncoding.DecodeString(u.Get(ParamSignature)); err != nil {
			return ErrInvalidParam.Withf("signature is not base64")
		}
	}
	return nil
}

func (u *URI) validateTx(depth int) error {
	if !u.Has(ParamXDR) {
		return ErrMissingParam.Withf("tx requires xdr")
	}
	if _, err := u.Envelope(); err != nil {
		return err
	}
	if pk := u.Get(ParamPubkey); pk != "" && !strkey.IsValidEd25519PublicKey(pk) {
		return ErrInvalidParam.Withf("pubkey %q is not an account id", pk)
	}
	if chain := u.Get(ParamChain); chain != "" {
		if depth+1 > maxChainDepth {
			return ErrInvalidParam.Withf("chain nests deeper than %d", maxChainDepth)
		}
		if _, err := parse(chain, depth+1); err != nil {
			return ErrInvalidParam.Withf("chain: %v", err)
		}
	}
	if r := u.Get(ParamReplace); r != "" {
		if _, err := ParseReplace(r); err != nil {
			return err
		}
	}
	return nil
}

func (u *URI) validatePay() error {
	dest := u.Get(ParamDestination)
	if dest == "" {
		return ErrMissingParam.Withf("pay requires destination")
	}
	v, err := strkey.Version(dest)
	if err != nil || (v != strkey.VersionByteAccountID && v != strkey.VersionByteMuxedAccount && v != strkey.VersionByteContract) {
		return ErrInvalidParam.Withf("destination %q is not an account, muxed account or contract", dest)
	}
	if _, _, err := strkey.DecodeAny(dest); err != nil {
		return ErrInvalidParam.Withf("destination %q: %v", dest, err)
	}
	if a := u.Get(ParamAmount); a != "" {
		stroops, err := amount.ParseInt64(a)
		if err != nil || stroops <= 0 {
			return ErrInvalidParam.Withf("amount %q is not a positive amount", a)
		}
	}
	code, issuer := u.Get(ParamAssetCode), u.Get(ParamAssetIssuer)
	if code != "" && len(code) > 12 {
		return ErrInvalidParam.Withf("asset_code %q is longer than 12 characters", code)
	}
	if issuer != "" {
		if code == "" {
			return ErrMissingParam.Withf("asset_issuer requires asset_code")
		}
		if !strkey.IsValidEd25519PublicKey(issuer) {
			return ErrInvalidParam.Withf("asset_issuer %q is not an account id", issuer)
		}
	}
	return u.validateMemo()
}

func (u *URI) validateMemo() error {
	memo, memoType := u.Get(ParamMemo), u.Get(ParamMemoType)
	if memoType == "" {
		memoType = "MEMO_TEXT"
	}
	switch memoType {
	case "MEMO_TEXT":
		if len(memo) > 28 {
			return ErrInvalidParam.Withf("text memo is %d bytes, at most 28 allowed", len(memo))
		}
	case "MEMO_ID":
		if memo == "" {
			return nil
		}
		if _, err := strconv.ParseUint(memo, 10, 64); err != nil {
			return ErrInvalidParam.Withf("id memo %q is not a uint64", memo)
		}
	case "MEMO_HASH", "MEMO_RETURN":
		if memo == "" {
			return nil
		}
		raw, err := base64.StdEncoding.DecodeString(memo)
		if err != nil || len(raw) != 32 {
			return ErrInvalidParam.Withf("%s memo must be 32 bytes of base64", strings.ToLower(strings.TrimPrefix(memoType, "MEMO_")))
		}
	default:
		return ErrInvalidParam.Withf("memo_type %q", memoType)
	}
	return nil
}

// Envelope decodes the xdr parameter of a tx request.
func (u *URI) Envelope() (xdr.TransactionEnvelope, error) {
	var env xdr.TransactionEnvelope
	if u.Operation != OperationTx {
		return env, ErrInvalidParam.Withf("%s request carries no transaction", u.Operation)
	}
	if err := xdr.UnmarshalBase64(u.Get(ParamXDR), &env); err != nil {
		return env, ErrInvalidParam.Wrap(err).Withf("xdr is not a transaction envelope")
	}
	return env, nil
}

// Replacement is one field of a replace parameter: the TxRep path to fill
// in, the reference id that links repeated fields, and an optional hint.
type Replacement struct {
	Path string
	ID   string
	Hint string
}

// ParseReplace reads "path:id,path:id;id:hint,id:hint".
func ParseReplace(s string) ([]Replacement, error) {
	fields, hints, _ := strings.Cut(s, ";")
	hintByID := make(map[string]string)
	if hints != "" {
		for _, h := range strings.Split(hints, ",") {
			id, hint, ok := strings.Cut(h, ":")
			if !ok || id == "" {
				return nil, ErrInvalidParam.Withf("replace hint %q", h)
			}
			hintByID[id] = hint
		}
	}
	var out []Replacement
	for _, f := range strings.Split(fields, ",") {
		path, id, ok := strings.Cut(f, ":")
		if !ok || path == "" || id == "" {
			return nil, ErrInvalidParam.Withf("replace field %q", f)
		}
		out = append(out, Replacement{Path: path, ID: id, Hint: hintByID[id]})
	}
	return out, nil
}

// FormatReplace is the inverse of ParseReplace. Hints are written once per id
// in order of first use.
func FormatReplace(rs []Replacement) string {
	fields := make([]string, len(rs))
	var hints []string
	seen := make(map[string]bool)
	for i, r := range rs {
		fields[i] = r.Path + ":" + r.ID
		if r.Hint != "" && !seen[r.ID] {
			seen[r.ID] = true
			hints = append(hints, r.ID+":"+r.Hint)
		}
	}
	s := strings.Join(fields, ",")
	if len(hints) > 0 {
		s += ";" + strings.Join(hints, ",")
	}
	return s
}

func signaturePayload(uri string) []byte {
	payload := make([]byte, 36, 36+len(signaturePrefix)+len(uri))
	payload[35] = 4
	payload = append(payload, signaturePrefix...)
	return append(payload, uri...)
}

// unsigned returns the text the signature covers.
func (u *URI) unsigned() string {
	if u.raw == "" {
		return u.encode(false)
	}
	i := strings.Index(u.raw, "&"+ParamSignature+"=")
	if i < 0 {
		return u.raw
	}
	return u.raw[:i]
}

// Sign sets origin_domain and appends the signature of the request by kp.
func (u *URI) Sign(kp *keypair.Full, originDomain string) error {
	u.Delete(ParamSignature)
	u.Set(ParamOriginDomain, originDomain)
	sig, err := kp.Sign(signaturePayload(u.encode(false)))
	if err != nil {
		return err
	}
	u.Set(ParamSignature, base64.StdEncoding.EncodeToString(sig))
	return u.Validate()
}

// Verify checks the signature against signingKey, a G address.
func (u *URI) Verify(signingKey string) error {
	if !u.Has(ParamSignature) {
		return ErrNotSigned
	}
	kp, err := keypair.ParseAddress(signingKey)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(u.Get(ParamSignature))
	if err != nil {
		return ErrInvalidParam.Withf("signature is not base64")
	}
	if !kp.Verify(signaturePayload(u.unsigned()), sig) {
		return ErrSignature.Withf("not signed by %s", signingKey)
	}
	return nil
}

// TOMLResolver finds the stellar.toml of an origin domain.
type TOMLResolver interface {
	Resolve(ctx context.Context, domain string) (*stellartoml.Info, error)
}

// VerifyOrigin checks the signature against the URI_REQUEST_SIGNING_KEY
// published by origin_domain.
func (u *URI) VerifyOrigin(ctx context.Context, resolver TOMLResolver) error {
	domain := u.Get(ParamOriginDomain)
	if domain == "" {
		return ErrMissingParam.Withf("origin_domain")
	}
	info, err := resolver.Resolve(ctx, domain)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", domain, err)
	}
	if info.URIRequestSigningKey == "" {
		return ErrSignature.Withf("%s publishes no URI_REQUEST_SIGNING_KEY", domain)
	}
	return u.Verify(info.URIRequestSigningKey)
}
