package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/horizon"
	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/middleware"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/sep10"
	"github.com/stellar-txkit/internal/sep7"
	"github.com/stellar-txkit/internal/signing"
	"github.com/stellar-txkit/internal/stellartoml"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/txnbuild"
)

type fakeAccounts struct {
	signers   []horizon.Signer
	threshold int32
	err       error
}

func (f fakeAccounts) Signers(context.Context, string) ([]horizon.Signer, int32, error) {
	return f.signers, f.threshold, f.err
}

type staticTOML map[string]*stellartoml.Info

func (s staticTOML) Resolve(_ context.Context, domain string) (*stellartoml.Info, error) {
	if info, ok := s[domain]; ok {
		return info, nil
	}
	return nil, assert.AnError
}

type testServer struct {
	handler   http.Handler
	serverKey *keypair.Full
	registry  *prometheus.Registry
}

func newTestServer(t *testing.T, accounts fakeAccounts) *testServer {
	t.Helper()
	serverKey := keypair.MustRandom()
	signer, err := signing.NewSigner(serverKey.Seed(), network.Testnet)
	require.NoError(t, err)
	webAuth, err := sep10.NewServer(sep10.ServerConfig{
		Key:        serverKey,
		HomeDomain: "example.com",
		Network:    network.Testnet,
		Signers:    HorizonSigners(accounts),
	})
	require.NoError(t, err)
	registry := prometheus.NewRegistry()

	h := NewRouter(RouterOptions{
		Version:     "test",
		Network:     network.Testnet,
		Signer:      signer,
		APIToken:    "token",
		AuthLimiter: middleware.NewAuthAttemptLimiter(5, time.Minute, time.Minute),
		WebAuth:     webAuth,
		URIKey:      serverKey,
		HomeDomain:  "example.com",
		TOML:        staticTOML{"example.com": {URIRequestSigningKey: serverKey.Address()}},
		RateLimiter: middleware.NewRateLimiter(1000, time.Minute),
		CORSOrigins: []string{"https://app.example.com"},
		Registry:    registry,
	})
	return &testServer{handler: h, serverKey: serverKey, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func testEnvelope(t *testing.T, source *keypair.Full) (*txnbuild.Transaction, string) {
	t.Helper()
	account := txnbuild.NewSimpleAccount(source.Address(), 41)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Memo:                 txnbuild.MemoText("hello"),
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
		Operations:           []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 100}},
	})
	require.NoError(t, err)
	b64, err := tx.Base64()
	require.NoError(t, err)
	return tx, b64
}

func TestHealthAndInfo(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})

	rr := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	health := decodeBody[HealthResponse](t, rr)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, network.TestNetworkPassphrase, health.NetworkPassphrase)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = s.do(t, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	info := decodeBody[InfoResponse](t, rr)
	assert.Equal(t, "0.5000000", info.BaseReserve)
	assert.Equal(t, s.serverKey.Address(), info.SigningKey)
	assert.Equal(t, "example.com", info.WebAuthDomain)
	assert.Contains(t, info.SupportedOperations, "BUMP_SEQUENCE")
	assert.Len(t, info.NetworkID, 64)
}

func TestTxRepRoundTrip(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})
	_, b64 := testEnvelope(t, keypair.MustRandom())

	rr := s.do(t, http.MethodPost, "/txrep/encode", TxRepEncodeRequest{TransactionXDR: b64})
	require.Equal(t, http.StatusOK, rr.Code)
	text := decodeBody[TxRepResponse](t, rr).TxRep
	assert.Contains(t, text, `tx.memo.text: "hello"`)
	assert.Contains(t, text, "tx.seqNum: 42")

	rr = s.do(t, http.MethodPost, "/txrep/decode", TxRepDecodeRequest{TxRep: text})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, b64, decodeBody[TransactionResponse](t, rr).TransactionXDR)

	rr = s.do(t, http.MethodPost, "/txrep/encode", TxRepEncodeRequest{TransactionXDR: "AAAA"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, strings.HasPrefix(decodeBody[ErrorResponse](t, rr).Error, "xdr_"))
}

func TestStrKeyDecode(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})
	kp := keypair.MustRandom()
	muxed := strkey.EncodeMuxed(kp.PublicKey(), 1234)

	rr := s.do(t, http.MethodPost, "/strkey/decode", StrKeyDecodeRequest{StrKey: muxed})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[strkey.Description](t, rr)
	assert.Equal(t, "M", resp.Version)
	assert.Equal(t, kp.Address(), resp.AccountID)
	assert.Equal(t, "1234", resp.MuxedID)
	assert.Len(t, resp.Payload, 80)

	rr = s.do(t, http.MethodPost, "/strkey/decode", StrKeyDecodeRequest{StrKey: kp.Address()[:55] + "!"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/strkey/decode", map[string]string{"key": kp.Address()})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_request", decodeBody[ErrorResponse](t, rr).Error)
}

func TestSignAndInspect(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})
	source := keypair.MustRandom()
	tx, b64 := testEnvelope(t, source)
	auth := []string{"Authorization", "Bearer token"}

	rr := s.do(t, http.MethodPost, "/transactions/sign", SignRequest{TransactionXDR: b64, NetworkPassphrase: network.TestNetworkPassphrase})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/transactions/sign", SignRequest{TransactionXDR: b64, NetworkPassphrase: network.PublicNetworkPassphrase}, auth...)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_network", decodeBody[ErrorResponse](t, rr).Error)

	rr = s.do(t, http.MethodPost, "/transactions/sign", SignRequest{TransactionXDR: b64, NetworkPassphrase: network.TestNetworkPassphrase}, auth...)
	require.Equal(t, http.StatusOK, rr.Code)
	signed := decodeBody[SignResponse](t, rr)
	wantHash, err := tx.HashHex(network.Testnet)
	require.NoError(t, err)
	assert.Equal(t, wantHash, signed.Hash)
	assert.Equal(t, s.serverKey.Address(), signed.SignerPublicKey)

	rr = s.do(t, http.MethodPost, "/transactions/inspect", InspectRequest{
		TransactionXDR: signed.SignedTransactionXDR,
		Signers:        []string{s.serverKey.Address()},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decodeBody[signing.Summary](t, rr)
	assert.Equal(t, source.Address(), summary.SourceAccount)
	assert.Equal(t, int64(42), summary.Sequence)
	require.Len(t, summary.Signatures, 1)
	assert.True(t, summary.Signatures[0].Valid)
	assert.Equal(t, s.serverKey.Address(), summary.Signatures[0].Signer)
}

func TestWebAuthFlow(t *testing.T) {
	client := keypair.MustRandom()
	s := newTestServer(t, fakeAccounts{err: horizon.ErrAccountNotFound})

	rr := s.do(t, http.MethodPost, "/auth/challenge", ChallengeRequest{Account: client.Address()})
	require.Equal(t, http.StatusOK, rr.Code)
	challenge := decodeBody[ChallengeResponse](t, rr)
	assert.Equal(t, network.TestNetworkPassphrase, challenge.NetworkPassphrase)

	generic, err := txnbuild.TransactionFromXDR(challenge.Transaction)
	require.NoError(t, err)
	tx, ok := generic.Transaction()
	require.True(t, ok)
	tx, err = tx.Sign(network.Testnet, client)
	require.NoError(t, err)
	signedB64, err := tx.Base64()
	require.NoError(t, err)

	verify := VerifyRequest{ChallengeID: challenge.ChallengeID, Transaction: signedB64}
	rr = s.do(t, http.MethodPost, "/auth/verify", verify)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decodeBody[VerifyResponse](t, rr)
	assert.Equal(t, client.Address(), resp.Account)
	assert.Equal(t, []string{client.Address()}, resp.Signers)

	rr = s.do(t, http.MethodPost, "/auth/verify", verify)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "sep10_unknown_challenge", decodeBody[ErrorResponse](t, rr).Error)
}

func TestWebAuthRejectsUnsignedChallenge(t *testing.T) {
	client := keypair.MustRandom()
	s := newTestServer(t, fakeAccounts{
		signers:   []horizon.Signer{{Key: client.Address(), Weight: 1}},
		threshold: 1,
	})

	rr := s.do(t, http.MethodPost, "/auth/challenge", ChallengeRequest{Account: client.Address()})
	require.Equal(t, http.StatusOK, rr.Code)
	challenge := decodeBody[ChallengeResponse](t, rr)

	rr = s.do(t, http.MethodPost, "/auth/verify", VerifyRequest{ChallengeID: challenge.ChallengeID, Transaction: challenge.Transaction})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebAuthLookupFailure(t *testing.T) {
	client := keypair.MustRandom()
	s := newTestServer(t, fakeAccounts{err: assert.AnError})

	rr := s.do(t, http.MethodPost, "/auth/challenge", ChallengeRequest{Account: client.Address()})
	require.Equal(t, http.StatusOK, rr.Code)
	challenge := decodeBody[ChallengeResponse](t, rr)
	generic, err := txnbuild.TransactionFromXDR(challenge.Transaction)
	require.NoError(t, err)
	tx, _ := generic.Transaction()
	tx, err = tx.Sign(network.Testnet, client)
	require.NoError(t, err)
	signedB64, err := tx.Base64()
	require.NoError(t, err)

	rr = s.do(t, http.MethodPost, "/auth/verify", VerifyRequest{ChallengeID: challenge.ChallengeID, Transaction: signedB64})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal_error", decodeBody[ErrorResponse](t, rr).Error)
}

func TestURISignAndParse(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})
	_, b64 := testEnvelope(t, keypair.MustRandom())
	unsigned := sep7.NewTx(b64).Set(sep7.ParamMessage, "pay the bill").String()

	rr := s.do(t, http.MethodPost, "/uri/sign", URISignRequest{URI: unsigned}, "Authorization", "Bearer token")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	signedURI := decodeBody[URISignResponse](t, rr).URI
	assert.Contains(t, signedURI, "origin_domain=example.com")

	rr = s.do(t, http.MethodPost, "/uri/parse", URIParseRequest{URI: signedURI, VerifyOrigin: true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	parsed := decodeBody[URIParseResponse](t, rr)
	assert.Equal(t, sep7.OperationTx, parsed.Operation)
	assert.True(t, parsed.Signed)
	assert.True(t, parsed.OriginVerified)
	assert.Contains(t, parsed.TxRep, "tx.operations.len: 1")
	assert.Equal(t, URIParam{Key: "msg", Value: "pay the bill"}, parsed.Params[1])

	rr = s.do(t, http.MethodPost, "/uri/parse", URIParseRequest{URI: unsigned, VerifyOrigin: true})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	other := sep7.NewPay(keypair.MustRandom().Address())
	require.NoError(t, other.Sign(keypair.MustRandom(), "unknown.example"))
	rr = s.do(t, http.MethodPost, "/uri/parse", URIParseRequest{URI: other.String(), VerifyOrigin: true})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRouterErrors(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})

	rr := s.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decodeBody[ErrorResponse](t, rr).Error)

	rr = s.do(t, http.MethodGet, "/txrep/encode", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = s.do(t, http.MethodPost, "/txrep/encode", nil, "Content-Type", "text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = s.do(t, http.MethodPost, "/txrep/encode", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, rr).Message, "empty")
}

func TestCORSAndMetrics(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})

	req := httptest.NewRequest(http.MethodOptions, "/txrep/encode", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	s.do(t, http.MethodGet, "/health", nil)
	rr = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `txkit_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestUsage(t *testing.T) {
	s := newTestServer(t, fakeAccounts{})
	s.do(t, http.MethodGet, "/health", nil)
	rr := s.do(t, http.MethodGet, "/usage", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	usage := decodeBody[RateLimitInfo](t, rr)
	assert.Equal(t, 1000, usage.MaxRequests)
	assert.Equal(t, 60, usage.WindowSeconds)
	assert.Equal(t, 999, usage.Remaining, "/health is not rate limited")
}

func TestOptionalRoutesAreOff(t *testing.T) {
	h := NewRouter(RouterOptions{Version: "test", Network: network.Testnet})
	for _, path := range []string{"/transactions/sign", "/auth/challenge", "/uri/sign"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}")))
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
