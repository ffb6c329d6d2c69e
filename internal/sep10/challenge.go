// Package sep10 builds and verifies SEP-0010 web authentication challenges.
//
// A challenge is a transaction from the server account with sequence number
// zero, so it can never be submitted. Its first operation is a ManageData
// entry named "<home domain> auth" whose source is the client account and
// whose value is a random nonce. The client proves control of the account by
// signing the challenge with enough signer weight.
package sep10

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"time"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/txnbuild"
)

const (
	NonceLength        = 48
	DefaultTimeout     = 15 * time.Minute
	WebAuthDomainKey   = "web_auth_domain"
	ClientDomainKey    = "client_domain"
	encodedNonceLength = 64
)

var (
	ErrInvalidChallenge = sdkerr.New(sdkerr.KindValidation, "sep10_invalid_challenge", "invalid challenge transaction")
	ErrExpired          = sdkerr.New(sdkerr.KindValidation, "sep10_expired", "challenge is outside its time bounds")
	ErrSignature        = sdkerr.New(sdkerr.KindCrypto, "sep10_signature", "challenge signatures do not verify")
	ErrThreshold        = sdkerr.New(sdkerr.KindCrypto, "sep10_threshold", "signer weight is below the threshold")
)

// ChallengeParams describes a challenge to build.
type ChallengeParams struct {
	ServerKey *keypair.Full
	// ClientAccount is a G or M address.
	ClientAccount string
	HomeDomain    string
	WebAuthDomain string
	Network       network.Network
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
	// Now defaults to the current time.
	Now time.Time
	// Memo is an optional ID memo, not allowed with a muxed client account.
	Memo *uint64
	// ClientDomain and ClientSigningKey add a client_domain operation that
	// the client domain's signing key has to sign.
	ClientDomain     string
	ClientSigningKey string
}

// BuildChallenge returns a challenge signed by the server key.
func BuildChallenge(p ChallengeParams) (*txnbuild.Transaction, error) {
	if p.ServerKey == nil {
		return nil, ErrInvalidChallenge.Withf("server key is required")
	}
	if p.HomeDomain == "" || p.WebAuthDomain == "" {
		return nil, ErrInvalidChallenge.Withf("home domain and web auth domain are required")
	}
	muxed := strings.HasPrefix(p.ClientAccount, "M")
	if muxed {
		if _, err := strkey.DecodeMuxed(p.ClientAccount); err != nil {
			return nil, ErrInvalidChallenge.Wrap(err).Withf("client account %q", p.ClientAccount)
		}
		if p.Memo != nil {
			return nil, ErrInvalidChallenge.Withf("memo cannot be used with a muxed client account")
		}
	} else if !strkey.IsValidEd25519PublicKey(p.ClientAccount) {
		return nil, ErrInvalidChallenge.Withf("client account %q is not an account id", p.ClientAccount)
	}
	if (p.ClientDomain == "") != (p.ClientSigningKey == "") {
		return nil, ErrInvalidChallenge.Withf("client domain and client signing key go together")
	}

	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	server := p.ServerKey.Address()

	ops := []txnbuild.Operation{
		&txnbuild.ManageData{Name: p.HomeDomain + " auth", Value: []byte(nonce), SourceAccount: p.ClientAccount},
		&txnbuild.ManageData{Name: WebAuthDomainKey, Value: []byte(p.WebAuthDomain), SourceAccount: server},
	}
	if p.ClientDomain != "" {
		ops = append(ops, &txnbuild.ManageData{Name: ClientDomainKey, Value: []byte(p.ClientDomain), SourceAccount: p.ClientSigningKey})
	}
	var memo txnbuild.Memo
	if p.Memo != nil {
		memo = txnbuild.MemoID(*p.Memo)
	}

	source := txnbuild.NewSimpleAccount(server, 0)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &source,
		Operations:    ops,
		BaseFee:       txnbuild.MinBaseFee,
		Memo:          memo,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimebounds(now.Unix(), now.Add(timeout).Unix()),
		},
	})
	if err != nil {
		return nil, err
	}
	return tx.Sign(p.Network, p.ServerKey)
}

// NewNonce returns NonceLength random bytes, base64 encoded.
func NewNonce() (string, error) {
	raw := make([]byte, NonceLength)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", ErrInvalidChallenge.Wrap(err).Withf("reading nonce")
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Challenge is a challenge read back from its envelope.
type Challenge struct {
	Tx               *txnbuild.Transaction
	ClientAccount    string
	HomeDomain       string
	Nonce            string
	Memo             *uint64
	ClientDomain     string
	ClientSigningKey string
}

// ReadParams are the values a server checks a challenge against.
type ReadParams struct {
	ServerAccount string
	Network       network.Network
	// HomeDomains lists the accepted home domains; the first operation
	// must name one of them.
	HomeDomains   []string
	WebAuthDomain string
	Now           time.Time
}

// ReadChallenge decodes a challenge and checks its structure, time bounds
// and server signature. Client signatures are checked by VerifySigners.
func ReadChallenge(envelope string, p ReadParams) (*Challenge, error) {
	parsed, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return nil, ErrInvalidChallenge.Wrap(err).Withf("decoding challenge")
	}
	tx, ok := parsed.Transaction()
	if !ok {
		return nil, ErrInvalidChallenge.Withf("challenge cannot be a fee bump transaction")
	}
	if src := tx.SourceAccount().AccountID; src != p.ServerAccount {
		return nil, ErrInvalidChallenge.Withf("source account %s is not the server account", src)
	}
	if tx.SequenceNumber() != 0 {
		return nil, ErrInvalidChallenge.Withf("sequence number %d is not zero", tx.SequenceNumber())
	}

	tb := tx.Timebounds()
	if !tb.IsSet() || tb.MaxTime == txnbuild.TimeoutInfinite {
		return nil, ErrInvalidChallenge.Withf("challenge must have finite time bounds")
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	if now.Unix() < tb.MinTime || now.Unix() > tb.MaxTime {
		return nil, ErrExpired.Withf("now %d is outside [%d, %d]", now.Unix(), tb.MinTime, tb.MaxTime)
	}

	ops := tx.Operations()
	if len(ops) == 0 {
		return nil, ErrInvalidChallenge.Withf("challenge has no operations")
	}
	first, ok := ops[0].(*txnbuild.ManageData)
	if !ok {
		return nil, ErrInvalidChallenge.Withf("first operation is not manage data")
	}
	if first.SourceAccount == "" {
		return nil, ErrInvalidChallenge.Withf("first operation has no source account")
	}
	c := &Challenge{Tx: tx, ClientAccount: first.SourceAccount}
	for _, d := range p.HomeDomains {
		if first.Name == d+" auth" {
			c.HomeDomain = d
			break
		}
	}
	if c.HomeDomain == "" {
		return nil, ErrInvalidChallenge.Withf("operation %q does not name an accepted home domain", first.Name)
	}
	if len(first.Value) != encodedNonceLength {
		return nil, ErrInvalidChallenge.Withf("nonce is %d bytes, want %d", len(first.Value), encodedNonceLength)
	}
	if raw, err := base64.StdEncoding.DecodeString(string(first.Value)); err != nil || len(raw) != NonceLength {
		return nil, ErrInvalidChallenge.Withf("nonce is not %d bytes of base64", NonceLength)
	}
	c.Nonce = string(first.Value)

	for i, op := range ops[1:] {
		data, ok := op.(*txnbuild.ManageData)
		if !ok {
			return nil, ErrInvalidChallenge.Withf("operation %d is not manage data", i+1)
		}
		switch data.Name {
		case ClientDomainKey:
			c.ClientDomain = string(data.Value)
			c.ClientSigningKey = data.SourceAccount
			continue
		case WebAuthDomainKey:
			if !bytes.Equal(data.Value, []byte(p.WebAuthDomain)) {
				return nil, ErrInvalidChallenge.Withf("web_auth_domain %q, want %q", data.Value, p.WebAuthDomain)
			}
		}
		if data.SourceAccount != p.ServerAccount {
			return nil, ErrInvalidChallenge.Withf("operation %d source is not the server account", i+1)
		}
	}

	switch m := tx.Memo().(type) {
	case nil:
	case txnbuild.MemoID:
		if strings.HasPrefix(c.ClientAccount, "M") {
			return nil, ErrInvalidChallenge.Withf("memo cannot be used with a muxed client account")
		}
		id := uint64(m)
		c.Memo = &id
	default:
		return nil, ErrInvalidChallenge.Withf("only id memos are allowed")
	}

	server, err := keypair.ParseAddress(p.ServerAccount)
	if err != nil {
		return nil, err
	}
	hash, err := tx.Hash(p.Network)
	if err != nil {
		return nil, err
	}
	if !signedBy(hash, tx, server) {
		return nil, ErrSignature.Withf("challenge is not signed by the server")
	}
	return c, nil
}

func signedBy(hash [32]byte, tx *txnbuild.Transaction, kp *keypair.FromAddress) bool {
	hint := kp.Hint()
	for _, sig := range tx.Signatures() {
		if [4]byte(sig.Hint) == hint && kp.Verify(hash[:], sig.Signature) {
			return true
		}
	}
	return false
}
