package sep10

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/txnbuild"
)

var issuedAt = time.Unix(1_700_000_000, 0)

type fixture struct {
	server *keypair.Full
	client *keypair.Full
}

func newFixture() fixture {
	return fixture{server: keypair.MustRandom(), client: keypair.MustRandom()}
}

func (f fixture) build(t *testing.T, mutate func(*ChallengeParams)) *txnbuild.Transaction {
	t.Helper()
	p := ChallengeParams{
		ServerKey:     f.server,
		ClientAccount: f.client.Address(),
		HomeDomain:    "example.com",
		WebAuthDomain: "auth.example.com",
		Network:       network.Testnet,
		Now:           issuedAt,
	}
	if mutate != nil {
		mutate(&p)
	}
	tx, err := BuildChallenge(p)
	require.NoError(t, err)
	return tx
}

func (f fixture) readParams() ReadParams {
	return ReadParams{
		ServerAccount: f.server.Address(),
		Network:       network.Testnet,
		HomeDomains:   []string{"other.org", "example.com"},
		WebAuthDomain: "auth.example.com",
		Now:           issuedAt.Add(time.Minute),
	}
}

func encode(t *testing.T, tx *txnbuild.Transaction) string {
	t.Helper()
	b64, err := tx.Base64()
	require.NoError(t, err)
	return b64
}

func TestBuildAndReadChallenge(t *testing.T) {
	f := newFixture()
	tx := f.build(t, nil)
	assert.Equal(t, int64(0), tx.SequenceNumber())
	assert.Equal(t, issuedAt.Unix(), tx.Timebounds().MinTime)
	assert.Equal(t, issuedAt.Add(DefaultTimeout).Unix(), tx.Timebounds().MaxTime)

	c, err := ReadChallenge(encode(t, tx), f.readParams())
	require.NoError(t, err)
	assert.Equal(t, f.client.Address(), c.ClientAccount)
	assert.Equal(t, "example.com", c.HomeDomain)
	assert.Len(t, c.Nonce, 64)
	assert.Nil(t, c.Memo)

	ops := c.Tx.Operations()
	require.Len(t, ops, 2)
	domainOp := ops[1].(*txnbuild.ManageData)
	assert.Equal(t, WebAuthDomainKey, domainOp.Name)
	assert.Equal(t, f.server.Address(), domainOp.SourceAccount)

	other := f.build(t, nil)
	otherChallenge, err := ReadChallenge(encode(t, other), f.readParams())
	require.NoError(t, err)
	assert.NotEqual(t, c.Nonce, otherChallenge.Nonce)
}

func TestReadChallengeRejects(t *testing.T) {
	f := newFixture()
	valid := encode(t, f.build(t, nil))

	tests := []struct {
		name     string
		envelope string
		mutate   func(*ReadParams)
		want     error
	}{
		{"expired", valid, func(p *ReadParams) { p.Now = issuedAt.Add(DefaultTimeout + time.Second) }, ErrExpired},
		{"not yet valid", valid, func(p *ReadParams) { p.Now = issuedAt.Add(-time.Second) }, ErrExpired},
		{"home domain", valid, func(p *ReadParams) { p.HomeDomains = []string{"evil.com"} }, ErrInvalidChallenge},
		{"web auth domain", valid, func(p *ReadParams) { p.WebAuthDomain = "example.com" }, ErrInvalidChallenge},
		{"server account", valid, func(p *ReadParams) { p.ServerAccount = f.client.Address() }, ErrInvalidChallenge},
		{"network", valid, func(p *ReadParams) { p.Network = network.Public }, ErrSignature},
		{"unsigned", encode(t, f.build(t, nil).ClearSignatures()), nil, ErrSignature},
		{"garbage", "AAAA", nil, ErrInvalidChallenge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := f.readParams()
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			_, err := ReadChallenge(tt.envelope, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadChallengeRejectsForgedStructure(t *testing.T) {
	f := newFixture()
	build := func(seq int64, ops []txnbuild.Operation, tb txnbuild.TimeBounds) string {
		source := txnbuild.NewSimpleAccount(f.server.Address(), seq)
		tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
			SourceAccount: &source,
			Operations:    ops,
			BaseFee:       txnbuild.MinBaseFee,
			Preconditions: txnbuild.Preconditions{TimeBounds: tb},
		})
		require.NoError(t, err)
		tx, err = tx.Sign(network.Testnet, f.server)
		require.NoError(t, err)
		return encode(t, tx)
	}
	nonce, err := NewNonce()
	require.NoError(t, err)
	auth := &txnbuild.ManageData{Name: "example.com auth", Value: []byte(nonce), SourceAccount: f.client.Address()}
	domain := &txnbuild.ManageData{Name: WebAuthDomainKey, Value: []byte("auth.example.com"), SourceAccount: f.server.Address()}
	bounds := txnbuild.NewTimebounds(issuedAt.Unix(), issuedAt.Add(time.Hour).Unix())

	tests := []struct {
		name     string
		envelope string
		want     string
	}{
		{"sequence", build(7, []txnbuild.Operation{auth, domain}, bounds), "sequence number 7 is not zero"},
		{"infinite bounds", build(0, []txnbuild.Operation{auth, domain}, txnbuild.NewInfiniteTimeout()), "finite time bounds"},
		{"first op", build(0, []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 1}}, bounds), "first operation is not manage data"},
		{"first op source", build(0, []txnbuild.Operation{&txnbuild.ManageData{Name: "example.com auth", Value: []byte(nonce)}}, bounds), "no source account"},
		{"short nonce", build(0, []txnbuild.Operation{&txnbuild.ManageData{Name: "example.com auth", Value: []byte("abc"), SourceAccount: f.client.Address()}}, bounds), "nonce is 3 bytes"},
		{"foreign op", build(0, []txnbuild.Operation{auth, &txnbuild.ManageData{Name: "x", Value: []byte("y"), SourceAccount: f.client.Address()}}, bounds), "operation 1 source is not the server account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadChallenge(tt.envelope, f.readParams())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChallengeMemo(t *testing.T) {
	f := newFixture()
	id := uint64(42)
	tx := f.build(t, func(p *ChallengeParams) { p.Memo = &id })
	c, err := ReadChallenge(encode(t, tx), f.readParams())
	require.NoError(t, err)
	require.NotNil(t, c.Memo)
	assert.Equal(t, id, *c.Memo)

	muxed := strkey.EncodeMuxed(f.client.PublicKey(), 9)
	_, err = BuildChallenge(ChallengeParams{
		ServerKey: f.server, ClientAccount: muxed, HomeDomain: "example.com",
		WebAuthDomain: "auth.example.com", Network: network.Testnet, Memo: &id,
	})
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestVerifySigners(t *testing.T) {
	f := newFixture()
	cosigner := keypair.MustRandom()
	stranger := keypair.MustRandom()
	signers := []Signer{{Key: f.client.Address(), Weight: 1}, {Key: cosigner.Address(), Weight: 1}}

	read := func(t *testing.T, kps ...keypair.KP) *Challenge {
		t.Helper()
		tx, err := f.build(t, nil).Sign(network.Testnet, kps...)
		require.NoError(t, err)
		c, err := ReadChallenge(encode(t, tx), f.readParams())
		require.NoError(t, err)
		return c
	}

	t.Run("threshold met", func(t *testing.T) {
		found, err := VerifySigners(read(t, f.client, cosigner), f.server.Address(), network.Testnet, signers, 2)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{f.client.Address(), cosigner.Address()}, found)
	})
	t.Run("below threshold", func(t *testing.T) {
		_, err := VerifySigners(read(t, f.client), f.server.Address(), network.Testnet, signers, 2)
		assert.ErrorIs(t, err, ErrThreshold)
	})
	t.Run("no client signature", func(t *testing.T) {
		_, err := VerifySigners(read(t), f.server.Address(), network.Testnet, signers, 0)
		assert.ErrorIs(t, err, ErrSignature)
	})
	t.Run("unrecognized signature", func(t *testing.T) {
		_, err := VerifySigners(read(t, f.client, stranger), f.server.Address(), network.Testnet, signers, 1)
		assert.ErrorContains(t, err, "unrecognized signatures")
	})
	t.Run("duplicate signature", func(t *testing.T) {
		_, err := VerifySigners(read(t, f.client, f.client), f.server.Address(), network.Testnet, signers, 1)
		assert.ErrorContains(t, err, "signed more than once")
	})
	t.Run("duplicate signer entries count once", func(t *testing.T) {
		doubled := append([]Signer{{Key: f.client.Address(), Weight: 5}}, signers...)
		_, err := VerifySigners(read(t, f.client), f.server.Address(), network.Testnet, doubled, 6)
		assert.ErrorIs(t, err, ErrThreshold)
	})
	t.Run("master key", func(t *testing.T) {
		assert.NoError(t, VerifyMasterKey(read(t, f.client), f.server.Address(), network.Testnet))
		assert.Error(t, VerifyMasterKey(read(t, cosigner), f.server.Address(), network.Testnet))
	})
}

func TestClientDomainSignature(t *testing.T) {
	f := newFixture()
	domainKey := keypair.MustRandom()
	tx := f.build(t, func(p *ChallengeParams) {
		p.ClientDomain = "wallet.example"
		p.ClientSigningKey = domainKey.Address()
	})
	signers := []Signer{{Key: f.client.Address(), Weight: 1}}

	clientOnly, err := tx.Sign(network.Testnet, f.client)
	require.NoError(t, err)
	c, err := ReadChallenge(encode(t, clientOnly), f.readParams())
	require.NoError(t, err)
	assert.Equal(t, "wallet.example", c.ClientDomain)
	assert.Equal(t, domainKey.Address(), c.ClientSigningKey)
	_, err = VerifySigners(c, f.server.Address(), network.Testnet, signers, 1)
	assert.ErrorContains(t, err, "client domain key")

	both, err := tx.Sign(network.Testnet, f.client, domainKey)
	require.NoError(t, err)
	c, err = ReadChallenge(encode(t, both), f.readParams())
	require.NoError(t, err)
	found, err := VerifySigners(c, f.server.Address(), network.Testnet, signers, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{f.client.Address()}, found)
}

func TestNonceStore(t *testing.T) {
	s := NewNonceStore()
	now := issuedAt
	s.now = func() time.Time { return now }

	id := s.Add("nonce-a", now.Add(time.Minute))
	expiring := s.Add("nonce-b", now.Add(time.Second))
	assert.Equal(t, 2, s.Len())

	assert.ErrorIs(t, s.Consume(id, "nonce-b"), ErrUnknownChallenge)
	require.NoError(t, s.Consume(id, "nonce-a"))
	assert.ErrorIs(t, s.Consume(id, "nonce-a"), ErrUnknownChallenge)

	now = now.Add(2 * time.Second)
	assert.ErrorIs(t, s.Consume(expiring, "nonce-b"), ErrUnknownChallenge)
	assert.Equal(t, 0, s.Len())
}

func TestServerRoundTrip(t *testing.T) {
	f := newFixture()
	cosigner := keypair.MustRandom()
	lookups := 0
	srv, err := NewServer(ServerConfig{
		Key:        f.server,
		HomeDomain: "example.com",
		Network:    network.Testnet,
		Signers: SignerSourceFunc(func(_ context.Context, account string) ([]Signer, int32, error) {
			lookups++
			if account != f.client.Address() {
				return nil, 0, ErrAccountNotFound
			}
			return []Signer{{Key: f.client.Address(), Weight: 1}, {Key: cosigner.Address(), Weight: 1}}, 2, nil
		}),
	})
	require.NoError(t, err)

	sign := func(envelope string, kps ...keypair.KP) string {
		parsed, err := txnbuild.TransactionFromXDR(envelope)
		require.NoError(t, err)
		tx, ok := parsed.Transaction()
		require.True(t, ok)
		tx, err = tx.Sign(network.Testnet, kps...)
		require.NoError(t, err)
		return encode(t, tx)
	}

	id, envelope, err := srv.Challenge(context.Background(), f.client.Address(), nil)
	require.NoError(t, err)
	_, _, err = srv.Verify(context.Background(), id, sign(envelope, f.client))
	assert.ErrorIs(t, err, ErrThreshold)
	// a failed verification still uses up the challenge
	_, _, err = srv.Verify(context.Background(), id, sign(envelope, f.client, cosigner))
	assert.ErrorIs(t, err, ErrUnknownChallenge)

	id, envelope, err = srv.Challenge(context.Background(), f.client.Address(), nil)
	require.NoError(t, err)
	account, signed, err := srv.Verify(context.Background(), id, sign(envelope, f.client, cosigner))
	require.NoError(t, err)
	assert.Equal(t, f.client.Address(), account)
	assert.Len(t, signed, 2)

	// accounts that do not exist yet verify with their master key
	newcomer := keypair.MustRandom()
	id, envelope, err = srv.Challenge(context.Background(), newcomer.Address(), nil)
	require.NoError(t, err)
	account, _, err = srv.Verify(context.Background(), id, sign(envelope, newcomer))
	require.NoError(t, err)
	assert.Equal(t, newcomer.Address(), account)
	assert.Equal(t, 3, lookups)
}

func TestServerPropagatesLookupErrors(t *testing.T) {
	f := newFixture()
	srv, err := NewServer(ServerConfig{
		Key:        f.server,
		HomeDomain: "example.com",
		Network:    network.Testnet,
		Signers: SignerSourceFunc(func(context.Context, string) ([]Signer, int32, error) {
			return nil, 0, errors.New("horizon down")
		}),
	})
	require.NoError(t, err)
	id, envelope, err := srv.Challenge(context.Background(), f.client.Address(), nil)
	require.NoError(t, err)
	_, _, err = srv.Verify(context.Background(), id, envelope)
	assert.ErrorContains(t, err, "horizon down")

	_, err = NewServer(ServerConfig{HomeDomain: "example.com"})
	assert.ErrorIs(t, err, ErrInvalidChallenge)
}
