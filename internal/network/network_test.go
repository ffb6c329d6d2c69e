package network

import (
	"testing"

	sdkkeypair "github.com/stellar/go-stellar-sdk/keypair"
	sdknetwork "github.com/stellar/go-stellar-sdk/network"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	sdkxdr "github.com/stellar/go-stellar-sdk/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/xdr"
)

func TestNetworkID(t *testing.T) {
	assert.Equal(t, sdknetwork.ID(sdknetwork.TestNetworkPassphrase), [32]byte(Testnet.ID()))
	assert.Equal(t, sdknetwork.ID(sdknetwork.PublicNetworkPassphrase), [32]byte(Public.ID()))
	assert.NotEqual(t, Testnet.ID(), Public.ID())

	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)

	var zero Network
	_, err = zero.HashTransaction(xdr.Transaction{})
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func buildReferenceEnvelope(t *testing.T) (string, *txnbuild.Transaction) {
	t.Helper()
	kp := sdkkeypair.MustRandom()
	account := txnbuild.NewSimpleAccount(kp.Address(), 10)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
		Operations:           []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 99}},
	})
	require.NoError(t, err)
	b64, err := tx.Base64()
	require.NoError(t, err)
	return b64, tx
}

func TestHashEnvelopeMatchesReference(t *testing.T) {
	b64, tx := buildReferenceEnvelope(t)
	want, err := tx.Hash(sdknetwork.TestNetworkPassphrase)
	require.NoError(t, err)

	var env xdr.TransactionEnvelope
	require.NoError(t, xdr.UnmarshalBase64(b64, &env))

	got, err := Testnet.HashEnvelope(env)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := Public.HashEnvelope(env)
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestV0EnvelopeHashesAsV1(t *testing.T) {
	b64, _ := buildReferenceEnvelope(t)
	var v1 xdr.TransactionEnvelope
	require.NoError(t, xdr.UnmarshalBase64(b64, &v1))

	tx := v1.V1.Tx
	v0 := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTxV0,
		V0: &xdr.TransactionV0Envelope{Tx: xdr.TransactionV0{
			SourceAccountEd25519: *tx.SourceAccount.Ed25519,
			Fee:                  tx.Fee,
			SeqNum:               tx.SeqNum,
			TimeBounds:           tx.Cond.TimeBounds,
			Memo:                 tx.Memo,
			Operations:           tx.Operations,
		}},
	}

	h0, err := Testnet.HashEnvelope(v0)
	require.NoError(t, err)
	h1, err := Testnet.HashEnvelope(v1)
	require.NoError(t, err)
	assert.Equal(t, h1, h0)

	var ref sdkxdr.TransactionEnvelope
	raw, err := xdr.MarshalBase64(v0)
	require.NoError(t, err)
	require.NoError(t, sdkxdr.SafeUnmarshalBase64(raw, &ref))
	refHash, err := sdknetwork.HashTransactionInEnvelope(ref, sdknetwork.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, refHash, h0)
}

func TestHashEnvelopeRejectsUnknownType(t *testing.T) {
	_, err := Testnet.HashEnvelope(xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeEnvelopeTypeScp})
	assert.ErrorIs(t, err, ErrUnhashable)
}
