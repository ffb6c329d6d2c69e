// Package network identifies a Stellar network and computes the transaction
// hashes that signatures on that network cover.
package network

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/xdr"
)

const (
	PublicNetworkPassphrase     = "Public Global Stellar Network ; September 2015"
	TestNetworkPassphrase       = "Test SDF Network ; September 2015"
	FutureNetworkPassphrase     = "Test SDF Future Network ; October 2022"
	StandaloneNetworkPassphrase = "Standalone Network ; February 2017"
)

var (
	ErrEmptyPassphrase = sdkerr.New(sdkerr.KindValidation, "network_empty_passphrase", "network passphrase is empty")
	ErrUnhashable      = sdkerr.New(sdkerr.KindValidation, "network_unhashable_envelope", "envelope cannot be hashed")
)

// Network is a passphrase and the id derived from it. Every hash and
// signature is computed against an explicit Network.
type Network struct {
	passphrase string
	id         xdr.Hash
}

var (
	Public    = mustNew(PublicNetworkPassphrase)
	Testnet   = mustNew(TestNetworkPassphrase)
	Futurenet = mustNew(FutureNetworkPassphrase)
)

// New returns the network with the given passphrase.
func New(passphrase string) (Network, error) {
	if passphrase == "" {
		return Network{}, ErrEmptyPassphrase
	}
	return Network{passphrase: passphrase, id: sha256.Sum256([]byte(passphrase))}, nil
}

func mustNew(passphrase string) Network {
	n, err := New(passphrase)
	if err != nil {
		panic(err)
	}
	return n
}

// Passphrase returns the network passphrase.
func (n Network) Passphrase() string { return n.passphrase }

// ID returns SHA-256 of the passphrase.
func (n Network) ID() xdr.Hash { return n.id }

func (n Network) String() string { return n.passphrase }

func (n Network) check() error {
	if n.passphrase == "" {
		return ErrEmptyPassphrase
	}
	return nil
}

// HashTransaction returns the signature hash of a v1 transaction.
func (n Network) HashTransaction(tx xdr.Transaction) ([32]byte, error) {
	return n.hashTagged(xdr.TransactionSignaturePayloadTaggedTransaction{
		Type: xdr.EnvelopeTypeEnvelopeTypeTx,
		Tx:   &tx,
	})
}

// HashFeeBumpTransaction returns the signature hash of a fee bump.
func (n Network) HashFeeBumpTransaction(tx xdr.FeeBumpTransaction) ([32]byte, error) {
	return n.hashTagged(xdr.TransactionSignaturePayloadTaggedTransaction{
		Type:    xdr.EnvelopeTypeEnvelopeTypeTxFeeBump,
		FeeBump: &tx,
	})
}

// HashEnvelope returns the hash of the transaction in env. V0 envelopes
// hash as their v1 equivalent.
func (n Network) HashEnvelope(env xdr.TransactionEnvelope) ([32]byte, error) {
	switch env.Type {
	case xdr.EnvelopeTypeEnvelopeTypeTxV0:
		if env.V0 != nil {
			return n.HashTransaction(env.V0.Tx.ToV1())
		}
	case xdr.EnvelopeTypeEnvelopeTypeTx:
		if env.V1 != nil {
			return n.HashTransaction(env.V1.Tx)
		}
	case xdr.EnvelopeTypeEnvelopeTypeTxFeeBump:
		if env.FeeBump != nil {
			return n.HashFeeBumpTransaction(env.FeeBump.Tx)
		}
	}
	return [32]byte{}, ErrUnhashable.Withf("envelope type %s", env.Type)
}

func (n Network) hashTagged(tagged xdr.TransactionSignaturePayloadTaggedTransaction) ([32]byte, error) {
	if err := n.check(); err != nil {
		return [32]byte{}, err
	}
	payload, err := xdr.Marshal(xdr.TransactionSignaturePayload{
		NetworkID:         n.id,
		TaggedTransaction: tagged,
	})
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(payload), nil
}

// HashHex is a helper for logging and display.
func HashHex(h [32]byte) string {
	return hex.EncodeToString(h[:])
}
