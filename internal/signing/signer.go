// Package signing signs and summarizes transaction envelopes with a
// configured key.
package signing

import (
	"fmt"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/txnbuild"
)

// Signer holds the signing key and the network it signs for.
type Signer struct {
	signingKey *keypair.Full
	network    network.Network
}

// NewSigner creates a new transaction signer.
// The secretKey must be a valid Stellar secret key (S...).
func NewSigner(secretKey string, n network.Network) (*Signer, error) {
	kp, err := keypair.ParseFull(secretKey)
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}
	return &Signer{signingKey: kp, network: n}, nil
}

// PublicKey returns the public key (G...) of the signing key.
func (s *Signer) PublicKey() string {
	return s.signingKey.Address()
}

// Sign adds the signing key's signature to a v1 or fee bump envelope.
// Returns (signedXDR, transactionHashHex, error).
func (s *Signer) Sign(txXDR string) (string, string, error) {
	genericTx, err := txnbuild.TransactionFromXDR(txXDR)
	if err != nil {
		return "", "", fmt.Errorf("parse transaction XDR: %w", err)
	}

	if fb, ok := genericTx.FeeBump(); ok {
		fb, err = fb.Sign(s.network, s.signingKey)
		if err != nil {
			return "", "", fmt.Errorf("sign fee bump transaction: %w", err)
		}
		return encode(fb, s.network)
	}

	tx, _ := genericTx.Transaction()
	tx, err = tx.Sign(s.network, s.signingKey)
	if err != nil {
		return "", "", fmt.Errorf("sign transaction: %w", err)
	}
	return encode(tx, s.network)
}

type envelope interface {
	Base64() (string, error)
	HashHex(network.Network) (string, error)
}

func encode(tx envelope, n network.Network) (string, string, error) {
	hashHex, err := tx.HashHex(n)
	if err != nil {
		return "", "", fmt.Errorf("compute transaction hash: %w", err)
	}
	signedXDR, err := tx.Base64()
	if err != nil {
		return "", "", fmt.Errorf("encode signed transaction: %w", err)
	}
	return signedXDR, hashHex, nil
}
