// Package soroban signs and verifies smart contract authorization entries
// and builds the contract ids, ledger keys and values that Soroban
// transactions carry.
package soroban

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/xdr"
)

// AuthorizationPayload is the hash an address signs to authorize
// invocation with nonce until validUntilLedger on n.
func AuthorizationPayload(n network.Network, nonce int64, validUntilLedger uint32, invocation xdr.SorobanAuthorizedInvocation) ([32]byte, error) {
	if n.Passphrase() == "" {
		return [32]byte{}, network.ErrEmptyPassphrase
	}
	raw, err := xdr.Marshal(xdr.HashIDPreimage{
		Type: xdr.EnvelopeTypeEnvelopeTypeSorobanAuthorization,
		SorobanAuthorization: &xdr.HashIDPreimageSorobanAuthorization{
			NetworkID:                 n.ID(),
			Nonce:                     nonce,
			SignatureExpirationLedger: validUntilLedger,
			Invocation:                invocation,
		},
	})
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(raw), nil
}

// AuthorizeEntry returns a copy of entry signed by signer and valid until
// validUntilLedger. Entries with source-account credentials are returned
// unchanged; the transaction signature covers them.
func AuthorizeEntry(entry xdr.SorobanAuthorizationEntry, signer keypair.KP, validUntilLedger uint32, n network.Network) (xdr.SorobanAuthorizationEntry, error) {
	out, err := cloneEntry(entry)
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	if out.Credentials.Type == xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount {
		return out, nil
	}
	creds := out.Credentials.Address
	if creds == nil {
		return xdr.SorobanAuthorizationEntry{}, ErrCredentials
	}

	payload, err := AuthorizationPayload(n, creds.Nonce, validUntilLedger, out.RootInvocation)
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	sig, err := signer.Sign(payload[:])
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	pub, err := xdr.AddressToAccountID(signer.Address())
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	sigVal, err := SymbolMap(map[string]xdr.ScVal{
		"public_key": Bytes(pub.Ed25519[:]),
		"signature":  Bytes(sig),
	})
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}

	creds.SignatureExpirationLedger = validUntilLedger
	creds.Signature = Vec(sigVal)
	return out, nil
}

// AuthorizeInvocation creates an entry for invocation with address
// credentials for signer and a random nonce, and signs it.
func AuthorizeInvocation(signer keypair.KP, validUntilLedger uint32, invocation xdr.SorobanAuthorizedInvocation, n network.Network) (xdr.SorobanAuthorizationEntry, error) {
	addr, err := xdr.ScAddressFromString(signer.Address())
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	nonce, err := randomNonce()
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	entry := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsAddress,
			Address: &xdr.SorobanAddressCredentials{
				Address:                   addr,
				Nonce:                     nonce,
				SignatureExpirationLedger: validUntilLedger,
				Signature:                 Void(),
			},
		},
		RootInvocation: invocation,
	}
	return AuthorizeEntry(entry, signer, validUntilLedger, n)
}

func randomNonce() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("reading nonce: %w", err)
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

// VerifyEntry checks the signatures of an address-credentials entry against
// its nonce, expiration ledger and invocation on n. Account credentials need
// a signature from the account's own key; contract credentials need every
// listed signature to verify under its public key.
func VerifyEntry(entry xdr.SorobanAuthorizationEntry, n network.Network) error {
	creds := entry.Credentials.Address
	if entry.Credentials.Type != xdr.SorobanCredentialsTypeSorobanCredentialsAddress || creds == nil {
		return ErrCredentials
	}
	payload, err := AuthorizationPayload(n, creds.Nonce, creds.SignatureExpirationLedger, entry.RootInvocation)
	if err != nil {
		return err
	}
	sigs, err := decodeSignatures(creds.Signature)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return ErrSignature.Withf("entry is unsigned")
	}

	var owner *[32]byte
	if creds.Address.Type == xdr.ScAddressTypeScAddressTypeAccount && creds.Address.AccountID != nil && creds.Address.AccountID.Ed25519 != nil {
		k := [32]byte(*creds.Address.AccountID.Ed25519)
		owner = &k
	}
	ownerSigned := false
	for _, s := range sigs {
		if !keypair.FromPublicKey(s.publicKey).Verify(payload[:], s.signature) {
			return ErrSignature.Withf("signature by %s", keypair.FromPublicKey(s.publicKey).Address())
		}
		if owner != nil && *owner == s.publicKey {
			ownerSigned = true
		}
	}
	if owner != nil && !ownerSigned {
		return ErrSignature.Withf("no signature from %s", creds.Address.String())
	}
	return nil
}

type authSignature struct {
	publicKey [32]byte
	signature []byte
}

func decodeSignatures(v xdr.ScVal) ([]authSignature, error) {
	if v.Type != xdr.ScValTypeScvVec || v.Vec == nil || *v.Vec == nil {
		return nil, ErrSignatureFormat.Withf("got %s", v.Type)
	}
	var out []authSignature
	for i, item := range **v.Vec {
		if item.Type != xdr.ScValTypeScvMap || item.Map == nil || *item.Map == nil {
			return nil, ErrSignatureFormat.Withf("element %d is %s", i, item.Type)
		}
		var s authSignature
		var havePub, haveSig bool
		for _, e := range **item.Map {
			if e.Key.Type != xdr.ScValTypeScvSymbol || e.Val.Type != xdr.ScValTypeScvBytes {
				continue
			}
			switch string(*e.Key.Sym) {
			case "public_key":
				if len(*e.Val.Bytes) != 32 {
					return nil, ErrSignatureFormat.Withf("element %d public key is %d bytes", i, len(*e.Val.Bytes))
				}
				copy(s.publicKey[:], *e.Val.Bytes)
				havePub = true
			case "signature":
				s.signature = append([]byte{}, *e.Val.Bytes...)
				haveSig = true
			}
		}
		if !havePub || !haveSig {
			return nil, ErrSignatureFormat.Withf("element %d needs public_key and signature", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func cloneEntry(entry xdr.SorobanAuthorizationEntry) (xdr.SorobanAuthorizationEntry, error) {
	raw, err := xdr.Marshal(entry)
	if err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	var out xdr.SorobanAuthorizationEntry
	if err := xdr.Unmarshal(raw, &out); err != nil {
		return xdr.SorobanAuthorizationEntry{}, err
	}
	return out, nil
}
