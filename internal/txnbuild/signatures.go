package txnbuild

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/xdr"
)

// SignatureCheck is the outcome of checking one envelope signature against
// the candidate signers.
type SignatureCheck struct {
	Hint   [4]byte
	Signer string // address of the signer it verifies under, or ""
	Valid  bool
}

func copySignatures(sigs []xdr.DecoratedSignature) []xdr.DecoratedSignature {
	out := make([]xdr.DecoratedSignature, len(sigs))
	for i, s := range sigs {
		out[i] = xdr.DecoratedSignature{Hint: s.Hint, Signature: append(xdr.Signature{}, s.Signature...)}
	}
	return out
}

func signHash(hash [32]byte, existing []xdr.DecoratedSignature, kps []keypair.KP) ([]xdr.DecoratedSignature, error) {
	out := append([]xdr.DecoratedSignature{}, existing...)
	for _, kp := range kps {
		ds, err := kp.SignDecorated(hash[:])
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	if len(out) > xdr.MaxSignatures {
		return nil, ErrSignatureCount.Withf("%d signatures", len(out))
	}
	return out, nil
}

func hashXSignature(preimage []byte) (xdr.DecoratedSignature, error) {
	if len(preimage) == 0 || len(preimage) > 64 {
		return xdr.DecoratedSignature{}, ErrSignature.Withf("hash(x) preimage must be 1-64 bytes, got %d", len(preimage))
	}
	h := sha256.Sum256(preimage)
	var hint xdr.SignatureHint
	copy(hint[:], h[28:])
	return xdr.DecoratedSignature{Hint: hint, Signature: append([]byte{}, preimage...)}, nil
}

func appendSignatures(existing []xdr.DecoratedSignature, sigs []xdr.DecoratedSignature) ([]xdr.DecoratedSignature, error) {
	out := append(append([]xdr.DecoratedSignature{}, existing...), sigs...)
	if len(out) > xdr.MaxSignatures {
		return nil, ErrSignatureCount.Withf("%d signatures", len(out))
	}
	return out, nil
}

// decodeSignature checks a base64 signature from publicKey against hash.
func decodeSignature(hash [32]byte, publicKey, signature string) (xdr.DecoratedSignature, error) {
	kp, err := keypair.ParseAddress(publicKey)
	if err != nil {
		return xdr.DecoratedSignature{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return xdr.DecoratedSignature{}, ErrSignature.Withf("signature is not base64").Wrap(err)
	}
	if !kp.Verify(hash[:], raw) {
		return xdr.DecoratedSignature{}, ErrSignature.Withf("signature does not verify under %s", publicKey)
	}
	return xdr.DecoratedSignature{Hint: xdr.SignatureHint(kp.Hint()), Signature: raw}, nil
}

func checkSignatures(hash [32]byte, sigs []xdr.DecoratedSignature, signers []keypair.KP) []SignatureCheck {
	out := make([]SignatureCheck, len(sigs))
	for i, sig := range sigs {
		out[i].Hint = sig.Hint
		for _, kp := range signers {
			if kp.Hint() != [4]byte(sig.Hint) {
				continue
			}
			if kp.Verify(hash[:], sig.Signature) {
				out[i].Signer = kp.Address()
				out[i].Valid = true
				break
			}
		}
	}
	return out
}

func requireSigners(hash [32]byte, sigs []xdr.DecoratedSignature, signers []keypair.KP) error {
	checks := checkSignatures(hash, sigs, signers)
	for _, kp := range signers {
		found := false
		for _, c := range checks {
			if c.Valid && c.Signer == kp.Address() {
				found = true
				break
			}
		}
		if !found {
			return ErrMissingSigner.Withf("no valid signature from %s", kp.Address())
		}
	}
	return nil
}
