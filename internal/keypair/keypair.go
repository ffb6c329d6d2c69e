// Package keypair provides Ed25519 keys addressed by Stellar strkeys.
//
// A Full keypair holds a seed and can sign. A FromAddress keypair holds only
// the public key; it verifies signatures and fails every signing call with
// ErrCannotSign.
package keypair

import (
	"errors"

	sdkkeypair "github.com/stellar/go-stellar-sdk/keypair"

	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/xdr"
)

var (
	ErrCannotSign = sdkerr.New(sdkerr.KindValidation, "keypair_cannot_sign", "cannot sign: public-key-only keypair")
	ErrInvalidKey = sdkerr.New(sdkerr.KindDecode, "keypair_invalid_key", "invalid key")
	ErrRandomness = sdkerr.New(sdkerr.KindCrypto, "keypair_randomness", "reading random seed failed")
)

// KP is implemented by both keypair kinds.
type KP interface {
	Address() string
	Hint() [4]byte
	Verify(input, sig []byte) bool
	Sign(input []byte) ([]byte, error)
	SignDecorated(input []byte) (xdr.DecoratedSignature, error)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sdkkeypair.ErrCannotSign):
		return ErrCannotSign
	case errors.Is(err, sdkkeypair.ErrInvalidKey):
		return ErrInvalidKey.Wrap(err)
	}
	return err
}

// Random generates a keypair from crypto/rand.
func Random() (*Full, error) {
	kp, err := sdkkeypair.Random()
	if err != nil {
		return nil, ErrRandomness.Wrap(err)
	}
	return newFull(kp)
}

// MustRandom is Random that panics on error.
func MustRandom() *Full {
	kp, err := Random()
	if err != nil {
		panic(err)
	}
	return kp
}

// FromRawSeed derives a keypair from 32 seed bytes.
func FromRawSeed(seed [32]byte) (*Full, error) {
	kp, err := sdkkeypair.FromRawSeed(seed)
	if err != nil {
		return nil, mapError(err)
	}
	return newFull(kp)
}

func newFull(kp *sdkkeypair.Full) (*Full, error) {
	pub, err := ParseAddress(kp.Address())
	if err != nil {
		return nil, err
	}
	raw, err := strkey.Decode(strkey.VersionByteSeed, kp.Seed())
	if err != nil {
		return nil, err
	}
	full := &Full{FromAddress: *pub, full: kp}
	copy(full.seed[:], raw)
	return full, nil
}

// FromPublicKey returns a verify-only keypair for a raw public key.
func FromPublicKey(pub [32]byte) *FromAddress {
	return &FromAddress{
		public: pub,
		kp:     sdkkeypair.MustParseAddress(strkey.MustEncode(strkey.VersionByteAccountID, pub[:])),
	}
}

// ParseFull parses an S secret seed.
func ParseFull(seed string) (*Full, error) {
	if _, err := strkey.Decode(strkey.VersionByteSeed, seed); err != nil {
		return nil, err
	}
	kp, err := sdkkeypair.ParseFull(seed)
	if err != nil {
		return nil, mapError(err)
	}
	return newFull(kp)
}

// MustParseFull is ParseFull that panics on error.
func MustParseFull(seed string) *Full {
	kp, err := ParseFull(seed)
	if err != nil {
		panic(err)
	}
	return kp
}

// ParseAddress parses a G account id into a verify-only keypair.
func ParseAddress(address string) (*FromAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return nil, err
	}
	kp, err := sdkkeypair.ParseAddress(address)
	if err != nil {
		return nil, mapError(err)
	}
	out := &FromAddress{kp: kp}
	copy(out.public[:], raw)
	return out, nil
}

// Parse accepts either an S seed or a G address.
func Parse(s string) (KP, error) {
	v, err := strkey.Version(s)
	if err != nil {
		return nil, err
	}
	switch v {
	case strkey.VersionByteSeed:
		full, err := ParseFull(s)
		if err != nil {
			return nil, err
		}
		return full, nil
	case strkey.VersionByteAccountID:
		pub, err := ParseAddress(s)
		if err != nil {
			return nil, err
		}
		return pub, nil
	}
	return nil, ErrInvalidKey.Withf("%s key is neither a seed nor an account id", v)
}

// FromAddress is a public-key-only keypair.
type FromAddress struct {
	public [32]byte
	kp     *sdkkeypair.FromAddress
}

func (kp *FromAddress) Address() string {
	return kp.kp.Address()
}

// PublicKey returns the raw Ed25519 public key.
func (kp *FromAddress) PublicKey() [32]byte {
	return kp.public
}

// Hint is the last four bytes of the public key.
func (kp *FromAddress) Hint() [4]byte {
	return kp.kp.Hint()
}

// Verify reports whether sig is a valid signature of input.
func (kp *FromAddress) Verify(input, sig []byte) bool {
	return kp.kp.Verify(input, sig) == nil
}

func (kp *FromAddress) Sign([]byte) ([]byte, error) {
	return nil, ErrCannotSign
}

func (kp *FromAddress) SignDecorated([]byte) (xdr.DecoratedSignature, error) {
	return xdr.DecoratedSignature{}, ErrCannotSign
}

// AccountID returns the key as an XDR account id.
func (kp *FromAddress) AccountID() xdr.AccountID {
	return xdr.NewAccountID(xdr.Uint256(kp.public))
}

// MuxedAccount returns the key as a non-multiplexed XDR muxed account.
func (kp *FromAddress) MuxedAccount() xdr.MuxedAccount {
	raw := xdr.Uint256(kp.public)
	return xdr.MuxedAccount{Type: xdr.CryptoKeyTypeKeyTypeEd25519, Ed25519: &raw}
}

// SignerKey returns the key as an ed25519 signer key.
func (kp *FromAddress) SignerKey() xdr.SignerKey {
	raw := xdr.Uint256(kp.public)
	return xdr.SignerKey{Type: xdr.SignerKeyTypeSignerKeyTypeEd25519, Ed25519: &raw}
}

// Full is a keypair with its secret seed.
type Full struct {
	FromAddress
	seed [32]byte
	full *sdkkeypair.Full
}

// Seed returns the S strkey of the secret seed.
func (kp *Full) Seed() string {
	return kp.full.Seed()
}

// RawSeed returns the 32 seed bytes.
func (kp *Full) RawSeed() [32]byte {
	return kp.seed
}

// Public returns the verify-only half of kp.
func (kp *Full) Public() *FromAddress {
	pub := kp.FromAddress
	return &pub
}

// Sign returns the 64-byte Ed25519 signature of input.
func (kp *Full) Sign(input []byte) ([]byte, error) {
	sig, err := kp.full.Sign(input)
	return sig, mapError(err)
}

// SignDecorated signs input and attaches the key hint.
func (kp *Full) SignDecorated(input []byte) (xdr.DecoratedSignature, error) {
	sig, err := kp.Sign(input)
	if err != nil {
		return xdr.DecoratedSignature{}, err
	}
	return xdr.DecoratedSignature{Hint: xdr.SignatureHint(kp.Hint()), Signature: sig}, nil
}

// SignPayloadDecorated signs payload for an ed25519 signed payload signer.
// The hint is the key hint XORed with the last four payload bytes, zero
// padded on the right when the payload is shorter.
func (kp *Full) SignPayloadDecorated(payload []byte) (xdr.DecoratedSignature, error) {
	ds, err := kp.SignDecorated(payload)
	if err != nil {
		return ds, err
	}
	var tail [4]byte
	if len(payload) >= 4 {
		copy(tail[:], payload[len(payload)-4:])
	} else {
		copy(tail[:], payload)
	}
	for i := range ds.Hint {
		ds.Hint[i] ^= tail[i]
	}
	return ds, nil
}
