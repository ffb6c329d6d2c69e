package xdr

import "bytes"

// Hash is a SHA-256 digest.
type Hash [32]byte

// Uint256 holds raw 32-byte key material.
type Uint256 [32]byte

// SignatureHint is the last four bytes of the signing public key.
type SignatureHint [4]byte

// Signature is an Ed25519 signature, at most 64 bytes.
type Signature []byte

type (
	TimePoint      uint64
	Duration       uint64
	SequenceNumber int64
)

func (h Hash) EncodeTo(e *Encoder) error { return e.EncodeFixedOpaque(h[:], 32) }

func (h *Hash) DecodeFrom(d *Decoder) error { return d.DecodeFixedOpaqueInto(h[:]) }

func (u Uint256) EncodeTo(e *Encoder) error { return e.EncodeFixedOpaque(u[:], 32) }

func (u *Uint256) DecodeFrom(d *Decoder) error { return d.DecodeFixedOpaqueInto(u[:]) }

// ExtensionPoint is the reserved `union switch (int v) { case 0: void; }`.
type ExtensionPoint struct {
	V int32
}

func (ExtensionPoint) SwitchFieldName() string { return "V" }

func (ExtensionPoint) ArmForSwitch(sw int32) (string, bool) {
	return "", sw == 0
}

func (x ExtensionPoint) EncodeTo(e *Encoder) error {
	if x.V != 0 {
		return ErrInvalidValue.Withf("extension point: v=%d", x.V)
	}
	e.EncodeInt32(0)
	return nil
}

func (x *ExtensionPoint) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if v != 0 {
		return ErrInvalidDiscriminant.Withf("extension point: %d", v)
	}
	x.V = 0
	return nil
}

// CryptoKeyType enumerates key kinds; MUXED_ED25519 selects the muxed arm of
// MuxedAccount.
type CryptoKeyType int32

const (
	CryptoKeyTypeKeyTypeEd25519              CryptoKeyType = 0
	CryptoKeyTypeKeyTypePreAuthTx            CryptoKeyType = 1
	CryptoKeyTypeKeyTypeHashX                CryptoKeyType = 2
	CryptoKeyTypeKeyTypeEd25519SignedPayload CryptoKeyType = 3
	CryptoKeyTypeKeyTypeMuxedEd25519         CryptoKeyType = 0x100
)

var cryptoKeyTypeNames = enumNames{
	0:     "KEY_TYPE_ED25519",
	1:     "KEY_TYPE_PRE_AUTH_TX",
	2:     "KEY_TYPE_HASH_X",
	3:     "KEY_TYPE_ED25519_SIGNED_PAYLOAD",
	0x100: "KEY_TYPE_MUXED_ED25519",
}

func (t CryptoKeyType) String() string            { return cryptoKeyTypeNames.name(int32(t)) }
func (CryptoKeyType) ValidEnum(v int32) bool      { return cryptoKeyTypeNames.valid(v) }
func (CryptoKeyType) EnumNames() map[int32]string { return cryptoKeyTypeNames }

type PublicKeyType int32

const PublicKeyTypePublicKeyTypeEd25519 PublicKeyType = 0

var publicKeyTypeNames = enumNames{0: "PUBLIC_KEY_TYPE_ED25519"}

func (t PublicKeyType) String() string            { return publicKeyTypeNames.name(int32(t)) }
func (PublicKeyType) ValidEnum(v int32) bool      { return publicKeyTypeNames.valid(v) }
func (PublicKeyType) EnumNames() map[int32]string { return publicKeyTypeNames }

// PublicKey is an account or node identity.
type PublicKey struct {
	Type    PublicKeyType
	Ed25519 *Uint256
}

// AccountID identifies an account.
type AccountID = PublicKey

// NodeID identifies a validator.
type NodeID = PublicKey

// NewAccountID returns the ed25519 public key for raw.
func NewAccountID(raw Uint256) AccountID {
	return PublicKey{Type: PublicKeyTypePublicKeyTypeEd25519, Ed25519: &raw}
}

func (PublicKey) SwitchFieldName() string { return "Type" }

func (PublicKey) ArmForSwitch(sw int32) (string, bool) {
	if PublicKeyType(sw) == PublicKeyTypePublicKeyTypeEd25519 {
		return "Ed25519", true
	}
	return "", false
}

func (k PublicKey) EncodeTo(e *Encoder) error {
	if err := publicKeyTypeNames.encode(e, int32(k.Type), "PublicKey"); err != nil {
		return err
	}
	if k.Ed25519 == nil {
		return armMissing("PublicKey", "Ed25519")
	}
	return k.Ed25519.EncodeTo(e)
}

func (k *PublicKey) DecodeFrom(d *Decoder) error {
	v, err := publicKeyTypeNames.decode(d, "PublicKey")
	if err != nil {
		return err
	}
	*k = PublicKey{Type: PublicKeyType(v), Ed25519: new(Uint256)}
	return k.Ed25519.DecodeFrom(d)
}

// Equals compares two keys by value.
func (k PublicKey) Equals(o PublicKey) bool {
	if k.Type != o.Type || (k.Ed25519 == nil) != (o.Ed25519 == nil) {
		return false
	}
	return k.Ed25519 == nil || *k.Ed25519 == *o.Ed25519
}

type SignerKeyType int32

const (
	SignerKeyTypeSignerKeyTypeEd25519              SignerKeyType = 0
	SignerKeyTypeSignerKeyTypePreAuthTx            SignerKeyType = 1
	SignerKeyTypeSignerKeyTypeHashX                SignerKeyType = 2
	SignerKeyTypeSignerKeyTypeEd25519SignedPayload SignerKeyType = 3
)

var signerKeyTypeNames = enumNames{
	0: "SIGNER_KEY_TYPE_ED25519",
	1: "SIGNER_KEY_TYPE_PRE_AUTH_TX",
	2: "SIGNER_KEY_TYPE_HASH_X",
	3: "SIGNER_KEY_TYPE_ED25519_SIGNED_PAYLOAD",
}

func (t SignerKeyType) String() string            { return signerKeyTypeNames.name(int32(t)) }
func (SignerKeyType) ValidEnum(v int32) bool      { return signerKeyTypeNames.valid(v) }
func (SignerKeyType) EnumNames() map[int32]string { return signerKeyTypeNames }

// SignerKeyEd25519SignedPayload is the CAP-40 signed payload signer.
type SignerKeyEd25519SignedPayload struct {
	Ed25519 Uint256
	Payload []byte // opaque<64>
}

func (p SignerKeyEd25519SignedPayload) EncodeTo(e *Encoder) error {
	if err := p.Ed25519.EncodeTo(e); err != nil {
		return err
	}
	return e.EncodeOpaque(p.Payload, 64)
}

func (p *SignerKeyEd25519SignedPayload) DecodeFrom(d *Decoder) error {
	if err := p.Ed25519.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	p.Payload, err = d.DecodeOpaque(64)
	return err
}

type SignerKey struct {
	Type                 SignerKeyType
	Ed25519              *Uint256
	PreAuthTx            *Uint256
	HashX                *Uint256
	Ed25519SignedPayload *SignerKeyEd25519SignedPayload
}

func (SignerKey) SwitchFieldName() string { return "Type" }

func (SignerKey) ArmForSwitch(sw int32) (string, bool) {
	switch SignerKeyType(sw) {
	case SignerKeyTypeSignerKeyTypeEd25519:
		return "Ed25519", true
	case SignerKeyTypeSignerKeyTypePreAuthTx:
		return "PreAuthTx", true
	case SignerKeyTypeSignerKeyTypeHashX:
		return "HashX", true
	case SignerKeyTypeSignerKeyTypeEd25519SignedPayload:
		return "Ed25519SignedPayload", true
	}
	return "", false
}

func (k SignerKey) EncodeTo(e *Encoder) error {
	if err := signerKeyTypeNames.encode(e, int32(k.Type), "SignerKey"); err != nil {
		return err
	}
	var key *Uint256
	switch k.Type {
	case SignerKeyTypeSignerKeyTypeEd25519:
		key = k.Ed25519
	case SignerKeyTypeSignerKeyTypePreAuthTx:
		key = k.PreAuthTx
	case SignerKeyTypeSignerKeyTypeHashX:
		key = k.HashX
	case SignerKeyTypeSignerKeyTypeEd25519SignedPayload:
		if k.Ed25519SignedPayload == nil {
			return armMissing("SignerKey", "Ed25519SignedPayload")
		}
		return k.Ed25519SignedPayload.EncodeTo(e)
	}
	if key == nil {
		return armMissing("SignerKey", k.Type.String())
	}
	return key.EncodeTo(e)
}

func (k *SignerKey) DecodeFrom(d *Decoder) error {
	v, err := signerKeyTypeNames.decode(d, "SignerKey")
	if err != nil {
		return err
	}
	*k = SignerKey{Type: SignerKeyType(v)}
	switch k.Type {
	case SignerKeyTypeSignerKeyTypeEd25519:
		k.Ed25519 = new(Uint256)
		return k.Ed25519.DecodeFrom(d)
	case SignerKeyTypeSignerKeyTypePreAuthTx:
		k.PreAuthTx = new(Uint256)
		return k.PreAuthTx.DecodeFrom(d)
	case SignerKeyTypeSignerKeyTypeHashX:
		k.HashX = new(Uint256)
		return k.HashX.DecodeFrom(d)
	default:
		k.Ed25519SignedPayload = new(SignerKeyEd25519SignedPayload)
		return k.Ed25519SignedPayload.DecodeFrom(d)
	}
}

// DecoratedSignature pairs a signature with the hint of the key that made it.
type DecoratedSignature struct {
	Hint      SignatureHint
	Signature Signature
}

func (s DecoratedSignature) EncodeTo(e *Encoder) error {
	if err := e.EncodeFixedOpaque(s.Hint[:], 4); err != nil {
		return err
	}
	return e.EncodeOpaque(s.Signature, 64)
}

func (s *DecoratedSignature) DecodeFrom(d *Decoder) error {
	if err := d.DecodeFixedOpaqueInto(s.Hint[:]); err != nil {
		return err
	}
	sig, err := d.DecodeOpaque(64)
	if err != nil {
		return err
	}
	s.Signature = sig
	return nil
}

// MuxedAccountMed25519 is a multiplexed account: an ed25519 key plus an id.
type MuxedAccountMed25519 struct {
	ID      uint64
	Ed25519 Uint256
}

func (m MuxedAccountMed25519) EncodeTo(e *Encoder) error {
	e.EncodeUint64(m.ID)
	return m.Ed25519.EncodeTo(e)
}

func (m *MuxedAccountMed25519) DecodeFrom(d *Decoder) error {
	var err error
	if m.ID, err = d.DecodeUint64(); err != nil {
		return err
	}
	return m.Ed25519.DecodeFrom(d)
}

type MuxedAccount struct {
	Type     CryptoKeyType
	Ed25519  *Uint256
	Med25519 *MuxedAccountMed25519
}

// NewMuxedAccountFromAccountID wraps a plain account in a MuxedAccount.
func NewMuxedAccountFromAccountID(id AccountID) MuxedAccount {
	raw := *id.Ed25519
	return MuxedAccount{Type: CryptoKeyTypeKeyTypeEd25519, Ed25519: &raw}
}

func (MuxedAccount) SwitchFieldName() string { return "Type" }

func (MuxedAccount) ArmForSwitch(sw int32) (string, bool) {
	switch CryptoKeyType(sw) {
	case CryptoKeyTypeKeyTypeEd25519:
		return "Ed25519", true
	case CryptoKeyTypeKeyTypeMuxedEd25519:
		return "Med25519", true
	}
	return "", false
}

func (m MuxedAccount) EncodeTo(e *Encoder) error {
	switch m.Type {
	case CryptoKeyTypeKeyTypeEd25519:
		if m.Ed25519 == nil {
			return armMissing("MuxedAccount", "Ed25519")
		}
		e.EncodeInt32(int32(m.Type))
		return m.Ed25519.EncodeTo(e)
	case CryptoKeyTypeKeyTypeMuxedEd25519:
		if m.Med25519 == nil {
			return armMissing("MuxedAccount", "Med25519")
		}
		e.EncodeInt32(int32(m.Type))
		return m.Med25519.EncodeTo(e)
	}
	return ErrInvalidValue.Withf("MuxedAccount: key type %d", m.Type)
}

func (m *MuxedAccount) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*m = MuxedAccount{Type: CryptoKeyType(v)}
	switch m.Type {
	case CryptoKeyTypeKeyTypeEd25519:
		m.Ed25519 = new(Uint256)
		return m.Ed25519.DecodeFrom(d)
	case CryptoKeyTypeKeyTypeMuxedEd25519:
		m.Med25519 = new(MuxedAccountMed25519)
		return m.Med25519.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("MuxedAccount: %d", v)
}

// ToAccountID drops the multiplexing id.
func (m MuxedAccount) ToAccountID() AccountID {
	if m.Type == CryptoKeyTypeKeyTypeMuxedEd25519 && m.Med25519 != nil {
		return NewAccountID(m.Med25519.Ed25519)
	}
	if m.Ed25519 != nil {
		return NewAccountID(*m.Ed25519)
	}
	return PublicKey{}
}

// Signer is an account signer with its weight.
type Signer struct {
	Key    SignerKey
	Weight uint32
}

func (s Signer) EncodeTo(e *Encoder) error {
	if err := s.Key.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(s.Weight)
	return nil
}

func (s *Signer) DecodeFrom(d *Decoder) error {
	if err := s.Key.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	s.Weight, err = d.DecodeUint32()
	return err
}

// Equal reports whether the encodings of a and b are identical.
func Equal(a, b Encodable) bool {
	ab, err := Marshal(a)
	if err != nil {
		return false
	}
	bb, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
