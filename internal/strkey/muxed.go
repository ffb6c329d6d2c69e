package strkey

import "encoding/binary"

// MuxedAccount is the payload of an M address.
type MuxedAccount struct {
	Ed25519 [32]byte
	ID      uint64
}

// Address returns the M address.
func (m MuxedAccount) Address() string {
	raw := make([]byte, 40)
	copy(raw, m.Ed25519[:])
	binary.BigEndian.PutUint64(raw[32:], m.ID)
	return MustEncode(VersionByteMuxedAccount, raw)
}

// AccountID returns the underlying G address.
func (m MuxedAccount) AccountID() string {
	return MustEncode(VersionByteAccountID, m.Ed25519[:])
}

// EncodeMuxed returns the M address of key and id.
func EncodeMuxed(key [32]byte, id uint64) string {
	return MuxedAccount{Ed25519: key, ID: id}.Address()
}

// DecodeMuxed parses an M address.
func DecodeMuxed(s string) (MuxedAccount, error) {
	raw, err := Decode(VersionByteMuxedAccount, s)
	if err != nil {
		return MuxedAccount{}, err
	}
	var m MuxedAccount
	copy(m.Ed25519[:], raw[:32])
	m.ID = binary.BigEndian.Uint64(raw[32:])
	return m, nil
}
