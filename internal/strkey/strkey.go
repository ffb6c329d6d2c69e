// Package strkey encodes raw key, hash and id bytes as Stellar's checksummed
// base-32 strings (G..., S..., M..., C... and so on).
package strkey

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"

	"github.com/sigurn/crc16"

	"github.com/stellar-txkit/internal/sdkerr"
)

// VersionByte selects the kind of an encoded key. Its low three bits are
// always zero; the high five bits give the leading character.
type VersionByte byte

const (
	VersionByteAccountID        VersionByte = 6 << 3  // G
	VersionByteSeed             VersionByte = 18 << 3 // S
	VersionByteHashTx           VersionByte = 19 << 3 // T
	VersionByteHashX            VersionByte = 23 << 3 // X
	VersionByteMuxedAccount     VersionByte = 12 << 3 // M
	VersionByteSignedPayload    VersionByte = 15 << 3 // P
	VersionByteContract         VersionByte = 2 << 3  // C
	VersionByteLiquidityPool    VersionByte = 11 << 3 // L
	VersionByteClaimableBalance VersionByte = 1 << 3  // B
)

var (
	ErrInvalidVersionByte = sdkerr.New(sdkerr.KindDecode, "strkey_invalid_version_byte", "invalid version byte")
	ErrInvalidCharacter   = sdkerr.New(sdkerr.KindDecode, "strkey_invalid_character", "invalid base32 character")
	ErrInvalidLength      = sdkerr.New(sdkerr.KindDecode, "strkey_invalid_length", "invalid length")
	ErrChecksumMismatch   = sdkerr.New(sdkerr.KindDecode, "strkey_checksum_mismatch", "checksum mismatch")
	ErrInvalidPayload     = sdkerr.New(sdkerr.KindDecode, "strkey_invalid_payload", "invalid payload")
)

var (
	encoding = base32.StdEncoding.WithPadding(base32.NoPadding)
	xmodem   = crc16.MakeTable(crc16.CRC16_XMODEM)
)

// checksum is the CRC-16/XMODEM of b, little-endian.
func checksum(b []byte) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, crc16.Checksum(b, xmodem))
	return out
}

// rawLen is the payload size of each fixed-length kind.
var rawLen = map[VersionByte]int{
	VersionByteAccountID:        32,
	VersionByteSeed:             32,
	VersionByteHashTx:           32,
	VersionByteHashX:            32,
	VersionByteContract:         32,
	VersionByteLiquidityPool:    32,
	VersionByteClaimableBalance: 33,
	VersionByteMuxedAccount:     40,
}

const (
	minSignedPayloadRaw = 32 + 4 + 4
	maxSignedPayloadRaw = 32 + 4 + 64
)

func (v VersionByte) valid() bool {
	if v == VersionByteSignedPayload {
		return true
	}
	_, ok := rawLen[v]
	return ok
}

func checkRawLen(v VersionByte, n int) error {
	if v == VersionByteSignedPayload {
		if n < minSignedPayloadRaw || n > maxSignedPayloadRaw || n%4 != 0 {
			return ErrInvalidLength.Withf("signed payload of %d bytes", n)
		}
		return nil
	}
	if want := rawLen[v]; n != want {
		return ErrInvalidLength.Withf("expected %d bytes, got %d", want, n)
	}
	return nil
}

// Encode returns the strkey of src with the given version byte.
func Encode(version VersionByte, src []byte) (string, error) {
	if !version.valid() {
		return "", ErrInvalidVersionByte.Withf("unknown version byte %d", version)
	}
	if err := checkRawLen(version, len(src)); err != nil {
		return "", err
	}
	raw := make([]byte, 0, 1+len(src)+2)
	raw = append(raw, byte(version))
	raw = append(raw, src...)
	raw = append(raw, checksum(raw)...)
	return encoding.EncodeToString(raw), nil
}

// MustEncode is Encode that panics on error.
func MustEncode(version VersionByte, src []byte) string {
	s, err := Encode(version, src)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode returns the payload of s, which must be of the expected kind.
func Decode(expected VersionByte, s string) ([]byte, error) {
	version, payload, err := DecodeAny(s)
	if err != nil {
		return nil, err
	}
	if version != expected {
		return nil, ErrInvalidVersionByte.Withf("expected %s, got %s", expected, version)
	}
	return payload, nil
}

// DecodeAny decodes s and reports its kind.
func DecodeAny(s string) (VersionByte, []byte, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '2' && c <= '7') {
			return 0, nil, ErrInvalidCharacter.Withf("%q at position %d", c, i)
		}
	}
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return 0, nil, ErrInvalidLength.Wrap(err)
	}
	if len(raw) < 3 {
		return 0, nil, ErrInvalidLength.Withf("%d bytes", len(raw))
	}

	version := VersionByte(raw[0])
	if version&7 != 0 || !version.valid() {
		return 0, nil, ErrInvalidVersionByte.Withf("version byte %d", raw[0])
	}
	body, sum := raw[:len(raw)-2], raw[len(raw)-2:]
	payload := body[1:]
	if err := checkRawLen(version, len(payload)); err != nil {
		return 0, nil, err
	}
	if !bytes.Equal(checksum(body), sum) {
		return 0, nil, ErrChecksumMismatch
	}
	// Unused trailing bits of the last character must be zero.
	if encoding.EncodeToString(raw) != s {
		return 0, nil, ErrInvalidCharacter.Withf("non-canonical encoding")
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return version, out, nil
}

// Version returns the kind of s. s must be a fully valid strkey.
func Version(s string) (VersionByte, error) {
	v, _, err := DecodeAny(s)
	return v, err
}

// IsValidEd25519PublicKey reports whether s is a well-formed G address.
func IsValidEd25519PublicKey(s string) bool {
	_, err := Decode(VersionByteAccountID, s)
	return err == nil
}

// IsValidEd25519SecretSeed reports whether s is a well-formed S seed.
func IsValidEd25519SecretSeed(s string) bool {
	_, err := Decode(VersionByteSeed, s)
	return err == nil
}

func (v VersionByte) String() string {
	switch v {
	case VersionByteAccountID:
		return "G"
	case VersionByteSeed:
		return "S"
	case VersionByteHashTx:
		return "T"
	case VersionByteHashX:
		return "X"
	case VersionByteMuxedAccount:
		return "M"
	case VersionByteSignedPayload:
		return "P"
	case VersionByteContract:
		return "C"
	case VersionByteLiquidityPool:
		return "L"
	case VersionByteClaimableBalance:
		return "B"
	}
	return "?"
}
