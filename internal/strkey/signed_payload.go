package strkey

import "encoding/binary"

// MaxSignedPayloadLen is the largest payload a P signer may carry.
const MaxSignedPayloadLen = 64

// SignedPayload is the payload of a P address: an ed25519 signer and the
// bytes it must sign.
type SignedPayload struct {
	Signer  [32]byte
	Payload []byte
}

// EncodeSignedPayload returns the P address of sp.
func EncodeSignedPayload(sp SignedPayload) (string, error) {
	n := len(sp.Payload)
	if n == 0 || n > MaxSignedPayloadLen {
		return "", ErrInvalidPayload.Withf("payload must be 1-%d bytes, got %d", MaxSignedPayloadLen, n)
	}
	padded := (n + 3) &^ 3
	raw := make([]byte, 32+4+padded)
	copy(raw, sp.Signer[:])
	binary.BigEndian.PutUint32(raw[32:], uint32(n))
	copy(raw[36:], sp.Payload)
	return Encode(VersionByteSignedPayload, raw)
}

// DecodeSignedPayload parses a P address.
func DecodeSignedPayload(s string) (SignedPayload, error) {
	raw, err := Decode(VersionByteSignedPayload, s)
	if err != nil {
		return SignedPayload{}, err
	}
	n := int(binary.BigEndian.Uint32(raw[32:36]))
	if n == 0 || n > MaxSignedPayloadLen {
		return SignedPayload{}, ErrInvalidPayload.Withf("declared payload length %d", n)
	}
	if len(raw) != 36+((n+3)&^3) {
		return SignedPayload{}, ErrInvalidLength.Withf("payload length %d does not match %d bytes", n, len(raw)-36)
	}
	for _, b := range raw[36+n:] {
		if b != 0 {
			return SignedPayload{}, ErrInvalidPayload.Withf("non-zero padding")
		}
	}
	sp := SignedPayload{Payload: append([]byte(nil), raw[36:36+n]...)}
	copy(sp.Signer[:], raw[:32])
	return sp, nil
}
