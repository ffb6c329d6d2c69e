package strkey

import (
	"encoding/hex"
	"strconv"
)

// Description is a decoded strkey. Byte fields are hex. Muxed accounts and
// signed payloads are also split into their parts.
type Description struct {
	Version       string `json:"version"`
	Payload       string `json:"payload"`
	AccountID     string `json:"account_id,omitempty"`
	MuxedID       string `json:"muxed_id,omitempty"`
	Signer        string `json:"signer,omitempty"`
	SignedPayload string `json:"signed_payload,omitempty"`
}

// Describe decodes any strkey.
func Describe(s string) (Description, error) {
	version, payload, err := DecodeAny(s)
	if err != nil {
		return Description{}, err
	}
	d := Description{Version: version.String(), Payload: hex.EncodeToString(payload)}
	switch version {
	case VersionByteMuxedAccount:
		m, err := DecodeMuxed(s)
		if err != nil {
			return Description{}, err
		}
		d.AccountID = m.AccountID()
		d.MuxedID = strconv.FormatUint(m.ID, 10)
	case VersionByteSignedPayload:
		sp, err := DecodeSignedPayload(s)
		if err != nil {
			return Description{}, err
		}
		d.Signer = MustEncode(VersionByteAccountID, sp.Signer[:])
		d.SignedPayload = hex.EncodeToString(sp.Payload)
	}
	return d, nil
}

// ParseVersion maps a leading character such as "G" or "C" to its version
// byte.
func ParseVersion(letter string) (VersionByte, error) {
	for v := range rawLen {
		if v.String() == letter {
			return v, nil
		}
	}
	if letter == VersionByteSignedPayload.String() {
		return VersionByteSignedPayload, nil
	}
	return 0, ErrInvalidVersionByte.Withf("unknown strkey kind %q", letter)
}
