package strkey

import (
	"bytes"
	"crypto/rand"
	"testing"

	sdkstrkey "github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/sdkerr"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestChecksumIsXModemLittleEndian(t *testing.T) {
	// CRC-16/XMODEM check value of "123456789" is 0x31C3.
	assert.Equal(t, []byte{0xC3, 0x31}, checksum([]byte("123456789")))
	assert.Equal(t, []byte{0x00, 0x00}, checksum(nil))
}

func TestZeroAccountID(t *testing.T) {
	zero := make([]byte, 32)
	s, err := Encode(VersionByteAccountID, zero)
	require.NoError(t, err)
	assert.Equal(t, "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF", s)

	raw, err := Decode(VersionByteAccountID, s)
	require.NoError(t, err)
	assert.Equal(t, zero, raw)
	assert.Equal(t, s, MustEncode(VersionByteAccountID, raw))
}

func TestMatchesReferenceEncoder(t *testing.T) {
	for _, tc := range []struct {
		name string
		ours VersionByte
		ref  sdkstrkey.VersionByte
	}{
		{"account", VersionByteAccountID, sdkstrkey.VersionByteAccountID},
		{"seed", VersionByteSeed, sdkstrkey.VersionByteSeed},
		{"pre-auth tx", VersionByteHashTx, sdkstrkey.VersionByteHashTx},
		{"hash x", VersionByteHashX, sdkstrkey.VersionByteHashX},
		{"contract", VersionByteContract, sdkstrkey.VersionByteContract},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw := randomBytes(t, 32)
			want, err := sdkstrkey.Encode(tc.ref, raw)
			require.NoError(t, err)

			got, err := Encode(tc.ours, raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			back, err := Decode(tc.ours, got)
			require.NoError(t, err)
			assert.Equal(t, raw, back)
		})
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	cases := map[VersionByte]int{
		VersionByteAccountID:        32,
		VersionByteSeed:             32,
		VersionByteHashTx:           32,
		VersionByteHashX:            32,
		VersionByteContract:         32,
		VersionByteLiquidityPool:    32,
		VersionByteClaimableBalance: 33,
		VersionByteMuxedAccount:     40,
	}
	for v, n := range cases {
		raw := randomBytes(t, n)
		s, err := Encode(v, raw)
		require.NoError(t, err)
		assert.Equal(t, v.String(), s[:1])

		back, err := Decode(v, s)
		require.NoError(t, err)
		assert.Equal(t, raw, back)
		assert.Equal(t, s, MustEncode(v, back))
	}
}

func TestDecodeErrors(t *testing.T) {
	raw := randomBytes(t, 32)
	address := MustEncode(VersionByteAccountID, raw)

	t.Run("flipped payload bit", func(t *testing.T) {
		decoded, err := encoding.DecodeString(address)
		require.NoError(t, err)
		decoded[5] ^= 0x01
		_, err = Decode(VersionByteAccountID, encoding.EncodeToString(decoded))
		assert.ErrorIs(t, err, ErrChecksumMismatch)
		assert.Equal(t, sdkerr.KindDecode, sdkerr.KindOf(err))
	})

	t.Run("flipped checksum bit", func(t *testing.T) {
		decoded, err := encoding.DecodeString(address)
		require.NoError(t, err)
		decoded[len(decoded)-1] ^= 0x80
		_, err = Decode(VersionByteAccountID, encoding.EncodeToString(decoded))
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("wrong kind", func(t *testing.T) {
		seed := MustEncode(VersionByteSeed, raw)
		_, err := Decode(VersionByteAccountID, seed)
		assert.ErrorIs(t, err, ErrInvalidVersionByte)
	})

	t.Run("version byte with algorithm bits set", func(t *testing.T) {
		decoded, err := encoding.DecodeString(address)
		require.NoError(t, err)
		decoded[0] |= 0x01
		_, _, err = DecodeAny(encoding.EncodeToString(decoded))
		assert.ErrorIs(t, err, ErrInvalidVersionByte)
	})

	t.Run("invalid character", func(t *testing.T) {
		_, err := Decode(VersionByteAccountID, "g"+address[1:])
		assert.ErrorIs(t, err, ErrInvalidCharacter)

		_, err = Decode(VersionByteAccountID, address[:len(address)-1]+"1")
		assert.ErrorIs(t, err, ErrInvalidCharacter)
	})

	t.Run("padding is rejected", func(t *testing.T) {
		_, err := Decode(VersionByteAccountID, address+"====")
		assert.ErrorIs(t, err, ErrInvalidCharacter)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(VersionByteAccountID, address[:len(address)-8])
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("wrong payload size on encode", func(t *testing.T) {
		_, err := Encode(VersionByteAccountID, raw[:31])
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := DecodeAny("")
		assert.Error(t, err)
	})
}

func TestValidityHelpers(t *testing.T) {
	raw := randomBytes(t, 32)
	g := MustEncode(VersionByteAccountID, raw)
	s := MustEncode(VersionByteSeed, raw)

	assert.True(t, IsValidEd25519PublicKey(g))
	assert.False(t, IsValidEd25519PublicKey(s))
	assert.True(t, IsValidEd25519SecretSeed(s))
	assert.False(t, IsValidEd25519SecretSeed(g))

	v, err := Version(s)
	require.NoError(t, err)
	assert.Equal(t, VersionByteSeed, v)
}

func TestMuxed(t *testing.T) {
	var key [32]byte
	copy(key[:], randomBytes(t, 32))

	m := EncodeMuxed(key, 1234567890123)
	assert.Equal(t, "M", m[:1])

	got, err := DecodeMuxed(m)
	require.NoError(t, err)
	assert.Equal(t, key, got.Ed25519)
	assert.Equal(t, uint64(1234567890123), got.ID)
	assert.Equal(t, MustEncode(VersionByteAccountID, key[:]), got.AccountID())

	_, err = DecodeMuxed(got.AccountID())
	assert.ErrorIs(t, err, ErrInvalidVersionByte)
}

func TestSignedPayload(t *testing.T) {
	var signer [32]byte
	copy(signer[:], randomBytes(t, 32))

	for _, n := range []int{1, 4, 29, 64} {
		payload := randomBytes(t, n)
		p, err := EncodeSignedPayload(SignedPayload{Signer: signer, Payload: payload})
		require.NoError(t, err)
		assert.Equal(t, "P", p[:1])

		sp, err := DecodeSignedPayload(p)
		require.NoError(t, err)
		assert.Equal(t, signer, sp.Signer)
		assert.True(t, bytes.Equal(payload, sp.Payload))
	}

	_, err := EncodeSignedPayload(SignedPayload{Signer: signer, Payload: make([]byte, 65)})
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = EncodeSignedPayload(SignedPayload{Signer: signer})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDescribe(t *testing.T) {
	key := [32]byte{1, 2, 3}
	account := MustEncode(VersionByteAccountID, key[:])

	d, err := Describe(EncodeMuxed(key, 9))
	require.NoError(t, err)
	assert.Equal(t, "M", d.Version)
	assert.Equal(t, account, d.AccountID)
	assert.Equal(t, "9", d.MuxedID)

	p, err := EncodeSignedPayload(SignedPayload{Signer: key, Payload: []byte{0xab, 0xcd}})
	require.NoError(t, err)
	d, err = Describe(p)
	require.NoError(t, err)
	assert.Equal(t, "P", d.Version)
	assert.Equal(t, account, d.Signer)
	assert.Equal(t, "abcd", d.SignedPayload)

	d, err = Describe(account)
	require.NoError(t, err)
	assert.Equal(t, Description{Version: "G", Payload: "0102030000000000000000000000000000000000000000000000000000000000"}, d)

	_, err = Describe("GABC")
	assert.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	for _, letter := range []string{"G", "S", "T", "X", "M", "P", "C", "L", "B"} {
		v, err := ParseVersion(letter)
		require.NoError(t, err, letter)
		assert.Equal(t, letter, v.String())
	}
	_, err := ParseVersion("Z")
	assert.ErrorIs(t, err, ErrInvalidVersionByte)
}
