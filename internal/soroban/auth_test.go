package soroban

import (
	"crypto/sha256"
	"testing"

	sdknetwork "github.com/stellar/go-stellar-sdk/network"
	sdkxdr "github.com/stellar/go-stellar-sdk/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/xdr"
)

var tokenContract = xdr.ContractID(sha256.Sum256([]byte("token"))).String()

func transferInvocation(t *testing.T, from, to string, amount int64) xdr.SorobanAuthorizedInvocation {
	t.Helper()
	fromVal, err := Address(from)
	require.NoError(t, err)
	toVal, err := Address(to)
	require.NoError(t, err)
	fn, err := InvokeContract(tokenContract, "transfer", fromVal, toVal, I64(amount))
	require.NoError(t, err)
	return xdr.SorobanAuthorizedInvocation{
		Function: xdr.SorobanAuthorizedFunction{
			Type:       xdr.SorobanAuthorizedFunctionTypeContractFn,
			ContractFn: fn.InvokeContract,
		},
	}
}

func addressEntry(t *testing.T, kp keypair.KP, nonce int64, invocation xdr.SorobanAuthorizedInvocation) xdr.SorobanAuthorizationEntry {
	t.Helper()
	addr, err := xdr.ScAddressFromString(kp.Address())
	require.NoError(t, err)
	return xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsAddress,
			Address: &xdr.SorobanAddressCredentials{
				Address:   addr,
				Nonce:     nonce,
				Signature: Void(),
			},
		},
		RootInvocation: invocation,
	}
}

func TestAuthorizeEntryVerifies(t *testing.T) {
	kp := keypair.MustRandom()
	invocation := transferInvocation(t, kp.Address(), keypair.MustRandom().Address(), 100)
	entry := addressEntry(t, kp, 12345, invocation)

	signed, err := AuthorizeEntry(entry, kp, 1000000, network.Testnet)
	require.NoError(t, err)
	assert.Equal(t, uint32(1000000), signed.Credentials.Address.SignatureExpirationLedger)
	assert.Equal(t, xdr.ScValTypeScvVoid, entry.Credentials.Address.Signature.Type, "input entry is not modified")
	require.NoError(t, VerifyEntry(signed, network.Testnet))

	tamper := func(f func(e *xdr.SorobanAuthorizationEntry)) xdr.SorobanAuthorizationEntry {
		c, err := cloneEntry(signed)
		require.NoError(t, err)
		f(&c)
		return c
	}

	tests := map[string]xdr.SorobanAuthorizationEntry{
		"nonce": tamper(func(e *xdr.SorobanAuthorizationEntry) { e.Credentials.Address.Nonce = 12346 }),
		"expiration": tamper(func(e *xdr.SorobanAuthorizationEntry) {
			e.Credentials.Address.SignatureExpirationLedger = 1000001
		}),
		"invocation": tamper(func(e *xdr.SorobanAuthorizationEntry) {
			e.RootInvocation.Function.ContractFn.Args[2] = I64(101)
		}),
	}
	for name, e := range tests {
		t.Run(name, func(t *testing.T) {
			err := VerifyEntry(e, network.Testnet)
			assert.ErrorIs(t, err, ErrSignature)
			assert.Equal(t, sdkerr.KindCrypto, sdkerr.KindOf(err))
		})
	}

	assert.ErrorIs(t, VerifyEntry(signed, network.Public), ErrSignature)
}

func TestAuthorizationPayloadMatchesReference(t *testing.T) {
	kp := keypair.MustRandom()
	invocation := transferInvocation(t, kp.Address(), keypair.MustRandom().Address(), 7)
	got, err := AuthorizationPayload(network.Testnet, 12345, 1000000, invocation)
	require.NoError(t, err)

	raw, err := xdr.Marshal(invocation)
	require.NoError(t, err)
	var refInvocation sdkxdr.SorobanAuthorizedInvocation
	require.NoError(t, refInvocation.UnmarshalBinary(raw))
	preimage := sdkxdr.HashIdPreimage{
		Type: sdkxdr.EnvelopeTypeEnvelopeTypeSorobanAuthorization,
		SorobanAuthorization: &sdkxdr.HashIdPreimageSorobanAuthorization{
			NetworkId:                 sdkxdr.Hash(sha256.Sum256([]byte(sdknetwork.TestNetworkPassphrase))),
			Nonce:                     12345,
			SignatureExpirationLedger: 1000000,
			Invocation:                refInvocation,
		},
	}
	refRaw, err := preimage.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, sha256.Sum256(refRaw), got)
}

func TestAuthorizeEntryWrongSigner(t *testing.T) {
	owner := keypair.MustRandom()
	other := keypair.MustRandom()
	entry := addressEntry(t, owner, 1, transferInvocation(t, owner.Address(), other.Address(), 1))

	signed, err := AuthorizeEntry(entry, other, 50, network.Testnet)
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyEntry(signed, network.Testnet), ErrSignature)

	_, err = AuthorizeEntry(entry, owner.Public(), 50, network.Testnet)
	assert.ErrorIs(t, err, keypair.ErrCannotSign)
}

func TestAuthorizeSourceAccountEntry(t *testing.T) {
	kp := keypair.MustRandom()
	entry := xdr.SorobanAuthorizationEntry{
		Credentials:    xdr.SorobanCredentials{Type: xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount},
		RootInvocation: transferInvocation(t, kp.Address(), kp.Address(), 1),
	}
	out, err := AuthorizeEntry(entry, kp, 10, network.Testnet)
	require.NoError(t, err)
	assert.True(t, xdr.Equal(entry, out))
	assert.ErrorIs(t, VerifyEntry(out, network.Testnet), ErrCredentials)
}

func TestAuthorizeInvocation(t *testing.T) {
	kp := keypair.MustRandom()
	invocation := transferInvocation(t, kp.Address(), keypair.MustRandom().Address(), 5)

	a, err := AuthorizeInvocation(kp, 2000, invocation, network.Testnet)
	require.NoError(t, err)
	b, err := AuthorizeInvocation(kp, 2000, invocation, network.Testnet)
	require.NoError(t, err)

	assert.NoError(t, VerifyEntry(a, network.Testnet))
	assert.NoError(t, VerifyEntry(b, network.Testnet))
	assert.NotEqual(t, a.Credentials.Address.Nonce, b.Credentials.Address.Nonce)
	assert.Equal(t, kp.Address(), a.Credentials.Address.Address.String())
}

func TestVerifyEntryRejectsMalformedSignature(t *testing.T) {
	kp := keypair.MustRandom()
	entry := addressEntry(t, kp, 1, transferInvocation(t, kp.Address(), kp.Address(), 1))

	err := VerifyEntry(entry, network.Testnet)
	assert.ErrorIs(t, err, ErrSignatureFormat)

	entry.Credentials.Address.Signature = Vec(Map(xdr.ScMapEntry{Key: MustSymbol("public_key"), Val: Bytes([]byte{1, 2})}))
	assert.ErrorIs(t, VerifyEntry(entry, network.Testnet), ErrSignatureFormat)

	entry.Credentials.Address.Signature = Vec()
	assert.ErrorIs(t, VerifyEntry(entry, network.Testnet), ErrSignature)
}
