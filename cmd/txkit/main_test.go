package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/signing"
	"github.com/stellar-txkit/internal/soroban"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/txnbuild"
	"github.com/stellar-txkit/internal/xdr"
)

func run(t *testing.T, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	cmd := newRootCmd(envconfig.MapLookuper(env))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func envelope(t *testing.T, source *keypair.Full) string {
	t.Helper()
	account := txnbuild.NewSimpleAccount(source.Address(), 41)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Memo:                 txnbuild.MemoText("hello"),
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
		Operations:           []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 100}},
	})
	require.NoError(t, err)
	b64, err := tx.Base64()
	require.NoError(t, err)
	return b64
}

func hashOn(t *testing.T, n network.Network, b64 string) string {
	t.Helper()
	var env xdr.TransactionEnvelope
	require.NoError(t, xdr.UnmarshalBase64(b64, &env))
	hash, err := n.HashEnvelope(env)
	require.NoError(t, err)
	return network.HashHex(hash)
}

func TestKeys(t *testing.T) {
	out, err := run(t, nil, "", "keys", "random")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	seed := strings.TrimPrefix(lines[1], "Secret: ")
	kp, err := keypair.ParseFull(seed)
	require.NoError(t, err)
	assert.Equal(t, "Public: "+kp.Address(), lines[0])

	out, err = run(t, nil, seed+"\n", "keys", "address")
	require.NoError(t, err)
	assert.Equal(t, kp.Address()+"\n", out)

	_, err = run(t, nil, "", "keys", "address", kp.Address())
	assert.Error(t, err)
}

func TestStrKey(t *testing.T) {
	kp := keypair.MustRandom()
	raw, err := strkey.Decode(strkey.VersionByteAccountID, kp.Address())
	require.NoError(t, err)

	out, err := run(t, nil, "", "strkey", "encode", "G", hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, kp.Address()+"\n", out)

	out, err = run(t, nil, "", "strkey", "decode", kp.Address())
	require.NoError(t, err)
	var d strkey.Description
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, hex.EncodeToString(raw), d.Payload)

	_, err = run(t, nil, "", "strkey", "encode", "Q", "00")
	assert.ErrorIs(t, err, strkey.ErrInvalidVersionByte)
	_, err = run(t, nil, "", "strkey", "encode", "G", "zz")
	assert.ErrorContains(t, err, "payload is not hex")
}

func TestTxRepRoundTrip(t *testing.T) {
	b64 := envelope(t, keypair.MustRandom())

	text, err := run(t, nil, b64, "tx", "decode")
	require.NoError(t, err)
	assert.Contains(t, text, "tx.seqNum: 42")
	assert.Contains(t, text, `tx.memo.text: "hello"`)

	file := filepath.Join(t.TempDir(), "tx.txrep")
	require.NoError(t, os.WriteFile(file, []byte(text), 0o600))
	out, err := run(t, nil, "", "tx", "encode", file)
	require.NoError(t, err)
	assert.Equal(t, b64+"\n", out)

	_, err = run(t, nil, "", "tx", "decode")
	assert.ErrorContains(t, err, "no input")
}

func TestTxHashFollowsNetworkFlag(t *testing.T) {
	b64 := envelope(t, keypair.MustRandom())

	out, err := run(t, nil, "", "tx", "hash", b64)
	require.NoError(t, err)
	assert.Equal(t, hashOn(t, network.Testnet, b64)+"\n", out)

	out, err = run(t, map[string]string{"STELLAR_NETWORK": "testnet"}, "", "--network", "mainnet", "tx", "hash", b64)
	require.NoError(t, err)
	assert.Equal(t, hashOn(t, network.Public, b64)+"\n", out)

	_, err = run(t, map[string]string{"STELLAR_NETWORK": "nowhere"}, "", "tx", "hash", b64)
	assert.Error(t, err)
}

func TestTxSignAndInspect(t *testing.T) {
	kp := keypair.MustRandom()
	b64 := envelope(t, kp)
	env := map[string]string{"SIGNING_SECRET_KEY": kp.Seed()}

	_, err := run(t, nil, "", "tx", "sign", b64)
	assert.ErrorContains(t, err, "SIGNING_SECRET_KEY is not set")

	signed, err := run(t, env, "", "tx", "sign", b64)
	require.NoError(t, err)
	signed = strings.TrimSpace(signed)
	assert.NotEqual(t, b64, signed)

	out, err := run(t, nil, signed, "tx", "inspect")
	require.NoError(t, err)
	var summary signing.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, int64(42), summary.Sequence)
	require.Len(t, summary.Signatures, 1)
	assert.True(t, summary.Signatures[0].Valid)
	assert.Equal(t, kp.Address(), summary.Signatures[0].Signer)
	assert.Equal(t, hashOn(t, network.Testnet, b64), summary.Hash)
}

func TestAuthSign(t *testing.T) {
	kp := keypair.MustRandom()
	from, err := soroban.Address(kp.Address())
	require.NoError(t, err)
	fn, err := soroban.InvokeContract(xdr.ContractID(sha256.Sum256([]byte("token"))).String(), "burn", from, soroban.I64(7))
	require.NoError(t, err)
	addr, err := xdr.ScAddressFromString(kp.Address())
	require.NoError(t, err)
	entry := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsAddress,
			Address: &xdr.SorobanAddressCredentials{
				Address:   addr,
				Nonce:     99,
				Signature: soroban.Void(),
			},
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type:       xdr.SorobanAuthorizedFunctionTypeContractFn,
				ContractFn: fn.InvokeContract,
			},
		},
	}
	b64, err := xdr.MarshalBase64(entry)
	require.NoError(t, err)

	out, err := run(t, map[string]string{"SIGNING_SECRET_KEY": kp.Seed()}, "", "auth", "sign", b64, "--valid-until", "5000")
	require.NoError(t, err)
	var signed xdr.SorobanAuthorizationEntry
	require.NoError(t, xdr.UnmarshalBase64(strings.TrimSpace(out), &signed))
	assert.Equal(t, uint32(5000), signed.Credentials.Address.SignatureExpirationLedger)
	assert.NoError(t, soroban.VerifyEntry(signed, network.Testnet))

	_, err = run(t, map[string]string{"SIGNING_SECRET_KEY": keypair.MustRandom().Seed()}, "", "auth", "sign", b64, "--valid-until", "5000")
	assert.Error(t, err, "signature by another key does not verify")
}

func TestXDRParseAndOrder(t *testing.T) {
	dir := t.TempDir()
	types := filepath.Join(dir, "Stellar-types.x")
	ledger := filepath.Join(dir, "Stellar-ledger.x")
	require.NoError(t, os.WriteFile(types, []byte("typedef opaque Hash[32];\nconst MAX = 4;"), 0o600))
	require.NoError(t, os.WriteFile(ledger, []byte("struct Header { Hash prev; Hash set<MAX>; };"), 0o600))

	out, err := run(t, nil, "", "xdr", "parse", ledger, types)
	require.NoError(t, err)
	assert.Contains(t, out, "Stellar-types.x: 1 constants, 1 typedefs, 0 enums, 0 structs, 0 unions")
	assert.Contains(t, out, "Stellar-ledger.x uses [Stellar-types.x]")

	out, err = run(t, nil, "", "xdr", "order", ledger, types)
	require.NoError(t, err)
	assert.Equal(t, "Hash\nHeader\n", out)

	out, err = run(t, nil, "", "xdr", "order", "--files", ledger, types)
	require.NoError(t, err)
	assert.Equal(t, "Stellar-types.x\nStellar-ledger.x\n", out)

	_, err = run(t, nil, "", "xdr", "order", ledger)
	assert.ErrorContains(t, err, "unknown type Hash")
}

func TestURISignAndParse(t *testing.T) {
	kp := keypair.MustRandom()
	uri := "web+stellar:tx?xdr=" + strings.NewReplacer("+", "%2B", "/", "%2F", "=", "%3D").Replace(envelope(t, kp))

	_, err := run(t, map[string]string{"SIGNING_SECRET_KEY": kp.Seed()}, "", "uri", "sign", uri)
	assert.ErrorContains(t, err, "HOME_DOMAIN")

	env := map[string]string{"SIGNING_SECRET_KEY": kp.Seed(), "HOME_DOMAIN": "example.com"}
	signed, err := run(t, env, "", "uri", "sign", uri)
	require.NoError(t, err)
	signed = strings.TrimSpace(signed)
	assert.Contains(t, signed, "origin_domain=example.com")
	assert.Contains(t, signed, "signature=")

	out, err := run(t, nil, signed, "uri", "parse")
	require.NoError(t, err)
	var summary uriSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "tx", summary.Operation)
	assert.True(t, summary.Signed)
	assert.False(t, summary.OriginVerified)
	assert.Contains(t, summary.TxRep, `tx.memo.text: "hello"`)
}
