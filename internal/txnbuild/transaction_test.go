package txnbuild

import (
	"encoding/base64"
	"strings"
	"testing"

	sdkkeypair "github.com/stellar/go-stellar-sdk/keypair"
	sdknetwork "github.com/stellar/go-stellar-sdk/network"
	sdktxnbuild "github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/xdr"
)

const testSeed = "SCPIYARVXYX57PKJDAGRZOOK5PVGP42J3CT3WKERQB25R5F3EXUJFOLS"

func randomAddress(t *testing.T) string {
	t.Helper()
	return keypair.MustRandom().Address()
}

func buildTx(t *testing.T, source string, ops ...Operation) *Transaction {
	t.Helper()
	account := NewSimpleAccount(source, 41)
	tx, err := NewTransaction(TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              MinBaseFee,
		Preconditions:        Preconditions{TimeBounds: NewTimebounds(0, 1700000000)},
		Operations:           ops,
	})
	require.NoError(t, err)
	return tx
}

func TestCreateAccountSignedRoundTrip(t *testing.T) {
	kp := keypair.MustParseFull(testSeed)
	tx := buildTx(t, kp.Address(), &CreateAccount{Destination: randomAddress(t), Amount: "10"})
	assert.Equal(t, int64(42), tx.SequenceNumber())
	assert.Equal(t, int64(100), tx.MaxFee())

	signed, err := tx.Sign(network.Testnet, kp)
	require.NoError(t, err)

	b64, err := signed.Base64()
	require.NoError(t, err)

	parsed, err := TransactionFromXDR(b64)
	require.NoError(t, err)
	ptx, ok := parsed.Transaction()
	require.True(t, ok)

	again, err := ptx.Base64()
	require.NoError(t, err)
	assert.Equal(t, b64, again)

	ops := ptx.Operations()
	require.Len(t, ops, 1)
	ca, ok := ops[0].(*CreateAccount)
	require.True(t, ok)
	assert.Equal(t, "10.0000000", ca.Amount)
	assert.Equal(t, int64(42), ptx.SequenceNumber())
	assert.Equal(t, int64(100), ptx.BaseFee())
}

func TestMatchesReferenceBuilder(t *testing.T) {
	kp := keypair.MustParseFull(testSeed)
	dest := randomAddress(t)
	issuer := randomAddress(t)

	account := NewSimpleAccount(kp.Address(), 100)
	tx, err := NewTransaction(TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              250,
		Memo:                 MemoText("invoice 7"),
		Preconditions:        Preconditions{TimeBounds: NewTimebounds(10, 1700000000)},
		Operations: []Operation{
			&CreateAccount{Destination: dest, Amount: "2.5"},
			&Payment{Destination: dest, Amount: "0.0000001", Asset: CreditAsset{Code: "USDC", Issuer: issuer}},
			&ManageData{Name: "config", Value: []byte("on")},
			&BumpSequence{BumpTo: 500},
		},
	})
	require.NoError(t, err)
	signed, err := tx.Sign(network.Testnet, kp)
	require.NoError(t, err)
	got, err := signed.Base64()
	require.NoError(t, err)

	refKP := sdkkeypair.MustParseFull(testSeed)
	refAccount := sdktxnbuild.NewSimpleAccount(refKP.Address(), 100)
	ref, err := sdktxnbuild.NewTransaction(sdktxnbuild.TransactionParams{
		SourceAccount:        &refAccount,
		IncrementSequenceNum: true,
		BaseFee:              250,
		Memo:                 sdktxnbuild.MemoText("invoice 7"),
		Preconditions:        sdktxnbuild.Preconditions{TimeBounds: sdktxnbuild.NewTimebounds(10, 1700000000)},
		Operations: []sdktxnbuild.Operation{
			&sdktxnbuild.CreateAccount{Destination: dest, Amount: "2.5"},
			&sdktxnbuild.Payment{Destination: dest, Amount: "0.0000001", Asset: sdktxnbuild.CreditAsset{Code: "USDC", Issuer: issuer}},
			&sdktxnbuild.ManageData{Name: "config", Value: []byte("on")},
			&sdktxnbuild.BumpSequence{BumpTo: 500},
		},
	})
	require.NoError(t, err)
	ref, err = ref.Sign(sdknetwork.TestNetworkPassphrase, refKP)
	require.NoError(t, err)
	want, err := ref.Base64()
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestNewTransactionValidation(t *testing.T) {
	source := randomAddress(t)
	payment := &Payment{Destination: randomAddress(t), Amount: "1", Asset: NativeAsset{}}

	tests := []struct {
		name   string
		params TransactionParams
		want   error
	}{
		{
			name:   "no operations",
			params: TransactionParams{BaseFee: MinBaseFee},
			want:   ErrOperationCount,
		},
		{
			name:   "too many operations",
			params: TransactionParams{BaseFee: MinBaseFee, Operations: repeatOp(payment, 101)},
			want:   ErrOperationCount,
		},
		{
			name:   "base fee below minimum",
			params: TransactionParams{BaseFee: 99, Operations: []Operation{payment}},
			want:   ErrBaseFee,
		},
		{
			name:   "memo too long",
			params: TransactionParams{BaseFee: MinBaseFee, Memo: MemoText(strings.Repeat("a", 29)), Operations: []Operation{payment}},
			want:   ErrMemoTooLong,
		},
		{
			name:   "fee overflow",
			params: TransactionParams{BaseFee: 1 << 31, Operations: repeatOp(payment, 2)},
			want:   ErrFeeOverflow,
		},
		{
			name:   "soroban with another operation",
			params: TransactionParams{BaseFee: MinBaseFee, Operations: []Operation{&RestoreFootprint{}, payment}},
			want:   ErrSorobanNotAlone,
		},
		{
			name:   "invalid amount",
			params: TransactionParams{BaseFee: MinBaseFee, Operations: []Operation{&Payment{Destination: source, Amount: "-1", Asset: NativeAsset{}}}},
			want:   ErrInvalidAmount,
		},
		{
			name:   "invalid destination",
			params: TransactionParams{BaseFee: MinBaseFee, Operations: []Operation{&Payment{Destination: "GBAD", Amount: "1", Asset: NativeAsset{}}}},
			want:   ErrInvalidAddress,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			account := NewSimpleAccount(source, 7)
			tc.params.SourceAccount = &account
			tc.params.IncrementSequenceNum = true
			_, err := NewTransaction(tc.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, sdkerr.KindValidation, sdkerr.KindOf(err))
			assert.Equal(t, int64(7), account.Sequence, "failed build must not consume a sequence number")
		})
	}
}

func repeatOp(op Operation, n int) []Operation {
	ops := make([]Operation, n)
	for i := range ops {
		ops[i] = op
	}
	return ops
}

func TestSignReturnsNewTransaction(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})

	signed, err := tx.Sign(network.Testnet, kp)
	require.NoError(t, err)
	assert.Empty(t, tx.Signatures())
	assert.Len(t, signed.Signatures(), 1)

	h1, err := tx.Hash(network.Testnet)
	require.NoError(t, err)
	h2, err := signed.Hash(network.Testnet)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	sigs := signed.Signatures()
	sigs[0].Signature[0] ^= 0xff
	checks, err := signed.VerifySignatures(network.Testnet, kp)
	require.NoError(t, err)
	assert.True(t, checks[0].Valid, "mutating a returned copy must not affect the transaction")
}

func TestSignatureIsNetworkBound(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})

	signed, err := tx.Sign(network.Public, kp)
	require.NoError(t, err)

	checks, err := signed.VerifySignatures(network.Public, kp)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Valid)
	assert.Equal(t, kp.Address(), checks[0].Signer)

	checks, err = signed.VerifySignatures(network.Testnet, kp)
	require.NoError(t, err)
	assert.False(t, checks[0].Valid)

	assert.NoError(t, signed.RequireSigners(network.Public, kp))
	err = signed.RequireSigners(network.Testnet, kp)
	assert.ErrorIs(t, err, ErrMissingSigner)
}

func TestSignWithAddressOnlyKeypair(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})

	_, err := tx.Sign(network.Testnet, kp.Public())
	assert.ErrorIs(t, err, keypair.ErrCannotSign)
}

func TestAddSignatureBase64(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})

	signed, err := tx.Sign(network.Testnet, kp)
	require.NoError(t, err)
	sig := signed.Signatures()[0].Signature

	detached, err := tx.AddSignatureBase64(network.Testnet, kp.Address(), base64.StdEncoding.EncodeToString(sig))
	require.NoError(t, err)
	a, _ := detached.Base64()
	b, _ := signed.Base64()
	assert.Equal(t, b, a)

	_, err = tx.AddSignatureBase64(network.Public, kp.Address(), base64.StdEncoding.EncodeToString(sig))
	assert.ErrorIs(t, err, ErrSignature)
	assert.Equal(t, sdkerr.KindCrypto, sdkerr.KindOf(err))
}

func TestSignHashX(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})

	signed, err := tx.SignHashX([]byte("open sesame"))
	require.NoError(t, err)
	require.Len(t, signed.Signatures(), 1)
	assert.Equal(t, []byte("open sesame"), []byte(signed.Signatures()[0].Signature))

	_, err = tx.SignHashX(make([]byte, 65))
	assert.ErrorIs(t, err, ErrSignature)
}

func TestSignatureLimit(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})

	kps := make([]keypair.KP, xdr.MaxSignatures+1)
	for i := range kps {
		kps[i] = kp
	}
	_, err := tx.Sign(network.Testnet, kps...)
	assert.ErrorIs(t, err, ErrSignatureCount)
}

func TestPreconditionsEncoding(t *testing.T) {
	source := randomAddress(t)
	op := &BumpSequence{BumpTo: 1}

	t.Run("none", func(t *testing.T) {
		account := NewSimpleAccount(source, 1)
		tx, err := NewTransaction(TransactionParams{SourceAccount: &account, BaseFee: MinBaseFee, Operations: []Operation{op}})
		require.NoError(t, err)
		assert.Equal(t, xdr.PreconditionTypePrecondNone, envelopeOf(t, tx).V1.Tx.Cond.Type)
	})

	t.Run("v2", func(t *testing.T) {
		account := NewSimpleAccount(source, 1)
		minSeq := int64(5)
		tx, err := NewTransaction(TransactionParams{
			SourceAccount: &account,
			BaseFee:       MinBaseFee,
			Operations:    []Operation{op},
			Preconditions: Preconditions{
				TimeBounds:        NewInfiniteTimeout(),
				LedgerBounds:      &LedgerBounds{MinLedger: 3, MaxLedger: 9},
				MinSequenceNumber: &minSeq,
				ExtraSigners:      []string{source},
			},
		})
		require.NoError(t, err)
		cond := envelopeOf(t, tx).V1.Tx.Cond
		require.Equal(t, xdr.PreconditionTypePrecondV2, cond.Type)
		assert.Equal(t, uint32(9), cond.V2.LedgerBounds.MaxLedger)
		assert.Equal(t, xdr.SequenceNumber(5), *cond.V2.MinSeqNum)
		require.Len(t, cond.V2.ExtraSigners, 1)

		b64, err := tx.Base64()
		require.NoError(t, err)
		parsed, err := TransactionFromXDR(b64)
		require.NoError(t, err)
		ptx, _ := parsed.Transaction()
		assert.Equal(t, []string{source}, ptx.Preconditions().ExtraSigners)
		assert.Equal(t, int64(5), *ptx.Preconditions().MinSequenceNumber)
	})

	t.Run("inverted ledger bounds", func(t *testing.T) {
		account := NewSimpleAccount(source, 1)
		_, err := NewTransaction(TransactionParams{
			SourceAccount: &account,
			BaseFee:       MinBaseFee,
			Operations:    []Operation{op},
			Preconditions: Preconditions{LedgerBounds: &LedgerBounds{MinLedger: 10, MaxLedger: 9}},
		})
		assert.ErrorIs(t, err, ErrInvalidBounds)
	})
}

func TestSorobanResourceFee(t *testing.T) {
	source := randomAddress(t)
	account := NewSimpleAccount(source, 1)
	data := &xdr.SorobanTransactionData{ResourceFee: 12345}
	tx, err := NewTransaction(TransactionParams{
		SourceAccount: &account,
		BaseFee:       MinBaseFee,
		Operations:    []Operation{&ExtendFootprintTtl{ExtendTo: 100, Ext: xdr.TransactionExt{V: 1, SorobanData: data}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100+12345), tx.MaxFee())

	env := envelopeOf(t, tx)
	assert.Equal(t, int32(1), env.V1.Tx.Ext.V)

	b64, err := tx.Base64()
	require.NoError(t, err)
	parsed, err := TransactionFromXDR(b64)
	require.NoError(t, err)
	ptx, _ := parsed.Transaction()
	assert.Equal(t, int64(100), ptx.BaseFee())
	ext := ptx.Operations()[0].(*ExtendFootprintTtl).Ext
	require.NotNil(t, ext.SorobanData)
	assert.Equal(t, int64(12345), ext.SorobanData.ResourceFee)
}

func TestParseV0Envelope(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTx(t, kp.Address(), &Inflation{})
	v1 := envelopeOf(t, tx).V1.Tx
	v0 := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTxV0,
		V0: &xdr.TransactionV0Envelope{Tx: xdr.TransactionV0{
			SourceAccountEd25519: *v1.SourceAccount.Ed25519,
			Fee:                  v1.Fee,
			SeqNum:               v1.SeqNum,
			TimeBounds:           v1.Cond.TimeBounds,
			Memo:                 v1.Memo,
			Operations:           v1.Operations,
		}},
	}
	b64, err := xdr.MarshalBase64(v0)
	require.NoError(t, err)

	parsed, err := TransactionFromXDR(b64)
	require.NoError(t, err)
	ptx, ok := parsed.Transaction()
	require.True(t, ok)

	signed, err := ptx.Sign(network.Testnet, kp)
	require.NoError(t, err)
	out, err := signed.Base64()
	require.NoError(t, err)
	var env xdr.TransactionEnvelope
	require.NoError(t, xdr.UnmarshalBase64(out, &env))
	assert.Equal(t, xdr.EnvelopeTypeEnvelopeTypeTxV0, env.Type)

	h0, err := signed.Hash(network.Testnet)
	require.NoError(t, err)
	h1, err := tx.Hash(network.Testnet)
	require.NoError(t, err)
	assert.Equal(t, h1, h0)
}

func TestTransactionFromXDRRejectsGarbage(t *testing.T) {
	_, err := TransactionFromXDR("not base64!")
	assert.ErrorIs(t, err, xdr.ErrInvalidBase64)
	assert.Equal(t, sdkerr.KindDecode, sdkerr.KindOf(err))
}

func envelopeOf(t *testing.T, tx interface {
	ToXDR() (xdr.TransactionEnvelope, error)
}) xdr.TransactionEnvelope {
	t.Helper()
	env, err := tx.ToXDR()
	require.NoError(t, err)
	return env
}

func TestToXDRReturnsDeepCopy(t *testing.T) {
	kp := keypair.MustRandom()
	tx, err := buildTx(t, kp.Address(), &ManageData{Name: "k", Value: []byte("v")}).Sign(network.Testnet, kp)
	require.NoError(t, err)

	env := envelopeOf(t, tx)
	env.V1.Signatures[0].Signature[0] ^= 0xff
	env.V1.Tx.Operations[0].Body.ManageDataOp.DataValue = nil
	assert.NoError(t, tx.RequireSigners(network.Testnet, kp))
	assert.NotNil(t, envelopeOf(t, tx).V1.Tx.Operations[0].Body.ManageDataOp.DataValue)
}

func TestCloneEnvelopeRejectsUnencodable(t *testing.T) {
	_, err := cloneEnvelope(xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeEnvelopeTypeTx})
	assert.ErrorIs(t, err, xdr.ErrInvalidValue)
	assert.ErrorContains(t, err, "copying envelope")

	_, err = TransactionFromEnvelope(xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeEnvelopeTypeTx})
	assert.Error(t, err)
}
