package xdr

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stellar/go-stellar-sdk/keypair"
	"github.com/stellar/go-stellar-sdk/network"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	sdkxdr "github.com/stellar/go-stellar-sdk/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeMatchesReferenceEncoding(t *testing.T) {
	source := keypair.MustRandom()
	dest := keypair.MustRandom().Address()
	issuer := keypair.MustRandom().Address()
	credit := txnbuild.CreditAsset{Code: "USDC", Issuer: issuer}

	account := txnbuild.NewSimpleAccount(source.Address(), 41)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Memo:                 txnbuild.MemoText("hello"),
		Preconditions: txnbuild.Preconditions{
			TimeBounds:   txnbuild.NewTimebounds(0, 1_700_000_000),
			LedgerBounds: &txnbuild.LedgerBounds{MinLedger: 10, MaxLedger: 20},
		},
		Operations: []txnbuild.Operation{
			&txnbuild.CreateAccount{Destination: dest, Amount: "10"},
			&txnbuild.Payment{Destination: dest, Amount: "1.5", Asset: credit},
			&txnbuild.ManageData{Name: "k", Value: []byte("value")},
			&txnbuild.SetOptions{
				HomeDomain:   txnbuild.NewHomeDomain("example.com"),
				MasterWeight: txnbuild.NewThreshold(10),
			},
			&txnbuild.ChangeTrust{Line: credit.MustToChangeTrustAsset(), Limit: "1000"},
			&txnbuild.PathPaymentStrictSend{
				SendAsset:   txnbuild.NativeAsset{},
				SendAmount:  "5",
				Destination: dest,
				DestAsset:   credit,
				DestMin:     "4",
				Path:        []txnbuild.Asset{txnbuild.CreditAsset{Code: "EURLONG", Issuer: issuer}},
			},
			&txnbuild.BumpSequence{BumpTo: 100},
			&txnbuild.Inflation{},
		},
	})
	require.NoError(t, err)
	tx, err = tx.Sign(network.TestNetworkPassphrase, source)
	require.NoError(t, err)

	ref, err := tx.Base64()
	require.NoError(t, err)

	var env TransactionEnvelope
	require.NoError(t, UnmarshalBase64(ref, &env))
	assert.Equal(t, EnvelopeTypeEnvelopeTypeTx, env.Type)
	require.Len(t, env.V1.Tx.Operations, 8)
	assert.Equal(t, "hello", *env.V1.Tx.Memo.Text)
	assert.Equal(t, uint32(20), env.V1.Tx.Cond.V2.LedgerBounds.MaxLedger)
	assert.Len(t, env.Signatures(), 1)

	got, err := MarshalBase64(env)
	require.NoError(t, err)
	assert.Equal(t, ref, got)

	t.Run("fee bump", func(t *testing.T) {
		feeSource := keypair.MustRandom()
		fb, err := txnbuild.NewFeeBumpTransaction(txnbuild.FeeBumpTransactionParams{
			Inner:      tx,
			FeeAccount: feeSource.Address(),
			BaseFee:    txnbuild.MinBaseFee * 2,
		})
		require.NoError(t, err)
		ref, err := fb.Base64()
		require.NoError(t, err)

		var env TransactionEnvelope
		require.NoError(t, UnmarshalBase64(ref, &env))
		assert.True(t, env.IsFeeBump())
		inner, ok := env.InnerTransaction()
		require.True(t, ok)
		assert.Len(t, inner.Operations, 8)

		got, err := MarshalBase64(env)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	})
}

func sorobanEnvelope(t *testing.T) TransactionEnvelope {
	t.Helper()
	src := NewAccountID(Uint256{1, 2, 3})
	contract := ContractID{9, 9, 9}
	amount := Int128Parts{Hi: 0, Lo: 1000}
	fn := ScSymbol("transfer")
	wasm := Hash{7}

	invokeArgs := InvokeContractArgs{
		ContractAddress: ScAddress{Type: ScAddressTypeScAddressTypeContract, ContractID: &contract},
		FunctionName:    fn,
		Args: []ScVal{
			{Type: ScValTypeScvAddress, Address: &ScAddress{Type: ScAddressTypeScAddressTypeAccount, AccountID: &src}},
			{Type: ScValTypeScvI128, I128: &amount},
		},
	}
	sig := ScVal{Type: ScValTypeScvVoid}
	contractKey := LedgerKey{
		Type: LedgerEntryTypeContractData,
		ContractData: &LedgerKeyContractData{
			Contract:   ScAddress{Type: ScAddressTypeScAddressTypeContract, ContractID: &contract},
			Key:        ScVal{Type: ScValTypeScvLedgerKeyContractInstance},
			Durability: ContractDataDurabilityPersistent,
		},
	}

	return TransactionEnvelope{
		Type: EnvelopeTypeEnvelopeTypeTx,
		V1: &TransactionV1Envelope{Tx: Transaction{
			SourceAccount: NewMuxedAccountFromAccountID(src),
			Fee:           12345,
			SeqNum:        7,
			Operations: []Operation{{Body: OperationBody{
				Type: OperationTypeInvokeHostFunction,
				InvokeHostFunctionOp: &InvokeHostFunctionOp{
					HostFunction: HostFunction{Type: HostFunctionTypeHostFunctionTypeInvokeContract, InvokeContract: &invokeArgs},
					Auth: []SorobanAuthorizationEntry{{
						Credentials: SorobanCredentials{
							Type: SorobanCredentialsTypeSorobanCredentialsAddress,
							Address: &SorobanAddressCredentials{
								Address:                   ScAddress{Type: ScAddressTypeScAddressTypeAccount, AccountID: &src},
								Nonce:                     42,
								SignatureExpirationLedger: 1000,
								Signature:                 sig,
							},
						},
						RootInvocation: SorobanAuthorizedInvocation{
							Function: SorobanAuthorizedFunction{
								Type:       SorobanAuthorizedFunctionTypeContractFn,
								ContractFn: &invokeArgs,
							},
						},
					}},
				},
			}}},
			Ext: TransactionExt{V: 1, SorobanData: &SorobanTransactionData{
				Resources: SorobanResources{
					Footprint: LedgerFootprint{
						ReadOnly:  []LedgerKey{{Type: LedgerEntryTypeContractCode, ContractCode: &LedgerKeyContractCode{Hash: wasm}}},
						ReadWrite: []LedgerKey{contractKey},
					},
					Instructions:  100000,
					DiskReadBytes: 2000,
					WriteBytes:    300,
				},
				ResourceFee: 5000,
			}},
		}},
	}
}

func TestSorobanEnvelopeMatchesReferenceDecoder(t *testing.T) {
	env := sorobanEnvelope(t)
	raw, err := Marshal(env)
	require.NoError(t, err)

	var ref sdkxdr.TransactionEnvelope
	require.NoError(t, sdkxdr.SafeUnmarshalBase64(base64.StdEncoding.EncodeToString(raw), &ref))
	assert.Len(t, ref.Operations(), 1)

	refB64, err := sdkxdr.MarshalBase64(ref)
	require.NoError(t, err)
	refRaw, err := base64.StdEncoding.DecodeString(refB64)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(raw, refRaw))

	var back TransactionEnvelope
	require.NoError(t, Unmarshal(raw, &back))
	assert.True(t, Equal(env, back))
	assert.Equal(t, "transfer", string(back.V1.Tx.Operations[0].Body.InvokeHostFunctionOp.HostFunction.InvokeContract.FunctionName))
}

func TestTransactionV0ToV1(t *testing.T) {
	tb := TimeBounds{MinTime: 1, MaxTime: 2}
	v0 := TransactionV0{
		SourceAccountEd25519: Uint256{5},
		Fee:                  100,
		SeqNum:               3,
		TimeBounds:           &tb,
		Memo:                 Memo{Type: MemoTypeMemoNone},
		Operations:           []Operation{{Body: OperationBody{Type: OperationTypeInflation}}},
	}
	v1 := v0.ToV1()
	assert.Equal(t, CryptoKeyTypeKeyTypeEd25519, v1.SourceAccount.Type)
	assert.Equal(t, Uint256{5}, *v1.SourceAccount.Ed25519)
	assert.Equal(t, PreconditionTypePrecondTime, v1.Cond.Type)
	assert.Equal(t, tb, *v1.Cond.TimeBounds)

	v0.TimeBounds = nil
	assert.Equal(t, PreconditionTypePrecondNone, v0.ToV1().Cond.Type)
}

func TestEnvelopeAccessorsWithMissingArm(t *testing.T) {
	for _, typ := range []EnvelopeType{
		EnvelopeTypeEnvelopeTypeTxV0,
		EnvelopeTypeEnvelopeTypeTx,
		EnvelopeTypeEnvelopeTypeTxFeeBump,
	} {
		env := TransactionEnvelope{Type: typ}
		require.NotPanics(t, func() {
			assert.Nil(t, env.Signatures())
			_, ok := env.InnerTransaction()
			assert.False(t, ok)
		}, "envelope type %d", typ)
	}
}
