package txnbuild

import (
	"encoding/hex"
	"strings"
	"testing"

	sdktxnbuild "github.com/stellar/go-stellar-sdk/txnbuild"
	sdkxdr "github.com/stellar/go-stellar-sdk/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/xdr"
)

func ptr[T any](v T) *T { return &v }

func TestOperationRoundTrip(t *testing.T) {
	a := randomAddress(t)
	b := randomAddress(t)
	usd := CreditAsset{Code: "USD", Issuer: b}
	eurt := CreditAsset{Code: "EURTOKEN", Issuer: b}
	poolID := LiquidityPoolID(strings.Repeat("ab", 32))
	balanceID := "00000000" + strings.Repeat("cd", 32)
	muxed := strkey.EncodeMuxed(keypair.MustRandom().PublicKey(), 77)

	ops := []Operation{
		&CreateAccount{Destination: a, Amount: "100", SourceAccount: b},
		&Payment{Destination: muxed, Amount: "1.5", Asset: usd},
		&PathPaymentStrictReceive{SendAsset: NativeAsset{}, SendMax: "10", Destination: a, DestAsset: usd, DestAmount: "9", Path: []Asset{eurt}},
		&PathPaymentStrictSend{SendAsset: usd, SendAmount: "3", Destination: a, DestAsset: NativeAsset{}, DestMin: "2.9"},
		&ManageSellOffer{Selling: usd, Buying: NativeAsset{}, Amount: "50", Price: Price{N: 3, D: 2}},
		&ManageBuyOffer{Selling: NativeAsset{}, Buying: eurt, Amount: "0", Price: Price{N: 1, D: 1}, OfferID: 12},
		&CreatePassiveSellOffer{Selling: usd, Buying: eurt, Amount: "7", Price: Price{N: 5, D: 9}},
		&SetOptions{
			InflationDestination: ptr(a),
			SetFlags:             []AccountFlag{AuthRequired, AuthRevocable},
			MasterWeight:         ptr(Threshold(10)),
			HomeDomain:           ptr("example.com"),
			Signer:               &Signer{Address: b, Weight: 5},
		},
		&ChangeTrust{Line: usd, Limit: "1000"},
		&ChangeTrust{Line: LiquidityPoolShareAsset{AssetA: NativeAsset{}, AssetB: usd}},
		&AllowTrust{Trustor: a, Type: usd, Authorize: true},
		&AccountMerge{Destination: a},
		&Inflation{SourceAccount: a},
		&ManageData{Name: "key", Value: []byte("value")},
		&ManageData{Name: "gone"},
		&BumpSequence{BumpTo: 1 << 40},
		&CreateClaimableBalance{Amount: "4", Asset: usd, Destinations: []Claimant{
			{Destination: a, Predicate: UnconditionalPredicate},
			{Destination: b, Predicate: AndPredicate(BeforeRelativeTimePredicate(3600), NotPredicate(BeforeAbsoluteTimePredicate(1700000000)))},
		}},
		&ClaimClaimableBalance{BalanceID: balanceID},
		&BeginSponsoringFutureReserves{SponsoredID: a},
		&EndSponsoringFutureReserves{SourceAccount: a},
		&RevokeSponsorship{Signer: &SignerID{AccountID: a, SignerAddress: b}},
		&RevokeSponsorship{LedgerKey: &xdr.LedgerKey{Type: xdr.LedgerEntryTypeAccount, Account: &xdr.LedgerKeyAccount{AccountID: xdr.MustAddress(a)}}},
		&Clawback{From: a, Amount: "1", Asset: usd},
		&ClawbackClaimableBalance{BalanceID: balanceID},
		&SetTrustLineFlags{Trustor: a, Asset: usd, SetFlags: []TrustLineFlag{TrustLineAuthorized}, ClearFlags: []TrustLineFlag{TrustLineClawbackEnabled}},
		&LiquidityPoolDeposit{LiquidityPoolID: poolID, MaxAmountA: "1", MaxAmountB: "2", MinPrice: Price{N: 1, D: 3}, MaxPrice: Price{N: 3, D: 1}},
		&LiquidityPoolWithdraw{LiquidityPoolID: poolID, Amount: "1", MinAmountA: "0", MinAmountB: "0"},
		&ExtendFootprintTtl{ExtendTo: 5000},
		&RestoreFootprint{},
	}

	for _, op := range ops {
		x, err := op.BuildXDR()
		require.NoError(t, err, "%T", op)
		name := OperationName(x.Body.Type)
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, op.Validate())
			parsed, err := OperationFromXDR(x)
			require.NoError(t, err)
			assert.IsType(t, op, parsed)

			again, err := parsed.BuildXDR()
			require.NoError(t, err)
			assert.True(t, xdr.Equal(x, again), "rebuilt operation differs")
			assert.Equal(t, op.GetSourceAccount(), parsed.GetSourceAccount())
		})
	}
}

func TestOperationsMatchReferenceEncoding(t *testing.T) {
	a := randomAddress(t)
	issuer := randomAddress(t)

	tests := []struct {
		name string
		op   Operation
		ref  sdktxnbuild.Operation
	}{
		{
			name: "manage sell offer",
			op:   &ManageSellOffer{Selling: NativeAsset{}, Buying: CreditAsset{Code: "ABCDE", Issuer: issuer}, Amount: "12.25", Price: Price{N: 7, D: 4}},
			ref: &sdktxnbuild.ManageSellOffer{Selling: sdktxnbuild.NativeAsset{}, Buying: sdktxnbuild.CreditAsset{Code: "ABCDE", Issuer: issuer}, Amount: "12.25",
				Price: sdkxdr.Price{N: 7, D: 4}},
		},
		{
			name: "set options",
			op:   &SetOptions{ClearFlags: []AccountFlag{AuthRevocable}, LowThreshold: ptr(Threshold(1)), HighThreshold: ptr(Threshold(3))},
			ref: &sdktxnbuild.SetOptions{ClearFlags: []sdktxnbuild.AccountFlag{sdktxnbuild.AuthRevocable},
				LowThreshold: sdktxnbuild.NewThreshold(1), HighThreshold: sdktxnbuild.NewThreshold(3)},
		},
		{
			name: "change trust default limit",
			op:   &ChangeTrust{Line: CreditAsset{Code: "USD", Issuer: issuer}, SourceAccount: a},
			ref:  &sdktxnbuild.ChangeTrust{Line: sdktxnbuild.CreditAsset{Code: "USD", Issuer: issuer}.MustToChangeTrustAsset(), SourceAccount: a},
		},
		{
			name: "claimable balance",
			op: &CreateClaimableBalance{Amount: "1", Asset: NativeAsset{}, Destinations: []Claimant{
				{Destination: a, Predicate: OrPredicate(UnconditionalPredicate, BeforeRelativeTimePredicate(60))},
			}},
			ref: &sdktxnbuild.CreateClaimableBalance{Amount: "1", Asset: sdktxnbuild.NativeAsset{}, Destinations: []sdktxnbuild.Claimant{
				sdktxnbuild.NewClaimant(a, ptr(sdktxnbuild.OrPredicate(sdktxnbuild.UnconditionalPredicate, sdktxnbuild.BeforeRelativeTimePredicate(60)))),
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, err := tc.op.BuildXDR()
			require.NoError(t, err)
			got, err := xdr.Marshal(x)
			require.NoError(t, err)

			rx, err := tc.ref.BuildXDR()
			require.NoError(t, err)
			want, err := rx.MarshalBinary()
			require.NoError(t, err)

			assert.Equal(t, hex.EncodeToString(want), hex.EncodeToString(got))
		})
	}
}

func TestOperationValidation(t *testing.T) {
	a := randomAddress(t)
	usd := CreditAsset{Code: "USD", Issuer: randomAddress(t)}

	tests := []struct {
		name string
		op   Operation
		want error
	}{
		{"negative create amount", &CreateAccount{Destination: a, Amount: "-1"}, ErrInvalidAmount},
		{"too many decimals", &Payment{Destination: a, Amount: "1.00000001", Asset: usd}, ErrInvalidAmount},
		{"missing asset", &Payment{Destination: a, Amount: "1"}, ErrInvalidAsset},
		{"long path", &PathPaymentStrictSend{SendAsset: usd, SendAmount: "1", Destination: a, DestAsset: usd, DestMin: "1",
			Path: []Asset{usd, usd, usd, usd, usd, usd}}, ErrInvalidOperation},
		{"zero price", &ManageSellOffer{Selling: usd, Buying: NativeAsset{}, Amount: "1", Price: Price{N: 0, D: 1}}, ErrInvalidPrice},
		{"long data name", &ManageData{Name: strings.Repeat("n", 65)}, ErrInvalidOperation},
		{"long home domain", &SetOptions{HomeDomain: ptr(strings.Repeat("d", 33))}, ErrInvalidOperation},
		{"native trustline", &ChangeTrust{Line: NativeAsset{}}, ErrInvalidAsset},
		{"unordered pool", &ChangeTrust{Line: LiquidityPoolShareAsset{AssetA: usd, AssetB: NativeAsset{}}}, ErrInvalidAsset},
		{"native clawback", &Clawback{From: a, Amount: "1", Asset: NativeAsset{}}, ErrInvalidAsset},
		{"empty allow trust code", &AllowTrust{Trustor: a, Type: CreditAsset{Issuer: a}}, ErrInvalidAsset},
		{"revoke nothing", &RevokeSponsorship{}, ErrInvalidOperation},
		{"no claimants", &CreateClaimableBalance{Amount: "1", Asset: usd}, ErrInvalidOperation},
		{"bad balance id", &ClaimClaimableBalance{BalanceID: "zz"}, ErrInvalidOperation},
		{"bad pool id", &LiquidityPoolWithdraw{LiquidityPoolID: "00", Amount: "1", MinAmountA: "0", MinAmountB: "0"}, ErrInvalidOperation},
		{"zero ttl extension", &ExtendFootprintTtl{}, ErrInvalidOperation},
		{"bad source", &Inflation{SourceAccount: "GXYZ"}, ErrInvalidAddress},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.op.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "validation failed for")
			assert.Equal(t, sdkerr.KindValidation, sdkerr.KindOf(err))
		})
	}
}

func TestCreateAccountZeroStartingBalance(t *testing.T) {
	op := &CreateAccount{Destination: randomAddress(t), Amount: "0"}
	require.NoError(t, op.Validate())
	x, err := op.BuildXDR()
	require.NoError(t, err)
	assert.Equal(t, int64(0), x.Body.CreateAccountOp.StartingBalance)
}

func TestOperationFromXDRWrongType(t *testing.T) {
	x, err := (&Inflation{}).BuildXDR()
	require.NoError(t, err)
	var p Payment
	assert.Error(t, p.FromXDR(x))
}

func TestParseAsset(t *testing.T) {
	issuer := randomAddress(t)

	a, err := ParseAsset("native")
	require.NoError(t, err)
	assert.True(t, a.IsNative())

	a, err = ParseAsset("USDC:" + issuer)
	require.NoError(t, err)
	assert.Equal(t, "USDC", a.GetCode())
	assert.Equal(t, issuer, a.GetIssuer())
	assert.Equal(t, "USDC:"+issuer, a.String())

	x, err := a.ToXDR()
	require.NoError(t, err)
	back, err := AssetFromXDR(x)
	require.NoError(t, err)
	assert.Equal(t, a, back)

	for _, bad := range []string{"USDC", "TOOLONGASSETCODE:" + issuer, "US-D:" + issuer, "USD:GBAD"} {
		_, err := ParseAsset(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("1.25")
	require.NoError(t, err)
	assert.Equal(t, Price{N: 5, D: 4}, p)
	assert.Equal(t, "1.2500000", p.String())

	_, err = ParsePrice("abc")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestPoolIDMatchesReference(t *testing.T) {
	issuer := randomAddress(t)
	share := LiquidityPoolShareAsset{AssetA: NativeAsset{}, AssetB: CreditAsset{Code: "USD", Issuer: issuer}}
	id, err := share.PoolID()
	require.NoError(t, err)

	ref, err := sdktxnbuild.NewLiquidityPoolId(sdktxnbuild.NativeAsset{}, sdktxnbuild.CreditAsset{Code: "USD", Issuer: issuer})
	require.NoError(t, err)
	assert.Equal(t, [32]byte(ref), [32]byte(id))

	_, err = LiquidityPoolShareAsset{AssetA: share.AssetB, AssetB: share.AssetA}.PoolID()
	assert.ErrorIs(t, err, ErrInvalidAsset)
}

func TestParseBalanceID(t *testing.T) {
	hexID := "00000000" + strings.Repeat("0f", 32)
	id, err := ParseBalanceID(hexID)
	require.NoError(t, err)
	require.NotNil(t, id.V0)
	assert.Equal(t, byte(0x0f), id.V0[31])

	out, err := BalanceIDString(id)
	require.NoError(t, err)
	assert.Equal(t, hexID, out)

	raw := append([]byte{0}, id.V0[:]...)
	b, err := strkey.Encode(strkey.VersionByteClaimableBalance, raw)
	require.NoError(t, err)
	fromStrkey, err := ParseBalanceID(b)
	require.NoError(t, err)
	assert.Equal(t, id, fromStrkey)

	_, err = ParseBalanceID("00000001" + strings.Repeat("0f", 32))
	assert.ErrorIs(t, err, ErrInvalidOperation)
}
