package txnbuild

import (
	"bytes"
	"crypto/sha256"
	"strings"

	"github.com/stellar-txkit/internal/xdr"
)

// Asset is the native asset or a credit asset.
type Asset interface {
	IsNative() bool
	GetCode() string
	GetIssuer() string
	ToXDR() (xdr.Asset, error)
	String() string
	ChangeTrustAsset
}

// ChangeTrustAsset is anything a trustline can be opened to: an Asset or a
// pool share.
type ChangeTrustAsset interface {
	ToChangeTrustXDR() (xdr.ChangeTrustAsset, error)
}

// NativeAsset is lumens.
type NativeAsset struct{}

func (NativeAsset) IsNative() bool    { return true }
func (NativeAsset) GetCode() string   { return "" }
func (NativeAsset) GetIssuer() string { return "" }
func (NativeAsset) String() string    { return "native" }

func (NativeAsset) ToXDR() (xdr.Asset, error) {
	return xdr.Asset{Type: xdr.AssetTypeAssetTypeNative}, nil
}

func (a NativeAsset) ToChangeTrustXDR() (xdr.ChangeTrustAsset, error) {
	x, _ := a.ToXDR()
	return x.ToChangeTrustAsset(), nil
}

// CreditAsset is an issued asset with a 1-12 character code.
type CreditAsset struct {
	Code   string
	Issuer string
}

func (CreditAsset) IsNative() bool      { return false }
func (a CreditAsset) GetCode() string   { return a.Code }
func (a CreditAsset) GetIssuer() string { return a.Issuer }
func (a CreditAsset) String() string    { return a.Code + ":" + a.Issuer }

func (a CreditAsset) ToXDR() (xdr.Asset, error) {
	for _, c := range a.Code {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return xdr.Asset{}, ErrInvalidAsset.Withf("asset code %q must be alphanumeric", a.Code)
		}
	}
	issuer, err := parseAccountID("issuer", a.Issuer)
	if err != nil {
		return xdr.Asset{}, err
	}
	x, err := xdr.NewCreditAsset(a.Code, issuer)
	if err != nil {
		return xdr.Asset{}, ErrInvalidAsset.Wrap(err)
	}
	return x, nil
}

func (a CreditAsset) ToChangeTrustXDR() (xdr.ChangeTrustAsset, error) {
	x, err := a.ToXDR()
	if err != nil {
		return xdr.ChangeTrustAsset{}, err
	}
	return x.ToChangeTrustAsset(), nil
}

// ParseAsset reads "native" or "CODE:ISSUER".
func ParseAsset(s string) (Asset, error) {
	if s == "native" || s == "XLM" {
		return NativeAsset{}, nil
	}
	code, issuer, ok := strings.Cut(s, ":")
	if !ok {
		return nil, ErrInvalidAsset.Withf("%q is not native or CODE:ISSUER", s)
	}
	a := CreditAsset{Code: code, Issuer: issuer}
	if _, err := a.ToXDR(); err != nil {
		return nil, err
	}
	return a, nil
}

// AssetFromXDR converts a network asset.
func AssetFromXDR(x xdr.Asset) (Asset, error) {
	switch x.Type {
	case xdr.AssetTypeAssetTypeNative:
		return NativeAsset{}, nil
	case xdr.AssetTypeAssetTypeCreditAlphanum4, xdr.AssetTypeAssetTypeCreditAlphanum12:
		issuer, ok := x.Issuer()
		if !ok {
			return nil, ErrInvalidAsset.Withf("%s without issuer", x.Type)
		}
		return CreditAsset{Code: x.Code(), Issuer: issuer.Address()}, nil
	}
	return nil, ErrInvalidAsset.Withf("asset type %s", x.Type)
}

func assetsFromXDR(xs []xdr.Asset) ([]Asset, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	out := make([]Asset, len(xs))
	for i, x := range xs {
		a, err := AssetFromXDR(x)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func assetsToXDR(as []Asset) ([]xdr.Asset, error) {
	if len(as) == 0 {
		return nil, nil
	}
	out := make([]xdr.Asset, len(as))
	for i, a := range as {
		x, err := a.ToXDR()
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// LiquidityPoolShareAsset is the share of a constant product pool, used in
// ChangeTrust. AssetA must sort before AssetB.
type LiquidityPoolShareAsset struct {
	AssetA Asset
	AssetB Asset
	Fee    int32
}

func (a LiquidityPoolShareAsset) parameters() (xdr.LiquidityPoolParameters, error) {
	if a.AssetA == nil || a.AssetB == nil {
		return xdr.LiquidityPoolParameters{}, ErrInvalidAsset.Withf("pool share needs two assets")
	}
	xa, err := a.AssetA.ToXDR()
	if err != nil {
		return xdr.LiquidityPoolParameters{}, err
	}
	xb, err := a.AssetB.ToXDR()
	if err != nil {
		return xdr.LiquidityPoolParameters{}, err
	}
	if !assetLess(xa, xb) {
		return xdr.LiquidityPoolParameters{}, ErrInvalidAsset.Withf("pool assets %s and %s are not in order", a.AssetA, a.AssetB)
	}
	fee := a.Fee
	if fee == 0 {
		fee = xdr.LiquidityPoolFeeV18
	}
	return xdr.LiquidityPoolParameters{
		Type:            xdr.LiquidityPoolTypeLiquidityPoolConstantProduct,
		ConstantProduct: &xdr.LiquidityPoolConstantProductParameters{AssetA: xa, AssetB: xb, Fee: fee},
	}, nil
}

func (a LiquidityPoolShareAsset) ToChangeTrustXDR() (xdr.ChangeTrustAsset, error) {
	params, err := a.parameters()
	if err != nil {
		return xdr.ChangeTrustAsset{}, err
	}
	return xdr.ChangeTrustAsset{Type: xdr.AssetTypeAssetTypePoolShare, LiquidityPool: &params}, nil
}

// PoolID is SHA-256 of the encoded pool parameters.
func (a LiquidityPoolShareAsset) PoolID() (xdr.PoolID, error) {
	params, err := a.parameters()
	if err != nil {
		return xdr.PoolID{}, err
	}
	raw, err := xdr.Marshal(params)
	if err != nil {
		return xdr.PoolID{}, err
	}
	return sha256.Sum256(raw), nil
}

// assetLess orders assets by type, then code, then issuer.
func assetLess(a, b xdr.Asset) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Type == xdr.AssetTypeAssetTypeNative {
		return false
	}
	if c := strings.Compare(a.Code(), b.Code()); c != 0 {
		return c < 0
	}
	ia, _ := a.Issuer()
	ib, _ := b.Issuer()
	return bytes.Compare(ia.Ed25519[:], ib.Ed25519[:]) < 0
}

func changeTrustAssetFromXDR(x xdr.ChangeTrustAsset) (ChangeTrustAsset, error) {
	if x.Type != xdr.AssetTypeAssetTypePoolShare {
		return AssetFromXDR(xdr.Asset{Type: x.Type, AlphaNum4: x.AlphaNum4, AlphaNum12: x.AlphaNum12})
	}
	if x.LiquidityPool == nil || x.LiquidityPool.ConstantProduct == nil {
		return nil, ErrInvalidAsset.Withf("pool share without parameters")
	}
	cp := x.LiquidityPool.ConstantProduct
	a, err := AssetFromXDR(cp.AssetA)
	if err != nil {
		return nil, err
	}
	b, err := AssetFromXDR(cp.AssetB)
	if err != nil {
		return nil, err
	}
	return LiquidityPoolShareAsset{AssetA: a, AssetB: b, Fee: cp.Fee}, nil
}
