package xdr

import (
	"bytes"
	"fmt"
)

type AssetType int32

const (
	AssetTypeAssetTypeNative           AssetType = 0
	AssetTypeAssetTypeCreditAlphanum4  AssetType = 1
	AssetTypeAssetTypeCreditAlphanum12 AssetType = 2
	AssetTypeAssetTypePoolShare        AssetType = 3
)

var assetTypeNames = enumNames{
	0: "ASSET_TYPE_NATIVE",
	1: "ASSET_TYPE_CREDIT_ALPHANUM4",
	2: "ASSET_TYPE_CREDIT_ALPHANUM12",
	3: "ASSET_TYPE_POOL_SHARE",
}

func (t AssetType) String() string            { return assetTypeNames.name(int32(t)) }
func (AssetType) ValidEnum(v int32) bool      { return assetTypeNames.valid(v) }
func (AssetType) EnumNames() map[int32]string { return assetTypeNames }

type (
	AssetCode4  [4]byte
	AssetCode12 [12]byte
)

// PoolID identifies a liquidity pool.
type PoolID Hash

func (p PoolID) EncodeTo(e *Encoder) error { return e.EncodeFixedOpaque(p[:], 32) }

func (p *PoolID) DecodeFrom(d *Decoder) error { return d.DecodeFixedOpaqueInto(p[:]) }

// AssetCodeString trims the zero padding of a fixed-width asset code.
func AssetCodeString(code []byte) string {
	return string(bytes.TrimRight(code, "\x00"))
}

type AlphaNum4 struct {
	AssetCode AssetCode4
	Issuer    AccountID
}

func (a AlphaNum4) EncodeTo(e *Encoder) error {
	if err := e.EncodeFixedOpaque(a.AssetCode[:], 4); err != nil {
		return err
	}
	return a.Issuer.EncodeTo(e)
}

func (a *AlphaNum4) DecodeFrom(d *Decoder) error {
	if err := d.DecodeFixedOpaqueInto(a.AssetCode[:]); err != nil {
		return err
	}
	return a.Issuer.DecodeFrom(d)
}

type AlphaNum12 struct {
	AssetCode AssetCode12
	Issuer    AccountID
}

func (a AlphaNum12) EncodeTo(e *Encoder) error {
	if err := e.EncodeFixedOpaque(a.AssetCode[:], 12); err != nil {
		return err
	}
	return a.Issuer.EncodeTo(e)
}

func (a *AlphaNum12) DecodeFrom(d *Decoder) error {
	if err := d.DecodeFixedOpaqueInto(a.AssetCode[:]); err != nil {
		return err
	}
	return a.Issuer.DecodeFrom(d)
}

// Asset is native or a credit asset.
type Asset struct {
	Type       AssetType
	AlphaNum4  *AlphaNum4
	AlphaNum12 *AlphaNum12
}

func (Asset) SwitchFieldName() string { return "Type" }

func (Asset) ArmForSwitch(sw int32) (string, bool) {
	switch AssetType(sw) {
	case AssetTypeAssetTypeNative:
		return "", true
	case AssetTypeAssetTypeCreditAlphanum4:
		return "AlphaNum4", true
	case AssetTypeAssetTypeCreditAlphanum12:
		return "AlphaNum12", true
	}
	return "", false
}

func (a Asset) EncodeTo(e *Encoder) error {
	switch a.Type {
	case AssetTypeAssetTypeNative:
		e.EncodeInt32(int32(a.Type))
		return nil
	case AssetTypeAssetTypeCreditAlphanum4:
		if a.AlphaNum4 == nil {
			return armMissing("Asset", "AlphaNum4")
		}
		e.EncodeInt32(int32(a.Type))
		return a.AlphaNum4.EncodeTo(e)
	case AssetTypeAssetTypeCreditAlphanum12:
		if a.AlphaNum12 == nil {
			return armMissing("Asset", "AlphaNum12")
		}
		e.EncodeInt32(int32(a.Type))
		return a.AlphaNum12.EncodeTo(e)
	}
	return ErrInvalidValue.Withf("Asset: type %d", a.Type)
}

func (a *Asset) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*a = Asset{Type: AssetType(v)}
	switch a.Type {
	case AssetTypeAssetTypeNative:
		return nil
	case AssetTypeAssetTypeCreditAlphanum4:
		a.AlphaNum4 = new(AlphaNum4)
		return a.AlphaNum4.DecodeFrom(d)
	case AssetTypeAssetTypeCreditAlphanum12:
		a.AlphaNum12 = new(AlphaNum12)
		return a.AlphaNum12.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("Asset: %d", v)
}

// Code returns the trimmed asset code, or "" for native.
func (a Asset) Code() string {
	switch {
	case a.AlphaNum4 != nil:
		return AssetCodeString(a.AlphaNum4.AssetCode[:])
	case a.AlphaNum12 != nil:
		return AssetCodeString(a.AlphaNum12.AssetCode[:])
	}
	return ""
}

// Issuer returns the issuing account of a credit asset.
func (a Asset) Issuer() (AccountID, bool) {
	switch {
	case a.AlphaNum4 != nil:
		return a.AlphaNum4.Issuer, true
	case a.AlphaNum12 != nil:
		return a.AlphaNum12.Issuer, true
	}
	return AccountID{}, false
}

// NewCreditAsset picks the alphanum4 or alphanum12 arm by code length.
func NewCreditAsset(code string, issuer AccountID) (Asset, error) {
	switch {
	case len(code) >= 1 && len(code) <= 4:
		var c AssetCode4
		copy(c[:], code)
		return Asset{Type: AssetTypeAssetTypeCreditAlphanum4, AlphaNum4: &AlphaNum4{AssetCode: c, Issuer: issuer}}, nil
	case len(code) >= 5 && len(code) <= 12:
		var c AssetCode12
		copy(c[:], code)
		return Asset{Type: AssetTypeAssetTypeCreditAlphanum12, AlphaNum12: &AlphaNum12{AssetCode: c, Issuer: issuer}}, nil
	}
	return Asset{}, ErrInvalidValue.Withf("asset code %q must be 1-12 characters", code)
}

// AssetCode is the code-only asset used by AllowTrust.
type AssetCode struct {
	Type        AssetType
	AssetCode4  *AssetCode4
	AssetCode12 *AssetCode12
}

func (AssetCode) SwitchFieldName() string { return "Type" }

func (AssetCode) ArmForSwitch(sw int32) (string, bool) {
	switch AssetType(sw) {
	case AssetTypeAssetTypeCreditAlphanum4:
		return "AssetCode4", true
	case AssetTypeAssetTypeCreditAlphanum12:
		return "AssetCode12", true
	}
	return "", false
}

func (a AssetCode) EncodeTo(e *Encoder) error {
	switch a.Type {
	case AssetTypeAssetTypeCreditAlphanum4:
		if a.AssetCode4 == nil {
			return armMissing("AssetCode", "AssetCode4")
		}
		e.EncodeInt32(int32(a.Type))
		return e.EncodeFixedOpaque(a.AssetCode4[:], 4)
	case AssetTypeAssetTypeCreditAlphanum12:
		if a.AssetCode12 == nil {
			return armMissing("AssetCode", "AssetCode12")
		}
		e.EncodeInt32(int32(a.Type))
		return e.EncodeFixedOpaque(a.AssetCode12[:], 12)
	}
	return ErrInvalidValue.Withf("AssetCode: type %d", a.Type)
}

func (a *AssetCode) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*a = AssetCode{Type: AssetType(v)}
	switch a.Type {
	case AssetTypeAssetTypeCreditAlphanum4:
		a.AssetCode4 = new(AssetCode4)
		return d.DecodeFixedOpaqueInto(a.AssetCode4[:])
	case AssetTypeAssetTypeCreditAlphanum12:
		a.AssetCode12 = new(AssetCode12)
		return d.DecodeFixedOpaqueInto(a.AssetCode12[:])
	}
	return ErrInvalidDiscriminant.Withf("AssetCode: %d", v)
}

type Price struct {
	N int32
	D int32
}

func (p Price) EncodeTo(e *Encoder) error {
	e.EncodeInt32(p.N)
	e.EncodeInt32(p.D)
	return nil
}

func (p *Price) DecodeFrom(d *Decoder) error {
	var err error
	if p.N, err = d.DecodeInt32(); err != nil {
		return err
	}
	p.D, err = d.DecodeInt32()
	return err
}

func (p Price) String() string {
	return fmt.Sprintf("%d/%d", p.N, p.D)
}

type LiquidityPoolType int32

const LiquidityPoolTypeLiquidityPoolConstantProduct LiquidityPoolType = 0

var liquidityPoolTypeNames = enumNames{0: "LIQUIDITY_POOL_CONSTANT_PRODUCT"}

func (t LiquidityPoolType) String() string            { return liquidityPoolTypeNames.name(int32(t)) }
func (LiquidityPoolType) ValidEnum(v int32) bool      { return liquidityPoolTypeNames.valid(v) }
func (LiquidityPoolType) EnumNames() map[int32]string { return liquidityPoolTypeNames }

// LiquidityPoolFeeV18 is the only fee, in basis points, the network accepts.
const LiquidityPoolFeeV18 = 30

type LiquidityPoolConstantProductParameters struct {
	AssetA Asset
	AssetB Asset
	Fee    int32
}

func (p LiquidityPoolConstantProductParameters) EncodeTo(e *Encoder) error {
	if err := p.AssetA.EncodeTo(e); err != nil {
		return err
	}
	if err := p.AssetB.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt32(p.Fee)
	return nil
}

func (p *LiquidityPoolConstantProductParameters) DecodeFrom(d *Decoder) error {
	if err := p.AssetA.DecodeFrom(d); err != nil {
		return err
	}
	if err := p.AssetB.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	p.Fee, err = d.DecodeInt32()
	return err
}

type LiquidityPoolParameters struct {
	Type            LiquidityPoolType
	ConstantProduct *LiquidityPoolConstantProductParameters
}

func (LiquidityPoolParameters) SwitchFieldName() string { return "Type" }

func (LiquidityPoolParameters) ArmForSwitch(sw int32) (string, bool) {
	if LiquidityPoolType(sw) == LiquidityPoolTypeLiquidityPoolConstantProduct {
		return "ConstantProduct", true
	}
	return "", false
}

func (p LiquidityPoolParameters) EncodeTo(e *Encoder) error {
	if err := liquidityPoolTypeNames.encode(e, int32(p.Type), "LiquidityPoolParameters"); err != nil {
		return err
	}
	if p.ConstantProduct == nil {
		return armMissing("LiquidityPoolParameters", "ConstantProduct")
	}
	return p.ConstantProduct.EncodeTo(e)
}

func (p *LiquidityPoolParameters) DecodeFrom(d *Decoder) error {
	v, err := liquidityPoolTypeNames.decode(d, "LiquidityPoolParameters")
	if err != nil {
		return err
	}
	*p = LiquidityPoolParameters{Type: LiquidityPoolType(v), ConstantProduct: new(LiquidityPoolConstantProductParameters)}
	return p.ConstantProduct.DecodeFrom(d)
}

// ChangeTrustAsset is an Asset or the parameters of a pool share.
type ChangeTrustAsset struct {
	Type          AssetType
	AlphaNum4     *AlphaNum4
	AlphaNum12    *AlphaNum12
	LiquidityPool *LiquidityPoolParameters
}

func (ChangeTrustAsset) SwitchFieldName() string { return "Type" }

func (ChangeTrustAsset) ArmForSwitch(sw int32) (string, bool) {
	if AssetType(sw) == AssetTypeAssetTypePoolShare {
		return "LiquidityPool", true
	}
	return Asset{}.ArmForSwitch(sw)
}

func (a ChangeTrustAsset) EncodeTo(e *Encoder) error {
	if a.Type == AssetTypeAssetTypePoolShare {
		if a.LiquidityPool == nil {
			return armMissing("ChangeTrustAsset", "LiquidityPool")
		}
		e.EncodeInt32(int32(a.Type))
		return a.LiquidityPool.EncodeTo(e)
	}
	return Asset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}.EncodeTo(e)
}

func (a *ChangeTrustAsset) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*a = ChangeTrustAsset{Type: AssetType(v)}
	switch a.Type {
	case AssetTypeAssetTypeNative:
		return nil
	case AssetTypeAssetTypeCreditAlphanum4:
		a.AlphaNum4 = new(AlphaNum4)
		return a.AlphaNum4.DecodeFrom(d)
	case AssetTypeAssetTypeCreditAlphanum12:
		a.AlphaNum12 = new(AlphaNum12)
		return a.AlphaNum12.DecodeFrom(d)
	case AssetTypeAssetTypePoolShare:
		a.LiquidityPool = new(LiquidityPoolParameters)
		return a.LiquidityPool.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("ChangeTrustAsset: %d", v)
}

// ToChangeTrustAsset converts a plain asset.
func (a Asset) ToChangeTrustAsset() ChangeTrustAsset {
	return ChangeTrustAsset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}
}

// ToTrustLineAsset converts a plain asset.
func (a Asset) ToTrustLineAsset() TrustLineAsset {
	return TrustLineAsset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}
}

// TrustLineAsset is an Asset or a pool id.
type TrustLineAsset struct {
	Type            AssetType
	AlphaNum4       *AlphaNum4
	AlphaNum12      *AlphaNum12
	LiquidityPoolID *PoolID
}

func (TrustLineAsset) SwitchFieldName() string { return "Type" }

func (TrustLineAsset) ArmForSwitch(sw int32) (string, bool) {
	if AssetType(sw) == AssetTypeAssetTypePoolShare {
		return "LiquidityPoolID", true
	}
	return Asset{}.ArmForSwitch(sw)
}

func (a TrustLineAsset) EncodeTo(e *Encoder) error {
	if a.Type == AssetTypeAssetTypePoolShare {
		if a.LiquidityPoolID == nil {
			return armMissing("TrustLineAsset", "LiquidityPoolID")
		}
		e.EncodeInt32(int32(a.Type))
		return a.LiquidityPoolID.EncodeTo(e)
	}
	return Asset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}.EncodeTo(e)
}

func (a *TrustLineAsset) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*a = TrustLineAsset{Type: AssetType(v)}
	switch a.Type {
	case AssetTypeAssetTypeNative:
		return nil
	case AssetTypeAssetTypeCreditAlphanum4:
		a.AlphaNum4 = new(AlphaNum4)
		return a.AlphaNum4.DecodeFrom(d)
	case AssetTypeAssetTypeCreditAlphanum12:
		a.AlphaNum12 = new(AlphaNum12)
		return a.AlphaNum12.DecodeFrom(d)
	case AssetTypeAssetTypePoolShare:
		a.LiquidityPoolID = new(PoolID)
		return a.LiquidityPoolID.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("TrustLineAsset: %d", v)
}

type ClaimableBalanceIDType int32

const ClaimableBalanceIDTypeClaimableBalanceIDTypeV0 ClaimableBalanceIDType = 0

var claimableBalanceIDTypeNames = enumNames{0: "CLAIMABLE_BALANCE_ID_TYPE_V0"}

func (t ClaimableBalanceIDType) String() string            { return claimableBalanceIDTypeNames.name(int32(t)) }
func (ClaimableBalanceIDType) ValidEnum(v int32) bool      { return claimableBalanceIDTypeNames.valid(v) }
func (ClaimableBalanceIDType) EnumNames() map[int32]string { return claimableBalanceIDTypeNames }

type ClaimableBalanceID struct {
	Type ClaimableBalanceIDType
	V0   *Hash
}

func (ClaimableBalanceID) SwitchFieldName() string { return "Type" }

func (ClaimableBalanceID) ArmForSwitch(sw int32) (string, bool) {
	if ClaimableBalanceIDType(sw) == ClaimableBalanceIDTypeClaimableBalanceIDTypeV0 {
		return "V0", true
	}
	return "", false
}

func (c ClaimableBalanceID) EncodeTo(e *Encoder) error {
	if err := claimableBalanceIDTypeNames.encode(e, int32(c.Type), "ClaimableBalanceID"); err != nil {
		return err
	}
	if c.V0 == nil {
		return armMissing("ClaimableBalanceID", "V0")
	}
	return c.V0.EncodeTo(e)
}

func (c *ClaimableBalanceID) DecodeFrom(d *Decoder) error {
	v, err := claimableBalanceIDTypeNames.decode(d, "ClaimableBalanceID")
	if err != nil {
		return err
	}
	*c = ClaimableBalanceID{Type: ClaimableBalanceIDType(v), V0: new(Hash)}
	return c.V0.DecodeFrom(d)
}

type ClaimPredicateType int32

const (
	ClaimPredicateTypeClaimPredicateUnconditional      ClaimPredicateType = 0
	ClaimPredicateTypeClaimPredicateAnd                ClaimPredicateType = 1
	ClaimPredicateTypeClaimPredicateOr                 ClaimPredicateType = 2
	ClaimPredicateTypeClaimPredicateNot                ClaimPredicateType = 3
	ClaimPredicateTypeClaimPredicateBeforeAbsoluteTime ClaimPredicateType = 4
	ClaimPredicateTypeClaimPredicateBeforeRelativeTime ClaimPredicateType = 5
)

var claimPredicateTypeNames = enumNames{
	0: "CLAIM_PREDICATE_UNCONDITIONAL",
	1: "CLAIM_PREDICATE_AND",
	2: "CLAIM_PREDICATE_OR",
	3: "CLAIM_PREDICATE_NOT",
	4: "CLAIM_PREDICATE_BEFORE_ABSOLUTE_TIME",
	5: "CLAIM_PREDICATE_BEFORE_RELATIVE_TIME",
}

func (t ClaimPredicateType) String() string            { return claimPredicateTypeNames.name(int32(t)) }
func (ClaimPredicateType) ValidEnum(v int32) bool      { return claimPredicateTypeNames.valid(v) }
func (ClaimPredicateType) EnumNames() map[int32]string { return claimPredicateTypeNames }

// ClaimPredicate is a recursive condition on claiming a balance.
type ClaimPredicate struct {
	Type          ClaimPredicateType
	AndPredicates *[]ClaimPredicate
	OrPredicates  *[]ClaimPredicate
	NotPredicate  **ClaimPredicate
	AbsBefore     *int64
	RelBefore     *int64
}

func (ClaimPredicate) SwitchFieldName() string { return "Type" }

func (ClaimPredicate) ArmForSwitch(sw int32) (string, bool) {
	switch ClaimPredicateType(sw) {
	case ClaimPredicateTypeClaimPredicateUnconditional:
		return "", true
	case ClaimPredicateTypeClaimPredicateAnd:
		return "AndPredicates", true
	case ClaimPredicateTypeClaimPredicateOr:
		return "OrPredicates", true
	case ClaimPredicateTypeClaimPredicateNot:
		return "NotPredicate", true
	case ClaimPredicateTypeClaimPredicateBeforeAbsoluteTime:
		return "AbsBefore", true
	case ClaimPredicateTypeClaimPredicateBeforeRelativeTime:
		return "RelBefore", true
	}
	return "", false
}

func (p ClaimPredicate) EncodeTo(e *Encoder) error {
	if err := claimPredicateTypeNames.encode(e, int32(p.Type), "ClaimPredicate"); err != nil {
		return err
	}
	switch p.Type {
	case ClaimPredicateTypeClaimPredicateAnd:
		if p.AndPredicates == nil {
			return armMissing("ClaimPredicate", "AndPredicates")
		}
		return encodeArray(e, *p.AndPredicates, 2)
	case ClaimPredicateTypeClaimPredicateOr:
		if p.OrPredicates == nil {
			return armMissing("ClaimPredicate", "OrPredicates")
		}
		return encodeArray(e, *p.OrPredicates, 2)
	case ClaimPredicateTypeClaimPredicateNot:
		if p.NotPredicate == nil {
			return armMissing("ClaimPredicate", "NotPredicate")
		}
		return encodeOptional(e, *p.NotPredicate)
	case ClaimPredicateTypeClaimPredicateBeforeAbsoluteTime:
		if p.AbsBefore == nil {
			return armMissing("ClaimPredicate", "AbsBefore")
		}
		e.EncodeInt64(*p.AbsBefore)
	case ClaimPredicateTypeClaimPredicateBeforeRelativeTime:
		if p.RelBefore == nil {
			return armMissing("ClaimPredicate", "RelBefore")
		}
		e.EncodeInt64(*p.RelBefore)
	}
	return nil
}

func (p *ClaimPredicate) DecodeFrom(d *Decoder) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	v, err := claimPredicateTypeNames.decode(d, "ClaimPredicate")
	if err != nil {
		return err
	}
	*p = ClaimPredicate{Type: ClaimPredicateType(v)}
	switch p.Type {
	case ClaimPredicateTypeClaimPredicateAnd:
		preds, err := decodeArray[ClaimPredicate](d, 2, 4)
		if err != nil {
			return err
		}
		p.AndPredicates = &preds
	case ClaimPredicateTypeClaimPredicateOr:
		preds, err := decodeArray[ClaimPredicate](d, 2, 4)
		if err != nil {
			return err
		}
		p.OrPredicates = &preds
	case ClaimPredicateTypeClaimPredicateNot:
		inner, err := decodeOptional[ClaimPredicate](d)
		if err != nil {
			return err
		}
		p.NotPredicate = &inner
	case ClaimPredicateTypeClaimPredicateBeforeAbsoluteTime:
		t, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		p.AbsBefore = &t
	case ClaimPredicateTypeClaimPredicateBeforeRelativeTime:
		t, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		p.RelBefore = &t
	}
	return nil
}

type ClaimantType int32

const ClaimantTypeClaimantTypeV0 ClaimantType = 0

var claimantTypeNames = enumNames{0: "CLAIMANT_TYPE_V0"}

func (t ClaimantType) String() string            { return claimantTypeNames.name(int32(t)) }
func (ClaimantType) ValidEnum(v int32) bool      { return claimantTypeNames.valid(v) }
func (ClaimantType) EnumNames() map[int32]string { return claimantTypeNames }

type ClaimantV0 struct {
	Destination AccountID
	Predicate   ClaimPredicate
}

func (c ClaimantV0) EncodeTo(e *Encoder) error {
	if err := c.Destination.EncodeTo(e); err != nil {
		return err
	}
	return c.Predicate.EncodeTo(e)
}

func (c *ClaimantV0) DecodeFrom(d *Decoder) error {
	if err := c.Destination.DecodeFrom(d); err != nil {
		return err
	}
	return c.Predicate.DecodeFrom(d)
}

type Claimant struct {
	Type ClaimantType
	V0   *ClaimantV0
}

func (Claimant) SwitchFieldName() string { return "Type" }

func (Claimant) ArmForSwitch(sw int32) (string, bool) {
	if ClaimantType(sw) == ClaimantTypeClaimantTypeV0 {
		return "V0", true
	}
	return "", false
}

func (c Claimant) EncodeTo(e *Encoder) error {
	if err := claimantTypeNames.encode(e, int32(c.Type), "Claimant"); err != nil {
		return err
	}
	if c.V0 == nil {
		return armMissing("Claimant", "V0")
	}
	return c.V0.EncodeTo(e)
}

func (c *Claimant) DecodeFrom(d *Decoder) error {
	v, err := claimantTypeNames.decode(d, "Claimant")
	if err != nil {
		return err
	}
	*c = Claimant{Type: ClaimantType(v), V0: new(ClaimantV0)}
	return c.V0.DecodeFrom(d)
}
