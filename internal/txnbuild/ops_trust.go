package txnbuild

import (
	"math"

	"github.com/stellar-txkit/internal/xdr"
)

// AccountFlag is an account authorization flag.
type AccountFlag uint32

const (
	AuthRequired        AccountFlag = 1
	AuthRevocable       AccountFlag = 2
	AuthImmutable       AccountFlag = 4
	AuthClawbackEnabled AccountFlag = 8
)

// TrustLineFlag is a trustline authorization flag.
type TrustLineFlag uint32

const (
	TrustLineAuthorized                      TrustLineFlag = 1
	TrustLineAuthorizedToMaintainLiabilities TrustLineFlag = 2
	TrustLineClawbackEnabled                 TrustLineFlag = 4
)

// Threshold is a signer weight or threshold, 0-255.
type Threshold uint8

// Signer adds, updates or (with weight 0) removes an account signer.
type Signer struct {
	Address string
	Weight  Threshold
}

const maxHomeDomainLength = 32

// SetOptions changes account settings. Nil fields are left unchanged.
type SetOptions struct {
	InflationDestination *string
	SetFlags             []AccountFlag
	ClearFlags           []AccountFlag
	MasterWeight         *Threshold
	LowThreshold         *Threshold
	MediumThreshold      *Threshold
	HighThreshold        *Threshold
	HomeDomain           *string
	Signer               *Signer
	SourceAccount        string
}

func combineFlags[F ~uint32](flags []F) *uint32 {
	if len(flags) == 0 {
		return nil
	}
	var v uint32
	for _, f := range flags {
		v |= uint32(f)
	}
	return &v
}

func splitFlags[F ~uint32](v *uint32) []F {
	if v == nil {
		return nil
	}
	var out []F
	for bit := uint32(1); bit != 0 && bit <= *v; bit <<= 1 {
		if *v&bit != 0 {
			out = append(out, F(bit))
		}
	}
	if out == nil {
		out = []F{}
	}
	return out
}

func thresholdToXDR(t *Threshold) *uint32 {
	if t == nil {
		return nil
	}
	v := uint32(*t)
	return &v
}

func thresholdFromXDR(v *uint32) *Threshold {
	if v == nil {
		return nil
	}
	t := Threshold(*v)
	return &t
}

func (o *SetOptions) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeSetOptions, o.SourceAccount, func() (xdr.OperationBody, error) {
		body := &xdr.SetOptionsOp{
			SetFlags:      combineFlags(o.SetFlags),
			ClearFlags:    combineFlags(o.ClearFlags),
			MasterWeight:  thresholdToXDR(o.MasterWeight),
			LowThreshold:  thresholdToXDR(o.LowThreshold),
			MedThreshold:  thresholdToXDR(o.MediumThreshold),
			HighThreshold: thresholdToXDR(o.HighThreshold),
		}
		if o.InflationDestination != nil {
			dest, err := parseAccountID("inflation destination", *o.InflationDestination)
			if err != nil {
				return xdr.OperationBody{}, err
			}
			body.InflationDest = &dest
		}
		if o.HomeDomain != nil {
			if len(*o.HomeDomain) > maxHomeDomainLength {
				return xdr.OperationBody{}, ErrInvalidOperation.Withf("home domain is longer than %d bytes", maxHomeDomainLength)
			}
			hd := xdr.String32(*o.HomeDomain)
			body.HomeDomain = &hd
		}
		if o.Signer != nil {
			key, err := xdr.SignerKeyFromAddress(o.Signer.Address)
			if err != nil {
				return xdr.OperationBody{}, ErrInvalidAddress.Withf("signer %q", o.Signer.Address).Wrap(err)
			}
			body.Signer = &xdr.Signer{Key: key, Weight: uint32(o.Signer.Weight)}
		}
		return xdr.OperationBody{SetOptionsOp: body}, nil
	})
}

func (o *SetOptions) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeSetOptions); err != nil {
		return err
	}
	body := x.Body.SetOptionsOp
	*o = SetOptions{
		SetFlags:        splitFlags[AccountFlag](body.SetFlags),
		ClearFlags:      splitFlags[AccountFlag](body.ClearFlags),
		MasterWeight:    thresholdFromXDR(body.MasterWeight),
		LowThreshold:    thresholdFromXDR(body.LowThreshold),
		MediumThreshold: thresholdFromXDR(body.MedThreshold),
		HighThreshold:   thresholdFromXDR(body.HighThreshold),
		SourceAccount:   sourceFromXDR(x.SourceAccount),
	}
	if body.InflationDest != nil {
		dest := body.InflationDest.Address()
		o.InflationDestination = &dest
	}
	if body.HomeDomain != nil {
		hd := string(*body.HomeDomain)
		o.HomeDomain = &hd
	}
	if body.Signer != nil {
		o.Signer = &Signer{Address: body.Signer.Key.Address(), Weight: Threshold(body.Signer.Weight)}
	}
	return nil
}

func (o *SetOptions) Validate() error          { return validate(o) }
func (o *SetOptions) GetSourceAccount() string { return o.SourceAccount }

// MaxTrustlineLimit is the limit used when ChangeTrust.Limit is empty.
var MaxTrustlineLimit = formatAmount(math.MaxInt64)

// ChangeTrust creates, updates or (with a zero Limit) removes a trustline.
type ChangeTrust struct {
	Line          ChangeTrustAsset
	Limit         string
	SourceAccount string
}

func (o *ChangeTrust) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeChangeTrust, o.SourceAccount, func() (xdr.OperationBody, error) {
		if o.Line == nil {
			return xdr.OperationBody{}, ErrInvalidAsset.Withf("line is required")
		}
		if a, ok := o.Line.(Asset); ok && a.IsNative() {
			return xdr.OperationBody{}, ErrInvalidAsset.Withf("cannot trust the native asset")
		}
		line, err := o.Line.ToChangeTrustXDR()
		if err != nil {
			return xdr.OperationBody{}, err
		}
		limit := o.Limit
		if limit == "" {
			limit = MaxTrustlineLimit
		}
		l, err := nonNegativeAmount("limit", limit)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{ChangeTrustOp: &xdr.ChangeTrustOp{Line: line, Limit: l}}, nil
	})
}

func (o *ChangeTrust) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeChangeTrust); err != nil {
		return err
	}
	body := x.Body.ChangeTrustOp
	line, err := changeTrustAssetFromXDR(body.Line)
	if err != nil {
		return err
	}
	*o = ChangeTrust{Line: line, Limit: formatAmount(body.Limit), SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *ChangeTrust) Validate() error          { return validate(o) }
func (o *ChangeTrust) GetSourceAccount() string { return o.SourceAccount }

// AllowTrust is the deprecated predecessor of SetTrustLineFlags. Type must be
// a credit asset issued by the source account; only its code is encoded.
type AllowTrust struct {
	Trustor                        string
	Type                           Asset
	Authorize                      bool
	AuthorizeToMaintainLiabilities bool
	SourceAccount                  string
}

func (o *AllowTrust) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeAllowTrust, o.SourceAccount, func() (xdr.OperationBody, error) {
		trustor, err := parseAccountID("trustor", o.Trustor)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		if o.Type == nil || o.Type.IsNative() {
			return xdr.OperationBody{}, ErrInvalidAsset.Withf("allow trust needs a credit asset")
		}
		code := o.Type.GetCode()
		var ac xdr.AssetCode
		switch {
		case code == "":
			return xdr.OperationBody{}, ErrInvalidAsset.Withf("asset code is empty")
		case len(code) <= 4:
			var c xdr.AssetCode4
			copy(c[:], code)
			ac = xdr.AssetCode{Type: xdr.AssetTypeAssetTypeCreditAlphanum4, AssetCode4: &c}
		case len(code) <= 12:
			var c xdr.AssetCode12
			copy(c[:], code)
			ac = xdr.AssetCode{Type: xdr.AssetTypeAssetTypeCreditAlphanum12, AssetCode12: &c}
		default:
			return xdr.OperationBody{}, ErrInvalidAsset.Withf("asset code %q is too long", code)
		}
		var authorize uint32
		switch {
		case o.Authorize:
			authorize = uint32(TrustLineAuthorized)
		case o.AuthorizeToMaintainLiabilities:
			authorize = uint32(TrustLineAuthorizedToMaintainLiabilities)
		}
		return xdr.OperationBody{AllowTrustOp: &xdr.AllowTrustOp{Trustor: trustor, Asset: ac, Authorize: authorize}}, nil
	})
}

func (o *AllowTrust) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeAllowTrust); err != nil {
		return err
	}
	body := x.Body.AllowTrustOp
	var code string
	switch {
	case body.Asset.AssetCode4 != nil:
		code = xdr.AssetCodeString(body.Asset.AssetCode4[:])
	case body.Asset.AssetCode12 != nil:
		code = xdr.AssetCodeString(body.Asset.AssetCode12[:])
	}
	source := sourceFromXDR(x.SourceAccount)
	*o = AllowTrust{
		Trustor:                        body.Trustor.Address(),
		Type:                           CreditAsset{Code: code, Issuer: source},
		Authorize:                      body.Authorize&uint32(TrustLineAuthorized) != 0,
		AuthorizeToMaintainLiabilities: body.Authorize&uint32(TrustLineAuthorizedToMaintainLiabilities) != 0,
		SourceAccount:                  source,
	}
	return nil
}

func (o *AllowTrust) Validate() error          { return validate(o) }
func (o *AllowTrust) GetSourceAccount() string { return o.SourceAccount }

// SetTrustLineFlags sets and clears authorization flags on a trustline.
type SetTrustLineFlags struct {
	Trustor       string
	Asset         Asset
	SetFlags      []TrustLineFlag
	ClearFlags    []TrustLineFlag
	SourceAccount string
}

func (o *SetTrustLineFlags) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeSetTrustLineFlags, o.SourceAccount, func() (xdr.OperationBody, error) {
		trustor, err := parseAccountID("trustor", o.Trustor)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		asset, err := requireAsset("asset", o.Asset)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		body := &xdr.SetTrustLineFlagsOp{Trustor: trustor, Asset: asset}
		if v := combineFlags(o.SetFlags); v != nil {
			body.SetFlags = *v
		}
		if v := combineFlags(o.ClearFlags); v != nil {
			body.ClearFlags = *v
		}
		return xdr.OperationBody{SetTrustLineFlagsOp: body}, nil
	})
}

func (o *SetTrustLineFlags) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeSetTrustLineFlags); err != nil {
		return err
	}
	body := x.Body.SetTrustLineFlagsOp
	asset, err := AssetFromXDR(body.Asset)
	if err != nil {
		return err
	}
	set, clear := body.SetFlags, body.ClearFlags
	*o = SetTrustLineFlags{
		Trustor:       body.Trustor.Address(),
		Asset:         asset,
		SetFlags:      splitFlags[TrustLineFlag](&set),
		ClearFlags:    splitFlags[TrustLineFlag](&clear),
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *SetTrustLineFlags) Validate() error          { return validate(o) }
func (o *SetTrustLineFlags) GetSourceAccount() string { return o.SourceAccount }
