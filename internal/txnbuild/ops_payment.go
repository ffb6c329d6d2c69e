package txnbuild

import (
	"github.com/stellar-txkit/internal/xdr"
)

// CreateAccount funds a new account with a starting balance of lumens.
type CreateAccount struct {
	Destination   string
	Amount        string
	SourceAccount string
}

func (o *CreateAccount) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeCreateAccount, o.SourceAccount, func() (xdr.OperationBody, error) {
		dest, err := parseAccountID("destination", o.Destination)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		amt, err := nonNegativeAmount("starting balance", o.Amount)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{CreateAccountOp: &xdr.CreateAccountOp{Destination: dest, StartingBalance: amt}}, nil
	})
}

func (o *CreateAccount) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeCreateAccount); err != nil {
		return err
	}
	body := x.Body.CreateAccountOp
	*o = CreateAccount{
		Destination:   body.Destination.Address(),
		Amount:        formatAmount(body.StartingBalance),
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *CreateAccount) Validate() error          { return validate(o) }
func (o *CreateAccount) GetSourceAccount() string { return o.SourceAccount }

// Payment sends an amount of an asset to a G or M destination.
type Payment struct {
	Destination   string
	Amount        string
	Asset         Asset
	SourceAccount string
}

func (o *Payment) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypePayment, o.SourceAccount, func() (xdr.OperationBody, error) {
		dest, err := parseMuxed("destination", o.Destination)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		amt, err := positiveAmount("amount", o.Amount)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		asset, err := requireAsset("asset", o.Asset)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{PaymentOp: &xdr.PaymentOp{Destination: dest, Asset: asset, Amount: amt}}, nil
	})
}

func (o *Payment) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypePayment); err != nil {
		return err
	}
	body := x.Body.PaymentOp
	asset, err := AssetFromXDR(body.Asset)
	if err != nil {
		return err
	}
	*o = Payment{
		Destination:   body.Destination.Address(),
		Amount:        formatAmount(body.Amount),
		Asset:         asset,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *Payment) Validate() error          { return validate(o) }
func (o *Payment) GetSourceAccount() string { return o.SourceAccount }

// MaxPathLength is the most intermediate assets a path payment may route
// through.
const MaxPathLength = 5

// PathPaymentStrictReceive delivers exactly DestAmount, spending at most
// SendMax.
type PathPaymentStrictReceive struct {
	SendAsset     Asset
	SendMax       string
	Destination   string
	DestAsset     Asset
	DestAmount    string
	Path          []Asset
	SourceAccount string
}

func (o *PathPaymentStrictReceive) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypePathPaymentStrictReceive, o.SourceAccount, func() (xdr.OperationBody, error) {
		p, err := buildPathPayment(o.SendAsset, o.SendMax, "send max", o.Destination, o.DestAsset, o.DestAmount, "destination amount", o.Path)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{PathPaymentStrictReceiveOp: &xdr.PathPaymentStrictReceiveOp{
			SendAsset:   p.sendAsset,
			SendMax:     p.send,
			Destination: p.dest,
			DestAsset:   p.destAsset,
			DestAmount:  p.receive,
			Path:        p.path,
		}}, nil
	})
}

func (o *PathPaymentStrictReceive) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypePathPaymentStrictReceive); err != nil {
		return err
	}
	body := x.Body.PathPaymentStrictReceiveOp
	send, dest, path, err := pathAssetsFromXDR(body.SendAsset, body.DestAsset, body.Path)
	if err != nil {
		return err
	}
	*o = PathPaymentStrictReceive{
		SendAsset:     send,
		SendMax:       formatAmount(body.SendMax),
		Destination:   body.Destination.Address(),
		DestAsset:     dest,
		DestAmount:    formatAmount(body.DestAmount),
		Path:          path,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *PathPaymentStrictReceive) Validate() error          { return validate(o) }
func (o *PathPaymentStrictReceive) GetSourceAccount() string { return o.SourceAccount }

// PathPaymentStrictSend spends exactly SendAmount, delivering at least
// DestMin.
type PathPaymentStrictSend struct {
	SendAsset     Asset
	SendAmount    string
	Destination   string
	DestAsset     Asset
	DestMin       string
	Path          []Asset
	SourceAccount string
}

func (o *PathPaymentStrictSend) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypePathPaymentStrictSend, o.SourceAccount, func() (xdr.OperationBody, error) {
		p, err := buildPathPayment(o.SendAsset, o.SendAmount, "send amount", o.Destination, o.DestAsset, o.DestMin, "destination min", o.Path)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{PathPaymentStrictSendOp: &xdr.PathPaymentStrictSendOp{
			SendAsset:   p.sendAsset,
			SendAmount:  p.send,
			Destination: p.dest,
			DestAsset:   p.destAsset,
			DestMin:     p.receive,
			Path:        p.path,
		}}, nil
	})
}

func (o *PathPaymentStrictSend) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypePathPaymentStrictSend); err != nil {
		return err
	}
	body := x.Body.PathPaymentStrictSendOp
	send, dest, path, err := pathAssetsFromXDR(body.SendAsset, body.DestAsset, body.Path)
	if err != nil {
		return err
	}
	*o = PathPaymentStrictSend{
		SendAsset:     send,
		SendAmount:    formatAmount(body.SendAmount),
		Destination:   body.Destination.Address(),
		DestAsset:     dest,
		DestMin:       formatAmount(body.DestMin),
		Path:          path,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *PathPaymentStrictSend) Validate() error          { return validate(o) }
func (o *PathPaymentStrictSend) GetSourceAccount() string { return o.SourceAccount }

type pathPayment struct {
	sendAsset, destAsset xdr.Asset
	send, receive        int64
	dest                 xdr.MuxedAccount
	path                 []xdr.Asset
}

func buildPathPayment(sendAsset Asset, send, sendField, destination string, destAsset Asset, receive, receiveField string, path []Asset) (pathPayment, error) {
	var p pathPayment
	var err error
	if p.sendAsset, err = requireAsset("send asset", sendAsset); err != nil {
		return p, err
	}
	if p.send, err = positiveAmount(sendField, send); err != nil {
		return p, err
	}
	if p.dest, err = parseMuxed("destination", destination); err != nil {
		return p, err
	}
	if p.destAsset, err = requireAsset("destination asset", destAsset); err != nil {
		return p, err
	}
	if p.receive, err = positiveAmount(receiveField, receive); err != nil {
		return p, err
	}
	if len(path) > MaxPathLength {
		return p, ErrInvalidOperation.Withf("path has %d assets, at most %d allowed", len(path), MaxPathLength)
	}
	p.path, err = assetsToXDR(path)
	return p, err
}

func pathAssetsFromXDR(send, dest xdr.Asset, path []xdr.Asset) (Asset, Asset, []Asset, error) {
	s, err := AssetFromXDR(send)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := AssetFromXDR(dest)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := assetsFromXDR(path)
	return s, d, p, err
}

func requireAsset(field string, a Asset) (xdr.Asset, error) {
	if a == nil {
		return xdr.Asset{}, ErrInvalidAsset.Withf("%s is required", field)
	}
	return a.ToXDR()
}

// AccountMerge transfers the source's lumens to Destination and removes
// the source account.
type AccountMerge struct {
	Destination   string
	SourceAccount string
}

func (o *AccountMerge) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeAccountMerge, o.SourceAccount, func() (xdr.OperationBody, error) {
		dest, err := parseMuxed("destination", o.Destination)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{Destination: &dest}, nil
	})
}

func (o *AccountMerge) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeAccountMerge); err != nil {
		return err
	}
	*o = AccountMerge{Destination: x.Body.Destination.Address(), SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *AccountMerge) Validate() error          { return validate(o) }
func (o *AccountMerge) GetSourceAccount() string { return o.SourceAccount }

// Inflation is retired on the network but still encodable.
type Inflation struct {
	SourceAccount string
}

func (o *Inflation) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeInflation, o.SourceAccount, func() (xdr.OperationBody, error) {
		return xdr.OperationBody{}, nil
	})
}

func (o *Inflation) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeInflation); err != nil {
		return err
	}
	o.SourceAccount = sourceFromXDR(x.SourceAccount)
	return nil
}

func (o *Inflation) Validate() error          { return validate(o) }
func (o *Inflation) GetSourceAccount() string { return o.SourceAccount }

// MaxDataNameLength and MaxDataValueLength bound a ManageData entry.
const (
	MaxDataNameLength  = 64
	MaxDataValueLength = 64
)

// ManageData sets, or with a nil Value deletes, a data entry.
type ManageData struct {
	Name          string
	Value         []byte
	SourceAccount string
}

func (o *ManageData) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeManageData, o.SourceAccount, func() (xdr.OperationBody, error) {
		if o.Name == "" || len(o.Name) > MaxDataNameLength {
			return xdr.OperationBody{}, ErrInvalidOperation.Withf("data name must be 1-%d bytes", MaxDataNameLength)
		}
		if len(o.Value) > MaxDataValueLength {
			return xdr.OperationBody{}, ErrInvalidOperation.Withf("data value is %d bytes, at most %d allowed", len(o.Value), MaxDataValueLength)
		}
		body := &xdr.ManageDataOp{DataName: xdr.String64(o.Name)}
		if o.Value != nil {
			v := xdr.DataValue(o.Value)
			body.DataValue = &v
		}
		return xdr.OperationBody{ManageDataOp: body}, nil
	})
}

func (o *ManageData) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeManageData); err != nil {
		return err
	}
	body := x.Body.ManageDataOp
	*o = ManageData{Name: string(body.DataName), SourceAccount: sourceFromXDR(x.SourceAccount)}
	if body.DataValue != nil {
		o.Value = append([]byte{}, *body.DataValue...)
	}
	return nil
}

func (o *ManageData) Validate() error          { return validate(o) }
func (o *ManageData) GetSourceAccount() string { return o.SourceAccount }

// BumpSequence raises the source account's sequence number to BumpTo.
type BumpSequence struct {
	BumpTo        int64
	SourceAccount string
}

func (o *BumpSequence) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeBumpSequence, o.SourceAccount, func() (xdr.OperationBody, error) {
		if o.BumpTo < 0 {
			return xdr.OperationBody{}, ErrInvalidOperation.Withf("bump to %d is negative", o.BumpTo)
		}
		return xdr.OperationBody{BumpSequenceOp: &xdr.BumpSequenceOp{BumpTo: xdr.SequenceNumber(o.BumpTo)}}, nil
	})
}

func (o *BumpSequence) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeBumpSequence); err != nil {
		return err
	}
	*o = BumpSequence{BumpTo: int64(x.Body.BumpSequenceOp.BumpTo), SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *BumpSequence) Validate() error          { return validate(o) }
func (o *BumpSequence) GetSourceAccount() string { return o.SourceAccount }

// Clawback burns an amount of a clawback-enabled asset held by From.
type Clawback struct {
	From          string
	Amount        string
	Asset         Asset
	SourceAccount string
}

func (o *Clawback) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeClawback, o.SourceAccount, func() (xdr.OperationBody, error) {
		from, err := parseMuxed("from", o.From)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		amt, err := positiveAmount("amount", o.Amount)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		asset, err := requireAsset("asset", o.Asset)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		if o.Asset.IsNative() {
			return xdr.OperationBody{}, ErrInvalidAsset.Withf("native asset cannot be clawed back")
		}
		return xdr.OperationBody{ClawbackOp: &xdr.ClawbackOp{Asset: asset, From: from, Amount: amt}}, nil
	})
}

func (o *Clawback) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeClawback); err != nil {
		return err
	}
	body := x.Body.ClawbackOp
	asset, err := AssetFromXDR(body.Asset)
	if err != nil {
		return err
	}
	*o = Clawback{
		From:          body.From.Address(),
		Amount:        formatAmount(body.Amount),
		Asset:         asset,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *Clawback) Validate() error          { return validate(o) }
func (o *Clawback) GetSourceAccount() string { return o.SourceAccount }
