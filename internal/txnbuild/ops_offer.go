package txnbuild

import (
	"math/big"

	"github.com/stellar/go-stellar-sdk/price"

	"github.com/stellar-txkit/internal/xdr"
)

// Price is a rational N/D.
type Price struct {
	N int32
	D int32
}

// ParsePrice reads a decimal price such as "1.25" into the closest
// fraction.
func ParsePrice(s string) (Price, error) {
	p, err := price.Parse(s)
	if err != nil {
		return Price{}, ErrInvalidPrice.Withf("%q", s).Wrap(err)
	}
	return Price{N: int32(p.N), D: int32(p.D)}, nil
}

// String formats the price as a decimal with seven places.
func (p Price) String() string {
	if p.D == 0 {
		return "0"
	}
	return big.NewRat(int64(p.N), int64(p.D)).FloatString(7)
}

func (p Price) toXDR() (xdr.Price, error) {
	if p.N <= 0 || p.D <= 0 {
		return xdr.Price{}, ErrInvalidPrice.Withf("%d/%d must have positive terms", p.N, p.D)
	}
	return xdr.Price{N: p.N, D: p.D}, nil
}

func priceFromXDR(p xdr.Price) Price { return Price{N: p.N, D: p.D} }

type offer struct {
	selling, buying xdr.Asset
	amount          int64
	price           xdr.Price
}

func buildOffer(selling, buying Asset, amt string, p Price, offerID int64) (offer, error) {
	var o offer
	var err error
	if o.selling, err = requireAsset("selling", selling); err != nil {
		return o, err
	}
	if o.buying, err = requireAsset("buying", buying); err != nil {
		return o, err
	}
	if o.amount, err = nonNegativeAmount("amount", amt); err != nil {
		return o, err
	}
	if o.price, err = p.toXDR(); err != nil {
		return o, err
	}
	if offerID < 0 {
		return o, ErrInvalidOperation.Withf("offer id %d is negative", offerID)
	}
	return o, nil
}

func offerAssetsFromXDR(selling, buying xdr.Asset) (Asset, Asset, error) {
	s, err := AssetFromXDR(selling)
	if err != nil {
		return nil, nil, err
	}
	b, err := AssetFromXDR(buying)
	return s, b, err
}

// ManageSellOffer creates, updates or (with a zero Amount) deletes an offer
// to sell Amount of Selling. OfferID 0 creates a new offer.
type ManageSellOffer struct {
	Selling       Asset
	Buying        Asset
	Amount        string
	Price         Price
	OfferID       int64
	SourceAccount string
}

func (o *ManageSellOffer) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeManageSellOffer, o.SourceAccount, func() (xdr.OperationBody, error) {
		off, err := buildOffer(o.Selling, o.Buying, o.Amount, o.Price, o.OfferID)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{ManageSellOfferOp: &xdr.ManageSellOfferOp{
			Selling: off.selling,
			Buying:  off.buying,
			Amount:  off.amount,
			Price:   off.price,
			OfferID: o.OfferID,
		}}, nil
	})
}

func (o *ManageSellOffer) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeManageSellOffer); err != nil {
		return err
	}
	body := x.Body.ManageSellOfferOp
	selling, buying, err := offerAssetsFromXDR(body.Selling, body.Buying)
	if err != nil {
		return err
	}
	*o = ManageSellOffer{
		Selling:       selling,
		Buying:        buying,
		Amount:        formatAmount(body.Amount),
		Price:         priceFromXDR(body.Price),
		OfferID:       body.OfferID,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *ManageSellOffer) Validate() error          { return validate(o) }
func (o *ManageSellOffer) GetSourceAccount() string { return o.SourceAccount }

// ManageBuyOffer is ManageSellOffer expressed as the amount to buy.
type ManageBuyOffer struct {
	Selling       Asset
	Buying        Asset
	Amount        string
	Price         Price
	OfferID       int64
	SourceAccount string
}

func (o *ManageBuyOffer) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeManageBuyOffer, o.SourceAccount, func() (xdr.OperationBody, error) {
		off, err := buildOffer(o.Selling, o.Buying, o.Amount, o.Price, o.OfferID)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{ManageBuyOfferOp: &xdr.ManageBuyOfferOp{
			Selling:   off.selling,
			Buying:    off.buying,
			BuyAmount: off.amount,
			Price:     off.price,
			OfferID:   o.OfferID,
		}}, nil
	})
}

func (o *ManageBuyOffer) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeManageBuyOffer); err != nil {
		return err
	}
	body := x.Body.ManageBuyOfferOp
	selling, buying, err := offerAssetsFromXDR(body.Selling, body.Buying)
	if err != nil {
		return err
	}
	*o = ManageBuyOffer{
		Selling:       selling,
		Buying:        buying,
		Amount:        formatAmount(body.BuyAmount),
		Price:         priceFromXDR(body.Price),
		OfferID:       body.OfferID,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *ManageBuyOffer) Validate() error          { return validate(o) }
func (o *ManageBuyOffer) GetSourceAccount() string { return o.SourceAccount }

// CreatePassiveSellOffer creates an offer that does not take offers at the
// same price.
type CreatePassiveSellOffer struct {
	Selling       Asset
	Buying        Asset
	Amount        string
	Price         Price
	SourceAccount string
}

func (o *CreatePassiveSellOffer) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeCreatePassiveSellOffer, o.SourceAccount, func() (xdr.OperationBody, error) {
		off, err := buildOffer(o.Selling, o.Buying, o.Amount, o.Price, 0)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{CreatePassiveSellOfferOp: &xdr.CreatePassiveSellOfferOp{
			Selling: off.selling,
			Buying:  off.buying,
			Amount:  off.amount,
			Price:   off.price,
		}}, nil
	})
}

func (o *CreatePassiveSellOffer) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeCreatePassiveSellOffer); err != nil {
		return err
	}
	body := x.Body.CreatePassiveSellOfferOp
	selling, buying, err := offerAssetsFromXDR(body.Selling, body.Buying)
	if err != nil {
		return err
	}
	*o = CreatePassiveSellOffer{
		Selling:       selling,
		Buying:        buying,
		Amount:        formatAmount(body.Amount),
		Price:         priceFromXDR(body.Price),
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *CreatePassiveSellOffer) Validate() error          { return validate(o) }
func (o *CreatePassiveSellOffer) GetSourceAccount() string { return o.SourceAccount }
