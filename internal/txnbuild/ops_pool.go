package txnbuild

import (
	"encoding/hex"

	"github.com/stellar-txkit/internal/xdr"
)

// LiquidityPoolID is the hex pool id.
type LiquidityPoolID string

func (id LiquidityPoolID) toXDR() (xdr.PoolID, error) {
	var p xdr.PoolID
	raw, err := hex.DecodeString(string(id))
	if err != nil || len(raw) != len(p) {
		return p, ErrInvalidOperation.Withf("liquidity pool id %q must be 32 hex bytes", string(id))
	}
	copy(p[:], raw)
	return p, nil
}

func poolIDFromXDR(p xdr.PoolID) LiquidityPoolID {
	return LiquidityPoolID(hex.EncodeToString(p[:]))
}

// LiquidityPoolDeposit adds reserves to a pool within a price range.
type LiquidityPoolDeposit struct {
	LiquidityPoolID LiquidityPoolID
	MaxAmountA      string
	MaxAmountB      string
	MinPrice        Price
	MaxPrice        Price
	SourceAccount   string
}

func (o *LiquidityPoolDeposit) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeLiquidityPoolDeposit, o.SourceAccount, func() (xdr.OperationBody, error) {
		id, err := o.LiquidityPoolID.toXDR()
		if err != nil {
			return xdr.OperationBody{}, err
		}
		a, err := positiveAmount("max amount a", o.MaxAmountA)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		b, err := positiveAmount("max amount b", o.MaxAmountB)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		lo, err := o.MinPrice.toXDR()
		if err != nil {
			return xdr.OperationBody{}, err
		}
		hi, err := o.MaxPrice.toXDR()
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{LiquidityPoolDepositOp: &xdr.LiquidityPoolDepositOp{
			LiquidityPoolID: id,
			MaxAmountA:      a,
			MaxAmountB:      b,
			MinPrice:        lo,
			MaxPrice:        hi,
		}}, nil
	})
}

func (o *LiquidityPoolDeposit) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeLiquidityPoolDeposit); err != nil {
		return err
	}
	body := x.Body.LiquidityPoolDepositOp
	*o = LiquidityPoolDeposit{
		LiquidityPoolID: poolIDFromXDR(body.LiquidityPoolID),
		MaxAmountA:      formatAmount(body.MaxAmountA),
		MaxAmountB:      formatAmount(body.MaxAmountB),
		MinPrice:        priceFromXDR(body.MinPrice),
		MaxPrice:        priceFromXDR(body.MaxPrice),
		SourceAccount:   sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *LiquidityPoolDeposit) Validate() error          { return validate(o) }
func (o *LiquidityPoolDeposit) GetSourceAccount() string { return o.SourceAccount }

// LiquidityPoolWithdraw redeems pool shares for at least the minimum
// amounts of each reserve.
type LiquidityPoolWithdraw struct {
	LiquidityPoolID LiquidityPoolID
	Amount          string
	MinAmountA      string
	MinAmountB      string
	SourceAccount   string
}

func (o *LiquidityPoolWithdraw) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeLiquidityPoolWithdraw, o.SourceAccount, func() (xdr.OperationBody, error) {
		id, err := o.LiquidityPoolID.toXDR()
		if err != nil {
			return xdr.OperationBody{}, err
		}
		amt, err := positiveAmount("amount", o.Amount)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		a, err := nonNegativeAmount("min amount a", o.MinAmountA)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		b, err := nonNegativeAmount("min amount b", o.MinAmountB)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{LiquidityPoolWithdrawOp: &xdr.LiquidityPoolWithdrawOp{
			LiquidityPoolID: id,
			Amount:          amt,
			MinAmountA:      a,
			MinAmountB:      b,
		}}, nil
	})
}

func (o *LiquidityPoolWithdraw) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeLiquidityPoolWithdraw); err != nil {
		return err
	}
	body := x.Body.LiquidityPoolWithdrawOp
	*o = LiquidityPoolWithdraw{
		LiquidityPoolID: poolIDFromXDR(body.LiquidityPoolID),
		Amount:          formatAmount(body.Amount),
		MinAmountA:      formatAmount(body.MinAmountA),
		MinAmountB:      formatAmount(body.MinAmountB),
		SourceAccount:   sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *LiquidityPoolWithdraw) Validate() error          { return validate(o) }
func (o *LiquidityPoolWithdraw) GetSourceAccount() string { return o.SourceAccount }
