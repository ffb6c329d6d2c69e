package txnbuild

import (
	"github.com/stellar-txkit/internal/xdr"
)

// InvokeHostFunction calls a contract, uploads wasm or creates a contract.
// Ext carries the simulated resources; NewTransaction moves them onto the
// transaction and adds the resource fee.
type InvokeHostFunction struct {
	HostFunction  xdr.HostFunction
	Auth          []xdr.SorobanAuthorizationEntry
	Ext           xdr.TransactionExt
	SourceAccount string
}

func (o *InvokeHostFunction) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeInvokeHostFunction, o.SourceAccount, func() (xdr.OperationBody, error) {
		if _, ok := o.HostFunction.ArmForSwitch(int32(o.HostFunction.Type)); !ok {
			return xdr.OperationBody{}, ErrInvalidOperation.Withf("host function type %s", o.HostFunction.Type)
		}
		return xdr.OperationBody{InvokeHostFunctionOp: &xdr.InvokeHostFunctionOp{
			HostFunction: o.HostFunction,
			Auth:         o.Auth,
		}}, nil
	})
}

func (o *InvokeHostFunction) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeInvokeHostFunction); err != nil {
		return err
	}
	body := x.Body.InvokeHostFunctionOp
	*o = InvokeHostFunction{
		HostFunction:  body.HostFunction,
		Auth:          body.Auth,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *InvokeHostFunction) Validate() error          { return validate(o) }
func (o *InvokeHostFunction) GetSourceAccount() string { return o.SourceAccount }

// ExtendFootprintTtl extends the live-until ledger of the read-only
// footprint entries to at least ExtendTo ledgers from now.
type ExtendFootprintTtl struct {
	ExtendTo      uint32
	Ext           xdr.TransactionExt
	SourceAccount string
}

func (o *ExtendFootprintTtl) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeExtendFootprintTtl, o.SourceAccount, func() (xdr.OperationBody, error) {
		if o.ExtendTo == 0 {
			return xdr.OperationBody{}, ErrInvalidOperation.Withf("extend to must be positive")
		}
		return xdr.OperationBody{ExtendFootprintTTLOp: &xdr.ExtendFootprintTTLOp{ExtendTo: o.ExtendTo}}, nil
	})
}

func (o *ExtendFootprintTtl) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeExtendFootprintTtl); err != nil {
		return err
	}
	*o = ExtendFootprintTtl{ExtendTo: x.Body.ExtendFootprintTTLOp.ExtendTo, SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *ExtendFootprintTtl) Validate() error          { return validate(o) }
func (o *ExtendFootprintTtl) GetSourceAccount() string { return o.SourceAccount }

// RestoreFootprint restores the archived entries of the read-write
// footprint.
type RestoreFootprint struct {
	Ext           xdr.TransactionExt
	SourceAccount string
}

func (o *RestoreFootprint) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeRestoreFootprint, o.SourceAccount, func() (xdr.OperationBody, error) {
		return xdr.OperationBody{RestoreFootprintOp: &xdr.RestoreFootprintOp{}}, nil
	})
}

func (o *RestoreFootprint) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeRestoreFootprint); err != nil {
		return err
	}
	*o = RestoreFootprint{SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *RestoreFootprint) Validate() error          { return validate(o) }
func (o *RestoreFootprint) GetSourceAccount() string { return o.SourceAccount }
