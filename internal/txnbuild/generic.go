package txnbuild

import (
	"github.com/stellar-txkit/internal/xdr"
)

// GenericTransaction is a parsed envelope that is either a Transaction or a
// FeeBumpTransaction.
type GenericTransaction struct {
	simple  *Transaction
	feeBump *FeeBumpTransaction
}

// Transaction returns the v0/v1 transaction when the envelope holds one.
func (g *GenericTransaction) Transaction() (*Transaction, bool) {
	return g.simple, g.simple != nil
}

// FeeBump returns the fee bump when the envelope holds one.
func (g *GenericTransaction) FeeBump() (*FeeBumpTransaction, bool) {
	return g.feeBump, g.feeBump != nil
}

// TransactionFromXDR parses a base64 envelope.
func TransactionFromXDR(b64 string) (*GenericTransaction, error) {
	var env xdr.TransactionEnvelope
	if err := xdr.UnmarshalBase64(b64, &env); err != nil {
		return nil, err
	}
	return TransactionFromEnvelope(env)
}

// TransactionFromEnvelope wraps a decoded envelope. The envelope is copied.
func TransactionFromEnvelope(env xdr.TransactionEnvelope) (*GenericTransaction, error) {
	env, err := cloneEnvelope(env)
	if err != nil {
		return nil, err
	}
	switch env.Type {
	case xdr.EnvelopeTypeEnvelopeTypeTxV0, xdr.EnvelopeTypeEnvelopeTypeTx:
		tx, err := transactionFromEnvelope(env)
		if err != nil {
			return nil, err
		}
		return &GenericTransaction{simple: tx}, nil
	case xdr.EnvelopeTypeEnvelopeTypeTxFeeBump:
		fb, err := feeBumpFromEnvelope(env)
		if err != nil {
			return nil, err
		}
		return &GenericTransaction{feeBump: fb}, nil
	}
	return nil, ErrEnvelopeType.Withf("%s", env.Type)
}

func transactionFromEnvelope(env xdr.TransactionEnvelope) (*Transaction, error) {
	var tx xdr.Transaction
	switch {
	case env.Type == xdr.EnvelopeTypeEnvelopeTypeTxV0 && env.V0 != nil:
		tx = env.V0.Tx.ToV1()
	case env.Type == xdr.EnvelopeTypeEnvelopeTypeTx && env.V1 != nil:
		tx = env.V1.Tx
	default:
		return nil, ErrEnvelopeType.Withf("%s", env.Type)
	}

	var resourceFee int64
	if tx.Ext.SorobanData != nil {
		resourceFee = tx.Ext.SorobanData.ResourceFee
	}
	ops := make([]Operation, len(tx.Operations))
	for i, x := range tx.Operations {
		op, err := OperationFromXDR(x)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	if len(ops) == 1 && tx.Ext.SorobanData != nil {
		attachSorobanData(ops[0], tx.Ext)
	}
	memo, err := memoFromXDR(tx.Memo)
	if err != nil {
		return nil, err
	}

	baseFee := int64(tx.Fee) - resourceFee
	if len(ops) > 0 {
		baseFee /= int64(len(ops))
	}
	return &Transaction{
		envelope:      env,
		baseFee:       baseFee,
		maxFee:        int64(tx.Fee),
		sourceAccount: NewSimpleAccount(tx.SourceAccount.Address(), int64(tx.SeqNum)),
		operations:    ops,
		memo:          memo,
		preconditions: preconditionsFromXDR(tx.Cond),
	}, nil
}

func attachSorobanData(op Operation, ext xdr.TransactionExt) {
	switch o := op.(type) {
	case *InvokeHostFunction:
		o.Ext = ext
	case *ExtendFootprintTtl:
		o.Ext = ext
	case *RestoreFootprint:
		o.Ext = ext
	}
}

func feeBumpFromEnvelope(env xdr.TransactionEnvelope) (*FeeBumpTransaction, error) {
	if env.FeeBump == nil || env.FeeBump.Tx.InnerTx.V1 == nil {
		return nil, ErrEnvelopeType.Withf("fee bump without a v1 inner transaction")
	}
	fb := env.FeeBump.Tx
	inner, err := transactionFromEnvelope(xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTx,
		V1:   fb.InnerTx.V1,
	})
	if err != nil {
		return nil, err
	}
	var resourceFee int64
	if data := fb.InnerTx.V1.Tx.Ext.SorobanData; data != nil {
		resourceFee = data.ResourceFee
	}
	baseFee := (fb.Fee - resourceFee) / int64(len(fb.InnerTx.V1.Tx.Operations)+1)
	return &FeeBumpTransaction{
		envelope:   env,
		baseFee:    baseFee,
		maxFee:     fb.Fee,
		feeAccount: fb.FeeSource.Address(),
		inner:      inner,
	}, nil
}
