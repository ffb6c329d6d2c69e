package txnbuild

import (
	"math"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/xdr"
)

// FeeBumpTransactionParams are the inputs of NewFeeBumpTransaction.
type FeeBumpTransactionParams struct {
	Inner      *Transaction
	FeeAccount string
	BaseFee    int64
}

// FeeBumpTransaction pays the fee of an already signed inner transaction.
type FeeBumpTransaction struct {
	envelope   xdr.TransactionEnvelope
	baseFee    int64
	maxFee     int64
	feeAccount string
	inner      *Transaction
}

// NewFeeBumpTransaction wraps params.Inner. The outer fee is BaseFee times
// the inner operation count plus one, plus any Soroban resource fee, and
// BaseFee may not be lower than the inner transaction's base fee. A v0
// inner envelope is converted to v1.
func NewFeeBumpTransaction(params FeeBumpTransactionParams) (*FeeBumpTransaction, error) {
	if params.Inner == nil {
		return nil, ErrFeeBump.Withf("inner transaction is required")
	}
	if params.BaseFee < MinBaseFee {
		return nil, ErrBaseFee.Withf("base fee %d is below %d", params.BaseFee, MinBaseFee)
	}
	if params.BaseFee < params.Inner.BaseFee() {
		return nil, ErrFeeBump.Withf("base fee %d is lower than the inner transaction's %d", params.BaseFee, params.Inner.BaseFee())
	}
	feeSource, err := parseMuxed("fee account", params.FeeAccount)
	if err != nil {
		return nil, err
	}

	inner, err := params.Inner.v1Envelope()
	if err != nil {
		return nil, err
	}
	slots := int64(len(inner.Tx.Operations) + 1)
	if params.BaseFee > math.MaxInt64/slots {
		return nil, ErrFeeOverflow.Withf("base fee %d", params.BaseFee)
	}
	fee := params.BaseFee * slots
	if data := inner.Tx.Ext.SorobanData; data != nil {
		fee += data.ResourceFee
	}

	innerTx := params.Inner
	if params.Inner.envelope.Type == xdr.EnvelopeTypeEnvelopeTypeTxV0 {
		c := *params.Inner
		c.envelope = xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeEnvelopeTypeTx, V1: &inner}
		innerTx = &c
	}

	return &FeeBumpTransaction{
		envelope: xdr.TransactionEnvelope{
			Type: xdr.EnvelopeTypeEnvelopeTypeTxFeeBump,
			FeeBump: &xdr.FeeBumpTransactionEnvelope{Tx: xdr.FeeBumpTransaction{
				FeeSource: feeSource,
				Fee:       fee,
				InnerTx:   xdr.FeeBumpTransactionInnerTx{Type: xdr.EnvelopeTypeEnvelopeTypeTx, V1: &inner},
			}},
		},
		baseFee:    params.BaseFee,
		maxFee:     fee,
		feeAccount: params.FeeAccount,
		inner:      innerTx,
	}, nil
}

// InnerTransaction returns the wrapped transaction.
func (t *FeeBumpTransaction) InnerTransaction() *Transaction { return t.inner }

func (t *FeeBumpTransaction) FeeAccount() string { return t.feeAccount }

func (t *FeeBumpTransaction) BaseFee() int64 { return t.baseFee }

func (t *FeeBumpTransaction) MaxFee() int64 { return t.maxFee }

// Signatures returns a copy of the outer signatures.
func (t *FeeBumpTransaction) Signatures() []xdr.DecoratedSignature {
	return copySignatures(t.envelope.FeeBump.Signatures)
}

// ToXDR returns a deep copy of the envelope.
func (t *FeeBumpTransaction) ToXDR() (xdr.TransactionEnvelope, error) {
	return cloneEnvelope(t.envelope)
}

// Hash returns the outer hash, tagged ENVELOPE_TYPE_TX_FEE_BUMP.
func (t *FeeBumpTransaction) Hash(n network.Network) ([32]byte, error) {
	return n.HashEnvelope(t.envelope)
}

func (t *FeeBumpTransaction) HashHex(n network.Network) (string, error) {
	h, err := t.Hash(n)
	if err != nil {
		return "", err
	}
	return network.HashHex(h), nil
}

// Sign returns a copy of t with outer signatures from each keypair
// appended.
func (t *FeeBumpTransaction) Sign(n network.Network, kps ...keypair.KP) (*FeeBumpTransaction, error) {
	hash, err := t.Hash(n)
	if err != nil {
		return nil, err
	}
	sigs, err := signHash(hash, t.envelope.FeeBump.Signatures, kps)
	if err != nil {
		return nil, err
	}
	return t.withSignatures(sigs), nil
}

func (t *FeeBumpTransaction) SignHashX(preimage []byte) (*FeeBumpTransaction, error) {
	ds, err := hashXSignature(preimage)
	if err != nil {
		return nil, err
	}
	return t.AddSignatureDecorated(ds)
}

func (t *FeeBumpTransaction) AddSignatureDecorated(sigs ...xdr.DecoratedSignature) (*FeeBumpTransaction, error) {
	out, err := appendSignatures(t.envelope.FeeBump.Signatures, sigs)
	if err != nil {
		return nil, err
	}
	return t.withSignatures(out), nil
}

func (t *FeeBumpTransaction) AddSignatureBase64(n network.Network, publicKey, signature string) (*FeeBumpTransaction, error) {
	hash, err := t.Hash(n)
	if err != nil {
		return nil, err
	}
	ds, err := decodeSignature(hash, publicKey, signature)
	if err != nil {
		return nil, err
	}
	return t.AddSignatureDecorated(ds)
}

func (t *FeeBumpTransaction) ClearSignatures() *FeeBumpTransaction {
	return t.withSignatures(nil)
}

// VerifySignatures checks the outer signatures only.
func (t *FeeBumpTransaction) VerifySignatures(n network.Network, signers ...keypair.KP) ([]SignatureCheck, error) {
	hash, err := t.Hash(n)
	if err != nil {
		return nil, err
	}
	return checkSignatures(hash, t.envelope.FeeBump.Signatures, signers), nil
}

func (t *FeeBumpTransaction) RequireSigners(n network.Network, signers ...keypair.KP) error {
	hash, err := t.Hash(n)
	if err != nil {
		return err
	}
	return requireSigners(hash, t.envelope.FeeBump.Signatures, signers)
}

func (t *FeeBumpTransaction) MarshalBinary() ([]byte, error) {
	return xdr.Marshal(t.envelope)
}

func (t *FeeBumpTransaction) Base64() (string, error) {
	return xdr.MarshalBase64(t.envelope)
}

func (t *FeeBumpTransaction) withSignatures(sigs []xdr.DecoratedSignature) *FeeBumpTransaction {
	c := *t
	fb := *t.envelope.FeeBump
	fb.Signatures = sigs
	c.envelope = xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeEnvelopeTypeTxFeeBump, FeeBump: &fb}
	return &c
}
