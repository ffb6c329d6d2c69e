// Package txnbuild builds, signs and parses Stellar transactions.
//
// Transactions are immutable once built: Sign and the other signature
// methods return a new value and leave the receiver untouched. To change a
// transaction, build a new one.
package txnbuild

import (
	"math"

	"github.com/pkg/errors"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/xdr"
)

// MinBaseFee is the network minimum fee per operation, in stroops.
const MinBaseFee = 100

// TransactionParams are the inputs of NewTransaction.
type TransactionParams struct {
	SourceAccount        Account
	IncrementSequenceNum bool
	Operations           []Operation
	BaseFee              int64
	Memo                 Memo
	Preconditions        Preconditions
}

// Transaction is a v1 transaction envelope plus the values it was built
// from. A transaction parsed from a v0 envelope keeps the v0 encoding.
type Transaction struct {
	envelope      xdr.TransactionEnvelope
	baseFee       int64
	maxFee        int64
	sourceAccount SimpleAccount
	operations    []Operation
	memo          Memo
	preconditions Preconditions
}

// NewTransaction validates params and builds an unsigned transaction. The
// source account's sequence number is incremented only when the build
// succeeds and IncrementSequenceNum is set.
func NewTransaction(params TransactionParams) (*Transaction, error) {
	if params.SourceAccount == nil {
		return nil, ErrMissingSource
	}
	if n := len(params.Operations); n == 0 || n > xdr.MaxOperations {
		return nil, ErrOperationCount.Withf("got %d operations", n)
	}
	if params.BaseFee < MinBaseFee {
		return nil, ErrBaseFee.Withf("base fee %d is below %d", params.BaseFee, MinBaseFee)
	}
	if params.BaseFee > math.MaxUint32 {
		return nil, ErrFeeOverflow.Withf("base fee %d", params.BaseFee)
	}

	source, err := parseMuxed("source account", params.SourceAccount.GetAccountID())
	if err != nil {
		return nil, err
	}
	cond, err := params.Preconditions.toXDR()
	if err != nil {
		return nil, err
	}
	memo, err := memoToXDR(params.Memo)
	if err != nil {
		return nil, err
	}

	ext := xdr.TransactionExt{V: 0}
	var resourceFee int64
	ops := make([]xdr.Operation, len(params.Operations))
	for i, op := range params.Operations {
		if op == nil {
			return nil, ErrInvalidOperation.Withf("operation %d is nil", i)
		}
		if s, ok := op.(SorobanOperation); ok {
			if len(params.Operations) != 1 {
				return nil, ErrSorobanNotAlone.Withf("%s with %d other operations", OperationName(opType(op)), len(params.Operations)-1)
			}
			if data := s.sorobanData(); data != nil {
				ext = xdr.TransactionExt{V: 1, SorobanData: data}
				resourceFee = data.ResourceFee
			}
		}
		if ops[i], err = op.BuildXDR(); err != nil {
			return nil, err
		}
	}

	fee := params.BaseFee*int64(len(ops)) + resourceFee
	if resourceFee < 0 || fee > math.MaxUint32 {
		return nil, ErrFeeOverflow.Withf("fee %d", fee)
	}

	var seq int64
	if params.IncrementSequenceNum {
		seq, err = params.SourceAccount.IncrementSequenceNumber()
	} else {
		seq, err = params.SourceAccount.GetSequenceNumber()
	}
	if err != nil {
		return nil, err
	}

	tx := xdr.Transaction{
		SourceAccount: source,
		Fee:           uint32(fee),
		SeqNum:        xdr.SequenceNumber(seq),
		Cond:          cond,
		Memo:          memo,
		Operations:    ops,
		Ext:           ext,
	}
	return &Transaction{
		envelope: xdr.TransactionEnvelope{
			Type: xdr.EnvelopeTypeEnvelopeTypeTx,
			V1:   &xdr.TransactionV1Envelope{Tx: tx},
		},
		baseFee:       params.BaseFee,
		maxFee:        fee,
		sourceAccount: NewSimpleAccount(params.SourceAccount.GetAccountID(), seq),
		operations:    append([]Operation{}, params.Operations...),
		memo:          params.Memo,
		preconditions: params.Preconditions,
	}, nil
}

func opType(op Operation) xdr.OperationType {
	x, err := op.BuildXDR()
	if err != nil {
		return -1
	}
	return x.Body.Type
}

// SourceAccount returns the source as of this transaction's sequence.
func (t *Transaction) SourceAccount() SimpleAccount { return t.sourceAccount }

func (t *Transaction) SequenceNumber() int64 { return t.sourceAccount.Sequence }

// BaseFee is the per-operation fee the transaction was built with.
func (t *Transaction) BaseFee() int64 { return t.baseFee }

// MaxFee is the fee field: base fee times operations plus any Soroban
// resource fee.
func (t *Transaction) MaxFee() int64 { return t.maxFee }

func (t *Transaction) Memo() Memo { return t.memo }

func (t *Transaction) Timebounds() TimeBounds { return t.preconditions.TimeBounds }

func (t *Transaction) Preconditions() Preconditions { return t.preconditions }

// Operations returns a copy of the operation list.
func (t *Transaction) Operations() []Operation {
	return append([]Operation{}, t.operations...)
}

// Signatures returns a copy of the envelope signatures.
func (t *Transaction) Signatures() []xdr.DecoratedSignature {
	return copySignatures(t.envelope.Signatures())
}

// ToXDR returns a deep copy of the envelope.
func (t *Transaction) ToXDR() (xdr.TransactionEnvelope, error) {
	return cloneEnvelope(t.envelope)
}

// Hash returns the hash signatures on network n cover.
func (t *Transaction) Hash(n network.Network) ([32]byte, error) {
	return n.HashEnvelope(t.envelope)
}

func (t *Transaction) HashHex(n network.Network) (string, error) {
	h, err := t.Hash(n)
	if err != nil {
		return "", err
	}
	return network.HashHex(h), nil
}

// Sign returns a copy of t with a signature from each keypair appended.
func (t *Transaction) Sign(n network.Network, kps ...keypair.KP) (*Transaction, error) {
	hash, err := t.Hash(n)
	if err != nil {
		return nil, err
	}
	sigs, err := signHash(hash, t.envelope.Signatures(), kps)
	if err != nil {
		return nil, err
	}
	return t.withSignatures(sigs), nil
}

// SignWithKeyString is Sign with S seeds.
func (t *Transaction) SignWithKeyString(n network.Network, seeds ...string) (*Transaction, error) {
	kps := make([]keypair.KP, len(seeds))
	for i, s := range seeds {
		kp, err := keypair.ParseFull(s)
		if err != nil {
			return nil, err
		}
		kps[i] = kp
	}
	return t.Sign(n, kps...)
}

// SignHashX returns a copy of t with the preimage of a hash(x) signer
// appended as a signature.
func (t *Transaction) SignHashX(preimage []byte) (*Transaction, error) {
	ds, err := hashXSignature(preimage)
	if err != nil {
		return nil, err
	}
	return t.AddSignatureDecorated(ds)
}

// AddSignatureDecorated returns a copy of t with sigs appended unchecked.
func (t *Transaction) AddSignatureDecorated(sigs ...xdr.DecoratedSignature) (*Transaction, error) {
	out, err := appendSignatures(t.envelope.Signatures(), sigs)
	if err != nil {
		return nil, err
	}
	return t.withSignatures(out), nil
}

// AddSignatureBase64 verifies a detached signature from publicKey and
// returns a copy of t carrying it.
func (t *Transaction) AddSignatureBase64(n network.Network, publicKey, signature string) (*Transaction, error) {
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

// ClearSignatures returns an unsigned copy of t.
func (t *Transaction) ClearSignatures() *Transaction {
	return t.withSignatures(nil)
}

// VerifySignatures checks every envelope signature against the candidate
// signers on network n. Signatures made over a different hash, such as
// another network's, report Valid false.
func (t *Transaction) VerifySignatures(n network.Network, signers ...keypair.KP) ([]SignatureCheck, error) {
	hash, err := t.Hash(n)
	if err != nil {
		return nil, err
	}
	return checkSignatures(hash, t.envelope.Signatures(), signers), nil
}

// RequireSigners fails with ErrMissingSigner unless every signer has a
// valid signature on the envelope.
func (t *Transaction) RequireSigners(n network.Network, signers ...keypair.KP) error {
	hash, err := t.Hash(n)
	if err != nil {
		return err
	}
	return requireSigners(hash, t.envelope.Signatures(), signers)
}

func (t *Transaction) MarshalBinary() ([]byte, error) {
	return xdr.Marshal(t.envelope)
}

// Base64 returns the base64 XDR of the envelope.
func (t *Transaction) Base64() (string, error) {
	return xdr.MarshalBase64(t.envelope)
}

func (t *Transaction) withSignatures(sigs []xdr.DecoratedSignature) *Transaction {
	c := *t
	switch t.envelope.Type {
	case xdr.EnvelopeTypeEnvelopeTypeTxV0:
		v0 := *t.envelope.V0
		v0.Signatures = sigs
		c.envelope = xdr.TransactionEnvelope{Type: t.envelope.Type, V0: &v0}
	default:
		v1 := *t.envelope.V1
		v1.Signatures = sigs
		c.envelope = xdr.TransactionEnvelope{Type: t.envelope.Type, V1: &v1}
	}
	return &c
}

// v1Envelope returns the envelope as v1, converting a v0 envelope. The
// converted transaction hashes identically so signatures stay valid.
func (t *Transaction) v1Envelope() (xdr.TransactionV1Envelope, error) {
	env, err := t.ToXDR()
	if err != nil {
		return xdr.TransactionV1Envelope{}, err
	}
	if env.Type == xdr.EnvelopeTypeEnvelopeTypeTxV0 {
		return xdr.TransactionV1Envelope{Tx: env.V0.Tx.ToV1(), Signatures: env.V0.Signatures}, nil
	}
	return *env.V1, nil
}

// cloneEnvelope deep-copies env through its encoding. An envelope that
// cannot be encoded is an error, never a shared copy.
func cloneEnvelope(env xdr.TransactionEnvelope) (xdr.TransactionEnvelope, error) {
	raw, err := xdr.Marshal(env)
	if err != nil {
		return xdr.TransactionEnvelope{}, errors.Wrap(err, "copying envelope")
	}
	var out xdr.TransactionEnvelope
	if err := xdr.Unmarshal(raw, &out); err != nil {
		return xdr.TransactionEnvelope{}, errors.Wrap(err, "copying envelope")
	}
	return out, nil
}
