package xdr

// MaxOperations is the most operations a transaction may carry.
const MaxOperations = 100

// MaxSignatures is the most signatures an envelope may carry.
const MaxSignatures = 20

// MaxMemoText is the byte limit of a MEMO_TEXT memo.
const MaxMemoText = 28

func (s SequenceNumber) EncodeTo(e *Encoder) error {
	e.EncodeInt64(int64(s))
	return nil
}

func (s *SequenceNumber) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt64()
	*s = SequenceNumber(v)
	return err
}

type MemoType int32

const (
	MemoTypeMemoNone   MemoType = 0
	MemoTypeMemoText   MemoType = 1
	MemoTypeMemoId     MemoType = 2
	MemoTypeMemoHash   MemoType = 3
	MemoTypeMemoReturn MemoType = 4
)

var memoTypeNames = enumNames{
	0: "MEMO_NONE",
	1: "MEMO_TEXT",
	2: "MEMO_ID",
	3: "MEMO_HASH",
	4: "MEMO_RETURN",
}

func (t MemoType) String() string            { return memoTypeNames.name(int32(t)) }
func (MemoType) ValidEnum(v int32) bool      { return memoTypeNames.valid(v) }
func (MemoType) EnumNames() map[int32]string { return memoTypeNames }

type Memo struct {
	Type    MemoType
	Text    *string
	ID      *uint64
	Hash    *Hash
	RetHash *Hash
}

func (Memo) SwitchFieldName() string { return "Type" }

func (Memo) ArmForSwitch(sw int32) (string, bool) {
	switch MemoType(sw) {
	case MemoTypeMemoNone:
		return "", true
	case MemoTypeMemoText:
		return "Text", true
	case MemoTypeMemoId:
		return "ID", true
	case MemoTypeMemoHash:
		return "Hash", true
	case MemoTypeMemoReturn:
		return "RetHash", true
	}
	return "", false
}

func (m Memo) EncodeTo(e *Encoder) error {
	if err := memoTypeNames.encode(e, int32(m.Type), "Memo"); err != nil {
		return err
	}
	switch m.Type {
	case MemoTypeMemoText:
		if m.Text == nil {
			return armMissing("Memo", "Text")
		}
		return e.EncodeString(*m.Text, MaxMemoText)
	case MemoTypeMemoId:
		if m.ID == nil {
			return armMissing("Memo", "ID")
		}
		e.EncodeUint64(*m.ID)
	case MemoTypeMemoHash:
		if m.Hash == nil {
			return armMissing("Memo", "Hash")
		}
		return m.Hash.EncodeTo(e)
	case MemoTypeMemoReturn:
		if m.RetHash == nil {
			return armMissing("Memo", "RetHash")
		}
		return m.RetHash.EncodeTo(e)
	}
	return nil
}

func (m *Memo) DecodeFrom(d *Decoder) error {
	v, err := memoTypeNames.decode(d, "Memo")
	if err != nil {
		return err
	}
	*m = Memo{Type: MemoType(v)}
	switch m.Type {
	case MemoTypeMemoText:
		s, err := d.DecodeString(MaxMemoText)
		if err != nil {
			return err
		}
		m.Text = &s
	case MemoTypeMemoId:
		id, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		m.ID = &id
	case MemoTypeMemoHash:
		m.Hash = new(Hash)
		return m.Hash.DecodeFrom(d)
	case MemoTypeMemoReturn:
		m.RetHash = new(Hash)
		return m.RetHash.DecodeFrom(d)
	}
	return nil
}

type TimeBounds struct {
	MinTime TimePoint
	MaxTime TimePoint
}

func (t TimeBounds) EncodeTo(e *Encoder) error {
	e.EncodeUint64(uint64(t.MinTime))
	e.EncodeUint64(uint64(t.MaxTime))
	return nil
}

func (t *TimeBounds) DecodeFrom(d *Decoder) error {
	lo, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	hi, err := d.DecodeUint64()
	t.MinTime, t.MaxTime = TimePoint(lo), TimePoint(hi)
	return err
}

type LedgerBounds struct {
	MinLedger uint32
	MaxLedger uint32
}

func (l LedgerBounds) EncodeTo(e *Encoder) error {
	e.EncodeUint32(l.MinLedger)
	e.EncodeUint32(l.MaxLedger)
	return nil
}

func (l *LedgerBounds) DecodeFrom(d *Decoder) error {
	var err error
	if l.MinLedger, err = d.DecodeUint32(); err != nil {
		return err
	}
	l.MaxLedger, err = d.DecodeUint32()
	return err
}

// PreconditionsV2 are the CAP-21 transaction preconditions.
type PreconditionsV2 struct {
	TimeBounds      *TimeBounds
	LedgerBounds    *LedgerBounds
	MinSeqNum       *SequenceNumber
	MinSeqAge       Duration
	MinSeqLedgerGap uint32
	ExtraSigners    []SignerKey // <2>
}

func (p PreconditionsV2) EncodeTo(e *Encoder) error {
	if err := encodeOptional(e, p.TimeBounds); err != nil {
		return err
	}
	if err := encodeOptional(e, p.LedgerBounds); err != nil {
		return err
	}
	if err := encodeOptional(e, p.MinSeqNum); err != nil {
		return err
	}
	e.EncodeUint64(uint64(p.MinSeqAge))
	e.EncodeUint32(p.MinSeqLedgerGap)
	return encodeArray(e, p.ExtraSigners, 2)
}

func (p *PreconditionsV2) DecodeFrom(d *Decoder) error {
	var err error
	if p.TimeBounds, err = decodeOptional[TimeBounds](d); err != nil {
		return err
	}
	if p.LedgerBounds, err = decodeOptional[LedgerBounds](d); err != nil {
		return err
	}
	if p.MinSeqNum, err = decodeOptional[SequenceNumber](d); err != nil {
		return err
	}
	age, err := d.DecodeUint64()
	if err != nil {
		return err
	}
	p.MinSeqAge = Duration(age)
	if p.MinSeqLedgerGap, err = d.DecodeUint32(); err != nil {
		return err
	}
	p.ExtraSigners, err = decodeArray[SignerKey](d, 2, 36)
	return err
}

type PreconditionType int32

const (
	PreconditionTypePrecondNone PreconditionType = 0
	PreconditionTypePrecondTime PreconditionType = 1
	PreconditionTypePrecondV2   PreconditionType = 2
)

var preconditionTypeNames = enumNames{
	0: "PRECOND_NONE",
	1: "PRECOND_TIME",
	2: "PRECOND_V2",
}

func (t PreconditionType) String() string            { return preconditionTypeNames.name(int32(t)) }
func (PreconditionType) ValidEnum(v int32) bool      { return preconditionTypeNames.valid(v) }
func (PreconditionType) EnumNames() map[int32]string { return preconditionTypeNames }

type Preconditions struct {
	Type       PreconditionType
	TimeBounds *TimeBounds
	V2         *PreconditionsV2
}

func (Preconditions) SwitchFieldName() string { return "Type" }

func (Preconditions) ArmForSwitch(sw int32) (string, bool) {
	switch PreconditionType(sw) {
	case PreconditionTypePrecondNone:
		return "", true
	case PreconditionTypePrecondTime:
		return "TimeBounds", true
	case PreconditionTypePrecondV2:
		return "V2", true
	}
	return "", false
}

func (p Preconditions) EncodeTo(e *Encoder) error {
	if err := preconditionTypeNames.encode(e, int32(p.Type), "Preconditions"); err != nil {
		return err
	}
	switch p.Type {
	case PreconditionTypePrecondTime:
		if p.TimeBounds == nil {
			return armMissing("Preconditions", "TimeBounds")
		}
		return p.TimeBounds.EncodeTo(e)
	case PreconditionTypePrecondV2:
		if p.V2 == nil {
			return armMissing("Preconditions", "V2")
		}
		return p.V2.EncodeTo(e)
	}
	return nil
}

func (p *Preconditions) DecodeFrom(d *Decoder) error {
	v, err := preconditionTypeNames.decode(d, "Preconditions")
	if err != nil {
		return err
	}
	*p = Preconditions{Type: PreconditionType(v)}
	switch p.Type {
	case PreconditionTypePrecondTime:
		p.TimeBounds = new(TimeBounds)
		return p.TimeBounds.DecodeFrom(d)
	case PreconditionTypePrecondV2:
		p.V2 = new(PreconditionsV2)
		return p.V2.DecodeFrom(d)
	}
	return nil
}

// TransactionExt carries Soroban resources when V is 1.
type TransactionExt struct {
	V           int32
	SorobanData *SorobanTransactionData
}

func (TransactionExt) SwitchFieldName() string { return "V" }

func (TransactionExt) ArmForSwitch(sw int32) (string, bool) {
	switch sw {
	case 0:
		return "", true
	case 1:
		return "SorobanData", true
	}
	return "", false
}

func (x TransactionExt) EncodeTo(e *Encoder) error {
	switch x.V {
	case 0:
		e.EncodeInt32(0)
		return nil
	case 1:
		if x.SorobanData == nil {
			return armMissing("TransactionExt", "SorobanData")
		}
		e.EncodeInt32(1)
		return x.SorobanData.EncodeTo(e)
	}
	return ErrInvalidValue.Withf("TransactionExt: v=%d", x.V)
}

func (x *TransactionExt) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*x = TransactionExt{V: v}
	switch v {
	case 0:
		return nil
	case 1:
		x.SorobanData = new(SorobanTransactionData)
		return x.SorobanData.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("TransactionExt: %d", v)
}

type Transaction struct {
	SourceAccount MuxedAccount
	Fee           uint32
	SeqNum        SequenceNumber
	Cond          Preconditions
	Memo          Memo
	Operations    []Operation // <100>
	Ext           TransactionExt
}

func (t Transaction) EncodeTo(e *Encoder) error {
	if err := t.SourceAccount.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(t.Fee)
	e.EncodeInt64(int64(t.SeqNum))
	if err := t.Cond.EncodeTo(e); err != nil {
		return err
	}
	if err := t.Memo.EncodeTo(e); err != nil {
		return err
	}
	if err := encodeArray(e, t.Operations, MaxOperations); err != nil {
		return err
	}
	return t.Ext.EncodeTo(e)
}

func (t *Transaction) DecodeFrom(d *Decoder) error {
	if err := t.SourceAccount.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if t.Fee, err = d.DecodeUint32(); err != nil {
		return err
	}
	if err := t.SeqNum.DecodeFrom(d); err != nil {
		return err
	}
	if err := t.Cond.DecodeFrom(d); err != nil {
		return err
	}
	if err := t.Memo.DecodeFrom(d); err != nil {
		return err
	}
	if t.Operations, err = decodeArray[Operation](d, MaxOperations, 8); err != nil {
		return err
	}
	return t.Ext.DecodeFrom(d)
}

// TransactionV0 is the pre-protocol-13 transaction layout, kept for
// decoding old envelopes.
type TransactionV0 struct {
	SourceAccountEd25519 Uint256
	Fee                  uint32
	SeqNum               SequenceNumber
	TimeBounds           *TimeBounds
	Memo                 Memo
	Operations           []Operation // <100>
	Ext                  ExtensionPoint
}

func (t TransactionV0) EncodeTo(e *Encoder) error {
	if err := t.SourceAccountEd25519.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(t.Fee)
	e.EncodeInt64(int64(t.SeqNum))
	if err := encodeOptional(e, t.TimeBounds); err != nil {
		return err
	}
	if err := t.Memo.EncodeTo(e); err != nil {
		return err
	}
	if err := encodeArray(e, t.Operations, MaxOperations); err != nil {
		return err
	}
	return t.Ext.EncodeTo(e)
}

func (t *TransactionV0) DecodeFrom(d *Decoder) error {
	if err := t.SourceAccountEd25519.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if t.Fee, err = d.DecodeUint32(); err != nil {
		return err
	}
	if err := t.SeqNum.DecodeFrom(d); err != nil {
		return err
	}
	if t.TimeBounds, err = decodeOptional[TimeBounds](d); err != nil {
		return err
	}
	if err := t.Memo.DecodeFrom(d); err != nil {
		return err
	}
	if t.Operations, err = decodeArray[Operation](d, MaxOperations, 8); err != nil {
		return err
	}
	return t.Ext.DecodeFrom(d)
}

// ToV1 returns the V1 form of t. A present time bound becomes PRECOND_TIME.
func (t TransactionV0) ToV1() Transaction {
	src := t.SourceAccountEd25519
	tx := Transaction{
		SourceAccount: MuxedAccount{Type: CryptoKeyTypeKeyTypeEd25519, Ed25519: &src},
		Fee:           t.Fee,
		SeqNum:        t.SeqNum,
		Memo:          t.Memo,
		Operations:    t.Operations,
	}
	if t.TimeBounds != nil {
		tb := *t.TimeBounds
		tx.Cond = Preconditions{Type: PreconditionTypePrecondTime, TimeBounds: &tb}
	}
	return tx
}

type TransactionV0Envelope struct {
	Tx         TransactionV0
	Signatures []DecoratedSignature // <20>
}

func (e0 TransactionV0Envelope) EncodeTo(e *Encoder) error {
	if err := e0.Tx.EncodeTo(e); err != nil {
		return err
	}
	return encodeArray(e, e0.Signatures, MaxSignatures)
}

func (e0 *TransactionV0Envelope) DecodeFrom(d *Decoder) error {
	if err := e0.Tx.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	e0.Signatures, err = decodeArray[DecoratedSignature](d, MaxSignatures, 8)
	return err
}

type TransactionV1Envelope struct {
	Tx         Transaction
	Signatures []DecoratedSignature // <20>
}

func (e1 TransactionV1Envelope) EncodeTo(e *Encoder) error {
	if err := e1.Tx.EncodeTo(e); err != nil {
		return err
	}
	return encodeArray(e, e1.Signatures, MaxSignatures)
}

func (e1 *TransactionV1Envelope) DecodeFrom(d *Decoder) error {
	if err := e1.Tx.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	e1.Signatures, err = decodeArray[DecoratedSignature](d, MaxSignatures, 8)
	return err
}

type EnvelopeType int32

const (
	EnvelopeTypeEnvelopeTypeTxV0                 EnvelopeType = 0
	EnvelopeTypeEnvelopeTypeScp                  EnvelopeType = 1
	EnvelopeTypeEnvelopeTypeTx                   EnvelopeType = 2
	EnvelopeTypeEnvelopeTypeAuth                 EnvelopeType = 3
	EnvelopeTypeEnvelopeTypeScpvalue             EnvelopeType = 4
	EnvelopeTypeEnvelopeTypeTxFeeBump            EnvelopeType = 5
	EnvelopeTypeEnvelopeTypeOpId                 EnvelopeType = 6
	EnvelopeTypeEnvelopeTypePoolRevokeOpId       EnvelopeType = 7
	EnvelopeTypeEnvelopeTypeContractId           EnvelopeType = 8
	EnvelopeTypeEnvelopeTypeSorobanAuthorization EnvelopeType = 9
)

var envelopeTypeNames = enumNames{
	0: "ENVELOPE_TYPE_TX_V0",
	1: "ENVELOPE_TYPE_SCP",
	2: "ENVELOPE_TYPE_TX",
	3: "ENVELOPE_TYPE_AUTH",
	4: "ENVELOPE_TYPE_SCPVALUE",
	5: "ENVELOPE_TYPE_TX_FEE_BUMP",
	6: "ENVELOPE_TYPE_OP_ID",
	7: "ENVELOPE_TYPE_POOL_REVOKE_OP_ID",
	8: "ENVELOPE_TYPE_CONTRACT_ID",
	9: "ENVELOPE_TYPE_SOROBAN_AUTHORIZATION",
}

func (t EnvelopeType) String() string            { return envelopeTypeNames.name(int32(t)) }
func (EnvelopeType) ValidEnum(v int32) bool      { return envelopeTypeNames.valid(v) }
func (EnvelopeType) EnumNames() map[int32]string { return envelopeTypeNames }

// FeeBumpTransactionInnerTx is the wrapped transaction; only
// ENVELOPE_TYPE_TX is allowed.
type FeeBumpTransactionInnerTx struct {
	Type EnvelopeType
	V1   *TransactionV1Envelope `txrep:",inline"`
}

func (FeeBumpTransactionInnerTx) SwitchFieldName() string { return "Type" }

func (FeeBumpTransactionInnerTx) ArmForSwitch(sw int32) (string, bool) {
	if EnvelopeType(sw) == EnvelopeTypeEnvelopeTypeTx {
		return "V1", true
	}
	return "", false
}

func (i FeeBumpTransactionInnerTx) EncodeTo(e *Encoder) error {
	if i.Type != EnvelopeTypeEnvelopeTypeTx {
		return ErrInvalidValue.Withf("FeeBumpTransactionInnerTx: type %s", i.Type)
	}
	if i.V1 == nil {
		return armMissing("FeeBumpTransactionInnerTx", "V1")
	}
	e.EncodeInt32(int32(i.Type))
	return i.V1.EncodeTo(e)
}

func (i *FeeBumpTransactionInnerTx) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	if EnvelopeType(v) != EnvelopeTypeEnvelopeTypeTx {
		return ErrInvalidDiscriminant.Withf("FeeBumpTransactionInnerTx: %d", v)
	}
	*i = FeeBumpTransactionInnerTx{Type: EnvelopeType(v), V1: new(TransactionV1Envelope)}
	return i.V1.DecodeFrom(d)
}

type FeeBumpTransaction struct {
	FeeSource MuxedAccount
	Fee       int64
	InnerTx   FeeBumpTransactionInnerTx
	Ext       ExtensionPoint
}

func (t FeeBumpTransaction) EncodeTo(e *Encoder) error {
	if err := t.FeeSource.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(t.Fee)
	if err := t.InnerTx.EncodeTo(e); err != nil {
		return err
	}
	return t.Ext.EncodeTo(e)
}

func (t *FeeBumpTransaction) DecodeFrom(d *Decoder) error {
	if err := t.FeeSource.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if t.Fee, err = d.DecodeInt64(); err != nil {
		return err
	}
	if err := t.InnerTx.DecodeFrom(d); err != nil {
		return err
	}
	return t.Ext.DecodeFrom(d)
}

type FeeBumpTransactionEnvelope struct {
	Tx         FeeBumpTransaction
	Signatures []DecoratedSignature // <20>
}

func (f FeeBumpTransactionEnvelope) EncodeTo(e *Encoder) error {
	if err := f.Tx.EncodeTo(e); err != nil {
		return err
	}
	return encodeArray(e, f.Signatures, MaxSignatures)
}

func (f *FeeBumpTransactionEnvelope) DecodeFrom(d *Decoder) error {
	if err := f.Tx.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	f.Signatures, err = decodeArray[DecoratedSignature](d, MaxSignatures, 8)
	return err
}

// TransactionEnvelope is the signed form of a transaction as submitted to
// the network.
type TransactionEnvelope struct {
	Type    EnvelopeType
	V0      *TransactionV0Envelope `txrep:",inline"`
	V1      *TransactionV1Envelope `txrep:",inline"`
	FeeBump *FeeBumpTransactionEnvelope
}

func (TransactionEnvelope) SwitchFieldName() string { return "Type" }

func (TransactionEnvelope) ArmForSwitch(sw int32) (string, bool) {
	switch EnvelopeType(sw) {
	case EnvelopeTypeEnvelopeTypeTxV0:
		return "V0", true
	case EnvelopeTypeEnvelopeTypeTx:
		return "V1", true
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		return "FeeBump", true
	}
	return "", false
}

func (t TransactionEnvelope) EncodeTo(e *Encoder) error {
	switch t.Type {
	case EnvelopeTypeEnvelopeTypeTxV0:
		if t.V0 == nil {
			return armMissing("TransactionEnvelope", "V0")
		}
		e.EncodeInt32(int32(t.Type))
		return t.V0.EncodeTo(e)
	case EnvelopeTypeEnvelopeTypeTx:
		if t.V1 == nil {
			return armMissing("TransactionEnvelope", "V1")
		}
		e.EncodeInt32(int32(t.Type))
		return t.V1.EncodeTo(e)
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		if t.FeeBump == nil {
			return armMissing("TransactionEnvelope", "FeeBump")
		}
		e.EncodeInt32(int32(t.Type))
		return t.FeeBump.EncodeTo(e)
	}
	return ErrInvalidValue.Withf("TransactionEnvelope: type %s", t.Type)
}

func (t *TransactionEnvelope) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*t = TransactionEnvelope{Type: EnvelopeType(v)}
	switch t.Type {
	case EnvelopeTypeEnvelopeTypeTxV0:
		t.V0 = new(TransactionV0Envelope)
		return t.V0.DecodeFrom(d)
	case EnvelopeTypeEnvelopeTypeTx:
		t.V1 = new(TransactionV1Envelope)
		return t.V1.DecodeFrom(d)
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		t.FeeBump = new(FeeBumpTransactionEnvelope)
		return t.FeeBump.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("TransactionEnvelope: %d", v)
}

// IsFeeBump reports whether the envelope wraps a fee bump transaction.
func (t TransactionEnvelope) IsFeeBump() bool {
	return t.Type == EnvelopeTypeEnvelopeTypeTxFeeBump
}

// Signatures returns the envelope's outer signatures, or nil when the
// selected arm is missing.
func (t TransactionEnvelope) Signatures() []DecoratedSignature {
	switch t.Type {
	case EnvelopeTypeEnvelopeTypeTxV0:
		if t.V0 != nil {
			return t.V0.Signatures
		}
	case EnvelopeTypeEnvelopeTypeTx:
		if t.V1 != nil {
			return t.V1.Signatures
		}
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		if t.FeeBump != nil {
			return t.FeeBump.Signatures
		}
	}
	return nil
}

// InnerTransaction returns the V1 transaction the envelope carries. V0
// transactions are converted and fee bumps are unwrapped.
func (t TransactionEnvelope) InnerTransaction() (Transaction, bool) {
	switch t.Type {
	case EnvelopeTypeEnvelopeTypeTxV0:
		if t.V0 != nil {
			return t.V0.Tx.ToV1(), true
		}
	case EnvelopeTypeEnvelopeTypeTx:
		if t.V1 != nil {
			return t.V1.Tx, true
		}
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		if t.FeeBump != nil && t.FeeBump.Tx.InnerTx.V1 != nil {
			return t.FeeBump.Tx.InnerTx.V1.Tx, true
		}
	}
	return Transaction{}, false
}

// TransactionSignaturePayloadTaggedTransaction is the transaction being
// hashed, tagged with its envelope type.
type TransactionSignaturePayloadTaggedTransaction struct {
	Type    EnvelopeType
	Tx      *Transaction
	FeeBump *FeeBumpTransaction
}

func (TransactionSignaturePayloadTaggedTransaction) SwitchFieldName() string { return "Type" }

func (TransactionSignaturePayloadTaggedTransaction) ArmForSwitch(sw int32) (string, bool) {
	switch EnvelopeType(sw) {
	case EnvelopeTypeEnvelopeTypeTx:
		return "Tx", true
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		return "FeeBump", true
	}
	return "", false
}

func (t TransactionSignaturePayloadTaggedTransaction) EncodeTo(e *Encoder) error {
	switch t.Type {
	case EnvelopeTypeEnvelopeTypeTx:
		if t.Tx == nil {
			return armMissing("TaggedTransaction", "Tx")
		}
		e.EncodeInt32(int32(t.Type))
		return t.Tx.EncodeTo(e)
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		if t.FeeBump == nil {
			return armMissing("TaggedTransaction", "FeeBump")
		}
		e.EncodeInt32(int32(t.Type))
		return t.FeeBump.EncodeTo(e)
	}
	return ErrInvalidValue.Withf("TaggedTransaction: type %s", t.Type)
}

func (t *TransactionSignaturePayloadTaggedTransaction) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*t = TransactionSignaturePayloadTaggedTransaction{Type: EnvelopeType(v)}
	switch t.Type {
	case EnvelopeTypeEnvelopeTypeTx:
		t.Tx = new(Transaction)
		return t.Tx.DecodeFrom(d)
	case EnvelopeTypeEnvelopeTypeTxFeeBump:
		t.FeeBump = new(FeeBumpTransaction)
		return t.FeeBump.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("TaggedTransaction: %d", v)
}

// TransactionSignaturePayload is hashed to produce the transaction hash.
type TransactionSignaturePayload struct {
	NetworkID         Hash
	TaggedTransaction TransactionSignaturePayloadTaggedTransaction
}

func (p TransactionSignaturePayload) EncodeTo(e *Encoder) error {
	if err := p.NetworkID.EncodeTo(e); err != nil {
		return err
	}
	return p.TaggedTransaction.EncodeTo(e)
}

func (p *TransactionSignaturePayload) DecodeFrom(d *Decoder) error {
	if err := p.NetworkID.DecodeFrom(d); err != nil {
		return err
	}
	return p.TaggedTransaction.DecodeFrom(d)
}

type HashIDPreimageOperationID struct {
	SourceAccount AccountID
	SeqNum        SequenceNumber
	OpNum         uint32
}

type HashIDPreimageRevokeID struct {
	SourceAccount   AccountID
	SeqNum          SequenceNumber
	OpNum           uint32
	LiquidityPoolID PoolID
	Asset           Asset
}

type HashIDPreimageContractID struct {
	NetworkID          Hash
	ContractIDPreimage ContractIDPreimage
}

type HashIDPreimageSorobanAuthorization struct {
	NetworkID                 Hash
	Nonce                     int64
	SignatureExpirationLedger uint32
	Invocation                SorobanAuthorizedInvocation
}

// HashIDPreimage is hashed to derive ids and the Soroban authorization
// payload.
type HashIDPreimage struct {
	Type                 EnvelopeType
	OperationID          *HashIDPreimageOperationID
	RevokeID             *HashIDPreimageRevokeID
	ContractID           *HashIDPreimageContractID
	SorobanAuthorization *HashIDPreimageSorobanAuthorization
}

func (HashIDPreimage) SwitchFieldName() string { return "Type" }

func (HashIDPreimage) ArmForSwitch(sw int32) (string, bool) {
	switch EnvelopeType(sw) {
	case EnvelopeTypeEnvelopeTypeOpId:
		return "OperationID", true
	case EnvelopeTypeEnvelopeTypePoolRevokeOpId:
		return "RevokeID", true
	case EnvelopeTypeEnvelopeTypeContractId:
		return "ContractID", true
	case EnvelopeTypeEnvelopeTypeSorobanAuthorization:
		return "SorobanAuthorization", true
	}
	return "", false
}

func (h HashIDPreimage) EncodeTo(e *Encoder) error {
	switch h.Type {
	case EnvelopeTypeEnvelopeTypeOpId:
		p := h.OperationID
		if p == nil {
			return armMissing("HashIDPreimage", "OperationID")
		}
		e.EncodeInt32(int32(h.Type))
		if err := p.SourceAccount.EncodeTo(e); err != nil {
			return err
		}
		e.EncodeInt64(int64(p.SeqNum))
		e.EncodeUint32(p.OpNum)
		return nil
	case EnvelopeTypeEnvelopeTypePoolRevokeOpId:
		p := h.RevokeID
		if p == nil {
			return armMissing("HashIDPreimage", "RevokeID")
		}
		e.EncodeInt32(int32(h.Type))
		if err := p.SourceAccount.EncodeTo(e); err != nil {
			return err
		}
		e.EncodeInt64(int64(p.SeqNum))
		e.EncodeUint32(p.OpNum)
		if err := p.LiquidityPoolID.EncodeTo(e); err != nil {
			return err
		}
		return p.Asset.EncodeTo(e)
	case EnvelopeTypeEnvelopeTypeContractId:
		p := h.ContractID
		if p == nil {
			return armMissing("HashIDPreimage", "ContractID")
		}
		e.EncodeInt32(int32(h.Type))
		if err := p.NetworkID.EncodeTo(e); err != nil {
			return err
		}
		return p.ContractIDPreimage.EncodeTo(e)
	case EnvelopeTypeEnvelopeTypeSorobanAuthorization:
		p := h.SorobanAuthorization
		if p == nil {
			return armMissing("HashIDPreimage", "SorobanAuthorization")
		}
		e.EncodeInt32(int32(h.Type))
		if err := p.NetworkID.EncodeTo(e); err != nil {
			return err
		}
		e.EncodeInt64(p.Nonce)
		e.EncodeUint32(p.SignatureExpirationLedger)
		return p.Invocation.EncodeTo(e)
	}
	return ErrInvalidValue.Withf("HashIDPreimage: type %s", h.Type)
}

func (h *HashIDPreimage) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*h = HashIDPreimage{Type: EnvelopeType(v)}
	switch h.Type {
	case EnvelopeTypeEnvelopeTypeOpId:
		p := new(HashIDPreimageOperationID)
		h.OperationID = p
		if err := p.SourceAccount.DecodeFrom(d); err != nil {
			return err
		}
		if err := p.SeqNum.DecodeFrom(d); err != nil {
			return err
		}
		p.OpNum, err = d.DecodeUint32()
		return err
	case EnvelopeTypeEnvelopeTypePoolRevokeOpId:
		p := new(HashIDPreimageRevokeID)
		h.RevokeID = p
		if err := p.SourceAccount.DecodeFrom(d); err != nil {
			return err
		}
		if err := p.SeqNum.DecodeFrom(d); err != nil {
			return err
		}
		if p.OpNum, err = d.DecodeUint32(); err != nil {
			return err
		}
		if err := p.LiquidityPoolID.DecodeFrom(d); err != nil {
			return err
		}
		return p.Asset.DecodeFrom(d)
	case EnvelopeTypeEnvelopeTypeContractId:
		p := new(HashIDPreimageContractID)
		h.ContractID = p
		if err := p.NetworkID.DecodeFrom(d); err != nil {
			return err
		}
		return p.ContractIDPreimage.DecodeFrom(d)
	case EnvelopeTypeEnvelopeTypeSorobanAuthorization:
		p := new(HashIDPreimageSorobanAuthorization)
		h.SorobanAuthorization = p
		if err := p.NetworkID.DecodeFrom(d); err != nil {
			return err
		}
		if p.Nonce, err = d.DecodeInt64(); err != nil {
			return err
		}
		if p.SignatureExpirationLedger, err = d.DecodeUint32(); err != nil {
			return err
		}
		return p.Invocation.DecodeFrom(d)
	}
	return ErrInvalidDiscriminant.Withf("HashIDPreimage: %d", v)
}
