package xdr

type OperationType int32

const (
	OperationTypeCreateAccount                 OperationType = 0
	OperationTypePayment                       OperationType = 1
	OperationTypePathPaymentStrictReceive      OperationType = 2
	OperationTypeManageSellOffer               OperationType = 3
	OperationTypeCreatePassiveSellOffer        OperationType = 4
	OperationTypeSetOptions                    OperationType = 5
	OperationTypeChangeTrust                   OperationType = 6
	OperationTypeAllowTrust                    OperationType = 7
	OperationTypeAccountMerge                  OperationType = 8
	OperationTypeInflation                     OperationType = 9
	OperationTypeManageData                    OperationType = 10
	OperationTypeBumpSequence                  OperationType = 11
	OperationTypeManageBuyOffer                OperationType = 12
	OperationTypePathPaymentStrictSend         OperationType = 13
	OperationTypeCreateClaimableBalance        OperationType = 14
	OperationTypeClaimClaimableBalance         OperationType = 15
	OperationTypeBeginSponsoringFutureReserves OperationType = 16
	OperationTypeEndSponsoringFutureReserves   OperationType = 17
	OperationTypeRevokeSponsorship             OperationType = 18
	OperationTypeClawback                      OperationType = 19
	OperationTypeClawbackClaimableBalance      OperationType = 20
	OperationTypeSetTrustLineFlags             OperationType = 21
	OperationTypeLiquidityPoolDeposit          OperationType = 22
	OperationTypeLiquidityPoolWithdraw         OperationType = 23
	OperationTypeInvokeHostFunction            OperationType = 24
	OperationTypeExtendFootprintTtl            OperationType = 25
	OperationTypeRestoreFootprint              OperationType = 26
)

var operationTypeNames = enumNames{
	0:  "CREATE_ACCOUNT",
	1:  "PAYMENT",
	2:  "PATH_PAYMENT_STRICT_RECEIVE",
	3:  "MANAGE_SELL_OFFER",
	4:  "CREATE_PASSIVE_SELL_OFFER",
	5:  "SET_OPTIONS",
	6:  "CHANGE_TRUST",
	7:  "ALLOW_TRUST",
	8:  "ACCOUNT_MERGE",
	9:  "INFLATION",
	10: "MANAGE_DATA",
	11: "BUMP_SEQUENCE",
	12: "MANAGE_BUY_OFFER",
	13: "PATH_PAYMENT_STRICT_SEND",
	14: "CREATE_CLAIMABLE_BALANCE",
	15: "CLAIM_CLAIMABLE_BALANCE",
	16: "BEGIN_SPONSORING_FUTURE_RESERVES",
	17: "END_SPONSORING_FUTURE_RESERVES",
	18: "REVOKE_SPONSORSHIP",
	19: "CLAWBACK",
	20: "CLAWBACK_CLAIMABLE_BALANCE",
	21: "SET_TRUST_LINE_FLAGS",
	22: "LIQUIDITY_POOL_DEPOSIT",
	23: "LIQUIDITY_POOL_WITHDRAW",
	24: "INVOKE_HOST_FUNCTION",
	25: "EXTEND_FOOTPRINT_TTL",
	26: "RESTORE_FOOTPRINT",
}

func (t OperationType) String() string            { return operationTypeNames.name(int32(t)) }
func (OperationType) ValidEnum(v int32) bool      { return operationTypeNames.valid(v) }
func (OperationType) EnumNames() map[int32]string { return operationTypeNames }

// String32 is a string<32>.
type String32 string

func (s String32) EncodeTo(e *Encoder) error { return e.EncodeString(string(s), 32) }

func (s *String32) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeString(32)
	*s = String32(v)
	return err
}

// DataValue is the opaque<64> payload of a data entry.
type DataValue []byte

func (v DataValue) EncodeTo(e *Encoder) error { return e.EncodeOpaque(v, 64) }

func (v *DataValue) DecodeFrom(d *Decoder) error {
	b, err := d.DecodeOpaque(64)
	*v = b
	return err
}

type CreateAccountOp struct {
	Destination     AccountID
	StartingBalance int64
}

func (o CreateAccountOp) EncodeTo(e *Encoder) error {
	if err := o.Destination.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.StartingBalance)
	return nil
}

func (o *CreateAccountOp) DecodeFrom(d *Decoder) error {
	if err := o.Destination.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.StartingBalance, err = d.DecodeInt64()
	return err
}

type PaymentOp struct {
	Destination MuxedAccount
	Asset       Asset
	Amount      int64
}

func (o PaymentOp) EncodeTo(e *Encoder) error {
	if err := o.Destination.EncodeTo(e); err != nil {
		return err
	}
	if err := o.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.Amount)
	return nil
}

func (o *PaymentOp) DecodeFrom(d *Decoder) error {
	if err := o.Destination.DecodeFrom(d); err != nil {
		return err
	}
	if err := o.Asset.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.Amount, err = d.DecodeInt64()
	return err
}

type PathPaymentStrictReceiveOp struct {
	SendAsset   Asset
	SendMax     int64
	Destination MuxedAccount
	DestAsset   Asset
	DestAmount  int64
	Path        []Asset // <5>
}

func (o PathPaymentStrictReceiveOp) EncodeTo(e *Encoder) error {
	if err := o.SendAsset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.SendMax)
	if err := o.Destination.EncodeTo(e); err != nil {
		return err
	}
	if err := o.DestAsset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.DestAmount)
	return encodeArray(e, o.Path, 5)
}

func (o *PathPaymentStrictReceiveOp) DecodeFrom(d *Decoder) error {
	if err := o.SendAsset.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if o.SendMax, err = d.DecodeInt64(); err != nil {
		return err
	}
	if err := o.Destination.DecodeFrom(d); err != nil {
		return err
	}
	if err := o.DestAsset.DecodeFrom(d); err != nil {
		return err
	}
	if o.DestAmount, err = d.DecodeInt64(); err != nil {
		return err
	}
	o.Path, err = decodeArray[Asset](d, 5, 4)
	return err
}

type PathPaymentStrictSendOp struct {
	SendAsset   Asset
	SendAmount  int64
	Destination MuxedAccount
	DestAsset   Asset
	DestMin     int64
	Path        []Asset // <5>
}

func (o PathPaymentStrictSendOp) EncodeTo(e *Encoder) error {
	if err := o.SendAsset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.SendAmount)
	if err := o.Destination.EncodeTo(e); err != nil {
		return err
	}
	if err := o.DestAsset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.DestMin)
	return encodeArray(e, o.Path, 5)
}

func (o *PathPaymentStrictSendOp) DecodeFrom(d *Decoder) error {
	if err := o.SendAsset.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if o.SendAmount, err = d.DecodeInt64(); err != nil {
		return err
	}
	if err := o.Destination.DecodeFrom(d); err != nil {
		return err
	}
	if err := o.DestAsset.DecodeFrom(d); err != nil {
		return err
	}
	if o.DestMin, err = d.DecodeInt64(); err != nil {
		return err
	}
	o.Path, err = decodeArray[Asset](d, 5, 4)
	return err
}

type ManageSellOfferOp struct {
	Selling Asset
	Buying  Asset
	Amount  int64
	Price   Price
	OfferID int64
}

func (o ManageSellOfferOp) EncodeTo(e *Encoder) error {
	return encodeOffer(e, o.Selling, o.Buying, o.Amount, o.Price, &o.OfferID)
}

func (o *ManageSellOfferOp) DecodeFrom(d *Decoder) error {
	return decodeOffer(d, &o.Selling, &o.Buying, &o.Amount, &o.Price, &o.OfferID)
}

type ManageBuyOfferOp struct {
	Selling   Asset
	Buying    Asset
	BuyAmount int64
	Price     Price
	OfferID   int64
}

func (o ManageBuyOfferOp) EncodeTo(e *Encoder) error {
	return encodeOffer(e, o.Selling, o.Buying, o.BuyAmount, o.Price, &o.OfferID)
}

func (o *ManageBuyOfferOp) DecodeFrom(d *Decoder) error {
	return decodeOffer(d, &o.Selling, &o.Buying, &o.BuyAmount, &o.Price, &o.OfferID)
}

type CreatePassiveSellOfferOp struct {
	Selling Asset
	Buying  Asset
	Amount  int64
	Price   Price
}

func (o CreatePassiveSellOfferOp) EncodeTo(e *Encoder) error {
	return encodeOffer(e, o.Selling, o.Buying, o.Amount, o.Price, nil)
}

func (o *CreatePassiveSellOfferOp) DecodeFrom(d *Decoder) error {
	return decodeOffer(d, &o.Selling, &o.Buying, &o.Amount, &o.Price, nil)
}

// encodeOffer writes the shared layout of the offer operations. offerID is
// nil for passive offers, which carry none.
func encodeOffer(e *Encoder, selling, buying Asset, amount int64, price Price, offerID *int64) error {
	if err := selling.EncodeTo(e); err != nil {
		return err
	}
	if err := buying.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(amount)
	if err := price.EncodeTo(e); err != nil {
		return err
	}
	if offerID != nil {
		e.EncodeInt64(*offerID)
	}
	return nil
}

func decodeOffer(d *Decoder, selling, buying *Asset, amount *int64, price *Price, offerID *int64) error {
	if err := selling.DecodeFrom(d); err != nil {
		return err
	}
	if err := buying.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if *amount, err = d.DecodeInt64(); err != nil {
		return err
	}
	if err := price.DecodeFrom(d); err != nil {
		return err
	}
	if offerID != nil {
		*offerID, err = d.DecodeInt64()
	}
	return err
}

type SetOptionsOp struct {
	InflationDest *AccountID
	ClearFlags    *uint32
	SetFlags      *uint32
	MasterWeight  *uint32
	LowThreshold  *uint32
	MedThreshold  *uint32
	HighThreshold *uint32
	HomeDomain    *String32
	Signer        *Signer
}

func (o SetOptionsOp) EncodeTo(e *Encoder) error {
	if err := encodeOptional(e, o.InflationDest); err != nil {
		return err
	}
	for _, v := range []*uint32{o.ClearFlags, o.SetFlags, o.MasterWeight, o.LowThreshold, o.MedThreshold, o.HighThreshold} {
		encodeOptionalUint32(e, v)
	}
	if err := encodeOptional(e, o.HomeDomain); err != nil {
		return err
	}
	return encodeOptional(e, o.Signer)
}

func (o *SetOptionsOp) DecodeFrom(d *Decoder) error {
	var err error
	if o.InflationDest, err = decodeOptional[PublicKey](d); err != nil {
		return err
	}
	for _, dst := range []**uint32{&o.ClearFlags, &o.SetFlags, &o.MasterWeight, &o.LowThreshold, &o.MedThreshold, &o.HighThreshold} {
		if *dst, err = decodeOptionalUint32(d); err != nil {
			return err
		}
	}
	if o.HomeDomain, err = decodeOptional[String32](d); err != nil {
		return err
	}
	o.Signer, err = decodeOptional[Signer](d)
	return err
}

type ChangeTrustOp struct {
	Line  ChangeTrustAsset
	Limit int64
}

func (o ChangeTrustOp) EncodeTo(e *Encoder) error {
	if err := o.Line.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.Limit)
	return nil
}

func (o *ChangeTrustOp) DecodeFrom(d *Decoder) error {
	if err := o.Line.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.Limit, err = d.DecodeInt64()
	return err
}

type AllowTrustOp struct {
	Trustor   AccountID
	Asset     AssetCode
	Authorize uint32
}

func (o AllowTrustOp) EncodeTo(e *Encoder) error {
	if err := o.Trustor.EncodeTo(e); err != nil {
		return err
	}
	if err := o.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(o.Authorize)
	return nil
}

func (o *AllowTrustOp) DecodeFrom(d *Decoder) error {
	if err := o.Trustor.DecodeFrom(d); err != nil {
		return err
	}
	if err := o.Asset.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.Authorize, err = d.DecodeUint32()
	return err
}

type ManageDataOp struct {
	DataName  String64
	DataValue *DataValue
}

// String64 is a string<64>.
type String64 string

func (s String64) EncodeTo(e *Encoder) error { return e.EncodeString(string(s), 64) }

func (s *String64) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeString(64)
	*s = String64(v)
	return err
}

func (o ManageDataOp) EncodeTo(e *Encoder) error {
	if err := o.DataName.EncodeTo(e); err != nil {
		return err
	}
	return encodeOptional(e, o.DataValue)
}

func (o *ManageDataOp) DecodeFrom(d *Decoder) error {
	if err := o.DataName.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.DataValue, err = decodeOptional[DataValue](d)
	return err
}

type BumpSequenceOp struct {
	BumpTo SequenceNumber
}

func (o BumpSequenceOp) EncodeTo(e *Encoder) error {
	e.EncodeInt64(int64(o.BumpTo))
	return nil
}

func (o *BumpSequenceOp) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt64()
	o.BumpTo = SequenceNumber(v)
	return err
}

type CreateClaimableBalanceOp struct {
	Asset     Asset
	Amount    int64
	Claimants []Claimant // <10>
}

func (o CreateClaimableBalanceOp) EncodeTo(e *Encoder) error {
	if err := o.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.Amount)
	return encodeArray(e, o.Claimants, 10)
}

func (o *CreateClaimableBalanceOp) DecodeFrom(d *Decoder) error {
	if err := o.Asset.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if o.Amount, err = d.DecodeInt64(); err != nil {
		return err
	}
	o.Claimants, err = decodeArray[Claimant](d, 10, 8)
	return err
}

type ClaimClaimableBalanceOp struct {
	BalanceID ClaimableBalanceID
}

func (o ClaimClaimableBalanceOp) EncodeTo(e *Encoder) error { return o.BalanceID.EncodeTo(e) }

func (o *ClaimClaimableBalanceOp) DecodeFrom(d *Decoder) error { return o.BalanceID.DecodeFrom(d) }

type BeginSponsoringFutureReservesOp struct {
	SponsoredID AccountID
}

func (o BeginSponsoringFutureReservesOp) EncodeTo(e *Encoder) error { return o.SponsoredID.EncodeTo(e) }

func (o *BeginSponsoringFutureReservesOp) DecodeFrom(d *Decoder) error {
	return o.SponsoredID.DecodeFrom(d)
}

type RevokeSponsorshipType int32

const (
	RevokeSponsorshipTypeRevokeSponsorshipLedgerEntry RevokeSponsorshipType = 0
	RevokeSponsorshipTypeRevokeSponsorshipSigner      RevokeSponsorshipType = 1
)

var revokeSponsorshipTypeNames = enumNames{
	0: "REVOKE_SPONSORSHIP_LEDGER_ENTRY",
	1: "REVOKE_SPONSORSHIP_SIGNER",
}

func (t RevokeSponsorshipType) String() string            { return revokeSponsorshipTypeNames.name(int32(t)) }
func (RevokeSponsorshipType) ValidEnum(v int32) bool      { return revokeSponsorshipTypeNames.valid(v) }
func (RevokeSponsorshipType) EnumNames() map[int32]string { return revokeSponsorshipTypeNames }

type RevokeSponsorshipOpSigner struct {
	AccountID AccountID
	SignerKey SignerKey
}

type RevokeSponsorshipOp struct {
	Type      RevokeSponsorshipType
	LedgerKey *LedgerKey
	Signer    *RevokeSponsorshipOpSigner
}

func (RevokeSponsorshipOp) SwitchFieldName() string { return "Type" }

func (RevokeSponsorshipOp) ArmForSwitch(sw int32) (string, bool) {
	switch RevokeSponsorshipType(sw) {
	case RevokeSponsorshipTypeRevokeSponsorshipLedgerEntry:
		return "LedgerKey", true
	case RevokeSponsorshipTypeRevokeSponsorshipSigner:
		return "Signer", true
	}
	return "", false
}

func (o RevokeSponsorshipOp) EncodeTo(e *Encoder) error {
	if err := revokeSponsorshipTypeNames.encode(e, int32(o.Type), "RevokeSponsorshipOp"); err != nil {
		return err
	}
	if o.Type == RevokeSponsorshipTypeRevokeSponsorshipLedgerEntry {
		if o.LedgerKey == nil {
			return armMissing("RevokeSponsorshipOp", "LedgerKey")
		}
		return o.LedgerKey.EncodeTo(e)
	}
	if o.Signer == nil {
		return armMissing("RevokeSponsorshipOp", "Signer")
	}
	if err := o.Signer.AccountID.EncodeTo(e); err != nil {
		return err
	}
	return o.Signer.SignerKey.EncodeTo(e)
}

func (o *RevokeSponsorshipOp) DecodeFrom(d *Decoder) error {
	v, err := revokeSponsorshipTypeNames.decode(d, "RevokeSponsorshipOp")
	if err != nil {
		return err
	}
	*o = RevokeSponsorshipOp{Type: RevokeSponsorshipType(v)}
	if o.Type == RevokeSponsorshipTypeRevokeSponsorshipLedgerEntry {
		o.LedgerKey = new(LedgerKey)
		return o.LedgerKey.DecodeFrom(d)
	}
	o.Signer = new(RevokeSponsorshipOpSigner)
	if err := o.Signer.AccountID.DecodeFrom(d); err != nil {
		return err
	}
	return o.Signer.SignerKey.DecodeFrom(d)
}

type ClawbackOp struct {
	Asset  Asset
	From   MuxedAccount
	Amount int64
}

func (o ClawbackOp) EncodeTo(e *Encoder) error {
	if err := o.Asset.EncodeTo(e); err != nil {
		return err
	}
	if err := o.From.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.Amount)
	return nil
}

func (o *ClawbackOp) DecodeFrom(d *Decoder) error {
	if err := o.Asset.DecodeFrom(d); err != nil {
		return err
	}
	if err := o.From.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.Amount, err = d.DecodeInt64()
	return err
}

type ClawbackClaimableBalanceOp struct {
	BalanceID ClaimableBalanceID
}

func (o ClawbackClaimableBalanceOp) EncodeTo(e *Encoder) error { return o.BalanceID.EncodeTo(e) }

func (o *ClawbackClaimableBalanceOp) DecodeFrom(d *Decoder) error { return o.BalanceID.DecodeFrom(d) }

type SetTrustLineFlagsOp struct {
	Trustor    AccountID
	Asset      Asset
	ClearFlags uint32
	SetFlags   uint32
}

func (o SetTrustLineFlagsOp) EncodeTo(e *Encoder) error {
	if err := o.Trustor.EncodeTo(e); err != nil {
		return err
	}
	if err := o.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(o.ClearFlags)
	e.EncodeUint32(o.SetFlags)
	return nil
}

func (o *SetTrustLineFlagsOp) DecodeFrom(d *Decoder) error {
	if err := o.Trustor.DecodeFrom(d); err != nil {
		return err
	}
	if err := o.Asset.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if o.ClearFlags, err = d.DecodeUint32(); err != nil {
		return err
	}
	o.SetFlags, err = d.DecodeUint32()
	return err
}

type LiquidityPoolDepositOp struct {
	LiquidityPoolID PoolID
	MaxAmountA      int64
	MaxAmountB      int64
	MinPrice        Price
	MaxPrice        Price
}

func (o LiquidityPoolDepositOp) EncodeTo(e *Encoder) error {
	if err := o.LiquidityPoolID.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.MaxAmountA)
	e.EncodeInt64(o.MaxAmountB)
	if err := o.MinPrice.EncodeTo(e); err != nil {
		return err
	}
	return o.MaxPrice.EncodeTo(e)
}

func (o *LiquidityPoolDepositOp) DecodeFrom(d *Decoder) error {
	if err := o.LiquidityPoolID.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if o.MaxAmountA, err = d.DecodeInt64(); err != nil {
		return err
	}
	if o.MaxAmountB, err = d.DecodeInt64(); err != nil {
		return err
	}
	if err := o.MinPrice.DecodeFrom(d); err != nil {
		return err
	}
	return o.MaxPrice.DecodeFrom(d)
}

type LiquidityPoolWithdrawOp struct {
	LiquidityPoolID PoolID
	Amount          int64
	MinAmountA      int64
	MinAmountB      int64
}

func (o LiquidityPoolWithdrawOp) EncodeTo(e *Encoder) error {
	if err := o.LiquidityPoolID.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(o.Amount)
	e.EncodeInt64(o.MinAmountA)
	e.EncodeInt64(o.MinAmountB)
	return nil
}

func (o *LiquidityPoolWithdrawOp) DecodeFrom(d *Decoder) error {
	if err := o.LiquidityPoolID.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if o.Amount, err = d.DecodeInt64(); err != nil {
		return err
	}
	if o.MinAmountA, err = d.DecodeInt64(); err != nil {
		return err
	}
	o.MinAmountB, err = d.DecodeInt64()
	return err
}

type InvokeHostFunctionOp struct {
	HostFunction HostFunction
	Auth         []SorobanAuthorizationEntry
}

func (o InvokeHostFunctionOp) EncodeTo(e *Encoder) error {
	if err := o.HostFunction.EncodeTo(e); err != nil {
		return err
	}
	return encodeArray(e, o.Auth, Unbounded)
}

func (o *InvokeHostFunctionOp) DecodeFrom(d *Decoder) error {
	if err := o.HostFunction.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.Auth, err = decodeArray[SorobanAuthorizationEntry](d, Unbounded, 8)
	return err
}

type ExtendFootprintTTLOp struct {
	Ext      ExtensionPoint
	ExtendTo uint32
}

func (o ExtendFootprintTTLOp) EncodeTo(e *Encoder) error {
	if err := o.Ext.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(o.ExtendTo)
	return nil
}

func (o *ExtendFootprintTTLOp) DecodeFrom(d *Decoder) error {
	if err := o.Ext.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	o.ExtendTo, err = d.DecodeUint32()
	return err
}

type RestoreFootprintOp struct {
	Ext ExtensionPoint
}

func (o RestoreFootprintOp) EncodeTo(e *Encoder) error { return o.Ext.EncodeTo(e) }

func (o *RestoreFootprintOp) DecodeFrom(d *Decoder) error { return o.Ext.DecodeFrom(d) }

// OperationBody holds exactly one operation, selected by Type.
type OperationBody struct {
	Type                            OperationType
	CreateAccountOp                 *CreateAccountOp
	PaymentOp                       *PaymentOp
	PathPaymentStrictReceiveOp      *PathPaymentStrictReceiveOp
	ManageSellOfferOp               *ManageSellOfferOp
	CreatePassiveSellOfferOp        *CreatePassiveSellOfferOp
	SetOptionsOp                    *SetOptionsOp
	ChangeTrustOp                   *ChangeTrustOp
	AllowTrustOp                    *AllowTrustOp
	Destination                     *MuxedAccount
	ManageDataOp                    *ManageDataOp
	BumpSequenceOp                  *BumpSequenceOp
	ManageBuyOfferOp                *ManageBuyOfferOp
	PathPaymentStrictSendOp         *PathPaymentStrictSendOp
	CreateClaimableBalanceOp        *CreateClaimableBalanceOp
	ClaimClaimableBalanceOp         *ClaimClaimableBalanceOp
	BeginSponsoringFutureReservesOp *BeginSponsoringFutureReservesOp
	RevokeSponsorshipOp             *RevokeSponsorshipOp
	ClawbackOp                      *ClawbackOp
	ClawbackClaimableBalanceOp      *ClawbackClaimableBalanceOp
	SetTrustLineFlagsOp             *SetTrustLineFlagsOp
	LiquidityPoolDepositOp          *LiquidityPoolDepositOp
	LiquidityPoolWithdrawOp         *LiquidityPoolWithdrawOp
	InvokeHostFunctionOp            *InvokeHostFunctionOp
	ExtendFootprintTTLOp            *ExtendFootprintTTLOp
	RestoreFootprintOp              *RestoreFootprintOp
}

var operationBodyArms = map[OperationType]string{
	OperationTypeCreateAccount:                 "CreateAccountOp",
	OperationTypePayment:                       "PaymentOp",
	OperationTypePathPaymentStrictReceive:      "PathPaymentStrictReceiveOp",
	OperationTypeManageSellOffer:               "ManageSellOfferOp",
	OperationTypeCreatePassiveSellOffer:        "CreatePassiveSellOfferOp",
	OperationTypeSetOptions:                    "SetOptionsOp",
	OperationTypeChangeTrust:                   "ChangeTrustOp",
	OperationTypeAllowTrust:                    "AllowTrustOp",
	OperationTypeAccountMerge:                  "Destination",
	OperationTypeInflation:                     "",
	OperationTypeManageData:                    "ManageDataOp",
	OperationTypeBumpSequence:                  "BumpSequenceOp",
	OperationTypeManageBuyOffer:                "ManageBuyOfferOp",
	OperationTypePathPaymentStrictSend:         "PathPaymentStrictSendOp",
	OperationTypeCreateClaimableBalance:        "CreateClaimableBalanceOp",
	OperationTypeClaimClaimableBalance:         "ClaimClaimableBalanceOp",
	OperationTypeBeginSponsoringFutureReserves: "BeginSponsoringFutureReservesOp",
	OperationTypeEndSponsoringFutureReserves:   "",
	OperationTypeRevokeSponsorship:             "RevokeSponsorshipOp",
	OperationTypeClawback:                      "ClawbackOp",
	OperationTypeClawbackClaimableBalance:      "ClawbackClaimableBalanceOp",
	OperationTypeSetTrustLineFlags:             "SetTrustLineFlagsOp",
	OperationTypeLiquidityPoolDeposit:          "LiquidityPoolDepositOp",
	OperationTypeLiquidityPoolWithdraw:         "LiquidityPoolWithdrawOp",
	OperationTypeInvokeHostFunction:            "InvokeHostFunctionOp",
	OperationTypeExtendFootprintTtl:            "ExtendFootprintTTLOp",
	OperationTypeRestoreFootprint:              "RestoreFootprintOp",
}

func (OperationBody) SwitchFieldName() string { return "Type" }

func (OperationBody) ArmForSwitch(sw int32) (string, bool) {
	arm, ok := operationBodyArms[OperationType(sw)]
	return arm, ok
}

// arm returns the selected operation, or nil when the arm pointer is unset.
func (b OperationBody) arm() Encodable {
	switch b.Type {
	case OperationTypeCreateAccount:
		if b.CreateAccountOp != nil {
			return *b.CreateAccountOp
		}
	case OperationTypePayment:
		if b.PaymentOp != nil {
			return *b.PaymentOp
		}
	case OperationTypePathPaymentStrictReceive:
		if b.PathPaymentStrictReceiveOp != nil {
			return *b.PathPaymentStrictReceiveOp
		}
	case OperationTypeManageSellOffer:
		if b.ManageSellOfferOp != nil {
			return *b.ManageSellOfferOp
		}
	case OperationTypeCreatePassiveSellOffer:
		if b.CreatePassiveSellOfferOp != nil {
			return *b.CreatePassiveSellOfferOp
		}
	case OperationTypeSetOptions:
		if b.SetOptionsOp != nil {
			return *b.SetOptionsOp
		}
	case OperationTypeChangeTrust:
		if b.ChangeTrustOp != nil {
			return *b.ChangeTrustOp
		}
	case OperationTypeAllowTrust:
		if b.AllowTrustOp != nil {
			return *b.AllowTrustOp
		}
	case OperationTypeAccountMerge:
		if b.Destination != nil {
			return *b.Destination
		}
	case OperationTypeManageData:
		if b.ManageDataOp != nil {
			return *b.ManageDataOp
		}
	case OperationTypeBumpSequence:
		if b.BumpSequenceOp != nil {
			return *b.BumpSequenceOp
		}
	case OperationTypeManageBuyOffer:
		if b.ManageBuyOfferOp != nil {
			return *b.ManageBuyOfferOp
		}
	case OperationTypePathPaymentStrictSend:
		if b.PathPaymentStrictSendOp != nil {
			return *b.PathPaymentStrictSendOp
		}
	case OperationTypeCreateClaimableBalance:
		if b.CreateClaimableBalanceOp != nil {
			return *b.CreateClaimableBalanceOp
		}
	case OperationTypeClaimClaimableBalance:
		if b.ClaimClaimableBalanceOp != nil {
			return *b.ClaimClaimableBalanceOp
		}
	case OperationTypeBeginSponsoringFutureReserves:
		if b.BeginSponsoringFutureReservesOp != nil {
			return *b.BeginSponsoringFutureReservesOp
		}
	case OperationTypeRevokeSponsorship:
		if b.RevokeSponsorshipOp != nil {
			return *b.RevokeSponsorshipOp
		}
	case OperationTypeClawback:
		if b.ClawbackOp != nil {
			return *b.ClawbackOp
		}
	case OperationTypeClawbackClaimableBalance:
		if b.ClawbackClaimableBalanceOp != nil {
			return *b.ClawbackClaimableBalanceOp
		}
	case OperationTypeSetTrustLineFlags:
		if b.SetTrustLineFlagsOp != nil {
			return *b.SetTrustLineFlagsOp
		}
	case OperationTypeLiquidityPoolDeposit:
		if b.LiquidityPoolDepositOp != nil {
			return *b.LiquidityPoolDepositOp
		}
	case OperationTypeLiquidityPoolWithdraw:
		if b.LiquidityPoolWithdrawOp != nil {
			return *b.LiquidityPoolWithdrawOp
		}
	case OperationTypeInvokeHostFunction:
		if b.InvokeHostFunctionOp != nil {
			return *b.InvokeHostFunctionOp
		}
	case OperationTypeExtendFootprintTtl:
		if b.ExtendFootprintTTLOp != nil {
			return *b.ExtendFootprintTTLOp
		}
	case OperationTypeRestoreFootprint:
		if b.RestoreFootprintOp != nil {
			return *b.RestoreFootprintOp
		}
	}
	return nil
}

func (b OperationBody) EncodeTo(e *Encoder) error {
	if err := operationTypeNames.encode(e, int32(b.Type), "OperationBody"); err != nil {
		return err
	}
	if b.Type == OperationTypeInflation || b.Type == OperationTypeEndSponsoringFutureReserves {
		return nil
	}
	arm := b.arm()
	if arm == nil {
		return armMissing("OperationBody", operationBodyArms[b.Type])
	}
	return arm.EncodeTo(e)
}

func (b *OperationBody) DecodeFrom(d *Decoder) error {
	v, err := operationTypeNames.decode(d, "OperationBody")
	if err != nil {
		return err
	}
	*b = OperationBody{Type: OperationType(v)}
	var arm Decodable
	switch b.Type {
	case OperationTypeInflation, OperationTypeEndSponsoringFutureReserves:
		return nil
	case OperationTypeCreateAccount:
		b.CreateAccountOp = new(CreateAccountOp)
		arm = b.CreateAccountOp
	case OperationTypePayment:
		b.PaymentOp = new(PaymentOp)
		arm = b.PaymentOp
	case OperationTypePathPaymentStrictReceive:
		b.PathPaymentStrictReceiveOp = new(PathPaymentStrictReceiveOp)
		arm = b.PathPaymentStrictReceiveOp
	case OperationTypeManageSellOffer:
		b.ManageSellOfferOp = new(ManageSellOfferOp)
		arm = b.ManageSellOfferOp
	case OperationTypeCreatePassiveSellOffer:
		b.CreatePassiveSellOfferOp = new(CreatePassiveSellOfferOp)
		arm = b.CreatePassiveSellOfferOp
	case OperationTypeSetOptions:
		b.SetOptionsOp = new(SetOptionsOp)
		arm = b.SetOptionsOp
	case OperationTypeChangeTrust:
		b.ChangeTrustOp = new(ChangeTrustOp)
		arm = b.ChangeTrustOp
	case OperationTypeAllowTrust:
		b.AllowTrustOp = new(AllowTrustOp)
		arm = b.AllowTrustOp
	case OperationTypeAccountMerge:
		b.Destination = new(MuxedAccount)
		arm = b.Destination
	case OperationTypeManageData:
		b.ManageDataOp = new(ManageDataOp)
		arm = b.ManageDataOp
	case OperationTypeBumpSequence:
		b.BumpSequenceOp = new(BumpSequenceOp)
		arm = b.BumpSequenceOp
	case OperationTypeManageBuyOffer:
		b.ManageBuyOfferOp = new(ManageBuyOfferOp)
		arm = b.ManageBuyOfferOp
	case OperationTypePathPaymentStrictSend:
		b.PathPaymentStrictSendOp = new(PathPaymentStrictSendOp)
		arm = b.PathPaymentStrictSendOp
	case OperationTypeCreateClaimableBalance:
		b.CreateClaimableBalanceOp = new(CreateClaimableBalanceOp)
		arm = b.CreateClaimableBalanceOp
	case OperationTypeClaimClaimableBalance:
		b.ClaimClaimableBalanceOp = new(ClaimClaimableBalanceOp)
		arm = b.ClaimClaimableBalanceOp
	case OperationTypeBeginSponsoringFutureReserves:
		b.BeginSponsoringFutureReservesOp = new(BeginSponsoringFutureReservesOp)
		arm = b.BeginSponsoringFutureReservesOp
	case OperationTypeRevokeSponsorship:
		b.RevokeSponsorshipOp = new(RevokeSponsorshipOp)
		arm = b.RevokeSponsorshipOp
	case OperationTypeClawback:
		b.ClawbackOp = new(ClawbackOp)
		arm = b.ClawbackOp
	case OperationTypeClawbackClaimableBalance:
		b.ClawbackClaimableBalanceOp = new(ClawbackClaimableBalanceOp)
		arm = b.ClawbackClaimableBalanceOp
	case OperationTypeSetTrustLineFlags:
		b.SetTrustLineFlagsOp = new(SetTrustLineFlagsOp)
		arm = b.SetTrustLineFlagsOp
	case OperationTypeLiquidityPoolDeposit:
		b.LiquidityPoolDepositOp = new(LiquidityPoolDepositOp)
		arm = b.LiquidityPoolDepositOp
	case OperationTypeLiquidityPoolWithdraw:
		b.LiquidityPoolWithdrawOp = new(LiquidityPoolWithdrawOp)
		arm = b.LiquidityPoolWithdrawOp
	case OperationTypeInvokeHostFunction:
		b.InvokeHostFunctionOp = new(InvokeHostFunctionOp)
		arm = b.InvokeHostFunctionOp
	case OperationTypeExtendFootprintTtl:
		b.ExtendFootprintTTLOp = new(ExtendFootprintTTLOp)
		arm = b.ExtendFootprintTTLOp
	case OperationTypeRestoreFootprint:
		b.RestoreFootprintOp = new(RestoreFootprintOp)
		arm = b.RestoreFootprintOp
	}
	return arm.DecodeFrom(d)
}

// Operation is one operation of a transaction with an optional source
// overriding the transaction's.
type Operation struct {
	SourceAccount *MuxedAccount
	Body          OperationBody
}

func (o Operation) EncodeTo(e *Encoder) error {
	if err := encodeOptional(e, o.SourceAccount); err != nil {
		return err
	}
	return o.Body.EncodeTo(e)
}

func (o *Operation) DecodeFrom(d *Decoder) error {
	var err error
	if o.SourceAccount, err = decodeOptional[MuxedAccount](d); err != nil {
		return err
	}
	return o.Body.DecodeFrom(d)
}
