package xdr

type LedgerEntryType int32

const (
	LedgerEntryTypeAccount          LedgerEntryType = 0
	LedgerEntryTypeTrustline        LedgerEntryType = 1
	LedgerEntryTypeOffer            LedgerEntryType = 2
	LedgerEntryTypeData             LedgerEntryType = 3
	LedgerEntryTypeClaimableBalance LedgerEntryType = 4
	LedgerEntryTypeLiquidityPool    LedgerEntryType = 5
	LedgerEntryTypeContractData     LedgerEntryType = 6
	LedgerEntryTypeContractCode     LedgerEntryType = 7
	LedgerEntryTypeConfigSetting    LedgerEntryType = 8
	LedgerEntryTypeTtl              LedgerEntryType = 9
)

var ledgerEntryTypeNames = enumNames{
	0: "ACCOUNT",
	1: "TRUSTLINE",
	2: "OFFER",
	3: "DATA",
	4: "CLAIMABLE_BALANCE",
	5: "LIQUIDITY_POOL",
	6: "CONTRACT_DATA",
	7: "CONTRACT_CODE",
	8: "CONFIG_SETTING",
	9: "TTL",
}

func (t LedgerEntryType) String() string            { return ledgerEntryTypeNames.name(int32(t)) }
func (LedgerEntryType) ValidEnum(v int32) bool      { return ledgerEntryTypeNames.valid(v) }
func (LedgerEntryType) EnumNames() map[int32]string { return ledgerEntryTypeNames }

type ContractDataDurability int32

const (
	ContractDataDurabilityTemporary  ContractDataDurability = 0
	ContractDataDurabilityPersistent ContractDataDurability = 1
)

var contractDataDurabilityNames = enumNames{0: "TEMPORARY", 1: "PERSISTENT"}

func (t ContractDataDurability) String() string            { return contractDataDurabilityNames.name(int32(t)) }
func (ContractDataDurability) ValidEnum(v int32) bool      { return contractDataDurabilityNames.valid(v) }
func (ContractDataDurability) EnumNames() map[int32]string { return contractDataDurabilityNames }

// ConfigSettingID names a network configuration entry. Values are not
// restricted so that new settings decode without a library upgrade.
type ConfigSettingID int32

type LedgerKeyAccount struct {
	AccountID AccountID
}

type LedgerKeyTrustLine struct {
	AccountID AccountID
	Asset     TrustLineAsset
}

type LedgerKeyOffer struct {
	SellerID AccountID
	OfferID  int64
}

type LedgerKeyData struct {
	AccountID AccountID
	DataName  string // string64
}

type LedgerKeyClaimableBalance struct {
	BalanceID ClaimableBalanceID
}

type LedgerKeyLiquidityPool struct {
	LiquidityPoolID PoolID
}

type LedgerKeyContractData struct {
	Contract   ScAddress
	Key        ScVal
	Durability ContractDataDurability
}

type LedgerKeyContractCode struct {
	Hash Hash
}

type LedgerKeyConfigSetting struct {
	ConfigSettingID ConfigSettingID
}

type LedgerKeyTtl struct {
	KeyHash Hash
}

// LedgerKey identifies a single ledger entry.
type LedgerKey struct {
	Type             LedgerEntryType
	Account          *LedgerKeyAccount
	TrustLine        *LedgerKeyTrustLine
	Offer            *LedgerKeyOffer
	Data             *LedgerKeyData
	ClaimableBalance *LedgerKeyClaimableBalance
	LiquidityPool    *LedgerKeyLiquidityPool
	ContractData     *LedgerKeyContractData
	ContractCode     *LedgerKeyContractCode
	ConfigSetting    *LedgerKeyConfigSetting
	Ttl              *LedgerKeyTtl
}

func (LedgerKey) SwitchFieldName() string { return "Type" }

func (LedgerKey) ArmForSwitch(sw int32) (string, bool) {
	switch LedgerEntryType(sw) {
	case LedgerEntryTypeAccount:
		return "Account", true
	case LedgerEntryTypeTrustline:
		return "TrustLine", true
	case LedgerEntryTypeOffer:
		return "Offer", true
	case LedgerEntryTypeData:
		return "Data", true
	case LedgerEntryTypeClaimableBalance:
		return "ClaimableBalance", true
	case LedgerEntryTypeLiquidityPool:
		return "LiquidityPool", true
	case LedgerEntryTypeContractData:
		return "ContractData", true
	case LedgerEntryTypeContractCode:
		return "ContractCode", true
	case LedgerEntryTypeConfigSetting:
		return "ConfigSetting", true
	case LedgerEntryTypeTtl:
		return "Ttl", true
	}
	return "", false
}

func (k LedgerKey) EncodeTo(e *Encoder) error {
	if err := ledgerEntryTypeNames.encode(e, int32(k.Type), "LedgerKey"); err != nil {
		return err
	}
	switch k.Type {
	case LedgerEntryTypeAccount:
		if k.Account == nil {
			return armMissing("LedgerKey", "Account")
		}
		return k.Account.AccountID.EncodeTo(e)
	case LedgerEntryTypeTrustline:
		if k.TrustLine == nil {
			return armMissing("LedgerKey", "TrustLine")
		}
		if err := k.TrustLine.AccountID.EncodeTo(e); err != nil {
			return err
		}
		return k.TrustLine.Asset.EncodeTo(e)
	case LedgerEntryTypeOffer:
		if k.Offer == nil {
			return armMissing("LedgerKey", "Offer")
		}
		if err := k.Offer.SellerID.EncodeTo(e); err != nil {
			return err
		}
		e.EncodeInt64(k.Offer.OfferID)
		return nil
	case LedgerEntryTypeData:
		if k.Data == nil {
			return armMissing("LedgerKey", "Data")
		}
		if err := k.Data.AccountID.EncodeTo(e); err != nil {
			return err
		}
		return e.EncodeString(k.Data.DataName, 64)
	case LedgerEntryTypeClaimableBalance:
		if k.ClaimableBalance == nil {
			return armMissing("LedgerKey", "ClaimableBalance")
		}
		return k.ClaimableBalance.BalanceID.EncodeTo(e)
	case LedgerEntryTypeLiquidityPool:
		if k.LiquidityPool == nil {
			return armMissing("LedgerKey", "LiquidityPool")
		}
		return k.LiquidityPool.LiquidityPoolID.EncodeTo(e)
	case LedgerEntryTypeContractData:
		if k.ContractData == nil {
			return armMissing("LedgerKey", "ContractData")
		}
		if err := k.ContractData.Contract.EncodeTo(e); err != nil {
			return err
		}
		if err := k.ContractData.Key.EncodeTo(e); err != nil {
			return err
		}
		return contractDataDurabilityNames.encode(e, int32(k.ContractData.Durability), "ContractDataDurability")
	case LedgerEntryTypeContractCode:
		if k.ContractCode == nil {
			return armMissing("LedgerKey", "ContractCode")
		}
		return k.ContractCode.Hash.EncodeTo(e)
	case LedgerEntryTypeConfigSetting:
		if k.ConfigSetting == nil {
			return armMissing("LedgerKey", "ConfigSetting")
		}
		e.EncodeInt32(int32(k.ConfigSetting.ConfigSettingID))
		return nil
	default:
		if k.Ttl == nil {
			return armMissing("LedgerKey", "Ttl")
		}
		return k.Ttl.KeyHash.EncodeTo(e)
	}
}

func (k *LedgerKey) DecodeFrom(d *Decoder) error {
	v, err := ledgerEntryTypeNames.decode(d, "LedgerKey")
	if err != nil {
		return err
	}
	*k = LedgerKey{Type: LedgerEntryType(v)}
	switch k.Type {
	case LedgerEntryTypeAccount:
		k.Account = new(LedgerKeyAccount)
		return k.Account.AccountID.DecodeFrom(d)
	case LedgerEntryTypeTrustline:
		k.TrustLine = new(LedgerKeyTrustLine)
		if err := k.TrustLine.AccountID.DecodeFrom(d); err != nil {
			return err
		}
		return k.TrustLine.Asset.DecodeFrom(d)
	case LedgerEntryTypeOffer:
		k.Offer = new(LedgerKeyOffer)
		if err := k.Offer.SellerID.DecodeFrom(d); err != nil {
			return err
		}
		k.Offer.OfferID, err = d.DecodeInt64()
		return err
	case LedgerEntryTypeData:
		k.Data = new(LedgerKeyData)
		if err := k.Data.AccountID.DecodeFrom(d); err != nil {
			return err
		}
		k.Data.DataName, err = d.DecodeString(64)
		return err
	case LedgerEntryTypeClaimableBalance:
		k.ClaimableBalance = new(LedgerKeyClaimableBalance)
		return k.ClaimableBalance.BalanceID.DecodeFrom(d)
	case LedgerEntryTypeLiquidityPool:
		k.LiquidityPool = new(LedgerKeyLiquidityPool)
		return k.LiquidityPool.LiquidityPoolID.DecodeFrom(d)
	case LedgerEntryTypeContractData:
		k.ContractData = new(LedgerKeyContractData)
		if err := k.ContractData.Contract.DecodeFrom(d); err != nil {
			return err
		}
		if err := k.ContractData.Key.DecodeFrom(d); err != nil {
			return err
		}
		dur, err := contractDataDurabilityNames.decode(d, "ContractDataDurability")
		if err != nil {
			return err
		}
		k.ContractData.Durability = ContractDataDurability(dur)
		return nil
	case LedgerEntryTypeContractCode:
		k.ContractCode = new(LedgerKeyContractCode)
		return k.ContractCode.Hash.DecodeFrom(d)
	case LedgerEntryTypeConfigSetting:
		id, err := d.DecodeInt32()
		if err != nil {
			return err
		}
		k.ConfigSetting = &LedgerKeyConfigSetting{ConfigSettingID: ConfigSettingID(id)}
		return nil
	default:
		k.Ttl = new(LedgerKeyTtl)
		return k.Ttl.KeyHash.DecodeFrom(d)
	}
}

// LedgerFootprint lists the entries a Soroban invocation reads and writes.
type LedgerFootprint struct {
	ReadOnly  []LedgerKey
	ReadWrite []LedgerKey
}

func (f LedgerFootprint) EncodeTo(e *Encoder) error {
	if err := encodeArray(e, f.ReadOnly, Unbounded); err != nil {
		return err
	}
	return encodeArray(e, f.ReadWrite, Unbounded)
}

func (f *LedgerFootprint) DecodeFrom(d *Decoder) error {
	var err error
	if f.ReadOnly, err = decodeArray[LedgerKey](d, Unbounded, 8); err != nil {
		return err
	}
	f.ReadWrite, err = decodeArray[LedgerKey](d, Unbounded, 8)
	return err
}
