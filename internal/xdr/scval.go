package xdr

type ScValType int32

const (
	ScValTypeScvBool                      ScValType = 0
	ScValTypeScvVoid                      ScValType = 1
	ScValTypeScvError                     ScValType = 2
	ScValTypeScvU32                       ScValType = 3
	ScValTypeScvI32                       ScValType = 4
	ScValTypeScvU64                       ScValType = 5
	ScValTypeScvI64                       ScValType = 6
	ScValTypeScvTimepoint                 ScValType = 7
	ScValTypeScvDuration                  ScValType = 8
	ScValTypeScvU128                      ScValType = 9
	ScValTypeScvI128                      ScValType = 10
	ScValTypeScvU256                      ScValType = 11
	ScValTypeScvI256                      ScValType = 12
	ScValTypeScvBytes                     ScValType = 13
	ScValTypeScvString                    ScValType = 14
	ScValTypeScvSymbol                    ScValType = 15
	ScValTypeScvVec                       ScValType = 16
	ScValTypeScvMap                       ScValType = 17
	ScValTypeScvAddress                   ScValType = 18
	ScValTypeScvContractInstance          ScValType = 19
	ScValTypeScvLedgerKeyContractInstance ScValType = 20
	ScValTypeScvLedgerKeyNonce            ScValType = 21
)

var scValTypeNames = enumNames{
	0:  "SCV_BOOL",
	1:  "SCV_VOID",
	2:  "SCV_ERROR",
	3:  "SCV_U32",
	4:  "SCV_I32",
	5:  "SCV_U64",
	6:  "SCV_I64",
	7:  "SCV_TIMEPOINT",
	8:  "SCV_DURATION",
	9:  "SCV_U128",
	10: "SCV_I128",
	11: "SCV_U256",
	12: "SCV_I256",
	13: "SCV_BYTES",
	14: "SCV_STRING",
	15: "SCV_SYMBOL",
	16: "SCV_VEC",
	17: "SCV_MAP",
	18: "SCV_ADDRESS",
	19: "SCV_CONTRACT_INSTANCE",
	20: "SCV_LEDGER_KEY_CONTRACT_INSTANCE",
	21: "SCV_LEDGER_KEY_NONCE",
}

func (t ScValType) String() string            { return scValTypeNames.name(int32(t)) }
func (ScValType) ValidEnum(v int32) bool      { return scValTypeNames.valid(v) }
func (ScValType) EnumNames() map[int32]string { return scValTypeNames }

type ScErrorType int32

const (
	ScErrorTypeSceContract ScErrorType = 0
	ScErrorTypeSceWasmVm   ScErrorType = 1
	ScErrorTypeSceContext  ScErrorType = 2
	ScErrorTypeSceStorage  ScErrorType = 3
	ScErrorTypeSceObject   ScErrorType = 4
	ScErrorTypeSceCrypto   ScErrorType = 5
	ScErrorTypeSceEvents   ScErrorType = 6
	ScErrorTypeSceBudget   ScErrorType = 7
	ScErrorTypeSceValue    ScErrorType = 8
	ScErrorTypeSceAuth     ScErrorType = 9
)

var scErrorTypeNames = enumNames{
	0: "SCE_CONTRACT",
	1: "SCE_WASM_VM",
	2: "SCE_CONTEXT",
	3: "SCE_STORAGE",
	4: "SCE_OBJECT",
	5: "SCE_CRYPTO",
	6: "SCE_EVENTS",
	7: "SCE_BUDGET",
	8: "SCE_VALUE",
	9: "SCE_AUTH",
}

func (t ScErrorType) String() string            { return scErrorTypeNames.name(int32(t)) }
func (ScErrorType) ValidEnum(v int32) bool      { return scErrorTypeNames.valid(v) }
func (ScErrorType) EnumNames() map[int32]string { return scErrorTypeNames }

type ScErrorCode int32

var scErrorCodeNames = enumNames{
	0: "SCEC_ARITH_DOMAIN",
	1: "SCEC_INDEX_BOUNDS",
	2: "SCEC_INVALID_INPUT",
	3: "SCEC_MISSING_VALUE",
	4: "SCEC_EXISTING_VALUE",
	5: "SCEC_EXCEEDED_LIMIT",
	6: "SCEC_INVALID_ACTION",
	7: "SCEC_INTERNAL_ERROR",
	8: "SCEC_UNEXPECTED_TYPE",
	9: "SCEC_UNEXPECTED_SIZE",
}

func (c ScErrorCode) String() string            { return scErrorCodeNames.name(int32(c)) }
func (ScErrorCode) ValidEnum(v int32) bool      { return scErrorCodeNames.valid(v) }
func (ScErrorCode) EnumNames() map[int32]string { return scErrorCodeNames }

// ScError is a contract error: a contract-defined code, or a host error code.
type ScError struct {
	Type         ScErrorType
	ContractCode *uint32
	Code         *ScErrorCode
}

func (ScError) SwitchFieldName() string { return "Type" }

func (ScError) ArmForSwitch(sw int32) (string, bool) {
	if !scErrorTypeNames.valid(sw) {
		return "", false
	}
	if ScErrorType(sw) == ScErrorTypeSceContract {
		return "ContractCode", true
	}
	return "Code", true
}

func (s ScError) EncodeTo(e *Encoder) error {
	if err := scErrorTypeNames.encode(e, int32(s.Type), "ScError"); err != nil {
		return err
	}
	if s.Type == ScErrorTypeSceContract {
		if s.ContractCode == nil {
			return armMissing("ScError", "ContractCode")
		}
		e.EncodeUint32(*s.ContractCode)
		return nil
	}
	if s.Code == nil {
		return armMissing("ScError", "Code")
	}
	return scErrorCodeNames.encode(e, int32(*s.Code), "ScErrorCode")
}

func (s *ScError) DecodeFrom(d *Decoder) error {
	v, err := scErrorTypeNames.decode(d, "ScError")
	if err != nil {
		return err
	}
	*s = ScError{Type: ScErrorType(v)}
	if s.Type == ScErrorTypeSceContract {
		c, err := d.DecodeUint32()
		if err != nil {
			return err
		}
		s.ContractCode = &c
		return nil
	}
	c, err := scErrorCodeNames.decode(d, "ScErrorCode")
	if err != nil {
		return err
	}
	code := ScErrorCode(c)
	s.Code = &code
	return nil
}

type UInt128Parts struct {
	Hi uint64
	Lo uint64
}

func (p UInt128Parts) EncodeTo(e *Encoder) error {
	e.EncodeUint64(p.Hi)
	e.EncodeUint64(p.Lo)
	return nil
}

func (p *UInt128Parts) DecodeFrom(d *Decoder) error {
	var err error
	if p.Hi, err = d.DecodeUint64(); err != nil {
		return err
	}
	p.Lo, err = d.DecodeUint64()
	return err
}

type Int128Parts struct {
	Hi int64
	Lo uint64
}

func (p Int128Parts) EncodeTo(e *Encoder) error {
	e.EncodeInt64(p.Hi)
	e.EncodeUint64(p.Lo)
	return nil
}

func (p *Int128Parts) DecodeFrom(d *Decoder) error {
	var err error
	if p.Hi, err = d.DecodeInt64(); err != nil {
		return err
	}
	p.Lo, err = d.DecodeUint64()
	return err
}

type UInt256Parts struct {
	HiHi uint64 `txrep:"hi_hi"`
	HiLo uint64 `txrep:"hi_lo"`
	LoHi uint64 `txrep:"lo_hi"`
	LoLo uint64 `txrep:"lo_lo"`
}

func (p UInt256Parts) EncodeTo(e *Encoder) error {
	e.EncodeUint64(p.HiHi)
	e.EncodeUint64(p.HiLo)
	e.EncodeUint64(p.LoHi)
	e.EncodeUint64(p.LoLo)
	return nil
}

func (p *UInt256Parts) DecodeFrom(d *Decoder) error {
	var err error
	if p.HiHi, err = d.DecodeUint64(); err != nil {
		return err
	}
	if p.HiLo, err = d.DecodeUint64(); err != nil {
		return err
	}
	if p.LoHi, err = d.DecodeUint64(); err != nil {
		return err
	}
	p.LoLo, err = d.DecodeUint64()
	return err
}

type Int256Parts struct {
	HiHi int64  `txrep:"hi_hi"`
	HiLo uint64 `txrep:"hi_lo"`
	LoHi uint64 `txrep:"lo_hi"`
	LoLo uint64 `txrep:"lo_lo"`
}

func (p Int256Parts) EncodeTo(e *Encoder) error {
	e.EncodeInt64(p.HiHi)
	e.EncodeUint64(p.HiLo)
	e.EncodeUint64(p.LoHi)
	e.EncodeUint64(p.LoLo)
	return nil
}

func (p *Int256Parts) DecodeFrom(d *Decoder) error {
	var err error
	if p.HiHi, err = d.DecodeInt64(); err != nil {
		return err
	}
	if p.HiLo, err = d.DecodeUint64(); err != nil {
		return err
	}
	if p.LoHi, err = d.DecodeUint64(); err != nil {
		return err
	}
	p.LoLo, err = d.DecodeUint64()
	return err
}

type (
	ScBytes  []byte
	ScString string
	ScSymbol string // string<32>
)

// ScVec is a vector of contract values.
type ScVec []ScVal

func (v ScVec) EncodeTo(e *Encoder) error { return encodeArray(e, []ScVal(v), Unbounded) }

func (v *ScVec) DecodeFrom(d *Decoder) error {
	vals, err := decodeArray[ScVal](d, Unbounded, 4)
	*v = vals
	return err
}

type ScMapEntry struct {
	Key ScVal
	Val ScVal
}

func (m ScMapEntry) EncodeTo(e *Encoder) error {
	if err := m.Key.EncodeTo(e); err != nil {
		return err
	}
	return m.Val.EncodeTo(e)
}

func (m *ScMapEntry) DecodeFrom(d *Decoder) error {
	if err := m.Key.DecodeFrom(d); err != nil {
		return err
	}
	return m.Val.DecodeFrom(d)
}

// ScMap is an ordered map of contract values.
type ScMap []ScMapEntry

func (m ScMap) EncodeTo(e *Encoder) error { return encodeArray(e, []ScMapEntry(m), Unbounded) }

func (m *ScMap) DecodeFrom(d *Decoder) error {
	entries, err := decodeArray[ScMapEntry](d, Unbounded, 8)
	*m = entries
	return err
}

type ScAddressType int32

const (
	ScAddressTypeScAddressTypeAccount          ScAddressType = 0
	ScAddressTypeScAddressTypeContract         ScAddressType = 1
	ScAddressTypeScAddressTypeMuxedAccount     ScAddressType = 2
	ScAddressTypeScAddressTypeClaimableBalance ScAddressType = 3
	ScAddressTypeScAddressTypeLiquidityPool    ScAddressType = 4
)

var scAddressTypeNames = enumNames{
	0: "SC_ADDRESS_TYPE_ACCOUNT",
	1: "SC_ADDRESS_TYPE_CONTRACT",
	2: "SC_ADDRESS_TYPE_MUXED_ACCOUNT",
	3: "SC_ADDRESS_TYPE_CLAIMABLE_BALANCE",
	4: "SC_ADDRESS_TYPE_LIQUIDITY_POOL",
}

func (t ScAddressType) String() string            { return scAddressTypeNames.name(int32(t)) }
func (ScAddressType) ValidEnum(v int32) bool      { return scAddressTypeNames.valid(v) }
func (ScAddressType) EnumNames() map[int32]string { return scAddressTypeNames }

// ContractID is the hash identifying a deployed contract.
type ContractID Hash

func (c ContractID) EncodeTo(e *Encoder) error { return e.EncodeFixedOpaque(c[:], 32) }

func (c *ContractID) DecodeFrom(d *Decoder) error { return d.DecodeFixedOpaqueInto(c[:]) }

type MuxedEd25519Account struct {
	ID      uint64
	Ed25519 Uint256
}

type ScAddress struct {
	Type               ScAddressType
	AccountID          *AccountID           `txrep:"accountId"`
	ContractID         *ContractID          `txrep:"contractId"`
	MuxedAccount       *MuxedEd25519Account
	ClaimableBalanceID *ClaimableBalanceID `txrep:"claimableBalanceId"`
	LiquidityPoolID    *PoolID             `txrep:"liquidityPoolId"`
}

func (ScAddress) SwitchFieldName() string { return "Type" }

func (ScAddress) ArmForSwitch(sw int32) (string, bool) {
	switch ScAddressType(sw) {
	case ScAddressTypeScAddressTypeAccount:
		return "AccountID", true
	case ScAddressTypeScAddressTypeContract:
		return "ContractID", true
	case ScAddressTypeScAddressTypeMuxedAccount:
		return "MuxedAccount", true
	case ScAddressTypeScAddressTypeClaimableBalance:
		return "ClaimableBalanceID", true
	case ScAddressTypeScAddressTypeLiquidityPool:
		return "LiquidityPoolID", true
	}
	return "", false
}

func (a ScAddress) EncodeTo(e *Encoder) error {
	if err := scAddressTypeNames.encode(e, int32(a.Type), "ScAddress"); err != nil {
		return err
	}
	switch a.Type {
	case ScAddressTypeScAddressTypeAccount:
		if a.AccountID == nil {
			return armMissing("ScAddress", "AccountID")
		}
		return a.AccountID.EncodeTo(e)
	case ScAddressTypeScAddressTypeContract:
		if a.ContractID == nil {
			return armMissing("ScAddress", "ContractID")
		}
		return a.ContractID.EncodeTo(e)
	case ScAddressTypeScAddressTypeMuxedAccount:
		if a.MuxedAccount == nil {
			return armMissing("ScAddress", "MuxedAccount")
		}
		e.EncodeUint64(a.MuxedAccount.ID)
		return a.MuxedAccount.Ed25519.EncodeTo(e)
	case ScAddressTypeScAddressTypeClaimableBalance:
		if a.ClaimableBalanceID == nil {
			return armMissing("ScAddress", "ClaimableBalanceID")
		}
		return a.ClaimableBalanceID.EncodeTo(e)
	default:
		if a.LiquidityPoolID == nil {
			return armMissing("ScAddress", "LiquidityPoolID")
		}
		return a.LiquidityPoolID.EncodeTo(e)
	}
}

func (a *ScAddress) DecodeFrom(d *Decoder) error {
	v, err := scAddressTypeNames.decode(d, "ScAddress")
	if err != nil {
		return err
	}
	*a = ScAddress{Type: ScAddressType(v)}
	switch a.Type {
	case ScAddressTypeScAddressTypeAccount:
		a.AccountID = new(AccountID)
		return a.AccountID.DecodeFrom(d)
	case ScAddressTypeScAddressTypeContract:
		a.ContractID = new(ContractID)
		return a.ContractID.DecodeFrom(d)
	case ScAddressTypeScAddressTypeMuxedAccount:
		a.MuxedAccount = new(MuxedEd25519Account)
		if a.MuxedAccount.ID, err = d.DecodeUint64(); err != nil {
			return err
		}
		return a.MuxedAccount.Ed25519.DecodeFrom(d)
	case ScAddressTypeScAddressTypeClaimableBalance:
		a.ClaimableBalanceID = new(ClaimableBalanceID)
		return a.ClaimableBalanceID.DecodeFrom(d)
	default:
		a.LiquidityPoolID = new(PoolID)
		return a.LiquidityPoolID.DecodeFrom(d)
	}
}

type ContractExecutableType int32

const (
	ContractExecutableTypeContractExecutableWasm         ContractExecutableType = 0
	ContractExecutableTypeContractExecutableStellarAsset ContractExecutableType = 1
)

var contractExecutableTypeNames = enumNames{
	0: "CONTRACT_EXECUTABLE_WASM",
	1: "CONTRACT_EXECUTABLE_STELLAR_ASSET",
}

func (t ContractExecutableType) String() string            { return contractExecutableTypeNames.name(int32(t)) }
func (ContractExecutableType) ValidEnum(v int32) bool      { return contractExecutableTypeNames.valid(v) }
func (ContractExecutableType) EnumNames() map[int32]string { return contractExecutableTypeNames }

type ContractExecutable struct {
	Type     ContractExecutableType
	WasmHash *Hash `txrep:"wasm_hash"`
}

func (ContractExecutable) SwitchFieldName() string { return "Type" }

func (ContractExecutable) ArmForSwitch(sw int32) (string, bool) {
	switch ContractExecutableType(sw) {
	case ContractExecutableTypeContractExecutableWasm:
		return "WasmHash", true
	case ContractExecutableTypeContractExecutableStellarAsset:
		return "", true
	}
	return "", false
}

func (c ContractExecutable) EncodeTo(e *Encoder) error {
	if err := contractExecutableTypeNames.encode(e, int32(c.Type), "ContractExecutable"); err != nil {
		return err
	}
	if c.Type == ContractExecutableTypeContractExecutableWasm {
		if c.WasmHash == nil {
			return armMissing("ContractExecutable", "WasmHash")
		}
		return c.WasmHash.EncodeTo(e)
	}
	return nil
}

func (c *ContractExecutable) DecodeFrom(d *Decoder) error {
	v, err := contractExecutableTypeNames.decode(d, "ContractExecutable")
	if err != nil {
		return err
	}
	*c = ContractExecutable{Type: ContractExecutableType(v)}
	if c.Type == ContractExecutableTypeContractExecutableWasm {
		c.WasmHash = new(Hash)
		return c.WasmHash.DecodeFrom(d)
	}
	return nil
}

type ScContractInstance struct {
	Executable ContractExecutable
	Storage    *ScMap
}

type ScNonceKey struct {
	Nonce int64
}

// ScVal is a Soroban contract value.
type ScVal struct {
	Type      ScValType
	B         *bool
	Error     *ScError
	U32       *uint32
	I32       *int32
	U64       *uint64
	I64       *int64
	Timepoint *TimePoint
	Duration  *Duration
	U128      *UInt128Parts
	I128      *Int128Parts
	U256      *UInt256Parts
	I256      *Int256Parts
	Bytes     *ScBytes
	Str       *ScString
	Sym       *ScSymbol
	Vec       **ScVec
	Map       **ScMap
	Address   *ScAddress
	Instance  *ScContractInstance
	NonceKey  *ScNonceKey `txrep:"nonce_key"`
}

func (ScVal) SwitchFieldName() string { return "Type" }

var scValArms = map[ScValType]string{
	ScValTypeScvBool:                      "B",
	ScValTypeScvVoid:                      "",
	ScValTypeScvError:                     "Error",
	ScValTypeScvU32:                       "U32",
	ScValTypeScvI32:                       "I32",
	ScValTypeScvU64:                       "U64",
	ScValTypeScvI64:                       "I64",
	ScValTypeScvTimepoint:                 "Timepoint",
	ScValTypeScvDuration:                  "Duration",
	ScValTypeScvU128:                      "U128",
	ScValTypeScvI128:                      "I128",
	ScValTypeScvU256:                      "U256",
	ScValTypeScvI256:                      "I256",
	ScValTypeScvBytes:                     "Bytes",
	ScValTypeScvString:                    "Str",
	ScValTypeScvSymbol:                    "Sym",
	ScValTypeScvVec:                       "Vec",
	ScValTypeScvMap:                       "Map",
	ScValTypeScvAddress:                   "Address",
	ScValTypeScvContractInstance:          "Instance",
	ScValTypeScvLedgerKeyContractInstance: "",
	ScValTypeScvLedgerKeyNonce:            "NonceKey",
}

func (ScVal) ArmForSwitch(sw int32) (string, bool) {
	arm, ok := scValArms[ScValType(sw)]
	return arm, ok
}

func (v ScVal) EncodeTo(e *Encoder) error {
	if err := scValTypeNames.encode(e, int32(v.Type), "ScVal"); err != nil {
		return err
	}
	missing := func() error { return armMissing("ScVal", scValArms[v.Type]) }
	switch v.Type {
	case ScValTypeScvBool:
		if v.B == nil {
			return missing()
		}
		e.EncodeBool(*v.B)
	case ScValTypeScvVoid, ScValTypeScvLedgerKeyContractInstance:
	case ScValTypeScvError:
		if v.Error == nil {
			return missing()
		}
		return v.Error.EncodeTo(e)
	case ScValTypeScvU32:
		if v.U32 == nil {
			return missing()
		}
		e.EncodeUint32(*v.U32)
	case ScValTypeScvI32:
		if v.I32 == nil {
			return missing()
		}
		e.EncodeInt32(*v.I32)
	case ScValTypeScvU64:
		if v.U64 == nil {
			return missing()
		}
		e.EncodeUint64(*v.U64)
	case ScValTypeScvI64:
		if v.I64 == nil {
			return missing()
		}
		e.EncodeInt64(*v.I64)
	case ScValTypeScvTimepoint:
		if v.Timepoint == nil {
			return missing()
		}
		e.EncodeUint64(uint64(*v.Timepoint))
	case ScValTypeScvDuration:
		if v.Duration == nil {
			return missing()
		}
		e.EncodeUint64(uint64(*v.Duration))
	case ScValTypeScvU128:
		if v.U128 == nil {
			return missing()
		}
		return v.U128.EncodeTo(e)
	case ScValTypeScvI128:
		if v.I128 == nil {
			return missing()
		}
		return v.I128.EncodeTo(e)
	case ScValTypeScvU256:
		if v.U256 == nil {
			return missing()
		}
		return v.U256.EncodeTo(e)
	case ScValTypeScvI256:
		if v.I256 == nil {
			return missing()
		}
		return v.I256.EncodeTo(e)
	case ScValTypeScvBytes:
		if v.Bytes == nil {
			return missing()
		}
		return e.EncodeOpaque(*v.Bytes, Unbounded)
	case ScValTypeScvString:
		if v.Str == nil {
			return missing()
		}
		return e.EncodeString(string(*v.Str), Unbounded)
	case ScValTypeScvSymbol:
		if v.Sym == nil {
			return missing()
		}
		return e.EncodeString(string(*v.Sym), 32)
	case ScValTypeScvVec:
		if v.Vec == nil {
			return missing()
		}
		return encodeOptional(e, *v.Vec)
	case ScValTypeScvMap:
		if v.Map == nil {
			return missing()
		}
		return encodeOptional(e, *v.Map)
	case ScValTypeScvAddress:
		if v.Address == nil {
			return missing()
		}
		return v.Address.EncodeTo(e)
	case ScValTypeScvContractInstance:
		if v.Instance == nil {
			return missing()
		}
		if err := v.Instance.Executable.EncodeTo(e); err != nil {
			return err
		}
		return encodeOptional(e, v.Instance.Storage)
	case ScValTypeScvLedgerKeyNonce:
		if v.NonceKey == nil {
			return missing()
		}
		e.EncodeInt64(v.NonceKey.Nonce)
	}
	return nil
}

func (v *ScVal) DecodeFrom(d *Decoder) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	t, err := scValTypeNames.decode(d, "ScVal")
	if err != nil {
		return err
	}
	*v = ScVal{Type: ScValType(t)}
	switch v.Type {
	case ScValTypeScvBool:
		b, err := d.DecodeBool()
		if err != nil {
			return err
		}
		v.B = &b
	case ScValTypeScvVoid, ScValTypeScvLedgerKeyContractInstance:
	case ScValTypeScvError:
		v.Error = new(ScError)
		return v.Error.DecodeFrom(d)
	case ScValTypeScvU32:
		n, err := d.DecodeUint32()
		if err != nil {
			return err
		}
		v.U32 = &n
	case ScValTypeScvI32:
		n, err := d.DecodeInt32()
		if err != nil {
			return err
		}
		v.I32 = &n
	case ScValTypeScvU64:
		n, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		v.U64 = &n
	case ScValTypeScvI64:
		n, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		v.I64 = &n
	case ScValTypeScvTimepoint:
		n, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		tp := TimePoint(n)
		v.Timepoint = &tp
	case ScValTypeScvDuration:
		n, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		du := Duration(n)
		v.Duration = &du
	case ScValTypeScvU128:
		v.U128 = new(UInt128Parts)
		return v.U128.DecodeFrom(d)
	case ScValTypeScvI128:
		v.I128 = new(Int128Parts)
		return v.I128.DecodeFrom(d)
	case ScValTypeScvU256:
		v.U256 = new(UInt256Parts)
		return v.U256.DecodeFrom(d)
	case ScValTypeScvI256:
		v.I256 = new(Int256Parts)
		return v.I256.DecodeFrom(d)
	case ScValTypeScvBytes:
		b, err := d.DecodeOpaque(Unbounded)
		if err != nil {
			return err
		}
		sb := ScBytes(b)
		v.Bytes = &sb
	case ScValTypeScvString:
		s, err := d.DecodeString(Unbounded)
		if err != nil {
			return err
		}
		ss := ScString(s)
		v.Str = &ss
	case ScValTypeScvSymbol:
		s, err := d.DecodeString(32)
		if err != nil {
			return err
		}
		sym := ScSymbol(s)
		v.Sym = &sym
	case ScValTypeScvVec:
		vec, err := decodeOptional[ScVec](d)
		if err != nil {
			return err
		}
		v.Vec = &vec
	case ScValTypeScvMap:
		m, err := decodeOptional[ScMap](d)
		if err != nil {
			return err
		}
		v.Map = &m
	case ScValTypeScvAddress:
		v.Address = new(ScAddress)
		return v.Address.DecodeFrom(d)
	case ScValTypeScvContractInstance:
		v.Instance = new(ScContractInstance)
		if err := v.Instance.Executable.DecodeFrom(d); err != nil {
			return err
		}
		v.Instance.Storage, err = decodeOptional[ScMap](d)
		return err
	case ScValTypeScvLedgerKeyNonce:
		n, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		v.NonceKey = &ScNonceKey{Nonce: n}
	}
	return nil
}
