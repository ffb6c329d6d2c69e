package xdr

type HostFunctionType int32

const (
	HostFunctionTypeHostFunctionTypeInvokeContract     HostFunctionType = 0
	HostFunctionTypeHostFunctionTypeCreateContract     HostFunctionType = 1
	HostFunctionTypeHostFunctionTypeUploadContractWasm HostFunctionType = 2
	HostFunctionTypeHostFunctionTypeCreateContractV2   HostFunctionType = 3
)

var hostFunctionTypeNames = enumNames{
	0: "HOST_FUNCTION_TYPE_INVOKE_CONTRACT",
	1: "HOST_FUNCTION_TYPE_CREATE_CONTRACT",
	2: "HOST_FUNCTION_TYPE_UPLOAD_CONTRACT_WASM",
	3: "HOST_FUNCTION_TYPE_CREATE_CONTRACT_V2",
}

func (t HostFunctionType) String() string            { return hostFunctionTypeNames.name(int32(t)) }
func (HostFunctionType) ValidEnum(v int32) bool      { return hostFunctionTypeNames.valid(v) }
func (HostFunctionType) EnumNames() map[int32]string { return hostFunctionTypeNames }

type InvokeContractArgs struct {
	ContractAddress ScAddress
	FunctionName    ScSymbol
	Args            []ScVal
}

func (a InvokeContractArgs) EncodeTo(e *Encoder) error {
	if err := a.ContractAddress.EncodeTo(e); err != nil {
		return err
	}
	if err := e.EncodeString(string(a.FunctionName), 32); err != nil {
		return err
	}
	return encodeArray(e, a.Args, Unbounded)
}

func (a *InvokeContractArgs) DecodeFrom(d *Decoder) error {
	if err := a.ContractAddress.DecodeFrom(d); err != nil {
		return err
	}
	name, err := d.DecodeString(32)
	if err != nil {
		return err
	}
	a.FunctionName = ScSymbol(name)
	a.Args, err = decodeArray[ScVal](d, Unbounded, 4)
	return err
}

type ContractIDPreimageType int32

const (
	ContractIDPreimageTypeContractIdPreimageFromAddress ContractIDPreimageType = 0
	ContractIDPreimageTypeContractIdPreimageFromAsset   ContractIDPreimageType = 1
)

var contractIDPreimageTypeNames = enumNames{
	0: "CONTRACT_ID_PREIMAGE_FROM_ADDRESS",
	1: "CONTRACT_ID_PREIMAGE_FROM_ASSET",
}

func (t ContractIDPreimageType) String() string            { return contractIDPreimageTypeNames.name(int32(t)) }
func (ContractIDPreimageType) ValidEnum(v int32) bool      { return contractIDPreimageTypeNames.valid(v) }
func (ContractIDPreimageType) EnumNames() map[int32]string { return contractIDPreimageTypeNames }

type ContractIDPreimageFromAddress struct {
	Address ScAddress
	Salt    Uint256
}

type ContractIDPreimage struct {
	Type        ContractIDPreimageType
	FromAddress *ContractIDPreimageFromAddress
	FromAsset   *Asset
}

func (ContractIDPreimage) SwitchFieldName() string { return "Type" }

func (ContractIDPreimage) ArmForSwitch(sw int32) (string, bool) {
	switch ContractIDPreimageType(sw) {
	case ContractIDPreimageTypeContractIdPreimageFromAddress:
		return "FromAddress", true
	case ContractIDPreimageTypeContractIdPreimageFromAsset:
		return "FromAsset", true
	}
	return "", false
}

func (p ContractIDPreimage) EncodeTo(e *Encoder) error {
	if err := contractIDPreimageTypeNames.encode(e, int32(p.Type), "ContractIDPreimage"); err != nil {
		return err
	}
	if p.Type == ContractIDPreimageTypeContractIdPreimageFromAddress {
		if p.FromAddress == nil {
			return armMissing("ContractIDPreimage", "FromAddress")
		}
		if err := p.FromAddress.Address.EncodeTo(e); err != nil {
			return err
		}
		return p.FromAddress.Salt.EncodeTo(e)
	}
	if p.FromAsset == nil {
		return armMissing("ContractIDPreimage", "FromAsset")
	}
	return p.FromAsset.EncodeTo(e)
}

func (p *ContractIDPreimage) DecodeFrom(d *Decoder) error {
	v, err := contractIDPreimageTypeNames.decode(d, "ContractIDPreimage")
	if err != nil {
		return err
	}
	*p = ContractIDPreimage{Type: ContractIDPreimageType(v)}
	if p.Type == ContractIDPreimageTypeContractIdPreimageFromAddress {
		p.FromAddress = new(ContractIDPreimageFromAddress)
		if err := p.FromAddress.Address.DecodeFrom(d); err != nil {
			return err
		}
		return p.FromAddress.Salt.DecodeFrom(d)
	}
	p.FromAsset = new(Asset)
	return p.FromAsset.DecodeFrom(d)
}

type CreateContractArgs struct {
	ContractIDPreimage ContractIDPreimage
	Executable         ContractExecutable
}

func (a CreateContractArgs) EncodeTo(e *Encoder) error {
	if err := a.ContractIDPreimage.EncodeTo(e); err != nil {
		return err
	}
	return a.Executable.EncodeTo(e)
}

func (a *CreateContractArgs) DecodeFrom(d *Decoder) error {
	if err := a.ContractIDPreimage.DecodeFrom(d); err != nil {
		return err
	}
	return a.Executable.DecodeFrom(d)
}

type CreateContractArgsV2 struct {
	ContractIDPreimage ContractIDPreimage
	Executable         ContractExecutable
	ConstructorArgs    []ScVal
}

func (a CreateContractArgsV2) EncodeTo(e *Encoder) error {
	if err := a.ContractIDPreimage.EncodeTo(e); err != nil {
		return err
	}
	if err := a.Executable.EncodeTo(e); err != nil {
		return err
	}
	return encodeArray(e, a.ConstructorArgs, Unbounded)
}

func (a *CreateContractArgsV2) DecodeFrom(d *Decoder) error {
	if err := a.ContractIDPreimage.DecodeFrom(d); err != nil {
		return err
	}
	if err := a.Executable.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	a.ConstructorArgs, err = decodeArray[ScVal](d, Unbounded, 4)
	return err
}

type HostFunction struct {
	Type             HostFunctionType
	InvokeContract   *InvokeContractArgs
	CreateContract   *CreateContractArgs
	Wasm             *[]byte
	CreateContractV2 *CreateContractArgsV2
}

func (HostFunction) SwitchFieldName() string { return "Type" }

func (HostFunction) ArmForSwitch(sw int32) (string, bool) {
	switch HostFunctionType(sw) {
	case HostFunctionTypeHostFunctionTypeInvokeContract:
		return "InvokeContract", true
	case HostFunctionTypeHostFunctionTypeCreateContract:
		return "CreateContract", true
	case HostFunctionTypeHostFunctionTypeUploadContractWasm:
		return "Wasm", true
	case HostFunctionTypeHostFunctionTypeCreateContractV2:
		return "CreateContractV2", true
	}
	return "", false
}

func (h HostFunction) EncodeTo(e *Encoder) error {
	if err := hostFunctionTypeNames.encode(e, int32(h.Type), "HostFunction"); err != nil {
		return err
	}
	switch h.Type {
	case HostFunctionTypeHostFunctionTypeInvokeContract:
		if h.InvokeContract == nil {
			return armMissing("HostFunction", "InvokeContract")
		}
		return h.InvokeContract.EncodeTo(e)
	case HostFunctionTypeHostFunctionTypeCreateContract:
		if h.CreateContract == nil {
			return armMissing("HostFunction", "CreateContract")
		}
		return h.CreateContract.EncodeTo(e)
	case HostFunctionTypeHostFunctionTypeUploadContractWasm:
		if h.Wasm == nil {
			return armMissing("HostFunction", "Wasm")
		}
		return e.EncodeOpaque(*h.Wasm, Unbounded)
	default:
		if h.CreateContractV2 == nil {
			return armMissing("HostFunction", "CreateContractV2")
		}
		return h.CreateContractV2.EncodeTo(e)
	}
}

func (h *HostFunction) DecodeFrom(d *Decoder) error {
	v, err := hostFunctionTypeNames.decode(d, "HostFunction")
	if err != nil {
		return err
	}
	*h = HostFunction{Type: HostFunctionType(v)}
	switch h.Type {
	case HostFunctionTypeHostFunctionTypeInvokeContract:
		h.InvokeContract = new(InvokeContractArgs)
		return h.InvokeContract.DecodeFrom(d)
	case HostFunctionTypeHostFunctionTypeCreateContract:
		h.CreateContract = new(CreateContractArgs)
		return h.CreateContract.DecodeFrom(d)
	case HostFunctionTypeHostFunctionTypeUploadContractWasm:
		wasm, err := d.DecodeOpaque(Unbounded)
		if err != nil {
			return err
		}
		h.Wasm = &wasm
		return nil
	default:
		h.CreateContractV2 = new(CreateContractArgsV2)
		return h.CreateContractV2.DecodeFrom(d)
	}
}

type SorobanAuthorizedFunctionType int32

const (
	SorobanAuthorizedFunctionTypeContractFn             SorobanAuthorizedFunctionType = 0
	SorobanAuthorizedFunctionTypeCreateContractHostFn   SorobanAuthorizedFunctionType = 1
	SorobanAuthorizedFunctionTypeCreateContractV2HostFn SorobanAuthorizedFunctionType = 2
)

var sorobanAuthorizedFunctionTypeNames = enumNames{
	0: "SOROBAN_AUTHORIZED_FUNCTION_TYPE_CONTRACT_FN",
	1: "SOROBAN_AUTHORIZED_FUNCTION_TYPE_CREATE_CONTRACT_HOST_FN",
	2: "SOROBAN_AUTHORIZED_FUNCTION_TYPE_CREATE_CONTRACT_V2_HOST_FN",
}

func (t SorobanAuthorizedFunctionType) String() string {
	return sorobanAuthorizedFunctionTypeNames.name(int32(t))
}
func (SorobanAuthorizedFunctionType) ValidEnum(v int32) bool { return sorobanAuthorizedFunctionTypeNames.valid(v) }
func (SorobanAuthorizedFunctionType) EnumNames() map[int32]string {
	return sorobanAuthorizedFunctionTypeNames
}

type SorobanAuthorizedFunction struct {
	Type                   SorobanAuthorizedFunctionType
	ContractFn             *InvokeContractArgs
	CreateContractHostFn   *CreateContractArgs
	CreateContractV2HostFn *CreateContractArgsV2
}

func (SorobanAuthorizedFunction) SwitchFieldName() string { return "Type" }

func (SorobanAuthorizedFunction) ArmForSwitch(sw int32) (string, bool) {
	switch SorobanAuthorizedFunctionType(sw) {
	case SorobanAuthorizedFunctionTypeContractFn:
		return "ContractFn", true
	case SorobanAuthorizedFunctionTypeCreateContractHostFn:
		return "CreateContractHostFn", true
	case SorobanAuthorizedFunctionTypeCreateContractV2HostFn:
		return "CreateContractV2HostFn", true
	}
	return "", false
}

func (f SorobanAuthorizedFunction) EncodeTo(e *Encoder) error {
	if err := sorobanAuthorizedFunctionTypeNames.encode(e, int32(f.Type), "SorobanAuthorizedFunction"); err != nil {
		return err
	}
	switch f.Type {
	case SorobanAuthorizedFunctionTypeContractFn:
		if f.ContractFn == nil {
			return armMissing("SorobanAuthorizedFunction", "ContractFn")
		}
		return f.ContractFn.EncodeTo(e)
	case SorobanAuthorizedFunctionTypeCreateContractHostFn:
		if f.CreateContractHostFn == nil {
			return armMissing("SorobanAuthorizedFunction", "CreateContractHostFn")
		}
		return f.CreateContractHostFn.EncodeTo(e)
	default:
		if f.CreateContractV2HostFn == nil {
			return armMissing("SorobanAuthorizedFunction", "CreateContractV2HostFn")
		}
		return f.CreateContractV2HostFn.EncodeTo(e)
	}
}

func (f *SorobanAuthorizedFunction) DecodeFrom(d *Decoder) error {
	v, err := sorobanAuthorizedFunctionTypeNames.decode(d, "SorobanAuthorizedFunction")
	if err != nil {
		return err
	}
	*f = SorobanAuthorizedFunction{Type: SorobanAuthorizedFunctionType(v)}
	switch f.Type {
	case SorobanAuthorizedFunctionTypeContractFn:
		f.ContractFn = new(InvokeContractArgs)
		return f.ContractFn.DecodeFrom(d)
	case SorobanAuthorizedFunctionTypeCreateContractHostFn:
		f.CreateContractHostFn = new(CreateContractArgs)
		return f.CreateContractHostFn.DecodeFrom(d)
	default:
		f.CreateContractV2HostFn = new(CreateContractArgsV2)
		return f.CreateContractV2HostFn.DecodeFrom(d)
	}
}

// SorobanAuthorizedInvocation is a node of the authorized call tree.
type SorobanAuthorizedInvocation struct {
	Function       SorobanAuthorizedFunction
	SubInvocations []SorobanAuthorizedInvocation
}

func (i SorobanAuthorizedInvocation) EncodeTo(e *Encoder) error {
	if err := i.Function.EncodeTo(e); err != nil {
		return err
	}
	return encodeArray(e, i.SubInvocations, Unbounded)
}

func (i *SorobanAuthorizedInvocation) DecodeFrom(d *Decoder) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	if err := i.Function.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	i.SubInvocations, err = decodeArray[SorobanAuthorizedInvocation](d, Unbounded, 8)
	return err
}

type SorobanAddressCredentials struct {
	Address                   ScAddress
	Nonce                     int64
	SignatureExpirationLedger uint32
	Signature                 ScVal
}

func (c SorobanAddressCredentials) EncodeTo(e *Encoder) error {
	if err := c.Address.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(c.Nonce)
	e.EncodeUint32(c.SignatureExpirationLedger)
	return c.Signature.EncodeTo(e)
}

func (c *SorobanAddressCredentials) DecodeFrom(d *Decoder) error {
	if err := c.Address.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if c.Nonce, err = d.DecodeInt64(); err != nil {
		return err
	}
	if c.SignatureExpirationLedger, err = d.DecodeUint32(); err != nil {
		return err
	}
	return c.Signature.DecodeFrom(d)
}

type SorobanCredentialsType int32

const (
	SorobanCredentialsTypeSorobanCredentialsSourceAccount SorobanCredentialsType = 0
	SorobanCredentialsTypeSorobanCredentialsAddress       SorobanCredentialsType = 1
)

var sorobanCredentialsTypeNames = enumNames{
	0: "SOROBAN_CREDENTIALS_SOURCE_ACCOUNT",
	1: "SOROBAN_CREDENTIALS_ADDRESS",
}

func (t SorobanCredentialsType) String() string            { return sorobanCredentialsTypeNames.name(int32(t)) }
func (SorobanCredentialsType) ValidEnum(v int32) bool      { return sorobanCredentialsTypeNames.valid(v) }
func (SorobanCredentialsType) EnumNames() map[int32]string { return sorobanCredentialsTypeNames }

type SorobanCredentials struct {
	Type    SorobanCredentialsType
	Address *SorobanAddressCredentials
}

func (SorobanCredentials) SwitchFieldName() string { return "Type" }

func (SorobanCredentials) ArmForSwitch(sw int32) (string, bool) {
	switch SorobanCredentialsType(sw) {
	case SorobanCredentialsTypeSorobanCredentialsSourceAccount:
		return "", true
	case SorobanCredentialsTypeSorobanCredentialsAddress:
		return "Address", true
	}
	return "", false
}

func (c SorobanCredentials) EncodeTo(e *Encoder) error {
	if err := sorobanCredentialsTypeNames.encode(e, int32(c.Type), "SorobanCredentials"); err != nil {
		return err
	}
	if c.Type == SorobanCredentialsTypeSorobanCredentialsAddress {
		if c.Address == nil {
			return armMissing("SorobanCredentials", "Address")
		}
		return c.Address.EncodeTo(e)
	}
	return nil
}

func (c *SorobanCredentials) DecodeFrom(d *Decoder) error {
	v, err := sorobanCredentialsTypeNames.decode(d, "SorobanCredentials")
	if err != nil {
		return err
	}
	*c = SorobanCredentials{Type: SorobanCredentialsType(v)}
	if c.Type == SorobanCredentialsTypeSorobanCredentialsAddress {
		c.Address = new(SorobanAddressCredentials)
		return c.Address.DecodeFrom(d)
	}
	return nil
}

type SorobanAuthorizationEntry struct {
	Credentials    SorobanCredentials
	RootInvocation SorobanAuthorizedInvocation
}

func (a SorobanAuthorizationEntry) EncodeTo(e *Encoder) error {
	if err := a.Credentials.EncodeTo(e); err != nil {
		return err
	}
	return a.RootInvocation.EncodeTo(e)
}

func (a *SorobanAuthorizationEntry) DecodeFrom(d *Decoder) error {
	if err := a.Credentials.DecodeFrom(d); err != nil {
		return err
	}
	return a.RootInvocation.DecodeFrom(d)
}

type SorobanResources struct {
	Footprint     LedgerFootprint
	Instructions  uint32
	DiskReadBytes uint32
	WriteBytes    uint32
}

func (r SorobanResources) EncodeTo(e *Encoder) error {
	if err := r.Footprint.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeUint32(r.Instructions)
	e.EncodeUint32(r.DiskReadBytes)
	e.EncodeUint32(r.WriteBytes)
	return nil
}

func (r *SorobanResources) DecodeFrom(d *Decoder) error {
	if err := r.Footprint.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	if r.Instructions, err = d.DecodeUint32(); err != nil {
		return err
	}
	if r.DiskReadBytes, err = d.DecodeUint32(); err != nil {
		return err
	}
	r.WriteBytes, err = d.DecodeUint32()
	return err
}

// SorobanResourcesExtV0 lists archived entries in the read-write footprint
// that the transaction restores automatically.
type SorobanResourcesExtV0 struct {
	ArchivedSorobanEntries []uint32
}

type SorobanTransactionDataExt struct {
	V           int32
	ResourceExt *SorobanResourcesExtV0
}

func (SorobanTransactionDataExt) SwitchFieldName() string { return "V" }

func (SorobanTransactionDataExt) ArmForSwitch(sw int32) (string, bool) {
	switch sw {
	case 0:
		return "", true
	case 1:
		return "ResourceExt", true
	}
	return "", false
}

func (x SorobanTransactionDataExt) EncodeTo(e *Encoder) error {
	switch x.V {
	case 0:
		e.EncodeInt32(0)
		return nil
	case 1:
		if x.ResourceExt == nil {
			return armMissing("SorobanTransactionDataExt", "ResourceExt")
		}
		e.EncodeInt32(1)
		if err := e.EncodeArrayLen(len(x.ResourceExt.ArchivedSorobanEntries), Unbounded); err != nil {
			return err
		}
		for _, idx := range x.ResourceExt.ArchivedSorobanEntries {
			e.EncodeUint32(idx)
		}
		return nil
	}
	return ErrInvalidValue.Withf("SorobanTransactionDataExt: v=%d", x.V)
}

func (x *SorobanTransactionDataExt) DecodeFrom(d *Decoder) error {
	v, err := d.DecodeInt32()
	if err != nil {
		return err
	}
	*x = SorobanTransactionDataExt{V: v}
	switch v {
	case 0:
		return nil
	case 1:
		n, err := d.DecodeArrayLen(Unbounded, 4)
		if err != nil {
			return err
		}
		x.ResourceExt = &SorobanResourcesExtV0{}
		if n > 0 {
			x.ResourceExt.ArchivedSorobanEntries = make([]uint32, n)
		}
		for i := 0; i < n; i++ {
			if x.ResourceExt.ArchivedSorobanEntries[i], err = d.DecodeUint32(); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrInvalidDiscriminant.Withf("SorobanTransactionDataExt: %d", v)
}

// SorobanTransactionData declares resources and the resource fee of a
// Soroban transaction.
type SorobanTransactionData struct {
	Ext         SorobanTransactionDataExt
	Resources   SorobanResources
	ResourceFee int64
}

func (s SorobanTransactionData) EncodeTo(e *Encoder) error {
	if err := s.Ext.EncodeTo(e); err != nil {
		return err
	}
	if err := s.Resources.EncodeTo(e); err != nil {
		return err
	}
	e.EncodeInt64(s.ResourceFee)
	return nil
}

func (s *SorobanTransactionData) DecodeFrom(d *Decoder) error {
	if err := s.Ext.DecodeFrom(d); err != nil {
		return err
	}
	if err := s.Resources.DecodeFrom(d); err != nil {
		return err
	}
	var err error
	s.ResourceFee, err = d.DecodeInt64()
	return err
}
