package soroban

import (
	"crypto/sha256"

	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/xdr"
)

// ContractID derives the id of a contract created from preimage on n.
func ContractID(n network.Network, preimage xdr.ContractIDPreimage) (xdr.ContractID, error) {
	if n.Passphrase() == "" {
		return xdr.ContractID{}, network.ErrEmptyPassphrase
	}
	raw, err := xdr.Marshal(xdr.HashIDPreimage{
		Type: xdr.EnvelopeTypeEnvelopeTypeContractId,
		ContractID: &xdr.HashIDPreimageContractID{
			NetworkID:          n.ID(),
			ContractIDPreimage: preimage,
		},
	})
	if err != nil {
		return xdr.ContractID{}, err
	}
	return sha256.Sum256(raw), nil
}

// DeployerPreimage is the preimage of a contract deployed by deployer with
// salt.
func DeployerPreimage(deployer string, salt [32]byte) (xdr.ContractIDPreimage, error) {
	addr, err := xdr.ScAddressFromString(deployer)
	if err != nil {
		return xdr.ContractIDPreimage{}, ErrAddress.Withf("deployer %q", deployer).Wrap(err)
	}
	return xdr.ContractIDPreimage{
		Type:        xdr.ContractIDPreimageTypeContractIdPreimageFromAddress,
		FromAddress: &xdr.ContractIDPreimageFromAddress{Address: addr, Salt: salt},
	}, nil
}

// AssetPreimage is the preimage of the Stellar Asset Contract for asset.
func AssetPreimage(asset xdr.Asset) xdr.ContractIDPreimage {
	return xdr.ContractIDPreimage{Type: xdr.ContractIDPreimageTypeContractIdPreimageFromAsset, FromAsset: &asset}
}

// AssetContractID is the C address of asset's Stellar Asset Contract on n.
func AssetContractID(n network.Network, asset xdr.Asset) (string, error) {
	id, err := ContractID(n, AssetPreimage(asset))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// WasmHash is the key under which uploaded code is stored.
func WasmHash(wasm []byte) xdr.Hash {
	return sha256.Sum256(wasm)
}

func contractAddress(contract string) (xdr.ScAddress, error) {
	a, err := xdr.ScAddressFromString(contract)
	if err != nil {
		return xdr.ScAddress{}, ErrAddress.Withf("contract %q", contract).Wrap(err)
	}
	if a.Type != xdr.ScAddressTypeScAddressTypeContract {
		return xdr.ScAddress{}, ErrAddress.Withf("%q is not a contract", contract)
	}
	return a, nil
}

// ContractDataKey is the ledger key of one contract storage entry.
func ContractDataKey(contract string, key xdr.ScVal, durability xdr.ContractDataDurability) (xdr.LedgerKey, error) {
	addr, err := contractAddress(contract)
	if err != nil {
		return xdr.LedgerKey{}, err
	}
	return xdr.LedgerKey{
		Type:         xdr.LedgerEntryTypeContractData,
		ContractData: &xdr.LedgerKeyContractData{Contract: addr, Key: key, Durability: durability},
	}, nil
}

// ContractInstanceKey is the ledger key of a contract's instance entry.
func ContractInstanceKey(contract string) (xdr.LedgerKey, error) {
	return ContractDataKey(contract, xdr.ScVal{Type: xdr.ScValTypeScvLedgerKeyContractInstance}, xdr.ContractDataDurabilityPersistent)
}

func ContractCodeKey(wasmHash xdr.Hash) xdr.LedgerKey {
	return xdr.LedgerKey{Type: xdr.LedgerEntryTypeContractCode, ContractCode: &xdr.LedgerKeyContractCode{Hash: wasmHash}}
}

// TTLKey is the key of the entry holding key's time to live.
func TTLKey(key xdr.LedgerKey) (xdr.LedgerKey, error) {
	raw, err := xdr.Marshal(key)
	if err != nil {
		return xdr.LedgerKey{}, err
	}
	return xdr.LedgerKey{Type: xdr.LedgerEntryTypeTtl, Ttl: &xdr.LedgerKeyTtl{KeyHash: sha256.Sum256(raw)}}, nil
}

// InvokeContract returns the host function calling fn on contract.
func InvokeContract(contract, fn string, args ...xdr.ScVal) (xdr.HostFunction, error) {
	addr, err := contractAddress(contract)
	if err != nil {
		return xdr.HostFunction{}, err
	}
	if _, err := Symbol(fn); err != nil {
		return xdr.HostFunction{}, err
	}
	return xdr.HostFunction{
		Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
		InvokeContract: &xdr.InvokeContractArgs{
			ContractAddress: addr,
			FunctionName:    xdr.ScSymbol(fn),
			Args:            append([]xdr.ScVal{}, args...),
		},
	}, nil
}

func UploadWasm(wasm []byte) xdr.HostFunction {
	code := append([]byte{}, wasm...)
	return xdr.HostFunction{Type: xdr.HostFunctionTypeHostFunctionTypeUploadContractWasm, Wasm: &code}
}

// CreateContract returns the host function deploying wasmHash from
// deployer with salt and constructor arguments.
func CreateContract(deployer string, salt [32]byte, wasmHash xdr.Hash, constructorArgs ...xdr.ScVal) (xdr.HostFunction, error) {
	preimage, err := DeployerPreimage(deployer, salt)
	if err != nil {
		return xdr.HostFunction{}, err
	}
	return xdr.HostFunction{
		Type: xdr.HostFunctionTypeHostFunctionTypeCreateContractV2,
		CreateContractV2: &xdr.CreateContractArgsV2{
			ContractIDPreimage: preimage,
			Executable:         xdr.ContractExecutable{Type: xdr.ContractExecutableTypeContractExecutableWasm, WasmHash: &wasmHash},
			ConstructorArgs:    append([]xdr.ScVal{}, constructorArgs...),
		},
	}, nil
}
