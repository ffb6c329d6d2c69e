package xdr

import (
	"github.com/stellar-txkit/internal/strkey"
)

// Address returns the G strkey of the key.
func (k PublicKey) Address() string {
	if k.Ed25519 == nil {
		return ""
	}
	return strkey.MustEncode(strkey.VersionByteAccountID, k.Ed25519[:])
}

// AddressToAccountID parses a G address.
func AddressToAccountID(address string) (AccountID, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return AccountID{}, err
	}
	var key Uint256
	copy(key[:], raw)
	return NewAccountID(key), nil
}

// MustAddress is AddressToAccountID that panics on error.
func MustAddress(address string) AccountID {
	id, err := AddressToAccountID(address)
	if err != nil {
		panic(err)
	}
	return id
}

// Address returns the G or M strkey of the account.
func (m MuxedAccount) Address() string {
	switch m.Type {
	case CryptoKeyTypeKeyTypeEd25519:
		if m.Ed25519 != nil {
			return strkey.MustEncode(strkey.VersionByteAccountID, m.Ed25519[:])
		}
	case CryptoKeyTypeKeyTypeMuxedEd25519:
		if m.Med25519 != nil {
			return strkey.EncodeMuxed(m.Med25519.Ed25519, m.Med25519.ID)
		}
	}
	return ""
}

// AddressToMuxedAccount parses a G or M address.
func AddressToMuxedAccount(address string) (MuxedAccount, error) {
	v, err := strkey.Version(address)
	if err != nil {
		return MuxedAccount{}, err
	}
	if v == strkey.VersionByteMuxedAccount {
		m, err := strkey.DecodeMuxed(address)
		if err != nil {
			return MuxedAccount{}, err
		}
		return MuxedAccount{
			Type:     CryptoKeyTypeKeyTypeMuxedEd25519,
			Med25519: &MuxedAccountMed25519{ID: m.ID, Ed25519: m.Ed25519},
		}, nil
	}
	id, err := AddressToAccountID(address)
	if err != nil {
		return MuxedAccount{}, err
	}
	return NewMuxedAccountFromAccountID(id), nil
}

// Address returns the strkey of the signer key: G, T, X or P.
func (k SignerKey) Address() string {
	switch k.Type {
	case SignerKeyTypeSignerKeyTypeEd25519:
		if k.Ed25519 != nil {
			return strkey.MustEncode(strkey.VersionByteAccountID, k.Ed25519[:])
		}
	case SignerKeyTypeSignerKeyTypePreAuthTx:
		if k.PreAuthTx != nil {
			return strkey.MustEncode(strkey.VersionByteHashTx, k.PreAuthTx[:])
		}
	case SignerKeyTypeSignerKeyTypeHashX:
		if k.HashX != nil {
			return strkey.MustEncode(strkey.VersionByteHashX, k.HashX[:])
		}
	case SignerKeyTypeSignerKeyTypeEd25519SignedPayload:
		if p := k.Ed25519SignedPayload; p != nil {
			s, err := strkey.EncodeSignedPayload(strkey.SignedPayload{Signer: p.Ed25519, Payload: p.Payload})
			if err == nil {
				return s
			}
		}
	}
	return ""
}

// SignerKeyFromAddress parses a G, T, X or P strkey.
func SignerKeyFromAddress(address string) (SignerKey, error) {
	v, raw, err := strkey.DecodeAny(address)
	if err != nil {
		return SignerKey{}, err
	}
	var key Uint256
	switch v {
	case strkey.VersionByteAccountID:
		copy(key[:], raw)
		return SignerKey{Type: SignerKeyTypeSignerKeyTypeEd25519, Ed25519: &key}, nil
	case strkey.VersionByteHashTx:
		copy(key[:], raw)
		return SignerKey{Type: SignerKeyTypeSignerKeyTypePreAuthTx, PreAuthTx: &key}, nil
	case strkey.VersionByteHashX:
		copy(key[:], raw)
		return SignerKey{Type: SignerKeyTypeSignerKeyTypeHashX, HashX: &key}, nil
	case strkey.VersionByteSignedPayload:
		sp, err := strkey.DecodeSignedPayload(address)
		if err != nil {
			return SignerKey{}, err
		}
		return SignerKey{
			Type:                 SignerKeyTypeSignerKeyTypeEd25519SignedPayload,
			Ed25519SignedPayload: &SignerKeyEd25519SignedPayload{Ed25519: sp.Signer, Payload: sp.Payload},
		}, nil
	}
	return SignerKey{}, strkey.ErrInvalidVersionByte.Withf("%s is not a signer key", v)
}

// String returns the C strkey of the contract.
func (c ContractID) String() string {
	return strkey.MustEncode(strkey.VersionByteContract, c[:])
}

// String returns the strkey of the address: G, M, C, B or L.
func (a ScAddress) String() string {
	switch a.Type {
	case ScAddressTypeScAddressTypeAccount:
		if a.AccountID != nil {
			return a.AccountID.Address()
		}
	case ScAddressTypeScAddressTypeContract:
		if a.ContractID != nil {
			return a.ContractID.String()
		}
	case ScAddressTypeScAddressTypeMuxedAccount:
		if a.MuxedAccount != nil {
			return strkey.EncodeMuxed(a.MuxedAccount.Ed25519, a.MuxedAccount.ID)
		}
	case ScAddressTypeScAddressTypeClaimableBalance:
		if a.ClaimableBalanceID != nil && a.ClaimableBalanceID.V0 != nil {
			raw := append([]byte{byte(a.ClaimableBalanceID.Type)}, a.ClaimableBalanceID.V0[:]...)
			return strkey.MustEncode(strkey.VersionByteClaimableBalance, raw)
		}
	case ScAddressTypeScAddressTypeLiquidityPool:
		if a.LiquidityPoolID != nil {
			return strkey.MustEncode(strkey.VersionByteLiquidityPool, a.LiquidityPoolID[:])
		}
	}
	return ""
}

// ScAddressFromString parses a G, M, C, B or L strkey.
func ScAddressFromString(s string) (ScAddress, error) {
	v, raw, err := strkey.DecodeAny(s)
	if err != nil {
		return ScAddress{}, err
	}
	switch v {
	case strkey.VersionByteAccountID:
		var key Uint256
		copy(key[:], raw)
		id := NewAccountID(key)
		return ScAddress{Type: ScAddressTypeScAddressTypeAccount, AccountID: &id}, nil
	case strkey.VersionByteContract:
		var c ContractID
		copy(c[:], raw)
		return ScAddress{Type: ScAddressTypeScAddressTypeContract, ContractID: &c}, nil
	case strkey.VersionByteMuxedAccount:
		m, err := strkey.DecodeMuxed(s)
		if err != nil {
			return ScAddress{}, err
		}
		return ScAddress{
			Type:         ScAddressTypeScAddressTypeMuxedAccount,
			MuxedAccount: &MuxedEd25519Account{ID: m.ID, Ed25519: m.Ed25519},
		}, nil
	case strkey.VersionByteClaimableBalance:
		if raw[0] != byte(ClaimableBalanceIDTypeClaimableBalanceIDTypeV0) {
			return ScAddress{}, strkey.ErrInvalidPayload.Withf("claimable balance id type %d", raw[0])
		}
		var h Hash
		copy(h[:], raw[1:])
		return ScAddress{
			Type:               ScAddressTypeScAddressTypeClaimableBalance,
			ClaimableBalanceID: &ClaimableBalanceID{Type: ClaimableBalanceIDTypeClaimableBalanceIDTypeV0, V0: &h},
		}, nil
	case strkey.VersionByteLiquidityPool:
		var p PoolID
		copy(p[:], raw)
		return ScAddress{Type: ScAddressTypeScAddressTypeLiquidityPool, LiquidityPoolID: &p}, nil
	}
	return ScAddress{}, strkey.ErrInvalidVersionByte.Withf("%s is not a contract address", v)
}
