package soroban

import "github.com/stellar-txkit/internal/sdkerr"

var (
	ErrCredentials     = sdkerr.New(sdkerr.KindValidation, "soroban_credentials", "authorization entry has no address credentials")
	ErrSignatureFormat = sdkerr.New(sdkerr.KindDecode, "soroban_signature_format", "authorization signature is not a vector of key/signature maps")
	ErrSignature       = sdkerr.New(sdkerr.KindCrypto, "soroban_signature", "authorization signature does not verify")
	ErrSymbol          = sdkerr.New(sdkerr.KindValidation, "soroban_symbol", "invalid symbol")
	ErrIntegerRange    = sdkerr.New(sdkerr.KindValidation, "soroban_integer_range", "integer out of range")
	ErrAddress         = sdkerr.New(sdkerr.KindValidation, "soroban_address", "invalid contract or account address")
)
