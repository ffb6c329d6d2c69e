package txnbuild

import "github.com/stellar-txkit/internal/sdkerr"

var (
	ErrOperationCount   = sdkerr.New(sdkerr.KindValidation, "tx_operation_count", "transaction must contain between 1 and 100 operations")
	ErrMemoTooLong      = sdkerr.New(sdkerr.KindValidation, "tx_memo_too_long", "memo text must not exceed 28 bytes")
	ErrBaseFee          = sdkerr.New(sdkerr.KindValidation, "tx_base_fee", "base fee is below the network minimum")
	ErrFeeOverflow      = sdkerr.New(sdkerr.KindValidation, "tx_fee_overflow", "transaction fee does not fit in uint32")
	ErrSorobanNotAlone  = sdkerr.New(sdkerr.KindValidation, "tx_soroban_not_alone", "a soroban operation must be the only operation")
	ErrMissingSigner    = sdkerr.New(sdkerr.KindValidation, "tx_missing_signer", "required signer has not signed")
	ErrMissingSource    = sdkerr.New(sdkerr.KindValidation, "tx_missing_source", "transaction source account is required")
	ErrInvalidAmount    = sdkerr.New(sdkerr.KindValidation, "tx_invalid_amount", "invalid amount")
	ErrInvalidAddress   = sdkerr.New(sdkerr.KindValidation, "tx_invalid_address", "invalid address")
	ErrInvalidAsset     = sdkerr.New(sdkerr.KindValidation, "tx_invalid_asset", "invalid asset")
	ErrInvalidPrice     = sdkerr.New(sdkerr.KindValidation, "tx_invalid_price", "invalid price")
	ErrInvalidOperation = sdkerr.New(sdkerr.KindValidation, "tx_invalid_operation", "invalid operation")
	ErrInvalidBounds    = sdkerr.New(sdkerr.KindValidation, "tx_invalid_bounds", "invalid preconditions")
	ErrSequence         = sdkerr.New(sdkerr.KindValidation, "tx_sequence", "sequence number cannot be incremented")
	ErrFeeBump          = sdkerr.New(sdkerr.KindValidation, "tx_fee_bump", "invalid fee bump transaction")
	ErrEnvelopeType     = sdkerr.New(sdkerr.KindDecode, "tx_envelope_type", "unexpected envelope type")
	ErrSignature        = sdkerr.New(sdkerr.KindCrypto, "tx_signature", "signature does not verify")
	ErrSignatureCount   = sdkerr.New(sdkerr.KindValidation, "tx_signature_count", "an envelope carries at most 20 signatures")
)
