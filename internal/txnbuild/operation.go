package txnbuild

import (
	"fmt"

	"github.com/stellar/go-stellar-sdk/amount"

	"github.com/stellar-txkit/internal/xdr"
)

// Operation is one of the operation types in this package. The set is
// closed; code switching over it should return an error in its default
// case.
type Operation interface {
	BuildXDR() (xdr.Operation, error)
	FromXDR(xdr.Operation) error
	Validate() error
	GetSourceAccount() string
	isOperation()
}

func (*CreateAccount) isOperation()                 {}
func (*Payment) isOperation()                       {}
func (*PathPaymentStrictReceive) isOperation()      {}
func (*PathPaymentStrictSend) isOperation()         {}
func (*ManageSellOffer) isOperation()               {}
func (*ManageBuyOffer) isOperation()                {}
func (*CreatePassiveSellOffer) isOperation()        {}
func (*SetOptions) isOperation()                    {}
func (*ChangeTrust) isOperation()                   {}
func (*AllowTrust) isOperation()                    {}
func (*AccountMerge) isOperation()                  {}
func (*Inflation) isOperation()                     {}
func (*ManageData) isOperation()                    {}
func (*BumpSequence) isOperation()                  {}
func (*CreateClaimableBalance) isOperation()        {}
func (*ClaimClaimableBalance) isOperation()         {}
func (*BeginSponsoringFutureReserves) isOperation() {}
func (*EndSponsoringFutureReserves) isOperation()   {}
func (*RevokeSponsorship) isOperation()             {}
func (*Clawback) isOperation()                      {}
func (*ClawbackClaimableBalance) isOperation()      {}
func (*SetTrustLineFlags) isOperation()             {}
func (*LiquidityPoolDeposit) isOperation()          {}
func (*LiquidityPoolWithdraw) isOperation()         {}
func (*InvokeHostFunction) isOperation()            {}
func (*ExtendFootprintTtl) isOperation()            {}
func (*RestoreFootprint) isOperation()              {}

// SorobanOperation is implemented by the operations that run on the smart
// contract host. Such an operation must be alone in its transaction.
type SorobanOperation interface {
	Operation
	sorobanData() *xdr.SorobanTransactionData
}

func (o *InvokeHostFunction) sorobanData() *xdr.SorobanTransactionData { return o.Ext.SorobanData }
func (o *ExtendFootprintTtl) sorobanData() *xdr.SorobanTransactionData { return o.Ext.SorobanData }
func (o *RestoreFootprint) sorobanData() *xdr.SorobanTransactionData   { return o.Ext.SorobanData }

// OperationFromXDR converts a network operation into its builder type.
func OperationFromXDR(x xdr.Operation) (Operation, error) {
	var op Operation
	switch x.Body.Type {
	case xdr.OperationTypeCreateAccount:
		op = &CreateAccount{}
	case xdr.OperationTypePayment:
		op = &Payment{}
	case xdr.OperationTypePathPaymentStrictReceive:
		op = &PathPaymentStrictReceive{}
	case xdr.OperationTypeManageSellOffer:
		op = &ManageSellOffer{}
	case xdr.OperationTypeCreatePassiveSellOffer:
		op = &CreatePassiveSellOffer{}
	case xdr.OperationTypeSetOptions:
		op = &SetOptions{}
	case xdr.OperationTypeChangeTrust:
		op = &ChangeTrust{}
	case xdr.OperationTypeAllowTrust:
		op = &AllowTrust{}
	case xdr.OperationTypeAccountMerge:
		op = &AccountMerge{}
	case xdr.OperationTypeInflation:
		op = &Inflation{}
	case xdr.OperationTypeManageData:
		op = &ManageData{}
	case xdr.OperationTypeBumpSequence:
		op = &BumpSequence{}
	case xdr.OperationTypeManageBuyOffer:
		op = &ManageBuyOffer{}
	case xdr.OperationTypePathPaymentStrictSend:
		op = &PathPaymentStrictSend{}
	case xdr.OperationTypeCreateClaimableBalance:
		op = &CreateClaimableBalance{}
	case xdr.OperationTypeClaimClaimableBalance:
		op = &ClaimClaimableBalance{}
	case xdr.OperationTypeBeginSponsoringFutureReserves:
		op = &BeginSponsoringFutureReserves{}
	case xdr.OperationTypeEndSponsoringFutureReserves:
		op = &EndSponsoringFutureReserves{}
	case xdr.OperationTypeRevokeSponsorship:
		op = &RevokeSponsorship{}
	case xdr.OperationTypeClawback:
		op = &Clawback{}
	case xdr.OperationTypeClawbackClaimableBalance:
		op = &ClawbackClaimableBalance{}
	case xdr.OperationTypeSetTrustLineFlags:
		op = &SetTrustLineFlags{}
	case xdr.OperationTypeLiquidityPoolDeposit:
		op = &LiquidityPoolDeposit{}
	case xdr.OperationTypeLiquidityPoolWithdraw:
		op = &LiquidityPoolWithdraw{}
	case xdr.OperationTypeInvokeHostFunction:
		op = &InvokeHostFunction{}
	case xdr.OperationTypeExtendFootprintTtl:
		op = &ExtendFootprintTtl{}
	case xdr.OperationTypeRestoreFootprint:
		op = &RestoreFootprint{}
	default:
		return nil, ErrInvalidOperation.Withf("unknown operation type %d", x.Body.Type)
	}
	if err := op.FromXDR(x); err != nil {
		return nil, err
	}
	return op, nil
}

// OperationName returns the snake_case name of an operation type.
func OperationName(t xdr.OperationType) string {
	if name, ok := operationNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

var operationNames = map[xdr.OperationType]string{
	xdr.OperationTypeCreateAccount:                 "create_account",
	xdr.OperationTypePayment:                       "payment",
	xdr.OperationTypePathPaymentStrictReceive:      "path_payment_strict_receive",
	xdr.OperationTypeManageSellOffer:               "manage_sell_offer",
	xdr.OperationTypeCreatePassiveSellOffer:        "create_passive_sell_offer",
	xdr.OperationTypeSetOptions:                    "set_options",
	xdr.OperationTypeChangeTrust:                   "change_trust",
	xdr.OperationTypeAllowTrust:                    "allow_trust",
	xdr.OperationTypeAccountMerge:                  "account_merge",
	xdr.OperationTypeInflation:                     "inflation",
	xdr.OperationTypeManageData:                    "manage_data",
	xdr.OperationTypeBumpSequence:                  "bump_sequence",
	xdr.OperationTypeManageBuyOffer:                "manage_buy_offer",
	xdr.OperationTypePathPaymentStrictSend:         "path_payment_strict_send",
	xdr.OperationTypeCreateClaimableBalance:        "create_claimable_balance",
	xdr.OperationTypeClaimClaimableBalance:         "claim_claimable_balance",
	xdr.OperationTypeBeginSponsoringFutureReserves: "begin_sponsoring_future_reserves",
	xdr.OperationTypeEndSponsoringFutureReserves:   "end_sponsoring_future_reserves",
	xdr.OperationTypeRevokeSponsorship:             "revoke_sponsorship",
	xdr.OperationTypeClawback:                      "clawback",
	xdr.OperationTypeClawbackClaimableBalance:      "clawback_claimable_balance",
	xdr.OperationTypeSetTrustLineFlags:             "set_trust_line_flags",
	xdr.OperationTypeLiquidityPoolDeposit:          "liquidity_pool_deposit",
	xdr.OperationTypeLiquidityPoolWithdraw:         "liquidity_pool_withdraw",
	xdr.OperationTypeInvokeHostFunction:            "invoke_host_function",
	xdr.OperationTypeExtendFootprintTtl:            "extend_footprint_ttl",
	xdr.OperationTypeRestoreFootprint:              "restore_footprint",
}

func invalid(name string, err error) error {
	return fmt.Errorf("validation failed for %s operation: %w", name, err)
}

func sourceToXDR(address string) (*xdr.MuxedAccount, error) {
	if address == "" {
		return nil, nil
	}
	m, err := parseMuxed("source account", address)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func sourceFromXDR(m *xdr.MuxedAccount) string {
	if m == nil {
		return ""
	}
	return m.Address()
}

// buildOp assembles the body and the optional source account, prefixing
// any failure with the operation name.
func buildOp(t xdr.OperationType, source string, body func() (xdr.OperationBody, error)) (xdr.Operation, error) {
	b, err := body()
	if err != nil {
		return xdr.Operation{}, invalid(OperationName(t), err)
	}
	b.Type = t
	src, err := sourceToXDR(source)
	if err != nil {
		return xdr.Operation{}, invalid(OperationName(t), err)
	}
	return xdr.Operation{SourceAccount: src, Body: b}, nil
}

func validate(op Operation) error {
	_, err := op.BuildXDR()
	return err
}

func expectType(x xdr.Operation, t xdr.OperationType) error {
	if x.Body.Type != t {
		return ErrInvalidOperation.Withf("expected %s, got %s", t, x.Body.Type)
	}
	return nil
}

// parseAmount reads a decimal amount with up to seven fractional digits.
func parseAmount(field, s string) (int64, error) {
	v, err := amount.ParseInt64(s)
	if err != nil {
		return 0, ErrInvalidAmount.Withf("%s %q", field, s).Wrap(err)
	}
	return v, nil
}

func positiveAmount(field, s string) (int64, error) {
	v, err := parseAmount(field, s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, ErrInvalidAmount.Withf("%s must be positive, got %s", field, s)
	}
	return v, nil
}

func nonNegativeAmount(field, s string) (int64, error) {
	v, err := parseAmount(field, s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, ErrInvalidAmount.Withf("%s must not be negative, got %s", field, s)
	}
	return v, nil
}

func formatAmount(v int64) string {
	return amount.StringFromInt64(v)
}
