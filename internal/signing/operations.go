package signing

import (
	"sort"

	"github.com/stellar-txkit/internal/txnbuild"
	"github.com/stellar-txkit/internal/xdr"
)

// OperationNames returns every operation type name in wire order.
func OperationNames() []string {
	names := xdr.OperationType(0).EnumNames()
	types := make([]int32, 0, len(names))
	for t := range names {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	out := make([]string, len(types))
	for i, t := range types {
		out[i] = names[t]
	}
	return out
}

// movesNative reports whether an operation can transfer native XLM.
func movesNative(op txnbuild.Operation) bool {
	switch o := op.(type) {
	case *txnbuild.CreateAccount:
		return true
	case *txnbuild.Payment:
		return o.Asset.IsNative()
	case *txnbuild.PathPaymentStrictSend:
		return o.SendAsset.IsNative() || o.DestAsset.IsNative()
	case *txnbuild.PathPaymentStrictReceive:
		return o.SendAsset.IsNative() || o.DestAsset.IsNative()
	case *txnbuild.AccountMerge:
		return true
	case *txnbuild.Inflation:
		return true
	case *txnbuild.Clawback:
		return o.Asset.IsNative()
	default:
		return false
	}
}

// reservesForOperation returns how many base reserves an operation locks
// in the account that pays for the entries it creates. Returns 0 for
// operations that don't create new ledger entries (e.g. updates or
// deletions).
func reservesForOperation(op txnbuild.Operation) int {
	switch o := op.(type) {
	case *txnbuild.CreateAccount:
		// New account requires 2 base reserves
		return 2
	case *txnbuild.ChangeTrust:
		// Removing a trustline (limit "0") frees its reserve
		if o.Limit == "0" {
			return 0
		}
		if _, ok := o.Line.(txnbuild.LiquidityPoolShareAsset); ok {
			return 2
		}
		return 1
	case *txnbuild.ManageSellOffer:
		// New offer (OfferID 0) locks 1 reserve; update/delete does not
		if o.OfferID == 0 {
			return 1
		}
		return 0
	case *txnbuild.ManageBuyOffer:
		if o.OfferID == 0 {
			return 1
		}
		return 0
	case *txnbuild.CreatePassiveSellOffer:
		return 1
	case *txnbuild.SetOptions:
		if o.Signer != nil && o.Signer.Weight > 0 {
			return 1
		}
		return 0
	case *txnbuild.ManageData:
		// nil value deletes the entry
		if o.Value != nil {
			return 1
		}
		return 0
	case *txnbuild.CreateClaimableBalance:
		return len(o.Destinations)
	default:
		return 0
	}
}

func isSoroban(op txnbuild.Operation) bool {
	switch op.(type) {
	case *txnbuild.InvokeHostFunction, *txnbuild.ExtendFootprintTtl, *txnbuild.RestoreFootprint:
		return true
	}
	return false
}

// getOperationSource returns the operation's explicit source account,
// or falls back to the transaction source if none is set.
func getOperationSource(op txnbuild.Operation, txSource string) string {
	if src := op.GetSourceAccount(); src != "" {
		return src
	}
	return txSource
}
