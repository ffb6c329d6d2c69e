package txnbuild

import (
	"encoding/hex"
	"strings"

	"github.com/stellar-txkit/internal/strkey"
	"github.com/stellar-txkit/internal/xdr"
)

// BeginSponsoringFutureReserves makes the source pay the reserves of
// entries SponsoredID creates until the matching End operation.
type BeginSponsoringFutureReserves struct {
	SponsoredID   string
	SourceAccount string
}

func (o *BeginSponsoringFutureReserves) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeBeginSponsoringFutureReserves, o.SourceAccount, func() (xdr.OperationBody, error) {
		id, err := parseAccountID("sponsored id", o.SponsoredID)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{BeginSponsoringFutureReservesOp: &xdr.BeginSponsoringFutureReservesOp{SponsoredID: id}}, nil
	})
}

func (o *BeginSponsoringFutureReserves) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeBeginSponsoringFutureReserves); err != nil {
		return err
	}
	*o = BeginSponsoringFutureReserves{
		SponsoredID:   x.Body.BeginSponsoringFutureReservesOp.SponsoredID.Address(),
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	return nil
}

func (o *BeginSponsoringFutureReserves) Validate() error          { return validate(o) }
func (o *BeginSponsoringFutureReserves) GetSourceAccount() string { return o.SourceAccount }

// EndSponsoringFutureReserves closes a sponsorship block. Its source is the
// sponsored account.
type EndSponsoringFutureReserves struct {
	SourceAccount string
}

func (o *EndSponsoringFutureReserves) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeEndSponsoringFutureReserves, o.SourceAccount, func() (xdr.OperationBody, error) {
		return xdr.OperationBody{}, nil
	})
}

func (o *EndSponsoringFutureReserves) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeEndSponsoringFutureReserves); err != nil {
		return err
	}
	o.SourceAccount = sourceFromXDR(x.SourceAccount)
	return nil
}

func (o *EndSponsoringFutureReserves) Validate() error          { return validate(o) }
func (o *EndSponsoringFutureReserves) GetSourceAccount() string { return o.SourceAccount }

// SignerID names a signer on an account.
type SignerID struct {
	AccountID     string
	SignerAddress string
}

// RevokeSponsorship removes or transfers the sponsorship of a ledger entry
// or a signer. Exactly one of LedgerKey and Signer is set.
type RevokeSponsorship struct {
	LedgerKey     *xdr.LedgerKey
	Signer        *SignerID
	SourceAccount string
}

func (o *RevokeSponsorship) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeRevokeSponsorship, o.SourceAccount, func() (xdr.OperationBody, error) {
		switch {
		case o.LedgerKey != nil && o.Signer == nil:
			key := *o.LedgerKey
			return xdr.OperationBody{RevokeSponsorshipOp: &xdr.RevokeSponsorshipOp{
				Type:      xdr.RevokeSponsorshipTypeRevokeSponsorshipLedgerEntry,
				LedgerKey: &key,
			}}, nil
		case o.Signer != nil && o.LedgerKey == nil:
			account, err := parseAccountID("signer account", o.Signer.AccountID)
			if err != nil {
				return xdr.OperationBody{}, err
			}
			key, err := xdr.SignerKeyFromAddress(o.Signer.SignerAddress)
			if err != nil {
				return xdr.OperationBody{}, ErrInvalidAddress.Withf("signer %q", o.Signer.SignerAddress).Wrap(err)
			}
			return xdr.OperationBody{RevokeSponsorshipOp: &xdr.RevokeSponsorshipOp{
				Type:   xdr.RevokeSponsorshipTypeRevokeSponsorshipSigner,
				Signer: &xdr.RevokeSponsorshipOpSigner{AccountID: account, SignerKey: key},
			}}, nil
		}
		return xdr.OperationBody{}, ErrInvalidOperation.Withf("exactly one of ledger key and signer must be set")
	})
}

func (o *RevokeSponsorship) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeRevokeSponsorship); err != nil {
		return err
	}
	body := x.Body.RevokeSponsorshipOp
	*o = RevokeSponsorship{SourceAccount: sourceFromXDR(x.SourceAccount)}
	switch body.Type {
	case xdr.RevokeSponsorshipTypeRevokeSponsorshipLedgerEntry:
		key := *body.LedgerKey
		o.LedgerKey = &key
	case xdr.RevokeSponsorshipTypeRevokeSponsorshipSigner:
		o.Signer = &SignerID{AccountID: body.Signer.AccountID.Address(), SignerAddress: body.Signer.SignerKey.Address()}
	}
	return nil
}

func (o *RevokeSponsorship) Validate() error          { return validate(o) }
func (o *RevokeSponsorship) GetSourceAccount() string { return o.SourceAccount }

// MaxClaimants is the most claimants one claimable balance may have.
const MaxClaimants = 10

// Claimant is a destination that may claim a balance when Predicate holds.
type Claimant struct {
	Destination string
	Predicate   xdr.ClaimPredicate
}

// UnconditionalPredicate always holds.
var UnconditionalPredicate = xdr.ClaimPredicate{Type: xdr.ClaimPredicateTypeClaimPredicateUnconditional}

// AndPredicate holds when both predicates hold.
func AndPredicate(left, right xdr.ClaimPredicate) xdr.ClaimPredicate {
	preds := []xdr.ClaimPredicate{left, right}
	return xdr.ClaimPredicate{Type: xdr.ClaimPredicateTypeClaimPredicateAnd, AndPredicates: &preds}
}

// OrPredicate holds when either predicate holds.
func OrPredicate(left, right xdr.ClaimPredicate) xdr.ClaimPredicate {
	preds := []xdr.ClaimPredicate{left, right}
	return xdr.ClaimPredicate{Type: xdr.ClaimPredicateTypeClaimPredicateOr, OrPredicates: &preds}
}

// NotPredicate negates pred.
func NotPredicate(pred xdr.ClaimPredicate) xdr.ClaimPredicate {
	p := &pred
	return xdr.ClaimPredicate{Type: xdr.ClaimPredicateTypeClaimPredicateNot, NotPredicate: &p}
}

// BeforeAbsoluteTimePredicate holds before the unix time epochSeconds.
func BeforeAbsoluteTimePredicate(epochSeconds int64) xdr.ClaimPredicate {
	return xdr.ClaimPredicate{Type: xdr.ClaimPredicateTypeClaimPredicateBeforeAbsoluteTime, AbsBefore: &epochSeconds}
}

// BeforeRelativeTimePredicate holds for seconds after the balance is created.
func BeforeRelativeTimePredicate(seconds int64) xdr.ClaimPredicate {
	return xdr.ClaimPredicate{Type: xdr.ClaimPredicateTypeClaimPredicateBeforeRelativeTime, RelBefore: &seconds}
}

// CreateClaimableBalance moves Amount of Asset into a balance the
// Destinations can claim.
type CreateClaimableBalance struct {
	Amount        string
	Asset         Asset
	Destinations  []Claimant
	SourceAccount string
}

func (o *CreateClaimableBalance) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeCreateClaimableBalance, o.SourceAccount, func() (xdr.OperationBody, error) {
		asset, err := requireAsset("asset", o.Asset)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		amt, err := positiveAmount("amount", o.Amount)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		if len(o.Destinations) == 0 || len(o.Destinations) > MaxClaimants {
			return xdr.OperationBody{}, ErrInvalidOperation.Withf("need 1-%d claimants, got %d", MaxClaimants, len(o.Destinations))
		}
		claimants := make([]xdr.Claimant, len(o.Destinations))
		for i, c := range o.Destinations {
			dest, err := parseAccountID("claimant", c.Destination)
			if err != nil {
				return xdr.OperationBody{}, err
			}
			claimants[i] = xdr.Claimant{
				Type: xdr.ClaimantTypeClaimantTypeV0,
				V0:   &xdr.ClaimantV0{Destination: dest, Predicate: c.Predicate},
			}
		}
		return xdr.OperationBody{CreateClaimableBalanceOp: &xdr.CreateClaimableBalanceOp{
			Asset:     asset,
			Amount:    amt,
			Claimants: claimants,
		}}, nil
	})
}

func (o *CreateClaimableBalance) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeCreateClaimableBalance); err != nil {
		return err
	}
	body := x.Body.CreateClaimableBalanceOp
	asset, err := AssetFromXDR(body.Asset)
	if err != nil {
		return err
	}
	*o = CreateClaimableBalance{
		Amount:        formatAmount(body.Amount),
		Asset:         asset,
		SourceAccount: sourceFromXDR(x.SourceAccount),
	}
	for _, c := range body.Claimants {
		o.Destinations = append(o.Destinations, Claimant{Destination: c.V0.Destination.Address(), Predicate: c.V0.Predicate})
	}
	return nil
}

func (o *CreateClaimableBalance) Validate() error          { return validate(o) }
func (o *CreateClaimableBalance) GetSourceAccount() string { return o.SourceAccount }

// ParseBalanceID reads a claimable balance id as the hex of its XDR
// encoding, as Horizon prints it, or as a B strkey.
func ParseBalanceID(s string) (xdr.ClaimableBalanceID, error) {
	var id xdr.ClaimableBalanceID
	if strings.HasPrefix(s, "B") {
		raw, err := strkey.Decode(strkey.VersionByteClaimableBalance, s)
		if err != nil {
			return id, ErrInvalidOperation.Withf("balance id %q", s).Wrap(err)
		}
		var h xdr.Hash
		copy(h[:], raw[1:])
		return xdr.ClaimableBalanceID{Type: xdr.ClaimableBalanceIDType(raw[0]), V0: &h}, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, ErrInvalidOperation.Withf("balance id %q is not hex", s)
	}
	if err := xdr.Unmarshal(raw, &id); err != nil {
		return id, ErrInvalidOperation.Withf("balance id %q", s).Wrap(err)
	}
	return id, nil
}

// BalanceIDString formats id the way Horizon does.
func BalanceIDString(id xdr.ClaimableBalanceID) (string, error) {
	raw, err := xdr.Marshal(id)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// ClaimClaimableBalance claims a balance for the source account.
type ClaimClaimableBalance struct {
	BalanceID     string
	SourceAccount string
}

func (o *ClaimClaimableBalance) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeClaimClaimableBalance, o.SourceAccount, func() (xdr.OperationBody, error) {
		id, err := ParseBalanceID(o.BalanceID)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{ClaimClaimableBalanceOp: &xdr.ClaimClaimableBalanceOp{BalanceID: id}}, nil
	})
}

func (o *ClaimClaimableBalance) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeClaimClaimableBalance); err != nil {
		return err
	}
	id, err := BalanceIDString(x.Body.ClaimClaimableBalanceOp.BalanceID)
	if err != nil {
		return err
	}
	*o = ClaimClaimableBalance{BalanceID: id, SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *ClaimClaimableBalance) Validate() error          { return validate(o) }
func (o *ClaimClaimableBalance) GetSourceAccount() string { return o.SourceAccount }

// ClawbackClaimableBalance burns an unclaimed balance of a clawback-enabled
// asset.
type ClawbackClaimableBalance struct {
	BalanceID     string
	SourceAccount string
}

func (o *ClawbackClaimableBalance) BuildXDR() (xdr.Operation, error) {
	return buildOp(xdr.OperationTypeClawbackClaimableBalance, o.SourceAccount, func() (xdr.OperationBody, error) {
		id, err := ParseBalanceID(o.BalanceID)
		if err != nil {
			return xdr.OperationBody{}, err
		}
		return xdr.OperationBody{ClawbackClaimableBalanceOp: &xdr.ClawbackClaimableBalanceOp{BalanceID: id}}, nil
	})
}

func (o *ClawbackClaimableBalance) FromXDR(x xdr.Operation) error {
	if err := expectType(x, xdr.OperationTypeClawbackClaimableBalance); err != nil {
		return err
	}
	id, err := BalanceIDString(x.Body.ClawbackClaimableBalanceOp.BalanceID)
	if err != nil {
		return err
	}
	*o = ClawbackClaimableBalance{BalanceID: id, SourceAccount: sourceFromXDR(x.SourceAccount)}
	return nil
}

func (o *ClawbackClaimableBalance) Validate() error          { return validate(o) }
func (o *ClawbackClaimableBalance) GetSourceAccount() string { return o.SourceAccount }
