package txnbuild

import (
	"time"

	"github.com/stellar-txkit/internal/xdr"
)

// TimeoutInfinite disables the upper time bound.
const TimeoutInfinite = int64(0)

// TimeBounds limits when a transaction is valid, in unix seconds. A zero
// MaxTime means no upper bound.
type TimeBounds struct {
	MinTime int64
	MaxTime int64
	set     bool
}

// NewTimebounds returns explicit bounds.
func NewTimebounds(minTime, maxTime int64) TimeBounds {
	return TimeBounds{MinTime: minTime, MaxTime: maxTime, set: true}
}

// NewTimeout returns bounds expiring timeout seconds from now.
func NewTimeout(timeout int64) TimeBounds {
	return TimeBounds{MaxTime: time.Now().UTC().Unix() + timeout, set: true}
}

// NewInfiniteTimeout returns bounds with no expiry.
func NewInfiniteTimeout() TimeBounds {
	return TimeBounds{MaxTime: TimeoutInfinite, set: true}
}

// IsSet reports whether the bounds were constructed rather than left zero.
func (tb TimeBounds) IsSet() bool { return tb.set }

func (tb TimeBounds) validate() error {
	if tb.MinTime < 0 || tb.MaxTime < 0 {
		return ErrInvalidBounds.Withf("time bounds cannot be negative")
	}
	if tb.MaxTime != TimeoutInfinite && tb.MaxTime < tb.MinTime {
		return ErrInvalidBounds.Withf("max time %d is before min time %d", tb.MaxTime, tb.MinTime)
	}
	return nil
}

func (tb TimeBounds) toXDR() xdr.TimeBounds {
	return xdr.TimeBounds{MinTime: xdr.TimePoint(tb.MinTime), MaxTime: xdr.TimePoint(tb.MaxTime)}
}

// LedgerBounds limits the ledgers a transaction may close in. A zero
// MaxLedger means no upper bound.
type LedgerBounds struct {
	MinLedger uint32
	MaxLedger uint32
}

// Preconditions are the conditions the network checks before applying a
// transaction. Only TimeBounds set produces PRECOND_TIME; any other field
// produces PRECOND_V2.
type Preconditions struct {
	TimeBounds                 TimeBounds
	LedgerBounds               *LedgerBounds
	MinSequenceNumber          *int64
	MinSequenceNumberAge       uint64
	MinSequenceNumberLedgerGap uint32
	ExtraSigners               []string
}

func (p Preconditions) hasV2() bool {
	return p.LedgerBounds != nil || p.MinSequenceNumber != nil ||
		p.MinSequenceNumberAge != 0 || p.MinSequenceNumberLedgerGap != 0 ||
		len(p.ExtraSigners) > 0
}

// Validate checks bounds ordering and extra signer addresses.
func (p Preconditions) Validate() error {
	if err := p.TimeBounds.validate(); err != nil {
		return err
	}
	if lb := p.LedgerBounds; lb != nil && lb.MaxLedger != 0 && lb.MaxLedger < lb.MinLedger {
		return ErrInvalidBounds.Withf("max ledger %d is before min ledger %d", lb.MaxLedger, lb.MinLedger)
	}
	if len(p.ExtraSigners) > 2 {
		return ErrInvalidBounds.Withf("at most 2 extra signers, got %d", len(p.ExtraSigners))
	}
	for _, s := range p.ExtraSigners {
		if _, err := xdr.SignerKeyFromAddress(s); err != nil {
			return ErrInvalidBounds.Withf("extra signer %q", s).Wrap(err)
		}
	}
	return nil
}

func (p Preconditions) toXDR() (xdr.Preconditions, error) {
	if err := p.Validate(); err != nil {
		return xdr.Preconditions{}, err
	}
	if !p.hasV2() {
		if !p.TimeBounds.IsSet() {
			return xdr.Preconditions{Type: xdr.PreconditionTypePrecondNone}, nil
		}
		tb := p.TimeBounds.toXDR()
		return xdr.Preconditions{Type: xdr.PreconditionTypePrecondTime, TimeBounds: &tb}, nil
	}
	v2 := xdr.PreconditionsV2{
		MinSeqAge:       xdr.Duration(p.MinSequenceNumberAge),
		MinSeqLedgerGap: p.MinSequenceNumberLedgerGap,
	}
	if p.TimeBounds.IsSet() {
		tb := p.TimeBounds.toXDR()
		v2.TimeBounds = &tb
	}
	if p.LedgerBounds != nil {
		v2.LedgerBounds = &xdr.LedgerBounds{MinLedger: p.LedgerBounds.MinLedger, MaxLedger: p.LedgerBounds.MaxLedger}
	}
	if p.MinSequenceNumber != nil {
		seq := xdr.SequenceNumber(*p.MinSequenceNumber)
		v2.MinSeqNum = &seq
	}
	for _, s := range p.ExtraSigners {
		key, _ := xdr.SignerKeyFromAddress(s)
		v2.ExtraSigners = append(v2.ExtraSigners, key)
	}
	return xdr.Preconditions{Type: xdr.PreconditionTypePrecondV2, V2: &v2}, nil
}

func preconditionsFromXDR(x xdr.Preconditions) Preconditions {
	var p Preconditions
	switch x.Type {
	case xdr.PreconditionTypePrecondTime:
		p.TimeBounds = NewTimebounds(int64(x.TimeBounds.MinTime), int64(x.TimeBounds.MaxTime))
	case xdr.PreconditionTypePrecondV2:
		v2 := x.V2
		if v2.TimeBounds != nil {
			p.TimeBounds = NewTimebounds(int64(v2.TimeBounds.MinTime), int64(v2.TimeBounds.MaxTime))
		}
		if v2.LedgerBounds != nil {
			p.LedgerBounds = &LedgerBounds{MinLedger: v2.LedgerBounds.MinLedger, MaxLedger: v2.LedgerBounds.MaxLedger}
		}
		if v2.MinSeqNum != nil {
			seq := int64(*v2.MinSeqNum)
			p.MinSequenceNumber = &seq
		}
		p.MinSequenceNumberAge = uint64(v2.MinSeqAge)
		p.MinSequenceNumberLedgerGap = v2.MinSeqLedgerGap
		for _, k := range v2.ExtraSigners {
			p.ExtraSigners = append(p.ExtraSigners, k.Address())
		}
	}
	return p
}
