package txnbuild

import (
	"math"

	"github.com/stellar-txkit/internal/xdr"
)

// Account is a transaction source whose sequence number the builder
// advances.
type Account interface {
	GetAccountID() string
	IncrementSequenceNumber() (int64, error)
	GetSequenceNumber() (int64, error)
}

// SimpleAccount is an in-memory Account. Load one from Horizon or build it
// from a known sequence number.
type SimpleAccount struct {
	AccountID string
	Sequence  int64
}

// NewSimpleAccount returns an account at the given sequence number.
func NewSimpleAccount(accountID string, sequence int64) SimpleAccount {
	return SimpleAccount{AccountID: accountID, Sequence: sequence}
}

func (sa *SimpleAccount) GetAccountID() string {
	return sa.AccountID
}

// IncrementSequenceNumber advances the sequence by one and returns the new
// value.
func (sa *SimpleAccount) IncrementSequenceNumber() (int64, error) {
	if sa.Sequence == math.MaxInt64 {
		return 0, ErrSequence.Withf("sequence of %s is at its maximum", sa.AccountID)
	}
	sa.Sequence++
	return sa.Sequence, nil
}

func (sa *SimpleAccount) GetSequenceNumber() (int64, error) {
	return sa.Sequence, nil
}

func parseMuxed(field, address string) (xdr.MuxedAccount, error) {
	m, err := xdr.AddressToMuxedAccount(address)
	if err != nil {
		return xdr.MuxedAccount{}, ErrInvalidAddress.Withf("%s %q", field, address).Wrap(err)
	}
	return m, nil
}

func parseAccountID(field, address string) (xdr.AccountID, error) {
	id, err := xdr.AddressToAccountID(address)
	if err != nil {
		return xdr.AccountID{}, ErrInvalidAddress.Withf("%s %q", field, address).Wrap(err)
	}
	return id, nil
}
