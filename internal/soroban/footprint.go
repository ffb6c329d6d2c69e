package soroban

import (
	"github.com/stellar-txkit/internal/xdr"
)

// Footprint collects the ledger keys a Soroban transaction reads and
// writes. A key is listed once; a key added as read-write is dropped from
// the read-only set.
type Footprint struct {
	readOnly  []xdr.LedgerKey
	readWrite []xdr.LedgerKey
}

func indexOf(keys []xdr.LedgerKey, k xdr.LedgerKey) int {
	for i := range keys {
		if xdr.Equal(keys[i], k) {
			return i
		}
	}
	return -1
}

func (f *Footprint) AddReadOnly(keys ...xdr.LedgerKey) {
	for _, k := range keys {
		if indexOf(f.readOnly, k) < 0 && indexOf(f.readWrite, k) < 0 {
			f.readOnly = append(f.readOnly, k)
		}
	}
}

func (f *Footprint) AddReadWrite(keys ...xdr.LedgerKey) {
	for _, k := range keys {
		if i := indexOf(f.readOnly, k); i >= 0 {
			f.readOnly = append(f.readOnly[:i], f.readOnly[i+1:]...)
		}
		if indexOf(f.readWrite, k) < 0 {
			f.readWrite = append(f.readWrite, k)
		}
	}
}

func (f *Footprint) ToXDR() xdr.LedgerFootprint {
	return xdr.LedgerFootprint{
		ReadOnly:  append([]xdr.LedgerKey{}, f.readOnly...),
		ReadWrite: append([]xdr.LedgerKey{}, f.readWrite...),
	}
}

// Resources are the limits a Soroban transaction declares.
type Resources struct {
	Instructions  uint32
	DiskReadBytes uint32
	WriteBytes    uint32
}

// TransactionData assembles the Soroban extension of a transaction.
func TransactionData(f *Footprint, r Resources, resourceFee int64) xdr.SorobanTransactionData {
	return xdr.SorobanTransactionData{
		Resources: xdr.SorobanResources{
			Footprint:     f.ToXDR(),
			Instructions:  r.Instructions,
			DiskReadBytes: r.DiskReadBytes,
			WriteBytes:    r.WriteBytes,
		},
		ResourceFee: resourceFee,
	}
}

// Ext wraps data as the v1 transaction extension used by the Soroban
// operations in txnbuild.
func Ext(data xdr.SorobanTransactionData) xdr.TransactionExt {
	return xdr.TransactionExt{V: 1, SorobanData: &data}
}
