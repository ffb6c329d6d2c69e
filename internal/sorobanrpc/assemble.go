package sorobanrpc

import (
	"errors"
	"fmt"

	"github.com/stellar-txkit/internal/txnbuild"
	"github.com/stellar-txkit/internal/xdr"
)

var (
	ErrSimulation      = errors.New("simulation failed")
	ErrRestoreRequired = errors.New("ledger entries must be restored before invocation")
	ErrNotSoroban      = errors.New("transaction does not hold a single Soroban operation")
)

// AssembleTransaction applies a simulation to tx: the simulated Soroban
// data is attached with its resource fee set to the minimum resource fee,
// and an InvokeHostFunction without authorization entries receives the
// simulated ones. The returned transaction is unsigned and keeps tx's
// sequence number.
func AssembleTransaction(tx *txnbuild.Transaction, sim SimulateTransactionResponse) (*txnbuild.Transaction, error) {
	if sim.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSimulation, sim.Error)
	}
	if sim.RestorePreamble != nil {
		return nil, ErrRestoreRequired
	}
	ops := tx.Operations()
	if len(ops) != 1 {
		return nil, ErrNotSoroban
	}

	var data xdr.SorobanTransactionData
	if err := xdr.UnmarshalBase64(sim.TransactionData, &data); err != nil {
		return nil, fmt.Errorf("decode simulated transaction data: %w", err)
	}
	data.ResourceFee = sim.MinResourceFee
	ext := xdr.TransactionExt{V: 1, SorobanData: &data}

	var op txnbuild.Operation
	switch v := ops[0].(type) {
	case *txnbuild.InvokeHostFunction:
		assembled := *v
		assembled.Ext = ext
		if len(assembled.Auth) == 0 && len(sim.Results) > 0 {
			auth, err := decodeAuth(sim.Results[0].Auth)
			if err != nil {
				return nil, err
			}
			assembled.Auth = auth
		}
		op = &assembled
	case *txnbuild.ExtendFootprintTtl:
		assembled := *v
		assembled.Ext = ext
		op = &assembled
	case *txnbuild.RestoreFootprint:
		assembled := *v
		assembled.Ext = ext
		op = &assembled
	default:
		return nil, ErrNotSoroban
	}

	source := tx.SourceAccount()
	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &source,
		Operations:    []txnbuild.Operation{op},
		BaseFee:       tx.BaseFee(),
		Memo:          tx.Memo(),
		Preconditions: tx.Preconditions(),
	})
}

func decodeAuth(entries []string) ([]xdr.SorobanAuthorizationEntry, error) {
	auth := make([]xdr.SorobanAuthorizationEntry, len(entries))
	for i, b64 := range entries {
		if err := xdr.UnmarshalBase64(b64, &auth[i]); err != nil {
			return nil, fmt.Errorf("decode simulated auth entry %d: %w", i, err)
		}
	}
	return auth, nil
}
