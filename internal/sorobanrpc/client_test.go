package sorobanrpc

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/soroban"
	"github.com/stellar-txkit/internal/txnbuild"
	"github.com/stellar-txkit/internal/xdr"
)

func localClient(t *testing.T, methods handler.Map) *Client {
	t.Helper()
	loc := server.NewLocal(methods, nil)
	t.Cleanup(func() { loc.Close() })
	c := NewClientWith(loc.Client)
	c.PollInterval = time.Millisecond
	return c
}

func invokeTx(t *testing.T) *txnbuild.Transaction {
	t.Helper()
	contract := xdr.ContractID(sha256.Sum256([]byte("counter"))).String()
	fn, err := soroban.InvokeContract(contract, "increment", soroban.U64(1))
	require.NoError(t, err)
	account := txnbuild.NewSimpleAccount(keypair.MustRandom().Address(), 10)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimebounds(0, 1700000000)},
		Operations:           []txnbuild.Operation{&txnbuild.InvokeHostFunction{HostFunction: fn}},
	})
	require.NoError(t, err)
	return tx
}

func simulation(t *testing.T, tx *txnbuild.Transaction) SimulateTransactionResponse {
	t.Helper()
	contract := xdr.ContractID(sha256.Sum256([]byte("counter"))).String()
	key, err := soroban.ContractInstanceKey(contract)
	require.NoError(t, err)
	var fp soroban.Footprint
	fp.AddReadWrite(key)
	data, err := xdr.MarshalBase64(soroban.TransactionData(&fp, soroban.Resources{Instructions: 5000, DiskReadBytes: 100, WriteBytes: 50}, 1))
	require.NoError(t, err)

	txEnv, err := tx.ToXDR()
	require.NoError(t, err)
	xop := txEnv.V1.Tx.Operations[0].Body.InvokeHostFunctionOp
	entry := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{Type: xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type:       xdr.SorobanAuthorizedFunctionTypeContractFn,
				ContractFn: xop.HostFunction.InvokeContract,
			},
		},
	}
	auth, err := xdr.MarshalBase64(entry)
	require.NoError(t, err)

	return SimulateTransactionResponse{
		TransactionData: data,
		MinResourceFee:  4321,
		Results:         []SimulateHostFunctionResult{{Auth: []string{auth}, XDR: "AAAAAQ=="}},
		Cost:            SimulateTransactionCost{CPUInstructions: 5000, MemoryBytes: 900},
		LatestLedger:    99,
	}
}

func TestClientCalls(t *testing.T) {
	tx := invokeTx(t)
	b64, err := tx.Base64()
	require.NoError(t, err)
	sim := simulation(t, tx)

	c := localClient(t, handler.Map{
		"getLatestLedger": handler.New(func(ctx context.Context) (GetLatestLedgerResponse, error) {
			return GetLatestLedgerResponse{Hash: "abcd", ProtocolVersion: 22, Sequence: 1234}, nil
		}),
		"getNetwork": handler.New(func(ctx context.Context) (GetNetworkResponse, error) {
			return GetNetworkResponse{Passphrase: network.TestNetworkPassphrase, ProtocolVersion: 22}, nil
		}),
		"simulateTransaction": handler.New(func(ctx context.Context, req SimulateTransactionRequest) (SimulateTransactionResponse, error) {
			assert.Equal(t, b64, req.Transaction)
			return sim, nil
		}),
		"sendTransaction": handler.New(func(ctx context.Context, req SendTransactionRequest) (SendTransactionResponse, error) {
			return SendTransactionResponse{Status: SendStatusPending, Hash: "ff", LatestLedger: 100, LatestLedgerCloseTime: 1700000000}, nil
		}),
	})
	ctx := context.Background()

	ledger, err := c.GetLatestLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, GetLatestLedgerResponse{Hash: "abcd", ProtocolVersion: 22, Sequence: 1234}, ledger)

	nw, err := c.GetNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, network.TestNetworkPassphrase, nw.Passphrase)

	got, err := c.SimulateTransaction(ctx, b64)
	require.NoError(t, err)
	assert.Equal(t, sim, got)

	sent, err := c.SendTransaction(ctx, b64)
	require.NoError(t, err)
	assert.Equal(t, SendStatusPending, sent.Status)
	assert.Equal(t, int64(1700000000), sent.LatestLedgerCloseTime)
}

func TestClientReportsRPCErrors(t *testing.T) {
	c := localClient(t, handler.Map{
		"sendTransaction": handler.New(func(ctx context.Context, req SendTransactionRequest) (SendTransactionResponse, error) {
			return SendTransactionResponse{}, &jrpc2.Error{Code: jrpc2.InvalidParams, Message: "invalid_xdr"}
		}),
	})
	_, err := c.SendTransaction(context.Background(), "AAAA")
	require.Error(t, err)
	var rpcErr *jrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, jrpc2.InvalidParams, rpcErr.Code)
	assert.ErrorContains(t, err, "sendTransaction")
}

func TestWaitForTransaction(t *testing.T) {
	calls := 0
	c := localClient(t, handler.Map{
		"getTransaction": handler.New(func(ctx context.Context, req GetTransactionRequest) (GetTransactionResponse, error) {
			calls++
			switch {
			case req.Hash == "bad":
				return GetTransactionResponse{Status: TransactionStatusFailed, Ledger: 8}, nil
			case req.Hash == "never":
				return GetTransactionResponse{Status: TransactionStatusNotFound}, nil
			case calls < 3:
				return GetTransactionResponse{Status: TransactionStatusNotFound}, nil
			}
			return GetTransactionResponse{Status: TransactionStatusSuccess, Ledger: 7, ResultXdr: "AAAA"}, nil
		}),
	})
	ctx := context.Background()

	t.Run("success after polling", func(t *testing.T) {
		resp, err := c.WaitForTransaction(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, uint32(7), resp.Ledger)
		assert.Equal(t, 3, calls)
	})

	t.Run("failed", func(t *testing.T) {
		resp, err := c.WaitForTransaction(ctx, "bad")
		require.ErrorIs(t, err, ErrTransactionFailed)
		assert.Equal(t, TransactionStatusFailed, resp.Status)
	})

	t.Run("gives up", func(t *testing.T) {
		c.MaxPolls = 2
		_, err := c.WaitForTransaction(ctx, "never")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAssembleTransaction(t *testing.T) {
	tx := invokeTx(t)
	sim := simulation(t, tx)

	assembled, err := AssembleTransaction(tx, sim)
	require.NoError(t, err)

	assert.Equal(t, tx.SequenceNumber(), assembled.SequenceNumber())
	assert.Equal(t, int64(txnbuild.MinBaseFee+4321), assembled.MaxFee())

	env, err := assembled.ToXDR()
	require.NoError(t, err)
	require.NotNil(t, env.V1.Tx.Ext.SorobanData)
	assert.Equal(t, int64(4321), env.V1.Tx.Ext.SorobanData.ResourceFee)
	assert.Equal(t, uint32(5000), env.V1.Tx.Ext.SorobanData.Resources.Instructions)
	assert.Len(t, env.V1.Tx.Operations[0].Body.InvokeHostFunctionOp.Auth, 1)
	assert.Equal(t, xdr.TimePoint(1700000000), env.V1.Tx.Cond.TimeBounds.MaxTime)

	// the input transaction is left alone
	assert.Equal(t, int64(txnbuild.MinBaseFee), tx.MaxFee())
	env, err = tx.ToXDR()
	require.NoError(t, err)
	assert.Empty(t, env.V1.Tx.Operations[0].Body.InvokeHostFunctionOp.Auth)
}

func TestAssembleTransactionErrors(t *testing.T) {
	tx := invokeTx(t)

	_, err := AssembleTransaction(tx, SimulateTransactionResponse{Error: "host invocation failed"})
	assert.ErrorIs(t, err, ErrSimulation)

	sim := simulation(t, tx)
	sim.RestorePreamble = &RestorePreamble{TransactionData: sim.TransactionData, MinResourceFee: 10}
	_, err = AssembleTransaction(tx, sim)
	assert.ErrorIs(t, err, ErrRestoreRequired)

	account := txnbuild.NewSimpleAccount(keypair.MustRandom().Address(), 1)
	classic, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &account,
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
		Operations:    []txnbuild.Operation{&txnbuild.BumpSequence{BumpTo: 5}},
	})
	require.NoError(t, err)
	_, err = AssembleTransaction(classic, simulation(t, tx))
	assert.ErrorIs(t, err, ErrNotSoroban)
}
