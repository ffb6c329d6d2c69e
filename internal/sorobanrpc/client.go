// Package sorobanrpc is a JSON-RPC client for Soroban RPC servers.
package sorobanrpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/rs/zerolog/log"
)

var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrNotFound          = errors.New("transaction not found")
)

// Client calls Soroban RPC methods. It is safe for concurrent use.
type Client struct {
	mu   sync.Mutex
	url  string
	opts *jrpc2.ClientOptions
	cli  *jrpc2.Client

	// PollInterval is the initial delay between getTransaction polls in
	// WaitForTransaction.
	PollInterval time.Duration
	// MaxPolls bounds the number of getTransaction retries.
	MaxPolls uint64
}

// NewClient dials url over HTTP.
func NewClient(url string, opts *jrpc2.ClientOptions) *Client {
	c := &Client{url: url, opts: opts, PollInterval: time.Second, MaxPolls: 30}
	c.refreshClient()
	return c
}

// NewClientWith wraps an already connected jrpc2 client.
func NewClientWith(cli *jrpc2.Client) *Client {
	return &Client{cli: cli, PollInterval: time.Second, MaxPolls: 30}
}

func (c *Client) refreshClient() {
	if c.cli != nil {
		c.cli.Close()
	}
	ch := jhttp.NewChannel(c.url, nil)
	c.cli = jrpc2.NewClient(ch, c.opts)
}

func (c *Client) callResult(ctx context.Context, method string, params, result any) error {
	c.mu.Lock()
	cli := c.cli
	c.mu.Unlock()

	err := cli.CallResult(ctx, method, params, result)
	if err != nil {
		var rpcErr *jrpc2.Error
		// A transport failure can leave an HTTP channel unusable.
		if c.url != "" && !errors.As(err, &rpcErr) {
			c.mu.Lock()
			if c.cli == cli {
				c.refreshClient()
			}
			c.mu.Unlock()
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cli.Close()
}

func (c *Client) GetLatestLedger(ctx context.Context) (GetLatestLedgerResponse, error) {
	var resp GetLatestLedgerResponse
	err := c.callResult(ctx, "getLatestLedger", nil, &resp)
	return resp, err
}

func (c *Client) GetNetwork(ctx context.Context) (GetNetworkResponse, error) {
	var resp GetNetworkResponse
	err := c.callResult(ctx, "getNetwork", nil, &resp)
	return resp, err
}

// SimulateTransaction runs txBase64 in preflight mode. A simulation that
// fails inside the host is not a call error: check resp.Error.
func (c *Client) SimulateTransaction(ctx context.Context, txBase64 string) (SimulateTransactionResponse, error) {
	var resp SimulateTransactionResponse
	err := c.callResult(ctx, "simulateTransaction", SimulateTransactionRequest{Transaction: txBase64}, &resp)
	return resp, err
}

func (c *Client) SendTransaction(ctx context.Context, txBase64 string) (SendTransactionResponse, error) {
	var resp SendTransactionResponse
	err := c.callResult(ctx, "sendTransaction", SendTransactionRequest{Transaction: txBase64}, &resp)
	return resp, err
}

func (c *Client) GetTransaction(ctx context.Context, hash string) (GetTransactionResponse, error) {
	var resp GetTransactionResponse
	err := c.callResult(ctx, "getTransaction", GetTransactionRequest{Hash: hash}, &resp)
	return resp, err
}

// WaitForTransaction polls getTransaction with exponential backoff until the
// transaction leaves the NOT_FOUND state. A FAILED transaction is returned
// together with ErrTransactionFailed.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) (GetTransactionResponse, error) {
	var resp GetTransactionResponse
	op := func() error {
		var err error
		resp, err = c.GetTransaction(ctx, hash)
		if err != nil {
			var rpcErr *jrpc2.Error
			if errors.As(err, &rpcErr) {
				return backoff.Permanent(err)
			}
			return err
		}
		if resp.Status == TransactionStatusNotFound {
			return ErrNotFound
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.PollInterval
	policy.MaxElapsedTime = 0
	notify := func(err error, d time.Duration) {
		log.Debug().Err(err).Str("hash", hash).Dur("retry_in", d).Msg("waiting for transaction")
	}
	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(policy, c.MaxPolls), ctx), notify)
	if err != nil {
		return resp, fmt.Errorf("wait for transaction %s: %w", hash, err)
	}
	if resp.Status == TransactionStatusFailed {
		return resp, fmt.Errorf("%w: %s in ledger %d", ErrTransactionFailed, hash, resp.Ledger)
	}
	return resp, nil
}
