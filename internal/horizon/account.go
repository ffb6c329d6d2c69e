// Package horizon loads accounts from and submits transactions to a Horizon
// server.
package horizon

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellar/go-stellar-sdk/amount"
	"github.com/stellar/go-stellar-sdk/clients/horizonclient"

	"github.com/stellar-txkit/internal/txnbuild"
)

// BaseReserveStroops is the Stellar base reserve in stroops (0.5 XLM).
const BaseReserveStroops int64 = 5_000_000

// AccountLoader queries Stellar account data via Horizon.
type AccountLoader struct {
	horizonClient horizonclient.ClientInterface
}

func NewAccountLoader(horizonClient horizonclient.ClientInterface) *AccountLoader {
	return &AccountLoader{horizonClient: horizonClient}
}

// Load returns the account with its current sequence number, ready to be
// used as a transaction source.
func (a *AccountLoader) Load(ctx context.Context, accountID string) (*txnbuild.SimpleAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	account, err := a.horizonClient.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", accountID, err)
	}
	seq, err := account.GetSequenceNumber()
	if err != nil {
		return nil, fmt.Errorf("account %s sequence: %w", accountID, err)
	}
	sa := txnbuild.NewSimpleAccount(accountID, seq)
	return &sa, nil
}

// Balance returns the native XLM balance of an account split into the
// spendable part and the part locked by reserves, both formatted like
// "100.5000000".
func (a *AccountLoader) Balance(ctx context.Context, accountID string) (available, locked string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	account, err := a.horizonClient.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		return "", "", fmt.Errorf("load account %s: %w", accountID, err)
	}

	var balanceStroops int64
	for _, b := range account.Balances {
		if b.Asset.Type == "native" {
			balanceStroops, err = amount.ParseInt64(b.Balance)
			if err != nil {
				return "", "", fmt.Errorf("parse balance: %w", err)
			}
			break
		}
	}

	// minBalance = (2 + subentryCount + numSponsoring - numSponsored) * baseReserve
	minBalance := (2 + int64(account.SubentryCount) + int64(account.NumSponsoring) - int64(account.NumSponsored)) * BaseReserveStroops

	spendable := balanceStroops - minBalance
	if spendable < 0 {
		spendable = 0
	}
	return amount.StringFromInt64(spendable), amount.StringFromInt64(minBalance), nil
}

// ErrAccountNotFound is returned when Horizon has no such account.
var ErrAccountNotFound = errors.New("account not found")

// Signer is an ed25519 account signer with its weight.
type Signer struct {
	Key    string
	Weight int32
}

// Signers returns the ed25519 signers of an account, master key included,
// and its medium threshold.
func (a *AccountLoader) Signers(ctx context.Context, accountID string) ([]Signer, int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	account, err := a.horizonClient.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return nil, 0, fmt.Errorf("load account %s: %w", accountID, err)
	}
	signers := make([]Signer, 0, len(account.Signers))
	for _, s := range account.Signers {
		if s.Type != "ed25519_public_key" || s.Weight == 0 {
			continue
		}
		signers = append(signers, Signer{Key: s.Key, Weight: s.Weight})
	}
	return signers, int32(account.Thresholds.MedThreshold), nil
}
