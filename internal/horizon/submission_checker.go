package horizon

import (
	"context"
	"fmt"
	"time"

	"github.com/stellar/go-stellar-sdk/clients/horizonclient"
)

type SubmissionStatus string

const (
	SubmissionConfirmed SubmissionStatus = "confirmed"
	SubmissionFailed    SubmissionStatus = "failed"
	SubmissionNotFound  SubmissionStatus = "not_found"
)

// CheckResult is the ledger outcome of a transaction. Ledger fields are
// nil while the transaction is not found.
type CheckResult struct {
	Status         SubmissionStatus `json:"status"`
	LedgerSequence *int64           `json:"ledger,omitempty"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// SubmissionChecker looks up whether a transaction made it into a ledger.
type SubmissionChecker struct {
	horizonClient horizonclient.ClientInterface
}

func NewSubmissionChecker(horizonClient horizonclient.ClientInterface) *SubmissionChecker {
	return &SubmissionChecker{horizonClient: horizonClient}
}

func (c *SubmissionChecker) CheckTransaction(ctx context.Context, txHash string) (*CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.horizonClient.TransactionDetail(txHash)
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return &CheckResult{Status: SubmissionNotFound}, nil
		}
		return nil, fmt.Errorf("looking up transaction %s: %w", txHash, err)
	}

	ledger := int64(resp.Ledger)
	closedAt := resp.LedgerCloseTime
	status := SubmissionConfirmed
	if !resp.Successful {
		status = SubmissionFailed
	}

	return &CheckResult{
		Status:         status,
		LedgerSequence: &ledger,
		ClosedAt:       &closedAt,
	}, nil
}
