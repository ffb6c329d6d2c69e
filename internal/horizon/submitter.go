package horizon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/stellar/go-stellar-sdk/clients/horizonclient"

	"github.com/stellar-txkit/internal/xdr"
)

const metricsNamespace = "txkit"

// ErrRejected is returned when Horizon accepts the request but the network
// rejects the transaction.
var ErrRejected = errors.New("transaction rejected")

// Envelope is a signed transaction or fee bump ready for submission.
type Envelope interface {
	Base64() (string, error)
}

// Result is the outcome of a successful submission.
type Result struct {
	Hash       string `json:"hash"`
	Ledger     int32  `json:"ledger"`
	FeeCharged int64  `json:"fee_charged"`
	ResultXDR  string `json:"result_xdr"`
}

// Submitter sends envelopes to Horizon and records submission metrics.
type Submitter struct {
	horizonClient horizonclient.ClientInterface
	submitMetric  *prometheus.SummaryVec
	opCountMetric *prometheus.SummaryVec
}

// NewSubmitter registers the submission metrics with registry.
func NewSubmitter(horizonClient horizonclient.ClientInterface, registry prometheus.Registerer) *Submitter {
	submitMetric := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: metricsNamespace, Subsystem: "txsub", Name: "submission_duration_seconds",
		Help:       "submission durations to Horizon, sliding window = 10m",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
	opCountMetric := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: metricsNamespace, Subsystem: "txsub", Name: "operation_count",
		Help:       "number of operations included in a submitted transaction, sliding window = 10m",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
	registry.MustRegister(submitMetric, opCountMetric)

	return &Submitter{
		horizonClient: horizonClient,
		submitMetric:  submitMetric,
		opCountMetric: opCountMetric,
	}
}

// Submit sends tx and waits for Horizon's synchronous response.
func (s *Submitter) Submit(ctx context.Context, tx Envelope) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	envelopeBase64, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}
	var envelope xdr.TransactionEnvelope
	if err := xdr.UnmarshalBase64(envelopeBase64, &envelope); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	var opCount int
	if inner, ok := envelope.InnerTransaction(); ok {
		opCount = len(inner.Operations)
	}

	startTime := time.Now()
	resp, err := s.horizonClient.SubmitTransactionXDR(envelopeBase64)
	duration := time.Since(startTime).Seconds()

	var status string
	switch {
	case err != nil && horizonclient.GetError(err) != nil:
		status = "rejected"
	case err != nil:
		status = "request_error"
	case !resp.Successful:
		status = "failed"
	default:
		status = "success"
	}
	label := prometheus.Labels{"status": status}
	s.submitMetric.With(label).Observe(duration)
	s.opCountMetric.With(label).Observe(float64(opCount))

	if err != nil {
		if herr := horizonclient.GetError(err); herr != nil {
			codes := resultCodes(herr)
			log.Warn().Str("codes", codes).Msg("transaction rejected by horizon")
			return nil, fmt.Errorf("%w: %s", ErrRejected, codes)
		}
		return nil, fmt.Errorf("submit transaction: %w", err)
	}
	if !resp.Successful {
		return nil, fmt.Errorf("%w: transaction %s failed in ledger %d", ErrRejected, resp.Hash, resp.Ledger)
	}

	log.Info().Str("hash", resp.Hash).Int32("ledger", resp.Ledger).Msg("transaction submitted")
	return &Result{Hash: resp.Hash, Ledger: resp.Ledger, FeeCharged: resp.FeeCharged, ResultXDR: resp.ResultXdr}, nil
}

func resultCodes(herr *horizonclient.Error) string {
	codes, err := herr.ResultCodes()
	if err != nil || codes == nil {
		return herr.Problem.Title
	}
	parts := []string{codes.TransactionCode}
	if codes.InnerTransactionCode != "" {
		parts = append(parts, codes.InnerTransactionCode)
	}
	parts = append(parts, codes.OperationCodes...)
	return strings.Join(parts, ",")
}
