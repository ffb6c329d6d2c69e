package signing

import (
	"encoding/hex"
	"fmt"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/txnbuild"
	"github.com/stellar-txkit/internal/xdr"
)

// OperationSummary describes one operation of an inspected transaction.
type OperationSummary struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	MovesNative bool   `json:"moves_native,omitempty"`
	Reserves    int    `json:"reserves,omitempty"`
}

// SignatureSummary is one envelope signature and the candidate key it
// verifies under, if any.
type SignatureSummary struct {
	Hint   string `json:"hint"`
	Signer string `json:"signer,omitempty"`
	Valid  bool   `json:"valid"`
}

type FeeBumpSummary struct {
	FeeAccount string             `json:"fee_account"`
	MaxFee     int64              `json:"max_fee"`
	Hash       string             `json:"hash"`
	Signatures []SignatureSummary `json:"signatures"`
}

// Summary holds the outcome of inspecting an envelope. For fee bumps the
// top level fields describe the inner transaction.
type Summary struct {
	EnvelopeType   string             `json:"envelope_type"`
	Hash           string             `json:"hash"`
	SourceAccount  string             `json:"source_account"`
	Sequence       int64              `json:"sequence"`
	MaxFee         int64              `json:"max_fee"`
	Operations     []OperationSummary `json:"operations"`
	Signatures     []SignatureSummary `json:"signatures"`
	ReservesLocked int                `json:"reserves_locked"`
	Soroban        bool               `json:"soroban"`
	FeeBump        *FeeBumpSummary    `json:"fee_bump,omitempty"`
}

// Inspector decodes envelopes and summarizes them for a network.
type Inspector struct {
	network network.Network
}

// NewInspector creates a new transaction inspector for the given network.
func NewInspector(n network.Network) *Inspector {
	return &Inspector{network: n}
}

// Inspect decodes txXDR and summarizes it. Signatures are matched against
// the transaction and operation source accounts plus the extra candidate
// addresses.
func (i *Inspector) Inspect(txXDR string, candidates ...string) (*Summary, error) {
	genericTx, err := txnbuild.TransactionFromXDR(txXDR)
	if err != nil {
		return nil, fmt.Errorf("decode transaction XDR: %w", err)
	}

	extra := make([]keypair.KP, 0, len(candidates))
	for _, c := range candidates {
		kp, err := keypair.ParseAddress(c)
		if err != nil {
			return nil, fmt.Errorf("candidate signer %q: %w", c, err)
		}
		extra = append(extra, kp)
	}

	if fb, ok := genericTx.FeeBump(); ok {
		summary, err := i.inspectTransaction(fb.InnerTransaction(), extra)
		if err != nil {
			return nil, err
		}
		summary.EnvelopeType = xdr.EnvelopeTypeEnvelopeTypeTxFeeBump.String()

		hash, err := fb.HashHex(i.network)
		if err != nil {
			return nil, fmt.Errorf("compute fee bump hash: %w", err)
		}
		signers, err := candidateSigners(append([]string{fb.FeeAccount()}, candidates...))
		if err != nil {
			return nil, err
		}
		checks, err := fb.VerifySignatures(i.network, signers...)
		if err != nil {
			return nil, err
		}
		summary.FeeBump = &FeeBumpSummary{
			FeeAccount: fb.FeeAccount(),
			MaxFee:     fb.MaxFee(),
			Hash:       hash,
			Signatures: signatureSummaries(checks),
		}
		return summary, nil
	}

	tx, _ := genericTx.Transaction()
	return i.inspectTransaction(tx, extra)
}

func (i *Inspector) inspectTransaction(tx *txnbuild.Transaction, extra []keypair.KP) (*Summary, error) {
	sourceAccount := tx.SourceAccount().AccountID
	hash, err := tx.HashHex(i.network)
	if err != nil {
		return nil, fmt.Errorf("compute transaction hash: %w", err)
	}

	env, err := tx.ToXDR()
	if err != nil {
		return nil, fmt.Errorf("copy envelope: %w", err)
	}
	summary := &Summary{
		EnvelopeType:  env.Type.String(),
		Hash:          hash,
		SourceAccount: sourceAccount,
		Sequence:      tx.SequenceNumber(),
		MaxFee:        tx.MaxFee(),
	}

	sources := []string{sourceAccount}
	for idx, op := range tx.Operations() {
		xdrOp, err := op.BuildXDR()
		if err != nil {
			return nil, fmt.Errorf("build XDR for operation %d: %w", idx, err)
		}
		opSource := getOperationSource(op, sourceAccount)
		sources = append(sources, opSource)

		reserves := reservesForOperation(op)
		summary.Operations = append(summary.Operations, OperationSummary{
			Type:        xdrOp.Body.Type.String(),
			Source:      opSource,
			MovesNative: movesNative(op),
			Reserves:    reserves,
		})
		summary.ReservesLocked += reserves
		summary.Soroban = summary.Soroban || isSoroban(op)
	}

	signers, err := candidateSigners(sources)
	if err != nil {
		return nil, err
	}
	checks, err := tx.VerifySignatures(i.network, append(signers, extra...)...)
	if err != nil {
		return nil, err
	}
	summary.Signatures = signatureSummaries(checks)
	return summary, nil
}

// candidateSigners parses G addresses, skipping duplicates and muxed
// accounts, which cannot sign.
func candidateSigners(addresses []string) ([]keypair.KP, error) {
	seen := make(map[string]bool, len(addresses))
	out := make([]keypair.KP, 0, len(addresses))
	for _, a := range addresses {
		if seen[a] || (len(a) > 0 && a[0] == 'M') {
			continue
		}
		seen[a] = true
		kp, err := keypair.ParseAddress(a)
		if err != nil {
			return nil, fmt.Errorf("signer %q: %w", a, err)
		}
		out = append(out, kp)
	}
	return out, nil
}

func signatureSummaries(checks []txnbuild.SignatureCheck) []SignatureSummary {
	out := make([]SignatureSummary, len(checks))
	for i, c := range checks {
		out[i] = SignatureSummary{Hint: hex.EncodeToString(c.Hint[:]), Signer: c.Signer, Valid: c.Valid}
	}
	return out
}
