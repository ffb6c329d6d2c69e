package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stellar/go-stellar-sdk/clients/horizonclient"

	"github.com/stellar-txkit/internal/horizon"
	"github.com/stellar-txkit/internal/network"
	"github.com/stellar-txkit/internal/signing"
	"github.com/stellar-txkit/internal/sorobanrpc"
	"github.com/stellar-txkit/internal/txnbuild"
	"github.com/stellar-txkit/internal/txrep"
	"github.com/stellar-txkit/internal/xdr"
)

const requestTimeout = 30 * time.Second

func newTxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "tx", Short: "Convert, hash, sign and submit transaction envelopes"}

	cmd.AddCommand(&cobra.Command{
		Use:   "decode [envelope|-]",
		Short: "Print a base64 envelope as txrep",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			text, err := txrep.FromBase64(b64)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "encode [file|-]",
		Short: "Encode a txrep file as a base64 envelope",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 && args[0] != "-" {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				text = string(data)
			} else {
				var err error
				if text, err = input(cmd, nil); err != nil {
					return err
				}
			}
			b64, err := txrep.ToBase64(text)
			if err != nil {
				return err
			}
			printLine(cmd, b64)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "hash [envelope|-]",
		Short: "Print the network hash of an envelope",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			var env xdr.TransactionEnvelope
			if err := xdr.UnmarshalBase64(b64, &env); err != nil {
				return err
			}
			hash, err := a.cfg.Network().HashEnvelope(env)
			if err != nil {
				return err
			}
			printLine(cmd, network.HashHex(hash))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sign [envelope|-]",
		Short: "Sign an envelope with SIGNING_SECRET_KEY",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.SigningSecretKey == "" {
				return errors.New("SIGNING_SECRET_KEY is not set")
			}
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			signer, err := signing.NewSigner(a.cfg.SigningSecretKey, a.cfg.Network())
			if err != nil {
				return err
			}
			signed, hash, err := signer.Sign(b64)
			if err != nil {
				return err
			}
			log.Info().Str("hash", hash).Str("signer", signer.PublicKey()).Msg("signed")
			printLine(cmd, signed)
			return nil
		},
	})

	var candidates []string
	inspect := &cobra.Command{
		Use:   "inspect [envelope|-]",
		Short: "Summarize an envelope and check its signatures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			summary, err := signing.NewInspector(a.cfg.Network()).Inspect(b64, candidates...)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	}
	inspect.Flags().StringSliceVar(&candidates, "signer", nil, "extra addresses to match signatures against")
	cmd.AddCommand(inspect)

	var viaRPC bool
	submit := &cobra.Command{
		Use:   "submit [envelope|-]",
		Short: "Submit a signed envelope to Horizon, or to Soroban RPC with --rpc",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			if viaRPC {
				return a.submitRPC(ctx, cmd, b64)
			}
			submitter := horizon.NewSubmitter(a.horizonClient(), prometheus.NewRegistry())
			result, err := submitter.Submit(ctx, base64Envelope(b64))
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	submit.Flags().BoolVar(&viaRPC, "rpc", false, "submit through Soroban RPC and wait for the result")
	cmd.AddCommand(submit)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <hash>",
		Short: "Report whether a transaction made it into a ledger, according to Horizon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			result, err := horizon.NewSubmissionChecker(a.horizonClient()).CheckTransaction(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prepare [envelope|-]",
		Short: "Simulate a Soroban transaction and apply its footprint, auth and resource fee",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			generic, err := txnbuild.TransactionFromXDR(b64)
			if err != nil {
				return err
			}
			tx, ok := generic.Transaction()
			if !ok {
				return errors.New("fee bump envelopes cannot be prepared; prepare the inner transaction")
			}
			client, err := a.rpcClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			sim, err := client.SimulateTransaction(ctx, b64)
			if err != nil {
				return err
			}
			prepared, err := sorobanrpc.AssembleTransaction(tx, sim)
			if err != nil {
				return err
			}
			out, err := prepared.Base64()
			if err != nil {
				return err
			}
			log.Info().
				Int64("min_resource_fee", sim.MinResourceFee).
				Uint64("cpu_insns", sim.Cost.CPUInstructions).
				Uint32("latest_ledger", sim.LatestLedger).
				Msg("simulated")
			printLine(cmd, out)
			return nil
		},
	})
	return cmd
}

// base64Envelope submits an already encoded envelope.
type base64Envelope string

func (e base64Envelope) Base64() (string, error) { return string(e), nil }

func (a *app) horizonClient() *horizonclient.Client {
	return &horizonclient.Client{
		HorizonURL: a.cfg.DefaultHorizonURL(),
		HTTP:       &http.Client{Timeout: requestTimeout},
	}
}

func (a *app) rpcClient() (*sorobanrpc.Client, error) {
	url := a.cfg.DefaultSorobanRPCURL()
	if url == "" {
		return nil, fmt.Errorf("no default Soroban RPC server for %s: set SOROBAN_RPC_URL", a.cfg.StellarNetwork)
	}
	return sorobanrpc.NewClient(url, nil), nil
}

func (a *app) submitRPC(ctx context.Context, cmd *cobra.Command, b64 string) error {
	client, err := a.rpcClient()
	if err != nil {
		return err
	}
	defer client.Close()

	sent, err := client.SendTransaction(ctx, b64)
	if err != nil {
		return err
	}
	switch sent.Status {
	case sorobanrpc.SendStatusPending, sorobanrpc.SendStatusDuplicate:
	default:
		return fmt.Errorf("transaction %s not accepted: %s %s", sent.Hash, sent.Status, sent.ErrorResultXDR)
	}
	log.Info().Str("hash", sent.Hash).Msg("waiting for transaction")
	result, err := client.WaitForTransaction(ctx, sent.Hash)
	if err != nil && !errors.Is(err, sorobanrpc.ErrTransactionFailed) {
		return err
	}
	if perr := printJSON(cmd, result); perr != nil {
		return perr
	}
	return err
}
