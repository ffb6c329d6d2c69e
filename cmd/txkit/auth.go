package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stellar-txkit/internal/soroban"
	"github.com/stellar-txkit/internal/xdr"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Sign Soroban authorization entries"}

	var validUntil uint32
	var ledgers uint32
	sign := &cobra.Command{
		Use:   "sign [entry|-]",
		Short: "Sign a base64 SorobanAuthorizationEntry with SIGNING_SECRET_KEY",
		Long: "Sign a base64 SorobanAuthorizationEntry with SIGNING_SECRET_KEY.\n" +
			"Without --valid-until the expiration is the latest ledger reported by\n" +
			"Soroban RPC plus --ledgers.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer := a.cfg.Signer()
			if signer == nil {
				return errors.New("SIGNING_SECRET_KEY is not set")
			}
			b64, err := input(cmd, args)
			if err != nil {
				return err
			}
			var entry xdr.SorobanAuthorizationEntry
			if err := xdr.UnmarshalBase64(b64, &entry); err != nil {
				return err
			}

			if validUntil == 0 {
				client, err := a.rpcClient()
				if err != nil {
					return err
				}
				defer client.Close()
				ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
				defer cancel()
				latest, err := client.GetLatestLedger(ctx)
				if err != nil {
					return err
				}
				validUntil = latest.Sequence + ledgers
				log.Debug().Uint32("latest_ledger", latest.Sequence).Uint32("valid_until", validUntil).Msg("expiration from latest ledger")
			}

			signed, err := soroban.AuthorizeEntry(entry, signer, validUntil, a.cfg.Network())
			if err != nil {
				return err
			}
			if signed.Credentials.Type == xdr.SorobanCredentialsTypeSorobanCredentialsAddress {
				if err := soroban.VerifyEntry(signed, a.cfg.Network()); err != nil {
					return err
				}
			}
			out, err := xdr.MarshalBase64(signed)
			if err != nil {
				return err
			}
			printLine(cmd, out)
			return nil
		},
	}
	sign.Flags().Uint32Var(&validUntil, "valid-until", 0, "last ledger the signature is valid for")
	sign.Flags().Uint32Var(&ledgers, "ledgers", 100, "ledgers past the latest one the signature stays valid")
	cmd.AddCommand(sign)
	return cmd
}
