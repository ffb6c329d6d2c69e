package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stellar-txkit/internal/horizon"
)

type accountSigner struct {
	Key    string `json:"key"`
	Weight int32  `json:"weight"`
}

type accountInfo struct {
	AccountID       string          `json:"account_id"`
	Sequence        int64           `json:"sequence"`
	Available       string          `json:"available_xlm"`
	Locked          string          `json:"locked_xlm"`
	MediumThreshold int32           `json:"medium_threshold"`
	Signers         []accountSigner `json:"signers"`
}

func newAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "account <address>",
		Short: "Show an account's sequence, native balance and signers from Horizon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			loader := horizon.NewAccountLoader(a.horizonClient())

			account, err := loader.Load(ctx, args[0])
			if err != nil {
				return err
			}
			available, locked, err := loader.Balance(ctx, args[0])
			if err != nil {
				return err
			}
			signers, threshold, err := loader.Signers(ctx, args[0])
			if err != nil {
				return err
			}

			out := accountInfo{
				AccountID:       account.AccountID,
				Sequence:        account.Sequence,
				Available:       available,
				Locked:          locked,
				MediumThreshold: threshold,
				Signers:         make([]accountSigner, 0, len(signers)),
			}
			for _, s := range signers {
				out.Signers = append(out.Signers, accountSigner{Key: s.Key, Weight: s.Weight})
			}
			return printJSON(cmd, out)
		},
	}
}
