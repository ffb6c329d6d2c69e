package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stellar-txkit/internal/stellartoml"
)

func newTOMLCmd(*app) *cobra.Command {
	cmd := &cobra.Command{Use: "toml", Short: "Read stellar.toml documents"}

	var allowHTTP bool
	fetch := &cobra.Command{
		Use:   "fetch <domain>",
		Short: "Fetch, validate and print the stellar.toml of a home domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := stellartoml.NewResolver(nil)
			if allowHTTP {
				resolver.AllowHTTP()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			info, err := resolver.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
	fetch.Flags().BoolVar(&allowHTTP, "allow-http", false, "fetch over plain http")
	cmd.AddCommand(fetch)
	return cmd
}
